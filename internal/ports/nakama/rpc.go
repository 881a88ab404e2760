package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"tetramaster/internal/domain"
)

// CollectionResponse lists the caller's cards.
type CollectionResponse struct {
	Cards []domain.Card `json:"cards"`
}

// rpcListCollection returns the cards owned by the calling user.
//
// Payload: unused.
// Returns: JSON CollectionResponse.
func rpcListCollection(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	cards, err := NewNakamaCollectionAdapter(nk).LoadCollection(ctx, userID)
	if err != nil {
		logger.Error("rpcListCollection [User:%s]: %v", userID, err)
		return "", err
	}
	if cards == nil {
		cards = []domain.Card{}
	}

	b, err := json.Marshal(CollectionResponse{Cards: cards})
	if err != nil {
		return "", fmt.Errorf("failed to marshal collection: %w", err)
	}
	return string(b), nil
}

package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"tetramaster/internal/app/onboarding"
	"tetramaster/internal/config"
	"tetramaster/internal/deck"
	"tetramaster/internal/domain"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice is triggered after an account is authenticated.
// It names new accounts and grants their starter collection.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	// Check if the account was just created
	if out.Created {
		userID := ""
		if ctxUserID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); ok {
			userID = ctxUserID
		}
		if userID == "" {
			// Fall back to the uid claim of the freshly issued session token.
			resolvedID, err := extractUserIDFromToken(out.Token)
			if err != nil {
				logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
				return err
			}
			userID = resolvedID
		}

		logger.Info("Onboarding new user %s", userID)

		types, err := config.LoadCardTypes()
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to load card types: %v", err)
			return err
		}
		dealer := deck.NewGenerator(domain.NewDice(nil, logger), types)

		service := onboarding.NewService(NewNakamaAccountAdapter(nk), NewNakamaStarterCollectionAdapter(nk), dealer, nil)
		result, err := service.OnboardNewUser(ctx, userID)
		if result.ProfileUpdateErr != nil {
			logger.Warn("AfterAuthenticateDevice: Failed to update profile for user %s: %v", userID, result.ProfileUpdateErr)
		}
		if err == nil && !result.StarterGranted {
			logger.Info("AfterAuthenticateDevice: Starter collection already granted for user %s", userID)
		}
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Onboarding failed for user %s: %v", userID, err)
			return err
		}
	}
	return nil
}

// extractUserIDFromToken reads the uid claim of a session token. The token
// was just issued by Nakama, so its signature is not checked here.
func extractUserIDFromToken(token string) (string, error) {
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected token claims")
	}

	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("token claims missing uid")
	}

	return uid, nil
}

package nakama

import (
	"context"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-key"))
	require.NoError(t, err)
	return token
}

func TestExtractUserIDFromToken(t *testing.T) {
	token := sessionToken(t, jwt.MapClaims{
		"uid": "5c1a7a2e-user",
		"usn": "device-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	uid, err := extractUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5c1a7a2e-user", uid)
}

func TestExtractUserIDFromToken_Invalid(t *testing.T) {
	_, err := extractUserIDFromToken("not-a-token")
	assert.Error(t, err)

	_, err = extractUserIDFromToken(sessionToken(t, jwt.MapClaims{"usn": "no-uid"}))
	assert.Error(t, err)
}

func TestAfterAuthenticateDevice_OnboardsNewAccount(t *testing.T) {
	nk := newFakeNakama()
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user-1")

	err := AfterAuthenticateDevice(ctx, noopLogger{}, nil, nk, &api.Session{Created: true}, &api.AuthenticateDeviceRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, nk.profile["user-1"])

	cards, err := NewNakamaCollectionAdapter(nk).LoadCollection(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cards, 5)
	for _, c := range cards {
		assert.NotEmpty(t, c.Identity.UniqueID)
	}

	// A repeated hook keeps the first collection.
	err = AfterAuthenticateDevice(ctx, noopLogger{}, nil, nk, &api.Session{Created: true}, &api.AuthenticateDeviceRequest{})
	require.NoError(t, err)
	again, err := NewNakamaCollectionAdapter(nk).LoadCollection(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cards, again)
}

func TestAfterAuthenticateDevice_UsesTokenWithoutContextUser(t *testing.T) {
	nk := newFakeNakama()
	token := sessionToken(t, jwt.MapClaims{"uid": "user-2"})

	err := AfterAuthenticateDevice(context.Background(), noopLogger{}, nil, nk, &api.Session{Created: true, Token: token}, &api.AuthenticateDeviceRequest{})
	require.NoError(t, err)
	assert.Contains(t, nk.keys(), "collection/cards/user-2")
}

func TestAfterAuthenticateDevice_SkipsExistingAccount(t *testing.T) {
	nk := newFakeNakama()

	err := AfterAuthenticateDevice(context.Background(), noopLogger{}, nil, nk, &api.Session{Created: false}, &api.AuthenticateDeviceRequest{})
	require.NoError(t, err)
	assert.Empty(t, nk.keys())
}

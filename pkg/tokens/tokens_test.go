package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	secret := []byte("access-secret")
	userID := uuid.NewString()
	exp := time.Now().Add(15 * time.Minute)

	tok, err := SignAccessToken(userID, "admin", exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	_, err = AccessClaimsFromToken(tok, []byte("other"))
	require.Error(t, err)
}

func TestAccessToken_Expired(t *testing.T) {
	secret := []byte("access-secret")
	tok, err := SignAccessToken(uuid.NewString(), "user", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRefreshToken_CarriesJTI(t *testing.T) {
	secret := []byte("refresh-secret")
	tok, jti, err := SignRefreshToken("u1", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "u1", claims.Subject)
}

func TestSha256Hex(t *testing.T) {
	assert.Len(t, Sha256Hex("abc"), 64)
	assert.Equal(t, Sha256Hex("abc"), Sha256Hex("abc"))
	assert.NotEqual(t, Sha256Hex("abc"), Sha256Hex("abd"))
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	shared := []byte("same-secret")
	exp := time.Now().Add(time.Hour)
	userID := uuid.NewString()

	refresh, _, err := SignRefreshToken(userID, exp, shared)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(refresh, shared)
	require.ErrorIs(t, err, ErrWrongTokenType)

	access, err := SignAccessToken(userID, "admin", exp, shared)
	require.NoError(t, err)
	_, err = RefreshClaimsFromToken(access, shared)
	require.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := RefreshClaimsFromToken(refresh, shared)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.Type)
}

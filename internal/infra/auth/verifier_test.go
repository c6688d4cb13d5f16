package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDirectoryVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	verifier := NewDirectoryVerifier(map[string]string{
		"manager-01": string(hash),
	})
	ctx := context.Background()

	assert.NoError(t, verifier.Verify(ctx, "manager-01", "open-sesame"))
	assert.Error(t, verifier.Verify(ctx, "manager-01", "wrong"))
	assert.Error(t, verifier.Verify(ctx, "manager-99", "open-sesame"))
}

func signedToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestJWTVerifier(t *testing.T) {
	const secret = "test-secret"
	verifier := NewJWTVerifier(secret)
	ctx := context.Background()

	valid := signedToken(t, secret, "manager-01")
	assert.NoError(t, verifier.Verify(ctx, "manager-01", valid))

	// The token subject must name the claimed approver.
	assert.Error(t, verifier.Verify(ctx, "manager-02", valid))

	// A token signed with another key is rejected.
	forged := signedToken(t, "other-secret", "manager-01")
	assert.Error(t, verifier.Verify(ctx, "manager-01", forged))

	assert.Error(t, verifier.Verify(ctx, "manager-01", "not-a-token"))
}

func TestJWTVerifier_RejectsExpiredToken(t *testing.T) {
	const secret = "test-secret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "manager-01",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	verifier := NewJWTVerifier(secret)
	assert.Error(t, verifier.Verify(context.Background(), "manager-01", signed))
}

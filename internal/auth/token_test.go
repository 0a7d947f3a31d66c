package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", 1)

	tok, err := issuer.Issue(42, "farmer@example.com", "seller")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "farmer@example.com", claims.Email)
	require.Equal(t, "seller", claims.AccountType)
	require.Equal(t, "42", claims.Subject)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer("secret-a", 1).Issue(1, "a@b.c", "buyer")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", 1).Verify(tok)
	require.Error(t, err)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", 1)

	// Hand-build an already expired token with the same secret.
	claims := Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = issuer.Verify(expired)
	require.Error(t, err)
}

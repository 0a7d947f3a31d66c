package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a Farmify session token. Replaces the raw session-id
// header of earlier iterations: tokens are signed and expire server-side.
type Claims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

// TokenIssuer creates and verifies HS256 session tokens.
type TokenIssuer struct {
	secret  []byte
	expires time.Duration
}

// NewTokenIssuer creates an issuer with the given signing secret and token
// lifetime in hours.
func NewTokenIssuer(secret string, expiresHours int) *TokenIssuer {
	if expiresHours <= 0 {
		expiresHours = 24
	}
	return &TokenIssuer{
		secret:  []byte(secret),
		expires: time.Duration(expiresHours) * time.Hour,
	}
}

// Issue signs a session token for the given user.
func (t *TokenIssuer) Issue(userID uint, email, accountType string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		Email:       email,
		AccountType: accountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expires)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a session token, returning its claims.
func (t *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify session token: %w", err)
	}
	return claims, nil
}

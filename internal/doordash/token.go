package doordash

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"farmify/utils"
)

// tokenTTL is the DoorDash-mandated lifetime of a request token.
const tokenTTL = 300 * time.Second

// signToken builds the short-lived HS256 bearer token DoorDash Drive
// expects: iss/aud/exp/iat/jti claims, with the key id and the dd-ver
// marker carried in the JOSE header. The signing secret is issued
// base64url-encoded and must be decoded before signing.
func signToken(developerID, keyID, signingSecret string) (string, error) {
	key, err := base64.RawURLEncoding.DecodeString(signingSecret)
	if err != nil {
		return "", fmt.Errorf("doordash: decode signing secret: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud": "doordash",
		"iss": developerID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"jti": utils.GenerateID(),
	})
	token.Header["kid"] = keyID
	token.Header["dd-ver"] = "DD-JWT-V1"

	return token.SignedString(key)
}

// Package auth issues and verifies the optional bearer tokens used to
// attribute uploads to a principal.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/filedrophq/filedrop/internal/common"
)

// Claims carries the registered claims plus the principal name recorded
// against uploads.
type Claims struct {
	jwt.RegisteredClaims
	Principal string
}

// GenerateToken signs an HS256 token naming principal, valid for
// validityDuration.
func GenerateToken(principal string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Principal: principal,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetPrincipalFromToken verifies tokenString and returns the principal it
// names.
func GetPrincipalFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrorInvalidToken
	}

	return claims.Principal, nil
}

package utils

import (
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signs the given claims with HS256 and the provided secret.
func GenerateJWT(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a JWT token string into claims, validating its signature and standard claims.
// Errors are the jwt package's own (jwt.ErrTokenExpired, jwt.ErrTokenSignatureInvalid, ...).
func ParseAndValidateJWT(tokenString string, secretKey string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}

	if !token.Valid {
		return jwt.ErrTokenSignatureInvalid
	}

	return nil
}

package utils

import (
	"crypto/subtle"
)

// CompareRefreshTokens compares a presented refresh token with the stored one in constant time.
func CompareRefreshTokens(presented string, stored string) bool {
	if presented == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}

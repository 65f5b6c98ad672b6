package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT claim set accepted by the API. The subject claim
// carries the user id that owns desktop icons and resources.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"; empty when the issuer has no roles
}

// GetUserID returns the user ID from the JWT subject claim
func (c *UserClaims) GetUserID() string {
	return c.Subject
}

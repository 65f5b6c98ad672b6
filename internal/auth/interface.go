package auth

import "webtop/internal/domain/models"

// JWTVerifier validates bearer tokens for the auth middleware
type JWTVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is missing, invalid or expired.
	VerifyToken(tokenString string) (*models.UserClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}

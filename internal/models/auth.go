package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload issued by the auth collaborator.
// Only the subject identity is consumed here.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ActorID returns the acting user id, falling back to the registered subject.
func (c *JWTClaims) ActorID() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

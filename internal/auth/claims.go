package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are the only supported JWT claims shape for this service. The
// authentication provider itself is external; this layer only consumes an
// authenticated principal: an id, a display name, and the organization the
// principal acts for (recorded on access-ledger entries).
type Claims struct {
	jwt.RegisteredClaims

	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Organization string    `json:"org,omitempty"`
	TokenType    TokenType `json:"token_type"`
}

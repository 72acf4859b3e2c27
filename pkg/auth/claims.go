package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data available when minting a storefront token.
type SessionTokenPayload struct {
	SessionID  string
	CustomerID *int
	JTI        string
}

// SessionTokenClaims represents the typed JWT presented by storefront clients.
// Tokens are normally minted by the external CMS; the storefront only parses
// them, but keeps a mint helper for local development and tests.
type SessionTokenClaims struct {
	SessionID  string `json:"session_id"`
	CustomerID *int   `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

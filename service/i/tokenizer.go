package i

import "time"

// Claims is the payload of a bearer token. Issued tokens carry playerID and
// username; exp, iat and iss are owned by the Tokenizer.
type Claims = map[string]any

// Tokenizer issues and verifies the bearer tokens that identify a player.
type Tokenizer interface {
	// Generate signs claims into a token that expires after ttl.
	Generate(claims Claims, ttl time.Duration) (string, error)

	// Decode verifies signature, expiry and issuer and returns the claims.
	Decode(token string) (Claims, error)
}

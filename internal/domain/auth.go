package domain

import "time"

// RoleAdmin is the token role allowed to use the event write path.
const RoleAdmin = "admin"

// TokenIssuer issues signed tokens for a subject holding the given role.
type TokenIssuer interface {
	Issue(subject, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject and role.
type TokenVerifier interface {
	Verify(token string) (subject, role string, err error)
}

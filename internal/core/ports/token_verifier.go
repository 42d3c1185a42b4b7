package ports

// Principal identifies the caller of a protected operation.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the caller holds the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenVerifier validates a bearer credential and extracts the caller's
// identity. Returns errs.ValueIsInvalidError for malformed or expired tokens.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

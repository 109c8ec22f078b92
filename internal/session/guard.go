package session

// Decision is the outcome of a guard check on a protected surface.
type Decision int

const (
	// Allow grants access to the surface.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login surface (no credential).
	RedirectLogin
	// RedirectHome sends a logged-in user back to the staff home (role
	// mismatch).
	RedirectHome
)

// Guard gates navigation into staff and admin surfaces. It is synchronous
// and stateless: every navigation re-reads the store, so a cleared
// credential takes effect on the very next check.
type Guard struct {
	Store Store
}

// Check evaluates access for a surface. An empty required role means any
// authenticated user is allowed; otherwise the stored role must match.
func (g Guard) Check(required Role) Decision {
	cred, ok := g.Store.Get()
	if !ok || cred.Token == "" {
		return RedirectLogin
	}
	if required != "" && cred.Role != required {
		return RedirectHome
	}
	return Allow
}

package session

import "github.com/smartgrade/smartgrade/core/identity"

// Authorize is the route guard: it returns the active identity when it holds one of roles
// (no roles means any authenticated identity).
func (m *Manager) Authorize(roles ...identity.Role) (identity.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loading() {
		return identity.Identity{}, ErrLoading
	}
	if m.current == nil {
		return identity.Identity{}, ErrUnauthenticated
	}
	if !m.current.HasAnyRole(roles...) {
		return identity.Identity{}, ErrForbidden
	}
	return *m.current, nil
}

// RequireGuest guards the login & register views, which are only reachable without a session.
func (m *Manager) RequireGuest() error {
	if m.IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}
	return nil
}

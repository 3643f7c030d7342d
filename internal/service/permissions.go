package service

import "sync"

// Permissions is an in-memory domain.PermissionChecker. The "admin"
// permission implies every other permission.
type Permissions struct {
	mu     sync.RWMutex
	grants map[string]map[string]struct{}
}

// NewPermissions returns an empty permission table.
func NewPermissions() *Permissions {
	return &Permissions{grants: make(map[string]map[string]struct{})}
}

// Grant gives the user a named permission.
func (p *Permissions) Grant(userID, permission string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.grants[userID] == nil {
		p.grants[userID] = make(map[string]struct{})
	}
	p.grants[userID][permission] = struct{}{}
}

// Allow reports whether the user holds the permission, directly or via admin.
func (p *Permissions) Allow(userID, permission string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	perms, ok := p.grants[userID]
	if !ok {
		return false
	}
	if _, ok := perms["admin"]; ok {
		return true
	}
	_, ok = perms[permission]
	return ok
}

package plot

import (
	"sort"
	"sync"

	serr "serex/pkg/errors"
)

// Registry resolves mount points to sessions for rendering surfaces.
// Mounting replaces any previous binding under the same mount point.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Mount binds the session under its mount point
func (r *Registry) Mount(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.MountID()] = s
}

// Lookup returns the session bound to mountID
func (r *Registry) Lookup(mountID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[mountID]
	if !ok {
		return nil, serr.NotFound("mount " + mountID)
	}
	return s, nil
}

// Unmount removes the binding and reports whether one existed
func (r *Registry) Unmount(mountID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[mountID]
	delete(r.sessions, mountID)
	return ok
}

// Mounts lists the bound mount points in sorted order
func (r *Registry) Mounts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

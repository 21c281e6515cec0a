package rbmarshal

import "sync"

// Registry maps class and module names encountered on the wire to
// metadata the reader and writer can use to handle them specially. Most
// consumers never need one: without a Registry every Object/UserMarshal/
// UserDef simply decodes into its generic Value, which is also what
// round-trips through Writer unchanged. A Registry only matters when the
// caller wants to assert that a given class name represents a
// UserMarshal-style or UserDef-style type, or wants class names rejected
// outright when they appear unexpectedly (RegistryMismatch).
type Registry struct {
	mu          sync.RWMutex
	userMarshal map[string]bool
	userDef     map[string]bool
	objects     map[string]bool
}

// NewRegistry returns an empty Registry. A nil *Registry is also valid
// and behaves as if every class name is permitted and untyped.
func NewRegistry() *Registry {
	return &Registry{
		userMarshal: make(map[string]bool),
		userDef:     make(map[string]bool),
		objects:     make(map[string]bool),
	}
}

// RegisterUserMarshal records that class is expected to appear as a
// UserMarshal (marshal_dump/marshal_load protocol) value.
func (r *Registry) RegisterUserMarshal(class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userMarshal[class] = true
}

// RegisterUserDef records that class is expected to appear as a UserDef
// (_dump/_load protocol) value.
func (r *Registry) RegisterUserDef(class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userDef[class] = true
}

// RegisterObject records that class is expected to appear as a plain
// Object.
func (r *Registry) RegisterObject(class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[class] = true
}

// classKind reports which protocol, if any, class was registered under.
// An empty string means "no opinion" — the reader proceeds using
// whatever the wire tag itself says, and never consults this for
// classes it has no entries at all (an empty/nil Registry never rejects
// anything).
func (r *Registry) classKind(class string) string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch {
	case r.userMarshal[class]:
		return "UserMarshal"
	case r.userDef[class]:
		return "UserDef"
	case r.objects[class]:
		return "Object"
	default:
		return ""
	}
}

// hasAnyEntries reports whether any class has been registered at all.
func (r *Registry) hasAnyEntries() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userMarshal) > 0 || len(r.userDef) > 0 || len(r.objects) > 0
}

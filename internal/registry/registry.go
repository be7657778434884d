package registry

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"specweaver/internal/common"
	"specweaver/internal/diagnostic"
	"specweaver/internal/entity"
)

var (
	// ErrInvalidFQN is returned when an FQN does not match segment(.segment)*.
	ErrInvalidFQN = errors.New("invalid FQN")
	// ErrDuplicateFQN is returned when an FQN is already registered.
	ErrDuplicateFQN = errors.New("duplicate FQN")
	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("registry is frozen")
)

// Error is a registration failure carrying a machine-readable code.
type Error struct {
	Code string
	FQN  string
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v %q", e.err, e.FQN)
}

// Unwrap returns the sentinel error, so errors.Is works against ErrInvalidFQN and friends.
func (e *Error) Unwrap() error {
	return e.err
}

// Registry maps FQNs to entity specs.
type Registry struct {
	mu sync.RWMutex

	// entities maps FQN to the registered spec.
	entities map[string]*entity.EntitySpec
	// packages maps a package name to the FQNs registered in it, in registration order.
	packages map[string][]string
	// byName maps a simple name to the FQNs that end with it.
	byName map[string][]string
	frozen bool
}

// New creates a new empty Registry.
func New() *Registry {
	return &Registry{
		entities: make(map[string]*entity.EntitySpec),
		packages: make(map[string][]string),
		byName:   make(map[string][]string),
	}
}

// Register stores spec under spec.FQN.
// The returned error is an *Error wrapping ErrInvalidFQN, ErrDuplicateFQN or ErrFrozen.
func (r *Registry) Register(spec *entity.EntitySpec) error {
	if spec == nil {
		return &Error{Code: diagnostic.CodeInvalidFQN, err: ErrInvalidFQN}
	}

	if !ValidFQN(spec.FQN) {
		return &Error{Code: diagnostic.CodeInvalidFQN, FQN: spec.FQN, err: ErrInvalidFQN}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &Error{Code: diagnostic.CodeRegistryFrozen, FQN: spec.FQN, err: ErrFrozen}
	}

	if _, ok := r.entities[spec.FQN]; ok {
		return &Error{Code: diagnostic.CodeDuplicateFQN, FQN: spec.FQN, err: ErrDuplicateFQN}
	}

	r.entities[spec.FQN] = spec

	pkg := common.PackageOf(spec.FQN)
	r.packages[pkg] = append(r.packages[pkg], spec.FQN)

	name := common.SimpleName(spec.FQN)
	r.byName[name] = append(r.byName[name], spec.FQN)

	return nil
}

// Lookup returns the spec registered under fqn, or nil and false.
func (r *Registry) Lookup(fqn string) (*entity.EntitySpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.entities[fqn]

	return spec, ok
}

// Exists reports whether fqn is registered.
func (r *Registry) Exists(fqn string) bool {
	_, ok := r.Lookup(fqn)
	return ok
}

// ListByPackage returns the specs registered in the given package, in registration order.
// The empty package holds single-segment FQNs.
func (r *Registry) ListByPackage(name string) []*entity.EntitySpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fqns := r.packages[name]
	out := make([]*entity.EntitySpec, 0, len(fqns))

	for _, fqn := range fqns {
		out = append(out, r.entities[fqn])
	}

	return out
}

// FindByName returns the FQNs whose last segment equals name, sorted.
func (r *Registry) FindByName(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.byName[name])
	sort.Strings(out)

	return out
}

// Names returns every registered FQN, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entities))
	for fqn := range r.entities {
		out = append(out, fqn)
	}

	sort.Strings(out)

	return out
}

// All returns every registered spec sorted by FQN.
func (r *Registry) All() []*entity.EntitySpec {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.EntitySpec, 0, len(names))
	for _, fqn := range names {
		out = append(out, r.entities[fqn])
	}

	return out
}

// Size returns the number of registered specs.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}

// Freeze makes the registry read-only. Later Register calls fail with ErrFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Clear removes every entry and lifts the freeze.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = make(map[string]*entity.EntitySpec)
	r.packages = make(map[string][]string)
	r.byName = make(map[string][]string)
	r.frozen = false
}

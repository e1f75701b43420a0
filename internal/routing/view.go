package routing

import (
	"fmt"
	"sort"
)

// ViewID identifies a renderable view known to the application
type ViewID string

// View is the component a route mounts. The rendering layer decides how to
// draw it; the router only hands it over
type View interface {
	ID() ViewID
	Title() string
}

// ViewFactory constructs a view instance
type ViewFactory func() View

// Registry maps view identifiers to their constructors
type Registry struct {
	factories map[ViewID]ViewFactory
}

// NewRegistry creates an empty view registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[ViewID]ViewFactory),
	}
}

// Register adds a constructor for the given view. Registering the same ID
// twice is an error
func (r *Registry) Register(id ViewID, factory ViewFactory) error {
	if id == "" {
		return fmt.Errorf("view id must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("view %q: nil factory", id)
	}
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("view %q already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(id ViewID, factory ViewFactory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// Has reports whether a view is registered
func (r *Registry) Has(id ViewID) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs returns the registered view identifiers in sorted order
func (r *Registry) IDs() []ViewID {
	ids := make([]ViewID, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) build(id ViewID) (View, error) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("view %q is not registered", id)
	}
	view := factory()
	if view == nil {
		return nil, fmt.Errorf("view %q: factory returned nil", id)
	}
	return view, nil
}

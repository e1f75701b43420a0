package routing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Descriptor is a static route record: a path pattern, a unique name used for
// programmatic navigation, and the view it mounts
type Descriptor struct {
	Path string
	Name string
	View ViewID
}

// Match is the outcome of resolving a path against the table
type Match struct {
	Route  Descriptor
	Path   string
	Params map[string]string
	Query  url.Values
	View   View
}

// FullPath returns the matched path including its query string
func (m Match) FullPath() string {
	if len(m.Query) == 0 {
		return m.Path
	}
	return m.Path + "?" + m.Query.Encode()
}

type entry struct {
	descriptor Descriptor
	pattern    pattern
	view       View
}

// Table is an ordered, immutable sequence of route descriptors
type Table struct {
	entries []entry
	byName  map[string]int
}

// NewTable validates the descriptors and instantiates their views. Every
// violation is reported, not just the first
func NewTable(registry *Registry, descriptors ...Descriptor) (*Table, error) {
	if registry == nil {
		return nil, fmt.Errorf("routing: nil view registry")
	}

	var result *multierror.Error
	t := &Table{
		entries: make([]entry, 0, len(descriptors)),
		byName:  make(map[string]int, len(descriptors)),
	}
	paths := make(map[string]string, len(descriptors))

	for i, d := range descriptors {
		valid := true

		if strings.TrimSpace(d.Name) == "" {
			result = multierror.Append(result, fmt.Errorf("route %d (%s): name must not be empty", i, d.Path))
			valid = false
		} else if _, dup := t.byName[d.Name]; dup {
			result = multierror.Append(result, fmt.Errorf("route %d: duplicate name %q", i, d.Name))
			valid = false
		} else {
			t.byName[d.Name] = -1
		}

		p, err := compilePattern(d.Path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("route %q: %w", d.Name, err))
			valid = false
		} else if other, dup := paths[shape(p)]; dup {
			result = multierror.Append(result, fmt.Errorf("route %q: duplicate path %q (already used by %q)", d.Name, d.Path, other))
			valid = false
		} else {
			paths[shape(p)] = d.Name
		}

		view, err := registry.build(d.View)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("route %q: %w", d.Name, err))
			valid = false
		}

		if !valid {
			continue
		}
		t.byName[d.Name] = len(t.entries)
		t.entries = append(t.entries, entry{descriptor: d, pattern: p, view: view})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

// shape identifies a pattern regardless of parameter names, so /a/:x and
// /a/:y count as the same path
func shape(p pattern) string {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.isParam {
			b.WriteByte(':')
			continue
		}
		b.WriteString(seg.value)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Routes returns the descriptors in declaration order
func (t *Table) Routes() []Descriptor {
	routes := make([]Descriptor, len(t.entries))
	for i, e := range t.entries {
		routes[i] = e.descriptor
	}
	return routes
}

// Len returns the number of routes in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup finds a descriptor by name
func (t *Table) Lookup(name string) (Descriptor, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return t.entries[i].descriptor, true
}

// View returns the view instance bound to the named route
func (t *Table) View(name string) (View, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.entries[i].view, true
}

// Resolve matches a path against the table. The first matching descriptor in
// table order wins
func (t *Table) Resolve(raw string) (Match, error) {
	clean, query := NormalizePath(raw)
	parts := splitPath(clean)

	for _, e := range t.entries {
		params, ok := e.pattern.match(parts)
		if !ok {
			continue
		}
		return Match{
			Route:  e.descriptor,
			Path:   clean,
			Params: params,
			Query:  query,
			View:   e.view,
		}, nil
	}
	return Match{}, notFound(clean)
}

// Build returns the concrete path of a named route with params filled in
func (t *Table) Build(name string, params map[string]string) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", notFound(name)
	}
	return t.entries[i].pattern.build(params)
}

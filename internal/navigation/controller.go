package navigation

import (
	"errors"
	"strings"

	"github.com/prajwalbharadwajbm/hashroute/internal/routing"
)

// ErrEmptyTarget is returned when Navigate is called without a name or path
var ErrEmptyTarget = errors.New("missing navigation target")

// Hook observes effective route changes. from or to is nil when that
// location matched no route
type Hook func(from, to *routing.Match)

// Controller binds a route table to a history strategy. It is not safe for
// concurrent use
type Controller struct {
	table   *routing.Table
	history History
	current *routing.Match
	hooks   []Hook
}

// NewController resolves the history's current location against the table.
// An unmatched location leaves the controller without a current route
func NewController(table *routing.Table, history History) *Controller {
	c := &Controller{
		table:   table,
		history: history,
	}
	if match, err := table.Resolve(history.Location()); err == nil {
		c.current = &match
	}
	return c
}

// AfterEach registers a hook run after every effective navigation
func (c *Controller) AfterEach(hook Hook) {
	c.hooks = append(c.hooks, hook)
}

// Resolve matches a path without changing state
func (c *Controller) Resolve(path string) (routing.Match, error) {
	return c.table.Resolve(path)
}

// Current returns the active route, if any
func (c *Controller) Current() (routing.Match, bool) {
	if c.current == nil {
		return routing.Match{}, false
	}
	return *c.current, true
}

// Location returns the active location in hash form, e.g. "#/"
func (c *Controller) Location() string {
	return c.history.Href(c.history.Location())
}

// History exposes the underlying history strategy
func (c *Controller) History() History {
	return c.history
}

// CanGoBack reports whether there is an entry behind the current one
func (c *Controller) CanGoBack() bool {
	return c.history.Index() > 0
}

// CanGoForward reports whether there is an entry ahead of the current one
func (c *Controller) CanGoForward() bool {
	return c.history.Index() < c.history.Len()-1
}

// Navigate makes target the active route. A target starting with "/" is a
// path, anything else is a route name. It reports whether the active route
// changed; navigating to the current location is a no-op
func (c *Controller) Navigate(target string, opts ...NavigateOption) (routing.Match, bool, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return routing.Match{}, false, ErrEmptyTarget
	}

	path := target
	if !strings.HasPrefix(target, "/") {
		built, err := c.table.Build(target, options.Params)
		if err != nil {
			return routing.Match{}, false, err
		}
		path = built
	}
	if len(options.Query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + options.Query.Encode()
	}

	match, err := c.table.Resolve(path)
	if err != nil {
		return routing.Match{}, false, err
	}

	if c.current != nil && c.current.FullPath() == match.FullPath() {
		return *c.current, false, nil
	}

	if options.Replace {
		c.history.Replace(match.FullPath())
	} else {
		c.history.Push(match.FullPath())
	}
	c.commit(&match)
	return match, true, nil
}

// Go moves delta entries through history and resolves the new location.
// Out-of-range moves are a no-op
func (c *Controller) Go(delta int) (routing.Match, bool, error) {
	if !c.history.Go(delta) {
		current, _ := c.Current()
		return current, false, nil
	}

	match, err := c.table.Resolve(c.history.Location())
	if err != nil {
		c.commit(nil)
		return routing.Match{}, true, err
	}
	c.commit(&match)
	return match, true, nil
}

// Back is Go(-1)
func (c *Controller) Back() (routing.Match, bool, error) {
	return c.Go(-1)
}

// Forward is Go(1)
func (c *Controller) Forward() (routing.Match, bool, error) {
	return c.Go(1)
}

func (c *Controller) commit(to *routing.Match) {
	from := c.current
	c.current = to
	for _, hook := range c.hooks {
		hook(from, to)
	}
}

package routing

import (
	"errors"
	"fmt"
)

// ErrRouteNotFound is returned when a path or name matches no descriptor
var ErrRouteNotFound = errors.New("route not found")

func notFound(target string) error {
	return fmt.Errorf("%w: %s", ErrRouteNotFound, target)
}

// IsNotFound reports whether err is a route-not-found outcome
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRouteNotFound)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Returned by catalog lookups and updates when no route has the given id.
var ErrRouteNotFound = errors.New("route not found")

// Returned by inserts and updates when another route already holds the name.
var ErrNameExists = errors.New("route name already exists")

// Wrapped by every Validate failure so callers can classify without
// matching message text.
var ErrInvalidRoute = errors.New("invalid route")

// A named endpoint of a route.
type Location struct {
	X    int64
	Y    int32
	Name string
}

// Represents a single catalog entry: a named route between two locations.
// ID and CreatedAt are assigned by storage on first persistence and are
// immutable afterwards; every other field is replaceable by update.
type Route struct {
	ID          int64
	Name        string
	Coordinates Coordinates
	From        Location
	To          *Location
	Distance    int
	Rating      int64
	CreatedAt   time.Time
}

// Validate checks the invariants every route must satisfy before it is
// persisted. The returned error names the offending field.
func (r *Route) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRoute)
	}
	if strings.TrimSpace(r.From.Name) == "" {
		return fmt.Errorf("%w: from.name is required", ErrInvalidRoute)
	}
	if r.Distance < 2 {
		return fmt.Errorf("%w: distance must be >= 2, got %d", ErrInvalidRoute, r.Distance)
	}
	if r.Rating <= 0 {
		return fmt.Errorf("%w: rating must be > 0, got %d", ErrInvalidRoute, r.Rating)
	}
	return nil
}

package ports

import (
	"context"
	"route-catalog-service/internal/domain"
)

// Port: a boundary for reading and mutating the route catalog.
// Mutating operations run inside serializable transactions with bounded
// conflict retry; callers observe only the final success or terminal failure.
type RouteRepository interface {
	// Retrieve one route by id; domain.ErrRouteNotFound when absent.
	FindByID(ctx context.Context, id int64) (*domain.Route, error)
	// Retrieve one page of routes ordered by id ascending.
	List(ctx context.Context, page, size int) ([]*domain.Route, error)
	// Total number of routes in the catalog.
	Count(ctx context.Context) (int64, error)
	// Routes whose name contains the given text, case-insensitive.
	SearchByName(ctx context.Context, name string) ([]*domain.Route, error)

	// Persist a new route, assigning id and creation timestamp.
	// domain.ErrNameExists when the name is already taken.
	Insert(ctx context.Context, route *domain.Route) (*domain.Route, error)
	// Replace all mutable fields of the route with the given id.
	// domain.ErrRouteNotFound when absent, domain.ErrNameExists when the new
	// name collides with a different route.
	Update(ctx context.Context, id int64, route *domain.Route) (*domain.Route, error)
	// Remove the route with the given id. Idempotent.
	Delete(ctx context.Context, id int64) error
	// Remove one arbitrary route with the given rating inside a single
	// transaction; reports whether a row was removed.
	DeleteOneByRating(ctx context.Context, rating int64) (bool, error)
	// Persist all candidates in one transaction, assigning ids and creation
	// timestamps; any name collision aborts the entire batch.
	InsertBatch(ctx context.Context, routes []*domain.Route) (int, error)

	// Number of routes with rating strictly greater than the threshold.
	CountByRatingGreaterThan(ctx context.Context, rating int64) (int64, error)
	// Distinct rating values ascending.
	DistinctRatings(ctx context.Context) ([]int64, error)
	// Shortest route between locations matched by case-insensitive substring;
	// domain.ErrRouteNotFound when no route matches.
	FindShortestBetween(ctx context.Context, from, to string) (*domain.Route, error)
	// Longest route between locations; domain.ErrRouteNotFound when none.
	FindLongestBetween(ctx context.Context, from, to string) (*domain.Route, error)
	// All routes between locations ordered by distance ascending.
	FindBetween(ctx context.Context, from, to string) ([]*domain.Route, error)
}

package services

import (
	"context"
	"fmt"

	"route-catalog-service/internal/domain"
	"route-catalog-service/internal/ports"
)

// CreateRoute validates and persists a new route, notifying subscribers
// after the insert has committed. ID and creation timestamp are assigned by
// the repository; values supplied by the caller for them are ignored.
func CreateRoute(ctx context.Context, repo ports.RouteRepository, notifier ports.ChangeNotifier, route *domain.Route) (*domain.Route, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	candidate := *route
	candidate.ID = 0

	saved, err := repo.Insert(ctx, &candidate)
	if err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	notifier.RouteCreated()
	return saved, nil
}

// UpdateRoute validates and replaces all mutable fields of the identified
// route, notifying subscribers after commit.
func UpdateRoute(ctx context.Context, repo ports.RouteRepository, notifier ports.ChangeNotifier, id int64, route *domain.Route) (*domain.Route, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	saved, err := repo.Update(ctx, id, route)
	if err != nil {
		return nil, fmt.Errorf("update route: %w", err)
	}

	notifier.RouteUpdated()
	return saved, nil
}

// DeleteRoute removes the route with the given id and notifies subscribers.
// Removal is idempotent at the storage layer.
func DeleteRoute(ctx context.Context, repo ports.RouteRepository, notifier ports.ChangeNotifier, id int64) error {
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}

	notifier.RouteDeleted()
	return nil
}

// DeleteRouteByRating removes one arbitrary route with the given rating.
// Subscribers are notified only when a row was actually removed.
func DeleteRouteByRating(ctx context.Context, repo ports.RouteRepository, notifier ports.ChangeNotifier, rating int64) (bool, error) {
	deleted, err := repo.DeleteOneByRating(ctx, rating)
	if err != nil {
		return false, fmt.Errorf("delete route by rating: %w", err)
	}

	if deleted {
		notifier.RouteDeleted()
	}
	return deleted, nil
}

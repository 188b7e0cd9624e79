package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"route-catalog-service/internal/domain"
)

// In-memory RouteRepository matching the Postgres adapter's contract,
// including batch atomicity.
type fakeRouteRepo struct {
	routes    map[int64]*domain.Route
	nextID    int64
	insertErr error
	batchErr  error
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[int64]*domain.Route)}
}

func (f *fakeRouteRepo) nameTaken(name string, excludeID int64) bool {
	for id, r := range f.routes {
		if r.Name == name && id != excludeID {
			return true
		}
	}
	return false
}

func (f *fakeRouteRepo) FindByID(ctx context.Context, id int64) (*domain.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, fmt.Errorf("find route id=%d: %w", id, domain.ErrRouteNotFound)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRouteRepo) List(ctx context.Context, page, size int) ([]*domain.Route, error) {
	ids := make([]int64, 0, len(f.routes))
	for id := range f.routes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	routes := make([]*domain.Route, 0, size)
	for i := page * size; i < len(ids) && len(routes) < size; i++ {
		copied := *f.routes[ids[i]]
		routes = append(routes, &copied)
	}
	return routes, nil
}

func (f *fakeRouteRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.routes)), nil
}

func (f *fakeRouteRepo) SearchByName(ctx context.Context, name string) ([]*domain.Route, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRouteRepo) Insert(ctx context.Context, route *domain.Route) (*domain.Route, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.nameTaken(route.Name, 0) {
		return nil, fmt.Errorf("route %q: %w", route.Name, domain.ErrNameExists)
	}

	saved := *route
	f.nextID++
	saved.ID = f.nextID
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}
	f.routes[saved.ID] = &saved

	copied := saved
	return &copied, nil
}

func (f *fakeRouteRepo) Update(ctx context.Context, id int64, route *domain.Route) (*domain.Route, error) {
	stored, ok := f.routes[id]
	if !ok {
		return nil, fmt.Errorf("route id=%d: %w", id, domain.ErrRouteNotFound)
	}
	if f.nameTaken(route.Name, id) {
		return nil, fmt.Errorf("route %q: %w", route.Name, domain.ErrNameExists)
	}

	saved := *route
	saved.ID = id
	saved.CreatedAt = stored.CreatedAt
	f.routes[id] = &saved

	copied := saved
	return &copied, nil
}

func (f *fakeRouteRepo) Delete(ctx context.Context, id int64) error {
	delete(f.routes, id)
	return nil
}

func (f *fakeRouteRepo) DeleteOneByRating(ctx context.Context, rating int64) (bool, error) {
	for id, r := range f.routes {
		if r.Rating == rating {
			delete(f.routes, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRouteRepo) InsertBatch(ctx context.Context, routes []*domain.Route) (int, error) {
	if f.batchErr != nil {
		return 0, f.batchErr
	}
	for _, r := range routes {
		if f.nameTaken(r.Name, 0) {
			return 0, fmt.Errorf("route %q: %w", r.Name, domain.ErrNameExists)
		}
	}

	added := 0
	for _, r := range routes {
		saved := *r
		f.nextID++
		saved.ID = f.nextID
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = time.Now()
		}
		f.routes[saved.ID] = &saved
		added++
	}
	return added, nil
}

func (f *fakeRouteRepo) CountByRatingGreaterThan(ctx context.Context, rating int64) (int64, error) {
	var count int64
	for _, r := range f.routes {
		if r.Rating > rating {
			count++
		}
	}
	return count, nil
}

func (f *fakeRouteRepo) DistinctRatings(ctx context.Context) ([]int64, error) {
	seen := make(map[int64]struct{})
	for _, r := range f.routes {
		seen[r.Rating] = struct{}{}
	}
	ratings := make([]int64, 0, len(seen))
	for r := range seen {
		ratings = append(ratings, r)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i] < ratings[j] })
	return ratings, nil
}

func (f *fakeRouteRepo) FindShortestBetween(ctx context.Context, from, to string) (*domain.Route, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRouteRepo) FindLongestBetween(ctx context.Context, from, to string) (*domain.Route, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRouteRepo) FindBetween(ctx context.Context, from, to string) ([]*domain.Route, error) {
	return nil, errors.New("not implemented")
}

// Notifier spy counting broadcasts per event kind.
type fakeNotifier struct {
	created, updated, deleted int
}

func (f *fakeNotifier) RouteCreated() { f.created++ }
func (f *fakeNotifier) RouteUpdated() { f.updated++ }
func (f *fakeNotifier) RouteDeleted() { f.deleted++ }

type recordedImport struct {
	actor  string
	status domain.ImportStatus
	count  *int
}

// ImportLog spy capturing audit writes; recordErr simulates a failing
// audit store.
type fakeImportLog struct {
	records   []recordedImport
	nextID    int64
	recordErr error
}

func (f *fakeImportLog) Record(ctx context.Context, actor string, status domain.ImportStatus, addedCount *int) (int64, error) {
	if f.recordErr != nil {
		return 0, f.recordErr
	}
	f.records = append(f.records, recordedImport{actor: actor, status: status, count: addedCount})
	f.nextID++
	return f.nextID, nil
}

func (f *fakeImportLog) FindByActor(ctx context.Context, actor string) ([]*domain.ImportOperation, error) {
	return nil, errors.New("not implemented")
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"route-catalog-service/internal/domain"
	"route-catalog-service/internal/platform/db"
)

const routeColumns = `
	id,
	name,
	creation_date,
	distance,
	rating,
	coordinate_x,
	coordinate_y,
	from_name,
	from_x,
	from_y,
	to_name,
	to_x,
	to_y`

// Postgres-backed implementation of the RouteRepository port.
// Mutations run through db.Write, so uniqueness checks and row writes share
// one serializable transaction and conflicts are retried with backoff.
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(sdb *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: sdb}
}

func (s *PostgresRouteRepository) FindByID(ctx context.Context, id int64) (*domain.Route, error) {
	query := `SELECT` + routeColumns + ` FROM routes WHERE id = $1;`

	route, err := scanRoute(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find route id=%d: %w", id, domain.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find route id=%d: %w", id, err)
	}

	return route, nil
}

func (s *PostgresRouteRepository) List(ctx context.Context, page, size int) ([]*domain.Route, error) {
	query := `SELECT` + routeColumns + ` FROM routes ORDER BY id LIMIT $1 OFFSET $2;`

	rows, err := s.DB.QueryContext(ctx, query, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	return collectRoutes(rows, "list routes")
}

func (s *PostgresRouteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count routes: %w", err)
	}
	return count, nil
}

func (s *PostgresRouteRepository) SearchByName(ctx context.Context, name string) ([]*domain.Route, error) {
	query := `SELECT` + routeColumns + ` FROM routes WHERE LOWER(name) LIKE LOWER($1) ORDER BY id;`

	rows, err := s.DB.QueryContext(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("search routes by name: %w", err)
	}
	defer rows.Close()

	return collectRoutes(rows, "search routes by name")
}

// Insert persists a new route: the name precondition check and the INSERT
// share one serializable transaction, closing the check-then-insert race.
func (s *PostgresRouteRepository) Insert(ctx context.Context, route *domain.Route) (*domain.Route, error) {
	saved := *route
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}

	err := db.Write(ctx, s.DB, func(tx *sql.Tx) error {
		taken, err := nameTaken(ctx, tx, saved.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("route %q: %w", saved.Name, domain.ErrNameExists)
		}
		return insertRoute(ctx, tx, &saved)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("insert route %q: %w", saved.Name, domain.ErrNameExists)
		}
		return nil, fmt.Errorf("insert route: %w", err)
	}

	return &saved, nil
}

// Update replaces all mutable fields of the identified route. The creation
// timestamp is preserved from the stored row.
func (s *PostgresRouteRepository) Update(ctx context.Context, id int64, route *domain.Route) (*domain.Route, error) {
	saved := *route
	saved.ID = id

	query := `
	UPDATE routes SET
		name = $1,
		distance = $2,
		rating = $3,
		coordinate_x = $4,
		coordinate_y = $5,
		from_name = $6,
		from_x = $7,
		from_y = $8,
		to_name = $9,
		to_x = $10,
		to_y = $11
	WHERE id = $12;
	`

	err := db.Write(ctx, s.DB, func(tx *sql.Tx) error {
		var createdAt time.Time
		row := tx.QueryRowContext(ctx, `SELECT creation_date FROM routes WHERE id = $1;`, id)
		if err := row.Scan(&createdAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("route id=%d: %w", id, domain.ErrRouteNotFound)
			}
			return fmt.Errorf("load route id=%d: %w", id, err)
		}
		saved.CreatedAt = createdAt

		taken, err := nameTaken(ctx, tx, saved.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("route %q: %w", saved.Name, domain.ErrNameExists)
		}

		toName, toX, toY := toColumns(saved.To)
		_, err = tx.ExecContext(ctx, query,
			saved.Name, saved.Distance, saved.Rating,
			saved.Coordinates.X, saved.Coordinates.Y,
			saved.From.Name, saved.From.X, saved.From.Y,
			toName, toX, toY, id,
		)
		if err != nil {
			return fmt.Errorf("exec update id=%d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("update route %q: %w", saved.Name, domain.ErrNameExists)
		}
		return nil, fmt.Errorf("update route: %w", err)
	}

	return &saved, nil
}

// Delete removes the route with the given id. Absent ids are not an error.
func (s *PostgresRouteRepository) Delete(ctx context.Context, id int64) error {
	err := db.Write(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE id = $1;`, id); err != nil {
			return fmt.Errorf("exec delete id=%d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

// DeleteOneByRating removes one arbitrary route with the given rating.
// The select and the delete share one transaction so concurrent callers
// cannot remove the same row twice.
func (s *PostgresRouteRepository) DeleteOneByRating(ctx context.Context, rating int64) (bool, error) {
	var deleted bool

	err := db.Write(ctx, s.DB, func(tx *sql.Tx) error {
		deleted = false

		var id int64
		row := tx.QueryRowContext(ctx, `SELECT id FROM routes WHERE rating = $1 LIMIT 1;`, rating)
		if err := row.Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("select route rating=%d: %w", rating, err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE id = $1;`, id)
		if err != nil {
			return fmt.Errorf("exec delete id=%d: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete route by rating: %w", err)
	}

	return deleted, nil
}

// InsertBatch persists all candidates or none: each name is checked against
// the table and all inserts run inside one serializable transaction.
func (s *PostgresRouteRepository) InsertBatch(ctx context.Context, routes []*domain.Route) (int, error) {
	saved := make([]domain.Route, len(routes))
	now := time.Now()
	for i, r := range routes {
		saved[i] = *r
		if saved[i].CreatedAt.IsZero() {
			saved[i].CreatedAt = now
		}
	}

	added := 0
	err := db.Write(ctx, s.DB, func(tx *sql.Tx) error {
		added = 0
		for i := range saved {
			taken, err := nameTaken(ctx, tx, saved[i].Name, 0)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("route %q: %w", saved[i].Name, domain.ErrNameExists)
			}
		}
		for i := range saved {
			if err := insertRoute(ctx, tx, &saved[i]); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("insert route batch: %w", domain.ErrNameExists)
		}
		return 0, fmt.Errorf("insert route batch: %w", err)
	}

	return added, nil
}

func (s *PostgresRouteRepository) CountByRatingGreaterThan(ctx context.Context, rating int64) (int64, error) {
	var count int64
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes WHERE rating > $1;`, rating).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count routes by rating: %w", err)
	}
	return count, nil
}

func (s *PostgresRouteRepository) DistinctRatings(ctx context.Context) ([]int64, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT rating FROM routes ORDER BY rating;`)
	if err != nil {
		return nil, fmt.Errorf("distinct ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]int64, 0, 16)
	for rows.Next() {
		var r int64
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("distinct ratings: scan row: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct ratings: row iteration: %w", err)
	}

	return ratings, nil
}

func (s *PostgresRouteRepository) FindShortestBetween(ctx context.Context, from, to string) (*domain.Route, error) {
	return s.findByDistance(ctx, from, to, "ASC")
}

func (s *PostgresRouteRepository) FindLongestBetween(ctx context.Context, from, to string) (*domain.Route, error) {
	return s.findByDistance(ctx, from, to, "DESC")
}

func (s *PostgresRouteRepository) findByDistance(ctx context.Context, from, to, order string) (*domain.Route, error) {
	query := `SELECT` + routeColumns + `
	FROM routes
	WHERE LOWER(from_name) LIKE LOWER($1) AND LOWER(to_name) LIKE LOWER($2)
	ORDER BY distance ` + order + ` LIMIT 1;`

	route, err := scanRoute(s.DB.QueryRowContext(ctx, query, "%"+from+"%", "%"+to+"%"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find route between %q and %q: %w", from, to, domain.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find route between locations: %w", err)
	}

	return route, nil
}

func (s *PostgresRouteRepository) FindBetween(ctx context.Context, from, to string) ([]*domain.Route, error) {
	query := `SELECT` + routeColumns + `
	FROM routes
	WHERE LOWER(from_name) LIKE LOWER($1) AND LOWER(to_name) LIKE LOWER($2)
	ORDER BY distance;`

	rows, err := s.DB.QueryContext(ctx, query, "%"+from+"%", "%"+to+"%")
	if err != nil {
		return nil, fmt.Errorf("find routes between locations: %w", err)
	}
	defer rows.Close()

	return collectRoutes(rows, "find routes between locations")
}

// nameTaken reports whether a route other than excludeID already holds name.
// Must run inside the caller's write transaction.
func nameTaken(ctx context.Context, tx *sql.Tx, name string, excludeID int64) (bool, error) {
	var count int
	row := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes WHERE name = $1 AND id <> $2;`, name, excludeID)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check route name %q: %w", name, err)
	}
	return count > 0, nil
}

func insertRoute(ctx context.Context, tx *sql.Tx, route *domain.Route) error {
	query := `
	INSERT INTO routes (
		name, creation_date, distance, rating,
		coordinate_x, coordinate_y,
		from_name, from_x, from_y,
		to_name, to_x, to_y
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id;
	`

	toName, toX, toY := toColumns(route.To)
	row := tx.QueryRowContext(ctx, query,
		route.Name, route.CreatedAt, route.Distance, route.Rating,
		route.Coordinates.X, route.Coordinates.Y,
		route.From.Name, route.From.X, route.From.Y,
		toName, toX, toY,
	)
	if err := row.Scan(&route.ID); err != nil {
		return fmt.Errorf("insert route %q: %w", route.Name, err)
	}
	return nil
}

func toColumns(to *domain.Location) (sql.NullString, sql.NullInt64, sql.NullInt32) {
	if to == nil {
		return sql.NullString{}, sql.NullInt64{}, sql.NullInt32{}
	}
	return sql.NullString{String: to.Name, Valid: true},
		sql.NullInt64{Int64: to.X, Valid: true},
		sql.NullInt32{Int32: to.Y, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var (
		r      domain.Route
		toName sql.NullString
		toX    sql.NullInt64
		toY    sql.NullInt32
	)

	err := row.Scan(
		&r.ID, &r.Name, &r.CreatedAt, &r.Distance, &r.Rating,
		&r.Coordinates.X, &r.Coordinates.Y,
		&r.From.Name, &r.From.X, &r.From.Y,
		&toName, &toX, &toY,
	)
	if err != nil {
		return nil, err
	}

	if toName.Valid {
		r.To = &domain.Location{Name: toName.String, X: toX.Int64, Y: toY.Int32}
	}

	return &r, nil
}

func collectRoutes(rows *sql.Rows, op string) ([]*domain.Route, error) {
	routes := make([]*domain.Route, 0, 16)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}
	return routes, nil
}

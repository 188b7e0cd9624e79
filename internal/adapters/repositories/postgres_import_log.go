package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"route-catalog-service/internal/domain"
)

// Postgres-backed implementation of the ImportLog port. Records are written
// with autocommit on their own connection: the audit trail survives the
// rollback of the batch it describes.
type PostgresImportLog struct{ DB *sql.DB }

func NewPostgresImportLog(sdb *sql.DB) *PostgresImportLog {
	return &PostgresImportLog{DB: sdb}
}

func (s *PostgresImportLog) Record(ctx context.Context, actor string, status domain.ImportStatus, addedCount *int) (int64, error) {
	query := `
	INSERT INTO import_operations (username, status, created_at, added_count)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`

	var count sql.NullInt32
	if addedCount != nil {
		count = sql.NullInt32{Int32: int32(*addedCount), Valid: true}
	}

	var id int64
	row := s.DB.QueryRowContext(ctx, query, actor, string(status), time.Now(), count)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("record import operation actor=%q status=%s: %w", actor, status, err)
	}

	return id, nil
}

func (s *PostgresImportLog) FindByActor(ctx context.Context, actor string) ([]*domain.ImportOperation, error) {
	query := `
	SELECT id, username, status, created_at, added_count
	FROM import_operations
	WHERE username = $1
	ORDER BY id DESC;
	`

	rows, err := s.DB.QueryContext(ctx, query, actor)
	if err != nil {
		return nil, fmt.Errorf("find import operations actor=%q: %w", actor, err)
	}
	defer rows.Close()

	ops := make([]*domain.ImportOperation, 0, 16)
	for rows.Next() {
		var (
			op     domain.ImportOperation
			status string
			count  sql.NullInt32
		)
		if err := rows.Scan(&op.ID, &op.Actor, &status, &op.CreatedAt, &count); err != nil {
			return nil, fmt.Errorf("find import operations: scan row: %w", err)
		}
		op.Status = domain.ImportStatus(status)
		if count.Valid {
			c := int(count.Int32)
			op.AddedCount = &c
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find import operations: row iteration: %w", err)
	}

	return ops, nil
}

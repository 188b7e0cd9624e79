package ports

import (
	"context"
	"route-catalog-service/internal/domain"
)

// Port: append-only store of bulk import outcomes.
type ImportLog interface {
	// Append one audit record and return its id. addedCount is nil on failure.
	Record(ctx context.Context, actor string, status domain.ImportStatus, addedCount *int) (int64, error)
	// Audit history for one actor, newest first.
	FindByActor(ctx context.Context, actor string) ([]*domain.ImportOperation, error)
}

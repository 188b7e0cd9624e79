package dto

import (
	"time"

	"route-catalog-service/internal/domain"
)

type ImportResponse struct {
	HistoryID int64 `json:"history_id"`
	Added     int   `json:"added"`
}

type ImportOperationResponse struct {
	ID         int64     `json:"id"`
	User       string    `json:"user"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	AddedCount *int      `json:"added_count"`
}

type ListImportOperationsResponse struct {
	Operations []ImportOperationResponse `json:"operations"`
}

func FromImportOperations(ops []*domain.ImportOperation) ListImportOperationsResponse {
	res := ListImportOperationsResponse{
		Operations: make([]ImportOperationResponse, 0, len(ops)),
	}
	for _, op := range ops {
		res.Operations = append(res.Operations, ImportOperationResponse{
			ID:         op.ID,
			User:       op.Actor,
			Status:     string(op.Status),
			CreatedAt:  op.CreatedAt,
			AddedCount: op.AddedCount,
		})
	}
	return res
}

package domain

import "time"

// Terminal outcome of a bulk import attempt.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "SUCCESS"
	ImportFailed  ImportStatus = "FAILED"
)

// Actor recorded when an import request carries no user identity.
const AnonymousActor = "anonymous"

// Audit record of one bulk import attempt. Append-only: import operations
// are never updated or deleted once written.
type ImportOperation struct {
	ID         int64
	Actor      string
	Status     ImportStatus
	CreatedAt  time.Time
	AddedCount *int
}

package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"route-catalog-service/internal/adapters/importxml"
	"route-catalog-service/internal/domain"
	"route-catalog-service/internal/platform/obs"
	"route-catalog-service/internal/ports"
)

// Outcome of a successful bulk import: the id of the audit record written
// for it (0 when the audit write itself failed) and the number of routes
// persisted.
type ImportResult struct {
	HistoryID int64
	Added     int
}

// ImportRoutes runs the bulk import pipeline: parse the XML document,
// validate every candidate, persist the whole batch atomically, then record
// exactly one audit entry for the attempt.
//
// Parse and validation failures are preconditions and abort before any
// durable side effect, with no audit entry. Once the batch is submitted, one
// import_operations row is written whether the transaction committed or
// aborted. The audit write is best-effort: its failure is logged and the
// already-determined import outcome still returned.
func ImportRoutes(ctx context.Context, repo ports.RouteRepository, importLog ports.ImportLog, notifier ports.ChangeNotifier, doc io.Reader, actor string) (res ImportResult, err error) {
	defer obs.Time(ctx, "import_routes")(&err)

	if actor == "" {
		actor = domain.AnonymousActor
	}

	routes, err := importxml.Parse(doc)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import routes: %w", err)
	}

	added, commitErr := repo.InsertBatch(ctx, routes)

	// The attempt reached the commit stage, so it is recorded exactly once
	// regardless of which way the transaction went.
	status := domain.ImportSuccess
	var count *int
	if commitErr != nil {
		status = domain.ImportFailed
	} else {
		count = &added
	}

	historyID, logErr := importLog.Record(ctx, actor, status, count)
	if logErr != nil {
		log.Printf("import routes: record %s outcome for actor=%q: %v", status, actor, logErr)
	}

	if commitErr != nil {
		return ImportResult{}, fmt.Errorf("import routes: %w", commitErr)
	}

	notifier.RouteCreated()
	return ImportResult{HistoryID: historyID, Added: added}, nil
}

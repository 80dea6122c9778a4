package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abdullah-khaled0/voice-secretary/internal/telemetry"
)

// IndexRebuilder rebuilds the document index from scratch.
type IndexRebuilder interface {
	Rebuild(ctx context.Context, repos []string) error
}

// RefreshWorker periodically rebuilds the index so answers track the
// latest README content on GitHub.
type RefreshWorker struct {
	index IndexRebuilder
	repos []string
}

// NewRefreshWorker creates a new RefreshWorker instance
func NewRefreshWorker(index IndexRebuilder, repos []string) *RefreshWorker {
	return &RefreshWorker{
		index: index,
		repos: repos,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *RefreshWorker) ProcessJobs(ctx context.Context) error {
	log.Printf("Refreshing document index (%d repos)", len(w.repos))
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "RefreshWorker.ProcessJobs", telemetry.SpanAttributes{
		Operation: "index_refresh",
	})
	defer span.End()

	if err := w.index.Rebuild(ctx, w.repos); err != nil {
		span.SetError(err)
		return fmt.Errorf("failed to refresh index: %w", err)
	}

	log.Printf("Index refresh completed in %v", time.Since(start))
	return nil
}

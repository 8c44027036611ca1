package jobs

import (
	"context"
	"time"

	"faktoteka/internal/services"
)

// DatasetRefreshJob periodically re-fetches the base dataset so a
// long-running server picks up upstream changes. Advisory only: a
// missed or failed run leaves the previous dataset in place.
type DatasetRefreshJob struct {
	facts    *services.FactsService
	interval time.Duration
}

// NewDatasetRefreshJob creates a refresh job with the given interval.
func NewDatasetRefreshJob(facts *services.FactsService, interval time.Duration) *DatasetRefreshJob {
	return &DatasetRefreshJob{facts: facts, interval: interval}
}

// Run reloads the base dataset.
func (j *DatasetRefreshJob) Run(ctx context.Context) error {
	return j.facts.ReloadBase(ctx)
}

// GetNextRunTime returns the next scheduled run.
func (j *DatasetRefreshJob) GetNextRunTime() time.Time {
	return time.Now().Add(j.interval)
}

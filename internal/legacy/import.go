package legacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// Store receives converted jobs.
type Store interface {
	catalog.Seeder
	UpsertJob(ctx context.Context, job *model.Job) error
}

// Report summarises an import run.
type Report struct {
	Imported []model.Job
	Failed   []*RowError
}

// Import converts every row and stores the ones that convert, ensuring the
// location and industry lookups each job refers to. Failed rows are reported
// and skipped. With a nil store rows are only converted.
func Import(ctx context.Context, rows []Row, cat *catalog.Catalog, store Store) (Report, error) {
	logger := logging.For("legacy")
	c := converter{cat: cat}

	var report Report
	refs := map[string]string{}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		skip := func(rowErr *RowError) {
			rowErr.Index = i + 1
			report.Failed = append(report.Failed, rowErr)
			logger.WithError(rowErr).Warn("Skipping legacy row")
		}

		job, rowErr := convert(row, c)
		if rowErr != nil {
			skip(rowErr)
			continue
		}
		if first, ok := refs[job.JobRef]; ok {
			skip(&RowError{ID: row.ID, Field: "jobId", Err: fmt.Errorf("reference %s already used by row %s", job.JobRef, first)})
			continue
		}
		refs[job.JobRef] = row.ID

		if store != nil {
			if err := store.EnsureLocation(ctx, job.Location.City, job.Location.State); err != nil {
				skip(&RowError{ID: row.ID, Field: "location", Err: err})
				continue
			}
			if err := store.EnsureIndustry(ctx, job.Industry.Name); err != nil {
				skip(&RowError{ID: row.ID, Field: "industry", Err: err})
				continue
			}
			if err := store.UpsertJob(ctx, &job); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return report, err
				}
				skip(&RowError{ID: row.ID, Err: err})
				continue
			}
		}
		report.Imported = append(report.Imported, job)
	}

	logger.WithField("imported", len(report.Imported)).WithField("failed", len(report.Failed)).Info("Legacy import finished")
	return report, nil
}

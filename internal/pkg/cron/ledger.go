package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
)

// LedgerJobs audits monthly summaries in the background.
type LedgerJobs struct {
	ledger overtime.LedgerService
	repair bool
	now    func() time.Time
}

func NewLedgerJobs(ledger overtime.LedgerService, repair bool) *LedgerJobs {
	return &LedgerJobs{
		ledger: ledger,
		repair: repair,
		now:    time.Now,
	}
}

func (j *LedgerJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("audit_overtime_summaries", interval, j.AuditRecentMonths)
}

// AuditRecentMonths audits the current and the previous month. Entries for
// last month are still edited during the first days of a new one.
func (j *LedgerJobs) AuditRecentMonths(ctx context.Context) error {
	now := j.now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previous := current.AddDate(0, -1, 0)

	var errs []error
	for _, month := range []time.Time{previous, current} {
		result, err := j.ledger.AuditMonth(ctx, int(month.Month()), month.Year(), j.repair)
		if err != nil {
			errs = append(errs, fmt.Errorf("audit %d/%d: %w", month.Month(), month.Year(), err))
			continue
		}
		if len(result.Drifted) > 0 {
			slog.Warn("Cron: overtime summaries drifted",
				"month", result.Month, "year", result.Year,
				"drifted", len(result.Drifted), "repaired", result.Repaired)
		}
	}
	return errors.Join(errs...)
}

package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// newAuditRetentionTask creates the task that removes deletion records
// older than the configured retention.
func newAuditRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "audit_retention")
	now := time.Now

	return func(ctx context.Context) error {
		retention := deps.Config.Database.Retention
		if retention <= 0 {
			log.DebugContext(ctx, "Audit retention disabled")
			return nil
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		cutoff := now().Add(-retention)
		pruned, err := deps.Store.PruneDeletionsBefore(timeoutCtx, cutoff)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				log.WarnContext(ctx, "Audit retention timed out or was cancelled", "error", err)
			}
			return fmt.Errorf("audit retention failed: %w", err)
		}

		log.InfoContext(ctx, "Audit retention completed", "cutoff", cutoff, "pruned", pruned)
		return nil
	}
}

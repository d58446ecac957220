package jobs

import (
	"context"

	"leasemarket-backend/internal/logger"
)

// ReclaimExpiredLeases returns every item whose lease term has run out to
// its landlord, acting as the operator.
func (jr *JobRunner) ReclaimExpiredLeases() {
	jr.runWithRecovery("ReclaimExpiredLeases", func() {
		ctx := context.Background()

		n, err := jr.market.ReclaimExpired(ctx)
		if err != nil {
			logger.Error("Failed to reclaim expired leases", "error", err)
			return
		}
		logger.Info("Reclaimed expired leases", "count", n)
	})
}

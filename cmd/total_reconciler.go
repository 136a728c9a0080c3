package main

import (
	"context"
	"log"
	"time"

	"shapagatBack/internal/services"
)

const (
	totalReconcilerInterval = 10 * time.Minute
	totalReconcilerTimeout  = 30 * time.Second
)

// startTotalReconciler periodically recomputes campaign running totals
// from the sum of succeeded donations. The webhook settle path keeps
// totals correct on its own; this sweep repairs drift left by crashes
// or operator surgery on the donations table.
func startTotalReconciler(ctx context.Context, svc *services.CampaignService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(totalReconcilerInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, totalReconcilerTimeout)
			defer cancel()

			repaired, err := svc.RepairTotals(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("total reconciler: repair failed: %v", err)
				}
				return
			}
			if repaired > 0 && infoLog != nil {
				infoLog.Printf("total reconciler: corrected %d drifted campaign totals", repaired)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}

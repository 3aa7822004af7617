// Package worker holds background jobs started by cmd/api.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campus-preorder/internal/repository"
)

// Reconciler retries the rollback of orders that were left without items
// when their compensating delete failed during placement.
type Reconciler struct {
	orderRepo  repository.OrderRepository
	orphanRepo repository.OrphanRepository
	interval   time.Duration
	batchSize  int
	log        *slog.Logger
}

func NewReconciler(
	orderRepo repository.OrderRepository,
	orphanRepo repository.OrphanRepository,
	interval time.Duration,
	batchSize int,
	log *slog.Logger,
) *Reconciler {
	return &Reconciler{
		orderRepo:  orderRepo,
		orphanRepo: orphanRepo,
		interval:   interval,
		batchSize:  batchSize,
		log:        log,
	}
}

// Run processes a batch every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("reconciler started", slog.String("action", "reconcile"), slog.Duration("interval", r.interval))
	for {
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.ErrorContext(ctx, "reconcile batch", slog.String("action", "reconcile"), slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			r.log.Info("reconciler stopped", slog.String("action", "reconcile"))
			return
		case <-ticker.C:
		}
	}
}

// RunOnce handles one batch and returns how many orphans were resolved.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	orphans, err := r.orphanRepo.ListUnresolved(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list orphan orders: %w", err)
	}

	resolved := 0
	for _, orphan := range orphans {
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
		if err := r.resolve(ctx, orphan.OrderID); err != nil {
			r.log.WarnContext(ctx, "orphan order still unresolved",
				slog.String("action", "reconcile"),
				slog.String("order_id", orphan.OrderID),
				slog.Int("attempts", orphan.Attempts+1),
				slog.Any("error", err),
			)
			if recErr := r.orphanRepo.RecordAttempt(ctx, orphan.OrderID, err); recErr != nil {
				return resolved, fmt.Errorf("record attempt for %s: %w", orphan.OrderID, recErr)
			}
			continue
		}

		if err := r.orphanRepo.MarkResolved(ctx, orphan.OrderID); err != nil {
			return resolved, fmt.Errorf("mark %s resolved: %w", orphan.OrderID, err)
		}
		resolved++
	}

	if resolved > 0 {
		r.log.InfoContext(ctx, "orphan orders resolved", slog.String("action", "reconcile"), slog.Int("count", resolved))
	}
	return resolved, nil
}

// resolve deletes the order unless items turned up for it after all, in
// which case the order is complete and is left alone.
func (r *Reconciler) resolve(ctx context.Context, orderID string) error {
	count, err := r.orderRepo.CountItems(ctx, orderID)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return nil
	}
	return r.orderRepo.Delete(ctx, orderID)
}

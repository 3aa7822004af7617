package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-preorder/internal/model"
)

// OrphanRepository is the outbox of orders whose rollback failed.
type OrphanRepository interface {
	Record(ctx context.Context, orderID, reason string) error
	ListUnresolved(ctx context.Context, limit int) ([]model.OrphanOrder, error)
	MarkResolved(ctx context.Context, orderID string) error
	RecordAttempt(ctx context.Context, orderID string, attemptErr error) error
}

type orphanRepositoryImpl struct {
	db *gorm.DB
}

func NewOrphanRepository(db *gorm.DB) OrphanRepository {
	return &orphanRepositoryImpl{db: db}
}

// Record is idempotent per order.
func (r *orphanRepositoryImpl) Record(ctx context.Context, orderID, reason string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.OrphanOrder{
			OrderID: orderID,
			Reason:  truncate(reason, 512),
		}).Error
}

func (r *orphanRepositoryImpl) ListUnresolved(ctx context.Context, limit int) ([]model.OrphanOrder, error) {
	var orphans []model.OrphanOrder
	err := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&orphans).Error

	return orphans, err
}

func (r *orphanRepositoryImpl) MarkResolved(ctx context.Context, orderID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OrphanOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"attempts":    gorm.Expr("attempts + 1"),
			"resolved_at": &now,
			"last_error":  "",
			"updated_at":  now,
		}).Error
}

func (r *orphanRepositoryImpl) RecordAttempt(ctx context.Context, orderID string, attemptErr error) error {
	lastError := ""
	if attemptErr != nil {
		lastError = truncate(attemptErr.Error(), 512)
	}
	return r.db.WithContext(ctx).Model(&model.OrphanOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

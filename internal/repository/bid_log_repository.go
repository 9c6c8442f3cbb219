package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"auctionhouse/internal/model"
)

// BidLogRepository defines bid log persistence operations.
type BidLogRepository interface {
	Create(ctx context.Context, log *model.BidLog) error
	CreateBatch(ctx context.Context, logs []model.BidLog) error
	ListAcceptedByAuction(ctx context.Context, auctionID uuid.UUID) ([]model.BidLog, error)
}

type bidLogRepository struct {
	db *gorm.DB
}

// NewBidLogRepository creates a new bid log repository.
func NewBidLogRepository(db *gorm.DB) BidLogRepository {
	return &bidLogRepository{db: db}
}

// Create creates a new bid log entry.
func (r *bidLogRepository) Create(ctx context.Context, log *model.BidLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateBatch creates multiple bid log entries in batch.
func (r *bidLogRepository) CreateBatch(ctx context.Context, logs []model.BidLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// ListAcceptedByAuction returns accepted bids, newest first. Accepted amounts
// strictly increase over time, so amount order is chronological even when
// logs were written out of order.
func (r *bidLogRepository) ListAcceptedByAuction(ctx context.Context, auctionID uuid.UUID) ([]model.BidLog, error) {
	var logs []model.BidLog
	if err := r.db.WithContext(ctx).
		Where("auction_id = ? AND status = ?", auctionID, model.BidStatusAccepted).
		Order("amount DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

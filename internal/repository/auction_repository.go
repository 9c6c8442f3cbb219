package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"auctionhouse/internal/model"
)

// BidUpdate is the state a bid would write if accepted.
type BidUpdate struct {
	AuctionID uuid.UUID
	Amount    decimal.Decimal
	BidderID  uuid.UUID
	Now       time.Time
}

// AuctionRepository defines auction persistence operations.
type AuctionRepository interface {
	Create(ctx context.Context, auction *model.Auction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Auction, error)
	ListByCreatedDesc(ctx context.Context) ([]model.Auction, error)
	// PlaceBid applies the bid only if it is strictly above the stored highest
	// bid and the stored expiry has not passed. It reports whether the row was updated.
	PlaceBid(ctx context.Context, update BidUpdate) (bool, error)
}

type auctionRepository struct {
	db *gorm.DB
}

// NewAuctionRepository creates a new auction repository.
func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

// Create creates a new auction.
func (r *auctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

// FindByID finds an auction by ID.
func (r *auctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	var auction model.Auction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&auction).Error; err != nil {
		return nil, err
	}
	return &auction, nil
}

// ListByCreatedDesc lists all auctions, newest first.
func (r *auctionRepository) ListByCreatedDesc(ctx context.Context) ([]model.Auction, error) {
	var auctions []model.Auction
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

// PlaceBid is a single conditional UPDATE, so the check and the write cannot
// interleave with another bid. The soft-close extension is computed by the
// store as max(expires_at, now+window), which equals resetting to now+window
// exactly when less than the window remains. The CASE mirrors
// model.ExtendedExpiry.
func (r *auctionRepository) PlaceBid(ctx context.Context, update BidUpdate) (bool, error) {
	extended := update.Now.Add(model.SoftCloseWindow)
	result := r.db.WithContext(ctx).Model(&model.Auction{}).
		Where("id = ? AND current_highest_bid < ? AND expires_at >= ?", update.AuctionID, update.Amount, update.Now).
		Updates(map[string]interface{}{
			"current_highest_bid":       update.Amount,
			"current_highest_bidder_id": update.BidderID,
			"last_bid_time":             update.Now,
			"expires_at":                gorm.Expr("CASE WHEN expires_at < ? THEN ? ELSE expires_at END", extended, extended),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

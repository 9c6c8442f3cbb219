package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SoftCloseWindow is how close to expiry a bid must land to extend the auction.
const SoftCloseWindow = 10 * time.Second

// MoneyScale is the number of fractional digits kept for monetary amounts.
const MoneyScale = 2

func init() {
	// Amounts round-trip as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AuctionStatus is derived from the expiry timestamp at read time and never stored.
type AuctionStatus string

const (
	AuctionStatusOpen   AuctionStatus = "open"
	AuctionStatusClosed AuctionStatus = "closed"
)

// Auction is a time-bounded sale accepting strictly increasing bids.
type Auction struct {
	ID                     uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	ItemDescription        string          `json:"itemDescription" gorm:"type:text;not null"`
	StartingBid            decimal.Decimal `json:"startingBid" gorm:"type:decimal(20,2);not null"`
	Duration               int64           `json:"duration" gorm:"not null"`
	CreatorID              uuid.UUID       `json:"creatorId" gorm:"type:char(36);not null;index"`
	CurrentHighestBid      decimal.Decimal `json:"currentHighestBid" gorm:"type:decimal(20,2);not null"`
	CurrentHighestBidderID uuid.UUID       `json:"currentHighestBidderId" gorm:"type:char(36);not null;index"`
	ExpiresAt              time.Time       `json:"expiresAt" gorm:"not null;index"`
	LastBidTime            time.Time       `json:"lastBidTime" gorm:"not null"`
	CreatedAt              time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsClosed reports whether now is strictly past the expiry.
func (a *Auction) IsClosed(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// Status projects the open/closed state for now.
func (a *Auction) Status(now time.Time) AuctionStatus {
	if a.IsClosed(now) {
		return AuctionStatusClosed
	}
	return AuctionStatusOpen
}

// ExtendedExpiry returns the expiry after a bid accepted at now. Bids with
// less than SoftCloseWindow remaining reset the deadline to now+SoftCloseWindow;
// otherwise the deadline is unchanged. The result is never earlier than expiresAt.
func ExtendedExpiry(expiresAt, now time.Time) time.Time {
	if expiresAt.Sub(now) < SoftCloseWindow {
		return now.Add(SoftCloseWindow)
	}
	return expiresAt
}

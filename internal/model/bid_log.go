package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BidStatus is the outcome of a processed bid attempt.
type BidStatus string

const (
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

// BidLog is the audit record of a bid attempt.
type BidLog struct {
	ID             uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	AuctionID      uuid.UUID       `json:"auctionId" gorm:"type:char(36);not null;index"`
	BidderIdentity string          `json:"-" gorm:"size:255;not null"`
	BidderName     string          `json:"bidderName" gorm:"size:255"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status         BidStatus       `json:"status" gorm:"type:varchar(20);not null;index"`
	Reason         string          `json:"reason,omitempty" gorm:"size:64"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (l *BidLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

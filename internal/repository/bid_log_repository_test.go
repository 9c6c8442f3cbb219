package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/model"
)

func TestBidLogRepository_ListAcceptedByAuction(t *testing.T) {
	repo := NewBidLogRepository(newTestDB(t))
	auctionID := uuid.New()
	otherAuction := uuid.New()

	logs := []model.BidLog{
		{AuctionID: auctionID, BidderIdentity: "user_1", Amount: decimal.NewFromInt(12), Status: model.BidStatusAccepted, CreatedAt: at(2)},
		{AuctionID: auctionID, BidderIdentity: "user_2", Amount: decimal.NewFromInt(11), Status: model.BidStatusAccepted, CreatedAt: at(1)},
		{AuctionID: auctionID, BidderIdentity: "user_3", Amount: decimal.NewFromInt(11), Status: model.BidStatusRejected, Reason: "BID_TOO_LOW", CreatedAt: at(3)},
		{AuctionID: otherAuction, BidderIdentity: "user_1", Amount: decimal.NewFromInt(99), Status: model.BidStatusAccepted, CreatedAt: at(1)},
	}
	// Written out of order, as the recorder may do.
	require.NoError(t, repo.CreateBatch(t.Context(), []model.BidLog{logs[1], logs[2], logs[3]}))
	require.NoError(t, repo.Create(t.Context(), &logs[0]))

	got, err := repo.ListAcceptedByAuction(t.Context(), auctionID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "user_1", got[0].BidderIdentity)
	assert.Equal(t, "user_2", got[1].BidderIdentity)
	for _, l := range got {
		assert.NotEqual(t, uuid.Nil, l.ID)
		assert.Equal(t, model.BidStatusAccepted, l.Status)
	}
}

func TestBidLogRepository_CreateBatchEmpty(t *testing.T) {
	repo := NewBidLogRepository(newTestDB(t))
	assert.NoError(t, repo.CreateBatch(t.Context(), nil))
}

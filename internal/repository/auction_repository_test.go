package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"auctionhouse/internal/model"
)

func TestAuctionRepository_CreateAndFind(t *testing.T) {
	repo := NewAuctionRepository(newTestDB(t))
	creator := uuid.New()

	created := seedAuction(t, repo, creator, "10.50", at(30))
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage lamp", found.ItemDescription)
	assert.True(t, decimal.RequireFromString("10.5").Equal(found.CurrentHighestBid))
	assert.Equal(t, creator, found.CurrentHighestBidderID)
	assert.True(t, at(30).Equal(found.ExpiresAt))

	_, err = repo.FindByID(t.Context(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuctionRepository_ListByCreatedDesc(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewAuctionRepository(gormDB)
	creator := uuid.New()

	first := seedAuction(t, repo, creator, "1", at(30))
	second := seedAuction(t, repo, creator, "2", at(30))
	require.NoError(t, gormDB.Model(first).Update("created_at", t0).Error)
	require.NoError(t, gormDB.Model(second).Update("created_at", t0.Add(time.Minute)).Error)

	auctions, err := repo.ListByCreatedDesc(t.Context())
	require.NoError(t, err)
	require.Len(t, auctions, 2)
	assert.Equal(t, second.ID, auctions[0].ID)
	assert.Equal(t, first.ID, auctions[1].ID)
}

func TestAuctionRepository_PlaceBid(t *testing.T) {
	creator := uuid.New()
	bidder := uuid.New()

	tests := []struct {
		name        string
		amount      string
		now         time.Time
		wantApplied bool
		wantHighest string
		wantExpiry  time.Time
	}{
		{name: "higher bid early", amount: "11", now: at(0), wantApplied: true, wantHighest: "11", wantExpiry: at(30)},
		{name: "equal bid rejected", amount: "10", now: at(0), wantApplied: false, wantHighest: "10", wantExpiry: at(30)},
		{name: "lower bid rejected", amount: "9.99", now: at(0), wantApplied: false, wantHighest: "10", wantExpiry: at(30)},
		{name: "bid inside window extends", amount: "50", now: at(25), wantApplied: true, wantHighest: "50", wantExpiry: at(35)},
		{name: "bid exactly at window edge keeps expiry", amount: "12", now: at(20), wantApplied: true, wantHighest: "12", wantExpiry: at(30)},
		{name: "bid at expiry instant accepted and extended", amount: "12", now: at(30), wantApplied: true, wantHighest: "12", wantExpiry: at(40)},
		{name: "bid after expiry rejected", amount: "100", now: at(31), wantApplied: false, wantHighest: "10", wantExpiry: at(30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewAuctionRepository(newTestDB(t))
			auction := seedAuction(t, repo, creator, "10", at(30))

			applied, err := repo.PlaceBid(t.Context(), BidUpdate{
				AuctionID: auction.ID,
				Amount:    decimal.RequireFromString(tt.amount),
				BidderID:  bidder,
				Now:       tt.now,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)

			stored, err := repo.FindByID(t.Context(), auction.ID)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantHighest).Equal(stored.CurrentHighestBid), "highest = %s", stored.CurrentHighestBid)
			assert.True(t, tt.wantExpiry.Equal(stored.ExpiresAt), "expiresAt = %s", stored.ExpiresAt)
			if tt.wantApplied {
				assert.Equal(t, bidder, stored.CurrentHighestBidderID)
				assert.True(t, tt.now.Equal(stored.LastBidTime))
				assert.True(t, model.ExtendedExpiry(at(30), tt.now).Equal(stored.ExpiresAt), "store and model.ExtendedExpiry disagree")
			} else {
				assert.Equal(t, creator, stored.CurrentHighestBidderID)
				assert.True(t, t0.Equal(stored.LastBidTime))
			}
		})
	}
}

func TestAuctionRepository_PlaceBid_UnknownAuction(t *testing.T) {
	repo := NewAuctionRepository(newTestDB(t))

	applied, err := repo.PlaceBid(t.Context(), BidUpdate{
		AuctionID: uuid.New(),
		Amount:    decimal.NewFromInt(5),
		BidderID:  uuid.New(),
		Now:       at(0),
	})
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestAuctionRepository_PlaceBid_ConcurrentBidsKeepMaximum(t *testing.T) {
	repo := NewAuctionRepository(newTestDB(t))
	auction := seedAuction(t, repo, uuid.New(), "10", at(30))

	const bidders = 20
	var wg sync.WaitGroup
	for i := 1; i <= bidders; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_, err := repo.PlaceBid(t.Context(), BidUpdate{
				AuctionID: auction.ID,
				Amount:    decimal.NewFromInt(10 + amount),
				BidderID:  uuid.New(),
				Now:       at(1),
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	stored, err := repo.FindByID(t.Context(), auction.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10+bidders).Equal(stored.CurrentHighestBid))
	assert.True(t, at(30).Equal(stored.ExpiresAt))
}

func TestAuctionRepository_PlaceBid_RepeatedLateBidsReextendFlat(t *testing.T) {
	repo := NewAuctionRepository(newTestDB(t))
	auction := seedAuction(t, repo, uuid.New(), "10", at(30))

	steps := []struct {
		amount int64
		now    int
		want   int
	}{
		{amount: 11, now: 25, want: 35},
		{amount: 12, now: 33, want: 43},
		{amount: 13, now: 34, want: 44},
	}
	for _, s := range steps {
		applied, err := repo.PlaceBid(t.Context(), BidUpdate{
			AuctionID: auction.ID,
			Amount:    decimal.NewFromInt(s.amount),
			BidderID:  uuid.New(),
			Now:       at(s.now),
		})
		require.NoError(t, err)
		require.True(t, applied)

		stored, err := repo.FindByID(t.Context(), auction.ID)
		require.NoError(t, err)
		assert.True(t, at(s.want).Equal(stored.ExpiresAt), "after bid at t=%d expiresAt = %s", s.now, stored.ExpiresAt)
	}
}

func TestAuctionRepository_FractionalAmounts(t *testing.T) {
	repo := NewAuctionRepository(newTestDB(t))
	auction := seedAuction(t, repo, uuid.New(), "10.10", at(30))

	applied, err := repo.PlaceBid(t.Context(), BidUpdate{
		AuctionID: auction.ID, Amount: decimal.RequireFromString("10.05"), BidderID: uuid.New(), Now: at(0),
	})
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.PlaceBid(t.Context(), BidUpdate{
		AuctionID: auction.ID, Amount: decimal.RequireFromString("10.11"), BidderID: uuid.New(), Now: at(0),
	})
	require.NoError(t, err)
	assert.True(t, applied)

	stored, err := repo.FindByID(t.Context(), auction.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.11").Equal(stored.CurrentHighestBid))
}

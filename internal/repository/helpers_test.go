package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"auctionhouse/internal/db"
	"auctionhouse/internal/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return t0.Add(time.Duration(seconds) * time.Second)
}

// newTestDB returns an isolated in-memory database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB, false))
	return gormDB
}

func seedAuction(t *testing.T, repo AuctionRepository, creatorID uuid.UUID, startingBid string, expiresAt time.Time) *model.Auction {
	t.Helper()
	bid := decimal.RequireFromString(startingBid)
	auction := &model.Auction{
		ItemDescription:        "Vintage lamp",
		StartingBid:            bid,
		Duration:               30,
		CreatorID:              creatorID,
		CurrentHighestBid:      bid,
		CurrentHighestBidderID: creatorID,
		ExpiresAt:              expiresAt,
		LastBidTime:            t0,
	}
	require.NoError(t, repo.Create(t.Context(), auction))
	return auction
}

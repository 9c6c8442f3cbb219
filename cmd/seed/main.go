package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"auctionhouse/internal/auth"
	"auctionhouse/internal/config"
	"auctionhouse/internal/db"
	"auctionhouse/internal/logger"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/service"
)

// SeedAuctionData is one auction in the seed file.
type SeedAuctionData struct {
	ItemDescription string              `json:"itemDescription"`
	StartingBid     decimal.NullDecimal `json:"startingBid"`
	Duration        int64               `json:"duration"`
}

func main() {
	file := pflag.String("file", "", "path to a JSON array of auctions")
	url := pflag.String("url", "", "URL serving a JSON array of auctions")
	creator := pflag.String("creator", "seed|creator", "identity that owns the seeded auctions")
	name := pflag.String("name", "Seeder", "display name of the creator")
	printToken := pflag.Bool("print-token", false, "print an access token for the creator identity")
	pflag.Parse()

	cfg := config.Load()
	logger.Setup(cfg.LogLevel)

	if *printToken {
		token, err := auth.NewJWTService(cfg.JWTSecret).GenerateAccessToken(*creator, *name)
		if err != nil {
			log.WithError(err).Fatal("generate token")
		}
		fmt.Println(token)
	}

	if *file == "" && *url == "" {
		if *printToken {
			return
		}
		log.Fatal("one of --file or --url is required")
	}

	items, err := loadSeed(*file, *url)
	if err != nil {
		log.WithError(err).Fatal("load seed data")
	}
	log.WithField("auctions", len(items)).Info("seed data loaded")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if err := db.Migrate(gormDB, false); err != nil {
		log.WithError(err).Fatal("database migrate")
	}

	auctionService := service.NewAuctionService(
		repository.NewAuctionRepository(gormDB),
		repository.NewUserRepository(gormDB),
		repository.NewBidLogRepository(gormDB),
		nil,
		nil,
		0,
	)

	identity := auth.Identity{Authenticated: true, ID: *creator, DisplayNameHint: *name}
	created, skipped := seedAuctions(context.Background(), auctionService, identity, items, time.Now())
	log.WithFields(log.Fields{
		"created": created,
		"skipped": skipped,
	}).Info("seed completed")
}

func loadSeed(file, url string) ([]SeedAuctionData, error) {
	var body []byte
	var err error
	if file != "" {
		body, err = os.ReadFile(file)
	} else {
		body, err = fetch(url)
	}
	if err != nil {
		return nil, err
	}

	var items []SeedAuctionData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return items, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seedAuctions creates each auction, skipping entries the service rejects.
func seedAuctions(ctx context.Context, svc service.AuctionService, creator auth.Identity, items []SeedAuctionData, now time.Time) (created, skipped int) {
	for i, item := range items {
		detail, err := svc.CreateAuction(ctx, service.CreateAuctionInput{
			ItemDescription: item.ItemDescription,
			StartingBid:     item.StartingBid,
			Duration:        item.Duration,
		}, creator, now)
		if err != nil {
			log.WithError(err).WithField("index", i).Warn("skipping auction")
			skipped++
			continue
		}
		log.WithField("auction_id", detail.Auction.ID).Debug("auction seeded")
		created++
	}
	return created, skipped
}

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"auctionhouse/internal/auth"
	"auctionhouse/internal/cache"
	"auctionhouse/internal/errors"
	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
)

//go:generate mockgen -destination=../handler/mocks/mock_auction_service.go -package=mocks auctionhouse/internal/service AuctionService

const (
	listCacheKey = "auctions:list"
	// maxBidAttempts bounds conditional-update retries after a lost race.
	maxBidAttempts = 3
	maxDuration    = 365 * 24 * time.Hour
)

// CreateAuctionInput carries the caller-supplied auction fields.
type CreateAuctionInput struct {
	ItemDescription string
	StartingBid     decimal.NullDecimal
	Duration        int64
}

// AuctionDetail is an auction with its highest bidder's display name resolved.
type AuctionDetail struct {
	Auction           model.Auction `json:"auction"`
	HighestBidderName string        `json:"highestBidderName"`
}

// AuctionService handles auction creation, bidding and listing.
type AuctionService interface {
	CreateAuction(ctx context.Context, input CreateAuctionInput, creator auth.Identity, now time.Time) (*AuctionDetail, error)
	SubmitBid(ctx context.Context, auctionID uuid.UUID, proposedBid decimal.NullDecimal, bidder auth.Identity, now time.Time) (*AuctionDetail, error)
	ListAuctions(ctx context.Context) ([]AuctionDetail, error)
	GetAuction(ctx context.Context, id uuid.UUID) (*AuctionDetail, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]model.BidLog, error)
}

type auctionService struct {
	auctionRepo repository.AuctionRepository
	userRepo    repository.UserRepository
	bidLogRepo  repository.BidLogRepository
	recorder    Recorder
	cache       *cache.Client
	listTTL     time.Duration
	policy      *bluemonday.Policy
}

// NewAuctionService creates a new auction service. cache may be nil.
func NewAuctionService(
	auctionRepo repository.AuctionRepository,
	userRepo repository.UserRepository,
	bidLogRepo repository.BidLogRepository,
	recorder Recorder,
	cache *cache.Client,
	listTTL time.Duration,
) AuctionService {
	return &auctionService{
		auctionRepo: auctionRepo,
		userRepo:    userRepo,
		bidLogRepo:  bidLogRepo,
		recorder:    recorder,
		cache:       cache,
		listTTL:     listTTL,
		policy:      bluemonday.StrictPolicy(),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validateAmount requires a present, positive amount with at most two decimals.
func validateAmount(field string, amount decimal.NullDecimal) (decimal.Decimal, error) {
	if !amount.Valid {
		return decimal.Decimal{}, invalid("%s is required", field)
	}
	if !amount.Decimal.IsPositive() {
		return decimal.Decimal{}, invalid("%s must be greater than zero", field)
	}
	if !amount.Decimal.Equal(amount.Decimal.Truncate(model.MoneyScale)) {
		return decimal.Decimal{}, invalid("%s must have at most %d decimal places", field, model.MoneyScale)
	}
	return amount.Decimal, nil
}

func displayName(identity auth.Identity) string {
	if name := strings.TrimSpace(identity.DisplayNameHint); name != "" {
		return name
	}
	return model.AnonymousName
}

// sanitize strips markup and returns the remaining plain text.
func (s *auctionService) sanitize(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}

// CreateAuction validates input and opens a new auction owned by creator.
func (s *auctionService) CreateAuction(ctx context.Context, input CreateAuctionInput, creator auth.Identity, now time.Time) (*AuctionDetail, error) {
	if !creator.Authenticated || creator.ID == "" {
		return nil, errors.ErrUnauthorized
	}

	description := s.sanitize(input.ItemDescription)
	if description == "" {
		return nil, invalid("itemDescription is required")
	}
	startingBid, err := validateAmount("startingBid", input.StartingBid)
	if err != nil {
		return nil, err
	}
	if input.Duration <= 0 {
		return nil, invalid("duration must be a positive number of seconds")
	}
	if maxSeconds := int64(maxDuration / time.Second); input.Duration > maxSeconds {
		return nil, invalid("duration must not exceed %d seconds", maxSeconds)
	}
	duration := time.Duration(input.Duration) * time.Second

	user, err := s.userRepo.UpsertByExternalID(ctx, creator.ID, displayName(creator))
	if err != nil {
		return nil, fmt.Errorf("upsert creator: %w", err)
	}

	now = now.UTC()
	auction := &model.Auction{
		ItemDescription:        description,
		StartingBid:            startingBid,
		Duration:               input.Duration,
		CreatorID:              user.ID,
		CurrentHighestBid:      startingBid,
		CurrentHighestBidderID: user.ID,
		ExpiresAt:              now.Add(duration),
		LastBidTime:            now,
	}
	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}
	_ = s.cache.Delete(ctx, listCacheKey)

	log.WithFields(log.Fields{
		"auction_id": auction.ID,
		"creator_id": user.ID,
		"expires_at": auction.ExpiresAt,
	}).Info("auction created")

	return &AuctionDetail{Auction: *auction, HighestBidderName: user.Name}, nil
}

func (s *auctionService) loadAuction(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	auction, err := s.auctionRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("load auction: %w", err)
	}
	return auction, nil
}

// classifyBid rejects a bid against the stored auction state.
func classifyBid(auction *model.Auction, amount decimal.Decimal, now time.Time) error {
	if auction.IsClosed(now) {
		return errors.ErrAuctionClosed
	}
	if amount.LessThanOrEqual(auction.CurrentHighestBid) {
		return errors.ErrBidTooLow
	}
	return nil
}

// SubmitBid applies a strictly higher bid to an open auction, extending the
// deadline when the bid lands inside the soft-close window.
func (s *auctionService) SubmitBid(ctx context.Context, auctionID uuid.UUID, proposedBid decimal.NullDecimal, bidder auth.Identity, now time.Time) (*AuctionDetail, error) {
	if !bidder.Authenticated || bidder.ID == "" {
		return nil, errors.ErrUnauthorized
	}
	amount, err := validateAmount("newBid", proposedBid)
	if err != nil {
		return nil, err
	}
	now = now.UTC()

	var user *model.User
	var snapshot *model.Auction
	for attempt := 1; ; attempt++ {
		auction, err := s.loadAuction(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		snapshot = auction
		if err := classifyBid(auction, amount, now); err != nil {
			s.record(auctionID, bidder, amount, model.BidStatusRejected, err, now)
			return nil, err
		}

		if user == nil {
			user, err = s.userRepo.UpsertByExternalID(ctx, bidder.ID, displayName(bidder))
			if err != nil {
				return nil, fmt.Errorf("upsert bidder: %w", err)
			}
		}

		applied, err := s.auctionRepo.PlaceBid(ctx, repository.BidUpdate{
			AuctionID: auctionID,
			Amount:    amount,
			BidderID:  user.ID,
			Now:       now,
		})
		if err != nil {
			return nil, fmt.Errorf("place bid: %w", err)
		}
		if applied {
			break
		}
		if attempt >= maxBidAttempts {
			s.record(auctionID, bidder, amount, model.BidStatusRejected, errors.ErrBidConflict, now)
			return nil, errors.ErrBidConflict
		}
		log.WithFields(log.Fields{
			"auction_id": auctionID,
			"attempt":    attempt,
		}).Debug("bid lost a race, re-evaluating")
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	s.record(auctionID, bidder, amount, model.BidStatusAccepted, nil, now)

	// Expiry only moves forward, so the stored value is never earlier than the
	// snapshot's expiry with the soft-close rule applied.
	expected := model.ExtendedExpiry(snapshot.ExpiresAt, now)
	updated, err := s.loadAuction(ctx, auctionID)
	if err != nil {
		log.WithError(err).WithField("auction_id", auctionID).Warn("reload after accepted bid failed")
		accepted := *snapshot
		accepted.CurrentHighestBid = amount
		accepted.CurrentHighestBidderID = user.ID
		accepted.LastBidTime = now
		accepted.ExpiresAt = expected
		return &AuctionDetail{Auction: accepted, HighestBidderName: nameOrUnknown(user.Name)}, nil
	}

	entry := log.WithFields(log.Fields{
		"auction_id":          auctionID,
		"bidder_id":           user.ID,
		"amount":              amount.String(),
		"expires_at":          updated.ExpiresAt,
		"expected_expires_at": expected,
	})
	if updated.ExpiresAt.Before(expected) {
		entry.Warn("bid accepted with expiry earlier than the soft-close rule")
	} else {
		entry.Info("bid accepted")
	}

	name := user.Name
	if updated.CurrentHighestBidderID != user.ID {
		name = s.resolveNames(ctx, []uuid.UUID{updated.CurrentHighestBidderID})[updated.CurrentHighestBidderID]
	}
	return &AuctionDetail{Auction: *updated, HighestBidderName: nameOrUnknown(name)}, nil
}

func (s *auctionService) record(auctionID uuid.UUID, bidder auth.Identity, amount decimal.Decimal, status model.BidStatus, reason error, now time.Time) {
	if s.recorder == nil {
		return
	}
	entry := model.BidLog{
		AuctionID:      auctionID,
		BidderIdentity: bidder.ID,
		BidderName:     displayName(bidder),
		Amount:         amount,
		Status:         status,
		CreatedAt:      now,
	}
	if reason != nil {
		entry.Reason = errors.Code(reason)
	}
	s.recorder.Record(entry)
}

// resolveNames looks up display names with one batched query. Lookup
// failures leave names unresolved.
func (s *auctionService) resolveNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return map[uuid.UUID]string{}
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.WithError(err).Warn("resolve bidder names failed")
		return map[uuid.UUID]string{}
	}
	return lo.SliceToMap(users, func(u model.User) (uuid.UUID, string) {
		return u.ID, u.Name
	})
}

func nameOrUnknown(name string) string {
	if name == "" {
		return model.UnknownName
	}
	return name
}

// ListAuctions returns all auctions, newest first. Results are cached briefly.
func (s *auctionService) ListAuctions(ctx context.Context) ([]AuctionDetail, error) {
	var cached []AuctionDetail
	if s.cache.GetJSON(ctx, listCacheKey, &cached) {
		return cached, nil
	}

	auctions, err := s.auctionRepo.ListByCreatedDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}

	names := s.resolveNames(ctx, lo.Map(auctions, func(a model.Auction, _ int) uuid.UUID {
		return a.CurrentHighestBidderID
	}))
	details := lo.Map(auctions, func(a model.Auction, _ int) AuctionDetail {
		return AuctionDetail{Auction: a, HighestBidderName: nameOrUnknown(names[a.CurrentHighestBidderID])}
	})

	if s.listTTL > 0 {
		_ = s.cache.SetJSON(ctx, listCacheKey, details, s.listTTL)
	}
	return details, nil
}

// GetAuction returns a single auction with its highest bidder's name.
func (s *auctionService) GetAuction(ctx context.Context, id uuid.UUID) (*AuctionDetail, error) {
	auction, err := s.loadAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	names := s.resolveNames(ctx, []uuid.UUID{auction.CurrentHighestBidderID})
	return &AuctionDetail{Auction: *auction, HighestBidderName: nameOrUnknown(names[auction.CurrentHighestBidderID])}, nil
}

// ListBids returns accepted bids for an auction, newest first.
func (s *auctionService) ListBids(ctx context.Context, auctionID uuid.UUID) ([]model.BidLog, error) {
	if _, err := s.loadAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	bids, err := s.bidLogRepo.ListAcceptedByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
)

// MockAuctionRepository is a mock implementation of AuctionRepository.
type MockAuctionRepository struct {
	mock.Mock
}

func (m *MockAuctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	args := m.Called(ctx, auction)
	return args.Error(0)
}

func (m *MockAuctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListByCreatedDesc(ctx context.Context) ([]model.Auction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) PlaceBid(ctx context.Context, update repository.BidUpdate) (bool, error) {
	args := m.Called(ctx, update)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UpsertByExternalID(ctx context.Context, externalID, name string) (*model.User, error) {
	args := m.Called(ctx, externalID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockBidLogRepository is a mock implementation of BidLogRepository.
type MockBidLogRepository struct {
	mock.Mock
}

func (m *MockBidLogRepository) Create(ctx context.Context, log *model.BidLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockBidLogRepository) CreateBatch(ctx context.Context, logs []model.BidLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

func (m *MockBidLogRepository) ListAcceptedByAuction(ctx context.Context, auctionID uuid.UUID) ([]model.BidLog, error) {
	args := m.Called(ctx, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BidLog), args.Error(1)
}

// fakeRecorder keeps recorded entries in memory.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []model.BidLog
}

func (r *fakeRecorder) Record(entry model.BidLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *fakeRecorder) Entries() []model.BidLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.BidLog(nil), r.entries...)
}

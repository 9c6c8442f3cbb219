package service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
)

// Recorder accepts bid log entries for persistence.
type Recorder interface {
	Record(entry model.BidLog)
}

const (
	recorderBuffer        = 100
	recorderBatchSize     = 10
	recorderFlushInterval = 1 * time.Second
)

// BidRecorder persists bid logs asynchronously in small batches.
type BidRecorder struct {
	repo          repository.BidLogRepository
	entries       chan model.BidLog
	done          chan struct{}
	flushInterval time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewBidRecorder starts the background writer. Call Close to flush and stop it.
func NewBidRecorder(repo repository.BidLogRepository) *BidRecorder {
	return newBidRecorder(repo, recorderFlushInterval)
}

func newBidRecorder(repo repository.BidLogRepository, flushInterval time.Duration) *BidRecorder {
	r := &BidRecorder{
		repo:          repo,
		entries:       make(chan model.BidLog, recorderBuffer),
		done:          make(chan struct{}),
		flushInterval: flushInterval,
	}
	go r.run(context.Background())
	return r
}

// Record queues entry without blocking. When the buffer is full, or the
// recorder is closed, the entry is written synchronously.
func (r *BidRecorder) Record(entry model.BidLog) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.closed {
		select {
		case r.entries <- entry:
			return
		default:
		}
	}

	if err := r.repo.Create(context.Background(), &entry); err != nil {
		log.WithError(err).WithField("auction_id", entry.AuctionID).Error("bid log: synchronous write failed")
	}
}

// Close drains queued entries and waits for the writer to exit.
func (r *BidRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.entries)
	r.mu.Unlock()

	<-r.done
}

func (r *BidRecorder) run(ctx context.Context) {
	defer close(r.done)

	batch := make([]model.BidLog, 0, recorderBatchSize)
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.repo.CreateBatch(ctx, batch); err != nil {
			log.WithError(err).WithField("entries", len(batch)).Error("bid log: batch write failed")
		}
		batch = make([]model.BidLog, 0, recorderBatchSize)
	}

	for {
		select {
		case entry, ok := <-r.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= recorderBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

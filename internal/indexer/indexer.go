package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/messaging"
	"github.com/feral-file/ray-indexer/internal/providers/ethereum"
	"github.com/feral-file/ray-indexer/internal/reconciler"
	"github.com/feral-file/ray-indexer/internal/store"
)

// Config holds the configuration for the indexer
type Config struct {
	CursorName      string
	StartBlock      uint64
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds

	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMaxElapsedTime  time.Duration
}

const (
	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxInterval     = 30 * time.Second
	defaultRetryMaxElapsedTime  = 5 * time.Minute
)

// Indexer defines the interface for the portfolio manager indexer
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=Indexer=MockIndexer
type Indexer interface {
	// Run consumes chain messages until ctx is cancelled or the subscription fails
	Run(ctx context.Context) error
	// Close closes the indexer and cleans up resources
	Close()
}

type indexer struct {
	subscriber messaging.Subscriber
	decoder    ethereum.Decoder
	reconciler reconciler.Reconciler
	cursors    store.CursorStore
	config     Config
	clock      adapter.Clock
}

// NewIndexer creates a new indexer
func NewIndexer(
	sub messaging.Subscriber,
	dec ethereum.Decoder,
	rec reconciler.Reconciler,
	cursors store.CursorStore,
	cfg Config,
	clock adapter.Clock,
) Indexer {
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaultRetryInitialInterval
	}
	if cfg.RetryMaxInterval <= 0 {
		cfg.RetryMaxInterval = defaultRetryMaxInterval
	}
	if cfg.RetryMaxElapsedTime <= 0 {
		cfg.RetryMaxElapsedTime = defaultRetryMaxElapsedTime
	}

	return &indexer{
		subscriber: sub,
		decoder:    dec,
		reconciler: rec,
		cursors:    cursors,
		config:     cfg,
		clock:      clock,
	}
}

// Run starts consuming chain messages
func (i *indexer) Run(ctx context.Context) error {
	startBlock := i.config.StartBlock
	if startBlock == 0 {
		lastBlock, err := i.cursors.GetBlockCursor(ctx, i.config.CursorName)
		if err != nil {
			return fmt.Errorf("failed to get block cursor: %w", err)
		}

		// The cursor block may hold events that were not handled yet; replays are skipped by the reconciler
		startBlock = lastBlock
		if lastBlock > 0 {
			logger.InfoCtx(ctx, "Resuming from last processed block",
				zap.String("cursor", i.config.CursorName), zap.Uint64("block", startBlock))
		} else {
			logger.InfoCtx(ctx, "Starting from the first available message", zap.String("cursor", i.config.CursorName))
		}
	} else {
		logger.InfoCtx(ctx, "Starting from configured block",
			zap.String("cursor", i.config.CursorName), zap.Uint64("block", startBlock))
	}

	lastSavedBlock := startBlock
	lastSaveTime := i.clock.Now()

	handler := func(ctx context.Context, msg *domain.ChainMessage) error {
		if err := i.handleMessage(ctx, msg); err != nil {
			return err
		}

		// Save cursor periodically (every N blocks or N seconds)
		blockNumber := msg.BlockNumber()
		shouldSave := blockNumber > lastSavedBlock &&
			(blockNumber-lastSavedBlock >= i.config.CursorSaveFreq ||
				i.clock.Since(lastSaveTime) >= i.config.CursorSaveDelay)

		if shouldSave {
			if err := i.cursors.SetBlockCursor(ctx, i.config.CursorName, blockNumber); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Failed to save block cursor"),
					zap.Uint64("blockNumber", blockNumber))
			} else {
				lastSavedBlock = blockNumber
				lastSaveTime = i.clock.Now()
			}
		}

		return nil
	}

	return i.subscriber.Subscribe(ctx, startBlock, handler)
}

// handleMessage decodes a message and applies the event, retrying transient failures
func (i *indexer) handleMessage(ctx context.Context, msg *domain.ChainMessage) error {
	event, err := i.decoder.Decode(msg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownEvent):
			logger.DebugCtx(ctx, "Skipping unrelated chain message",
				zap.Uint64("blockNumber", msg.BlockNumber()), zap.Error(err))
			return nil
		case errors.Is(err, domain.ErrInvalidEvent):
			logger.WarnCtx(ctx, "Skipping malformed portfolio manager message",
				zap.Uint64("blockNumber", msg.BlockNumber()), zap.Error(err))
			return nil
		default:
			return fmt.Errorf("failed to decode chain message: %w", err)
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = i.config.RetryInitialInterval
	b.MaxInterval = i.config.RetryMaxInterval
	b.MaxElapsedTime = i.config.RetryMaxElapsedTime

	operation := func() error {
		err := i.reconciler.HandleEvent(ctx, event)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Handling event failed, retrying",
			zap.Error(err),
			zap.String("eventID", event.Tx.EventID()),
			zap.Int("attempt", attemptCount),
			zap.Duration("nextRetryIn", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return fmt.Errorf("failed after %d attempts: %w", attemptCount+1, err)
	}

	return nil
}

// Close closes the indexer and cleans up resources
func (i *indexer) Close() {
	i.subscriber.Close()
}

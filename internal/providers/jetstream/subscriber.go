package jetstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	FilterSubject  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

type subscriber struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	json   adapter.JSON
	config Config
}

// NewSubscriber connects to NATS and returns a JetStream subscriber
func NewSubscriber(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &subscriber{
		nc:     nc,
		js:     js,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// consumerConfig keeps at most one message in flight so delivery order is preserved
func (s *subscriber) consumerConfig() jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Durable:       s.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       s.config.AckWaitTimeout,
		MaxDeliver:    s.config.MaxDeliver,
		MaxAckPending: 1,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		FilterSubject: s.config.FilterSubject,
	}
}

// Subscribe consumes messages until ctx is cancelled
func (s *subscriber) Subscribe(ctx context.Context, fromBlock uint64, handler messaging.MessageHandler) error {
	logger.InfoCtx(ctx, "Starting chain message subscription",
		zap.String("stream", s.config.StreamName),
		zap.String("consumer", s.config.ConsumerName),
		zap.Uint64("fromBlock", fromBlock))

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.config.StreamName, s.consumerConfig())
	if err != nil {
		return fmt.Errorf("%w: failed to create/update consumer: %v", domain.ErrSubscriptionFailed, err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get consumer info: %v", domain.ErrSubscriptionFailed, err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved",
		zap.String("consumer", consumerInfo.Name),
		zap.Uint64("numPending", consumerInfo.NumPending))

	msgChan := make(chan adapter.Message)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-ctx.Done():
			// Left unacknowledged; the server redelivers it after AckWait
		}
	}, jetstream.PullMaxMessages(1))
	if err != nil {
		return fmt.Errorf("%w: failed to create subscription: %v", domain.ErrSubscriptionFailed, err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming messages")

	closed := sub.Closed()

	// Messages are handled on this goroutine, one at a time
	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down chain message subscription")
			return ctx.Err()
		case <-closed:
			return fmt.Errorf("%w: consumer closed", domain.ErrSubscriptionFailed)
		case msg := <-msgChan:
			s.handleMessage(ctx, msg, fromBlock, handler)
		}
	}
}

// handleMessage decodes and handles a single NATS message
func (s *subscriber) handleMessage(ctx context.Context, msg adapter.Message, fromBlock uint64, handler messaging.MessageHandler) {
	var deliveryCount uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveryCount = metadata.NumDelivered
	}

	var chainMsg domain.ChainMessage
	if err := s.json.Unmarshal(msg.Data(), &chainMsg); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal chain message"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	blockNumber := chainMsg.BlockNumber()
	if blockNumber < fromBlock {
		logger.DebugCtx(ctx, "Skipping message before cursor",
			zap.Uint64("blockNumber", blockNumber),
			zap.Uint64("fromBlock", fromBlock))
		if err := msg.Ack(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
		}
		return
	}

	logger.DebugCtx(ctx, "Received chain message",
		zap.String("kind", string(chainMsg.Kind)),
		zap.Uint64("blockNumber", blockNumber),
		zap.Uint64("deliveryCount", deliveryCount))

	err := s.handleWithProgress(ctx, msg, &chainMsg, handler)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to handle chain message"),
			zap.Uint64("blockNumber", blockNumber))
		// NAK to retry
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	// ACK message after successful processing
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
}

// defaultAckWait is the server-side ack wait used when none is configured
const defaultAckWait = 30 * time.Second

// progressInterval is how often a message still being handled is marked in progress
func (s *subscriber) progressInterval() time.Duration {
	ackWait := s.config.AckWaitTimeout
	if ackWait <= 0 {
		ackWait = defaultAckWait
	}
	return ackWait / 2
}

// handleWithProgress runs the handler and keeps resetting the message ack timer
// until it returns, so the server does not redeliver a message that is still being retried
func (s *subscriber) handleWithProgress(ctx context.Context, msg adapter.Message, chainMsg *domain.ChainMessage, handler messaging.MessageHandler) error {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.progressInterval())
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := msg.InProgress(); err != nil {
					logger.ErrorCtx(ctx, err, zap.String("message", "Failed to mark message in progress"))
				}
			}
		}
	}()

	err := handler(ctx, chainMsg)
	close(done)
	wg.Wait()

	return err
}

// Close closes the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	s.nc.Close()
}

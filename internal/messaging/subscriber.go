package messaging

import (
	"context"

	"github.com/feral-file/ray-indexer/internal/domain"
)

// MessageHandler is called for each chain message, in delivery order.
// A returned error asks the source to redeliver the message.
type MessageHandler func(ctx context.Context, msg *domain.ChainMessage) error

// Subscriber delivers portfolio manager chain messages one at a time
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe blocks, handing every message at or after fromBlock to handler
	// until ctx is cancelled. Messages from earlier blocks are acknowledged and skipped.
	Subscribe(ctx context.Context, fromBlock uint64, handler MessageHandler) error

	// Close closes the connection and cleans up resources
	Close()
}

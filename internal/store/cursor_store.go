package store

import (
	"context"
	"fmt"
	"strconv"
)

// CursorStore defines the interface for storing and retrieving block cursors
//
//go:generate mockgen -source=cursor_store.go -destination=../mocks/cursor_store.go -package=mocks -mock_names=CursorStore=MockCursorStore
type CursorStore interface {
	// GetBlockCursor retrieves the last processed block number for a named cursor
	GetBlockCursor(ctx context.Context, name string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a named cursor
	SetBlockCursor(ctx context.Context, name string, blockNumber uint64) error
}

type cursorStore struct {
	kv KeyValueStore
}

// NewCursorStore creates a cursor store on top of a key-value store
func NewCursorStore(kv KeyValueStore) CursorStore {
	return &cursorStore{kv: kv}
}

func cursorKey(name string) string {
	return fmt.Sprintf("block_cursor:%s", name)
}

// GetBlockCursor retrieves the last processed block number, 0 if no cursor exists
func (s *cursorStore) GetBlockCursor(ctx context.Context, name string) (uint64, error) {
	value, err := s.kv.GetKeyValue(ctx, cursorKey(name))
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if value == "" {
		return 0, nil
	}

	blockNumber, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number
func (s *cursorStore) SetBlockCursor(ctx context.Context, name string, blockNumber uint64) error {
	err := s.kv.SetKeyValue(ctx, cursorKey(name), strconv.FormatUint(blockNumber, 10))
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}

package indexer_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/indexer"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/messaging"
	"github.com/feral-file/ray-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const testCursor = "portfolio-manager"

// testIndexerMocks contains all the mocks needed for testing the indexer
type testIndexerMocks struct {
	ctrl       *gomock.Controller
	subscriber *mocks.MockSubscriber
	decoder    *mocks.MockDecoder
	reconciler *mocks.MockReconciler
	cursors    *mocks.MockCursorStore
	clock      *mocks.MockClock
}

func setupTestIndexer(t *testing.T) *testIndexerMocks {
	ctrl := gomock.NewController(t)

	return &testIndexerMocks{
		ctrl:       ctrl,
		subscriber: mocks.NewMockSubscriber(ctrl),
		decoder:    mocks.NewMockDecoder(ctrl),
		reconciler: mocks.NewMockReconciler(ctrl),
		cursors:    mocks.NewMockCursorStore(ctrl),
		clock:      mocks.NewMockClock(ctrl),
	}
}

func (m *testIndexerMocks) newIndexer(startBlock uint64) indexer.Indexer {
	return indexer.NewIndexer(
		m.subscriber,
		m.decoder,
		m.reconciler,
		m.cursors,
		indexer.Config{
			CursorName:           testCursor,
			StartBlock:           startBlock,
			CursorSaveFreq:       10,
			CursorSaveDelay:      5 * time.Second,
			RetryInitialInterval: time.Millisecond,
			RetryMaxInterval:     2 * time.Millisecond,
			RetryMaxElapsedTime:  20 * time.Millisecond,
		},
		m.clock,
	)
}

func logAt(blockNumber uint64) *domain.ChainMessage {
	return &domain.ChainMessage{
		Kind: domain.MessageKindLog,
		Log:  &types.Log{BlockNumber: blockNumber},
	}
}

func eventAt(blockNumber uint64) *domain.Event {
	return &domain.Event{
		Type:            domain.EventTypeOpportunityMint,
		Tx:              domain.TxContext{BlockNumber: blockNumber},
		OpportunityMint: &domain.OpportunityMintParams{},
	}
}

// deliver makes the subscriber hand the messages to the handler and return the handler errors
func (m *testIndexerMocks) deliver(fromBlock uint64, msgs []*domain.ChainMessage, errs *[]error) {
	m.subscriber.
		EXPECT().
		Subscribe(gomock.Any(), fromBlock, gomock.Any()).
		DoAndReturn(func(ctx context.Context, fromBlock uint64, handler messaging.MessageHandler) error {
			for _, msg := range msgs {
				*errs = append(*errs, handler(ctx, msg))
			}
			return nil
		})
}

func TestIndexer_Run_WithStartBlock(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	now := time.Now()
	m.clock.EXPECT().Now().Return(now).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

	var errs []error
	m.deliver(1000, []*domain.ChainMessage{logAt(1001)}, &errs)
	m.decoder.EXPECT().Decode(gomock.Any()).Return(eventAt(1001), nil)
	m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil)

	err := m.newIndexer(1000).Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []error{nil}, errs)
}

func TestIndexer_Run_ResumeFromCursor(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.cursors.EXPECT().GetBlockCursor(gomock.Any(), testCursor).Return(uint64(500), nil)

	var errs []error
	m.deliver(500, nil, &errs)

	assert.NoError(t, m.newIndexer(0).Run(context.Background()))
}

func TestIndexer_Run_FromBeginning(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.cursors.EXPECT().GetBlockCursor(gomock.Any(), testCursor).Return(uint64(0), nil)

	var errs []error
	m.deliver(0, nil, &errs)

	assert.NoError(t, m.newIndexer(0).Run(context.Background()))
}

func TestIndexer_Run_CursorError(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.cursors.EXPECT().GetBlockCursor(gomock.Any(), testCursor).Return(uint64(0), assert.AnError)

	err := m.newIndexer(0).Run(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to get block cursor")
}

func TestIndexer_Run_SubscribeError(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.subscriber.
		EXPECT().
		Subscribe(gomock.Any(), uint64(1), gomock.Any()).
		Return(domain.ErrSubscriptionFailed)

	err := m.newIndexer(1).Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrSubscriptionFailed)
}

func TestIndexer_Run_SavesCursorEveryNBlocks(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	msgs := []*domain.ChainMessage{logAt(105), logAt(110), logAt(115), logAt(120)}
	var errs []error
	m.deliver(100, msgs, &errs)
	m.decoder.EXPECT().Decode(gomock.Any()).DoAndReturn(func(msg *domain.ChainMessage) (*domain.Event, error) {
		return eventAt(msg.BlockNumber()), nil
	}).Times(len(msgs))
	m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil).Times(len(msgs))

	// 110 and 120 are ten blocks past the previous save
	gomock.InOrder(
		m.cursors.EXPECT().SetBlockCursor(gomock.Any(), testCursor, uint64(110)).Return(nil),
		m.cursors.EXPECT().SetBlockCursor(gomock.Any(), testCursor, uint64(120)).Return(nil),
	)

	require.NoError(t, m.newIndexer(100).Run(context.Background()))
	assert.Equal(t, []error{nil, nil, nil, nil}, errs)
}

func TestIndexer_Run_SavesCursorAfterDelay(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(10 * time.Second).AnyTimes()

	var errs []error
	m.deliver(100, []*domain.ChainMessage{logAt(101)}, &errs)
	m.decoder.EXPECT().Decode(gomock.Any()).Return(eventAt(101), nil)
	m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil)
	m.cursors.EXPECT().SetBlockCursor(gomock.Any(), testCursor, uint64(101)).Return(nil)

	require.NoError(t, m.newIndexer(100).Run(context.Background()))
}

func TestIndexer_Run_CursorSaveErrorIsNotFatal(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(10 * time.Second).AnyTimes()

	var errs []error
	m.deliver(100, []*domain.ChainMessage{logAt(101)}, &errs)
	m.decoder.EXPECT().Decode(gomock.Any()).Return(eventAt(101), nil)
	m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil)
	m.cursors.EXPECT().SetBlockCursor(gomock.Any(), testCursor, uint64(101)).Return(assert.AnError)

	require.NoError(t, m.newIndexer(100).Run(context.Background()))
	assert.Equal(t, []error{nil}, errs)
}

func TestIndexer_HandleMessage_SkipsUndecodableMessages(t *testing.T) {
	tests := []struct {
		name      string
		decodeErr error
		wantErr   bool
	}{
		{name: "unknown event is acknowledged", decodeErr: domain.ErrUnknownEvent},
		{name: "malformed event is acknowledged", decodeErr: domain.ErrInvalidEvent},
		{name: "other decode failures are redelivered", decodeErr: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTestIndexer(t)
			defer m.ctrl.Finish()

			m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
			m.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

			var errs []error
			m.deliver(100, []*domain.ChainMessage{logAt(101)}, &errs)
			m.decoder.EXPECT().Decode(gomock.Any()).Return(nil, tt.decodeErr)

			require.NoError(t, m.newIndexer(100).Run(context.Background()))
			require.Len(t, errs, 1)
			if tt.wantErr {
				assert.Error(t, errs[0])
			} else {
				assert.NoError(t, errs[0])
			}
		})
	}
}

func TestIndexer_HandleMessage_RetriesTransientFailures(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	m.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

	var errs []error
	m.deliver(100, []*domain.ChainMessage{logAt(101)}, &errs)
	m.decoder.EXPECT().Decode(gomock.Any()).Return(eventAt(101), nil)
	gomock.InOrder(
		m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil),
	)

	require.NoError(t, m.newIndexer(100).Run(context.Background()))
	assert.Equal(t, []error{nil}, errs)
}

func TestIndexer_HandleMessage_GivesUpAfterMaxElapsedTime(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.clock.EXPECT().Now().Return(time.Now()).AnyTimes()

	var errs []error
	m.deliver(100, []*domain.ChainMessage{logAt(101)}, &errs)
	m.decoder.EXPECT().Decode(gomock.Any()).Return(eventAt(101), nil)
	storeErr := errors.New("database is down")
	m.reconciler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(storeErr).MinTimes(1)

	require.NoError(t, m.newIndexer(100).Run(context.Background()))
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], storeErr)
}

func TestIndexer_Close(t *testing.T) {
	m := setupTestIndexer(t)
	defer m.ctrl.Finish()

	m.subscriber.EXPECT().Close()

	m.newIndexer(0).Close()
}

package jetstream_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/messaging"
	mockspkg "github.com/feral-file/ray-indexer/internal/mocks"
	jsprovider "github.com/feral-file/ray-indexer/internal/providers/jetstream"
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

// testSubscriberMocks contains all the mocks needed for testing the subscriber
type testSubscriberMocks struct {
	ctrl           *gomock.Controller
	natsJS         *mockspkg.MockNatsJetStream
	natsConn       *mockspkg.MockNatsConn
	jetStream      *mockspkg.MockJetStream
	consumer       *mockspkg.MockConsumer
	consumeContext *mockspkg.MockConsumeContext
	json           *mockspkg.MockJSON
}

func setupTestSubscriber(t *testing.T) *testSubscriberMocks {
	ctrl := gomock.NewController(t)

	return &testSubscriberMocks{
		ctrl:           ctrl,
		natsJS:         mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:       mockspkg.NewMockNatsConn(ctrl),
		jetStream:      mockspkg.NewMockJetStream(ctrl),
		consumer:       mockspkg.NewMockConsumer(ctrl),
		consumeContext: mockspkg.NewMockConsumeContext(ctrl),
		json:           mockspkg.NewMockJSON(ctrl),
	}
}

func testConfig() jsprovider.Config {
	return jsprovider.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "ray",
		ConsumerName:   "ray-indexer",
		FilterSubject:  "ray.portfolio-manager.>",
		MaxReconnects:  10,
		ReconnectWait:  1 * time.Second,
		ConnectionName: "test-ray-indexer",
		AckWaitTimeout: 30 * time.Second,
		MaxDeliver:     5,
	}
}

func newSubscriber(t *testing.T, mocks *testSubscriberMocks, config jsprovider.Config) messaging.Subscriber {
	mocks.natsJS.
		EXPECT().
		Connect(config.URL, gomock.Any()).
		Return(mocks.natsConn, mocks.jetStream, nil)

	s, err := jsprovider.NewSubscriber(config, mocks.natsJS, mocks.json)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

// expectConsume wires the consumer and returns a channel yielding the captured message handler
func expectConsume(mocks *testSubscriberMocks) <-chan adapter.MessageHandler {
	handlers := make(chan adapter.MessageHandler, 1)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.consumer, nil)
	mocks.consumer.
		EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "ray-indexer"}, nil)
	mocks.consumer.
		EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, opts ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			handlers <- handler
			return mocks.consumeContext, nil
		})
	mocks.consumeContext.EXPECT().Closed().Return(make(chan struct{})).AnyTimes()
	mocks.consumeContext.EXPECT().Stop().AnyTimes()

	return handlers
}

func logMessage(blockNumber uint64) domain.ChainMessage {
	return domain.ChainMessage{
		Kind:           domain.MessageKindLog,
		Log:            &types.Log{BlockNumber: blockNumber, Index: 3},
		BlockTimestamp: 1700000000,
	}
}

func expectDecoded(mocks *testSubscriberMocks, data []byte, chainMsg domain.ChainMessage) {
	mocks.json.
		EXPECT().
		Unmarshal(data, gomock.Any()).
		DoAndReturn(func(data []byte, v interface{}) error {
			*v.(*domain.ChainMessage) = chainMsg
			return nil
		})
}

func TestSubscriber_NewSubscriber_ConnectError(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	mocks.natsJS.
		EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	s, err := jsprovider.NewSubscriber(testConfig(), mocks.natsJS, mocks.json)

	assert.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestSubscriber_Subscribe_CreateConsumerError(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	config := testConfig()
	s := newSubscriber(t, mocks, config)

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			"ray",
			jetstream.ConsumerConfig{
				Durable:       config.ConsumerName,
				AckPolicy:     jetstream.AckExplicitPolicy,
				AckWait:       config.AckWaitTimeout,
				MaxDeliver:    config.MaxDeliver,
				MaxAckPending: 1,
				DeliverPolicy: jetstream.DeliverAllPolicy,
				FilterSubject: config.FilterSubject,
			}).
		Return(nil, assert.AnError)

	err := s.Subscribe(context.Background(), 0, func(ctx context.Context, msg *domain.ChainMessage) error {
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrSubscriptionFailed)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestSubscriber_Subscribe_ConsumerInfoError(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	s := newSubscriber(t, mocks, testConfig())

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.consumer, nil)
	mocks.consumer.
		EXPECT().
		Info(gomock.Any()).
		Return(nil, assert.AnError)

	err := s.Subscribe(context.Background(), 0, func(ctx context.Context, msg *domain.ChainMessage) error {
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get consumer info")
}

func TestSubscriber_Subscribe_ConsumeError(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	s := newSubscriber(t, mocks, testConfig())

	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.consumer, nil)
	mocks.consumer.
		EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "ray-indexer"}, nil)
	mocks.consumer.
		EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	err := s.Subscribe(context.Background(), 0, func(ctx context.Context, msg *domain.ChainMessage) error {
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create subscription")
}

func TestSubscriber_Subscribe_ContextCancellation(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	s := newSubscriber(t, mocks, testConfig())
	handlers := expectConsume(mocks)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Subscribe(ctx, 0, func(ctx context.Context, msg *domain.ChainMessage) error {
			return nil
		})
	}()

	<-handlers
	cancel()

	select {
	case err := <-errChan:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}
}

func TestSubscriber_Subscribe_ConsumerClosed(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	s := newSubscriber(t, mocks, testConfig())

	closed := make(chan struct{})
	close(closed)
	mocks.jetStream.
		EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.consumer, nil)
	mocks.consumer.
		EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "ray-indexer"}, nil)
	mocks.consumer.
		EXPECT().
		Consume(gomock.Any(), gomock.Any()).
		Return(mocks.consumeContext, nil)
	mocks.consumeContext.EXPECT().Closed().Return(closed)
	mocks.consumeContext.EXPECT().Stop()

	err := s.Subscribe(context.Background(), 0, func(ctx context.Context, msg *domain.ChainMessage) error {
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrSubscriptionFailed)
}

func TestSubscriber_HandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		fromBlock  uint64
		decodeErr  error
		handlerErr error
		wantCalled bool
		wantReply  string
	}{
		{
			name:       "handled message is acknowledged",
			fromBlock:  100,
			wantCalled: true,
			wantReply:  "ack",
		},
		{
			name:       "handler failure is redelivered",
			fromBlock:  100,
			handlerErr: errors.New("store unavailable"),
			wantCalled: true,
			wantReply:  "nak",
		},
		{
			name:      "undecodable payload is terminated",
			fromBlock: 100,
			decodeErr: errors.New("invalid character"),
			wantReply: "term",
		},
		{
			name:      "message before cursor is acknowledged without handling",
			fromBlock: 200,
			wantReply: "ack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestSubscriber(t)
			defer mocks.ctrl.Finish()

			s := newSubscriber(t, mocks, testConfig())
			handlers := expectConsume(mocks)

			data := []byte(`{"kind":"log"}`)
			chainMsg := logMessage(150)

			msg := mockspkg.NewMockMessage(mocks.ctrl)
			msg.EXPECT().Data().Return(data).MinTimes(1)
			msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()

			if tt.decodeErr != nil {
				mocks.json.EXPECT().Unmarshal(data, gomock.Any()).Return(tt.decodeErr)
			} else {
				expectDecoded(mocks, data, chainMsg)
			}

			replied := make(chan string, 1)
			switch tt.wantReply {
			case "ack":
				msg.EXPECT().Ack().DoAndReturn(func() error { replied <- "ack"; return nil })
			case "nak":
				msg.EXPECT().Nak().DoAndReturn(func() error { replied <- "nak"; return nil })
			case "term":
				msg.EXPECT().Term().DoAndReturn(func() error { replied <- "term"; return nil })
			}

			called := false
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = s.Subscribe(ctx, tt.fromBlock, func(ctx context.Context, msg *domain.ChainMessage) error {
					called = true
					assert.Equal(t, uint64(150), msg.BlockNumber())
					return tt.handlerErr
				})
			}()

			handler := <-handlers
			handler(msg)

			select {
			case reply := <-replied:
				assert.Equal(t, tt.wantReply, reply)
			case <-time.After(5 * time.Second):
				t.Fatal("Test timed out")
			}

			cancel()
			<-done
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}

func TestSubscriber_HandleMessage_MarksSlowMessageInProgress(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	config := testConfig()
	config.AckWaitTimeout = 40 * time.Millisecond
	s := newSubscriber(t, mocks, config)
	handlers := expectConsume(mocks)

	data := []byte(`{"kind":"log"}`)
	expectDecoded(mocks, data, logMessage(150))

	progress := make(chan struct{}, 10)
	msg := mockspkg.NewMockMessage(mocks.ctrl)
	msg.EXPECT().Data().Return(data).MinTimes(1)
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()
	msg.EXPECT().InProgress().DoAndReturn(func() error {
		select {
		case progress <- struct{}{}:
		default:
		}
		return nil
	}).MinTimes(2)
	acked := make(chan struct{})
	msg.EXPECT().Ack().DoAndReturn(func() error { close(acked); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Subscribe(ctx, 0, func(ctx context.Context, msg *domain.ChainMessage) error {
			// Outlast two progress intervals before succeeding
			for i := 0; i < 2; i++ {
				select {
				case <-progress:
				case <-time.After(5 * time.Second):
					return errors.New("message was not marked in progress")
				}
			}
			return nil
		})
	}()

	handler := <-handlers
	handler(msg)

	select {
	case <-acked:
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}

	cancel()
	<-done
}

func TestSubscriber_HandleMessage_Sequential(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	s := newSubscriber(t, mocks, testConfig())
	handlers := expectConsume(mocks)

	first := mockspkg.NewMockMessage(mocks.ctrl)
	second := mockspkg.NewMockMessage(mocks.ctrl)
	firstData := []byte(`{"n":1}`)
	secondData := []byte(`{"n":2}`)

	for _, m := range []struct {
		msg  *mockspkg.MockMessage
		data []byte
	}{{first, firstData}, {second, secondData}} {
		m.msg.EXPECT().Data().Return(m.data).MinTimes(1)
		m.msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()
	}
	expectDecoded(mocks, firstData, logMessage(10))
	expectDecoded(mocks, secondData, logMessage(11))

	acked := make(chan struct{}, 2)
	firstAck := first.EXPECT().Ack().DoAndReturn(func() error { acked <- struct{}{}; return nil })
	second.EXPECT().Ack().DoAndReturn(func() error { acked <- struct{}{}; return nil }).After(firstAck)

	var seen []uint64
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Subscribe(ctx, 0, func(ctx context.Context, msg *domain.ChainMessage) error {
			seen = append(seen, msg.BlockNumber())
			return nil
		})
	}()

	handler := <-handlers
	handler(first)
	handler(second)

	for i := 0; i < 2; i++ {
		select {
		case <-acked:
		case <-time.After(5 * time.Second):
			t.Fatal("Test timed out")
		}
	}

	cancel()
	<-done
	assert.Equal(t, []uint64{10, 11}, seen)
}

func TestSubscriber_Close(t *testing.T) {
	mocks := setupTestSubscriber(t)
	defer mocks.ctrl.Finish()

	s := newSubscriber(t, mocks, testConfig())
	mocks.natsConn.EXPECT().Close()

	s.Close()
}

package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/providers/ethereum"
	"github.com/feral-file/ray-indexer/internal/registry"
	"github.com/feral-file/ray-indexer/internal/store"
	"github.com/feral-file/ray-indexer/internal/store/schema"
)

// Reconciler applies decoded portfolio manager events to the entity store.
// Calls must be made sequentially in chain order.
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// HandleEvent applies one event atomically. Events that cannot be applied
	// are logged and dropped; only store failures are returned.
	HandleEvent(ctx context.Context, event *domain.Event) error

	// ResolveAsset returns the asset for a token address, creating it on first use
	ResolveAsset(ctx context.Context, address common.Address) (*schema.Asset, error)

	// ResolvePortfolioAsset returns the collateral address of a portfolio,
	// or the genesis address when the portfolio is unknown
	ResolvePortfolioAsset(ctx context.Context, portfolioID common.Hash) common.Address

	// ApplyMint creates the token minted to the beneficiary
	ApplyMint(ctx context.Context, tx domain.TxContext, params domain.MintParams) (*schema.RAYToken, *schema.Transaction, error)

	// ApplyDeposit adds the deposited amount to a token
	ApplyDeposit(ctx context.Context, tx domain.TxContext, params domain.ValueChangeParams) (*schema.RAYToken, *schema.Transaction, error)

	// ApplyWithdraw subtracts the withdrawn amount from a token
	ApplyWithdraw(ctx context.Context, tx domain.TxContext, params domain.ValueChangeParams) (*schema.RAYToken, *schema.Transaction, error)

	// ApplyBurn zeroes a token and marks it inactive
	ApplyBurn(ctx context.Context, tx domain.TxContext, params domain.BurnParams) (*schema.RAYToken, *schema.Transaction, error)

	// ApplyOpportunityMint creates an opportunity token for a portfolio
	ApplyOpportunityMint(ctx context.Context, tx domain.TxContext, params domain.OpportunityMintParams) (*schema.OpportunityToken, error)

	// ApplyBuyPosition links an opportunity to its token and corrects the portfolio asset
	ApplyBuyPosition(ctx context.Context, tx domain.TxContext, params domain.BuyPositionParams) (*schema.Opportunity, error)
}

type reconciler struct {
	config     Config
	store      store.Store
	portfolios registry.PortfolioRegistry
	metadata   ethereum.TokenMetadataReader
	json       adapter.JSON
	// assets caches committed assets, keyed by asset id
	assets *lru.Cache[string, schema.Asset]
	// txAssets holds assets resolved inside the current transaction until it commits
	txAssets map[string]schema.Asset
}

// New creates a reconciler
func New(
	cfg Config,
	st store.Store,
	portfolios registry.PortfolioRegistry,
	metadata ethereum.TokenMetadataReader,
	jsonAdapter adapter.JSON,
) (Reconciler, error) {
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	assets, err := lru.New[string, schema.Asset](cfg.AssetCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset cache: %w", err)
	}

	return &reconciler{
		config:     cfg,
		store:      st,
		portfolios: portfolios,
		metadata:   metadata,
		json:       jsonAdapter,
		assets:     assets,
	}, nil
}

// IsSoft reports whether err describes an event that is dropped rather than retried
func IsSoft(err error) bool {
	return errors.Is(err, domain.ErrReferenceNotFound) ||
		errors.Is(err, domain.ErrNegativeBalance) ||
		errors.Is(err, domain.ErrTokenInactive) ||
		errors.Is(err, domain.ErrTokenAlreadyExists) ||
		errors.Is(err, domain.ErrInvalidEvent)
}

// inTx runs fn with a reconciler bound to a single store transaction.
// Assets resolved by fn are cached once the transaction commits.
func (r *reconciler) inTx(ctx context.Context, fn func(b *reconciler) error) error {
	var bound *reconciler
	err := r.store.WithTx(ctx, func(tx store.Store) error {
		c := *r
		c.store = tx
		c.txAssets = make(map[string]schema.Asset)
		bound = &c
		return fn(bound)
	})
	if err != nil {
		return err
	}

	if bound != nil {
		for id, asset := range bound.txAssets {
			r.assets.Add(id, asset)
		}
	}

	return nil
}

// HandleEvent applies the event inside a single store transaction
func (r *reconciler) HandleEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", domain.ErrInvalidEvent)
	}

	fields := []zap.Field{
		zap.String("eventType", string(event.Type)),
		zap.String("eventID", event.Tx.EventID()),
		zap.Uint64("blockNumber", event.Tx.BlockNumber),
	}

	err := r.inTx(ctx, func(b *reconciler) error {
		return b.apply(ctx, event)
	})
	if err != nil {
		if IsSoft(err) {
			logger.WarnCtx(ctx, "Dropped portfolio manager event", append(fields, zap.Error(err))...)
			return nil
		}
		return fmt.Errorf("failed to handle %s event %s: %w", event.Type, event.Tx.EventID(), err)
	}

	logger.DebugCtx(ctx, "Handled portfolio manager event", fields...)

	return nil
}

// apply dispatches the event, skipping events whose record already exists
func (r *reconciler) apply(ctx context.Context, event *domain.Event) error {
	if !event.Valid() {
		return fmt.Errorf("%w: missing %s payload", domain.ErrInvalidEvent, event.Type)
	}

	if event.Type.Recorded() {
		exists, err := r.store.Load(ctx, event.Tx.EventID(), &schema.Transaction{})
		if err != nil {
			return fmt.Errorf("failed to check transaction record: %w", err)
		}
		if exists {
			logger.DebugCtx(ctx, "Event already recorded, skipping",
				zap.String("eventID", event.Tx.EventID()))
			return nil
		}
	}

	var err error
	switch event.Type {
	case domain.EventTypeMint:
		_, _, err = r.applyMint(ctx, event.Tx, *event.Mint)
	case domain.EventTypeDeposit:
		_, _, err = r.applyValueChange(ctx, domain.EventTypeDeposit, event.Tx, *event.Deposit)
	case domain.EventTypeWithdraw:
		_, _, err = r.applyValueChange(ctx, domain.EventTypeWithdraw, event.Tx, *event.Withdraw)
	case domain.EventTypeBurn:
		_, _, err = r.applyBurn(ctx, event.Tx, *event.Burn)
	case domain.EventTypeOpportunityMint:
		_, err = r.applyOpportunityMint(ctx, event.Tx, *event.OpportunityMint)
	case domain.EventTypeBuyPosition:
		_, err = r.applyBuyPosition(ctx, event.Tx, *event.BuyPosition)
	default:
		err = fmt.Errorf("%w: unsupported event type %q", domain.ErrInvalidEvent, event.Type)
	}

	return err
}

// ApplyMint runs the mint handler in its own transaction
func (r *reconciler) ApplyMint(ctx context.Context, tx domain.TxContext, params domain.MintParams) (*schema.RAYToken, *schema.Transaction, error) {
	var token *schema.RAYToken
	var record *schema.Transaction
	err := r.inTx(ctx, func(b *reconciler) error {
		var err error
		token, record, err = b.applyMint(ctx, tx, params)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return token, record, nil
}

// ApplyDeposit runs the deposit handler in its own transaction
func (r *reconciler) ApplyDeposit(ctx context.Context, tx domain.TxContext, params domain.ValueChangeParams) (*schema.RAYToken, *schema.Transaction, error) {
	return r.runValueChange(ctx, domain.EventTypeDeposit, tx, params)
}

// ApplyWithdraw runs the withdraw handler in its own transaction
func (r *reconciler) ApplyWithdraw(ctx context.Context, tx domain.TxContext, params domain.ValueChangeParams) (*schema.RAYToken, *schema.Transaction, error) {
	return r.runValueChange(ctx, domain.EventTypeWithdraw, tx, params)
}

func (r *reconciler) runValueChange(ctx context.Context, eventType domain.EventType, tx domain.TxContext, params domain.ValueChangeParams) (*schema.RAYToken, *schema.Transaction, error) {
	var token *schema.RAYToken
	var record *schema.Transaction
	err := r.inTx(ctx, func(b *reconciler) error {
		var err error
		token, record, err = b.applyValueChange(ctx, eventType, tx, params)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return token, record, nil
}

// ApplyBurn runs the burn handler in its own transaction
func (r *reconciler) ApplyBurn(ctx context.Context, tx domain.TxContext, params domain.BurnParams) (*schema.RAYToken, *schema.Transaction, error) {
	var token *schema.RAYToken
	var record *schema.Transaction
	err := r.inTx(ctx, func(b *reconciler) error {
		var err error
		token, record, err = b.applyBurn(ctx, tx, params)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return token, record, nil
}

// ApplyOpportunityMint runs the opportunity token mint handler in its own transaction
func (r *reconciler) ApplyOpportunityMint(ctx context.Context, tx domain.TxContext, params domain.OpportunityMintParams) (*schema.OpportunityToken, error) {
	var token *schema.OpportunityToken
	err := r.inTx(ctx, func(b *reconciler) error {
		var err error
		token, err = b.applyOpportunityMint(ctx, tx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// ApplyBuyPosition runs the buy-position handler in its own transaction
func (r *reconciler) ApplyBuyPosition(ctx context.Context, tx domain.TxContext, params domain.BuyPositionParams) (*schema.Opportunity, error) {
	var opportunity *schema.Opportunity
	err := r.inTx(ctx, func(b *reconciler) error {
		var err error
		opportunity, err = b.applyBuyPosition(ctx, tx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return opportunity, nil
}

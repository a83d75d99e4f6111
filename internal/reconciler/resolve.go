package reconciler

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/providers/ethereum"
	"github.com/feral-file/ray-indexer/internal/store"
	"github.com/feral-file/ray-indexer/internal/store/schema"
)

// entityPtr constrains a pointer to an entity struct
type entityPtr[T any] interface {
	*T
	schema.Entity
}

// resolveOrCreate loads the entity stored under id, or builds a new one with defaults.
// A new entity is saved immediately when persist is set; otherwise the caller saves it
// after assigning the remaining fields. It reports whether the entity was created.
func resolveOrCreate[T any, PT entityPtr[T]](
	ctx context.Context,
	s store.Store,
	id string,
	defaults func(entity PT) error,
	persist bool,
) (PT, bool, error) {
	entity := PT(new(T))

	found, err := s.Load(ctx, id, entity)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s %s: %w", entity.Kind(), id, err)
	}
	if found {
		return entity, false, nil
	}

	entity = PT(new(T))
	entity.SetEntityID(id)
	if defaults != nil {
		if err := defaults(entity); err != nil {
			return nil, false, err
		}
	}

	if persist {
		if err := s.Save(ctx, entity); err != nil {
			return nil, false, fmt.Errorf("failed to save %s %s: %w", entity.Kind(), id, err)
		}
	}

	return entity, true, nil
}

// loadExisting loads an entity that an event refers to, reporting ErrReferenceNotFound when absent
func loadExisting[T any, PT entityPtr[T]](ctx context.Context, s store.Store, id string) (PT, error) {
	entity := PT(new(T))

	found, err := s.Load(ctx, id, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %s: %w", entity.Kind(), id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrReferenceNotFound, entity.Kind(), id)
	}

	return entity, nil
}

// ResolveAsset returns the asset for a token address. Metadata is read from chain once,
// when the asset is first created.
func (r *reconciler) ResolveAsset(ctx context.Context, address common.Address) (*schema.Asset, error) {
	id := domain.AddressID(address)

	if pending, ok := r.txAssets[id]; ok {
		return &pending, nil
	}
	if cached, ok := r.assets.Get(id); ok {
		return &cached, nil
	}

	asset, created, err := resolveOrCreate(ctx, r.store, id, func(a *schema.Asset) error {
		return r.assetDefaults(ctx, address, a)
	}, true)
	if err != nil {
		return nil, err
	}

	if created {
		logger.InfoCtx(ctx, "Created asset",
			zap.String("assetID", asset.ID),
			zap.Int("decimals", asset.Decimals),
			zap.String("symbol", asset.Symbol))
	}

	if r.txAssets != nil {
		r.txAssets[id] = *asset
	} else {
		r.assets.Add(id, *asset)
	}

	return asset, nil
}

// assetDefaults fills a new asset from the token metadata. Each field falls back
// independently when the token lacks the method; any other read failure is returned
// so the event is retried instead of persisting a default.
func (r *reconciler) assetDefaults(ctx context.Context, address common.Address, asset *schema.Asset) error {
	if domain.IsGenesis(address) {
		asset.Address = nil
		asset.Decimals = 0
		asset.Name = ""
		asset.Symbol = ""
		return nil
	}

	addr := domain.AddressID(address)
	asset.Address = &addr

	// Single-collateral Dai does not implement the optional metadata methods
	if strings.EqualFold(addr, domain.SAI_ADDRESS) {
		asset.Decimals = domain.SAI_DECIMALS
		asset.Name = domain.SAI_NAME
		asset.Symbol = domain.SAI_SYMBOL
		return nil
	}

	decimals, err := r.metadata.Decimals(ctx, address)
	if err != nil {
		if !ethereum.IsMethodUnavailable(err) {
			return fmt.Errorf("failed to read decimals of asset %s: %w", addr, err)
		}
		logger.WarnCtx(ctx, "Falling back to default decimals",
			zap.String("assetID", addr),
			zap.Int("decimals", r.config.DefaultDecimals),
			zap.Error(err))
		asset.Decimals = r.config.DefaultDecimals
	} else {
		asset.Decimals = int(decimals)
	}

	name, err := r.metadata.Name(ctx, address)
	if err != nil {
		if !ethereum.IsMethodUnavailable(err) {
			return fmt.Errorf("failed to read name of asset %s: %w", addr, err)
		}
		logger.DebugCtx(ctx, "Asset name unavailable", zap.String("assetID", addr), zap.Error(err))
		name = ""
	}
	asset.Name = name

	symbol, err := r.metadata.Symbol(ctx, address)
	if err != nil {
		if !ethereum.IsMethodUnavailable(err) {
			return fmt.Errorf("failed to read symbol of asset %s: %w", addr, err)
		}
		logger.DebugCtx(ctx, "Asset symbol unavailable", zap.String("assetID", addr), zap.Error(err))
		symbol = ""
	}
	asset.Symbol = symbol

	return nil
}

// ResolvePortfolioAsset looks the portfolio up in the registry
func (r *reconciler) ResolvePortfolioAsset(ctx context.Context, portfolioID common.Hash) common.Address {
	address, ok := r.portfolios.AssetForPortfolio(portfolioID)
	if !ok {
		logger.WarnCtx(ctx, "Portfolio not found in portfolio registry",
			zap.String("portfolioID", domain.HashID(portfolioID)))
		return domain.GenesisAddress
	}

	return address
}

// resolveUser returns the user for an address, creating it on first use
func (r *reconciler) resolveUser(ctx context.Context, address common.Address) (*schema.User, error) {
	user, _, err := resolveOrCreate(ctx, r.store, domain.AddressID(address), func(u *schema.User) error {
		u.Address = domain.AddressID(address)
		return nil
	}, true)
	return user, err
}

// resolvePortfolio returns the portfolio, creating it and its asset on first use.
// The asset is saved before the portfolio that references it.
func (r *reconciler) resolvePortfolio(ctx context.Context, portfolioID common.Hash) (*schema.Portfolio, error) {
	portfolio, _, err := resolveOrCreate(ctx, r.store, domain.HashID(portfolioID), func(p *schema.Portfolio) error {
		asset, err := r.ResolveAsset(ctx, r.ResolvePortfolioAsset(ctx, portfolioID))
		if err != nil {
			return err
		}
		p.AssetID = asset.ID
		return nil
	}, true)
	return portfolio, err
}

// portfolioAsset returns the asset a stored portfolio references
func (r *reconciler) portfolioAsset(ctx context.Context, portfolio *schema.Portfolio) (*schema.Asset, error) {
	return r.ResolveAsset(ctx, common.HexToAddress(portfolio.AssetID))
}

// tokenAsset returns the asset of the portfolio a token belongs to
func (r *reconciler) tokenAsset(ctx context.Context, token *schema.RAYToken) (*schema.Asset, error) {
	portfolio, err := loadExisting[schema.Portfolio](ctx, r.store, token.PortfolioID)
	if err != nil {
		return nil, err
	}
	return r.portfolioAsset(ctx, portfolio)
}

package reconciler

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/logger"
	"github.com/feral-file/ray-indexer/internal/store/schema"
)

// scaled returns the decimal value paired with a raw amount
func scaled(raw decimal.Decimal, decimals int) decimal.Decimal {
	return domain.ToDecimal(domain.RawBigInt(raw), decimals)
}

// setTokenValue assigns the raw value and its scaled value together
func setTokenValue(token *schema.RAYToken, raw decimal.Decimal, decimals int) {
	token.RawValue = raw
	token.Value = scaled(raw, decimals)
}

// newRecord builds the immutable transaction record of an event
func (r *reconciler) newRecord(
	eventType domain.EventType,
	tx domain.TxContext,
	tokenID string,
	actorID string,
	amount, before, after decimal.Decimal,
	decimals int,
	payload any,
) (*schema.Transaction, error) {
	raw, err := r.json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return &schema.Transaction{
		ID:              tx.EventID(),
		Type:            eventType,
		TokenID:         tokenID,
		ActorID:         actorID,
		RawAmount:       amount,
		Amount:          scaled(amount, decimals),
		RawValueBefore:  before,
		ValueBefore:     scaled(before, decimals),
		RawValueAfter:   after,
		ValueAfter:      scaled(after, decimals),
		BlockNumber:     tx.BlockNumber,
		Timestamp:       tx.Timestamp,
		TxHash:          domain.HashID(tx.TxHash),
		LogIndex:        tx.LogIndex,
		ContractAddress: domain.AddressID(tx.ContractAddress),
		Raw:             datatypes.JSON(raw),
	}, nil
}

func (r *reconciler) saveRecord(ctx context.Context, record *schema.Transaction) error {
	if err := r.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", record.ID, err)
	}
	return nil
}

func (r *reconciler) saveToken(ctx context.Context, token *schema.RAYToken) error {
	if err := r.store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to save token %s: %w", token.ID, err)
	}
	return nil
}

// applyMint creates the token and its owner. The user, portfolio and asset are saved
// before the token, and the token before its record.
func (r *reconciler) applyMint(ctx context.Context, tx domain.TxContext, params domain.MintParams) (*schema.RAYToken, *schema.Transaction, error) {
	tokenID := domain.HashID(params.TokenID)

	token, created, err := resolveOrCreate(ctx, r.store, tokenID, func(t *schema.RAYToken) error {
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}
	if !created {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrTokenAlreadyExists, tokenID)
	}

	user, err := r.resolveUser(ctx, params.Beneficiary)
	if err != nil {
		return nil, nil, err
	}

	portfolio, err := r.resolvePortfolio(ctx, params.PortfolioID)
	if err != nil {
		return nil, nil, err
	}

	asset, err := r.portfolioAsset(ctx, portfolio)
	if err != nil {
		return nil, nil, err
	}

	value := domain.RawDecimal(params.Value)
	token.OwnerID = user.ID
	token.PortfolioID = portfolio.ID
	token.IsActive = true
	setTokenValue(token, value, asset.Decimals)

	if err := r.saveToken(ctx, token); err != nil {
		return nil, nil, err
	}

	record, err := r.newRecord(domain.EventTypeMint, tx, token.ID, user.ID,
		value, decimal.Zero, value, asset.Decimals, params)
	if err != nil {
		return nil, nil, err
	}
	if err := r.saveRecord(ctx, record); err != nil {
		return nil, nil, err
	}

	logger.InfoCtx(ctx, "Minted RAY token",
		zap.String("tokenID", token.ID),
		zap.String("portfolioID", portfolio.ID),
		zap.String("ownerID", user.ID),
		zap.String("value", token.Value.String()))

	return token, record, nil
}

// activeToken loads the token an event refers to and checks it has not been burned
func (r *reconciler) activeToken(ctx context.Context, tokenID string) (*schema.RAYToken, error) {
	token, err := loadExisting[schema.RAYToken](ctx, r.store, tokenID)
	if err != nil {
		return nil, err
	}

	if !token.IsActive {
		if r.config.RejectInactiveToken {
			return nil, fmt.Errorf("%w: %s", domain.ErrTokenInactive, tokenID)
		}
		logger.WarnCtx(ctx, "Applying event to inactive token", zap.String("tokenID", tokenID))
	}

	return token, nil
}

// priorValue returns the token value before a deposit or withdrawal
func (r *reconciler) priorValue(ctx context.Context, token *schema.RAYToken, params domain.ValueChangeParams) decimal.Decimal {
	fromEvent := domain.RawDecimal(params.TokenValue)
	if !fromEvent.Equal(token.RawValue) {
		logger.WarnCtx(ctx, "Event token value differs from stored value",
			zap.String("tokenID", token.ID),
			zap.String("eventValue", fromEvent.String()),
			zap.String("storedValue", token.RawValue.String()),
			zap.String("source", string(r.config.PriorValueSource)))
	}

	if r.config.PriorValueSource == PriorValueFromStore {
		return token.RawValue
	}
	return fromEvent
}

// applyValueChange handles deposits and withdrawals
func (r *reconciler) applyValueChange(
	ctx context.Context,
	eventType domain.EventType,
	tx domain.TxContext,
	params domain.ValueChangeParams,
) (*schema.RAYToken, *schema.Transaction, error) {
	tokenID := domain.HashID(params.TokenID)

	token, err := r.activeToken(ctx, tokenID)
	if err != nil {
		return nil, nil, err
	}

	asset, err := r.tokenAsset(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	amount := domain.RawDecimal(params.Value)
	before := r.priorValue(ctx, token, params)

	var after decimal.Decimal
	switch eventType {
	case domain.EventTypeDeposit:
		after = before.Add(amount)
	case domain.EventTypeWithdraw:
		after = before.Sub(amount)
	default:
		return nil, nil, fmt.Errorf("%w: %s is not a value change", domain.ErrInvalidEvent, eventType)
	}

	if after.IsNegative() {
		if r.config.RejectNegativeBalance {
			return nil, nil, fmt.Errorf("%w: token %s would hold %s", domain.ErrNegativeBalance, tokenID, after)
		}
		logger.WarnCtx(ctx, "Token value is negative",
			zap.String("tokenID", tokenID),
			zap.String("rawValue", after.String()))
	}

	setTokenValue(token, after, asset.Decimals)
	if err := r.saveToken(ctx, token); err != nil {
		return nil, nil, err
	}

	record, err := r.newRecord(eventType, tx, token.ID, domain.AddressID(tx.From),
		amount, before, after, asset.Decimals, params)
	if err != nil {
		return nil, nil, err
	}
	if err := r.saveRecord(ctx, record); err != nil {
		return nil, nil, err
	}

	logger.DebugCtx(ctx, "Updated RAY token value",
		zap.String("eventType", string(eventType)),
		zap.String("tokenID", token.ID),
		zap.String("value", token.Value.String()))

	return token, record, nil
}

// applyBurn records the value held at burn time, then zeroes the token
func (r *reconciler) applyBurn(ctx context.Context, tx domain.TxContext, params domain.BurnParams) (*schema.RAYToken, *schema.Transaction, error) {
	tokenID := domain.HashID(params.TokenID)

	token, err := r.activeToken(ctx, tokenID)
	if err != nil {
		return nil, nil, err
	}

	asset, err := r.tokenAsset(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	before := token.RawValue
	setTokenValue(token, decimal.Zero, asset.Decimals)
	token.IsActive = false
	if err := r.saveToken(ctx, token); err != nil {
		return nil, nil, err
	}

	record, err := r.newRecord(domain.EventTypeBurn, tx, token.ID, domain.AddressID(params.Beneficiary),
		domain.RawDecimal(params.Value), before, decimal.Zero, asset.Decimals, params)
	if err != nil {
		return nil, nil, err
	}
	if err := r.saveRecord(ctx, record); err != nil {
		return nil, nil, err
	}

	logger.InfoCtx(ctx, "Burned RAY token",
		zap.String("tokenID", token.ID),
		zap.String("valueBefore", record.ValueBefore.String()))

	return token, record, nil
}

// applyOpportunityMint creates the opportunity token. Its opportunity is attached by a later buy-position call.
func (r *reconciler) applyOpportunityMint(ctx context.Context, _ domain.TxContext, params domain.OpportunityMintParams) (*schema.OpportunityToken, error) {
	portfolio, err := r.resolvePortfolio(ctx, params.PortfolioID)
	if err != nil {
		return nil, err
	}

	token, created, err := resolveOrCreate(ctx, r.store, domain.HashID(params.TokenID), func(t *schema.OpportunityToken) error {
		t.PortfolioID = portfolio.ID
		return nil
	}, true)
	if err != nil {
		return nil, err
	}

	if created {
		logger.InfoCtx(ctx, "Minted opportunity token",
			zap.String("tokenID", token.ID),
			zap.String("portfolioID", portfolio.ID))
	}

	return token, nil
}

// applyBuyPosition finalizes the opportunity of an opportunity token.
// The portfolio asset is corrected when the principal token disagrees with it.
func (r *reconciler) applyBuyPosition(ctx context.Context, _ domain.TxContext, params domain.BuyPositionParams) (*schema.Opportunity, error) {
	token, err := loadExisting[schema.OpportunityToken](ctx, r.store, domain.HashID(params.TokenID))
	if err != nil {
		return nil, err
	}

	portfolio, err := loadExisting[schema.Portfolio](ctx, r.store, token.PortfolioID)
	if err != nil {
		return nil, err
	}

	asset, err := r.ResolveAsset(ctx, params.PrincipalToken)
	if err != nil {
		return nil, err
	}

	if portfolio.AssetID != asset.ID {
		logger.InfoCtx(ctx, "Correcting portfolio asset",
			zap.String("portfolioID", portfolio.ID),
			zap.String("previousAssetID", portfolio.AssetID),
			zap.String("assetID", asset.ID))

		portfolio.AssetID = asset.ID
		if err := r.store.Save(ctx, portfolio); err != nil {
			return nil, fmt.Errorf("failed to save portfolio %s: %w", portfolio.ID, err)
		}
	}

	opportunity, _, err := resolveOrCreate(ctx, r.store, domain.HashID(params.OpportunityID), func(o *schema.Opportunity) error {
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	opportunity.PortfolioID = portfolio.ID
	opportunity.Address = domain.AddressID(params.Opportunity)
	opportunity.TokenID = token.ID
	if err := r.store.Save(ctx, opportunity); err != nil {
		return nil, fmt.Errorf("failed to save opportunity %s: %w", opportunity.ID, err)
	}

	if token.OpportunityID == nil || *token.OpportunityID != opportunity.ID {
		token.OpportunityID = &opportunity.ID
		if err := r.store.Save(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to save opportunity token %s: %w", token.ID, err)
		}
	}

	logger.DebugCtx(ctx, "Bought opportunity position",
		zap.String("opportunityID", opportunity.ID),
		zap.String("tokenID", token.ID),
		zap.String("portfolioID", portfolio.ID))

	return opportunity, nil
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ray-indexer/internal/domain"
	"github.com/feral-file/ray-indexer/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

const (
	testUserID      = "0x1234567890123456789012345678901234567890"
	testPortfolioID = "0x810522b60dd90f9263d4e301357c9db1e75e63e814939ae109ccb964c96a93d3"
	testTokenID     = "0x00000000000000000000000000000000000000000000000000000000000000aa"
)

func buildTestAsset() *schema.Asset {
	address := domain.DAI_ADDRESS
	return &schema.Asset{
		ID:       domain.DAI_ADDRESS,
		Address:  &address,
		Decimals: 18,
		Name:     "Dai Stablecoin",
		Symbol:   "DAI",
	}
}

func buildTestToken(rawValue int64) *schema.RAYToken {
	return &schema.RAYToken{
		ID:          testTokenID,
		OwnerID:     testUserID,
		RawValue:    decimal.NewFromInt(rawValue),
		Value:       decimal.NewFromInt(rawValue).Shift(-18),
		PortfolioID: testPortfolioID,
		IsActive:    true,
	}
}

// seedTokenDependencies saves the rows a RAY token references
func seedTokenDependencies(t *testing.T, store Store) {
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &schema.User{ID: testUserID, Address: testUserID}))
	require.NoError(t, store.Save(ctx, buildTestAsset()))
	require.NoError(t, store.Save(ctx, &schema.Portfolio{ID: testPortfolioID, AssetID: domain.DAI_ADDRESS}))
}

// =============================================================================
// Test: Load and Save
// =============================================================================

func testLoadAndSave(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("load missing entity reports not found", func(t *testing.T) {
		var user schema.User
		found, err := store.Load(ctx, "0xmissing", &user)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("save then load returns the same fields", func(t *testing.T) {
		asset := buildTestAsset()
		require.NoError(t, store.Save(ctx, asset))

		var loaded schema.Asset
		found, err := store.Load(ctx, asset.ID, &loaded)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, asset.ID, loaded.ID)
		require.NotNil(t, loaded.Address)
		assert.Equal(t, domain.DAI_ADDRESS, *loaded.Address)
		assert.Equal(t, 18, loaded.Decimals)
		assert.Equal(t, "Dai Stablecoin", loaded.Name)
		assert.Equal(t, "DAI", loaded.Symbol)
	})

	t.Run("genesis asset keeps a nil address", func(t *testing.T) {
		genesis := &schema.Asset{ID: domain.ETHEREUM_ZERO_ADDRESS, Decimals: 0}
		require.NoError(t, store.Save(ctx, genesis))

		var loaded schema.Asset
		found, err := store.Load(ctx, genesis.ID, &loaded)
		require.NoError(t, err)
		require.True(t, found)
		assert.Nil(t, loaded.Address)
		assert.Equal(t, 0, loaded.Decimals)
		assert.Empty(t, loaded.Name)
		assert.Empty(t, loaded.Symbol)
	})

	t.Run("save replaces an existing entity", func(t *testing.T) {
		seedTokenDependencies(t, store)
		require.NoError(t, store.Save(ctx, buildTestToken(100)))

		token := buildTestToken(0)
		token.IsActive = false
		require.NoError(t, store.Save(ctx, token))

		var loaded schema.RAYToken
		found, err := store.Load(ctx, testTokenID, &loaded)
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, loaded.RawValue.IsZero())
		assert.True(t, loaded.Value.IsZero())
		assert.False(t, loaded.IsActive)

		count, err := store.Count(ctx, schema.KindRAYToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("save rejects an empty id", func(t *testing.T) {
		err := store.Save(ctx, &schema.User{})
		assert.Error(t, err)
	})

	t.Run("ids are scoped per kind", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &schema.User{ID: domain.DAI_ADDRESS, Address: domain.DAI_ADDRESS}))

		var asset schema.Asset
		found, err := store.Load(ctx, domain.DAI_ADDRESS, &asset)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "DAI", asset.Symbol)
	})
}

// =============================================================================
// Test: Large numeric values
// =============================================================================

func testNumericPrecision(t *testing.T, store Store) {
	ctx := context.Background()
	seedTokenDependencies(t, store)

	raw := decimal.RequireFromString("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	token := buildTestToken(0)
	token.RawValue = raw
	token.Value = raw.Shift(-18)
	require.NoError(t, store.Save(ctx, token))

	var loaded schema.RAYToken
	found, err := store.Load(ctx, testTokenID, &loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, raw.Equal(loaded.RawValue), "raw value %s", loaded.RawValue)
	assert.True(t, raw.Shift(-18).Equal(loaded.Value), "value %s", loaded.Value)
}

// =============================================================================
// Test: Transaction records
// =============================================================================

func testTransactionRecord(t *testing.T, store Store) {
	ctx := context.Background()
	seedTokenDependencies(t, store)
	require.NoError(t, store.Save(ctx, buildTestToken(100)))

	timestamp := time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC)
	record := &schema.Transaction{
		ID:              "0xabc-1",
		Type:            domain.EventTypeDeposit,
		TokenID:         testTokenID,
		ActorID:         testUserID,
		RawAmount:       decimal.NewFromInt(100),
		Amount:          decimal.NewFromInt(100).Shift(-18),
		RawValueBefore:  decimal.Zero,
		ValueBefore:     decimal.Zero,
		RawValueAfter:   decimal.NewFromInt(100),
		ValueAfter:      decimal.NewFromInt(100).Shift(-18),
		BlockNumber:     9000000,
		Timestamp:       timestamp,
		TxHash:          "0xabc",
		LogIndex:        1,
		ContractAddress: "0x06a6a7af298129e3a2ab396c9c06f91d3c54aba8",
		Raw:             datatypes.JSON(`{"type":"deposit"}`),
	}
	require.NoError(t, store.Save(ctx, record))

	var loaded schema.Transaction
	found, err := store.Load(ctx, record.ID, &loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.EventTypeDeposit, loaded.Type)
	assert.Equal(t, uint64(9000000), loaded.BlockNumber)
	assert.True(t, timestamp.Equal(loaded.Timestamp))
	assert.True(t, decimal.NewFromInt(100).Equal(loaded.RawValueAfter))
	assert.JSONEq(t, `{"type":"deposit"}`, string(loaded.Raw))
}

// =============================================================================
// Test: WithTx
// =============================================================================

func testWithTx(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("writes are visible inside and after the transaction", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			if err := tx.Save(ctx, buildTestAsset()); err != nil {
				return err
			}

			var asset schema.Asset
			found, err := tx.Load(ctx, domain.DAI_ADDRESS, &asset)
			require.NoError(t, err)
			assert.True(t, found)
			return nil
		})
		require.NoError(t, err)

		var asset schema.Asset
		found, err := store.Load(ctx, domain.DAI_ADDRESS, &asset)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("failed transaction discards writes", func(t *testing.T) {
		errBoom := errors.New("boom")
		err := store.WithTx(ctx, func(tx Store) error {
			require.NoError(t, tx.Save(ctx, &schema.User{ID: "0xrolledback", Address: "0xrolledback"}))
			require.NoError(t, tx.SetKeyValue(ctx, "rolled", "back"))
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)

		var user schema.User
		found, err := store.Load(ctx, "0xrolledback", &user)
		require.NoError(t, err)
		assert.False(t, found)

		value, err := store.GetKeyValue(ctx, "rolled")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("nested transaction joins the outer one", func(t *testing.T) {
		err := store.WithTx(ctx, func(tx Store) error {
			return tx.WithTx(ctx, func(inner Store) error {
				return inner.Save(ctx, &schema.User{ID: "0xnested", Address: "0xnested"})
			})
		})
		require.NoError(t, err)

		count, err := store.Count(ctx, schema.KindUser)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

// =============================================================================
// Test: Count
// =============================================================================

func testCount(t *testing.T, store Store) {
	ctx := context.Background()

	count, err := store.Count(ctx, schema.KindUser)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for _, id := range []string{"0x01", "0x02", "0x03"} {
		require.NoError(t, store.Save(ctx, &schema.User{ID: id, Address: id}))
	}
	require.NoError(t, store.Save(ctx, &schema.User{ID: "0x01", Address: "0x01"}))

	count, err = store.Count(ctx, schema.KindUser)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = store.Count(ctx, schema.EntityKind("Unknown"))
	assert.Error(t, err)
}

// =============================================================================
// Test: Key-value and block cursor
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	value, err := store.GetKeyValue(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.SetKeyValue(ctx, "key", "one"))
	require.NoError(t, store.SetKeyValue(ctx, "key", "two"))

	value, err = store.GetKeyValue(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "two", value)
}

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()
	cursors := NewCursorStore(store)

	t.Run("get non-existent cursor returns 0", func(t *testing.T) {
		cursor, err := cursors.GetBlockCursor(ctx, "portfolio_manager_nonexistent")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("update existing cursor", func(t *testing.T) {
		name := "portfolio_manager"

		require.NoError(t, cursors.SetBlockCursor(ctx, name, 100))
		require.NoError(t, cursors.SetBlockCursor(ctx, name, 200))

		cursor, err := cursors.GetBlockCursor(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), cursor)

		value, err := store.GetKeyValue(ctx, "block_cursor:portfolio_manager")
		require.NoError(t, err)
		assert.Equal(t, "200", value)
	})

	t.Run("corrupt cursor value is an error", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, "block_cursor:corrupt", "not-a-number"))

		_, err := cursors.GetBlockCursor(ctx, "corrupt")
		assert.Error(t, err)
	})
}

// RunStoreTests runs the shared store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"LoadAndSave", testLoadAndSave},
		{"NumericPrecision", testNumericPrecision},
		{"TransactionRecord", testTransactionRecord},
		{"WithTx", testWithTx},
		{"Count", testCount},
		{"KeyValueStore", testKeyValueStore},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}

package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/feral-file/ray-indexer/internal/domain"
)

// Transaction represents the transactions table - one immutable record per mint, deposit, withdraw or burn event
type Transaction struct {
	// ID is {txHash}-{logIndex}
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Type identifies the event (mint, deposit, withdraw, burn)
	Type domain.EventType `gorm:"column:type;not null;type:text"`
	// TokenID references the RAY token
	TokenID string `gorm:"column:token_id;not null;type:text;index:idx_transactions_token_id"`
	// ActorID is the beneficiary for mint and burn, the sender otherwise
	ActorID string `gorm:"column:actor_id;not null;type:text"`
	// RawAmount is the amount carried by the event
	RawAmount decimal.Decimal `gorm:"column:raw_amount;not null;type:numeric(78,0)"`
	// Amount is RawAmount scaled by the asset decimals
	Amount decimal.Decimal `gorm:"column:amount;not null;type:numeric"`
	// RawValueBefore is the token value before the event
	RawValueBefore decimal.Decimal `gorm:"column:raw_value_before;not null;type:numeric(78,0)"`
	// ValueBefore is RawValueBefore scaled by the asset decimals
	ValueBefore decimal.Decimal `gorm:"column:value_before;not null;type:numeric"`
	// RawValueAfter is the token value after the event
	RawValueAfter decimal.Decimal `gorm:"column:raw_value_after;not null;type:numeric(78,0)"`
	// ValueAfter is RawValueAfter scaled by the asset decimals
	ValueAfter decimal.Decimal `gorm:"column:value_after;not null;type:numeric"`
	// BlockNumber is the block the event was emitted in
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// Timestamp is the block timestamp
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// TxHash is the transaction hash
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// LogIndex is the position of the log in the block
	LogIndex uint `gorm:"column:log_index;not null"`
	// ContractAddress is the portfolio manager that emitted the event
	ContractAddress string `gorm:"column:contract_address;not null;type:text"`
	// Raw contains the decoded event as JSON
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

func (Transaction) Kind() EntityKind {
	return KindTransaction
}

func (t *Transaction) EntityID() string {
	return t.ID
}

func (t *Transaction) SetEntityID(id string) {
	t.ID = id
}

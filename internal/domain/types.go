package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// EventType represents the type of a portfolio manager event
type EventType string

const (
	EventTypeMint            EventType = "mint"
	EventTypeDeposit         EventType = "deposit"
	EventTypeWithdraw        EventType = "withdraw"
	EventTypeBurn            EventType = "burn"
	EventTypeOpportunityMint EventType = "opportunity_mint"
	EventTypeBuyPosition     EventType = "buy_position"
)

// Recorded reports whether events of this type produce a transaction record
func (t EventType) Recorded() bool {
	switch t {
	case EventTypeMint, EventTypeDeposit, EventTypeWithdraw, EventTypeBurn:
		return true
	default:
		return false
	}
}

// TxContext carries the on-chain position of an event
type TxContext struct {
	TxHash          common.Hash    `json:"txHash"`
	LogIndex        uint           `json:"logIndex"`
	BlockNumber     uint64         `json:"blockNumber"`
	Timestamp       time.Time      `json:"timestamp"`
	ContractAddress common.Address `json:"contractAddress"`
	// From is the transaction sender
	From common.Address `json:"from"`
}

// EventID returns the canonical record id for the event
func (c TxContext) EventID() string {
	return EventID(c.TxHash, c.LogIndex)
}

// MintParams is the payload of LogMintRAYT
type MintParams struct {
	TokenID     common.Hash    `json:"tokenId"`
	PortfolioID common.Hash    `json:"portfolioId"`
	Beneficiary common.Address `json:"beneficiary"`
	Value       *big.Int       `json:"value"`
}

// ValueChangeParams is the payload of LogDepositToRAYT and LogWithdrawFromRAYT.
// TokenValue is the token value before the change as reported by the contract.
type ValueChangeParams struct {
	TokenID    common.Hash `json:"tokenId"`
	Value      *big.Int    `json:"value"`
	TokenValue *big.Int    `json:"tokenValue"`
}

// BurnParams is the payload of LogBurnRAYT
type BurnParams struct {
	TokenID     common.Hash    `json:"tokenId"`
	Beneficiary common.Address `json:"beneficiary"`
	Value       *big.Int       `json:"value"`
	TokenValue  *big.Int       `json:"tokenValue"`
}

// OpportunityMintParams is the payload of LogMintOpportunityToken
type OpportunityMintParams struct {
	TokenID     common.Hash `json:"tokenId"`
	PortfolioID common.Hash `json:"portfolioId"`
}

// BuyPositionParams is decoded from a buyPosition call and its return value
type BuyPositionParams struct {
	OpportunityID  common.Hash    `json:"opportunityId"`
	Opportunity    common.Address `json:"opportunity"`
	PrincipalToken common.Address `json:"principalToken"`
	Value          *big.Int       `json:"value"`
	IsERC20        bool           `json:"isERC20"`
	// TokenID is the opportunity token returned by the call
	TokenID common.Hash `json:"tokenId"`
}

// Event is a decoded portfolio manager event or call. Exactly one payload is set, matching Type.
type Event struct {
	Type            EventType              `json:"type"`
	Tx              TxContext              `json:"tx"`
	Mint            *MintParams            `json:"mint,omitempty"`
	Deposit         *ValueChangeParams     `json:"deposit,omitempty"`
	Withdraw        *ValueChangeParams     `json:"withdraw,omitempty"`
	Burn            *BurnParams            `json:"burn,omitempty"`
	OpportunityMint *OpportunityMintParams `json:"opportunityMint,omitempty"`
	BuyPosition     *BuyPositionParams     `json:"buyPosition,omitempty"`
}

// Valid checks that the payload for the event type is present and complete
func (e *Event) Valid() bool {
	switch e.Type {
	case EventTypeMint:
		return e.Mint != nil && e.Mint.Value != nil
	case EventTypeDeposit:
		return validValueChange(e.Deposit)
	case EventTypeWithdraw:
		return validValueChange(e.Withdraw)
	case EventTypeBurn:
		return e.Burn != nil && e.Burn.Value != nil
	case EventTypeOpportunityMint:
		return e.OpportunityMint != nil
	case EventTypeBuyPosition:
		return e.BuyPosition != nil
	default:
		return false
	}
}

func validValueChange(p *ValueChangeParams) bool {
	return p != nil && p.Value != nil && p.TokenValue != nil
}

// MessageKind tells whether a chain message carries a log or a call frame
type MessageKind string

const (
	MessageKindLog  MessageKind = "log"
	MessageKindCall MessageKind = "call"
)

// CallFrame is a successful call into the portfolio manager together with its output
type CallFrame struct {
	TxHash      common.Hash    `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
	TraceIndex  uint           `json:"traceIndex"`
	To          common.Address `json:"to"`
	Input       hexutil.Bytes  `json:"input"`
	Output      hexutil.Bytes  `json:"output"`
}

// ChainMessage is the unit delivered by the upstream block emitter
type ChainMessage struct {
	Kind           MessageKind    `json:"kind"`
	Log            *types.Log     `json:"log,omitempty"`
	Call           *CallFrame     `json:"call,omitempty"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	From           common.Address `json:"from"`
}

// BlockNumber returns the block the message belongs to
func (m *ChainMessage) BlockNumber() uint64 {
	switch {
	case m.Kind == MessageKindLog && m.Log != nil:
		return m.Log.BlockNumber
	case m.Kind == MessageKindCall && m.Call != nil:
		return m.Call.BlockNumber
	default:
		return 0
	}
}

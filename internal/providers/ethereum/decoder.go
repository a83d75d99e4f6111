package ethereum

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/domain"
)

// Decoder turns chain messages from the portfolio manager into domain events
//
//go:generate mockgen -source=decoder.go -destination=../../mocks/decoder.go -package=mocks -mock_names=Decoder=MockDecoder
type Decoder interface {
	// Decode returns domain.ErrUnknownEvent for messages that are not portfolio manager events or calls
	Decode(msg *domain.ChainMessage) (*domain.Event, error)
}

type decoder struct {
	// contracts restricts decoding to these emitters; empty accepts any address
	contracts map[common.Address]struct{}
	clock     adapter.Clock
}

// NewDecoder creates a decoder for the given portfolio manager deployments
func NewDecoder(contracts []common.Address, clock adapter.Clock) Decoder {
	set := make(map[common.Address]struct{}, len(contracts))
	for _, c := range contracts {
		set[c] = struct{}{}
	}
	return &decoder{contracts: set, clock: clock}
}

// Decode decodes a log or a call frame
func (d *decoder) Decode(msg *domain.ChainMessage) (*domain.Event, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", domain.ErrUnknownEvent)
	}

	switch msg.Kind {
	case domain.MessageKindLog:
		if msg.Log == nil {
			return nil, fmt.Errorf("%w: log message without log", domain.ErrInvalidEvent)
		}
		return d.decodeLog(msg)
	case domain.MessageKindCall:
		if msg.Call == nil {
			return nil, fmt.Errorf("%w: call message without call frame", domain.ErrInvalidEvent)
		}
		return d.decodeCall(msg)
	default:
		return nil, fmt.Errorf("%w: message kind %q", domain.ErrUnknownEvent, msg.Kind)
	}
}

func (d *decoder) accepts(address common.Address) bool {
	if len(d.contracts) == 0 {
		return true
	}
	_, ok := d.contracts[address]
	return ok
}

func (d *decoder) timestamp(msg *domain.ChainMessage) time.Time {
	return d.clock.Unix(int64(msg.BlockTimestamp), 0).UTC() //nolint:gosec,G115 // block timestamps fit in int64
}

func (d *decoder) decodeLog(msg *domain.ChainMessage) (*domain.Event, error) {
	vLog := msg.Log
	if vLog.Removed {
		return nil, fmt.Errorf("%w: removed log", domain.ErrUnknownEvent)
	}
	if len(vLog.Topics) == 0 || !d.accepts(vLog.Address) {
		return nil, domain.ErrUnknownEvent
	}

	event := &domain.Event{
		Tx: domain.TxContext{
			TxHash:          vLog.TxHash,
			LogIndex:        vLog.Index,
			BlockNumber:     vLog.BlockNumber,
			Timestamp:       d.timestamp(msg),
			ContractAddress: vLog.Address,
			From:            msg.From,
		},
	}

	// Parse based on event signature
	switch vLog.Topics[0] {
	case mintRAYTEventSignature:
		if err := expectTopics(vLog, 4); err != nil {
			return nil, err
		}
		values, err := unpackUints(vLog, "LogMintRAYT", 1)
		if err != nil {
			return nil, err
		}

		event.Type = domain.EventTypeMint
		event.Mint = &domain.MintParams{
			TokenID:     vLog.Topics[1],
			PortfolioID: vLog.Topics[2],
			Beneficiary: common.BytesToAddress(vLog.Topics[3].Bytes()),
			Value:       values[0],
		}

	case depositToRAYTEventSignature, withdrawFromRAYTEventSignature:
		if err := expectTopics(vLog, 2); err != nil {
			return nil, err
		}
		name := "LogDepositToRAYT"
		if vLog.Topics[0] == withdrawFromRAYTEventSignature {
			name = "LogWithdrawFromRAYT"
		}
		values, err := unpackUints(vLog, name, 2)
		if err != nil {
			return nil, err
		}

		params := &domain.ValueChangeParams{
			TokenID:    vLog.Topics[1],
			Value:      values[0],
			TokenValue: values[1],
		}
		if name == "LogDepositToRAYT" {
			event.Type = domain.EventTypeDeposit
			event.Deposit = params
		} else {
			event.Type = domain.EventTypeWithdraw
			event.Withdraw = params
		}

	case burnRAYTEventSignature:
		if err := expectTopics(vLog, 3); err != nil {
			return nil, err
		}
		values, err := unpackUints(vLog, "LogBurnRAYT", 2)
		if err != nil {
			return nil, err
		}

		event.Type = domain.EventTypeBurn
		event.Burn = &domain.BurnParams{
			TokenID:     vLog.Topics[1],
			Beneficiary: common.BytesToAddress(vLog.Topics[2].Bytes()),
			Value:       values[0],
			TokenValue:  values[1],
		}

	case mintOpportunityTokenEventSignature:
		if err := expectTopics(vLog, 2); err != nil {
			return nil, err
		}
		if len(vLog.Data) != common.HashLength {
			return nil, fmt.Errorf("%w: LogMintOpportunityToken: expected 32 bytes of data, got %d",
				domain.ErrInvalidEvent, len(vLog.Data))
		}

		event.Type = domain.EventTypeOpportunityMint
		event.OpportunityMint = &domain.OpportunityMintParams{
			TokenID:     common.BytesToHash(vLog.Data),
			PortfolioID: vLog.Topics[1],
		}

	default:
		return nil, fmt.Errorf("%w: signature %s", domain.ErrUnknownEvent, vLog.Topics[0].Hex())
	}

	return event, nil
}

func (d *decoder) decodeCall(msg *domain.ChainMessage) (*domain.Event, error) {
	call := msg.Call
	if len(call.Input) < 4 || !bytes.Equal(call.Input[:4], buyPositionSelector) || !d.accepts(call.To) {
		return nil, domain.ErrUnknownEvent
	}

	method := portfolioManagerABI.Methods["buyPosition"]
	inputs, err := method.Inputs.Unpack(call.Input[4:])
	if err != nil {
		return nil, fmt.Errorf("%w: buyPosition input: %v", domain.ErrInvalidEvent, err)
	}
	outputs, err := method.Outputs.Unpack(call.Output)
	if err != nil {
		return nil, fmt.Errorf("%w: buyPosition output: %v", domain.ErrInvalidEvent, err)
	}

	opportunityID, ok1 := inputs[0].([32]byte)
	opportunity, ok2 := inputs[1].(common.Address)
	principalToken, ok3 := inputs[2].(common.Address)
	value, ok4 := inputs[3].(*big.Int)
	isERC20, ok5 := inputs[4].(bool)
	tokenID, ok6 := outputs[0].([32]byte)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return nil, fmt.Errorf("%w: buyPosition arguments have unexpected types", domain.ErrInvalidEvent)
	}

	return &domain.Event{
		Type: domain.EventTypeBuyPosition,
		Tx: domain.TxContext{
			TxHash:          call.TxHash,
			LogIndex:        call.TraceIndex,
			BlockNumber:     call.BlockNumber,
			Timestamp:       d.timestamp(msg),
			ContractAddress: call.To,
			From:            msg.From,
		},
		BuyPosition: &domain.BuyPositionParams{
			OpportunityID:  common.Hash(opportunityID),
			Opportunity:    opportunity,
			PrincipalToken: principalToken,
			Value:          value,
			IsERC20:        isERC20,
			TokenID:        common.Hash(tokenID),
		},
	}, nil
}

func expectTopics(vLog *types.Log, n int) error {
	if len(vLog.Topics) != n {
		return fmt.Errorf("%w: expected %d topics, got %d", domain.ErrInvalidEvent, n, len(vLog.Topics))
	}
	return nil
}

// unpackUints decodes the non-indexed uint256 fields of an event
func unpackUints(vLog *types.Log, event string, n int) ([]*big.Int, error) {
	values, err := portfolioManagerABI.Unpack(event, vLog.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidEvent, event, err)
	}
	if len(values) != n {
		return nil, fmt.Errorf("%w: %s: expected %d values, got %d", domain.ErrInvalidEvent, event, n, len(values))
	}

	out := make([]*big.Int, n)
	for i, v := range values {
		value, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: %s: value %d is not an integer", domain.ErrInvalidEvent, event, i)
		}
		out[i] = value
	}

	return out, nil
}

package ethereum

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/feral-file/ray-indexer/internal/adapter"
)

var (
	// ErrMethodUnavailable is returned when the token itself cannot answer a metadata call:
	// the call reverted, returned nothing, or returned data that does not decode.
	// Any other error is a transport failure and is worth retrying.
	ErrMethodUnavailable = errors.New("contract method unavailable")

	// ErrEmptyResult is returned when a contract call returns no data, usually because
	// the contract does not implement the method
	ErrEmptyResult = fmt.Errorf("%w: empty call result", ErrMethodUnavailable)
)

// revertErrorCode is the JSON-RPC error code geth uses for reverted calls
const revertErrorCode = 3

// IsMethodUnavailable reports whether err means the token lacks the method
func IsMethodUnavailable(err error) bool {
	return errors.Is(err, ErrMethodUnavailable)
}

// isRevert reports whether a CallContract error is a revert rather than a transport failure
func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}

// sanitizeString drops NUL bytes and invalid UTF-8, neither of which a text column accepts
func sanitizeString(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}

// TokenMetadataReader reads the optional ERC-20 metadata of a token.
// Each read fails independently.
//
//go:generate mockgen -source=erc20.go -destination=../../mocks/token_metadata_reader.go -package=mocks -mock_names=TokenMetadataReader=MockTokenMetadataReader
type TokenMetadataReader interface {
	// Decimals calls decimals()
	Decimals(ctx context.Context, token common.Address) (uint8, error)

	// Name calls name()
	Name(ctx context.Context, token common.Address) (string, error)

	// Symbol calls symbol()
	Symbol(ctx context.Context, token common.Address) (string, error)
}

type tokenMetadataReader struct {
	client adapter.EthClient
}

// NewTokenMetadataReader creates a metadata reader over an Ethereum client
func NewTokenMetadataReader(client adapter.EthClient) TokenMetadataReader {
	return &tokenMetadataReader{client: client}
}

// Decimals fetches the decimals of an ERC-20 token
func (r *tokenMetadataReader) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	result, err := r.call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}

	var decimals uint8
	if err := erc20MetadataABI.UnpackIntoInterface(&decimals, "decimals", result); err != nil {
		return 0, fmt.Errorf("%w: failed to unpack decimals result: %v", ErrMethodUnavailable, err)
	}

	return decimals, nil
}

// Name fetches the name of an ERC-20 token
func (r *tokenMetadataReader) Name(ctx context.Context, token common.Address) (string, error) {
	return r.callString(ctx, token, "name")
}

// Symbol fetches the symbol of an ERC-20 token
func (r *tokenMetadataReader) Symbol(ctx context.Context, token common.Address) (string, error) {
	return r.callString(ctx, token, "symbol")
}

// callString unpacks a string result, falling back to bytes32 for tokens such as MKR
// that predate the string return type
func (r *tokenMetadataReader) callString(ctx context.Context, token common.Address, method string) (string, error) {
	result, err := r.call(ctx, token, method)
	if err != nil {
		return "", err
	}

	var value string
	if err := erc20MetadataABI.UnpackIntoInterface(&value, method, result); err == nil {
		return sanitizeString(value), nil
	}

	if len(result) == common.HashLength {
		return sanitizeString(string(bytes.TrimRight(result, "\x00"))), nil
	}

	return "", fmt.Errorf("%w: failed to unpack %s result of %d bytes", ErrMethodUnavailable, method, len(result))
}

func (r *tokenMetadataReader) call(ctx context.Context, token common.Address, method string) ([]byte, error) {
	data, err := erc20MetadataABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: data,
	}, nil)
	if err != nil {
		if isRevert(err) {
			return nil, fmt.Errorf("%w: %s reverted: %v", ErrMethodUnavailable, method, err)
		}
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	if len(result) == 0 {
		return nil, ErrEmptyResult
	}

	return result, nil
}

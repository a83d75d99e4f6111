package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HashID returns the entity id for a bytes32 value (token, portfolio, opportunity ids)
func HashID(h common.Hash) string {
	return hexutil.Encode(h.Bytes())
}

// AddressID returns the entity id for an address (users and assets)
func AddressID(a common.Address) string {
	return hexutil.Encode(a.Bytes())
}

// EventID returns the id of the record produced by the event at logIndex in txHash.
// Every record path must build its id through this function.
func EventID(txHash common.Hash, logIndex uint) string {
	return fmt.Sprintf("%s-%d", HashID(txHash), logIndex)
}

// IsGenesis reports whether the address is the sentinel zero address
func IsGenesis(a common.Address) bool {
	return a == GenesisAddress
}

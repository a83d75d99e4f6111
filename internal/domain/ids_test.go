package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestHashID(t *testing.T) {
	h := common.HexToHash("0x810522B60DD90F9263D4E301357C9DB1E75E63E814939AE109CCB964C96A93D3")
	assert.Equal(t, "0x810522b60dd90f9263d4e301357c9db1e75e63e814939ae109ccb964c96a93d3", HashID(h))
}

func TestAddressID(t *testing.T) {
	a := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	assert.Equal(t, DAI_ADDRESS, AddressID(a))
	assert.Equal(t, ETHEREUM_ZERO_ADDRESS, AddressID(GenesisAddress))
}

func TestEventID(t *testing.T) {
	txHash := common.HexToHash("0xabc")
	id := EventID(txHash, 3)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000abc-3", id)

	ctx := TxContext{TxHash: txHash, LogIndex: 3}
	assert.Equal(t, id, ctx.EventID())
	assert.NotEqual(t, id, EventID(txHash, 4))
}

func TestIsGenesis(t *testing.T) {
	assert.True(t, IsGenesis(common.Address{}))
	assert.False(t, IsGenesis(common.HexToAddress(DAI_ADDRESS)))
}

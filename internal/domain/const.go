package domain

import "github.com/ethereum/go-ethereum/common"

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// DEFAULT_DECIMALS is used when an asset does not expose decimals()
	DEFAULT_DECIMALS = 18

	// Known collateral assets
	DAI_ADDRESS  = "0x6b175474e89094c44da98b954eedeac495271d0f"
	SAI_ADDRESS  = "0x89d24a6b4ccb1b6faa2625fe562bdd9a23260359"
	WETH_ADDRESS = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	USDC_ADDRESS = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

	// Single-Collateral Dai is not a detailed token, so its metadata is fixed
	SAI_DECIMALS = 18
	SAI_NAME     = "Sai Stablecoin v1.0"
	SAI_SYMBOL   = "SAI"
)

// GenesisAddress is the sentinel meaning "no specific asset"
var GenesisAddress = common.HexToAddress(ETHEREUM_ZERO_ADDRESS)

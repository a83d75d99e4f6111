package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// erc20MetadataABIJSON covers the optional ERC-20 metadata getters
	erc20MetadataABIJSON = `[
		{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"},
		{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
		{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"}
	]`

	// portfolioManagerABIJSON covers the RAY portfolio manager events and the buyPosition call
	portfolioManagerABIJSON = `[
		{"anonymous":false,"inputs":[
			{"indexed":true,"name":"tokenId","type":"bytes32"},
			{"indexed":true,"name":"portfolioId","type":"bytes32"},
			{"indexed":true,"name":"beneficiary","type":"address"},
			{"indexed":false,"name":"value","type":"uint256"}
		],"name":"LogMintRAYT","type":"event"},
		{"anonymous":false,"inputs":[
			{"indexed":true,"name":"tokenId","type":"bytes32"},
			{"indexed":false,"name":"value","type":"uint256"},
			{"indexed":false,"name":"tokenValue","type":"uint256"}
		],"name":"LogDepositToRAYT","type":"event"},
		{"anonymous":false,"inputs":[
			{"indexed":true,"name":"tokenId","type":"bytes32"},
			{"indexed":false,"name":"value","type":"uint256"},
			{"indexed":false,"name":"tokenValue","type":"uint256"}
		],"name":"LogWithdrawFromRAYT","type":"event"},
		{"anonymous":false,"inputs":[
			{"indexed":true,"name":"tokenId","type":"bytes32"},
			{"indexed":true,"name":"beneficiary","type":"address"},
			{"indexed":false,"name":"value","type":"uint256"},
			{"indexed":false,"name":"tokenValue","type":"uint256"}
		],"name":"LogBurnRAYT","type":"event"},
		{"anonymous":false,"inputs":[
			{"indexed":false,"name":"tokenId","type":"bytes32"},
			{"indexed":true,"name":"portfolioId","type":"bytes32"}
		],"name":"LogMintOpportunityToken","type":"event"},
		{"constant":false,"inputs":[
			{"name":"opportunityId","type":"bytes32"},
			{"name":"opportunity","type":"address"},
			{"name":"principalToken","type":"address"},
			{"name":"value","type":"uint256"},
			{"name":"isERC20","type":"bool"}
		],"name":"buyPosition","outputs":[{"name":"","type":"bytes32"}],"payable":true,"stateMutability":"payable","type":"function"}
	]`
)

var (
	erc20MetadataABI    = mustParseABI(erc20MetadataABIJSON)
	portfolioManagerABI = mustParseABI(portfolioManagerABIJSON)
)

// Event signatures
var (
	// LogMintRAYT(bytes32 indexed tokenId, bytes32 indexed portfolioId, address indexed beneficiary, uint256 value)
	mintRAYTEventSignature = crypto.Keccak256Hash([]byte("LogMintRAYT(bytes32,bytes32,address,uint256)"))

	// LogDepositToRAYT(bytes32 indexed tokenId, uint256 value, uint256 tokenValue)
	depositToRAYTEventSignature = crypto.Keccak256Hash([]byte("LogDepositToRAYT(bytes32,uint256,uint256)"))

	// LogWithdrawFromRAYT(bytes32 indexed tokenId, uint256 value, uint256 tokenValue)
	withdrawFromRAYTEventSignature = crypto.Keccak256Hash([]byte("LogWithdrawFromRAYT(bytes32,uint256,uint256)"))

	// LogBurnRAYT(bytes32 indexed tokenId, address indexed beneficiary, uint256 value, uint256 tokenValue)
	burnRAYTEventSignature = crypto.Keccak256Hash([]byte("LogBurnRAYT(bytes32,address,uint256,uint256)"))

	// LogMintOpportunityToken(bytes32 tokenId, bytes32 indexed portfolioId)
	mintOpportunityTokenEventSignature = crypto.Keccak256Hash([]byte("LogMintOpportunityToken(bytes32,bytes32)"))

	// buyPosition(bytes32 opportunityId, address opportunity, address principalToken, uint256 value, bool isERC20)
	buyPositionSelector = crypto.Keccak256([]byte("buyPosition(bytes32,address,address,uint256,bool)"))[:4]
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

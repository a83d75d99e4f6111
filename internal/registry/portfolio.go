package registry

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/domain"
)

// PortfolioRegistry resolves the collateral asset of a portfolio
//
//go:generate mockgen -source=portfolio.go -destination=../mocks/portfolio_registry.go -package=mocks -mock_names=PortfolioRegistry=MockPortfolioRegistry,PortfolioRegistryLoader=MockPortfolioRegistryLoader
type PortfolioRegistry interface {
	// AssetForPortfolio returns the asset address of a portfolio and whether the portfolio is known
	AssetForPortfolio(portfolioID common.Hash) (common.Address, bool)
}

// PortfolioRegistryData represents the structure of the portfolio registry file
// Key format: asset address -> list of portfolio ids
type PortfolioRegistryData map[string][]string

// defaultPortfolios is the table of portfolios deployed on mainnet, partitioned by collateral
var defaultPortfolios = PortfolioRegistryData{
	domain.DAI_ADDRESS: {
		"0x810522b60dd90f9263d4e301357c9db1e75e63e814939ae109ccb964c96a93d3",
		"0x5511fa880353535668e2ba60b8800f49aecb527b143c19b933173d617dc4aea6",
		"0xea493a2b306e3c3f7548c41cac3b9d360cb7d46e1563bd9346f7e398d03e45fd",
		"0x5eea78fbdb7992da6f036e65ddb403b29aa15ba18be856f1e0ede3b1657d9b02",
		"0xcd55522e8f4c89017906f06cb11574a4cb79176b18a2a208e08780d079453c79",
		"0xb1608d113051804915ffc8db1ec8ff5fb579cfa976c18072715b2b3a6827f9af",
		"0xaf723346279a6d14268ec81e79c0d93c083bc40184fa2a463da0da48a9a4d19b",
		"0xd3ca7dda70d2cee4011f7785c5b4ed158c22a2475d22fa9484cb37137fe5bf11",
	},
	domain.WETH_ADDRESS: {
		"0xbe72e724d4b9326428f7faca782d2dcc9e3e10824e8cf48a6499f23d695fd018",
		"0x89bdc287eca0056552bd2979865efb44e5f19fdc962accefb49f7eefc0e55ea9",
		"0xe1d9f3a90e5d350eec05cd47282029fcf71c7c09c29c032f198eeffc936975b6",
		"0xf26c69dbf25f9fb2bf793e4847f7c619cbc3323cb4ff988fb0ce4c5ea45affa1",
		"0x21590982edcc6d2c9b986dd8174fda53c28d1a919c8bf9b58ead7d441b306439",
		"0x5870955881b5219ec3d880e8ad25206c312127210a5695618971c47541982994",
		"0xa49d129cd260862e8226f232c7d2ab0dd7302e2bcb49847810392625b7dbf3f6",
	},
	domain.SAI_ADDRESS: {
		"0x87e3990b15e1e64e3a17b0e4ebfcc4c03cc5ec64a33b442ae01ef15d9dadb575",
		"0xe51a4786828f3cbbdd643cd0d415c0f45bdbf7ec739dbdb2e64d6ac97bf103f1",
		"0xae52c5b4d809b421d746d3a7bde807ea6ec242ae13ae1b2bc6434493acf26d8b",
		"0xd33be800bb630e1ae95562a75be01b1b77a96386f99b3faa97a828b28c92dbb9",
		"0x165de3655459c6088f957bdb2877779c94aa17af570340349630726914a826fa",
		"0xcd93cf275bcc8c600887dc587ea0a16e8f0a87fa7f99560f72186069c8d3b3df",
		"0xf21acfdd065ab7839f3b0c66c441c6366b2240db1c3fa7c7da134c9be316fcd0",
	},
	domain.USDC_ADDRESS: {
		"0x7c80b0e3ce0d2cabe1a3dfc888fca469bab09beccc3496f88cba8613d159a65b",
		"0x1e868d302424cfebaf2b757c06fdd1a32411fd445ebb51ffc433cc15bacfe3e3",
		"0x978274153eec4f3c072b45a6268ae86c0e61033c7a817328b407954972369b1d",
		"0xf904b00f34beab1e77301f192a7fe866c4936fb9ea30e65543df5dc2d9176c69",
		"0xb6cb9e19cd1b048a65dffcccc3a071c8d2d89ad070a0dca6f7efdf4ee7ab9e51",
		"0x839de554365a548fbb6bf9b32952a781e00390bb8454a2bb8f4f3bbed40bc92c",
		"0x4672ce0a5532a592a953596e6c19fc1cb1bd89cdaf2f6d6b4c71d5f8b6f7f58a",
	},
}

// portfolioRegistry is the table-backed implementation of PortfolioRegistry
type portfolioRegistry struct {
	// Fast lookup map: portfolio id -> asset address
	assets map[common.Hash]common.Address
}

// DefaultPortfolioRegistry returns the registry of known mainnet portfolios
func DefaultPortfolioRegistry() PortfolioRegistry {
	reg, err := NewPortfolioRegistry(defaultPortfolios)
	if err != nil {
		panic(err) // the built-in table is static
	}
	return reg
}

// NewPortfolioRegistry builds a registry from asset -> portfolio id partitions
func NewPortfolioRegistry(data PortfolioRegistryData) (PortfolioRegistry, error) {
	reg := &portfolioRegistry{
		assets: make(map[common.Hash]common.Address),
	}

	for assetAddr, portfolioIDs := range data {
		if !common.IsHexAddress(assetAddr) {
			return nil, fmt.Errorf("invalid asset address: %s", assetAddr)
		}
		asset := common.HexToAddress(assetAddr)

		for _, id := range portfolioIDs {
			portfolioID, err := parsePortfolioID(id)
			if err != nil {
				return nil, err
			}
			if existing, ok := reg.assets[portfolioID]; ok && existing != asset {
				return nil, fmt.Errorf("portfolio %s is mapped to both %s and %s",
					id, domain.AddressID(existing), domain.AddressID(asset))
			}
			reg.assets[portfolioID] = asset
		}
	}

	return reg, nil
}

func parsePortfolioID(id string) (common.Hash, error) {
	normalized := strings.ToLower(strings.TrimSpace(id))
	if !strings.HasPrefix(normalized, "0x") || len(normalized) != 2+2*common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid portfolio id: %s", id)
	}
	if _, err := hexutil.Decode(normalized); err != nil {
		return common.Hash{}, fmt.Errorf("invalid portfolio id: %s", id)
	}
	return common.HexToHash(normalized), nil
}

// AssetForPortfolio returns the asset address mapped to the portfolio
func (r *portfolioRegistry) AssetForPortfolio(portfolioID common.Hash) (common.Address, bool) {
	if r == nil {
		return domain.GenesisAddress, false
	}
	asset, ok := r.assets[portfolioID]
	if !ok {
		return domain.GenesisAddress, false
	}
	return asset, true
}

// PortfolioRegistryLoader defines the interface for loading portfolio registries from files
type PortfolioRegistryLoader interface {
	// Load loads the portfolio registry from a JSON file
	Load(filePath string) (PortfolioRegistry, error)
}

// portfolioRegistryLoader is the internal implementation of PortfolioRegistryLoader interface
type portfolioRegistryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewPortfolioRegistryLoader creates a new PortfolioRegistryLoader with injected dependencies
func NewPortfolioRegistryLoader(fs adapter.FileSystem, json adapter.JSON) PortfolioRegistryLoader {
	return &portfolioRegistryLoader{
		fs:   fs,
		json: json,
	}
}

// Load loads the portfolio registry from a JSON file
func (l *portfolioRegistryLoader) Load(filePath string) (PortfolioRegistry, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio registry file: %w", err)
	}

	var registryData PortfolioRegistryData
	if err := l.json.Unmarshal(data, &registryData); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio registry JSON: %w", err)
	}

	reg, err := NewPortfolioRegistry(registryData)
	if err != nil {
		return nil, fmt.Errorf("failed to build portfolio registry: %w", err)
	}

	return reg, nil
}

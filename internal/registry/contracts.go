package registry

import "github.com/ethereum/go-ethereum/common"

// Flash-mint contract deployments.
const (
	FlashMintLeveragedAddress                 = "0x45c00508C14601fd1C1e296eB3C0e3eEEdCa45D0"
	FlashMintLeveragedForCompoundAddress      = "0xeA716Ed94964Ed0126Fb2fA3b546eD7F209cC2b8"
	ExchangeIssuanceLeveragedMainnetAddress   = "0x981b21A2912A427f491f1e5b9Bf9cCa16FA794e1"
	ExchangeIssuanceLeveragedPolygonAddress   = "0xE86636f23B502B8746A72A1Ed87d65F096E419Db"
	FlashMintLeveragedExtendedArbitrumAddress = "0xc6b3B4624941287bB7BdD8255302c1b337e42194"
	FlashMintLeveragedExtendedBaseAddress     = "0xE6c18c4C9FC6909EDa546649EBE33A8159256CBE"
	FlashMintHyEthAddress                     = "0x940ECB16416fE52856e8653B2958Bfd556aA6A7E"
	FlashMintZeroExMainnetAddress             = "0x9d648E5564B794B918d99C84B0fbf4b0bf36ce45"
)

// FlashMintContract returns the contract that mints symbol on chainID for the
// given family.
func FlashMintContract(family Family, symbol string, chainID int64) (common.Address, bool) {
	switch family {
	case FamilyLeveraged:
		if chainID == ChainPolygon {
			return common.HexToAddress(ExchangeIssuanceLeveragedPolygonAddress), true
		}
		if chainID != ChainMainnet {
			return common.Address{}, false
		}
		switch symbol {
		case SymbolIcRETH, SymbolETH2x, SymbolBTC2x:
			return common.HexToAddress(FlashMintLeveragedAddress), true
		case SymbolBTC2xFLI, SymbolETH2xFLI:
			return common.HexToAddress(FlashMintLeveragedForCompoundAddress), true
		default:
			return common.HexToAddress(ExchangeIssuanceLeveragedMainnetAddress), true
		}
	case FamilyLeveragedExtended:
		switch chainID {
		case ChainArbitrum:
			return common.HexToAddress(FlashMintLeveragedExtendedArbitrumAddress), true
		case ChainBase:
			return common.HexToAddress(FlashMintLeveragedExtendedBaseAddress), true
		}
	case FamilyComponentBasket:
		if chainID == ChainMainnet {
			return common.HexToAddress(FlashMintHyEthAddress), true
		}
	case FamilyZeroEx:
		if chainID == ChainMainnet {
			return common.HexToAddress(FlashMintZeroExMainnetAddress), true
		}
	}
	return common.Address{}, false
}

// IssuanceModule describes the Set Protocol module that reports component units.
type IssuanceModule struct {
	Address common.Address `json:"address"`
	IsDebt  bool           `json:"is_debt"`
}

const (
	basicIssuanceModule          = "0xd8EF3cACe8b4907117a45B0b125c68560532F94D"
	basicIssuanceModulePolygon   = "0x38E5462BBE6A72F79606c1A0007468aA4334A92b"
	debtIssuanceModule           = "0x39F024d621367C044BacE2bf0Fb15Fb3612eCB92"
	debtIssuanceModuleV2         = "0x69a592D2129415a4A1d1b1E309C17051B7F28d57"
	indexDebtIssuanceModuleV2    = "0xa0a98EB7Af028BE00d04e46e1316808A62a8fd59"
	indexDebtIssuanceModuleV2v2  = "0x04b59F9F09750C044D7CfbC177561E409085f0f3"
	debtIssuanceModuleV3Arbitrum = "0x4ac26c26116fa976352b70700af58bc2442489d8"
	debtIssuanceModuleV3Base     = "0xa30E87311407dDcF1741901A8F359b6005252F22"
)

// IssuanceModuleFor returns the issuance module for symbol on chainID.
func IssuanceModuleFor(symbol string, chainID int64) IssuanceModule {
	debt := func(addr string) IssuanceModule {
		return IssuanceModule{Address: common.HexToAddress(addr), IsDebt: true}
	}
	switch chainID {
	case ChainPolygon:
		return IssuanceModule{Address: common.HexToAddress(basicIssuanceModulePolygon)}
	case ChainArbitrum:
		return debt(debtIssuanceModuleV3Arbitrum)
	case ChainBase:
		return debt(debtIssuanceModuleV3Base)
	}
	switch symbol {
	case SymbolBTC2xFLI, SymbolETH2xFLI:
		return debt(debtIssuanceModule)
	case SymbolCdETI, SymbolIcRETH:
		return debt(indexDebtIssuanceModuleV2v2)
	case SymbolDsETH, SymbolGtcETH, SymbolHyETH:
		return debt(indexDebtIssuanceModuleV2)
	case SymbolIcETH:
		return debt(debtIssuanceModuleV2)
	default:
		return IssuanceModule{Address: common.HexToAddress(basicIssuanceModule)}
	}
}

// Uniswap V3 QuoterV2 deployments.
var uniswapV3QuoterV2ByChainID = map[int64]string{
	ChainMainnet:  "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
	ChainOptimism: "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
	ChainPolygon:  "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
	ChainArbitrum: "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
	ChainBase:     "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a",
}

func UniswapV3QuoterV2(chainID int64) (common.Address, bool) {
	value, ok := uniswapV3QuoterV2ByChainID[chainID]
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(value), true
}

// Across HubPool on mainnet; exchangeRateCurrent prices Across LP tokens.
const AcrossHubPoolAddress = "0xc186fA914353c44b2E33eBE05f21846F1048bEda"

// Well-known mainnet tokens used by the component quoters and static routes.
const (
	WETHMainnetAddress  = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	STETHMainnetAddress = "0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84"
	RETHMainnetAddress  = "0xae78736Cd615f374D3085123A210448E74Fc6393"
	NativeSentinel      = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
)

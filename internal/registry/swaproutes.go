package registry

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/flashmint-cli/internal/swapdata"
)

const (
	stETHCurvePool = "0xDC24316b9AE028F1497c275EB9192a3Ea0f67022"
	rETHUniV3Fee   = 500
)

// Curve encodes native ETH with the sentinel address.
var curveEthAddress = common.HexToAddress(NativeSentinel)

// StaticDebtCollateralRoute returns the fixed route some index tokens use to
// swap between debt and collateral. Aggregator quotes still size the swap.
func StaticDebtCollateralRoute(symbol string, isMinting bool) (swapdata.Route, bool) {
	steth := common.HexToAddress(STETHMainnetAddress)
	weth := common.HexToAddress(WETHMainnetAddress)
	reth := common.HexToAddress(RETHMainnetAddress)
	switch symbol {
	case SymbolIcETH:
		path := []common.Address{curveEthAddress, steth}
		if !isMinting {
			path = []common.Address{steth, curveEthAddress}
		}
		return swapdata.Route{Exchange: swapdata.ExchangeCurve, Path: path, Fees: []uint32{}, Pool: common.HexToAddress(stETHCurvePool)}, true
	case SymbolIcRETH:
		path := []common.Address{weth, reth}
		if !isMinting {
			path = []common.Address{reth, weth}
		}
		return swapdata.Route{Exchange: swapdata.ExchangeUniV3, Path: path, Fees: []uint32{rETHUniV3Fee}}, true
	}
	return swapdata.Route{}, false
}

// StaticPaymentRoute returns the fixed route between the payment token and
// collateral for index tokens that are funded in collateral terms.
func StaticPaymentRoute(symbol, paymentSymbol string, isMinting bool) (swapdata.Route, bool) {
	if symbol != SymbolIcETH || paymentSymbol != SymbolETH {
		return swapdata.Route{}, false
	}
	steth := common.HexToAddress(STETHMainnetAddress)
	path := []common.Address{curveEthAddress, steth}
	if !isMinting {
		path = []common.Address{steth, curveEthAddress}
	}
	return swapdata.Route{Exchange: swapdata.ExchangeCurve, Path: path, Fees: []uint32{}, Pool: common.HexToAddress(stETHCurvePool)}, true
}

// FundsInCollateral reports whether the index skips the payment swap and is
// always quoted in collateral terms.
func FundsInCollateral(symbol string) bool {
	return symbol == SymbolIcETH
}

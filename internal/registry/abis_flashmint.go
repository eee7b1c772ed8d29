package registry

import "fmt"

func v1(name string) string { return fmt.Sprintf(swapDataV1Tuple, name) }

func v2(name string) string { return fmt.Sprintf(swapDataV2Tuple, name, "") }

func v2List(name string) string { return fmt.Sprintf(swapDataV2Tuple, name, "[]") }

// FlashMintLeveragedABI covers the leveraged and exchange-issuance leveraged
// contracts, which share entry points and the V1 swap data tuple.
var FlashMintLeveragedABI = `[
	{"name":"issueExactSetFromETH","type":"function","stateMutability":"payable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},` + v1("_swapDataDebtForCollateral") + `,` + v1("_swapDataInputToken") + `],"outputs":[]},
	{"name":"issueExactSetFromERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_inputToken","type":"address"},{"name":"_maxAmountInputToken","type":"uint256"},` + v1("_swapDataDebtForCollateral") + `,` + v1("_swapDataInputToken") + `],"outputs":[]},
	{"name":"redeemExactSetForETH","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_minAmountOutputToken","type":"uint256"},` + v1("_swapDataCollateralForDebt") + `,` + v1("_swapDataOutputToken") + `],"outputs":[]},
	{"name":"redeemExactSetForERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_outputToken","type":"address"},{"name":"_minAmountOutputToken","type":"uint256"},` + v1("_swapDataCollateralForDebt") + `,` + v1("_swapDataOutputToken") + `],"outputs":[]}
]`

// FlashMintLeveragedExtendedABI adds the exact-input issuance entry points and
// uses the V2 swap data tuple.
var FlashMintLeveragedExtendedABI = `[
	{"name":"issueExactSetFromETH","type":"function","stateMutability":"payable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},` + v2("_swapDataDebtForCollateral") + `,` + v2("_swapDataInputToken") + `],"outputs":[]},
	{"name":"issueExactSetFromERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_inputToken","type":"address"},{"name":"_maxAmountInputToken","type":"uint256"},` + v2("_swapDataDebtForCollateral") + `,` + v2("_swapDataInputToken") + `],"outputs":[]},
	{"name":"redeemExactSetForETH","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_minAmountOutputToken","type":"uint256"},` + v2("_swapDataCollateralForDebt") + `,` + v2("_swapDataOutputToken") + `],"outputs":[]},
	{"name":"redeemExactSetForERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_outputToken","type":"address"},{"name":"_minAmountOutputToken","type":"uint256"},` + v2("_swapDataCollateralForDebt") + `,` + v2("_swapDataOutputToken") + `],"outputs":[]},
	{"name":"issueSetFromExactERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_minSetAmount","type":"uint256"},{"name":"_inputToken","type":"address"},{"name":"_inputTokenAmount","type":"uint256"},` + v2("_swapDataDebtForCollateral") + `,` + v2("_swapDataInputToken") + `,` + v2("_swapDataInputTokenForETH") + `,{"name":"_priceEstimateInflator","type":"uint256"},{"name":"_maxDust","type":"uint256"}],"outputs":[]},
	{"name":"issueSetFromExactETH","type":"function","stateMutability":"payable","inputs":[{"name":"_setToken","type":"address"},{"name":"_minSetAmount","type":"uint256"},` + v2("_swapDataDebtForCollateral") + `,` + v2("_swapDataInputToken") + `,{"name":"_priceEstimateInflator","type":"uint256"},{"name":"_maxDust","type":"uint256"}],"outputs":[]}
]`

// FlashMintHyEthABI takes one V2 swap data tuple per basket component.
var FlashMintHyEthABI = `[
	{"name":"issueExactSetFromETH","type":"function","stateMutability":"payable","inputs":[{"name":"_setToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},` + v2List("_swapDataEthToComponent") + `],"outputs":[]},
	{"name":"issueExactSetFromERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_inputToken","type":"address"},{"name":"_maxInputTokenAmount","type":"uint256"},` + v2("_swapDataInputTokenToEth") + `,` + v2("_swapDataEthToInputToken") + `,` + v2List("_swapDataEthToComponent") + `],"outputs":[]},
	{"name":"redeemExactSetForETH","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_minETHOut","type":"uint256"},` + v2List("_swapDataComponentToEth") + `],"outputs":[]},
	{"name":"redeemExactSetForERC20","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_outputToken","type":"address"},{"name":"_minOutputTokenAmount","type":"uint256"},` + v2("_swapDataEthToOutputToken") + `,` + v2List("_swapDataComponentToEth") + `],"outputs":[]}
]`

// FlashMintZeroExABI takes raw exchange calldata per component, in the order
// the issuance module lists them.
var FlashMintZeroExABI = `[
	{"name":"issueExactSetFromToken","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_inputToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_maxAmountInputToken","type":"uint256"},{"name":"_componentQuotes","type":"bytes[]"},{"name":"_issuanceModule","type":"address"},{"name":"_isDebtIssuance","type":"bool"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"issueExactSetFromETH","type":"function","stateMutability":"payable","inputs":[{"name":"_setToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_componentQuotes","type":"bytes[]"},{"name":"_issuanceModule","type":"address"},{"name":"_isDebtIssuance","type":"bool"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"redeemExactSetForToken","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_outputToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_minOutputReceive","type":"uint256"},{"name":"_componentQuotes","type":"bytes[]"},{"name":"_issuanceModule","type":"address"},{"name":"_isDebtIssuance","type":"bool"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"redeemExactSetForETH","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_amountSetToken","type":"uint256"},{"name":"_minEthReceive","type":"uint256"},{"name":"_componentQuotes","type":"bytes[]"},{"name":"_issuanceModule","type":"address"},{"name":"_isDebtIssuance","type":"bool"}],"outputs":[{"name":"","type":"uint256"}]}
]`

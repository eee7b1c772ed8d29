package registry

// ABI fragments for the flash-mint contracts and the reads the quote engines
// depend on.
const (
	ERC20MinimalABI = `[
		{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
		{"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}
	]`

	UniswapV3QuoterV2ABI = `[
		{"name":"quoteExactInputSingle","type":"function","stateMutability":"nonpayable","inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"fee","type":"uint24"},{"name":"sqrtPriceLimitX96","type":"uint160"}]}],"outputs":[{"name":"amountOut","type":"uint256"},{"name":"sqrtPriceX96After","type":"uint160"},{"name":"initializedTicksCrossed","type":"uint32"},{"name":"gasEstimate","type":"uint256"}]},
		{"name":"quoteExactOutputSingle","type":"function","stateMutability":"nonpayable","inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amount","type":"uint256"},{"name":"fee","type":"uint24"},{"name":"sqrtPriceLimitX96","type":"uint160"}]}],"outputs":[{"name":"amountIn","type":"uint256"},{"name":"sqrtPriceX96After","type":"uint160"},{"name":"initializedTicksCrossed","type":"uint32"},{"name":"gasEstimate","type":"uint256"}]},
		{"name":"quoteExactInput","type":"function","stateMutability":"nonpayable","inputs":[{"name":"path","type":"bytes"},{"name":"amountIn","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"},{"name":"sqrtPriceX96AfterList","type":"uint160[]"},{"name":"initializedTicksCrossedList","type":"uint32[]"},{"name":"gasEstimate","type":"uint256"}]},
		{"name":"quoteExactOutput","type":"function","stateMutability":"nonpayable","inputs":[{"name":"path","type":"bytes"},{"name":"amountOut","type":"uint256"}],"outputs":[{"name":"amountIn","type":"uint256"},{"name":"sqrtPriceX96AfterList","type":"uint160[]"},{"name":"initializedTicksCrossedList","type":"uint32[]"},{"name":"gasEstimate","type":"uint256"}]}
	]`

	LeveragedTokenDataABI = `[
		{"name":"getLeveragedTokenData","type":"function","stateMutability":"nonpayable","inputs":[{"name":"_setToken","type":"address"},{"name":"_setAmount","type":"uint256"},{"name":"_isIssuance","type":"bool"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"collateralAToken","type":"address"},{"name":"collateralToken","type":"address"},{"name":"collateralAmount","type":"uint256"},{"name":"debtToken","type":"address"},{"name":"debtAmount","type":"uint256"}]}]}
	]`

	DebtIssuanceModuleABI = `[
		{"name":"getRequiredComponentIssuanceUnits","type":"function","stateMutability":"view","inputs":[{"name":"_setToken","type":"address"},{"name":"_quantity","type":"uint256"}],"outputs":[{"name":"","type":"address[]"},{"name":"","type":"uint256[]"},{"name":"","type":"uint256[]"}]},
		{"name":"getRequiredComponentRedemptionUnits","type":"function","stateMutability":"view","inputs":[{"name":"_setToken","type":"address"},{"name":"_quantity","type":"uint256"}],"outputs":[{"name":"","type":"address[]"},{"name":"","type":"uint256[]"},{"name":"","type":"uint256[]"}]}
	]`

	BasicIssuanceModuleABI = `[
		{"name":"getRequiredComponentUnitsForIssue","type":"function","stateMutability":"view","inputs":[{"name":"_setToken","type":"address"},{"name":"_quantity","type":"uint256"}],"outputs":[{"name":"","type":"address[]"},{"name":"","type":"uint256[]"}]}
	]`

	SetTokenABI = `[
		{"name":"getComponents","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
		{"name":"getDefaultPositionRealUnit","type":"function","stateMutability":"view","inputs":[{"name":"_component","type":"address"}],"outputs":[{"name":"","type":"int256"}]}
	]`

	AcrossHubPoolABI = `[
		{"name":"exchangeRateCurrent","type":"function","stateMutability":"nonpayable","inputs":[{"name":"l1Token","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
	]`

	ERC4626ABI = `[
		{"name":"previewMint","type":"function","stateMutability":"view","inputs":[{"name":"shares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"previewRedeem","type":"function","stateMutability":"view","inputs":[{"name":"shares","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}
	]`

	swapDataV1Tuple = `{"name":"%s","type":"tuple","components":[{"name":"path","type":"address[]"},{"name":"fees","type":"uint24[]"},{"name":"pool","type":"address"},{"name":"exchange","type":"uint8"}]}`
	swapDataV2Tuple = `{"name":"%s","type":"tuple%s","components":[{"name":"exchange","type":"uint8"},{"name":"path","type":"address[]"},{"name":"fees","type":"uint24[]"},{"name":"pool","type":"address"},{"name":"poolIds","type":"bytes32[]"}]}`
)

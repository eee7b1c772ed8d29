// Package chain reads the on-chain state the quote engines depend on: network
// identification, leveraged token positions, basket component units and the
// exchange rates of wrapped components.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
)

var (
	leveragedABI = mustABI(registry.LeveragedTokenDataABI)
	issuanceABI  = mustABI(registry.DebtIssuanceModuleABI)
	basicABI     = mustABI(registry.BasicIssuanceModuleABI)
	setTokenABI  = mustABI(registry.SetTokenABI)
	hubPoolABI   = mustABI(registry.AcrossHubPoolABI)
	erc4626ABI   = mustABI(registry.ERC4626ABI)
)

// LeveragedTokenData is a leveraged index position at a given set amount. It
// is valid only for the quote it was read for.
type LeveragedTokenData struct {
	CollateralAToken common.Address `json:"collateral_a_token"`
	CollateralToken  common.Address `json:"collateral_token"`
	CollateralAmount *big.Int       `json:"collateral_amount"`
	DebtToken        common.Address `json:"debt_token"`
	DebtAmount       *big.Int       `json:"debt_amount"`
}

// ComponentUnits lists the components and the units required to issue or
// returned on redeeming a set amount.
type ComponentUnits struct {
	Components  []common.Address
	EquityUnits []*big.Int
	DebtUnits   []*big.Int
}

// Reader is the set of chain reads the quote engines need. Implementations
// return an error on any revert or transport failure.
type Reader interface {
	ChainID(ctx context.Context) (int64, error)
	LeveragedTokenData(ctx context.Context, contract, indexToken common.Address, amount *big.Int, isIssuance bool) (LeveragedTokenData, error)
	RequiredComponents(ctx context.Context, module registry.IssuanceModule, indexToken common.Address, amount *big.Int, isIssuance bool) (ComponentUnits, error)
	AcrossExchangeRate(ctx context.Context, l1Token common.Address) (*big.Int, error)
	PreviewMint(ctx context.Context, vault common.Address, shares *big.Int) (*big.Int, error)
	PreviewRedeem(ctx context.Context, vault common.Address, shares *big.Int) (*big.Int, error)
}

type backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Client struct {
	backend backend
	closer  func()
}

// Dial connects to an EVM JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "connect rpc", err)
	}
	return &Client{backend: client, closer: client.Close}, nil
}

func (c *Client) Close() {
	if c != nil && c.closer != nil {
		c.closer()
	}
}

func (c *Client) ChainID(ctx context.Context) (int64, error) {
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return 0, clierr.Wrap(clierr.CodeUnavailable, "read chain id", err)
	}
	if chainID == nil || !chainID.IsInt64() || chainID.Sign() <= 0 {
		return 0, clierr.New(clierr.CodeUnavailable, "rpc returned an invalid chain id")
	}
	return chainID.Int64(), nil
}

// CallContract exposes the raw eth_call so on-chain quoters can share the
// connection.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.backend.CallContract(ctx, msg, blockNumber)
}

type leveragedTokenDataTuple struct {
	CollateralAToken common.Address `abi:"collateralAToken"`
	CollateralToken  common.Address `abi:"collateralToken"`
	CollateralAmount *big.Int       `abi:"collateralAmount"`
	DebtToken        common.Address `abi:"debtToken"`
	DebtAmount       *big.Int       `abi:"debtAmount"`
}

func (c *Client) LeveragedTokenData(ctx context.Context, contract, indexToken common.Address, amount *big.Int, isIssuance bool) (LeveragedTokenData, error) {
	values, err := c.call(ctx, leveragedABI, contract, "getLeveragedTokenData", indexToken, amount, isIssuance)
	if err != nil {
		return LeveragedTokenData{}, err
	}
	if len(values) != 1 {
		return LeveragedTokenData{}, clierr.New(clierr.CodeUnavailable, "decode leveraged token data: unexpected output")
	}
	tuple, ok := abi.ConvertType(values[0], new(leveragedTokenDataTuple)).(*leveragedTokenDataTuple)
	if !ok || tuple.CollateralAmount == nil || tuple.DebtAmount == nil {
		return LeveragedTokenData{}, clierr.New(clierr.CodeUnavailable, "decode leveraged token data: invalid tuple")
	}
	return LeveragedTokenData{
		CollateralAToken: tuple.CollateralAToken,
		CollateralToken:  tuple.CollateralToken,
		CollateralAmount: tuple.CollateralAmount,
		DebtToken:        tuple.DebtToken,
		DebtAmount:       tuple.DebtAmount,
	}, nil
}

func (c *Client) RequiredComponents(ctx context.Context, module registry.IssuanceModule, indexToken common.Address, amount *big.Int, isIssuance bool) (ComponentUnits, error) {
	if !module.IsDebt {
		return c.basicComponents(ctx, module, indexToken, amount, isIssuance)
	}
	method := "getRequiredComponentRedemptionUnits"
	if isIssuance {
		method = "getRequiredComponentIssuanceUnits"
	}
	values, err := c.call(ctx, issuanceABI, module.Address, method, indexToken, amount)
	if err != nil {
		return ComponentUnits{}, err
	}
	if len(values) != 3 {
		return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, "decode component units: unexpected output")
	}
	components, ok1 := values[0].([]common.Address)
	equity, ok2 := values[1].([]*big.Int)
	debt, ok3 := values[2].([]*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, "decode component units: invalid types")
	}
	return ComponentUnits{Components: components, EquityUnits: equity, DebtUnits: debt}, nil
}

// basicComponents reads units from a basic issuance module, which carries no
// debt positions. Redemption units are the default positions scaled down.
func (c *Client) basicComponents(ctx context.Context, module registry.IssuanceModule, indexToken common.Address, amount *big.Int, isIssuance bool) (ComponentUnits, error) {
	if isIssuance {
		values, err := c.call(ctx, basicABI, module.Address, "getRequiredComponentUnitsForIssue", indexToken, amount)
		if err != nil {
			return ComponentUnits{}, err
		}
		if len(values) != 2 {
			return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, "decode component units: unexpected output")
		}
		components, ok1 := values[0].([]common.Address)
		units, ok2 := values[1].([]*big.Int)
		if !ok1 || !ok2 || len(components) != len(units) {
			return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, "decode component units: invalid types")
		}
		return ComponentUnits{Components: components, EquityUnits: units, DebtUnits: zeros(len(units))}, nil
	}

	values, err := c.call(ctx, setTokenABI, indexToken, "getComponents")
	if err != nil {
		return ComponentUnits{}, err
	}
	if len(values) != 1 {
		return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, "decode components: unexpected output")
	}
	components, ok := values[0].([]common.Address)
	if !ok {
		return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, "decode components: invalid types")
	}
	units := make([]*big.Int, len(components))
	for i, component := range components {
		realUnit, err := c.callUint(ctx, setTokenABI, indexToken, "getDefaultPositionRealUnit", component)
		if err != nil {
			return ComponentUnits{}, err
		}
		if realUnit.Sign() < 0 {
			return ComponentUnits{}, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("component %s has a negative default position", component.Hex()))
		}
		units[i] = new(big.Int).Div(new(big.Int).Mul(realUnit, amount), big.NewInt(1e18))
	}
	return ComponentUnits{Components: components, EquityUnits: units, DebtUnits: zeros(len(units))}, nil
}

func zeros(n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int)
	}
	return out
}

func (c *Client) AcrossExchangeRate(ctx context.Context, l1Token common.Address) (*big.Int, error) {
	return c.callUint(ctx, hubPoolABI, common.HexToAddress(registry.AcrossHubPoolAddress), "exchangeRateCurrent", l1Token)
}

func (c *Client) PreviewMint(ctx context.Context, vault common.Address, shares *big.Int) (*big.Int, error) {
	return c.callUint(ctx, erc4626ABI, vault, "previewMint", shares)
}

func (c *Client) PreviewRedeem(ctx context.Context, vault common.Address, shares *big.Int) (*big.Int, error) {
	return c.callUint(ctx, erc4626ABI, vault, "previewRedeem", shares)
}

func (c *Client) callUint(ctx context.Context, parsed abi.ABI, to common.Address, method string, args ...any) (*big.Int, error) {
	values, err := c.call(ctx, parsed, to, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("decode %s: empty output", method))
	}
	value, ok := values[0].(*big.Int)
	if !ok || value == nil {
		return nil, clierr.New(clierr.CodeUnavailable, fmt.Sprintf("decode %s: invalid output", method))
	}
	return value, nil
}

func (c *Client) call(ctx context.Context, parsed abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, fmt.Sprintf("pack %s calldata", method), err)
	}
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, fmt.Sprintf("call %s", method), err)
	}
	values, err := parsed.Unpack(method, out)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, fmt.Sprintf("decode %s", method), err)
	}
	return values, nil
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Package builder turns resolved flash-mint quotes into contract call data.
// Every builder validates its swap routes, addresses and amounts before any
// call data is packed.
package builder

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/ggonzalez94/flashmint-cli/internal/id"
	"github.com/ggonzalez94/flashmint-cli/internal/model"
	"github.com/ggonzalez94/flashmint-cli/internal/registry"
)

// ErrInputTokenForETHUnresolved is returned when an exact-input ERC20 issuance
// is requested without a route that swaps the input token for ETH. No quote
// engine produces that route yet.
var ErrInputTokenForETHUnresolved = errors.New("swap data for input token to ETH is not resolved")

type Transaction struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Model renders the transaction for the output envelope.
func (t Transaction) Model() model.Transaction {
	value := "0"
	if t.Value != nil {
		value = t.Value.String()
	}
	return model.Transaction{
		To:    t.To.Hex(),
		Data:  hexutil.Encode(t.Data),
		Value: value,
	}
}

// isNative reports whether a payment token is the chain's native asset, by
// sentinel address or by symbol.
func isNative(token common.Address, symbol string) bool {
	return strings.EqualFold(token.Hex(), registry.NativeSentinel) || symbol == id.NativeSymbol
}

func requireAddress(name string, addr common.Address) error {
	if addr == (common.Address{}) {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("build request requires %s", name))
	}
	return nil
}

func requireAmount(name string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return clierr.New(clierr.CodeUsage, fmt.Sprintf("build request requires a positive %s", name))
	}
	return nil
}

func pack(parsed abi.ABI, to common.Address, value *big.Int, method string, args ...any) (Transaction, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return Transaction{}, clierr.Wrap(clierr.CodeInternal, fmt.Sprintf("pack %s calldata", method), err)
	}
	if value == nil {
		value = big.NewInt(0)
	}
	return Transaction{To: to, Data: data, Value: new(big.Int).Set(value)}, nil
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

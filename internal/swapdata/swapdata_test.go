package swapdata

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
)

var (
	weth  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	usdc  = common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	steth = common.HexToAddress("0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84")
	pool  = common.HexToAddress("0xDC24316b9AE028F1497c275EB9192a3Ea0f67022")
)

func TestNoSwapIsFreshAndValid(t *testing.T) {
	a := NoSwap()
	b := NoSwap()
	a.Path[0] = weth
	if b.Path[0] != (common.Address{}) {
		t.Fatal("expected NoSwap to return independent values")
	}
	if err := Validate(NoSwap()); err != nil {
		t.Fatalf("sentinel should validate: %v", err)
	}
	if !NoSwap().IsNoSwap() {
		t.Fatal("expected IsNoSwap to recognize the sentinel")
	}
}

func TestValidateRejectsMalformedRoutes(t *testing.T) {
	cases := []struct {
		name  string
		route Route
	}{
		{"none with real path", Route{Exchange: ExchangeNone, Path: []common.Address{weth, usdc}}},
		{"univ3 missing fee", Route{Exchange: ExchangeUniV3, Path: []common.Address{weth, usdc}}},
		{"univ3 single hop", Route{Exchange: ExchangeUniV3, Path: []common.Address{weth}, Fees: []uint32{}}},
		{"univ3 zero fee", Route{Exchange: ExchangeUniV3, Path: []common.Address{weth, usdc}, Fees: []uint32{0}}},
		{"sushi with fees", Route{Exchange: ExchangeSushiswap, Path: []common.Address{weth, usdc}, Fees: []uint32{500}}},
		{"quickswap zero hop", Route{Exchange: ExchangeQuickswap, Path: []common.Address{weth, {}}}},
		{"curve without pool", Route{Exchange: ExchangeCurve, Path: []common.Address{weth, steth}}},
		{"balancer missing pool ids", Route{Exchange: ExchangeBalancerV2, Path: []common.Address{weth, usdc}}},
		{"unknown exchange", Route{Exchange: Exchange(42), Path: []common.Address{weth, usdc}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.route)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !clierr.Is(err, clierr.CodeMalformedRoute) {
				t.Fatalf("expected malformed route code, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsWellFormedRoutes(t *testing.T) {
	routes := []Route{
		{Exchange: ExchangeUniV3, Path: []common.Address{weth, usdc, steth}, Fees: []uint32{500, 3000}},
		{Exchange: ExchangeSushiswap, Path: []common.Address{weth, usdc}},
		{Exchange: ExchangeCurve, Path: []common.Address{weth, steth}, Pool: pool},
		{Exchange: ExchangeBalancerV2, Path: []common.Address{weth, usdc}, PoolIDs: []common.Hash{common.HexToHash("0x01")}},
	}
	if err := ValidateAll(routes...); err != nil {
		t.Fatalf("expected routes to validate: %v", err)
	}
}

func TestV3PathRoundTrip(t *testing.T) {
	raw, err := EncodeV3Path([]common.Address{weth, usdc, steth}, []uint32{500, 10000})
	if err != nil {
		t.Fatalf("EncodeV3Path failed: %v", err)
	}
	if len(raw) != 20*3+3*2 {
		t.Fatalf("unexpected encoded length %d", len(raw))
	}
	if !bytes.Equal(raw[20:23], []byte{0x00, 0x01, 0xf4}) {
		t.Fatalf("unexpected fee bytes %x", raw[20:23])
	}
	path, fees, err := DecodeV3Path(raw)
	if err != nil {
		t.Fatalf("DecodeV3Path failed: %v", err)
	}
	if len(path) != 3 || path[2] != steth || fees[1] != 10000 {
		t.Fatalf("unexpected decoded path %v fees %v", path, fees)
	}
	if _, _, err := DecodeV3Path(raw[:30]); err == nil {
		t.Fatal("expected error for truncated path")
	}
}

func TestTupleConversion(t *testing.T) {
	r := Route{Exchange: ExchangeBalancerV2, Path: []common.Address{weth, usdc}, PoolIDs: []common.Hash{common.HexToHash("0xabc")}}
	v2 := r.V2()
	if v2.Exchange != 5 || len(v2.PoolIds) != 1 || v2.PoolIds[0][31] != 0xbc {
		t.Fatalf("unexpected v2 tuple: %+v", v2)
	}
	v1 := Route{Exchange: ExchangeUniV3, Path: []common.Address{weth, usdc}, Fees: []uint32{3000}}.V1()
	if v1.Exchange != 3 || v1.Fees[0].Int64() != 3000 {
		t.Fatalf("unexpected v1 tuple: %+v", v1)
	}
}

func TestExchangeJSON(t *testing.T) {
	buf, err := json.Marshal(Route{Exchange: ExchangeUniV3, Path: []common.Address{weth, usdc}, Fees: []uint32{500}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(buf, []byte(`"exchange":"uniswap_v3"`)) {
		t.Fatalf("expected exchange name in json, got %s", buf)
	}
	for _, source := range []string{"Uniswap_V3", "uniswap-v3", "SushiSwap", "Balancer_V2", "Curve"} {
		if _, ok := ParseExchange(source); !ok {
			t.Fatalf("expected %s to parse", source)
		}
	}
	if _, ok := ParseExchange("Kyber"); ok {
		t.Fatal("did not expect unsupported source to parse")
	}
}

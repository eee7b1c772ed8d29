package swapdata

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TupleV1 is the leveraged-family swap data struct:
// (address[] path, uint24[] fees, address pool, uint8 exchange).
type TupleV1 struct {
	Path     []common.Address `abi:"path"`
	Fees     []*big.Int       `abi:"fees"`
	Pool     common.Address   `abi:"pool"`
	Exchange uint8            `abi:"exchange"`
}

// TupleV2 is the extended and hyETH swap data struct:
// (uint8 exchange, address[] path, uint24[] fees, address pool, bytes32[] poolIds).
type TupleV2 struct {
	Exchange uint8            `abi:"exchange"`
	Path     []common.Address `abi:"path"`
	Fees     []*big.Int       `abi:"fees"`
	Pool     common.Address   `abi:"pool"`
	PoolIds  [][32]byte       `abi:"poolIds"`
}

func (r Route) V1() TupleV1 {
	return TupleV1{
		Path:     append([]common.Address{}, r.Path...),
		Fees:     feesToBig(r.Fees),
		Pool:     r.Pool,
		Exchange: uint8(r.Exchange),
	}
}

func (r Route) V2() TupleV2 {
	poolIDs := make([][32]byte, 0, len(r.PoolIDs))
	for _, id := range r.PoolIDs {
		poolIDs = append(poolIDs, [32]byte(id))
	}
	return TupleV2{
		Exchange: uint8(r.Exchange),
		Path:     append([]common.Address{}, r.Path...),
		Fees:     feesToBig(r.Fees),
		Pool:     r.Pool,
		PoolIds:  poolIDs,
	}
}

func feesToBig(fees []uint32) []*big.Int {
	out := make([]*big.Int, 0, len(fees))
	for _, fee := range fees {
		out = append(out, new(big.Int).SetUint64(uint64(fee)))
	}
	return out
}

const (
	v3AddrLen = common.AddressLength
	v3FeeLen  = 3
)

// EncodeV3Path packs a Uniswap V3 multi-hop path as addr|fee|addr|fee|addr.
func EncodeV3Path(path []common.Address, fees []uint32) ([]byte, error) {
	if len(path) < 2 || len(fees) != len(path)-1 {
		return nil, fmt.Errorf("v3 path needs n tokens and n-1 fees, got %d and %d", len(path), len(fees))
	}
	out := make([]byte, 0, len(path)*v3AddrLen+len(fees)*v3FeeLen)
	for i, hop := range path {
		out = append(out, hop.Bytes()...)
		if i < len(fees) {
			fee := fees[i]
			if fee >= 1<<24 {
				return nil, fmt.Errorf("fee %d does not fit uint24", fee)
			}
			out = append(out, byte(fee>>16), byte(fee>>8), byte(fee))
		}
	}
	return out, nil
}

// DecodeV3Path unpacks a Uniswap V3 encoded path into tokens and fee tiers.
func DecodeV3Path(raw []byte) ([]common.Address, []uint32, error) {
	if len(raw) < 2*v3AddrLen+v3FeeLen || (len(raw)-v3AddrLen)%(v3AddrLen+v3FeeLen) != 0 {
		return nil, nil, fmt.Errorf("invalid v3 path length %d", len(raw))
	}
	hops := (len(raw)-v3AddrLen)/(v3AddrLen+v3FeeLen) + 1
	path := make([]common.Address, 0, hops)
	fees := make([]uint32, 0, hops-1)
	offset := 0
	for i := 0; i < hops; i++ {
		path = append(path, common.BytesToAddress(raw[offset:offset+v3AddrLen]))
		offset += v3AddrLen
		if i < hops-1 {
			var buf [4]byte
			copy(buf[1:], raw[offset:offset+v3FeeLen])
			fees = append(fees, binary.BigEndian.Uint32(buf[:]))
			offset += v3FeeLen
		}
	}
	return path, fees, nil
}

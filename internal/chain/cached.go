package chain

import (
	"context"

	"go.uber.org/zap"
)

// ChainIDStore persists network identification per RPC endpoint.
type ChainIDStore interface {
	LookupChainID(rpcURL string) (int64, bool, error)
	StoreChainID(rpcURL string, chainID int64) error
}

// CachedReader serves ChainID from a store and delegates every other read.
// Position and rate reads are never cached.
type CachedReader struct {
	Reader
	rpcURL string
	store  ChainIDStore
	log    *zap.Logger
}

func WithChainIDCache(reader Reader, rpcURL string, store ChainIDStore, log *zap.Logger) *CachedReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedReader{Reader: reader, rpcURL: rpcURL, store: store, log: log}
}

func (c *CachedReader) ChainID(ctx context.Context) (int64, error) {
	if c.store != nil {
		chainID, ok, err := c.store.LookupChainID(c.rpcURL)
		if err != nil {
			c.log.Debug("chain id cache read failed", zap.Error(err))
		} else if ok {
			c.log.Debug("chain id cache hit", zap.Int64("chain_id", chainID))
			return chainID, nil
		}
	}
	chainID, err := c.Reader.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	if c.store != nil {
		if err := c.store.StoreChainID(c.rpcURL, chainID); err != nil {
			c.log.Debug("chain id cache write failed", zap.Error(err))
		}
	}
	return chainID, nil
}

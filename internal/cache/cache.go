package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Store keeps RPC endpoint to chain id mappings. Quotes and position data are
// never written here.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	ttl  time.Duration
	now  func() time.Time
}

func Open(path, lockPath string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"CREATE TABLE IF NOT EXISTS rpc_chain_ids (endpoint_hash TEXT PRIMARY KEY, chain_id INTEGER NOT NULL, created_at INTEGER NOT NULL, ttl_seconds INTEGER NOT NULL);",
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init cache schema: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	store := &Store{db: db, lock: flock.New(lockPath), ttl: ttl, now: time.Now}
	_ = store.Prune()
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Prune deletes expired entries.
func (s *Store) Prune() error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec("DELETE FROM rpc_chain_ids WHERE created_at + ttl_seconds < ?", s.now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	return nil
}

// LookupChainID returns the cached chain id for rpcURL. Expired entries are
// reported as misses.
func (s *Store) LookupChainID(rpcURL string) (int64, bool, error) {
	var chainID, createdUnix, ttlSeconds int64
	err := s.db.QueryRow("SELECT chain_id, created_at, ttl_seconds FROM rpc_chain_ids WHERE endpoint_hash = ?", endpointKey(rpcURL)).
		Scan(&chainID, &createdUnix, &ttlSeconds)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("cache read: %w", err)
	}
	age := s.now().UTC().Sub(time.Unix(createdUnix, 0).UTC())
	if age > time.Duration(ttlSeconds)*time.Second {
		return 0, false, nil
	}
	return chainID, true, nil
}

func (s *Store) StoreChainID(rpcURL string, chainID int64) error {
	locked, err := s.lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock cache: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	ttlSeconds := int64(s.ttl.Seconds())
	if ttlSeconds <= 0 {
		ttlSeconds = 1
	}
	_, err = s.db.Exec(`
		INSERT INTO rpc_chain_ids (endpoint_hash, chain_id, created_at, ttl_seconds)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(endpoint_hash) DO UPDATE SET
			chain_id=excluded.chain_id,
			created_at=excluded.created_at,
			ttl_seconds=excluded.ttl_seconds
	`, endpointKey(rpcURL), chainID, s.now().UTC().Unix(), ttlSeconds)
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// RPC URLs often embed API keys, so only a digest is stored.
func endpointKey(rpcURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimRight(strings.TrimSpace(rpcURL), "/")))
	return hex.EncodeToString(sum[:])
}

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"go.uber.org/zap"
)

// snapshotFile is the cache snapshot file name inside the storage directory.
const snapshotFile = "schema_embeddings.json"

// CacheStore persists the embedding cache snapshot as one JSON file. Writes
// go through a temp file and rename, so readers never see a half-written
// snapshot. A corrupt or unreadable file is a cache miss, never an abort.
type CacheStore struct {
	dir    string
	logger *zap.Logger
}

// NewCacheStore creates a file-backed cache store rooted at dir.
func NewCacheStore(dir string, logger *zap.Logger) *CacheStore {
	return &CacheStore{dir: dir, logger: logger}
}

// Load reads the persisted snapshot.
func (s *CacheStore) Load(ctx context.Context) (*domain.CacheSnapshot, error) {
	path := filepath.Join(s.dir, snapshotFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var snap domain.CacheSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("corrupt cache file, treating as miss",
			zap.String("path", path),
			zap.Error(err))
		return nil, ports.ErrCacheMiss
	}
	return &snap, nil
}

// Save writes the snapshot atomically.
func (s *CacheStore) Save(ctx context.Context, snap *domain.CacheSnapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal cache snapshot: %w", err)
	}

	path := filepath.Join(s.dir, snapshotFile)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	s.logger.Debug("cache snapshot written",
		zap.String("path", path),
		zap.Int("tables", len(snap.Tables)),
		zap.Int("columns", len(snap.Columns)))
	return nil
}

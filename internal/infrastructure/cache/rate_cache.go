package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/filesystem"
	"github.com/doeshing/notecalc/internal/ports"
)

// FileRateCache stores the rate table as a single JSON document.
// Writes overwrite the whole file.
type FileRateCache struct {
	path string
	mu   sync.Mutex
}

// NewFileRateCache returns a cache at ~/.notecalc/cache/currency_rates.json.
func NewFileRateCache() *FileRateCache {
	return NewFileRateCacheAt(filesystem.AppPath(domain.CacheDirName, domain.RateCacheFileName))
}

// NewFileRateCacheAt returns a cache stored at path.
func NewFileRateCacheAt(path string) *FileRateCache {
	return &FileRateCache{path: path}
}

// Load reads the snapshot. A missing file yields an error matching
// os.ErrNotExist.
func (c *FileRateCache) Load() (domain.RateSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := os.ReadFile(c.path)
	if err != nil {
		return domain.RateSnapshot{}, err
	}
	var snapshot domain.RateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("failed to decode rate cache %s: %w", c.path, err)
	}
	if snapshot.Rates == nil {
		snapshot.Rates = map[string]float64{}
	}
	return snapshot, nil
}

// Save writes the snapshot, creating the cache directory when needed.
func (c *FileRateCache) Save(snapshot domain.RateSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snapshot.Base == "" {
		snapshot.Base = domain.BaseCurrency
	}
	if err := os.MkdirAll(filepath.Dir(c.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, domain.CacheFilePermissions)
}

// Path exposes the cache file location.
func (c *FileRateCache) Path() string {
	return c.path
}

// ModTime returns when the cache was last written, false if it does not exist.
func (c *FileRateCache) ModTime() (time.Time, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Clear removes the cache file. A missing file is not an error.
func (c *FileRateCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ ports.RateCache = (*FileRateCache)(nil)

package internal

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	tt "github.com/gnoswap-labs/dracula/internal/types"
)

const (
	cacheFileName   = "dracula_cache.msgpack"
	defaultCacheAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string    `msgpack:"hash"`
	LastModified time.Time `msgpack:"mtime"`
}

func (m fileMetadata) equal(o fileMetadata) bool {
	return m.Hash == o.Hash && m.LastModified.Equal(o.LastModified)
}

type CacheEntry struct {
	Metadata     fileMetadata `msgpack:"metadata"`
	Mode         tt.Mode      `msgpack:"mode"`
	Stat         tt.FileStat  `msgpack:"stat"`
	CreatedAt    time.Time    `msgpack:"created"`
	LastAccessed time.Time    `msgpack:"accessed"`
}

type cacheFile struct {
	Dependencies map[string]string     `msgpack:"dependencies"`
	Entries      map[string]CacheEntry `msgpack:"entries"`
}

// Cache stores file stats keyed by path. An entry is valid while the file's
// content hash and modification time are unchanged, it is younger than the
// max age, it was computed in the same mode, and no dependency file changed.
type Cache struct {
	CacheDir         string
	entries          map[string]CacheEntry
	mutex            sync.RWMutex
	maxAge           time.Duration
	dirty            bool
	dependencyFiles  []string
	dependencyHashes map[string]string
	storedHashes     map[string]string
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:         cacheDir,
		entries:          make(map[string]CacheEntry),
		maxAge:           defaultCacheAge,
		dependencyHashes: make(map[string]string),
		storedHashes:     make(map[string]string),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored cacheFile
	if err := msgpack.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	if stored.Dependencies != nil {
		c.storedHashes = stored.Dependencies
	}
	return nil
}

// Save writes the cache to disk if it changed since the last save.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}
	if err := c.save(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *Cache) save() error {
	tmp, err := os.CreateTemp(c.CacheDir, "cache-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	stored := cacheFile{Dependencies: c.dependencyHashes, Entries: c.entries}
	if err := msgpack.NewEncoder(tmp).Encode(&stored); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	return os.Rename(tmp.Name(), c.path())
}

func (c *Cache) Set(filename string, mode tt.Mode, stat tt.FileStat) error {
	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     metadata,
		Mode:         mode,
		Stat:         stat,
		CreatedAt:    now,
		LastAccessed: now,
	}
	c.dirty = true
	return nil
}

func (c *Cache) Get(filename string, mode tt.Mode) (tt.FileStat, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return tt.FileStat{}, false
	}

	if entry.Mode != mode || c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		c.dirty = true
		return tt.FileStat{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Stat, true
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *Cache) isEntryInvalid(filename string, entry CacheEntry) bool {
	// too old
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	if err != nil || !currentMetadata.equal(entry.Metadata) {
		return true
	}

	return false
}

// SetDependencies records files whose content keys the whole cache. Entries
// loaded from disk are dropped when any of them changed since the cache was
// written.
func (c *Cache) SetDependencies(files ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.dependencyFiles = files
	if err := c.updateDependencyHashes(); err != nil {
		return err
	}
	if c.haveDependenciesChanged() {
		c.entries = make(map[string]CacheEntry)
		c.dirty = true
	}
	return nil
}

func (c *Cache) haveDependenciesChanged() bool {
	if len(c.storedHashes) != len(c.dependencyHashes) {
		return len(c.entries) > 0
	}
	for file, hash := range c.dependencyHashes {
		if c.storedHashes[file] != hash {
			return true
		}
	}
	return false
}

func (c *Cache) updateDependencyHashes() error {
	c.dependencyHashes = make(map[string]string, len(c.dependencyFiles))
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		c.dependencyHashes[file] = hash
	}
	return nil
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // manual operation, a failed write only loses the reset
	c.dirty = false
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime(),
	}, nil
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

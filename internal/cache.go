package internal

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	cacheFileName   = "format_cache.gob"
	defaultCacheAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

// CacheEntry records a file whose content was found to be formatted.
type CacheEntry struct {
	Metadata     fileMetadata
	CreatedAt    time.Time
	LastAccessed time.Time
}

// cacheFile is the on-disk form of a Cache.
type cacheFile struct {
	Entries map[string]CacheEntry
	// Dependencies maps each dependency file to its hash when the entries
	// were recorded. A missing file hashes to "".
	Dependencies map[string]string
}

// Cache remembers formatted files across runs so unchanged files are not
// formatted again. Entries are invalidated when the file or one of the
// dependency files (such as the configuration) changes, including between
// runs.
type Cache struct {
	CacheDir         string
	entries          map[string]CacheEntry
	mutex            sync.RWMutex
	maxAge           time.Duration
	dependencyFiles  []string
	dependencyHashes map[string]string
	// savedHashes are the dependency hashes read from disk.
	savedHashes map[string]string
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
		savedHashes:      make(map[string]string),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) load() error {
	cachePath := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Open(cachePath)
	if os.IsNotExist(err) {
		return nil // first run
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored cacheFile
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}

	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	if stored.Dependencies != nil {
		c.savedHashes = stored.Dependencies
	}
	return nil
}

func (c *Cache) save() error {
	cachePath := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Create(cachePath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	stored := cacheFile{
		Entries:      c.entries,
		Dependencies: c.dependencyHashes,
	}
	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(stored); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

// Set marks filename as formatted in its current state.
func (c *Cache) Set(filename string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     metadata,
		CreatedAt:    now,
		LastAccessed: now,
	}

	return c.save()
}

// Get reports whether filename is known to be formatted in its current state.
func (c *Cache) Get(filename string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return false
	}

	if c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		return false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return true
}

func (c *Cache) isEntryInvalid(filename string, entry CacheEntry) bool {
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	if err != nil || currentMetadata.Hash != entry.Metadata.Hash ||
		!currentMetadata.LastModified.Equal(entry.Metadata.LastModified) {
		return true
	}

	return c.haveDependenciesChanged()
}

// AddDependency registers a file whose modification invalidates every entry.
// If the file differs from the one the stored entries were recorded with,
// the entries are dropped. A missing file is a valid state of a dependency.
func (c *Cache) AddDependency(filename string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	hash, err := dependencyHash(filename)
	if err != nil {
		return fmt.Errorf("failed to get hash for %s: %w", filename, err)
	}
	c.dependencyFiles = append(c.dependencyFiles, filename)
	c.dependencyHashes[filename] = hash

	if saved, ok := c.savedHashes[filename]; ok && saved == hash {
		return nil
	}
	if len(c.entries) == 0 {
		return c.save()
	}
	// recorded under another version of the dependency, or before it was
	// registered at all
	c.entries = make(map[string]CacheEntry)
	return c.save()
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := dependencyHash(file)
		if err != nil {
			return true
		}

		if hash != c.dependencyHashes[file] {
			return true
		}
	}

	return false
}

func dependencyHash(filename string) (string, error) {
	hash, err := getFileHash(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return hash, err
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
	_ = c.save() // ignore error as this is a manual operation
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

package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"signin/internal/providers"
	"signin/internal/storage/interfaces"
	"sync"

	json "github.com/goccy/go-json"
)

const snapshotVersion = 1

var errSnapshotLocked = errors.New("snapshot is held by another store")

// snapshot is the on-disk envelope; values are stored as raw JSON documents.
type snapshot struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// FileStore keeps every key in memory and rewrites a single snapshot file on
// each mutation. The in-memory view only changes after the new file has been
// renamed into place, so readers never see a write that did not reach disk.
// An exclusive lock on path+".lock" is held until Close; a second store on the
// same path, in this process or another, fails to open.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	lock       *os.File
	entries    map[string]json.RawMessage
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	lock, err := acquireLock(path + ".lock")
	if err != nil {
		return nil, err
	}

	f := &FileStore{
		path:       path,
		lock:       lock,
		entries:    make(map[string]json.RawMessage),
		compressor: compressor,
		logger:     logger,
	}
	if err := f.load(); err != nil {
		f.releaseLock()
		return nil, err
	}
	return f, nil
}

func acquireLock(path string) (*os.File, error) {
	lock, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(lock); err != nil {
		lock.Close()
		if errors.Is(err, errSnapshotLocked) {
			return nil, fmt.Errorf("storage file %s is in use: %w", path, err)
		}
		return nil, fmt.Errorf("lock storage file %s: %w", path, err)
	}
	return lock, nil
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	val, ok := f.entries[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not a JSON document", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.entries)
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	next[key] = stored

	if err := f.saveToFile(next); err != nil {
		return err
	}
	f.entries = next
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[key]; !ok {
		return nil
	}
	next := maps.Clone(f.entries)
	delete(next, key)

	if err := f.saveToFile(next); err != nil {
		return err
	}
	f.entries = next
	return nil
}

// Close releases the snapshot lock and the compressor. It is safe to call
// more than once.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lock == nil {
		return nil
	}
	lockErr := f.releaseLock()
	return errors.Join(lockErr, f.compressor.Close())
}

func (f *FileStore) releaseLock() error {
	if f.lock == nil {
		return nil
	}
	err := errors.Join(unlockFile(f.lock), f.lock.Close())
	f.lock = nil
	return err
}

func (f *FileStore) saveToFile(entries map[string]json.RawMessage) error {
	jsonData, err := json.Marshal(snapshot{Version: snapshotVersion, Entries: entries})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	decompressed, err := f.compressor.Decompress(data)
	if err == nil {
		if entries, ok := decodeSnapshot(decompressed); ok {
			f.entries = entries
			return nil
		}
	}

	// compression was toggled since the file was written
	f.logger.Warnf(providers.TypeApp, "Snapshot %s does not match the configured compression, trying alternatives", f.path)
	if entries, ok := decodeSnapshot(data); ok {
		f.logger.Warnf(providers.TypeApp, "Loaded uncompressed snapshot, it will be compressed on next write")
		f.entries = entries
		return nil
	}
	if zc, zerr := NewZstdCompressor(); zerr == nil {
		defer zc.Close()
		if raw, derr := zc.Decompress(data); derr == nil {
			if entries, ok := decodeSnapshot(raw); ok {
				f.logger.Warnf(providers.TypeApp, "Loaded zstd snapshot, it will be stored uncompressed on next write")
				f.entries = entries
				return nil
			}
		}
	}

	return fmt.Errorf("unreadable snapshot %s", f.path)
}

func decodeSnapshot(data []byte) (map[string]json.RawMessage, bool) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil || s.Version == 0 {
		return nil, false
	}
	if s.Entries == nil {
		s.Entries = make(map[string]json.RawMessage)
	}
	return s.Entries, true
}

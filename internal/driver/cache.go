package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// diskCacheSchemaVersion is bumped whenever CachePayload's shape changes, so
// a stale on-disk entry from a previous schema is treated as a miss instead
// of failing to decode.
const diskCacheSchemaVersion uint16 = 1

// Digest is a content hash, used both as a cache key and as the "did
// anything change" check before re-running the pipeline.
type Digest [sha256.Size]byte

// HashFiles computes a stable digest over every file's path and token text,
// in input order — re-ordering files or editing any token's text changes
// the hash (§8 idempotence: identical inputs must hash identically).
func HashFiles(files []FileInput) Digest {
	h := sha256.New()
	for _, f := range files {
		h.Write([]byte(f.Path))
		h.Write([]byte{0})
		for _, tok := range f.Tokens.Tokens {
			h.Write([]byte(tok.Text))
			h.Write([]byte{0})
		}
		h.Write([]byte{0xff})
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// CachePayload is what DiskCache persists per module digest: enough to
// decide "does this module still need recompiling" and to replay its
// aggregated diagnostics without rerunning the pipeline, without trying to
// serialize the full Module graph of pointers (§4.8 doesn't ask the core
// itself to own a cache; this exists for an orchestrator that calls Build
// repeatedly across incremental edits).
//
// Grounded on the teacher's internal/driver/dcache.go DiskPayload, trimmed
// to this core's single-module Build contract — the teacher's payload also
// tracks per-module dependency hashes across a whole project graph, which
// has no equivalent inside this core (project-level incremental builds are
// ProjectBuilder's concern, §6).
type CachePayload struct {
	Schema uint16

	ContentHash Digest

	FunctionCount int
	HasErrors     bool
	DiagCount     int
}

// DiskCache stores CachePayloads on disk keyed by Digest, matching the
// teacher's OpenDiskCache/Put/Get contract.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache creates (if needed) and opens a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "modules", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes payload under key.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := msgpack.NewEncoder(tmp).Encode(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserializes the payload stored under key, reporting false
// (with no error) on a cache miss or a schema mismatch.
func (c *DiskCache) Get(key Digest) (CachePayload, bool, error) {
	var out CachePayload
	if c == nil {
		return out, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, false, nil
		}
		return out, false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return out, false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return CachePayload{}, false, nil
	}
	return out, true, nil
}

// PayloadFor summarizes mod into a CachePayload suitable for caching.
func PayloadFor(contentHash Digest, mod *Module) *CachePayload {
	return &CachePayload{
		Schema:        diskCacheSchemaVersion,
		ContentHash:   contentHash,
		FunctionCount: len(mod.HirFunctions) + len(mod.TemplateFunctions),
		HasErrors:     mod.HasErrors(),
		DiagCount:     len(mod.Diagnostics),
	}
}

// Package diagcache persists a run's diagnostics on disk, keyed by a
// hash of the fixture bytes and the configuration that produced them,
// so an unchanged fixture re-checked with the same configuration skips
// the analysis pass entirely.
package diagcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"ownc/internal/diag"
)

const schemaVersion uint16 = 1

// Key identifies a cached run.
type Key [sha256.Size]byte

// KeyFor hashes the fixture bytes together with the configuration
// knobs that affect the diagnostics a run would produce.
func KeyFor(fixture []byte, configDigest string) Key {
	h := sha256.New()
	h.Write(fixture)
	h.Write([]byte{0})
	h.Write([]byte(configDigest))
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// payload is the on-disk record; Schema guards against decoding a
// record written by an incompatible future version of this cache.
type payload struct {
	Schema uint16
	Items  []diag.Diagnostic
}

// Cache is a directory of msgpack-encoded diagnostic runs. A nil
// *Cache is valid and behaves as an always-miss, always-discard cache.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir, creating it if necessary.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Get returns the cached diagnostics for key, if present.
func (c *Cache) Get(key Key) ([]diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, false, err
	}
	if p.Schema != schemaVersion {
		return nil, false, nil
	}
	return p.Items, true, nil
}

// Put stores items under key, replacing any prior entry atomically.
func (c *Cache) Put(key Key, items []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	dest := c.pathFor(key)
	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := msgpack.NewEncoder(tmp).Encode(payload{Schema: schemaVersion, Items: items}); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}

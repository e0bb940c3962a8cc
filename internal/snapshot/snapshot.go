package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvshard/kvshard/pkg/crypto/adaptive"
)

// FilePrefix names a shard's published snapshot file:
// snapshot_<id>. The working file during a write is the same name with
// TempSuffix appended.
const (
	FilePrefix = "snapshot_"
	TempSuffix = ".tmp"
)

// document is the current (v2) on-disk shape: a DataMap/TtlMap pair.
// Values are stored as strings since JSON has no first-class byte-slice
// type other than base64, and base64-of-everything would double the
// size of ordinary text values; encryption, when enabled, wraps the
// whole encoded document instead of individual values.
type document struct {
	Version int               `json:"version"`
	Data    map[string]string `json:"data"`
	TTL     map[string]uint64 `json:"ttl"`
}

const currentVersion = 2

// Path returns the published snapshot path for a shard under dir.
func Path(dir string, shardID int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d", FilePrefix, shardID))
}

func tempPath(dir string, shardID int) string {
	return Path(dir, shardID) + TempSuffix
}

// Writer persists (DataMap, TtlMap) snapshots for one shard. It runs off
// the engine's event loop — Create is meant to be called from a
// goroutine the engine spawns per snapshot tick, not from the actor loop
// itself.
type Writer struct {
	dir    string
	cipher adaptive.Cipher
}

// NewWriter returns a Writer rooted at dir. cipher may be nil, in which
// case snapshots are written in plain JSON.
func NewWriter(dir string, cipher adaptive.Cipher) *Writer {
	return &Writer{dir: dir, cipher: cipher}
}

// Create serializes data and ttl and atomically publishes them as shard
// shardID's snapshot. The rename is the commit point: if the process
// dies between the write and the rename, the previous snapshot (if any)
// remains authoritative.
func (w *Writer) Create(shardID int, data map[string][]byte, ttl map[string]uint64) error {
	doc := document{
		Version: currentVersion,
		Data:    make(map[string]string, len(data)),
		TTL:     ttl,
	}
	for k, v := range data {
		doc.Data[k] = string(v)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	if w.cipher != nil {
		encoded, err = w.cipher.Encrypt(encoded, nil)
		if err != nil {
			return fmt.Errorf("snapshot: encrypt: %w", err)
		}
	}

	tmp := tempPath(w.dir, shardID)
	if err := os.WriteFile(tmp, encoded, 0600); err != nil {
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}

	f, err := os.OpenFile(tmp, os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("snapshot: reopen temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}

	if err := os.Rename(tmp, Path(w.dir, shardID)); err != nil {
		return fmt.Errorf("snapshot: publish: %w", err)
	}
	return nil
}

// Load reads shard shardID's published snapshot, if any. A missing file
// is not an error — it returns nil maps so the caller starts empty. A
// file present but undecodable in any recognized shape is also treated
// as "start empty" rather than a fatal error, per spec §4.5.
func Load(dir string, shardID int, cipher adaptive.Cipher) (data map[string][]byte, ttl map[string]uint64, err error) {
	raw, err := os.ReadFile(Path(dir, shardID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("snapshot: read: %w", err)
	}

	if cipher != nil {
		plain, decErr := cipher.Decrypt(raw, nil)
		if decErr != nil {
			return nil, nil, nil // can't decrypt: treat as undecodable, start empty
		}
		raw = plain
	}

	if d, t, ok := decodeCurrent(raw); ok {
		return d, t, nil
	}
	if d, ok := decodeLegacy(raw); ok {
		return d, map[string]uint64{}, nil
	}
	return nil, nil, nil
}

// decodeCurrent recognizes the {"version":2,"data":{...},"ttl":{...}}
// shape. A flat legacy map would unmarshal here too but leave Version
// at zero and Data/TTL nil, so the version check is what disambiguates.
func decodeCurrent(raw []byte) (map[string][]byte, map[string]uint64, bool) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Version == 0 {
		return nil, nil, false
	}
	data := make(map[string][]byte, len(doc.Data))
	for k, v := range doc.Data {
		data[k] = []byte(v)
	}
	if doc.TTL == nil {
		doc.TTL = map[string]uint64{}
	}
	return data, doc.TTL, true
}

// decodeLegacy recognizes a bare {"key": "value", ...} map — the format
// written before TTLs were added to snapshots.
func decodeLegacy(raw []byte) (map[string][]byte, bool) {
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, false
	}
	data := make(map[string][]byte, len(flat))
	for k, v := range flat {
		data[k] = []byte(v)
	}
	return data, true
}

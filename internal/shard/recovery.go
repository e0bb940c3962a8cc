package shard

import (
	"github.com/kvshard/kvshard/internal/snapshot"
	"github.com/kvshard/kvshard/internal/wal"
	"github.com/kvshard/kvshard/pkg/crypto/adaptive"
)

// Recover reconstructs a shard's state from its snapshot then replays its
// WAL tail on top, per the recovery order the engine actor requires
// before it can accept live traffic: snapshot first (it carries absolute
// expiries), then the log (whose TTL records are relative and therefore
// re-anchor to this recovery instant, not to when they were first
// written).
func Recover(dataDir string, shardID int, walPath string, cipher adaptive.Cipher) (data map[string][]byte, ttl map[string]uint64, expiry *ExpiryIndex, err error) {
	data, ttl, err = snapshot.Load(dataDir, shardID, cipher)
	if err != nil {
		return nil, nil, nil, err
	}
	if data == nil {
		data = make(map[string][]byte)
	}
	if ttl == nil {
		ttl = make(map[string]uint64)
	}

	expiry = NewExpiryIndex()
	for k, e := range ttl {
		expiry.Push(e, k)
	}

	recoveryTime := nowMillis()
	replayErr := wal.Replay(walPath, func(r wal.Record) error {
		applyRecord(data, ttl, expiry, r, recoveryTime)
		return nil
	})
	if replayErr != nil {
		return nil, nil, nil, replayErr
	}

	return data, ttl, expiry, nil
}

// applyRecord mirrors the live actor's state transitions for the four
// durable ops, except it never re-emits a WAL record — replay must be
// idempotent with respect to the log it's reading.
func applyRecord(data map[string][]byte, ttl map[string]uint64, expiry *ExpiryIndex, r wal.Record, recoveryTime uint64) {
	key := string(r.Key)
	switch r.Op {
	case wal.OpSet:
		data[key] = r.Value
		delete(ttl, key)

	case wal.OpSetEx:
		data[key] = r.Value
		e := recoveryTime + uint64(r.TTLSeconds)*1000
		ttl[key] = e
		expiry.Push(e, key)

	case wal.OpDel:
		delete(data, key)
		delete(ttl, key)

	case wal.OpExpire:
		if _, ok := data[key]; ok {
			e := recoveryTime + uint64(r.TTLSeconds)*1000
			ttl[key] = e
			expiry.Push(e, key)
		}
	}
}

package shard

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kvshard/kvshard/internal/snapshot"
	"github.com/kvshard/kvshard/internal/wal"
)

func TestRecoverEmptyStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	data, ttl, expiry, err := Recover(dir, 0, filepath.Join(dir, "wal_0.log"), nil)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if len(data) != 0 || len(ttl) != 0 || expiry.Len() != 0 {
		t.Errorf("Recover() of empty shard = (%v, %v, len %d), want all empty", data, ttl, expiry.Len())
	}
}

func TestRecoverFromSnapshotOnly(t *testing.T) {
	dir := t.TempDir()
	w := snapshot.NewWriter(dir, nil)
	if err := w.Create(0, map[string][]byte{"a": []byte("1")}, map[string]uint64{"a": 9999999999999}); err != nil {
		t.Fatalf("snapshot Create() error = %v", err)
	}

	data, ttl, expiry, err := Recover(dir, 0, filepath.Join(dir, "wal_0.log"), nil)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if string(data["a"]) != "1" {
		t.Errorf("Recover() data[a] = %q, want %q", data["a"], "1")
	}
	if ttl["a"] != 9999999999999 {
		t.Errorf("Recover() ttl[a] = %d, want 9999999999999", ttl["a"])
	}
	if expiry.Len() != 1 {
		t.Errorf("Recover() expiry index len = %d, want 1", expiry.Len())
	}
}

func TestRecoverReplaysWALTail(t *testing.T) {
	dir := t.TempDir()
	walPath := filepath.Join(dir, "wal_0.log")

	w, err := wal.NewWriter(wal.Options{Path: walPath, FlushInterval: time.Millisecond})
	if err != nil {
		t.Fatalf("wal.NewWriter() error = %v", err)
	}
	w.Append(wal.NewSet([]byte("a"), []byte("1")))
	w.Append(wal.NewSetEx([]byte("b"), []byte("2"), 30))
	w.Append(wal.NewDel([]byte("a")))
	time.Sleep(20 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, ttl, expiry, err := Recover(dir, 0, walPath, nil)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if _, ok := data["a"]; ok {
		t.Errorf("Recover() replayed Del but data[a] still present")
	}
	if string(data["b"]) != "2" {
		t.Errorf("Recover() data[b] = %q, want %q", data["b"], "2")
	}
	if _, ok := ttl["b"]; !ok {
		t.Errorf("Recover() ttl[b] missing after SetEx replay")
	}
	if expiry.Len() != 1 {
		t.Errorf("Recover() expiry index len = %d, want 1", expiry.Len())
	}
}

func TestRecoverSnapshotThenWALTailCombine(t *testing.T) {
	dir := t.TempDir()
	walPath := filepath.Join(dir, "wal_0.log")

	sw := snapshot.NewWriter(dir, nil)
	if err := sw.Create(0, map[string][]byte{"a": []byte("1")}, nil); err != nil {
		t.Fatalf("snapshot Create() error = %v", err)
	}

	w, err := wal.NewWriter(wal.Options{Path: walPath, FlushInterval: time.Millisecond})
	if err != nil {
		t.Fatalf("wal.NewWriter() error = %v", err)
	}
	w.Append(wal.NewSet([]byte("b"), []byte("2")))
	time.Sleep(20 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, _, _, err := Recover(dir, 0, walPath, nil)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if string(data["a"]) != "1" || string(data["b"]) != "2" {
		t.Errorf("Recover() data = %v, want a=1 b=2", data)
	}
}

package wal

import (
	"encoding/binary"
	"os"
	"testing"
)

// appendTornFragment simulates a crash mid-append: a valid length prefix
// promising a frame body that was never fully written.
func appendTornFragment(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 100) // promises 100 bytes, writes fewer
	if _, err := f.Write(lenBuf[:]); err != nil {
		t.Fatalf("write torn length prefix: %v", err)
	}
	if _, err := f.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("write torn body: %v", err)
	}
}

package wal

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Replay reads every well-formed record from the log at path in order
// and calls fn for each. It stops — without returning an error — at the
// first frame that doesn't fully decode, since that's exactly the shape
// of a torn tail left by a process that crashed mid-append (spec §4.5,
// §6). A missing file replays zero records.
func Replay(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("wal: open %s: %w", path, err)
	}
	defer f.Close()

	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(f, lenBuf[:]); err != nil {
			return nil // EOF or short read: clean end or torn tail, both fine
		}
		length := binary.BigEndian.Uint32(lenBuf[:])
		if length < 4 {
			return nil
		}
		body := make([]byte, length)
		if _, err := io.ReadFull(f, body); err != nil {
			return nil // torn tail
		}
		record, err := decodeFrame(body)
		if err != nil {
			return nil // corrupt or torn: stop replay here, not an error
		}
		if err := fn(record); err != nil {
			return fmt.Errorf("wal: apply record: %w", err)
		}
	}
}

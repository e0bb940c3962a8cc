// Package wal implements the per-shard write-ahead log: a durability
// actor that appends self-delimiting records, batches them to disk, and
// truncates in place once a snapshot has made the log redundant.
package wal

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Op identifies the kind of mutation a Record describes.
type Op uint8

const (
	OpSet Op = iota + 1
	OpSetEx
	OpDel
	OpExpire
)

// Record is a self-delimiting encoding of one shard mutation. TTL records
// carry the requested duration rather than an absolute expiry, so replay
// re-anchors expiries to the recovery-time clock (see Replay and its
// caller in package shard) — this loses up to one TTL's worth of precision across a
// restart, a tradeoff documented rather than hidden.
type Record struct {
	Op         Op
	Key        []byte
	Value      []byte
	TTLSeconds int64
}

// NewSet, NewSetEx, NewDel, and NewExpire build records for the four
// mutations that must be durable. Ping, Get, Exists, and Ttl never
// produce a record.
func NewSet(key, value []byte) Record { return Record{Op: OpSet, Key: key, Value: value} }

func NewSetEx(key, value []byte, ttlSeconds int64) Record {
	return Record{Op: OpSetEx, Key: key, Value: value, TTLSeconds: ttlSeconds}
}

func NewDel(key []byte) Record { return Record{Op: OpDel, Key: key} }

func NewExpire(key []byte, ttlSeconds int64) Record {
	return Record{Op: OpExpire, Key: key, TTLSeconds: ttlSeconds}
}

var (
	// ErrTornRecord means the frame's declared length runs past the end
	// of the available bytes — the tail of a WAL written by a process
	// that crashed mid-append. Replay stops silently, not an error.
	ErrTornRecord = errors.New("wal: torn record")
	// ErrChecksumMismatch means the frame decoded fully but its CRC32
	// does not match — corruption, also treated as a torn tail.
	ErrChecksumMismatch = errors.New("wal: checksum mismatch")
	// ErrUnknownOp means the type byte isn't one of the four known ops.
	ErrUnknownOp = errors.New("wal: unknown op")
)

// frame layout: [length:4][crc32:4][op:1][keyLen:2][key][valueLen:4][value][ttlSeconds:8]
// length counts everything after the length field itself.
// valueLen/value are present only for OpSet and OpSetEx.
// ttlSeconds is present only for OpSetEx and OpExpire.

// Encode renders a Record to its on-disk frame, including the leading
// length prefix, ready to be appended verbatim to the log file.
func Encode(r Record) []byte {
	hasValue := r.Op == OpSet || r.Op == OpSetEx
	hasTTL := r.Op == OpSetEx || r.Op == OpExpire

	body := make([]byte, 0, 1+2+len(r.Key)+4+len(r.Value)+8)
	body = append(body, byte(r.Op))

	var keyLen [2]byte
	binary.BigEndian.PutUint16(keyLen[:], uint16(len(r.Key)))
	body = append(body, keyLen[:]...)
	body = append(body, r.Key...)

	if hasValue {
		var valLen [4]byte
		binary.BigEndian.PutUint32(valLen[:], uint32(len(r.Value)))
		body = append(body, valLen[:]...)
		body = append(body, r.Value...)
	}

	if hasTTL {
		var ttl [8]byte
		binary.BigEndian.PutUint64(ttl[:], uint64(r.TTLSeconds))
		body = append(body, ttl[:]...)
	}

	crc := crc32.ChecksumIEEE(body)
	frame := make([]byte, 4, 4+4+len(body))
	binary.BigEndian.PutUint32(frame[0:4], uint32(4+len(body)))
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	frame = append(frame, crcBuf[:]...)
	frame = append(frame, body...)
	return frame
}

// decodeFrame parses the body that follows the length prefix (the CRC32
// plus the record itself) and returns the decoded Record. buf must be
// exactly the declared length, since the CRC32 covers all of it.
func decodeFrame(buf []byte) (Record, error) {
	if len(buf) < 4+1+2 {
		return Record{}, ErrTornRecord
	}
	wantCRC := binary.BigEndian.Uint32(buf[0:4])
	body := buf[4:]

	gotCRC := crc32.ChecksumIEEE(body)
	if gotCRC != wantCRC {
		return Record{}, ErrChecksumMismatch
	}

	op := Op(body[0])
	switch op {
	case OpSet, OpSetEx, OpDel, OpExpire:
	default:
		return Record{}, ErrUnknownOp
	}

	pos := 1
	if pos+2 > len(body) {
		return Record{}, ErrTornRecord
	}
	keyLen := int(binary.BigEndian.Uint16(body[pos : pos+2]))
	pos += 2
	if pos+keyLen > len(body) {
		return Record{}, ErrTornRecord
	}
	key := append([]byte(nil), body[pos:pos+keyLen]...)
	pos += keyLen

	r := Record{Op: op, Key: key}

	if op == OpSet || op == OpSetEx {
		if pos+4 > len(body) {
			return Record{}, ErrTornRecord
		}
		valLen := int(binary.BigEndian.Uint32(body[pos : pos+4]))
		pos += 4
		if pos+valLen > len(body) {
			return Record{}, ErrTornRecord
		}
		r.Value = append([]byte(nil), body[pos:pos+valLen]...)
		pos += valLen
	}

	if op == OpSetEx || op == OpExpire {
		if pos+8 > len(body) {
			return Record{}, ErrTornRecord
		}
		r.TTLSeconds = int64(binary.BigEndian.Uint64(body[pos : pos+8]))
		pos += 8
	}

	return r, nil
}

// Package wal implements per-shard write-ahead logging: a small binary
// framing format (length + CRC32 + typed body) written by a dedicated
// actor that batches appends and truncates the file in place once a
// snapshot has made its contents redundant.
package wal

package config

import (
	"os"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Shard.Count != DefaultShardCount {
		t.Errorf("Shard.Count = %d, want %d", cfg.Shard.Count, DefaultShardCount)
	}
	if cfg.Protocol.ListenAddress != DefaultListenAddress {
		t.Errorf("Protocol.ListenAddress = %q, want %q", cfg.Protocol.ListenAddress, DefaultListenAddress)
	}
	if cfg.Storage.DataDir != DefaultDataDir {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, DefaultDataDir)
	}
	if cfg.Storage.RequestChannelCapacity != DefaultRequestChannelCapacity {
		t.Errorf("RequestChannelCapacity = %d, want %d", cfg.Storage.RequestChannelCapacity, DefaultRequestChannelCapacity)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
}

func TestVerifyValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DataDir = dir

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestVerifyCreatesDataDir(t *testing.T) {
	dir := t.TempDir()
	newDir := dir + "/subdir/data"
	cfg := Default()
	cfg.Storage.DataDir = newDir

	if err := Verify(cfg); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if _, err := os.Stat(newDir); os.IsNotExist(err) {
		t.Error("data directory should have been created")
	}
}

func TestVerifyRejectsZeroShardCount(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Shard.Count = 0

	if err := Verify(cfg); err == nil {
		t.Error("expected error for shard.count = 0")
	}
}

func TestVerifyRejectsEmptyDataDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = ""

	if err := Verify(cfg); err == nil {
		t.Error("expected error for empty data_dir")
	}
}

func TestVerifyRejectsBadEncryptionKeyLength(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Storage.EncryptionKey = "too-short"

	if err := Verify(cfg); err == nil {
		t.Error("expected error for malformed encryption key length")
	}
}

func TestSanitizeMasksEncryptionKey(t *testing.T) {
	cfg := Default()
	cfg.Storage.EncryptionKey = "super-secret-key-1234567890"

	sanitized := Sanitize(cfg)

	if cfg.Storage.EncryptionKey != "super-secret-key-1234567890" {
		t.Error("Sanitize should not mutate the original config")
	}
	if sanitized.Storage.EncryptionKey == cfg.Storage.EncryptionKey {
		t.Error("Sanitize should mask the encryption key")
	}
	if len(sanitized.Storage.EncryptionKey) != len(cfg.Storage.EncryptionKey) {
		t.Errorf("masked key length = %d, want %d", len(sanitized.Storage.EncryptionKey), len(cfg.Storage.EncryptionKey))
	}
}

func TestSanitizeEmptyKey(t *testing.T) {
	cfg := Default()
	if got := Sanitize(cfg).Storage.EncryptionKey; got != "" {
		t.Errorf("Sanitize of empty key = %q, want empty", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct{ input, want string }{
		{"a", "****"},
		{"abcd", "****"},
		{"abcde", "ab*de"},
		{"1234567890", "12******90"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.input); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

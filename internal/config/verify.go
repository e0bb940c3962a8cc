package config

import (
	"errors"
	"fmt"
	"os"
)

// Verify validates cfg, creating the data directory if it doesn't yet exist.
func Verify(cfg *Config) error {
	if err := verifyShard(&cfg.Shard); err != nil {
		return err
	}
	if err := verifyProtocol(&cfg.Protocol); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return nil
}

func verifyShard(cfg *ShardSection) error {
	if cfg.Count < 1 {
		return errors.New("shard.count must be at least 1")
	}
	return nil
}

func verifyProtocol(cfg *ProtocolSection) error {
	if cfg.ListenAddress == "" {
		return errors.New("protocol.listen_address is required")
	}
	if cfg.RateLimit < 0 {
		return errors.New("protocol.rate_limit must not be negative")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}
	if cfg.RequestChannelCapacity < 1 {
		return errors.New("storage.request_channel_capacity must be at least 1")
	}
	if cfg.WALChannelCapacity < 1 {
		return errors.New("storage.wal_channel_capacity must be at least 1")
	}
	if cfg.WALFlushInterval <= 0 {
		return errors.New("storage.wal_flush_interval must be positive")
	}
	if cfg.WALMaxBatchBytes < 1 {
		return errors.New("storage.wal_max_batch_bytes must be at least 1")
	}
	if cfg.ActiveExpiryInterval <= 0 {
		return errors.New("storage.active_expiry_interval must be positive")
	}
	if cfg.SnapshotInterval <= 0 {
		return errors.New("storage.snapshot_interval must be positive")
	}
	if cfg.EncryptionKey != "" {
		switch len(cfg.EncryptionKey) {
		case 16, 32:
		default:
			return errors.New("storage.encryption_key must be 16 or 32 bytes long")
		}
	}
	return nil
}

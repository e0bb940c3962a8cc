package config

import "time"

// Config is the root configuration for kvshardd.
type Config struct {
	Shard    ShardSection    `koanf:"shard"`
	Protocol ProtocolSection `koanf:"protocol"`
	Storage  StorageSection  `koanf:"storage"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      LogSection      `koanf:"log"`
}

// ShardSection configures shard partitioning. Count is fixed once the
// process starts — changing it requires a restart (spec §6).
type ShardSection struct {
	Count int `koanf:"count"`
}

// ProtocolSection configures the line-oriented TCP server.
type ProtocolSection struct {
	ListenAddress string        `koanf:"listen_address"`
	ReadTimeout   time.Duration `koanf:"read_timeout"`
	WriteTimeout  time.Duration `koanf:"write_timeout"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	RateLimit     int           `koanf:"rate_limit"`
}

// StorageSection configures per-shard persistence. ActiveExpiryInterval
// is validated but not passed to the shard engines, whose active-expiry
// tick is fixed at 100ms.
type StorageSection struct {
	DataDir                string        `koanf:"data_dir"`
	RequestChannelCapacity int           `koanf:"request_channel_capacity"`
	WALChannelCapacity     int           `koanf:"wal_channel_capacity"`
	WALFlushInterval       time.Duration `koanf:"wal_flush_interval"`
	WALMaxBatchBytes       int           `koanf:"wal_max_batch_bytes"`
	ActiveExpiryInterval   time.Duration `koanf:"active_expiry_interval"`
	SnapshotInterval       time.Duration `koanf:"snapshot_interval"`
	// EncryptionKey, if set, enables at-rest encryption of snapshot files
	// (not the WAL — see SPEC_FULL's domain-stack rationale). Must be 16
	// or 32 bytes long; its bytes are used as the key without decoding.
	EncryptionKey string `koanf:"encryption_key"`
}

// MetricsSection configures the /metrics and /healthz HTTP endpoints.
type MetricsSection struct {
	Address string `koanf:"address"`
}

// LogSection configures logging. Level is safe to hot-reload; Format is not.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

package config

import "time"

// Default configuration values, per spec §6's reference values.
const (
	DefaultShardCount = 16

	DefaultListenAddress = "0.0.0.0:3000"
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultIdleTimeout   = 5 * time.Minute
	DefaultRateLimit     = 0 // disabled

	DefaultDataDir                = "./data"
	DefaultRequestChannelCapacity = 100_000
	DefaultWALChannelCapacity     = 1024
	DefaultWALFlushInterval       = 5 * time.Millisecond
	DefaultWALMaxBatchBytes       = 128 * 1024
	DefaultActiveExpiryInterval   = 100 * time.Millisecond
	DefaultSnapshotInterval       = 10 * time.Second

	DefaultMetricsAddress = "127.0.0.1:9090"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the reference kvshardd configuration.
func Default() *Config {
	return &Config{
		Shard: ShardSection{
			Count: DefaultShardCount,
		},
		Protocol: ProtocolSection{
			ListenAddress: DefaultListenAddress,
			ReadTimeout:   DefaultReadTimeout,
			WriteTimeout:  DefaultWriteTimeout,
			IdleTimeout:   DefaultIdleTimeout,
			RateLimit:     DefaultRateLimit,
		},
		Storage: StorageSection{
			DataDir:                DefaultDataDir,
			RequestChannelCapacity: DefaultRequestChannelCapacity,
			WALChannelCapacity:     DefaultWALChannelCapacity,
			WALFlushInterval:       DefaultWALFlushInterval,
			WALMaxBatchBytes:       DefaultWALMaxBatchBytes,
			ActiveExpiryInterval:   DefaultActiveExpiryInterval,
			SnapshotInterval:       DefaultSnapshotInterval,
		},
		Metrics: MetricsSection{
			Address: DefaultMetricsAddress,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

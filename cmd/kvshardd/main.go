// Package main provides the entry point for kvshardd.
//
// kvshardd is a sharded, in-memory key-value store with write-ahead-log
// durability, TTL expiry, and periodic snapshots, served over a
// line-oriented TCP protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kvshard/kvshard/internal/buildinfo"
	"github.com/kvshard/kvshard/internal/config"
	"github.com/kvshard/kvshard/internal/confloader"
	"github.com/kvshard/kvshard/internal/httpapi"
	"github.com/kvshard/kvshard/internal/logger"
	"github.com/kvshard/kvshard/internal/metric"
	"github.com/kvshard/kvshard/internal/protocol"
	"github.com/kvshard/kvshard/internal/router"
	"github.com/kvshard/kvshard/internal/shard"
	"github.com/kvshard/kvshard/internal/shutdown"
	"github.com/kvshard/kvshard/internal/snapshot"
	"github.com/kvshard/kvshard/internal/wal"
	"github.com/kvshard/kvshard/pkg/crypto/adaptive"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting kvshardd",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"shards", cfg.Shard.Count,
		"config", *configFile)

	var cfgWatcher *confloader.Watcher
	if *configFile != "" {
		cfgWatcher, err = confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("init config watcher: %w", err)
		}
		cfgWatcher.OnChange(func(path string) {
			reloaded, err := loadConfig(*configFile)
			if err != nil {
				log.Error("config reload failed, keeping previous settings", "path", path, "error", err)
				return
			}
			logger.SetLevel(reloaded.Log.Level)
			log.Info("config reloaded", "path", path, "log_level", reloaded.Log.Level)
		})
		if err := cfgWatcher.Watch(*configFile); err != nil {
			return fmt.Errorf("watch config file: %w", err)
		}
		cfgWatcher.StartAsync()
	}

	cipher, err := initCipher(cfg)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	metrics := metric.NewRegistry()

	shardHandle, err := startShards(cfg, log, cipher, metrics)
	if err != nil {
		return fmt.Errorf("start shards: %w", err)
	}

	metrics.RegisterCollector(metric.NewCollector(shardHandle.walPaths))

	rtr := router.New(shardHandle.sinks, log)

	protoServer := protocol.New(protocol.Config{
		ListenAddress: cfg.Protocol.ListenAddress,
		ReadTimeout:   cfg.Protocol.ReadTimeout,
		WriteTimeout:  cfg.Protocol.WriteTimeout,
		IdleTimeout:   cfg.Protocol.IdleTimeout,
		RateLimit:     cfg.Protocol.RateLimit,
	}, rtr, log, metrics)

	httpServer := httpapi.New(cfg.Metrics.Address, metrics)

	ctx := context.Background()
	if err := protoServer.Start(ctx); err != nil {
		return fmt.Errorf("start protocol server: %w", err)
	}

	go func() {
		log.Info("http api listening", "addr", cfg.Metrics.Address)
		if err := httpServer.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http api server error", "error", err)
		}
	}()

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	if cfgWatcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("stopping config watcher")
			return cfgWatcher.Stop()
		})
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down http api")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down protocol server")
		return protoServer.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down shards")
		shardHandle.stop()
		return nil
	})

	log.Info("kvshardd started", "listen_address", cfg.Protocol.ListenAddress)
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("kvshardd stopped gracefully")
	return nil
}

func loadConfig(configFile string) (*config.Config, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func initCipher(cfg *config.Config) (adaptive.Cipher, error) {
	if cfg.Storage.EncryptionKey == "" {
		return nil, nil
	}
	return adaptive.New([]byte(cfg.Storage.EncryptionKey))
}

// shardSet holds the per-shard actor handles needed to drive the rest of
// the process.
type shardSet struct {
	sinks      []chan *shard.Request
	walPaths   map[int]string
	engines    []*shard.Engine
	walWriters []*wal.Writer
}

// stop closes every shard's request sink, which ends its engine
// goroutine, then waits for each engine to drain before closing its WAL
// writer. Closing a writer while its engine might still call
// Append/Truncate on it would race the writer's own channel-close
// handling, so the wait is load-bearing, not defensive.
func (s *shardSet) stop() {
	for _, sink := range s.sinks {
		close(sink)
	}
	for _, engine := range s.engines {
		<-engine.Done()
	}
	for _, w := range s.walWriters {
		if err := w.Close(); err != nil {
			logger.Default().Error("wal writer close failed", "error", err)
		}
	}
}

func startShards(cfg *config.Config, log logger.Logger, cipher adaptive.Cipher, metrics *metric.Registry) (*shardSet, error) {
	set := &shardSet{
		walPaths: make(map[int]string, cfg.Shard.Count),
	}

	for id := 0; id < cfg.Shard.Count; id++ {
		walPath := filepath.Join(cfg.Storage.DataDir, fmt.Sprintf("wal_%d.log", id))
		set.walPaths[id] = walPath

		data, ttl, expiry, err := shard.Recover(cfg.Storage.DataDir, id, walPath, cipher)
		if err != nil {
			return nil, fmt.Errorf("recover shard %d: %w", id, err)
		}

		walWriter, err := wal.NewWriter(wal.Options{
			Path:          walPath,
			ChannelCap:    cfg.Storage.WALChannelCapacity,
			FlushInterval: cfg.Storage.WALFlushInterval,
			MaxBatchBytes: cfg.Storage.WALMaxBatchBytes,
			Logger:        log.With("shard", id),
			ShardID:       id,
			Metrics:       metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("open wal for shard %d: %w", id, err)
		}

		requests := make(chan *shard.Request, cfg.Storage.RequestChannelCapacity)
		engine := shard.NewEngine(shard.Options{
			ID:               id,
			Requests:         requests,
			WAL:              walWriter,
			SnapshotWriter:   snapshot.NewWriter(cfg.Storage.DataDir, cipher),
			SnapshotInterval: cfg.Storage.SnapshotInterval,
			Logger:           log.With("shard", id),
			Metrics:          metrics,
			Data:             data,
			TTL:              ttl,
			Expiry:           expiry,
		})

		go engine.Run()

		set.sinks = append(set.sinks, requests)
		set.engines = append(set.engines, engine)
		set.walWriters = append(set.walWriters, walWriter)
	}

	return set, nil
}

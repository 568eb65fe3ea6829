package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tgcanon/internal/batch"
	"tgcanon/internal/normalize"
	"tgcanon/internal/prefetch"
	"tgcanon/internal/store"
	"tgcanon/pkg/canon"

	"github.com/gotd/td/tg"
)

const (
	envConfigFile         = "TGCANON_CONFIG_FILE"
	defaultConfigFilePath = "config/canond.json"
	defaultDBPath         = "canon.db"
	defaultWorkers        = 4
	defaultBatchSize      = 128
	defaultPeerCacheSize  = 1024
	defaultRedisTTL       = 10 * time.Minute
	defaultRedisKeyPrefix = "tgcanon:peer:"
)

type appConfig struct {
	logLevel slog.Level

	input         string
	dbPath        string
	workers       int
	batchSize     int
	scheduled     bool
	peerCacheSize int
	forumPeers    map[int64]struct{}
	redis         *redisSettings
}

type redisSettings struct {
	addr      string
	password  string
	db        int
	ttl       time.Duration
	keyPrefix string
}

type fileConfig struct {
	LogLevel      string           `json:"log_level"`
	Input         string           `json:"input"`
	DBPath        string           `json:"db_path"`
	Workers       *int             `json:"workers"`
	BatchSize     *int             `json:"batch_size"`
	Scheduled     *bool            `json:"scheduled"`
	PeerCacheSize *int             `json:"peer_cache_size"`
	ForumPeers    []int64          `json:"forum_peers"`
	Redis         *fileRedisConfig `json:"redis"`
}

type fileRedisConfig struct {
	Addr      string `json:"addr"`
	Password  string `json:"password"`
	DB        *int   `json:"db"`
	TTL       string `json:"ttl"`
	KeyPrefix string `json:"key_prefix"`
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageStore, err := store.Open(cfg.dbPath, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = messageStore.Close() }()

	processor, err := batch.NewProcessor(cfg.workers, logger)
	if err != nil {
		return fmt.Errorf("build processor: %w", err)
	}

	warmer, closeCache, err := buildWarmer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build prefetch: %w", err)
	}
	defer closeCache()

	input, closeInput, err := openInput(cfg.input)
	if err != nil {
		return err
	}
	defer closeInput()

	err = ingest(ctx, logger, cfg, newFrameReader(input), processor, messageStore, warmer)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ingest: %w", err)
	}

	return nil
}

func loadConfig() (appConfig, error) {
	cfg := defaultAppConfig()

	configFile := strings.TrimSpace(os.Getenv(envConfigFile))
	if configFile == "" {
		// The default config file is optional; defaults carry the binary
		// for stdin-to-local-db runs.
		if _, err := os.Stat(defaultConfigFilePath); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		} else if err != nil {
			return appConfig{}, fmt.Errorf("stat config file %s: %w", defaultConfigFilePath, err)
		}
		configFile = defaultConfigFilePath
	}

	if err := applyConfigFile(&cfg, configFile); err != nil {
		return appConfig{}, err
	}

	return cfg, nil
}

func defaultAppConfig() appConfig {
	return appConfig{
		logLevel:      slog.LevelInfo,
		input:         "-",
		dbPath:        defaultDBPath,
		workers:       defaultWorkers,
		batchSize:     defaultBatchSize,
		peerCacheSize: defaultPeerCacheSize,
		forumPeers:    make(map[int64]struct{}),
	}
}

func applyConfigFile(cfg *appConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var parsed fileConfig
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if rawLevel := strings.TrimSpace(parsed.LogLevel); rawLevel != "" {
		level, err := parseLogLevel(rawLevel)
		if err != nil {
			return fmt.Errorf("parse log_level: %w", err)
		}
		cfg.logLevel = level
	}
	if input := strings.TrimSpace(parsed.Input); input != "" {
		cfg.input = input
	}
	if dbPath := strings.TrimSpace(parsed.DBPath); dbPath != "" {
		cfg.dbPath = dbPath
	}
	if parsed.Workers != nil {
		if *parsed.Workers <= 0 {
			return fmt.Errorf("workers must be positive, got %d", *parsed.Workers)
		}
		cfg.workers = *parsed.Workers
	}
	if parsed.BatchSize != nil {
		if *parsed.BatchSize <= 0 {
			return fmt.Errorf("batch_size must be positive, got %d", *parsed.BatchSize)
		}
		cfg.batchSize = *parsed.BatchSize
	}
	if parsed.Scheduled != nil {
		cfg.scheduled = *parsed.Scheduled
	}
	if parsed.PeerCacheSize != nil {
		if *parsed.PeerCacheSize <= 0 {
			return fmt.Errorf("peer_cache_size must be positive, got %d", *parsed.PeerCacheSize)
		}
		cfg.peerCacheSize = *parsed.PeerCacheSize
	}
	for _, id := range parsed.ForumPeers {
		cfg.forumPeers[id] = struct{}{}
	}
	if parsed.Redis != nil {
		settings := &redisSettings{
			addr:      strings.TrimSpace(parsed.Redis.Addr),
			password:  parsed.Redis.Password,
			ttl:       defaultRedisTTL,
			keyPrefix: defaultRedisKeyPrefix,
		}
		if settings.addr == "" {
			return fmt.Errorf("redis.addr is required when redis is configured")
		}
		if parsed.Redis.DB != nil {
			settings.db = *parsed.Redis.DB
		}
		if rawTTL := strings.TrimSpace(parsed.Redis.TTL); rawTTL != "" {
			ttl, err := time.ParseDuration(rawTTL)
			if err != nil {
				return fmt.Errorf("parse redis.ttl: %w", err)
			}
			settings.ttl = ttl
		}
		if prefix := strings.TrimSpace(parsed.Redis.KeyPrefix); prefix != "" {
			settings.keyPrefix = prefix
		}
		cfg.redis = settings
	}

	return nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported level %q", raw)
	}
}

// buildWarmer assembles the prefetch stack: an in-memory LRU in front of the
// optional Redis layer, bottoming out in the config-declared peer set.
func buildWarmer(ctx context.Context, cfg appConfig, logger *slog.Logger) (*prefetch.Warmer, func(), error) {
	base := prefetch.FetcherFunc[canon.PeerID, prefetch.PeerRecord](func(_ context.Context, peer canon.PeerID) (prefetch.PeerRecord, error) {
		if peer.Kind == canon.PeerChannel {
			if _, ok := cfg.forumPeers[peer.ID]; ok {
				return prefetch.PeerRecord{ID: peer, IsForum: true}, nil
			}
		}
		return prefetch.PeerRecord{}, fmt.Errorf("peer %s: %w", peer, canon.ErrPeerNotFound)
	})

	var fallback prefetch.Fetcher[canon.PeerID, prefetch.PeerRecord] = base
	closeCache := func() {}
	if cfg.redis != nil {
		redisCache, err := prefetch.NewRedisCache[canon.PeerID, prefetch.PeerRecord](ctx, prefetch.RedisConfig{
			Addr:      cfg.redis.addr,
			Password:  cfg.redis.password,
			DB:        cfg.redis.db,
			TTL:       cfg.redis.ttl,
			KeyPrefix: cfg.redis.keyPrefix,
		}, logger, canon.PeerID.String, base)
		if err != nil {
			return nil, nil, err
		}
		fallback = redisCache
		closeCache = func() { _ = redisCache.Close() }
	}

	lru, err := prefetch.NewLRU[canon.PeerID, prefetch.PeerRecord](cfg.peerCacheSize, fallback)
	if err != nil {
		closeCache()
		return nil, nil, err
	}

	return prefetch.NewWarmer(lru, logger), closeCache, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input %s: %w", path, err)
	}

	return file, func() { _ = file.Close() }, nil
}

func ingest(
	ctx context.Context,
	logger *slog.Logger,
	cfg appConfig,
	frames *frameReader,
	processor *batch.Processor,
	messageStore *store.Store,
	warmer *prefetch.Warmer,
) error {
	namespace := canon.NamespaceCloud
	if cfg.scheduled {
		namespace = canon.NamespaceScheduled
	}

	total := 0
	pending := make([]tg.MessageClass, 0, cfg.batchSize)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := processBatch(ctx, logger, cfg, namespace, pending, processor, messageStore, warmer); err != nil {
			return err
		}
		total += len(pending)
		pending = pending[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		message, err := frames.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		pending = append(pending, message)
		if len(pending) >= cfg.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	logger.Info("ingest complete", slog.Int("frames", total))

	return nil
}

// processBatch normalizes one read batch, persists the results and warms the
// peer cache with the collected references. Forum peers resolve threads
// differently, so their records run as a separate sub-batch.
func processBatch(
	ctx context.Context,
	logger *slog.Logger,
	cfg appConfig,
	namespace canon.Namespace,
	raws []tg.MessageClass,
	processor *batch.Processor,
	messageStore *store.Store,
	warmer *prefetch.Warmer,
) error {
	plain := make([]tg.MessageClass, 0, len(raws))
	var forum []tg.MessageClass
	for _, raw := range raws {
		if ownerIsForum(raw, cfg.forumPeers) {
			forum = append(forum, raw)
		} else {
			plain = append(plain, raw)
		}
	}

	var peers []canon.PeerID
	parts := []struct {
		raws []tg.MessageClass
		opts normalize.Options
	}{
		{plain, normalize.Options{Namespace: namespace}},
		{forum, normalize.Options{Namespace: namespace, PeerIsForum: true}},
	}
	for _, part := range parts {
		if len(part.raws) == 0 {
			continue
		}
		results, err := processor.Run(ctx, part.raws, part.opts)
		if err != nil {
			return fmt.Errorf("normalize batch: %w", err)
		}
		for _, result := range results {
			if err := messageStore.Put(ctx, result); err != nil {
				return err
			}
			peers = append(peers, result.PeerReferences...)
		}
	}

	report, err := warmer.Warm(ctx, peers)
	if err != nil {
		return err
	}
	if len(report.Misses) > 0 {
		logger.Debug("peer prefetch misses", slog.Int("count", len(report.Misses)))
	}

	return nil
}

func ownerIsForum(raw tg.MessageClass, forums map[int64]struct{}) bool {
	var peer tg.PeerClass
	switch typed := raw.(type) {
	case *tg.Message:
		peer = typed.PeerID
	case *tg.MessageService:
		peer = typed.PeerID
	default:
		return false
	}
	channel, ok := peer.(*tg.PeerChannel)
	if !ok {
		return false
	}
	_, ok = forums[channel.ChannelID]

	return ok
}

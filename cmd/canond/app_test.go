package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gotd/td/tg"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "mixed case with spaces", input: "  DeBuG ", want: slog.LevelDebug},
		{name: "unknown level", input: "trace", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseLogLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseLogLevel(%q) accepted an invalid level", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLogLevel(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "canond.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	return path
}

func TestApplyConfigFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr bool
		assert  func(t *testing.T, cfg appConfig)
	}{
		{
			name: "full config",
			content: `{
				"log_level": "debug",
				"input": "messages.bin",
				"db_path": "out.db",
				"workers": 2,
				"batch_size": 16,
				"scheduled": true,
				"peer_cache_size": 32,
				"forum_peers": [7001, 7002],
				"redis": {"addr": "localhost:6379", "db": 3, "ttl": "5m", "key_prefix": "test:"}
			}`,
			assert: func(t *testing.T, cfg appConfig) {
				if cfg.logLevel != slog.LevelDebug {
					t.Errorf("logLevel = %v, want debug", cfg.logLevel)
				}
				if cfg.input != "messages.bin" {
					t.Errorf("input = %q, want messages.bin", cfg.input)
				}
				if cfg.dbPath != "out.db" {
					t.Errorf("dbPath = %q, want out.db", cfg.dbPath)
				}
				if cfg.workers != 2 || cfg.batchSize != 16 || cfg.peerCacheSize != 32 {
					t.Errorf("sizes = (%d, %d, %d), want (2, 16, 32)", cfg.workers, cfg.batchSize, cfg.peerCacheSize)
				}
				if !cfg.scheduled {
					t.Error("scheduled flag not applied")
				}
				if _, ok := cfg.forumPeers[7001]; !ok {
					t.Error("forum peer 7001 not registered")
				}
				if _, ok := cfg.forumPeers[7002]; !ok {
					t.Error("forum peer 7002 not registered")
				}
				if cfg.redis == nil {
					t.Fatal("redis settings not applied")
				}
				if cfg.redis.addr != "localhost:6379" || cfg.redis.db != 3 {
					t.Errorf("redis = (%q, %d), want (localhost:6379, 3)", cfg.redis.addr, cfg.redis.db)
				}
				if cfg.redis.ttl != 5*time.Minute {
					t.Errorf("redis ttl = %v, want 5m", cfg.redis.ttl)
				}
				if cfg.redis.keyPrefix != "test:" {
					t.Errorf("redis key prefix = %q, want test:", cfg.redis.keyPrefix)
				}
			},
		},
		{
			name:    "empty object keeps defaults",
			content: `{}`,
			assert: func(t *testing.T, cfg appConfig) {
				defaults := defaultAppConfig()
				if cfg.logLevel != defaults.logLevel || cfg.input != defaults.input || cfg.dbPath != defaults.dbPath {
					t.Error("empty config changed defaults")
				}
				if cfg.workers != defaults.workers || cfg.batchSize != defaults.batchSize {
					t.Error("empty config changed default sizes")
				}
				if cfg.redis != nil {
					t.Error("empty config enabled redis")
				}
			},
		},
		{
			name:    "redis ttl defaults when omitted",
			content: `{"redis": {"addr": "localhost:6379"}}`,
			assert: func(t *testing.T, cfg appConfig) {
				if cfg.redis == nil {
					t.Fatal("redis settings not applied")
				}
				if cfg.redis.ttl != defaultRedisTTL {
					t.Errorf("redis ttl = %v, want default %v", cfg.redis.ttl, defaultRedisTTL)
				}
				if cfg.redis.keyPrefix != defaultRedisKeyPrefix {
					t.Errorf("redis key prefix = %q, want default", cfg.redis.keyPrefix)
				}
			},
		},
		{name: "malformed json", content: `{"workers": `, wantErr: true},
		{name: "invalid log level", content: `{"log_level": "verbose"}`, wantErr: true},
		{name: "zero workers", content: `{"workers": 0}`, wantErr: true},
		{name: "negative batch size", content: `{"batch_size": -1}`, wantErr: true},
		{name: "zero peer cache size", content: `{"peer_cache_size": 0}`, wantErr: true},
		{name: "redis without addr", content: `{"redis": {"db": 1}}`, wantErr: true},
		{name: "bad redis ttl", content: `{"redis": {"addr": "localhost:6379", "ttl": "soon"}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultAppConfig()
			err := applyConfigFile(&cfg, writeConfigFile(t, tt.content))
			if tt.wantErr {
				if err == nil {
					t.Error("applyConfigFile accepted an invalid config")
				}
				return
			}
			if err != nil {
				t.Fatalf("applyConfigFile returned error: %v", err)
			}
			tt.assert(t, cfg)
		})
	}
}

func TestApplyConfigFileMissing(t *testing.T) {
	t.Parallel()

	cfg := defaultAppConfig()
	if err := applyConfigFile(&cfg, filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("applyConfigFile accepted a missing file")
	}
}

func TestOwnerIsForum(t *testing.T) {
	t.Parallel()

	forums := map[int64]struct{}{9001: {}}

	tests := []struct {
		name string
		raw  tg.MessageClass
		want bool
	}{
		{
			name: "message in forum channel",
			raw:  &tg.Message{ID: 1, PeerID: &tg.PeerChannel{ChannelID: 9001}},
			want: true,
		},
		{
			name: "service message in forum channel",
			raw:  &tg.MessageService{ID: 2, PeerID: &tg.PeerChannel{ChannelID: 9001}},
			want: true,
		},
		{
			name: "message in plain channel",
			raw:  &tg.Message{ID: 3, PeerID: &tg.PeerChannel{ChannelID: 9002}},
			want: false,
		},
		{
			name: "message in basic group",
			raw:  &tg.Message{ID: 4, PeerID: &tg.PeerChat{ChatID: 9001}},
			want: false,
		},
		{
			name: "empty record",
			raw:  &tg.MessageEmpty{ID: 5},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ownerIsForum(tt.raw, forums); got != tt.want {
				t.Errorf("ownerIsForum = %v, want %v", got, tt.want)
			}
		})
	}
}

package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/corpus"
	"github.com/aretw0/corpus/internal/logging"
	"github.com/aretw0/corpus/pkg/adapters/diskv"
	"github.com/aretw0/corpus/pkg/adapters/file"
	"github.com/aretw0/corpus/pkg/adapters/memory"
	"github.com/aretw0/corpus/pkg/adapters/redis"
	"github.com/aretw0/corpus/pkg/persistence/middleware"
	"github.com/aretw0/corpus/pkg/ports"
)

// Artifact store backends selectable with --store.
const (
	StoreFile   = "file"
	StoreDiskv  = "diskv"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the global flags shared by every command.
type Config struct {
	Debug         bool
	LogFormat     string
	Store         string
	StoreDir      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// EncryptionKey is a hex encoded AES-256 key. When set, artifacts are
	// sealed before they reach the store.
	EncryptionKey string
	Stderr        io.Writer
}

// Logger configures the application logger.
// Without --debug only warnings and errors reach stderr.
func (c Config) Logger() *slog.Logger {
	level := slog.LevelWarn
	if c.Debug {
		level = slog.LevelDebug
	}
	w := c.Stderr
	if w == nil {
		w = os.Stderr
	}
	return logging.NewWithWriter(w, level, logging.Format(c.LogFormat))
}

// OpenStore builds the artifact store selected by the configuration.
// The returned close function releases backend connections.
func (c Config) OpenStore() (ports.ArtifactStore, func() error, error) {
	store, closeStore, err := c.openBackend()
	if err != nil || c.EncryptionKey == "" {
		return store, closeStore, err
	}

	key, err := hex.DecodeString(strings.TrimSpace(c.EncryptionKey))
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	return middleware.Chain(store, mw), closeStore, nil
}

func (c Config) openBackend() (ports.ArtifactStore, func() error, error) {
	noop := func() error { return nil }

	switch c.Store {
	case "", StoreFile:
		return file.New(c.StoreDir), noop, nil
	case StoreDiskv:
		dir := c.StoreDir
		if dir == "" {
			dir = ".corpus/diskv"
		}
		return diskv.New(dir), noop, nil
	case StoreRedis:
		addr := c.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		s := redis.New(addr, c.RedisPassword, c.RedisDB)
		return s, s.Close, nil
	case StoreMemory:
		return memory.NewStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (supported: file, diskv, redis, memory)", c.Store)
	}
}

// NewToolkit builds a Toolkit wired with the configured logger and store.
func (c Config) NewToolkit(extra ...corpus.Option) (*corpus.Toolkit, func() error, error) {
	store, closeStore, err := c.OpenStore()
	if err != nil {
		return nil, nil, err
	}

	opts := []corpus.Option{
		corpus.WithLogger(c.Logger()),
		corpus.WithStore(store),
	}
	opts = append(opts, extra...)

	kit, err := corpus.New(opts...)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return kit, closeStore, nil
}

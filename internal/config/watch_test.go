package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "world.yaml", "ticks: 1\n")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := NewWatcher(path, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 16)
	go w.Run(ctx, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("ticks: 1\ncolour: blue\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("ticks: 42\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Ticks == 42 {
				return
			}
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher("/does/not/exist/world.yaml", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "watch /does/not/exist/world.yaml")
}

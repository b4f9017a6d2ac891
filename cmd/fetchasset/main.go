package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/OCharnyshevich/wildwalk/internal/assets"
)

const duckURL = "https://threejs.org/examples/models/gltf/Duck/glTF-Binary/Duck.glb"

func main() {
	var (
		out     = flag.String("o", "./public/models/pikachu.glb", "output file path")
		src     = flag.String("src", duckURL, "comma-separated source URLs, tried in order")
		timeout = flag.Duration("timeout", assets.DefaultTimeout, "timeout per download attempt")
		check   = flag.Bool("check", false, "only check the existing file")
		warnMB  = flag.Int64("warn-mb", assets.DefaultWarnBytes>>20, "report files larger than this many MiB")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *out == "" {
		log.Error("output path required")
		os.Exit(2)
	}

	if *check {
		os.Exit(runCheck(log, *out, *warnMB<<20))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sources := strings.Split(*src, ",")
	start := time.Now()
	r, err := assets.Fetch(ctx, sources, *out, *timeout, log)
	if err != nil {
		log.Error("download failed", "error", err)
		var ferr *assets.FetchError
		if errors.As(err, &ferr) {
			fmt.Fprintln(os.Stderr, "Manual download steps:")
			for i, step := range ferr.ManualSteps() {
				fmt.Fprintf(os.Stderr, "%d. %s\n", i+1, step)
			}
		}
		os.Exit(1)
	}
	log.Info("done", "path", r.Path, "sizeMB", fmt.Sprintf("%.2f", r.SizeMB()), "took", time.Since(start))
}

func runCheck(log *slog.Logger, path string, warnBytes int64) int {
	r, err := assets.Check(path, warnBytes)
	if err != nil {
		log.Error("check failed", "error", err)
		return 1
	}
	if !r.Exists {
		log.Error("model not found", "path", path)
		return 1
	}
	if r.Large {
		log.Warn("model is large and may load slowly", "path", path, "sizeMB", fmt.Sprintf("%.2f", r.SizeMB()))
		return 0
	}
	log.Info("model found", "path", path, "sizeMB", fmt.Sprintf("%.2f", r.SizeMB()))
	return 0
}

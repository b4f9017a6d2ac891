// Package assets downloads and checks the model files the renderer loads.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	getter "github.com/hashicorp/go-getter"
)

const (
	// DefaultTimeout bounds one download attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultWarnBytes is the size above which a model is reported as large.
	DefaultWarnBytes = 20 << 20
)

// Report describes a file on disk.
type Report struct {
	Path   string
	Exists bool
	Size   int64
	Large  bool
}

// SizeMB returns the size in mebibytes.
func (r Report) SizeMB() float64 { return float64(r.Size) / (1 << 20) }

// Check reports whether path exists, its size, and whether it exceeds
// warnBytes. A missing file is not an error.
func Check(path string, warnBytes int64) (Report, error) {
	r := Report{Path: path}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return r, fmt.Errorf("%s is a directory", path)
	}
	r.Exists = true
	r.Size = info.Size()
	r.Large = warnBytes > 0 && r.Size > warnBytes
	return r, nil
}

// FetchError is returned when every source failed. It carries the steps a
// user can follow to place the file by hand.
type FetchError struct {
	Dst     string
	Sources []string
	Errs    []error
}

func (e *FetchError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("fetch %s: all %d sources failed: %s", e.Dst, len(e.Sources), strings.Join(msgs, "; "))
}

func (e *FetchError) Unwrap() []error { return e.Errs }

// ManualSteps lists instructions for placing the asset without this tool.
func (e *FetchError) ManualSteps() []string {
	steps := make([]string, 0, len(e.Sources)+2)
	for _, src := range e.Sources {
		steps = append(steps, "download "+src)
	}
	abs, err := filepath.Abs(e.Dst)
	if err != nil {
		abs = e.Dst
	}
	steps = append(steps, "save it as "+abs, "run the check again")
	return steps
}

// Fetch downloads the first source that succeeds into dst. Each attempt is
// bounded by timeout; a failed attempt leaves no partial file behind.
func Fetch(ctx context.Context, sources []string, dst string, timeout time.Duration, log *slog.Logger) (Report, error) {
	if len(sources) == 0 {
		return Report{}, errors.New("fetch: no sources")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ferr := &FetchError{Dst: dst, Sources: sources}
	for _, src := range sources {
		log.Info("downloading asset", "src", src, "dst", dst)
		if err := fetchOne(ctx, src, dst, timeout); err != nil {
			log.Warn("download failed", "src", src, "error", err)
			ferr.Errs = append(ferr.Errs, err)
			_ = os.Remove(dst)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		r, err := Check(dst, DefaultWarnBytes)
		if err != nil {
			return r, err
		}
		log.Info("asset saved", "path", dst, "sizeMB", fmt.Sprintf("%.2f", r.SizeMB()))
		return r, nil
	}
	return Report{Path: dst}, ferr
}

func fetchOne(ctx context.Context, src, dst string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("get %s: %w", src, err)
	}
	return nil
}

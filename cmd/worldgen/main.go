package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/wildwalk/internal/config"
	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/internal/transport/ws"
	"github.com/OCharnyshevich/wildwalk/internal/world"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "config file (.yaml, .toml or .json)")
	watch := flag.Bool("watch", false, "repopulate entities when the config file changes")
	flag.TextVar(&cfg.Elevation.Seed, "seed", cfg.Elevation.Seed, "terrain seed, an integer or any text")
	flag.Uint64Var(&cfg.Placement.Seed, "placement-seed", cfg.Placement.Seed, "placement seed (0 = random)")
	flag.StringVar(&cfg.Listen, "listen", cfg.Listen, "serve the renderer feed on this address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "ticks to simulate when not serving")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "ticks per second")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w := world.NewWorld(cfg.World(), log)
	log.Info("terrain ready", "tiles", w.PreGenerate(), "trees", w.Forest().Count())

	g, ctx := errgroup.WithContext(ctx)
	reloads := make(chan []placement.Constraint, 1)
	if *watch && *configPath == "" {
		log.Warn("-watch needs -config, ignoring")
		*watch = false
	}
	if *watch {
		watcher, err := config.NewWatcher(*configPath, log)
		if err != nil {
			log.Error("watch config", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return watcher.Run(ctx, func(c *config.Config) {
				select {
				case reloads <- c.Placement.Constraints:
				case <-ctx.Done():
				}
			})
		})
	}

	if cfg.Listen != "" {
		hub := ws.NewHub(w, cfg.TickRate, log)
		srv := ws.NewServer(hub, log)
		g.Go(func() error { return hub.Run(ctx) })
		g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Listen) })
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case c := <-reloads:
					hub.Do(func(w *world.World) { w.Reconfigure(c) })
				}
			}
		})
	} else {
		g.Go(func() error {
			walk(ctx, w, cfg, log)
			if !*watch {
				cancel()
				return nil
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case c := <-reloads:
					w.Reconfigure(c)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("worldgen error", "error", err)
		os.Exit(1)
	}
}

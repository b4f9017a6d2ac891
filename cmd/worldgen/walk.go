package main

import (
	"context"
	"log/slog"
	"math"

	"github.com/OCharnyshevich/wildwalk/internal/config"
	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/internal/world"
)

// walk drives the player forward for cfg.Ticks ticks while the camera
// slowly turns, then logs what the world streamed.
func walk(ctx context.Context, w *world.World, cfg *config.Config, log *slog.Logger) {
	dt := 1 / float64(cfg.TickRate)
	in := world.Input{Forward: true, Boost: true}

	for i := range cfg.Ticks {
		if ctx.Err() != nil {
			break
		}
		w.SetCameraTheta(math.Sin(float64(i)*dt*0.25) * math.Pi)
		w.Tick(dt, in)

		if cfg.TickRate > 0 && i%(cfg.TickRate*5) == 0 {
			pos := w.Player().Position
			log.Debug("walking", "tick", i, "x", pos.X(), "y", pos.Y(), "z", pos.Z())
		}
	}

	snap := w.Snapshot()
	args := []any{"ticks", snap.Tick, "tiles", snap.Tiles, "trees", snap.Trees}
	for _, k := range placement.Kinds {
		if n := len(snap.Entities[k.String()]); n > 0 {
			args = append(args, k.String(), n)
		}
	}
	log.Info("walk finished", args...)
}

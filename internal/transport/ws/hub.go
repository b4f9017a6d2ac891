package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/OCharnyshevich/wildwalk/internal/world"
)

type request struct {
	from *SafeWriter
	req  Request
}

// Hub owns a World and is the only goroutine that touches it. Connections
// talk to it through channels; it ticks the world at a fixed rate and
// broadcasts every tile that became ready.
type Hub struct {
	world    *world.World
	log      *slog.Logger
	interval time.Duration
	dt       float64

	register   chan *SafeWriter
	unregister chan *SafeWriter
	requests   chan request
	tasks      chan func(*world.World)
	done       chan struct{}

	clients map[*SafeWriter]struct{}
	ready   []*world.Tile
	input   world.Input
}

// NewHub wraps w. tickRate is in ticks per second.
func NewHub(w *world.World, tickRate int, log *slog.Logger) *Hub {
	if tickRate <= 0 {
		tickRate = 60
	}
	h := &Hub{
		world:      w,
		log:        log,
		interval:   time.Second / time.Duration(tickRate),
		dt:         1 / float64(tickRate),
		register:   make(chan *SafeWriter),
		unregister: make(chan *SafeWriter),
		requests:   make(chan request, 64),
		tasks:      make(chan func(*world.World)),
		done:       make(chan struct{}),
		clients:    make(map[*SafeWriter]struct{}),
	}
	w.Tiles().OnTileReady(func(t *world.Tile) {
		h.ready = append(h.ready, t)
	})
	return h
}

// Run drives the world until ctx is cancelled. Connected clients are closed
// on return.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.Close()
			}
			h.log.Info("feed stopped", "tick", h.world.Snapshot().Tick)
			return nil
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.replay(c)
		case c := <-h.unregister:
			delete(h.clients, c)
		case r := <-h.requests:
			h.handle(r)
		case fn := <-h.tasks:
			fn(h.world)
		case <-ticker.C:
			h.world.Tick(h.dt, h.input)
			h.broadcastReady()
		}
	}
}

// Do runs fn on the hub goroutine and waits for it. It returns false once
// the hub has stopped.
func (h *Hub) Do(fn func(*world.World)) bool {
	finished := make(chan struct{})
	task := func(w *world.World) {
		defer close(finished)
		fn(w)
	}
	select {
	case h.tasks <- task:
	case <-h.done:
		return false
	}
	<-finished
	return true
}

func (h *Hub) join(c *SafeWriter) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *SafeWriter) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) submit(c *SafeWriter, req Request) bool {
	select {
	case h.requests <- request{from: c, req: req}:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) handle(r request) {
	switch r.req.Type {
	case TypeCamera:
		h.world.SetCameraTheta(r.req.Theta)
	case TypeInput:
		h.input = r.req.Input
	case TypeElevation:
		height, ok := h.world.StandingHeight(r.req.X, r.req.Z)
		h.send(r.from, Elevation{
			Type:   TypeElevation,
			ID:     r.req.ID,
			X:      r.req.X,
			Z:      r.req.Z,
			Height: height,
			OK:     ok,
		})
	case TypeEntities:
		h.send(r.from, Entities{Type: TypeEntities, ID: r.req.ID, Snapshot: h.world.Snapshot()})
	}
}

// replay sends every ready tile to a client that just joined.
func (h *Hub) replay(c *SafeWriter) {
	tiles := h.world.Tiles()
	for _, id := range tiles.Relevant() {
		t, ok := tiles.Tile(id)
		if !ok || !t.Ready {
			continue
		}
		if !h.send(c, newTileReady(t, h.world.Forest().Trees(id))) {
			return
		}
	}
}

func (h *Hub) broadcastReady() {
	if len(h.ready) == 0 {
		return
	}
	for _, t := range h.ready {
		msg := newTileReady(t, h.world.Forest().Trees(t.ID))
		for c := range h.clients {
			h.send(c, msg)
		}
	}
	h.log.Debug("tiles broadcast", "count", len(h.ready), "clients", len(h.clients))
	h.ready = h.ready[:0]
}

// send writes v to c and drops the client on failure.
func (h *Hub) send(c *SafeWriter, v any) bool {
	if err := c.WriteJSON(v); err != nil {
		h.log.Debug("drop client", "error", err)
		delete(h.clients, c)
		c.Close()
		return false
	}
	return true
}

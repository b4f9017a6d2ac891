package ws

import (
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/wildwalk/internal/placement"
	"github.com/OCharnyshevich/wildwalk/internal/world"
)

// Message types exchanged with the renderer.
const (
	TypeCamera    = "camera"
	TypeInput     = "input"
	TypeElevation = "elevation"
	TypeEntities  = "entities"
	TypeTileReady = "tile_ready"
	TypeError     = "error"
)

// Request is a message sent by the renderer.
type Request struct {
	Type  string      `json:"type"`
	ID    int         `json:"id,omitempty"`
	X     float64     `json:"x,omitempty"`
	Z     float64     `json:"z,omitempty"`
	Theta float64     `json:"theta,omitempty"`
	Input world.Input `json:"input"`
}

// ParseRequest decodes and checks an incoming message.
func ParseRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("parse request: %w", err)
	}
	switch req.Type {
	case TypeCamera, TypeInput, TypeElevation, TypeEntities:
		return req, nil
	case "":
		return Request{}, fmt.Errorf("parse request: missing type")
	}
	return Request{}, fmt.Errorf("parse request: unknown type %q", req.Type)
}

// TileReady announces a tile whose heights are available.
type TileReady struct {
	Type       string             `json:"type"`
	Tile       string             `json:"tile"`
	X          int                `json:"x"`
	Z          int                `json:"z"`
	Bounds     placement.Bounds   `json:"bounds"`
	Final      bool               `json:"final"`
	Iterations int                `json:"iterations"`
	Trees      []placement.Entity `json:"trees"`
}

func newTileReady(t *world.Tile, trees []placement.Entity) TileReady {
	return TileReady{
		Type:       TypeTileReady,
		Tile:       t.ID.String(),
		X:          t.ID.X,
		Z:          t.ID.Z,
		Bounds:     t.Bounds,
		Final:      t.Final,
		Iterations: t.Iterations,
		Trees:      trees,
	}
}

// Elevation answers an elevation request. OK is false where no ready tile
// covers the point.
type Elevation struct {
	Type   string  `json:"type"`
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Height float64 `json:"height"`
	OK     bool    `json:"ok"`
}

// Entities carries a world snapshot.
type Entities struct {
	Type     string         `json:"type"`
	ID       int            `json:"id"`
	Snapshot world.Snapshot `json:"snapshot"`
}

// Error reports a rejected request.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

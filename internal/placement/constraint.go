package placement

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies a placeable entity type.
type Kind uint8

const (
	Tree Kind = iota
	Cow
	Wolf
	Stag
	Horse
	Bird
	Player
)

var kindNames = [...]string{
	Tree:   "tree",
	Cow:    "cow",
	Wolf:   "wolf",
	Stag:   "stag",
	Horse:  "horse",
	Bird:   "bird",
	Player: "player",
}

// Kinds lists every kind in declaration order.
var Kinds = []Kind{Tree, Cow, Wolf, Stag, Horse, Bird, Player}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a kind from its lowercase name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", name)
}

// MarshalText implements encoding.TextMarshaler so kinds read naturally in
// config files and websocket payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Constraint holds the placement rules for one entity kind. A non-positive
// MaxElevationDifference or MaxSlope disables that test.
type Constraint struct {
	Kind                   Kind    `json:"kind" yaml:"kind" toml:"kind"`
	FlatnessCheckDistance  float64 `json:"flatness_check_distance" yaml:"flatness_check_distance" toml:"flatness_check_distance"`
	MaxElevationDifference float64 `json:"max_elevation_difference" yaml:"max_elevation_difference" toml:"max_elevation_difference"`
	MaxSlope               float64 `json:"max_slope" yaml:"max_slope" toml:"max_slope"`
	MinSeparation          float64 `json:"min_separation" yaml:"min_separation" toml:"min_separation"`
	SpawnRange             float64 `json:"spawn_range" yaml:"spawn_range" toml:"spawn_range"`
	Count                  int     `json:"count" yaml:"count" toml:"count"`
	VerticalOffset         float64 `json:"vertical_offset" yaml:"vertical_offset" toml:"vertical_offset"`
}

// DefaultConstraints returns the stock rules for every kind.
func DefaultConstraints() []Constraint {
	return []Constraint{
		{Kind: Tree, FlatnessCheckDistance: 1, MaxElevationDifference: 1.5, MaxSlope: 0.5, MinSeparation: 4, SpawnRange: 0, Count: 0},
		{Kind: Cow, FlatnessCheckDistance: 2, MaxElevationDifference: 0.6, MinSeparation: 6, SpawnRange: 60, Count: 8},
		{Kind: Wolf, FlatnessCheckDistance: 1.5, MaxElevationDifference: 1, MinSeparation: 10, SpawnRange: 90, Count: 4},
		{Kind: Stag, FlatnessCheckDistance: 2, MaxElevationDifference: 0.8, MinSeparation: 12, SpawnRange: 80, Count: 3},
		{Kind: Horse, FlatnessCheckDistance: 2.5, MaxElevationDifference: 0.6, MinSeparation: 8, SpawnRange: 70, Count: 5},
		{Kind: Bird, FlatnessCheckDistance: 1, MaxElevationDifference: 3, MinSeparation: 15, SpawnRange: 100, Count: 6, VerticalOffset: 8},
		{Kind: Player, FlatnessCheckDistance: 1, MaxElevationDifference: 0.5, MinSeparation: 0, SpawnRange: 20, Count: 0},
	}
}

// Entity is a placed tree or animal. Its position never changes after spawn.
type Entity struct {
	Kind     Kind       `json:"kind"`
	Position mgl64.Vec3 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// Bounds is an axis-aligned rectangle on the XZ plane.
type Bounds struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	ZMin float64 `json:"z_min"`
	ZMax float64 `json:"z_max"`
}

// Square returns the bounds of a square centered at the origin.
func Square(halfExtent float64) Bounds {
	return Bounds{XMin: -halfExtent, XMax: halfExtent, ZMin: -halfExtent, ZMax: halfExtent}
}

// Contains reports whether (x, z) lies inside the bounds, edges included.
func (b Bounds) Contains(x, z float64) bool {
	return x >= b.XMin && x <= b.XMax && z >= b.ZMin && z <= b.ZMax
}

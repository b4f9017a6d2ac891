package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/wildwalk/pkg/terrain"
)

// Input is the movement intent for one tick.
type Input struct {
	Forward     bool `json:"forward"`
	Backward    bool `json:"backward"`
	StrafeLeft  bool `json:"strafe_left"`
	StrafeRight bool `json:"strafe_right"`
	Boost       bool `json:"boost"`
	Jump        bool `json:"jump"`
}

func (in Input) moving() bool {
	return in.Forward || in.Backward || in.StrafeLeft || in.StrafeRight
}

// Player walks over a height field. Its y follows the ground, plus a sine
// arc while jumping.
type Player struct {
	Position mgl64.Vec3
	Rotation float64
	Speed    float64

	WalkSpeed    float64
	BoostSpeed   float64
	JumpHeight   float64
	JumpDuration float64

	ground   terrain.HeightField
	previous mgl64.Vec3
	jumping  bool
	jumpTime float64
}

// NewPlayer places a player at (x, z) over ground.
func NewPlayer(ground terrain.HeightField, x, z float64) *Player {
	p := &Player{
		Position:     mgl64.Vec3{x, 0, z},
		WalkSpeed:    10,
		BoostSpeed:   30,
		JumpHeight:   5,
		JumpDuration: 0.6,
		ground:       ground,
	}
	p.Position[1] = p.groundAt(x, z)
	p.previous = p.Position
	return p
}

// Jumping reports whether a jump arc is in progress.
func (p *Player) Jumping() bool { return p.jumping }

// Update advances the player by dt seconds. theta is the camera yaw the
// movement keys are relative to.
func (p *Player) Update(dt float64, in Input, theta float64) {
	if in.Jump && !p.jumping {
		p.jumping = true
		p.jumpTime = 0
	}

	if in.moving() {
		p.Rotation = theta + headingOffset(in)
		speed := p.WalkSpeed
		if in.Boost {
			speed = p.BoostSpeed
		}
		p.Position[0] -= math.Sin(p.Rotation) * dt * speed
		p.Position[2] -= math.Cos(p.Rotation) * dt * speed
	}

	ground := p.groundAt(p.Position.X(), p.Position.Z())
	if p.jumping {
		p.jumpTime += dt
		if p.jumpTime < p.JumpDuration {
			progress := p.jumpTime / p.JumpDuration
			p.Position[1] = ground + math.Sin(progress*math.Pi)*p.JumpHeight
		} else {
			p.jumping = false
			p.Position[1] = ground
		}
	} else {
		p.Position[1] = ground
	}

	p.Speed = p.Position.Sub(p.previous).Len()
	p.previous = p.Position
}

// groundAt returns the terrain height, or 0 where no data exists yet.
func (p *Player) groundAt(x, z float64) float64 {
	if h, ok := p.ground.HeightAt(x, z); ok {
		return h
	}
	return 0
}

func headingOffset(in Input) float64 {
	switch {
	case in.Forward && in.StrafeLeft:
		return math.Pi * 0.25
	case in.Forward && in.StrafeRight:
		return -math.Pi * 0.25
	case in.Forward:
		return 0
	case in.Backward && in.StrafeLeft:
		return math.Pi * 0.75
	case in.Backward && in.StrafeRight:
		return -math.Pi * 0.75
	case in.Backward:
		return -math.Pi
	case in.StrafeLeft:
		return math.Pi * 0.5
	case in.StrafeRight:
		return -math.Pi * 0.5
	}
	return 0
}

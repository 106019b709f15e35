package systems

import (
	"math"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

// MovementResult is the outcome of a client-reported move.
type MovementResult struct {
	Pos       domain.Position
	RotationY float64
	HasMoved  bool
}

// CalculateMove validates a reported position. The client is trusted on
// coordinates (last write wins) but non-finite values are rejected.
// It does not mutate the participant.
func CalculateMove(p *domain.Participant, x, y, z, rotationY float64) MovementResult {
	for _, v := range []float64{x, y, z, rotationY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return MovementResult{Pos: p.Pos, RotationY: p.RotationY}
		}
	}
	return MovementResult{
		Pos:       domain.Position{X: x, Y: y, Z: z},
		RotationY: rotationY,
		HasMoved:  true,
	}
}

// Wander nudges every monster by uniform[-WanderStep, WanderStep] on both
// planar axes. Draw order is x then y, monster by monster in slice order.
// HP is untouched.
func Wander(src utils.Source, monsters []*domain.Monster) {
	for _, m := range monsters {
		dx := utils.Uniform(src, -domain.WanderStep, domain.WanderStep)
		dy := utils.Uniform(src, -domain.WanderStep, domain.WanderStep)
		m.Pos = m.Pos.Shift(dx, dy)
	}
}

package slam

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestRMHCConvergesTowardMinimum(t *testing.T) {
	target := Position{XMM: 105, YMM: 95, ThetaDeg: 3}
	cost := func(p Position) float64 {
		dx := p.XMM - target.XMM
		dy := p.YMM - target.YMM
		dt := p.ThetaDeg - target.ThetaDeg
		return dx*dx + dy*dy + dt*dt
	}

	start := Position{XMM: 100, YMM: 100, ThetaDeg: 0}
	rng := NewZiggurat(99)
	cfg := RMHCConfig{SigmaXYMM: 20, SigmaThetaDeg: 10, MaxIter: 1000}

	best := RMHC(start, cost, rng, cfg)

	test.That(t, cost(best), test.ShouldBeLessThan, cost(start))
	test.That(t, math.Abs(best.XMM-target.XMM), test.ShouldBeLessThan, 10)
	test.That(t, math.Abs(best.YMM-target.YMM), test.ShouldBeLessThan, 10)
}

func TestRMHCRejectsNegativeCostCandidates(t *testing.T) {
	// A cost function that always reports "no usable points" (-1) should
	// leave the search at its starting position.
	cost := func(Position) float64 { return -1 }
	start := Position{XMM: 1, YMM: 2, ThetaDeg: 3}
	rng := NewZiggurat(1)
	cfg := RMHCConfig{SigmaXYMM: 5, SigmaThetaDeg: 5, MaxIter: 50}

	best := RMHC(start, cost, rng, cfg)
	test.That(t, best, test.ShouldResemble, start)
}

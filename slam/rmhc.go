package slam

// RMHCConfig tunes the random-mutation hill-climbing search (spec §4.7).
type RMHCConfig struct {
	SigmaXYMM     float64
	SigmaThetaDeg float64
	MaxIter       int
}

// CostFunc scores a candidate pose against the current map; lower is
// better, and a negative result means "no usable scan points" (the
// candidate must be rejected regardless of its nominal score).
type CostFunc func(Position) float64

// RMHC searches for the pose near start that best explains the current
// scan against the map. Once more than a third of its iteration budget has
// gone to rejected candidates and a better pose has been found since the
// last adjustment, it recenters on that pose and halves its mutation radius
// (spec §4.7); without an improvement the radius never shrinks. rng supplies the mutation noise and must not be shared across
// concurrent callers.
func RMHC(start Position, cost CostFunc, rng *Ziggurat, cfg RMHCConfig) Position {
	best := start
	lastBest := start
	lowest := cost(start)
	lastLowest := lowest

	sigmaXY := cfg.SigmaXYMM
	sigmaTheta := cfg.SigmaThetaDeg

	counter := 0
	for counter < cfg.MaxIter {
		candidate := Position{
			XMM:      rng.NormalScaled(lastBest.XMM, sigmaXY),
			YMM:      rng.NormalScaled(lastBest.YMM, sigmaXY),
			ThetaDeg: rng.NormalScaled(lastBest.ThetaDeg, sigmaTheta),
		}

		c := cost(candidate)
		if c > -1 && c < lowest {
			lowest = c
			best = candidate
		} else {
			counter++
		}

		if counter > cfg.MaxIter/3 && lowest < lastLowest {
			lastBest = best
			lastLowest = lowest
			counter = 0
			sigmaXY *= 0.5
			sigmaTheta *= 0.5
		}
	}

	return best
}

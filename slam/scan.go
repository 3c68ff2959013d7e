package slam

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point values distinguish a ray that hit something from one that ran out
// to full range without a detection (spec §4.5).
const (
	ObstacleValue   uint16 = 0
	NoObstacleValue uint16 = 65500
)

// ScanPoint is one ray of a motion-compensated scan, in the robot's local
// frame at scan-start (mm, Y increasing downward to match the log-odds
// map's pixel convention). Pos is an r2.Point rather than two bare floats
// so the 2-D scan geometry shares its vector algebra with the rest of this
// module's geo/gonum-based types.
type ScanPoint struct {
	Pos        r2.Point
	Value      uint16
	DistanceMM float64
}

// ScanConfig parameterizes how raw range samples are expanded into
// ScanPoints.
type ScanConfig struct {
	// Span is the oversampling factor per range sample (spec's "second
	// scan" tunable — see the decision recorded in DESIGN.md). 1 means
	// one ScanPoint per range reading.
	Span                  int
	Size                  int
	RateHz                float64
	DetectionAngleDeg     float64
	DistanceNoDetectionMM float64
}

// Scan holds the most recently computed set of motion-compensated points
// for one sensor sweep. It is reused across updates to avoid reallocating
// its backing slice every cycle.
type Scan struct {
	cfg    ScanConfig
	points []ScanPoint
}

// NewScan constructs an empty Scan for cfg.
func NewScan(cfg ScanConfig) *Scan {
	return &Scan{cfg: cfg, points: make([]ScanPoint, 0, cfg.Size*max(1, cfg.Span))}
}

// Points returns the points computed by the most recent Update.
func (s *Scan) Points() []ScanPoint {
	return s.points
}

// Update recomputes the scan's points from a full sweep of range readings
// (mm, 0 meaning "no detection"), compensating for robot motion during the
// sweep per spec §4.5: holeWidthMM rejects too-close noise, vxyMMPerS and
// vThetaDegPerS are the odometry-implied linear and angular velocity over
// the sweep.
func (s *Scan) Update(distances []float64, holeWidthMM, vxyMMPerS, vThetaDegPerS float64) {
	degreesPerSecond := math.Floor(s.cfg.RateHz * 360)
	if degreesPerSecond == 0 {
		degreesPerSecond = 1
	}
	horzMM := vxyMMPerS / degreesPerSecond
	rotation := 1 + vThetaDegPerS/degreesPerSecond

	s.points = s.points[:0]

	size := s.cfg.Size
	span := max(1, s.cfg.Span)
	for i := 1; i < size-1; i++ {
		var r float64
		if i < len(distances) {
			r = distances[i]
		}

		switch {
		case r == 0:
			s.emit(i, span, size, rotation, horzMM, s.cfg.DistanceNoDetectionMM, NoObstacleValue)
		case r > holeWidthMM/2:
			s.emit(i, span, size, rotation, horzMM, r, ObstacleValue)
		default:
			// Too close to be trusted; drop the sample.
		}
	}
}

func (s *Scan) emit(i, span, size int, rotation, horzMM, r float64, value uint16) {
	denom := float64(size*span - 1)
	for j := 0; j < span; j++ {
		k := float64(i*span+j) * s.cfg.DetectionAngleDeg / denom
		angle := (-s.cfg.DetectionAngleDeg/2 + k*rotation) * math.Pi / 180
		x := r*math.Cos(angle) - k*horzMM
		y := -r * math.Sin(angle)
		s.points = append(s.points, ScanPoint{Pos: r2.Point{X: x, Y: y}, Value: value, DistanceMM: r})
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

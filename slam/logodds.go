package slam

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Log-odds update constants (spec §4.6). Wall protection suppresses free-
// space updates through a cell already confidently marked occupied, so a
// single bad ray can't erase a real wall.
const (
	logOddsFreeDelta   = -0.62
	logOddsOccDelta    = 0.85
	logOddsClamp       = 5.0
	wallProtectAbove   = 2.0
	logOddsMinWeight   = 0.05
	endZoneThicknessPx = 2
)

// LogOddsMap is the engine's internal occupancy representation: a dense
// matrix of log-odds values, one per pixel, backed by gonum/mat so the
// same gonum dependency used for quaternion conversion also carries the
// map storage.
type LogOddsMap struct {
	size        int
	pixelsPerMM float64
	data        *mat.Dense
}

// NewLogOddsMap allocates a size x size map at the given pixels-per-mm
// scale, all cells at zero log-odds (unknown).
func NewLogOddsMap(size int, pixelsPerMM float64) *LogOddsMap {
	return &LogOddsMap{
		size:        size,
		pixelsPerMM: pixelsPerMM,
		data:        mat.NewDense(size, size, nil),
	}
}

// Reset clears the map back to all-unknown.
func (m *LogOddsMap) Reset() {
	m.data = mat.NewDense(m.size, m.size, nil)
}

// InBounds reports whether (x, y) is a valid pixel coordinate.
func (m *LogOddsMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.size && y >= 0 && y < m.size
}

// At returns the log-odds value at pixel (x, y), or 0 if out of bounds.
func (m *LogOddsMap) At(x, y int) float64 {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.data.At(y, x)
}

func (m *LogOddsMap) add(x, y int, delta float64) {
	if !m.InBounds(x, y) {
		return
	}
	v := m.data.At(y, x) + delta
	if v > logOddsClamp {
		v = logOddsClamp
	} else if v < -logOddsClamp {
		v = -logOddsClamp
	}
	m.data.Set(y, x, v)
}

func (m *LogOddsMap) applyFree(x, y int, weight float64) {
	if m.At(x, y) > wallProtectAbove {
		return
	}
	m.add(x, y, logOddsFreeDelta*weight)
}

func (m *LogOddsMap) applyOccupied(x, y int, weight float64) {
	m.add(x, y, logOddsOccDelta*weight)
}

// Update integrates one motion-compensated scan into the map: every point
// is ray-cast from the robot's pixel position to the point's pixel
// position with Bresenham's line algorithm, applying a free-space update
// along the ray and an occupied- or free-space update (depending on
// whether the ray ended in a detection) across the last endZoneThicknessPx
// cells.
func (m *LogOddsMap) Update(pos Position, points []ScanPoint, distanceNoDetectionMM float64) {
	thetaRad := pos.ThetaDeg * math.Pi / 180
	cosT, sinT := math.Cos(thetaRad), math.Sin(thetaRad)

	rx := int(math.Round(pos.XMM * m.pixelsPerMM))
	ry := int(math.Round(pos.YMM * m.pixelsPerMM))

	for _, pt := range points {
		wx := cosT*pt.Pos.X - sinT*pt.Pos.Y
		wy := sinT*pt.Pos.X + cosT*pt.Pos.Y

		ex := int(math.Round((pos.XMM + wx) * m.pixelsPerMM))
		ey := int(math.Round((pos.YMM + wy) * m.pixelsPerMM))

		weight := 1 - (pt.DistanceMM/distanceNoDetectionMM)*(pt.DistanceMM/distanceNoDetectionMM)
		if weight < logOddsMinWeight {
			weight = logOddsMinWeight
		}

		isObstacle := pt.Value == ObstacleValue

		line := bresenhamLine(rx, ry, ex, ey)
		n := len(line)
		for idx, c := range line {
			inEndZone := idx >= n-endZoneThicknessPx
			if inEndZone && isObstacle {
				m.applyOccupied(c[0], c[1], weight)
			} else {
				m.applyFree(c[0], c[1], weight)
			}
		}
	}
}

// bresenhamLine returns every pixel on the line from (x0, y0) to (x1, y1)
// inclusive, in order from start to end.
func bresenhamLine(x0, y0, x1, y1 int) [][2]int {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var points [][2]int
	x, y := x0, y0
	for {
		points = append(points, [2]int{x, y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return points
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

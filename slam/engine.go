// Package slam implements the log-odds occupancy-grid SLAM engine: scan
// motion compensation, an RMHC scan matcher seeded by a Ziggurat Gaussian
// sampler, and Bresenham ray-casting map updates, all behind a single
// mutex-guarded Engine (spec §3, §5).
package slam

import (
	"fmt"
	"math"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"

	"github.com/roboticscore/slamcore/gridmap"
	"github.com/roboticscore/slamcore/logging"
)

// Position is the engine's 2D pose estimate: millimeters in the map
// frame, heading in degrees.
type Position struct {
	XMM, YMM, ThetaDeg float64
}

// OdomDelta is the motion reported by odometry since the last Update call:
// translation in mm and heading change in degrees, all in the map frame
// (Update adds them to the current pose componentwise).
type OdomDelta struct {
	DxMM, DyMM, DThetaDeg float64
}

// edgeMarginMM keeps the committed position away from the map border,
// matching the teacher's clamp-to-interior-bounds idiom for bounded grids.
const edgeMarginMM = 20.0

// Engine is the mutex-guarded SLAM core: every public method except
// UpdateCount (which reads an atomic counter) takes the engine-wide lock
// for its duration and releases it via defer, so a panic
// mid-update can't leave the engine permanently locked (spec §9's
// "scoped mutex" design note).
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	logger logging.Logger
	clock  clock.Clock

	matchScan *Scan
	mapScan   *Scan
	logOdds   *LogOddsMap
	rng       *Ziggurat

	position    Position
	updateCount atomic.Uint64
	pixelsPerMM float64
}

// NewEngine constructs an Engine from cfg, validating it first. logger may
// be nil, in which case a production logger named "slam" is used.
func NewEngine(cfg Config, logger logging.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewLogger("slam")
	}
	e := &Engine{cfg: cfg, logger: logger, clock: clock.New()}
	e.reset()
	return e, nil
}

// reset rebuilds every piece of mutable engine state. Callers must hold mu.
func (e *Engine) reset() {
	e.pixelsPerMM = float64(e.cfg.MapSizePixels) / (e.cfg.MapSizeMeters * 1000)
	e.logOdds = NewLogOddsMap(e.cfg.MapSizePixels, e.pixelsPerMM)

	// The map-center convention is part of the contract, not a bug: the
	// robot starts at (500*mapSizeMeters, 500*mapSizeMeters) mm regardless
	// of mapSizeMeters, and that offset is preserved as-is rather than
	// "fixed" to mapSizeMeters*1000/2.
	center := 500 * e.cfg.MapSizeMeters
	e.position = Position{XMM: center, YMM: center, ThetaDeg: 0}

	e.rng = NewZiggurat(uint32(e.clock.Now().UnixNano()))

	scanCfg := ScanConfig{
		Span:                  1,
		Size:                  e.cfg.ScanSize,
		RateHz:                e.cfg.ScanRateHz,
		DetectionAngleDeg:     e.cfg.DetectionAngleDeg,
		DistanceNoDetectionMM: e.cfg.DistanceNoDetectionMM,
	}
	e.matchScan = NewScan(scanCfg)
	e.mapScan = NewScan(scanCfg)
	e.updateCount.Store(0)
}

// Reset discards the map and returns the engine to its initial pose.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

// SetInitialHeading overrides the engine's starting heading before the
// first Update. Has no special effect once updates have begun; it simply
// sets the current pose's heading.
func (e *Engine) SetInitialHeading(thetaDeg float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position.ThetaDeg = thetaDeg
}

// GetPosition returns the engine's current pose estimate.
func (e *Engine) GetPosition() Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// UpdateCount returns how many successful Update calls the engine has
// processed since construction or the last Reset.
func (e *Engine) UpdateCount() uint64 {
	return e.updateCount.Load()
}

// Update integrates one LiDAR sweep (rangesMM, length must equal
// cfg.ScanSize, 0 meaning no detection) and the odometry delta since the
// previous call: it builds the motion-compensated scan, searches near the
// odometry-predicted pose with RMHC for the best match against the
// current map, commits whichever of the RMHC result or the raw odometry
// prediction scores better, and folds the scan into the map at the
// committed pose (spec §4.5-§4.7). odom may be nil, meaning no motion
// since the last update.
func (e *Engine) Update(rangesMM []float64, odom *OdomDelta) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(rangesMM) != e.cfg.ScanSize {
		return fmt.Errorf("%w: scan has %d ranges, engine configured for %d", ErrInvalidInput, len(rangesMM), e.cfg.ScanSize)
	}

	var delta OdomDelta
	if odom != nil {
		delta = *odom
	}
	vxy := math.Hypot(delta.DxMM, delta.DyMM) * e.cfg.ScanRateHz
	vTheta := delta.DThetaDeg * e.cfg.ScanRateHz

	e.matchScan.Update(rangesMM, e.cfg.HoleWidthMM, vxy, vTheta)
	e.mapScan.Update(rangesMM, e.cfg.HoleWidthMM, vxy, vTheta)

	odomPos := Position{
		XMM:      e.position.XMM + delta.DxMM,
		YMM:      e.position.YMM + delta.DyMM,
		ThetaDeg: e.position.ThetaDeg + delta.DThetaDeg,
	}

	cost := func(p Position) float64 {
		return e.distanceScanToMap(p)
	}

	rmhcPos := RMHC(odomPos, cost, e.rng, RMHCConfig{
		SigmaXYMM:     e.cfg.SigmaXYMM,
		SigmaThetaDeg: e.cfg.SigmaThetaDeg,
		MaxIter:       e.cfg.MaxSearchIter,
	})

	rmhcCost := cost(rmhcPos)
	odomCost := cost(odomPos)

	committed := odomPos
	if rmhcCost > -1 && (odomCost <= -1 || rmhcCost <= odomCost) {
		committed = rmhcPos
	}

	minXY := edgeMarginMM
	maxXY := e.cfg.MapSizeMeters*1000 - edgeMarginMM
	committed.XMM = clampF(committed.XMM, minXY, maxXY)
	committed.YMM = clampF(committed.YMM, minXY, maxXY)

	e.position = committed
	e.logOdds.Update(committed, e.mapScan.Points(), e.cfg.DistanceNoDetectionMM)
	e.updateCount.Inc()

	e.logger.Debugw("slam update committed", "x_mm", committed.XMM, "y_mm", committed.YMM, "theta_deg", committed.ThetaDeg)
	return nil
}

// distanceScanToMap scores pos by how well the obstacle points of the
// current match scan line up with already-occupied map cells: each
// obstacle point's log-odds value (remapped to a 0-65535 pixel-brightness
// scale) contributes to the average, and a lower average means a better
// match. Returns -1 if no obstacle point in the scan lands in bounds.
func (e *Engine) distanceScanToMap(pos Position) float64 {
	thetaRad := pos.ThetaDeg * math.Pi / 180
	cosT, sinT := math.Cos(thetaRad), math.Sin(thetaRad)

	var sum float64
	var n int
	for _, pt := range e.matchScan.Points() {
		if pt.Value != ObstacleValue {
			continue
		}
		wx := cosT*pt.Pos.X - sinT*pt.Pos.Y
		wy := sinT*pt.Pos.X + cosT*pt.Pos.Y
		px := int(math.Round((pos.XMM + wx) * e.pixelsPerMM))
		py := int(math.Round((pos.YMM + wy) * e.pixelsPerMM))
		if !e.logOdds.InBounds(px, py) {
			continue
		}
		l := e.logOdds.At(px, py)
		brightness := clampF(32768-l*6000, 0, 65535)
		sum += brightness
		n++
	}
	if n == 0 {
		return -1
	}
	return 1024 * sum / float64(n)
}

// GetMap renders the current log-odds map to an 8-bit grayscale byte
// buffer (row-major, size*size bytes), matching the byte-encoded map
// output spec §6 requires: 0 is confidently occupied, 255 confidently
// free, 128 unknown.
func (e *Engine) GetMap() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.cfg.MapSizePixels
	out := make([]byte, size*size)
	idx := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			l := e.logOdds.At(x, y)
			v := clampF(math.Round(((-l/logOddsClamp)+1)/2*255), 0, 255)
			out[idx] = byte(v)
			idx++
		}
	}
	return out
}

// BuildOccupancyGrid exports the current log-odds map as a discrete
// OccupancyGrid (spec §4.8), flipping the Y axis from the engine's
// image-style Y-down pixel convention to a Y-up world convention.
func (e *Engine) BuildOccupancyGrid() *gridmap.OccupancyGrid {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.cfg.MapSizePixels
	resolution := e.cfg.MapSizeMeters / float64(size)
	grid := gridmap.New(size, size, resolution, -e.cfg.MapSizeMeters/2, -e.cfg.MapSizeMeters/2, 0, "map")

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			l := e.logOdds.At(x, y)
			var v int8
			switch {
			case l > 0.5:
				v = gridmap.CellOccupied
			case l < -0.5:
				v = gridmap.CellFree
			default:
				v = gridmap.CellUnknown
			}
			grid.Set(x, size-1-y, v)
		}
	}
	return grid
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package gridmap holds the discrete occupancy-grid export type shared by
// the SLAM engine and anything downstream that consumes a built map
// (planners, visualizers) without needing the engine's internal log-odds
// representation.
package gridmap

// Cell values follow the common ROS-style convention: -1 unknown, 0 free,
// 100 occupied.
const (
	CellUnknown  int8 = -1
	CellFree     int8 = 0
	CellOccupied int8 = 100
)

// OccupancyGrid is a row-major discrete occupancy grid, exported from the
// SLAM engine's log-odds map at a point in time (spec §4.8).
type OccupancyGrid struct {
	Width, Height int
	Resolution    float64 // meters per cell
	OriginX       float64 // meters, grid cell (0,0)'s world X
	OriginY       float64
	OriginYaw     float64
	FrameID       string
	Data          []int8
}

// New allocates an OccupancyGrid of the given dimensions, all cells
// unknown.
func New(width, height int, resolution, originX, originY, originYaw float64, frameID string) *OccupancyGrid {
	data := make([]int8, width*height)
	for i := range data {
		data[i] = CellUnknown
	}
	return &OccupancyGrid{
		Width:      width,
		Height:     height,
		Resolution: resolution,
		OriginX:    originX,
		OriginY:    originY,
		OriginYaw:  originYaw,
		FrameID:    frameID,
		Data:       data,
	}
}

func (g *OccupancyGrid) index(x, y int) int {
	return y*g.Width + x
}

// InBounds reports whether (x, y) is a valid cell coordinate.
func (g *OccupancyGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell value at (x, y), or CellUnknown if out of bounds.
func (g *OccupancyGrid) At(x, y int) int8 {
	if !g.InBounds(x, y) {
		return CellUnknown
	}
	return g.Data[g.index(x, y)]
}

// Set writes the cell value at (x, y). Out-of-bounds writes are ignored.
func (g *OccupancyGrid) Set(x, y int, v int8) {
	if !g.InBounds(x, y) {
		return
	}
	g.Data[g.index(x, y)] = v
}

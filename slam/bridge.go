package slam

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/roboticscore/slamcore/spatialmath"
	"github.com/roboticscore/slamcore/transform"
)

// PositionAsTransform renders a SLAM pose as a StampedTransform from
// parent to child at time t, converting the engine's millimeter pose to
// meters so it composes cleanly with transforms ingested from the rest of
// a typical robot's transform tree.
func PositionAsTransform(parent, child string, pos Position, t float64) transform.StampedTransform {
	ov := spatialmath.NewYawOrientation(pos.ThetaDeg * math.Pi / 180)
	return transform.StampedTransform{
		Parent: parent,
		Child:  child,
		Time:   t,
		Translation: r3.Vector{
			X: pos.XMM / 1000,
			Y: pos.YMM / 1000,
			Z: 0,
		},
		Rotation: ov.Quaternion(),
	}
}

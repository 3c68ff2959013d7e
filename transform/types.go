// Package transform implements the time-buffered transform registry: a tree
// of per-frame-pair ordered transform buffers, interpolated lookup between
// any two known frames, and BFS chain composition across the frame graph.
package transform

import (
	"github.com/golang/geo/r3"

	"github.com/roboticscore/slamcore/spatialmath"
)

// StampedTransform is a rigid-body transform taking a point expressed in
// Child coordinates to its coordinates in Parent, valid at time Time
// (seconds). Rotation is expected unit-norm.
type StampedTransform struct {
	Parent      string
	Child       string
	Time        float64
	Translation r3.Vector
	Rotation    spatialmath.Quaternion
}

// IdentityAt returns the identity transform between a frame and itself at
// time t.
func IdentityAt(frame string, t float64) StampedTransform {
	return StampedTransform{
		Parent:      frame,
		Child:       frame,
		Time:        t,
		Translation: r3.Vector{},
		Rotation:    spatialmath.Identity,
	}
}

// Inverse swaps Parent and Child and inverts the rotation and translation:
// a transform that takes a Parent-frame point into Child coordinates.
func (tf StampedTransform) Inverse() StampedTransform {
	invRot := tf.Rotation.Inverse()
	invTrans := spatialmath.Rotate(invRot, tf.Translation.Mul(-1))
	return StampedTransform{
		Parent:      tf.Child,
		Child:       tf.Parent,
		Time:        tf.Time,
		Translation: invTrans,
		Rotation:    invRot,
	}
}

// ComposeOnto chains tf in front of an accumulated result (applied second,
// i.e. result is expressed one hop further from the anchor than tf): the
// accumulated rotation and translation are re-expressed in tf's parent
// frame, and the accumulated Parent becomes tf's Parent. The accumulated
// Child is left untouched — it names the anchor the whole chain is relative
// to and never changes as hops are folded in.
func ComposeOnto(tf, result StampedTransform) StampedTransform {
	return StampedTransform{
		Parent:      tf.Parent,
		Child:       result.Child,
		Time:        result.Time,
		Translation: spatialmath.Rotate(tf.Rotation, result.Translation).Add(tf.Translation),
		Rotation:    spatialmath.Multiply(tf.Rotation, result.Rotation),
	}
}

func lerp(a, b r3.Vector, alpha float64) r3.Vector {
	return r3.Vector{
		X: a.X + alpha*(b.X-a.X),
		Y: a.Y + alpha*(b.Y-a.Y),
		Z: a.Z + alpha*(b.Z-a.Z),
	}
}

package transform

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/roboticscore/slamcore/spatialmath"
)

func tfAt(tSec, x float64) StampedTransform {
	return StampedTransform{
		Parent:      "world",
		Child:       "robot",
		Time:        tSec,
		Translation: r3.Vector{X: x},
		Rotation:    spatialmath.Identity,
	}
}

func TestFrameBufferOrdersOutOfOrderInserts(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 0)
	b.Insert(tfAt(2, 2))
	b.Insert(tfAt(0, 0))
	b.Insert(tfAt(1, 1))

	test.That(t, b.Len(), test.ShouldEqual, 3)
	got, err := b.Lookup(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 1.0)
}

func TestFrameBufferInterpolates(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 0)
	b.Insert(tfAt(0, 0))
	b.Insert(tfAt(10, 10))

	got, err := b.Lookup(4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 4.0)
}

func TestFrameBufferExactMatchTolerance(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 0)
	b.Insert(tfAt(5, 5))

	got, err := b.Lookup(5 + 1e-7)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 5.0)
}

func TestFrameBufferJitterToleranceClampsToEdge(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 0)
	b.Insert(tfAt(10, 10))
	b.Insert(tfAt(20, 20))

	got, err := b.Lookup(10 - 0.04)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 10.0)

	got, err = b.Lookup(20 + 0.04)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 20.0)
}

func TestFrameBufferExtrapolationBeyondJitter(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 0)
	b.Insert(tfAt(10, 10))
	b.Insert(tfAt(20, 20))

	_, err := b.Lookup(10 - 1.0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrExtrapolation), test.ShouldBeTrue)
}

func TestFrameBufferEmptyIsNoData(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 0)
	_, err := b.Lookup(1)
	test.That(t, errors.Is(err, ErrNoTransformData), test.ShouldBeTrue)
}

func TestFrameBufferAgeEviction(t *testing.T) {
	b := NewFrameBuffer("world", "robot", 5)
	b.Insert(tfAt(0, 0))
	b.Insert(tfAt(3, 3))
	b.Insert(tfAt(10, 10))

	// Newest entry is t=10; cutoff is 10-5=5, so t=0 and t=3 should be
	// evicted.
	test.That(t, b.Len(), test.ShouldEqual, 1)
	got, err := b.Lookup(10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 10.0)
}

func TestFrameBufferStaticLookupAlwaysLatest(t *testing.T) {
	b := NewFrameBuffer("world", "marker", 0)
	b.Insert(tfAt(1, 1))
	b.Insert(tfAt(2, 2))

	got, err := b.Lookup(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Translation.X, test.ShouldAlmostEqual, 2.0)
}

package transform

import (
	"testing"

	"go.viam.com/test"

	"github.com/roboticscore/slamcore/logging"
)

func msg(parent, child string, sec float64, x float64) TransformMessage {
	return TransformMessage{
		Header:       Header{Stamp: Stamp{Sec: sec, Nanosec: 0.0}, FrameID: parent},
		ChildFrameID: child,
		Transform: TransformPayload{
			Translation: Vec3{X: x},
			Rotation:    RotationMessage{W: 1},
		},
	}
}

func TestRegistryIdentityLookup(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	r.IngestTransforms([]TransformMessage{msg("world", "robot", 1, 1)}, false)

	tf, ok := r.LookupTransform("world", "world", 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, tf.Translation.X, test.ShouldAlmostEqual, 0.0)
}

func TestRegistryDirectAndInverseLookup(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	r.IngestTransforms([]TransformMessage{msg("world", "robot", 1, 5)}, false)

	direct, ok := r.LookupTransform("world", "robot", 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, direct.Translation.X, test.ShouldAlmostEqual, 5.0)

	inverse, ok := r.LookupTransform("robot", "world", 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inverse.Translation.X, test.ShouldAlmostEqual, -5.0)
}

func TestRegistryPrefersDirectOverInverseWhenBothExist(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	// Ingest both directions with deliberately inconsistent values: if the
	// registry ever computed the inverse from "robot"->"world" instead of
	// using the direct "world"->"robot" buffer, it would read back 99
	// instead of 5.
	r.IngestTransforms([]TransformMessage{
		msg("world", "robot", 1, 5),
		msg("robot", "world", 1, 99),
	}, false)

	tf, ok := r.LookupTransform("world", "robot", 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, tf.Translation.X, test.ShouldAlmostEqual, 5.0)
}

func TestRegistryChainComposition(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	r.IngestTransforms([]TransformMessage{
		msg("world", "odom", 1, 10),
		msg("odom", "robot", 1, 5),
	}, false)

	tf, ok := r.LookupTransform("world", "robot", 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, tf.Translation.X, test.ShouldAlmostEqual, 15.0)
}

func TestRegistryNoPathReturnsFalse(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	r.IngestTransforms([]TransformMessage{
		msg("world", "odom", 1, 10),
		msg("island-parent", "island-child", 1, 1),
	}, false)

	_, ok := r.LookupTransform("world", "island-child", 1)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRegistryUnknownFrameReturnsFalse(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	_, ok := r.LookupTransform("world", "robot", 1)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRegistryDropsMalformedMessages(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	bad := TransformMessage{Header: Header{Stamp: Stamp{Sec: 1, Nanosec: 0.0}}, ChildFrameID: ""}
	r.IngestTransforms([]TransformMessage{bad}, false)

	test.That(t, len(r.KnownFrames()), test.ShouldEqual, 0)
	test.That(t, r.IsActive(), test.ShouldBeTrue)
}

type recordingObserver struct {
	knownCalls  int
	activeCalls int
	lastActive  bool
}

func (o *recordingObserver) OnKnownFramesChanged(map[string]struct{}) { o.knownCalls++ }
func (o *recordingObserver) OnActiveChanged(active bool) {
	o.activeCalls++
	o.lastActive = active
}

func TestRegistryNotifiesObserverOnce(t *testing.T) {
	obs := &recordingObserver{}
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), obs)

	r.IngestTransforms([]TransformMessage{msg("world", "robot", 1, 1)}, false)
	r.IngestTransforms([]TransformMessage{msg("world", "robot", 2, 2)}, false)

	test.That(t, obs.knownCalls, test.ShouldEqual, 2)
	test.That(t, obs.activeCalls, test.ShouldEqual, 1)
	test.That(t, obs.lastActive, test.ShouldBeTrue)
}

func TestRegistryLatestPose(t *testing.T) {
	r := NewRegistry(DefaultConfig(), logging.NewTestLogger(t), nil)
	r.IngestTransforms([]TransformMessage{msg("world", "robot", 1, 7)}, false)

	x, y, _, ok := r.LatestPose("robot", "world")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, x, test.ShouldAlmostEqual, 7.0)
	test.That(t, y, test.ShouldAlmostEqual, 0.0)
}

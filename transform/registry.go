package transform

import (
	"sync"

	"github.com/roboticscore/slamcore/logging"
	"github.com/roboticscore/slamcore/spatialmath"
)

// Observer stands in for the Swift source's actor-isolated @Published
// properties (spec §9): the registry calls these synchronously, on the
// caller's goroutine and while holding its write lock. OnKnownFramesChanged
// is called after every IngestTransforms call, whether or not the frame set
// changed; OnActiveChanged is called once, when the registry first becomes
// active. Implementations may forward to a channel, a callback, or a
// reactive stream; a call that blocks also blocks the ingest.
type Observer interface {
	OnKnownFramesChanged(frames map[string]struct{})
	OnActiveChanged(active bool)
}

// NopObserver implements Observer by ignoring every notification.
type NopObserver struct{}

// OnKnownFramesChanged implements Observer.
func (NopObserver) OnKnownFramesChanged(map[string]struct{}) {}

// OnActiveChanged implements Observer.
func (NopObserver) OnActiveChanged(bool) {}

type pairKey struct {
	parent, child string
}

// Registry maintains the tree of per-frame-pair time-ordered transform
// buffers and answers interpolated lookups between any two frames.
//
// Spec §5 designates this for single-threaded cooperative use on a host
// UI-update thread; the mutex here is the documented multithreaded
// fallback (readers take the read lock, ingestion takes the write lock) so
// the same type is safe to reuse should a caller not have that single
// thread available.
type Registry struct {
	mu sync.RWMutex

	cfg      Config
	logger   logging.Logger
	observer Observer

	static  map[pairKey]*FrameBuffer
	dynamic map[pairKey]*FrameBuffer
	graph   *frameGraph
	active  bool
}

// NewRegistry constructs an empty registry. observer may be nil, in which
// case notifications are a no-op.
func NewRegistry(cfg Config, logger logging.Logger, observer Observer) *Registry {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		static:   make(map[pairKey]*FrameBuffer),
		dynamic:  make(map[pairKey]*FrameBuffer),
		graph:    newFrameGraph(),
	}
}

// IngestTransforms parses and inserts a batch of transform messages, as
// arrive together in one stamped-transforms list from the bridge. static
// selects which bucket (and eviction policy) every message in the batch
// lands in, mirroring the separate static/dynamic channels a ROS-style
// bridge publishes on. Malformed entries (missing frame ids or an
// unparseable stamp) are silently dropped per spec §7 — this never
// returns an error for bad input, only logs it.
func (r *Registry) IngestTransforms(msgs []TransformMessage, static bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msg := range msgs {
		if msg.Header.FrameID == "" || msg.ChildFrameID == "" {
			r.logger.Debugw("dropping malformed transform message", "reason", "missing frame id")
			continue
		}
		tSec, err := msg.Header.Stamp.Seconds()
		if err != nil {
			r.logger.Debugw("dropping malformed transform message", "err", err)
			continue
		}

		tf := StampedTransform{
			Parent: msg.Header.FrameID,
			Child:  msg.ChildFrameID,
			Time:   tSec,
			Translation: vec3ToR3(msg.Transform.Translation),
			Rotation: spatialmath.Quaternion{
				X: msg.Transform.Rotation.X,
				Y: msg.Transform.Rotation.Y,
				Z: msg.Transform.Rotation.Z,
				W: msg.Transform.Rotation.W,
			},
		}
		r.insertLocked(tf, static)
	}
	r.notifyLocked()
}

func (r *Registry) insertLocked(tf StampedTransform, static bool) {
	key := pairKey{parent: tf.Parent, child: tf.Child}
	bucket := r.dynamic
	maxAge := r.cfg.BufferDuration
	if static {
		bucket = r.static
		maxAge = 0
	}
	buf, ok := bucket[key]
	if !ok {
		buf = NewFrameBuffer(tf.Parent, tf.Child, maxAge)
		bucket[key] = buf
	}
	buf.Insert(tf)
	r.graph.addEdge(tf.Parent, tf.Child)
}

func (r *Registry) notifyLocked() {
	r.observer.OnKnownFramesChanged(r.graph.knownFrames())
	if !r.active {
		r.active = true
		r.observer.OnActiveChanged(true)
	}
}

// lookupDirect checks the static bucket (always latest) then the dynamic
// bucket (at time t) for the exact (parent, child) pair.
func (r *Registry) lookupDirect(parent, child string, t float64) (StampedTransform, error) {
	key := pairKey{parent: parent, child: child}
	if buf, ok := r.static[key]; ok {
		return buf.Lookup(0)
	}
	if buf, ok := r.dynamic[key]; ok {
		return buf.Lookup(t)
	}
	return StampedTransform{}, &NoDataError{Parent: parent, Child: child}
}

// lookupEitherDirection tries the (parent, child) buffer, then falls back
// to the (child, parent) buffer and inverts it.
func (r *Registry) lookupEitherDirection(parent, child string, t float64) (StampedTransform, error) {
	if tf, err := r.lookupDirect(parent, child, t); err == nil {
		return tf, nil
	}
	tf, err := r.lookupDirect(child, parent, t)
	if err != nil {
		return StampedTransform{}, err
	}
	return tf.Inverse(), nil
}

// LookupTransform answers spec §4.3's core query: the rigid transform
// taking a point in child coordinates to parent coordinates at time t
// (t == 0 meaning "latest"). All buffer-level errors (no data,
// extrapolation, no path) collapse to the boolean false at this boundary;
// they remain distinguishable internally via lookupDirect/graph.path for
// logging and tests.
func (r *Registry) LookupTransform(parent, child string, t float64) (StampedTransform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if parent == child {
		if r.graph.knows(parent) {
			return IdentityAt(parent, t), true
		}
		return StampedTransform{}, false
	}

	if tf, err := r.lookupDirect(parent, child, t); err == nil {
		return tf, true
	}
	if tf, err := r.lookupDirect(child, parent, t); err == nil {
		return tf.Inverse(), true
	}

	path := r.graph.path(child, parent)
	if path == nil {
		r.logger.Debugw("no path in transform tree", "err", &NoPathError{From: child, To: parent})
		return StampedTransform{}, false
	}

	result := IdentityAt(path[0], t)
	for i := 0; i < len(path)-1; i++ {
		from, to := path[i], path[i+1]
		tf, err := r.lookupEitherDirection(to, from, t)
		if err != nil {
			r.logger.Debugw("chain hop lookup failed", "from", from, "to", to, "err", err)
			return StampedTransform{}, false
		}
		result = ComposeOnto(tf, result)
	}
	return result, true
}

// LatestPose derives (x, y, yaw) for frame relative to reference from
// LookupTransform(reference, frame, 0).
func (r *Registry) LatestPose(frame, reference string) (x, y, yaw float64, ok bool) {
	tf, found := r.LookupTransform(reference, frame, 0)
	if !found {
		return 0, 0, 0, false
	}
	return tf.Translation.X, tf.Translation.Y, spatialmath.Yaw(tf.Rotation), true
}

// KnownFrames returns every frame name the registry has ever seen in an
// ingested transform.
func (r *Registry) KnownFrames() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graph.knownFrames()
}

// IsActive reports whether IngestTransforms has been called at least once
// since construction. A batch whose messages were all dropped as malformed
// still makes the registry active.
func (r *Registry) IsActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

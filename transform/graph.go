package transform

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// frameGraph is the undirected adjacency graph of known frames, backed by
// gonum's graph/simple and searched with graph/traverse's breadth-first
// walk — the registry's BFS path search (spec §4.3) riding on the same
// gonum dependency the rest of this module's linear algebra uses, rather
// than a hand-rolled queue.
type frameGraph struct {
	g      *simple.UndirectedGraph
	ids    map[string]int64
	names  map[int64]string
	nextID int64
}

func newFrameGraph() *frameGraph {
	return &frameGraph{
		g:     simple.NewUndirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
}

func (fg *frameGraph) nodeFor(name string) int64 {
	if id, ok := fg.ids[name]; ok {
		return id
	}
	id := fg.nextID
	fg.nextID++
	fg.ids[name] = id
	fg.names[id] = name
	fg.g.AddNode(simple.Node(id))
	return id
}

// addEdge records that a buffer exists directly connecting a and b
// (direction is irrelevant to reachability; the registry resolves the
// directed buffer lookup separately).
func (fg *frameGraph) addEdge(a, b string) {
	na := fg.nodeFor(a)
	nb := fg.nodeFor(b)
	if na == nb {
		return
	}
	fg.g.SetEdge(fg.g.NewEdge(simple.Node(na), simple.Node(nb)))
}

// knows reports whether name has been seen in any transform.
func (fg *frameGraph) knows(name string) bool {
	_, ok := fg.ids[name]
	return ok
}

// knownFrames returns a snapshot of every frame name ever seen.
func (fg *frameGraph) knownFrames() map[string]struct{} {
	out := make(map[string]struct{}, len(fg.ids))
	for name := range fg.ids {
		out[name] = struct{}{}
	}
	return out
}

// path returns the frame names on the shortest chain from `from` to `to`
// inclusive, or nil if either frame is unknown or no path connects them.
func (fg *frameGraph) path(from, to string) []string {
	fromID, ok := fg.ids[from]
	if !ok {
		return nil
	}
	toID, ok := fg.ids[to]
	if !ok {
		return nil
	}
	if fromID == toID {
		return []string{from}
	}

	parent := map[int64]int64{fromID: fromID}
	bf := traverse.BreadthFirst{
		Visit: func(u, v graph.Node) {
			if _, seen := parent[v.ID()]; !seen {
				parent[v.ID()] = u.ID()
			}
		},
	}
	reached := bf.Walk(fg.g, simple.Node(fromID), func(n graph.Node, _ int) bool {
		return n.ID() == toID
	})
	if reached == nil || reached.ID() != toID {
		return nil
	}

	var idsPath []int64
	for cur := toID; ; {
		idsPath = append(idsPath, cur)
		if cur == fromID {
			break
		}
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		cur = p
	}

	names := make([]string, len(idsPath))
	for i, id := range idsPath {
		names[len(idsPath)-1-i] = fg.names[id]
	}
	return names
}

// Package compatgraph defines the sparse undirected adjacency representation
// shared by the spatial index, the Bron-Kerbosch clique enumerator, and
// the top-level clique index: an AdjacencyMap from observation id to the
// set of ids of its current compatible neighbours.
//
// Isolated vertices (no neighbours) are never present as keys: this keeps
// the map O(edges) rather than O(vertices).
package compatgraph

import "github.com/google/uuid"

// ID identifies a vertex (an observation) inside a single compatibility
// graph. The engine monomorphises to uuid.UUID rather than carrying a
// generic type parameter throughout.
type ID = uuid.UUID

// VertexSet is a set of vertex ids.
type VertexSet map[ID]struct{}

// NewVertexSet builds a VertexSet from the given ids.
func NewVertexSet(ids ...ID) VertexSet {
	set := make(VertexSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}

// Add inserts id into the set.
func (s VertexSet) Add(id ID) { s[id] = struct{}{} }

// Contains reports whether id is a member of the set.
func (s VertexSet) Contains(id ID) bool {
	_, ok := s[id]

	return ok
}

// Clone returns a shallow copy of the set.
func (s VertexSet) Clone() VertexSet {
	clone := make(VertexSet, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}

	return clone
}

// Union returns the set union of s and other, as a new VertexSet.
func (s VertexSet) Union(other VertexSet) VertexSet {
	union := s.Clone()
	for id := range other {
		union[id] = struct{}{}
	}

	return union
}

// Intersect returns the set intersection of s and other, as a new VertexSet.
func (s VertexSet) Intersect(other VertexSet) VertexSet {
	result := make(VertexSet)
	for id := range s {
		if other.Contains(id) {
			result[id] = struct{}{}
		}
	}

	return result
}

// Slice returns the set's members as a slice, in unspecified order.
func (s VertexSet) Slice() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}

	return out
}

// AdjacencyMap is a sparse undirected graph: vertex id -> set of ids of
// its current neighbours. Keys are a superset of all values; every vertex
// present as a key has at least one neighbour.
type AdjacencyMap map[ID]VertexSet

// NewAdjacencyMap returns an empty adjacency map.
func NewAdjacencyMap() AdjacencyMap {
	return make(AdjacencyMap)
}

// Neighbours returns the neighbour set of id, or an empty (nil) set if id
// is not present. Safe to call for any id, including ones outside the
// graph entirely, so callers never need a presence check first.
func (g AdjacencyMap) Neighbours(id ID) VertexSet {
	return g[id]
}

// AddEdge inserts a symmetric edge between a and b, creating adjacency
// entries for both endpoints if absent. a == b is a no-op: the compatibility
// graph never has self-loops.
func (g AdjacencyMap) AddEdge(a, b ID) {
	if a == b {
		return
	}

	if g[a] == nil {
		g[a] = make(VertexSet)
	}
	g[a].Add(b)

	if g[b] == nil {
		g[b] = make(VertexSet)
	}
	g[b].Add(a)
}

// InducedSubgraph extracts the portion of g spanned by nodes: for each
// node present in nodes, its neighbour set is restricted to neighbours
// that are also in nodes. Nodes with no resulting in-subgraph neighbours
// are omitted, matching AdjacencyMap's no-singleton-keys invariant.
func (g AdjacencyMap) InducedSubgraph(nodes VertexSet) AdjacencyMap {
	subgraph := make(AdjacencyMap, len(nodes))
	for id := range nodes {
		restricted := g.Neighbours(id).Intersect(nodes)
		if len(restricted) > 0 {
			subgraph[id] = restricted
		}
	}

	return subgraph
}

// ClosedNeighbourhood returns seed, extended by one hop through g: every
// neighbour (in g) of every node already in seed is added. This is the
// affected-region construction an incremental clique index uses after an
// insertion: the one-hop extension, not just the inserted node and its
// direct neighbours, is what lets existing edges reassemble into cliques
// that span beyond the newly touched vertices.
func (g AdjacencyMap) ClosedNeighbourhood(seed VertexSet) VertexSet {
	region := seed.Clone()
	for id := range seed {
		for neighbour := range g.Neighbours(id) {
			region.Add(neighbour)
		}
	}

	return region
}

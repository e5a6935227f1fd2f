// Package cliqueindex implements the top-level engine: it owns a spatial
// index, the compatibility graph it induces, and the current set of
// maximal cliques, and keeps all three in sync as observations are
// inserted one at a time.
package cliqueindex

import (
	"github.com/clique-fusion/cliquefusion/bronkerbosch"
	"github.com/clique-fusion/cliquefusion/compatgraph"
	"github.com/clique-fusion/cliquefusion/spatialindex"
)

// ID identifies an observation across a CliqueIndex's lifetime.
type ID = compatgraph.ID

// CliqueIndex groups mutually compatible observations into maximal
// cliques, maintaining the grouping incrementally as observations arrive.
// The chi-squared threshold is fixed at construction and never mutated.
type CliqueIndex struct {
	spatial *spatialindex.SpatialIndex
	graph   compatgraph.AdjacencyMap
	cliques []compatgraph.VertexSet
	chi2    float64
}

// New creates an empty index with the given chi-squared compatibility
// threshold.
func New(chi2 float64) *CliqueIndex {
	return &CliqueIndex{
		spatial: spatialindex.New(),
		graph:   compatgraph.NewAdjacencyMap(),
		chi2:    chi2,
	}
}

// FromObservations builds an index from a batch of observations in bulk:
// faster than inserting one at a time, and produces the same clique set
// and adjacency map as inserting the same observations one at a time.
func FromObservations(batch []spatialindex.Unique, chi2 float64) *CliqueIndex {
	spatial := spatialindex.FromObservations(batch)

	graph := make(compatgraph.AdjacencyMap)
	for id, neighbours := range spatial.CompatibilityGraph(chi2) {
		set := make(compatgraph.VertexSet, len(neighbours))
		for n := range neighbours {
			set.Add(n)
		}
		graph[id] = set
	}

	cliques := discardSingletons(bronkerbosch.FindMaximalCliques(graph))

	return &CliqueIndex{spatial: spatial, graph: graph, cliques: cliques, chi2: chi2}
}

// Insert adds a single observation and updates affected cliques.
//
// Observations that share a context are never fused into the same edge
// or clique. Panics in debug builds if an observation with the same id
// already exists; release builds trust the caller.
func (idx *CliqueIndex) Insert(obs spatialindex.Unique) {
	id := obs.ID

	// 1. Identify mutually compatible neighbours before the new node is
	// inserted into the spatial index (so it is never its own candidate).
	compatible := idx.spatial.FindCompatible(obs, idx.chi2)

	neighbours := make(compatgraph.VertexSet, len(compatible))
	for _, other := range compatible {
		neighbours.Add(other.ID)
	}

	// 2. Insert into the spatial index. SpatialIndex.Insert itself
	// debug-asserts against a duplicate id.
	idx.spatial.Insert(obs)

	// 3. No connections, no graph change, no clique change.
	if len(neighbours) == 0 {
		return
	}

	// 4. Add symmetric edges.
	for n := range neighbours {
		idx.graph.AddEdge(id, n)
	}

	// 5. Affected region: the closed neighbourhood of the changed nodes,
	// one hop through the now-updated graph. A narrower region (just the
	// new node and its direct neighbours) drops pre-existing edges that
	// lie one hop further out; see compatgraph.ClosedNeighbourhood.
	changed := neighbours.Clone()
	changed.Add(id)
	affected := idx.graph.ClosedNeighbourhood(changed)

	// 6. Extract the induced subgraph over the affected region.
	subgraph := idx.graph.InducedSubgraph(affected)

	// 7. Recompute cliques within the affected region.
	newCliques := discardSingletons(bronkerbosch.FindMaximalCliques(subgraph))

	// 8. Replace policy: drop every existing clique entirely contained in
	// the affected region (the induced subgraph fully re-derives those),
	// then add the newly emitted ones. A clique with a member outside the
	// affected region cannot have been extended by the new node: extending
	// it would require the new node to be adjacent to every one of its
	// members, including ones outside the recomputed region, so it is
	// preserved verbatim rather than dropped.
	idx.cliques = replaceOverlapping(idx.cliques, affected, newCliques)
}

func discardSingletons(cliques []compatgraph.VertexSet) []compatgraph.VertexSet {
	out := make([]compatgraph.VertexSet, 0, len(cliques))
	for _, clique := range cliques {
		if len(clique) >= 2 {
			out = append(out, clique)
		}
	}

	return out
}

func replaceOverlapping(existing []compatgraph.VertexSet, affected compatgraph.VertexSet, fresh []compatgraph.VertexSet) []compatgraph.VertexSet {
	kept := make([]compatgraph.VertexSet, 0, len(existing)+len(fresh))
	for _, clique := range existing {
		if !isSubset(clique, affected) {
			kept = append(kept, clique)
		}
	}

	return append(kept, fresh...)
}

// isSubset reports whether every member of a is present in b.
func isSubset(a, b compatgraph.VertexSet) bool {
	for id := range a {
		if !b.Contains(id) {
			return false
		}
	}

	return true
}

// Cliques returns the current collection of maximal cliques, each of
// size >= 2. Order is not observable.
func (idx *CliqueIndex) Cliques() []compatgraph.VertexSet {
	return idx.cliques
}

// Len returns the number of observations present in the adjacency map,
// i.e. excludes observations with no compatible neighbours.
func (idx *CliqueIndex) Len() int {
	return len(idx.graph)
}

// IsEmpty reports whether the index has no edges.
func (idx *CliqueIndex) IsEmpty() bool {
	return len(idx.graph) == 0
}

// CompatibilityGraph exposes the adjacency map for diagnostics.
func (idx *CliqueIndex) CompatibilityGraph() compatgraph.AdjacencyMap {
	return idx.graph
}

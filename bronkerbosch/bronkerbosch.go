/*
Package bronkerbosch implements maximal-clique enumeration over a static
compatgraph.AdjacencyMap using the Bron-Kerbosch algorithm with pivoting.

Algorithm outline:
 1. Maintain three disjoint sets R (current clique), P (candidate
    extensions), X (already-explored exclusions). Initially R = {},
    P = all vertices, X = {}.
 2. Base case: if P and X are both empty, emit R as a maximal clique.
 3. Choose a pivot u in P union X maximising |N(u) intersect (P union X)|;
    branch only over v in P \ N(u). This is the key optimisation: it skips
    candidates already guaranteed to appear in some other branch's clique.
 4. For each such v, recurse with R' = R + v, P' = P intersect N(v),
    X' = X intersect N(v); then move v from P to X.

Time complexity: O(3^(n/3)) worst case, far better in practice on sparse
graphs thanks to pivoting.

A vertex referenced as a neighbour but missing its own adjacency entry is
treated as having no neighbours (defensive against malformed graphs); tie
breaks in pivot selection are unspecified, and output order is not
observable.
*/
package bronkerbosch

import "github.com/clique-fusion/cliquefusion/compatgraph"

// FindMaximalCliques returns all maximal cliques of g, including singletons
// (a vertex with no neighbours still forms a clique of size 1). Callers
// that must suppress singletons (as cliqueindex.CliqueIndex does) filter
// the result themselves.
func FindMaximalCliques(g compatgraph.AdjacencyMap) []compatgraph.VertexSet {
	if len(g) == 0 {
		return nil
	}

	cliques := make([]compatgraph.VertexSet, 0, len(g))

	candidates := make(compatgraph.VertexSet, len(g))
	for id := range g {
		candidates.Add(id)
	}

	expand(g, compatgraph.VertexSet{}, candidates, compatgraph.VertexSet{}, &cliques)

	return cliques
}

// expand is the recursive core of Bron-Kerbosch with pivoting.
func expand(g compatgraph.AdjacencyMap, r, p, x compatgraph.VertexSet, cliques *[]compatgraph.VertexSet) {
	if len(p) == 0 && len(x) == 0 {
		*cliques = append(*cliques, r)

		return
	}

	if len(p) == 0 {
		return
	}

	pivot, found := selectPivot(g, p, x)
	candidates := p
	if found {
		candidates = p.Clone()
		for v := range g.Neighbours(pivot) {
			delete(candidates, v)
		}
	}

	// Iterate over a snapshot: p and x are mutated as branches are explored.
	for _, v := range candidates.Slice() {
		neighbours := g.Neighbours(v)

		rNext := r.Clone()
		rNext.Add(v)

		expand(g, rNext, p.Intersect(neighbours), x.Intersect(neighbours), cliques)

		delete(p, v)
		x.Add(v)
	}
}

// selectPivot chooses the vertex in p union x with the most neighbours
// inside p union x, to minimise the branching factor of expand. Returns
// false if p and x are both empty.
func selectPivot(g compatgraph.AdjacencyMap, p, x compatgraph.VertexSet) (compatgraph.ID, bool) {
	var best compatgraph.ID
	bestCount := -1
	found := false

	consider := func(candidate compatgraph.ID) {
		count := 0
		for n := range g.Neighbours(candidate) {
			if p.Contains(n) || x.Contains(n) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			best = candidate
			found = true
		}
	}

	for v := range p {
		consider(v)
	}
	for v := range x {
		consider(v)
	}

	return best, found
}

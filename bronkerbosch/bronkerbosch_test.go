package bronkerbosch_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clique-fusion/cliquefusion/bronkerbosch"
	"github.com/clique-fusion/cliquefusion/compatgraph"
)

// newVertices returns n fresh uuids for building test graphs.
func newVertices(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}

	return ids
}

func TestEmptyGraphProducesNoCliques(t *testing.T) {
	cliques := bronkerbosch.FindMaximalCliques(compatgraph.NewAdjacencyMap())
	assert.Empty(t, cliques)
}

func TestIsolatedVertexFormsSingletonClique(t *testing.T) {
	v := newVertices(1)
	g := compatgraph.AdjacencyMap{v[0]: compatgraph.VertexSet{}}

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, 1)
	assert.Len(t, cliques[0], 1)
	assert.True(t, cliques[0].Contains(v[0]))
}

func TestTriangleFormsSingle3Clique(t *testing.T) {
	v := newVertices(3)
	g := compatgraph.NewAdjacencyMap()
	g.AddEdge(v[0], v[1])
	g.AddEdge(v[1], v[2])
	g.AddEdge(v[2], v[0])

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, 1)
	assert.Len(t, cliques[0], 3)
	for _, id := range v {
		assert.True(t, cliques[0].Contains(id))
	}
}

func TestPathGraphProducesEdgeCliques(t *testing.T) {
	v := newVertices(4)
	g := compatgraph.NewAdjacencyMap()
	g.AddEdge(v[0], v[1])
	g.AddEdge(v[1], v[2])
	g.AddEdge(v[2], v[3])

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, 3)
	for _, clique := range cliques {
		assert.Len(t, clique, 2)
	}
}

func TestDisconnectedComponentsProduceSeparateCliques(t *testing.T) {
	v := newVertices(4)
	g := compatgraph.NewAdjacencyMap()
	g.AddEdge(v[0], v[1])
	g.AddEdge(v[2], v[3])

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, 2)
	for _, clique := range cliques {
		assert.Len(t, clique, 2)
	}
}

func TestCompleteGraphK4HasSingle4Clique(t *testing.T) {
	v := newVertices(4)
	g := compatgraph.NewAdjacencyMap()
	for i := 0; i < len(v); i++ {
		for j := i + 1; j < len(v); j++ {
			g.AddEdge(v[i], v[j])
		}
	}

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, 1)
	assert.Len(t, cliques[0], 4)
}

func TestHandlesMalformedGraphGracefully(t *testing.T) {
	v := newVertices(2)
	// v[0] references v[1], but v[1] has no adjacency entry at all.
	g := compatgraph.AdjacencyMap{v[0]: compatgraph.NewVertexSet(v[1])}

	cliques := bronkerbosch.FindMaximalCliques(g)
	assert.NotEmpty(t, cliques)
}

func TestManyDisconnectedTrianglesEachFormOwnClique(t *testing.T) {
	const triangles = 50
	v := newVertices(triangles * 3)
	g := compatgraph.NewAdjacencyMap()
	for i := 0; i < triangles; i++ {
		a, b, c := v[i*3], v[i*3+1], v[i*3+2]
		g.AddEdge(a, b)
		g.AddEdge(b, c)
		g.AddEdge(c, a)
	}

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, triangles)
	for _, clique := range cliques {
		assert.Len(t, clique, 3)
	}
}

// TestFourCycleProducesFourEdgeCliques checks the static enumeration of the
// four-cycle scenario: a square A-B-C-D with no diagonal edges has four
// maximal edge cliques, not one 4-clique.
func TestFourCycleProducesFourEdgeCliques(t *testing.T) {
	v := newVertices(4) // A, B, C, D
	a, b, c, d := v[0], v[1], v[2], v[3]
	g := compatgraph.NewAdjacencyMap()
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, d)
	g.AddEdge(d, a)

	cliques := bronkerbosch.FindMaximalCliques(g)

	assert.Len(t, cliques, 4)
	expected := []compatgraph.VertexSet{
		compatgraph.NewVertexSet(a, b),
		compatgraph.NewVertexSet(b, c),
		compatgraph.NewVertexSet(c, d),
		compatgraph.NewVertexSet(d, a),
	}
	for _, want := range expected {
		assert.Contains(t, cliques, want)
	}
}

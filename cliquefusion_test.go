package cliquefusion_test

import (
	"github.com/google/uuid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/clique-fusion/cliquefusion/cliqueindex"
	"github.com/clique-fusion/cliquefusion/covariance"
	"github.com/clique-fusion/cliquefusion/observation"
	"github.com/clique-fusion/cliquefusion/spatialindex"
)

const chi2 = observation.Chi2Confidence95

func circular(x, y, radius float64) spatialindex.Unique {
	withErr, err := observation.NewBuilder(x, y).Circular95Error(radius)
	Expect(err).NotTo(HaveOccurred())

	return spatialindex.Unique{Data: withErr.Build(), ID: uuid.New()}
}

func circularInContext(x, y, radius float64, ctx uuid.UUID) spatialindex.Unique {
	withErr, err := observation.NewBuilder(x, y).Circular95Error(radius)
	Expect(err).NotTo(HaveOccurred())

	return spatialindex.Unique{Data: withErr.Context(ctx).Build(), ID: uuid.New()}
}

func memberIDs(clique map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(clique))
	for id := range clique {
		ids = append(ids, id)
	}

	return ids
}

var _ = Describe("CliqueIndex", func() {
	Context("a tight cluster of mutually nearby observations", func() {
		It("fuses all of them into a single maximal clique", func() {
			a := circular(0, 0, 1)
			b := circular(0.1, 0, 1)
			c := circular(0, 0.1, 1)

			idx := cliqueindex.FromObservations([]spatialindex.Unique{a, b, c}, chi2)

			Expect(idx.Cliques()).To(HaveLen(1))
			Expect(memberIDs(idx.Cliques()[0])).To(ConsistOf(a.ID, b.ID, c.ID))
		})
	})

	Context("observations far enough apart to be mutually incompatible", func() {
		It("produces no cliques at all", func() {
			a := circular(0, 0, 0.01)
			b := circular(1000, 1000, 0.01)

			idx := cliqueindex.FromObservations([]spatialindex.Unique{a, b}, chi2)

			Expect(idx.Cliques()).To(BeEmpty())
			Expect(idx.IsEmpty()).To(BeTrue())
		})
	})

	Context("a four-cycle that only closes up after the last insert", func() {
		// A--B, B--C, C--D, D--A are each compatible, but the diagonals
		// A--C and B--D are not. The maximal cliques are the four edges,
		// not one big clique. Sequential insertion must still recover all
		// four edge cliques, including A-B and B-C, which the last insert
		// (D, touching only A and C directly) does not touch; this is the
		// scenario that guards the affected-region recomputation in
		// CliqueIndex.Insert.
		It("recovers the same four edge cliques via batch build and via sequential insert", func() {
			a := circular(0, 0, 0.8)
			b := circular(1, 0, 0.8)
			c := circular(1, 1, 0.8)
			d := circular(0, 1, 0.8)

			batch := cliqueindex.FromObservations([]spatialindex.Unique{a, b, c, d}, chi2)
			assertFourEdgeCliques(batch, a, b, c, d)

			sequential := cliqueindex.New(chi2)
			sequential.Insert(a)
			sequential.Insert(b)
			sequential.Insert(c)
			sequential.Insert(d)
			assertFourEdgeCliques(sequential, a, b, c, d)
		})
	})

	Context("observations tagged with the same context", func() {
		It("never fuses them, however close they are", func() {
			ctx := uuid.New()
			a := circularInContext(0, 0, 1, ctx)
			b := circularInContext(0.01, 0, 1, ctx)

			idx := cliqueindex.FromObservations([]spatialindex.Unique{a, b}, chi2)

			Expect(idx.Cliques()).To(BeEmpty())
		})
	})

	Context("spatial compatibility search", func() {
		It("never returns the query observation as its own neighbour", func() {
			spatial := spatialindex.New()
			a := circular(0, 0, 1)
			spatial.Insert(a)

			compatible := spatial.FindCompatible(a, chi2)

			Expect(compatible).To(BeEmpty())
		})
	})

	Context("inserting an observation with no compatible neighbours", func() {
		It("leaves the index's graph and cliques unchanged", func() {
			idx := cliqueindex.New(chi2)
			a := circular(0, 0, 1)
			b := circular(0.01, 0, 1)
			idx.Insert(a)
			idx.Insert(b)

			before := idx.Len()
			beforeCliques := len(idx.Cliques())

			idx.Insert(circular(10000, 10000, 0.01))

			Expect(idx.Len()).To(Equal(before))
			Expect(idx.Cliques()).To(HaveLen(beforeCliques))
		})
	})
})

var _ = Describe("Matrix construction", func() {
	Context("a valid symmetric positive-semi-definite triple", func() {
		It("constructs without error", func() {
			m, err := covariance.New(1, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.XX()).To(Equal(1.0))
		})
	})

	Context("a triple whose determinant is negative", func() {
		It("is rejected", func() {
			_, err := covariance.New(1, 1, 10)
			Expect(err).To(MatchError(covariance.ErrInvalidCovariance))
		})
	})
})

func assertFourEdgeCliques(idx *cliqueindex.CliqueIndex, a, b, c, d spatialindex.Unique) {
	Expect(idx.Cliques()).To(HaveLen(4))

	var edges [][]uuid.UUID
	for _, clique := range idx.Cliques() {
		Expect(clique).To(HaveLen(2))
		edges = append(edges, memberIDs(clique))
	}

	expectPair := func(x, y spatialindex.Unique) {
		found := false
		for _, edge := range edges {
			if (edge[0] == x.ID && edge[1] == y.ID) || (edge[0] == y.ID && edge[1] == x.ID) {
				found = true
			}
		}
		Expect(found).To(BeTrue(), "expected an edge clique between %s and %s", x.ID, y.ID)
	}

	expectPair(a, b)
	expectPair(b, c)
	expectPair(c, d)
	expectPair(d, a)
}

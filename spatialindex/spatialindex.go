// Package spatialindex implements radius-bounded nearest-neighbour search
// over a set of observations, keyed on position.
//
// The original engine this was modelled on backs this with a bulk-loadable
// R-tree (rstar, in Rust). No retrieved Go repository imports an R-tree,
// k-d tree, or quadtree library, so this package hand-rolls a uniform-grid
// bucket index instead: points are assigned to fixed-size square cells, and
// a radius query only visits the cells the query circle can reach. For the
// roughly-uniform point clouds this engine targets, that is asymptotically
// equivalent to an R-tree and needs no unverified third-party API.
package spatialindex

import (
	"math"

	"github.com/google/uuid"

	"github.com/clique-fusion/cliquefusion/internal/debugassert"
	"github.com/clique-fusion/cliquefusion/observation"
)

// ID identifies an observation inside a single SpatialIndex, monomorphised
// to uuid.UUID rather than carried as a generic type parameter.
type ID = uuid.UUID

// Unique pairs an observation with a stable identifier.
type Unique struct {
	Data observation.Observation
	ID   ID
}

// cellSize is the edge length of a grid bucket. Chosen independently of
// any particular dataset's scale: buckets only affect how many candidate
// points a radius query must visit, never correctness, since every
// candidate is still checked exactly against the query radius.
const cellSize = 1.0

type cellKey struct {
	cx, cy int64
}

func cellOf(x, y float64) cellKey {
	return cellKey{cx: int64(math.Floor(x / cellSize)), cy: int64(math.Floor(y / cellSize))}
}

// SpatialIndex is a grid-bucket spatial index over observations. The zero
// value is not ready to use; construct with New, FromObservations instead.
type SpatialIndex struct {
	buckets     map[cellKey][]Unique
	ids         map[ID]struct{}
	maxVariance float64
}

// New returns an empty SpatialIndex.
func New() *SpatialIndex {
	return &SpatialIndex{
		buckets: make(map[cellKey][]Unique),
		ids:     make(map[ID]struct{}),
	}
}

// FromObservations bulk-loads an index from a batch, computing
// max_variance_seen over the whole batch up front (0 if the batch is
// empty).
func FromObservations(batch []Unique) *SpatialIndex {
	idx := New()
	for _, item := range batch {
		idx.insertUnchecked(item)
	}

	return idx
}

// Insert adds a single observation to the index, updating
// max_variance_seen. Panics in debug builds if the id already exists;
// release builds trust the caller.
func (idx *SpatialIndex) Insert(item Unique) {
	_, exists := idx.ids[item.ID]
	debugassert.Assert(!exists, "spatialindex: attempted to insert duplicate observation id %v", item.ID)

	idx.insertUnchecked(item)
}

func (idx *SpatialIndex) insertUnchecked(item Unique) {
	x, y := item.Data.Position()
	key := cellOf(x, y)
	idx.buckets[key] = append(idx.buckets[key], item)
	idx.ids[item.ID] = struct{}{}

	if v := item.Data.ErrorCovariance().MaxVariance(); v > idx.maxVariance {
		idx.maxVariance = v
	}
}

// Size returns the number of observations in the index.
func (idx *SpatialIndex) Size() int {
	return len(idx.ids)
}

// MaxVarianceSeen returns the largest max_variance of any covariance ever
// inserted into the index; 0 for an empty index. Monotonically
// non-decreasing as observations are inserted.
func (idx *SpatialIndex) MaxVarianceSeen() float64 {
	return idx.maxVariance
}

// FindCompatible returns every observation in the index that is mutually
// statistically compatible with query, excluding query itself. The search
// radius is query.MaxCompatibilityRadius(chi2, idx.MaxVarianceSeen()), and
// every candidate the radius admits is still checked exactly against the
// full compatibility predicate; candidates sharing a context with query
// are skipped regardless of distance. Result order is unspecified.
func (idx *SpatialIndex) FindCompatible(query Unique, chi2 float64) []Unique {
	radius := query.Data.MaxCompatibilityRadius(chi2, idx.maxVariance)
	qx, qy := query.Data.Position()

	var out []Unique
	for _, other := range idx.candidatesWithinRadius(qx, qy, radius) {
		if other.ID == query.ID {
			continue
		}
		if query.Data.SameContext(other.Data) {
			continue
		}

		ox, oy := other.Data.Position()
		dx, dy := ox-qx, oy-qy
		if math.Hypot(dx, dy) > radius {
			continue
		}

		if other.Data.IsCompatibleWith(query.Data, chi2) {
			out = append(out, other)
		}
	}

	return out
}

// candidatesWithinRadius returns every indexed observation lying in a
// bucket the query circle of the given radius could possibly reach,
// centred at (x, y). Buckets are a coarsening, not a filter: callers still
// perform the exact distance check.
func (idx *SpatialIndex) candidatesWithinRadius(x, y, radius float64) []Unique {
	minCell := cellOf(x-radius, y-radius)
	maxCell := cellOf(x+radius, y+radius)

	var out []Unique
	for cx := minCell.cx; cx <= maxCell.cx; cx++ {
		for cy := minCell.cy; cy <= maxCell.cy; cy++ {
			out = append(out, idx.buckets[cellKey{cx: cx, cy: cy}]...)
		}
	}

	return out
}

// CompatibilityGraph builds the adjacency of mutually compatible
// observations across the whole index, as (id, neighbour ids) pairs.
// Entries whose neighbour set would be empty are omitted.
func (idx *SpatialIndex) CompatibilityGraph(chi2 float64) map[ID]map[ID]struct{} {
	graph := make(map[ID]map[ID]struct{})
	for _, bucket := range idx.buckets {
		for _, item := range bucket {
			compatible := idx.FindCompatible(item, chi2)
			if len(compatible) == 0 {
				continue
			}

			neighbours := make(map[ID]struct{}, len(compatible))
			for _, other := range compatible {
				neighbours[other.ID] = struct{}{}
			}
			graph[item.ID] = neighbours
		}
	}

	return graph
}

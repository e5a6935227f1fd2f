// Package cabi models the C ABI surface documented for this engine: the
// record layouts and function table a cgo boundary would export. It does
// not itself cross into C — there is no import "C" anywhere in this
// package, and no cgo build tag — it exists so the shape of that boundary
// is exercised and testable in Go, in case a future cgo shim is added on
// top.
package cabi

import (
	"github.com/google/uuid"

	"github.com/clique-fusion/cliquefusion/cliqueindex"
	"github.com/clique-fusion/cliquefusion/compatgraph"
	"github.com/clique-fusion/cliquefusion/covariance"
	"github.com/clique-fusion/cliquefusion/observation"
	"github.com/clique-fusion/cliquefusion/spatialindex"
)

// UUIDBytes is the C-side `u8[16]` representation of a uuid.UUID.
type UUIDBytes [16]byte

// ObservationC mirrors the C-layout observation record: { u8[16] id; f64
// x; f64 y; f64 cov_xx, cov_xy, cov_yy; u8[16] context }. A nil UUID (all
// zero bytes) in Context means "no context". Covariances are accepted
// without revalidation, matching covariance.NewUnchecked.
type ObservationC struct {
	ID                  UUIDBytes
	X, Y                float64
	CovXX, CovXY, CovYY float64
	Context             UUIDBytes
}

// CliqueC mirrors the C-layout clique record: a flat array of member ids.
type CliqueC struct {
	UUIDs []UUIDBytes
}

// CliqueSetC mirrors the C-layout returned clique set: { CliqueC*
// cliques; usize len }, here a Go slice standing in for the pointer+len
// pair.
type CliqueSetC struct {
	Cliques []CliqueC
}

// Chi2Confidence90 returns the 2-DOF chi-squared threshold at 90%
// confidence, mirroring the chi2_confidence_90() C symbol.
func Chi2Confidence90() float64 { return observation.Chi2Confidence90 }

// Chi2Confidence95 returns the 2-DOF chi-squared threshold at 95%
// confidence, mirroring the chi2_confidence_95() C symbol.
func Chi2Confidence95() float64 { return observation.Chi2Confidence95 }

// Chi2Confidence99 returns the 2-DOF chi-squared threshold at 99%
// confidence, mirroring the chi2_confidence_99() C symbol.
func Chi2Confidence99() float64 { return observation.Chi2Confidence99 }

// toUUID converts a C-layout id into a uuid.UUID. The nil UUID round-trips
// to "no context" via decodeObservation.
func toUUID(b UUIDBytes) uuid.UUID {
	return uuid.UUID(b)
}

func fromUUID(id uuid.UUID) UUIDBytes {
	return UUIDBytes(id)
}

// decodeObservation converts a C-layout observation record into a
// spatialindex.Unique, mirroring CliqueIndex_insert's acceptance of raw,
// unvalidated covariance fields.
func decodeObservation(rec ObservationC) spatialindex.Unique {
	cov := covariance.NewUnchecked(rec.CovXX, rec.CovYY, rec.CovXY)

	builder := observation.NewBuilder(rec.X, rec.Y).Error(cov)

	ctx := toUUID(rec.Context)
	if ctx != uuid.Nil {
		builder = builder.Context(ctx)
	}

	return spatialindex.Unique{Data: builder.Build(), ID: toUUID(rec.ID)}
}

// New mirrors CliqueIndex_new(chi2) -> handle: allocates an empty index.
func New(chi2 float64) *cliqueindex.CliqueIndex {
	return cliqueindex.New(chi2)
}

// FromObservations mirrors CliqueIndex_from_observations(chi2, ptr, len)
// -> handle. A nil records slice with a requested length of 0 is
// equivalent to the ptr=NULL && len=0 case and yields an empty index; the
// ptr=NULL && len>0 case the C ABI rejects with NULL has no Go analogue,
// since a Go slice's length and backing pointer cannot disagree.
func FromObservations(chi2 float64, records []ObservationC) *cliqueindex.CliqueIndex {
	batch := make([]spatialindex.Unique, len(records))
	for i, rec := range records {
		batch[i] = decodeObservation(rec)
	}

	return cliqueindex.FromObservations(batch, chi2)
}

// Insert mirrors CliqueIndex_insert(handle, *obs): a no-op if idx is nil,
// matching the C ABI's NULL-pointer tolerance.
func Insert(idx *cliqueindex.CliqueIndex, rec ObservationC) {
	if idx == nil {
		return
	}

	idx.Insert(decodeObservation(rec))
}

// Cliques mirrors CliqueIndex_cliques(handle) -> *CliqueSet: a
// heap-allocated snapshot of the current clique collection. A nil idx
// yields a nil snapshot, matching the C ABI's NULL handle -> NULL result.
func Cliques(idx *cliqueindex.CliqueIndex) *CliqueSetC {
	if idx == nil {
		return nil
	}

	cliques := idx.Cliques()
	out := &CliqueSetC{Cliques: make([]CliqueC, len(cliques))}
	for i, clique := range cliques {
		out.Cliques[i] = CliqueC{UUIDs: vertexSetToUUIDBytes(clique)}
	}

	return out
}

func vertexSetToUUIDBytes(set compatgraph.VertexSet) []UUIDBytes {
	out := make([]UUIDBytes, 0, len(set))
	for id := range set {
		out = append(out, fromUUID(id))
	}

	return out
}

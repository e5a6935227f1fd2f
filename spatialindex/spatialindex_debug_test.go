//go:build debug

package spatialindex_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clique-fusion/cliquefusion/spatialindex"
)

// TestInsertDisallowsDuplicateIds matches scenario S6: inserting the same
// id twice panics with a message mentioning duplication, but only in a
// debug build (built with -tags debug).
func TestInsertDisallowsDuplicateIds(t *testing.T) {
	obs := spatialindex.Unique{Data: circular(t, 0, 0, 5.0), ID: uuid.New()}

	idx := spatialindex.New()
	idx.Insert(obs)

	assert.PanicsWithValue(t, "spatialindex: attempted to insert duplicate observation id "+obs.ID.String(), func() {
		idx.Insert(obs)
	})
}

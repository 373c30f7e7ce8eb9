package id

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_SortedAndUnique(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	prev := ""
	for i := 0; i < 200; i++ {
		id := g.New()
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		// Monotonic entropy keeps same-millisecond IDs ordered.
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestGenerator_IndependentSeeds(t *testing.T) {
	t.Parallel()

	a := NewGenerator().New()
	b := NewGenerator().New()
	assert.NotEqual(t, a, b)
}

package fixture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// countingStore records how often the fixture protocol is invoked.
type countingStore[T any] struct {
	sets    int
	resets  int
	records []T
}

func (s *countingStore[T]) Set(records []T) {
	s.sets++
	s.records = records
}

func (s *countingStore[T]) Reset() { s.resets++ }

func (s *countingStore[T]) Len() int { return len(s.records) }

func TestNewLoader_SeedState(t *testing.T) {
	l := NewLoader(stateful.NewCastleStore(), stateful.NewRulerStore())

	st := l.State()
	assert.Equal(t, 7, st.Castles)
	assert.Equal(t, 6, st.Rulers)
	assert.Equal(t, "seed", st.Fixture.Source)
	assert.Empty(t, st.Fixture.ProviderStates)
}

func TestLoader_ApplyCallsSetOncePerStore(t *testing.T) {
	castles := &countingStore[stateful.Castle]{}
	rulers := &countingStore[stateful.Ruler]{}
	l := NewLoader(castles, rulers)

	doc, err := LoadFile(filepath.Join("testdata", "loire.yaml"))
	require.NoError(t, err)

	sum, err := l.Apply(doc)
	require.NoError(t, err)

	assert.Equal(t, 1, castles.sets)
	assert.Equal(t, 1, rulers.sets)
	assert.Equal(t, 3, sum.Castles)
	assert.Equal(t, 2, sum.Rulers)
	assert.Equal(t, "inline", sum.Source)
	assert.Equal(t, []string{"ruler r2 exists", "castles exist"}, sum.ProviderStates)
}

func TestLoader_ApplyFailureInstallsNothing(t *testing.T) {
	castles := &countingStore[stateful.Castle]{}
	rulers := &countingStore[stateful.Ruler]{}
	l := NewLoader(castles, rulers)

	doc, err := Parse([]byte(`
castles: [{id: c1, name: A, region: B, yearBuilt: 1500}]
interactions:
  - entity: ruler
    body: {id: r1}
`))
	require.NoError(t, err)

	_, err = l.Apply(doc)
	require.Error(t, err)
	assert.Zero(t, castles.sets)
	assert.Zero(t, rulers.sets)
}

func TestLoader_LoadFileThenReset(t *testing.T) {
	castles := stateful.NewCastleStore()
	rulers := stateful.NewRulerStore()
	l := NewLoader(castles, rulers)

	path := filepath.Join("testdata", "loire.yaml")
	sum, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, sum.Source)
	assert.Equal(t, 3, castles.Len())

	// Mutate both stores, then restore the installed fixture.
	require.True(t, castles.Delete("c1"))
	rulers.Create(stateful.RulerInput{Name: "Louis XII", Title: "King of France", ReignStart: intPtr(1498), House: "Valois-Orléans"})
	assert.Equal(t, 2, castles.Len())
	assert.Equal(t, 3, rulers.Len())

	l.Reset()

	st := l.State()
	assert.Equal(t, 3, st.Castles)
	assert.Equal(t, 2, st.Rulers)
	_, ok := castles.Get("c1")
	assert.True(t, ok)
}

func TestLoader_LoadFileMissing(t *testing.T) {
	l := NewLoader(stateful.NewCastleStore(), stateful.NewRulerStore())

	_, err := l.LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, "seed", l.State().Fixture.Source)
}

func intPtr(v int) *int { return &v }

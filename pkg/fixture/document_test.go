package fixture

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/castlepact/pkg/stateful"
)

func TestLoadFile(t *testing.T) {
	doc, err := LoadFile(filepath.Join("testdata", "loire.yaml"))
	require.NoError(t, err)

	assert.Len(t, doc.Castles, 2)
	assert.Len(t, doc.Rulers, 1)
	require.Len(t, doc.Interactions, 2)
	assert.Equal(t, stateful.EntityRuler, doc.Interactions[0].Entity)
	assert.Equal(t, []string{"ruler r2 exists", "castles exist"}, doc.ProviderStates())
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join("testdata", "nope.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join("testdata", "empty.yaml"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(`{"castles":[{"id":"c9","name":"Blois","region":"Centre","yearBuilt":1498}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Castles, 1)
	assert.Equal(t, 1498, doc.Castles[0].YearBuilt)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown top-level key", "palaces: []"},
		{"castle missing name", "castles: [{id: c1, region: Loire, yearBuilt: 1519}]"},
		{"castle year out of range", "castles: [{id: c1, name: A, region: Loire, yearBuilt: 900}]"},
		{"ruler reignStart not integer", "rulers: [{id: r1, name: A, title: King, reignStart: soon, house: H}]"},
		{"interaction unknown entity", "interactions: [{entity: knight, body: {}}]"},
		{"interaction without body", "interactions: [{entity: castle}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestParse_InvalidSyntax(t *testing.T) {
	_, err := Parse([]byte("castles: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidSyntax)
}

func TestRecords_MergesInteractions(t *testing.T) {
	doc, err := LoadFile(filepath.Join("testdata", "loire.yaml"))
	require.NoError(t, err)

	recs, err := doc.Records()
	require.NoError(t, err)

	castleIDs := make([]string, len(recs.Castles))
	for i, c := range recs.Castles {
		castleIDs[i] = c.ID
	}
	assert.Equal(t, []string{"c1", "c2", "c3"}, castleIDs)
	// The interaction's c2 replaces the literal one in place.
	assert.Equal(t, 1522, recs.Castles[1].YearBuilt)
	assert.Equal(t, "Rebuilt by Thomas Bohier.", recs.Castles[1].Description)
	assert.Equal(t, stateful.DefaultCastleDescription, recs.Castles[2].Description)

	require.Len(t, recs.Rulers, 2)
	assert.Equal(t, "r1", recs.Rulers[0].ID)
	assert.Equal(t, []string{"c1"}, recs.Rulers[0].CastleIDs)
	assert.NotNil(t, recs.Rulers[0].Achievements)
	assert.Equal(t, "r2", recs.Rulers[1].ID)
	require.NotNil(t, recs.Rulers[1].ReignEnd)
	assert.Equal(t, 1559, *recs.Rulers[1].ReignEnd)
}

func TestRecords_LiteralCastleWithoutDescription(t *testing.T) {
	doc, err := Parse([]byte(`{"castles":[{"id":"c9","name":"Blois","region":"Centre","yearBuilt":1498}]}`))
	require.NoError(t, err)

	recs, err := doc.Records()
	require.NoError(t, err)
	require.Len(t, recs.Castles, 1)
	assert.Equal(t, stateful.DefaultCastleDescription, recs.Castles[0].Description)
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader("rulers:\n  - {id: r7, name: Louis XII, title: King of France, reignStart: 1498, reignEnd: 1515, house: Valois-Orléans}\n"))
	require.NoError(t, err)
	require.Len(t, doc.Rulers, 1)
	assert.Equal(t, "Louis XII", doc.Rulers[0].Name)

	_, err = ParseReader(strings.NewReader("  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestRecords_DefaultSelect(t *testing.T) {
	doc, err := Parse([]byte(`
interactions:
  - entity: castle
    body: {id: c5, name: Château d'Azay-le-Rideau, region: Centre-Val de Loire, yearBuilt: 1518}
  - entity: castle
    body:
      - {id: c6, name: Château de Villandry, region: Centre-Val de Loire, yearBuilt: 1536}
`))
	require.NoError(t, err)

	recs, err := doc.Records()
	require.NoError(t, err)
	require.Len(t, recs.Castles, 2)
	assert.Equal(t, "c5", recs.Castles[0].ID)
	assert.Equal(t, "c6", recs.Castles[1].ID)
	assert.Empty(t, recs.Rulers)
}

func TestRecords_RejectsBadExtraction(t *testing.T) {
	t.Run("scalar match", func(t *testing.T) {
		doc, err := Parse([]byte(`
interactions:
  - entity: castle
    select: $.count
    body: {count: 3}
`))
		require.NoError(t, err)
		_, err = doc.Records()
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("record fails entity schema", func(t *testing.T) {
		doc, err := Parse([]byte(`
interactions:
  - description: broken ruler
    entity: ruler
    body: {id: r9, name: Nobody}
`))
		require.NoError(t, err)
		_, err = doc.Records()
		assert.ErrorIs(t, err, ErrInvalidRecord)
		assert.Contains(t, err.Error(), "broken ruler")
	})
}

func TestRecords_NoMatchIsEmpty(t *testing.T) {
	doc, err := Parse([]byte(`
interactions:
  - entity: ruler
    select: $.data.getRuler
    body: {errors: [{message: not found}]}
`))
	require.NoError(t, err)

	recs, err := doc.Records()
	require.NoError(t, err)
	assert.Empty(t, recs.Rulers)
	assert.NotNil(t, recs.Rulers)
}

package stateful

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(y int) func() time.Time {
	return func() time.Time { return time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC) }
}

func rulerIDs(rs []Ruler) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func TestRulerStore_CreateDefaults(t *testing.T) {
	s := NewRulerStore()

	r := s.Create(RulerInput{Name: "Philip II", Title: "King of France", ReignStart: intPtr(1180), House: "Capet"})

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, []string{}, r.CastleIDs)
	assert.Equal(t, []string{}, r.Achievements)
	assert.Equal(t, "", r.Description)
	assert.Nil(t, r.ReignEnd)

	got, ok := s.Get(r.ID)
	require.True(t, ok)
	assert.Equal(t, r, got)
}

func TestRulerStore_CreateCollapsesDuplicateCastles(t *testing.T) {
	s := NewRulerStore()

	r := s.Create(RulerInput{
		Name: "Philip II", Title: "King", ReignStart: intPtr(1180), ReignEnd: intPtr(1223), House: "Capet",
		CastleIDs: []string{"c4", "c2", "c4", "c2", "c1"},
	})

	assert.Equal(t, []string{"c4", "c2", "c1"}, r.CastleIDs)
	require.NotNil(t, r.ReignEnd)
	assert.Equal(t, 1223, *r.ReignEnd)
}

func TestRulerStore_UpdateMergesProvidedFields(t *testing.T) {
	s := NewRulerStore()
	before, ok := s.Get("r1")
	require.True(t, ok)

	got, ok := s.Update("r1", RulerPatch{Description: strPtr("X")})
	require.True(t, ok)

	assert.Equal(t, "X", got.Description)
	assert.Equal(t, before.CastleIDs, got.CastleIDs)
	assert.Equal(t, before.Name, got.Name)
	assert.Equal(t, before.ReignEnd, got.ReignEnd)
	assert.Equal(t, before.Achievements, got.Achievements)
}

func TestRulerStore_UpdateKeepsCastleAssociations(t *testing.T) {
	s := NewRulerStore()
	_, ok := s.AddCastle("r5", "c3")
	require.True(t, ok)

	got, ok := s.Update("r5", RulerPatch{
		Name:         strPtr("Ludwig II of Bavaria"),
		Title:        strPtr("King"),
		ReignStart:   intPtr(1864),
		ReignEnd:     intPtr(1886),
		House:        strPtr("Wittelsbach"),
		Achievements: &[]string{"Neuschwanstein", "Linderhof"},
	})
	require.True(t, ok)

	assert.Equal(t, []string{"c6", "c3"}, got.CastleIDs)
	assert.Equal(t, []string{"Neuschwanstein", "Linderhof"}, got.Achievements)
	assert.Equal(t, "Ludwig II of Bavaria", got.Name)
}

func TestRulerStore_UpdateDoesNotCheckReignOrdering(t *testing.T) {
	s := NewRulerStore()

	got, ok := s.Update("r1", RulerPatch{ReignEnd: intPtr(1000)})
	require.True(t, ok)
	assert.Equal(t, 1000, *got.ReignEnd)
}

func TestRulerStore_UpdateMissing(t *testing.T) {
	s := NewRulerStore()

	_, ok := s.Update("missing", RulerPatch{Name: strPtr("nobody")})
	assert.False(t, ok)
}

func TestRulerStore_Delete(t *testing.T) {
	s := NewRulerStore()

	assert.True(t, s.Delete("r2"))
	_, ok := s.Get("r2")
	assert.False(t, ok)
	assert.False(t, s.Delete("r2"))
}

func TestRulerStore_ByCastle(t *testing.T) {
	s := NewRulerStore()

	assert.Equal(t, []string{"r1", "r2", "r3"}, rulerIDs(s.ByCastle("c4")))
	assert.Equal(t, []string{"r5"}, rulerIDs(s.ByCastle("c6")))
	assert.Empty(t, s.ByCastle("nowhere"))
}

func TestRulerStore_ByHouse(t *testing.T) {
	tests := []struct {
		house string
		want  []string
	}{
		{house: "Bourbon", want: []string{"r1", "r2", "r3"}},
		{house: "bour", want: []string{"r1", "r2", "r3"}},
		{house: "VALOIS", want: []string{"r4"}},
		{house: "sor", want: []string{"r6"}},
		{house: "Habsburg", want: []string{}},
		{house: "", want: []string{"r1", "r2", "r3", "r4", "r5", "r6"}},
	}

	s := NewRulerStore()
	for _, tt := range tests {
		t.Run(tt.house, func(t *testing.T) {
			assert.Equal(t, tt.want, rulerIDs(s.ByHouse(tt.house)))
		})
	}
}

// Overlap is reignStart <= end && reignEnd >= start, so a reign that began
// before the period but ended inside it is returned. Henri IV (1589-1610) is in
// the 1600-1700 result even though an "exclude reigns starting earlier" reading
// would drop him.
func TestRulerStore_ByPeriod_1600To1700IncludesHenriIVWhoseReignStartedIn1589(t *testing.T) {
	s := NewRulerStore(WithClock(fixedClock(2026)))

	got := rulerIDs(s.ByPeriod(1600, 1700))
	assert.Contains(t, got, "r1", "1643-1715 overlaps")
	assert.Contains(t, got, "r2", "1610-1643 overlaps")
	assert.Contains(t, got, "r3", "1589-1610 ends inside the period and is kept")
}

func TestRulerStore_ByPeriod(t *testing.T) {
	s := NewRulerStore(WithClock(fixedClock(2026)))

	tests := []struct {
		name       string
		start, end int
		want       []string
	}{
		{name: "inclusive upper bound", start: 1715, end: 1800, want: []string{"r1"}},
		{name: "inclusive lower bound", start: 1400, end: 1515, want: []string{"r4"}},
		{name: "gap between reigns", start: 1548, end: 1588, want: []string{}},
		{name: "open reign reaches now", start: 2025, end: 2030, want: []string{"r6"}},
		{name: "open reign not yet started", start: 1900, end: 2021, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rulerIDs(s.ByPeriod(tt.start, tt.end)))
		})
	}
}

func TestRulerStore_ByPeriodExcludesEarlierReign(t *testing.T) {
	s := NewRulerStore(WithClock(fixedClock(2026)))

	got := rulerIDs(s.ByPeriod(1611, 1700))
	assert.Contains(t, got, "r1")
	assert.Contains(t, got, "r2")
	assert.NotContains(t, got, "r3", "1589-1610 ends before 1611")
}

func TestRulerStore_ByPeriodOpenReignUsesClock(t *testing.T) {
	s := NewRulerStore(WithClock(fixedClock(2023)))

	assert.Empty(t, s.ByPeriod(2024, 2030))
	assert.Equal(t, []string{"r6"}, rulerIDs(s.ByPeriod(2023, 2030)))
}

func TestRulerStore_AddCastleIdempotent(t *testing.T) {
	s := NewRulerStore()

	first, ok := s.AddCastle("r4", "c7")
	require.True(t, ok)
	second, ok := s.AddCastle("r4", "c7")
	require.True(t, ok)

	assert.Equal(t, first, second)
	count := 0
	for _, id := range second.CastleIDs {
		if id == "c7" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"c2", "c3", "c7"}, second.CastleIDs)
}

func TestRulerStore_AddCastleDoesNotCheckCastleExists(t *testing.T) {
	s := NewRulerStore()

	got, ok := s.AddCastle("r1", "ghost")
	require.True(t, ok)
	assert.Contains(t, got.CastleIDs, "ghost")
}

func TestRulerStore_RemoveCastle(t *testing.T) {
	s := NewRulerStore()

	got, ok := s.RemoveCastle("r1", "c2")
	require.True(t, ok)
	assert.Equal(t, []string{"c1", "c4"}, got.CastleIDs)

	again, ok := s.RemoveCastle("r1", "c2")
	require.True(t, ok, "removing an absent association is not an error")
	assert.Equal(t, got, again)

	_, ok = s.RemoveCastle("missing", "c2")
	assert.False(t, ok)
	_, ok = s.AddCastle("missing", "c2")
	assert.False(t, ok)
}

func TestRulerStore_ReadsAreDefensiveCopies(t *testing.T) {
	s := NewRulerStore()

	r, ok := s.Get("r1")
	require.True(t, ok)
	r.CastleIDs[0] = "tampered"
	r.Achievements = append(r.Achievements, "tampered")
	*r.ReignEnd = 9999

	list := s.List()
	list[0].CastleIDs[0] = "tampered"

	fresh, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "c1", fresh.CastleIDs[0])
	assert.NotContains(t, fresh.Achievements, "tampered")
	assert.Equal(t, 1715, *fresh.ReignEnd)
}

func TestRulerStore_ResetRestoresLastSet(t *testing.T) {
	s := NewRulerStore()
	fixture := []Ruler{
		{ID: "a", Name: "A", Title: "Duke", ReignStart: 1100, House: "X", CastleIDs: []string{"k1"}, Achievements: []string{}},
		{ID: "b", Name: "B", Title: "Count", ReignStart: 1200, ReignEnd: intPtr(1250), House: "Y", CastleIDs: []string{}, Achievements: []string{"won"}},
	}
	s.Set(fixture)

	s.AddCastle("a", "k2")
	s.RemoveCastle("a", "k1")
	s.Update("b", RulerPatch{Name: strPtr("changed")})
	s.Delete("b")
	s.Create(RulerInput{Name: "C", Title: "T", ReignStart: intPtr(1300), House: "Z"})

	s.Reset()
	assert.Equal(t, fixture, s.List())

	s.Reset()
	assert.Equal(t, fixture, s.List(), "reset is repeatable")
}

package testing

import (
	"testing"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// AssertCastleCount asserts the number of castles in the current collection.
func (p *Provider) AssertCastleCount(t testing.TB, want int) {
	t.Helper()
	if got := p.server.Castles().Len(); got != want {
		t.Errorf("expected %d castles, got %d", want, got)
	}
}

// AssertRulerCount asserts the number of rulers in the current collection.
func (p *Provider) AssertRulerCount(t testing.TB, want int) {
	t.Helper()
	if got := p.server.Rulers().Len(); got != want {
		t.Errorf("expected %d rulers, got %d", want, got)
	}
}

// AssertCastleExists asserts that a castle with id is in the current collection.
func (p *Provider) AssertCastleExists(t testing.TB, id string) stateful.Castle {
	t.Helper()
	c, ok := p.server.Castles().Get(id)
	if !ok {
		t.Errorf("expected castle %q to exist", id)
	}
	return c
}

// AssertRulerExists asserts that a ruler with id is in the current collection.
func (p *Provider) AssertRulerExists(t testing.TB, id string) stateful.Ruler {
	t.Helper()
	r, ok := p.server.Rulers().Get(id)
	if !ok {
		t.Errorf("expected ruler %q to exist", id)
	}
	return r
}

// AssertRulerHasCastle asserts that the ruler id is associated with castleID.
func (p *Provider) AssertRulerHasCastle(t testing.TB, id, castleID string) {
	t.Helper()
	r, ok := p.server.Rulers().Get(id)
	if !ok {
		t.Errorf("expected ruler %q to exist", id)
		return
	}
	if !r.HasCastle(castleID) {
		t.Errorf("expected ruler %q to be associated with castle %q, got %v", id, castleID, r.CastleIDs)
	}
}

// Package testing provides a testing SDK for running castlepact inside Go
// tests.
//
// A Provider starts the castle REST surface and the ruler GraphQL surface on
// httptest servers and stops them when the test ends:
//
//	func TestCastleClient(t *testing.T) {
//	    p := castlepacttest.New(t, castlepacttest.WithFixtureFile("testdata/loire.yaml"))
//
//	    client := castles.NewClient(p.RESTURL())
//	    got, err := client.Get(ctx, "c1")
//	    ...
//	    p.AssertCastleCount(t, 3)
//	}
//
// Between scenarios call Reset to restore both stores to the installed
// fixture, or Setup to install a different one.
//
// The ruler lookups behind /castles/{id}/rulers use the in-process ruler store
// unless WithRemoteRulers points them at the provider's own GraphQL server.
package testing

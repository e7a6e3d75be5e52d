// Package fixture loads verification fixtures into the castle and ruler
// stores and exposes the provider-state hooks a contract verifier calls.
//
// A fixture document is YAML or JSON:
//
//	castles:
//	  - {id: c1, name: Chambord, region: Centre-Val de Loire, yearBuilt: 1519}
//	rulers:
//	  - {id: r1, name: François I, title: King of France, reignStart: 1515, house: Valois}
//	interactions:
//	  - description: get ruler r2
//	    providerState: ruler r2 exists
//	    entity: ruler
//	    select: $.data.getRuler
//	    body: {data: {getRuler: {id: r2, ...}}}
//
// Records listed under castles and rulers are taken as is. Each interaction
// contributes the records its select JSONPath finds in the recorded body;
// select defaults to "$". Records are grouped by entity and a later record
// replaces an earlier one with the same id. The Loader then calls Set once per
// store; between scenarios the Harness calls Reset.
package fixture

// Package rest serves the castle catalog over HTTP.
//
// Routes:
//
//	GET    /castles              list, optional ?region= substring filter
//	GET    /castles/oldest       ?limit=N, ascending by yearBuilt
//	GET    /castles/with-rulers  every castle joined with its rulers
//	GET    /castles/{id}
//	GET    /castles/{id}/rulers
//	POST   /castles              201 with the created castle
//	DELETE /castles/{id}         204, or 404 when absent
//	GET    /openapi.json
//
// Errors are written as {"error": kind, "message": text} where kind is
// not_found, validation_error or internal_error.
package rest

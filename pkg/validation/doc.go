// Package validation rejects malformed mutations before they reach a store.
//
// Two layers are provided. The input validators (ValidateCastleInput,
// ValidateRulerInput, ValidateRulerPatch) apply struct tag rules through
// go-playground/validator plus the reign ordering rule, and report the first
// failing field as a *stateful.ValidationError. The OpenAPI middleware checks
// REST requests against the castle API document with kin-openapi and answers
// failures with a {"error": "validation_error", "message": ...} body.
//
//	v, err := validation.NewOpenAPIValidator(specBytes)
//	if err != nil {
//	    return err
//	}
//	handler = validation.NewMiddleware(handler, v, logger)
package validation

// Package classify recodes errors from several origins into a user-facing
// message template, interpolation values, and a severity.
//
// Callers sort an error into one Input variant at the boundary (see
// pkg/envelope), then:
//
//	rec := classify.Classify(input, codes.Default())
//	if rec == nil {
//	    return // no error to show
//	}
//
// Codes missing from the table resolve to GENERAL_SUPPORT_ERROR. Classify
// never fails and keeps no state between calls.
package classify

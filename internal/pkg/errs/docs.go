// Package errs provides standardized error types for the comanda station service.
//
// Each error type pairs a sentinel (ErrValueIsRequired, ErrValueIsInvalid, ...)
// with a struct carrying the details. Unwrap returns the sentinel so callers
// classify failures with errors.Is, and read the details with errors.As.
//
// The Cause field is optional; constructors come in pairs with and without it.
package errs

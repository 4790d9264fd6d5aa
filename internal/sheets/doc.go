// Package sheets retrieves the published course spreadsheets as CSV and
// hands them to the decoders in internal/dataprocessing.
//
// Loader.LoadAll issues the grade, homework and lecture-absence retrievals
// concurrently and fails as a whole when any one of them fails. No partial
// dataset is returned. Every request carries a cache-busting query parameter
// because the publishing endpoint sits behind a shared cache.
//
// Failures are *errors.AppError values of type NETWORK that wrap
// ErrRetrievalFailed and carry the failing source and, for non-2xx responses,
// the upstream status code.
package sheets

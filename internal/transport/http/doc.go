// Package http implements the HTTP handlers of the gradebook API.
//
// Handlers stay thin: they read the caller from the request context, parse
// parameters, call a service and render JSON with go-chi/render. Every error
// goes through errors.ErrorHandler and is answered as RFC 7807 problem JSON.
//
// # Routes
//
//	GET  /api/v1/me                        own report
//	GET  /api/v1/grades                    grade records
//	GET  /api/v1/lecture-absences          missed lectures
//	GET  /api/v1/homework                  all homework
//	GET  /api/v1/homework/lookup           one schedule slot
//	GET  /api/v1/ranking                   rating table
//	GET  /api/v1/dashboard                 per-student analytics (admin)
//	GET  /api/v1/advice/grades/{subject}   weak topic advice
//	GET  /api/v1/advice/rating             rating advice
//	GET  /api/v1/advice/absences           absence advice
//	POST /api/v1/refresh                   reload the sheets
//
// Non-admin callers only ever receive their own records. The admin may pass
// ?student=<id> to narrow record lists.
package http

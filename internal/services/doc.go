// Package services holds the gradebook business logic between the HTTP
// handlers and the sheet loader.
//
// # Services
//
//   - GradebookService: owns the current Dataset, refreshes it and answers
//     per-student queries
//   - AdviceService: builds advice prompts from the current Dataset
//   - HealthService: liveness, readiness and version reporting
//
// # Data lifecycle
//
// GradebookService starts empty. Until the first successful Refresh every
// query returns an UNAVAILABLE AppError. A failed Refresh keeps the previous
// Dataset. Concurrent refreshes are not coalesced and the one that completes
// last is kept.
//
// # Visibility
//
// Queries take a Viewer. The admin sees every student, anyone else only the
// records whose StudentID equals their own ID.
package services

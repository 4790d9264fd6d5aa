// Package api contains the request and response shapes of the v1 HTTP API.
package api

import "time"

// HomeworkLookupRequest are the query parameters of GET /api/v1/homework/lookup
type HomeworkLookupRequest struct {
	Week    int    `json:"week" query:"week" validate:"min=1"`
	Day     string `json:"day" query:"day" validate:"required"`
	Subject string `json:"subject" query:"subject" validate:"required"`
}

// ListResponse wraps record lists with their count and the time the served
// data was loaded
type ListResponse struct {
	Count    int         `json:"count"`
	LoadedAt time.Time   `json:"loaded_at"`
	Items    interface{} `json:"items"`
}

// AdviceResponse is the body of every advice endpoint
type AdviceResponse struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text"`
}

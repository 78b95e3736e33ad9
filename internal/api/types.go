// Package api holds the JSON shapes exchanged with the browser chat client.
package api

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse carries the model's final answer.
type QueryResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is returned for every non-200 outcome.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

package handler

// APIResponse is the envelope every endpoint answers with, delete excepted.
// Absent fields are omitted from the JSON.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

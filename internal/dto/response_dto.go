package dto

// ErrorResponse is the uniform error envelope for all handlers.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

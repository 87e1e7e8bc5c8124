package res

// ErrorResponse carries the error taxonomy kind so callers can tell a failed
// write apart from a store divergence.
type ErrorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Kind       string `json:"kind,omitempty"`
	Error      any    `json:"error"`
}

package dto

// ErrorResponse is the wire shape of every error. Error is a coarse,
// user-safe message; Details optionally narrows it down without leaking
// store or driver internals.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates an error response with just a message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// WithDetails attaches detail text to the response.
func (e ErrorResponse) WithDetails(details string) ErrorResponse {
	e.Details = details
	return e
}

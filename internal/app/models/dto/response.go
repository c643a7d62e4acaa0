package dto

// SuccessResponse acknowledges a mutation with no body of its own
// (delete, reorder, logout).
type SuccessResponse struct {
	Success bool `json:"success"`
}

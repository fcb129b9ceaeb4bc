package dto

// APIResponse is the envelope every endpoint answers with. Status mirrors the HTTP
// status code and Data is null when there is nothing to return.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"Operation completed successfully"`
	Data    interface{} `json:"data"`
}

// NewAPIResponse creates a new envelope
func NewAPIResponse(status int, message string, data interface{}) APIResponse {
	return APIResponse{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// FieldError describes one failing field of a request body
type FieldError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"email must be a valid email address"`
}

// HealthResponse is the payload of the health endpoint
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

package api

// ErrorResponse is the uniform failure body. Message is either a single
// string or a list of "field : message" lines.
type ErrorResponse struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

func Failure(message any) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

package dto

// APIResponse is the envelope of every successful response.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the envelope of every failed response. It carries no payload.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewAPIResponse builds a success envelope; success follows the status class.
func NewAPIResponse(statusCode int, data any, message string) APIResponse {
	if message == "" {
		message = "Success"
	}
	return APIResponse{StatusCode: statusCode, Data: data, Message: message, Success: statusCode < 400}
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(statusCode int, message string) ErrorResponse {
	if message == "" {
		message = "Something went wrong"
	}
	return ErrorResponse{StatusCode: statusCode, Message: message, Success: false}
}

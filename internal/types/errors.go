package types

// API error codes returned by the HTTP layer.
const (
	ErrCodeBadRequest = "SCHEMA_400"
	ErrCodeStructural = "SCHEMA_422"
	ErrCodeInternal   = "SCHEMA_500"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds the API error payload. details is usually a
// string or the list of structural errors.
func NewErrorResponse(code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func BadRequest(details any) ErrorResponse {
	return NewErrorResponse(ErrCodeBadRequest, "Invalid request body", details)
}

package types

// SuccessEnvelope wraps every 2xx JSON body under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Code is stable and machine readable,
// Message is safe to show end users, Details carries field-level validation
// info when the error class allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps non-2xx JSON bodies under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewAPIError builds the public error shape from a code and message.
func NewAPIError(code, message string) APIError {
	return APIError{Code: code, Message: message}
}

package types

// SuccessEnvelope wraps every successful payload so clients always unwrap
// the same top-level shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a failed request. Details only appears for
// codes whose metadata allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

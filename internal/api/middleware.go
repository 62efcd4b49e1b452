package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the current envelope format version. Clients check this
// field before parsing the rest of the payload.
const EnvelopeVersion = 1

// APIEnvelope wraps all API responses in a consistent structure.
type APIEnvelope struct {
	Version int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message for failed requests"`
}

// APIErrorEnvelope wraps detailed errors that carry a machine-readable code.
type APIErrorEnvelope struct {
	Version int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Always false"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in an envelope with a version
// field. Registered as a huma transformer so handlers return plain DTOs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 500
	}

	if code < 400 {
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	// Detailed errors keep their code/message/details structure.
	if apiErr, ok := v.(*APIError); ok && apiErr.Code != "" {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	var msg string
	if e, ok := v.(error); ok {
		msg = e.Error()
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Error:   msg,
	}, nil
}

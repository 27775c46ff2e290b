package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Bump it
// only alongside a coordinated client release.
const envelopeVersion = 1

// successEnvelope wraps successful responses.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// errorEnvelope wraps simple error responses.
type errorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// detailedErrorEnvelope wraps errors that carry a machine-readable code.
type detailedErrorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope
// clients rely on. Registered as a huma transformer.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)
	success := code < 400

	switch val := v.(type) {
	case nil:
		return successEnvelope{V: envelopeVersion, Success: success}, nil
	case *APIError:
		if val.Code != "" || val.Details != nil {
			return detailedErrorEnvelope{
				V:       envelopeVersion,
				Success: false,
				Code:    val.Code,
				Message: val.Message,
				Details: val.Details,
			}, nil
		}
		return errorEnvelope{V: envelopeVersion, Success: false, Error: val.Message}, nil
	case error:
		return errorEnvelope{V: envelopeVersion, Success: false, Error: val.Error()}, nil
	}

	return successEnvelope{V: envelopeVersion, Success: success, Data: v}, nil
}

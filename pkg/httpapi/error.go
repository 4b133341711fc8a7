package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteFieldErrors answers a validation failure with a per-field error map so
// the caller can re-render its form without losing input.
func WriteFieldErrors(w http.ResponseWriter, requestID string, fields map[string]string) error {
	return WriteJSON(w, http.StatusUnprocessableEntity, &ErrorEnvelope{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
		Meta:    map[string]string{"request_id": requestID},
		Fields:  fields,
	})
}

var ErrEmptyBody = errors.New("empty request body")

// DecodeJSON decodes a request body, disallowing unknown fields so typos in
// payloads surface as 400s instead of silently dropped data.
func DecodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services and keep transport concerns (decoding, status mapping) here.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"homeleads/pkg/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler produces the same JSON error envelope. Internal errors get a
// generic message; their detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	message := "internal error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code != apperrors.CodeInternal {
		message = appErr.Message
	}
	writeJSON(w, apperrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return false
	}
	return true
}

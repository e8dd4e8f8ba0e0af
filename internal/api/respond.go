package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/roomforge/pkg/errors"
)

// errorResponse is the JSON body returned for every error.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a structured error to an HTTP status and JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: err.Error(),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeJobNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeSolveCancelled), errors.Is(err, errors.ErrCodeSolveTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, errors.ErrCodeStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

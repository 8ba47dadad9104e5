package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// errorBody is the JSON error envelope every failure returns
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case shared.KindUpstreamError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := shared.KindOf(err)
	status := statusFor(kind)

	body := errorBody{Error: errorDetail{
		Code:    string(kind),
		Message: err.Error(),
	}}
	var appErr *shared.AppError
	if errors.As(err, &appErr) {
		body.Error.Message = appErr.Message
		body.Error.Details = appErr.Details
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

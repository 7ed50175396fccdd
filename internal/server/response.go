package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/depskew/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := http.StatusBadRequest
	if code == "" || code == errs.ErrCodeInternal {
		code = errs.ErrCodeInternal
		status = http.StatusInternalServerError
	}

	id := requestIDFrom(r.Context())
	s.opts.Logger.Warn("request failed", "request_id", id, "code", code, "error", err)
	writeJSON(w, status, ErrorResponse{
		Code:      string(code),
		Message:   errs.UserMessage(err),
		RequestID: id,
	})
}

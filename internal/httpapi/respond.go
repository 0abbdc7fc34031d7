package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/orgball2608/social-feed/pkg/errors"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status. Server errors are logged and carry the raw error text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	msg := apperrors.GetMessage(err)
	if status >= http.StatusInternalServerError {
		msg = err.Error()
		s.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeBody reads a JSON body of at most MaxBodyBytes into v.
// An empty body leaves v untouched when allowEmpty is set.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	case errors.Is(err, io.EOF):
		return apperrors.Invalid("request body is required")
	case errors.As(err, &tooLarge):
		return apperrors.Invalid("request body exceeds %d bytes", tooLarge.Limit)
	default:
		return apperrors.Invalid("invalid JSON body: %s", err.Error())
	}
}

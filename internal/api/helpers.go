package api

import (
	"encoding/json/v2"
	"net/http"

	domainerrors "github.com/openmusicapp/openmusic-server/internal/errors"
)

// decodeBody reads and validates a JSON request body into v. The body
// is capped to the configured maximum before decoding.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	if err := json.UnmarshalRead(r.Body, v); err != nil {
		return domainerrors.Validation("request body is not valid JSON")
	}
	return s.validator.Validate(v)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/records"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body into dst and checks its validate tags.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := records.Validate(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// decoder returns a records decoder resolving enactment text from the
// provision store.
func (s *Server) decoder() *records.Decoder {
	if s.provisions == nil {
		return records.NewDecoder(nil)
	}
	return records.NewDecoder(s.provisions)
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/storage"
	"github.com/mscarey/AuthoritySpoke-sub000/pkg/models"
)

// handleGetProvisions serves GET /provisions?node=...[&date=YYYY-MM-DD][&descendants=true]
func (s *Server) handleGetProvisions(w http.ResponseWriter, r *http.Request) {
	if s.provisions == nil {
		respondError(w, http.StatusServiceUnavailable, "provision store not configured")
		return
	}

	node := r.URL.Query().Get("node")
	if node == "" {
		respondError(w, http.StatusBadRequest, "node is required")
		return
	}

	if descendants, _ := strconv.ParseBool(r.URL.Query().Get("descendants")); descendants {
		provisions, err := s.provisions.ListByPrefix(r.Context(), node)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "failed to list provisions", "node", node, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list provisions")
			return
		}
		views := make([]models.Provision, len(provisions))
		for i, p := range provisions {
			views[i] = provisionView(p)
		}
		respondJSON(w, http.StatusOK, views)
		return
	}

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	p, err := s.provisions.GetByNode(r.Context(), node, date)
	if errors.Is(err, storage.ErrProvisionNotFound) {
		respondError(w, http.StatusNotFound, "provision not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to get provision", "node", node, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get provision")
		return
	}

	respondJSON(w, http.StatusOK, provisionView(p))
}

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/holding"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/records"
	"github.com/mscarey/AuthoritySpoke-sub000/pkg/models"
)

// CombinationRequest names two holdings to combine. Both share one
// namespace, so the right holding may refer to factors named in the left.
type CombinationRequest struct {
	Left  *records.HoldingRecord `json:"left" validate:"required"`
	Right *records.HoldingRecord `json:"right" validate:"required"`
}

func (s *Server) handleAddHoldings(w http.ResponseWriter, r *http.Request) {
	s.combine(w, r, "add", (*holding.Holding).Add)
}

func (s *Server) handleUnionHoldings(w http.ResponseWriter, r *http.Request) {
	s.combine(w, r, "union", (*holding.Holding).Union)
}

func (s *Server) combine(w http.ResponseWriter, r *http.Request, operation string, op func(a, b *holding.Holding) (*holding.Holding, bool)) {
	var req CombinationRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dec := s.decoder()
	left, err := dec.Holding(r.Context(), req.Left)
	if err != nil {
		respondError(w, http.StatusBadRequest, "left: "+err.Error())
		return
	}
	right, err := dec.Holding(r.Context(), req.Right)
	if err != nil {
		respondError(w, http.StatusBadRequest, "right: "+err.Error())
		return
	}

	result, ok := op(left, right)
	if !ok {
		s.logger.DebugContext(r.Context(), "holdings do not combine", "operation", operation)
		respondError(w, http.StatusUnprocessableEntity, "the holdings cannot be combined by "+operation)
		return
	}

	respondJSON(w, http.StatusOK, models.Combination{
		ID:        uuid.New().String(),
		Operation: operation,
		Holding:   holdingView(result),
	})
}

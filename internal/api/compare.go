package api

import (
	"iter"
	"net/http"

	"github.com/google/uuid"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/records"
	"github.com/mscarey/AuthoritySpoke-sub000/pkg/models"
)

// FactorComparisonRequest asks how one factor relates to another
type FactorComparisonRequest struct {
	Left     *records.FactorRecord `json:"left" validate:"required"`
	Right    *records.FactorRecord `json:"right" validate:"required"`
	Relation string                `json:"relation" validate:"required"`
	// Exhaustive lists every explanation instead of the first.
	Exhaustive bool `json:"exhaustive"`
}

// HoldingComparisonRequest asks how one holding relates to another
type HoldingComparisonRequest struct {
	Left       *records.HoldingRecord `json:"left" validate:"required"`
	Right      *records.HoldingRecord `json:"right" validate:"required"`
	Relation   string                 `json:"relation" validate:"required"`
	Exhaustive bool                   `json:"exhaustive"`
}

func (s *Server) handleCompareFactors(w http.ResponseWriter, r *http.Request) {
	var req FactorComparisonRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rel, err := factor.ParseRelation(req.Relation)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	left, err := s.decoder().Factor(req.Left)
	if err != nil {
		respondError(w, http.StatusBadRequest, "left: "+err.Error())
		return
	}
	right, err := s.decoder().Factor(req.Right)
	if err != nil {
		respondError(w, http.StatusBadRequest, "right: "+err.Error())
		return
	}

	seq := factor.Explanations(left, right, rel, factor.Register{})
	respondJSON(w, http.StatusOK, s.comparison(rel, seq, req.Exhaustive))
}

func (s *Server) handleCompareHoldings(w http.ResponseWriter, r *http.Request) {
	var req HoldingComparisonRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rel, err := factor.ParseRelation(req.Relation)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	left, err := s.decoder().Holding(r.Context(), req.Left)
	if err != nil {
		respondError(w, http.StatusBadRequest, "left: "+err.Error())
		return
	}
	right, err := s.decoder().Holding(r.Context(), req.Right)
	if err != nil {
		respondError(w, http.StatusBadRequest, "right: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.comparison(rel, left.Explanations(right, rel), req.Exhaustive))
}

// comparison drains seq into a response. Without exhaustive it stops at
// the first explanation; otherwise it stops at maxExplanations and looks
// one further to report truncation.
func (s *Server) comparison(rel factor.Relation, seq iter.Seq[factor.Explanation], exhaustive bool) models.Comparison {
	limit := 1
	if exhaustive {
		limit = s.maxExplanations
	}

	result := models.Comparison{
		ID:           uuid.New().String(),
		Relation:     rel.String(),
		Explanations: []models.Explanation{},
	}
	for e := range seq {
		if len(result.Explanations) == limit {
			result.Truncated = true
			break
		}
		result.Explanations = append(result.Explanations, explanationView(e))
		if !exhaustive && len(result.Explanations) == limit {
			break
		}
	}
	result.Holds = len(result.Explanations) > 0
	return result
}

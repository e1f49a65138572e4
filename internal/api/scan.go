package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/contradiction"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/records"
	"github.com/mscarey/AuthoritySpoke-sub000/pkg/models"
)

// ScanRequest asks for every conflicting pair within a casebook
type ScanRequest struct {
	Holdings []*records.HoldingRecord `json:"holdings" validate:"required,min=2,dive,required"`
	// IncludeRedundant also reports holdings implied by another holding.
	IncludeRedundant bool `json:"include_redundant"`
}

func (s *Server) handleScanHoldings(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	holdings, err := s.decoder().Holdings(r.Context(), &records.Document{Holdings: req.Holdings})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries := make([]contradiction.Entry, len(holdings))
	for i, h := range holdings {
		entries[i] = contradiction.Entry{Source: "request", Index: i, Holding: h}
	}

	svc := contradiction.NewService(contradiction.ServiceConfig{
		MaxPairs:         s.maxScanPairs,
		MaxExplanations:  s.maxExplanations,
		IncludeRedundant: req.IncludeRedundant,
	})
	report, err := svc.Scan(r.Context(), entries)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.ErrorContext(r.Context(), "scan failed", "error", err)
		respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	findings := make([]models.Finding, len(report.Findings))
	for i, f := range report.Findings {
		findings[i] = findingView(f)
	}
	respondJSON(w, http.StatusOK, models.ScanReport{
		ID:           uuid.New().String(),
		Findings:     findings,
		PairsChecked: report.PairsChecked,
		PairsSkipped: report.PairsSkipped,
	})
}

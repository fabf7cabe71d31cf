package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"user-activity-analyzer/internal/domain"
	"user-activity-analyzer/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type summaryResponse struct {
	Total          int        `json:"total"`
	ActiveCount    int        `json:"active_count"`
	DormantCount   int        `json:"dormant_count"`
	InactiveCount  int        `json:"inactive_count"`
	OldestLastSeen *time.Time `json:"oldest_last_seen,omitempty"`
	Cached         bool       `json:"cached"`
}

func toSummaryResponse(s model.Summary, cached bool) summaryResponse {
	return summaryResponse{
		Total:          s.Total,
		ActiveCount:    s.ActiveCount,
		DormantCount:   s.DormantCount,
		InactiveCount:  s.InactiveCount,
		OldestLastSeen: s.OldestLastSeen,
		Cached:         cached,
	}
}

// summaryHandler serves the most recent cached summary and falls back to
// a fresh run when nothing has been computed yet.
func (s *Server) summaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if summary, ok := s.analyzer.LastSummary(ctx); ok {
			writeJSON(w, http.StatusOK, toSummaryResponse(summary, true))
			return
		}

		summary, err := s.analyzer.Run(ctx)
		if err != nil {
			s.writeRunError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSummaryResponse(summary, false))
	}
}

// analyzeHandler triggers a full classification run.
func (s *Server) analyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.analyzer.Run(r.Context())
		if err != nil {
			s.writeRunError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSummaryResponse(summary, false))
	}
}

type userResponse struct {
	ID            int64          `json:"id"`
	LastSeen      *time.Time     `json:"last_seen,omitempty"`
	DaysSinceSeen *int           `json:"days_since_seen,omitempty"`
	Category      model.Category `json:"category"`
}

// userHandler classifies one user on demand.
func (s *Server) userHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		cu, err := s.analyzer.ClassifyOne(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			s.writeRunError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{
			ID:            cu.ID,
			LastSeen:      cu.LastSeen,
			DaysSinceSeen: cu.DaysSinceSeen,
			Category:      cu.Category,
		})
	}
}

func (s *Server) writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidUserID):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrLoadFailed), errors.Is(err, domain.ErrWriteFailed):
		s.log.Error().Err(err).Msg("analysis run failed")
		http.Error(w, "Analysis failed", http.StatusBadGateway)
	default:
		s.log.Error().Err(err).Msg("analysis run failed")
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

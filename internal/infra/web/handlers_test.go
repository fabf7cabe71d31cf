//go:build !integration

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user-activity-analyzer/internal/domain"
	"user-activity-analyzer/internal/domain/model"

	"github.com/rs/zerolog"
)

// --- Mock analyzer ---

type mockAnalyzer struct {
	runSummary  model.Summary
	runErr      error
	runCalls    int
	lastSummary *model.Summary
	classified  []model.ClassifiedUser

	classifyOneResult model.ClassifiedUser
	classifyOneErr    error
}

func (m *mockAnalyzer) Run(ctx context.Context) (model.Summary, error) {
	m.runCalls++
	if m.runErr != nil {
		return model.Summary{}, m.runErr
	}
	return m.runSummary, nil
}

func (m *mockAnalyzer) LastSummary(ctx context.Context) (model.Summary, bool) {
	if m.lastSummary == nil {
		return model.Summary{}, false
	}
	return *m.lastSummary, true
}

func (m *mockAnalyzer) ClassifyOne(ctx context.Context, userID int64) (model.ClassifiedUser, error) {
	if m.classifyOneErr != nil {
		return model.ClassifiedUser{}, m.classifyOneErr
	}
	return m.classifyOneResult, nil
}

func (m *mockAnalyzer) Classified() []model.ClassifiedUser { return m.classified }

func newTestServer(analyzer *mockAnalyzer, apiKey string) *Server {
	logger := zerolog.Nop()
	return NewServer(analyzer, apiKey, &logger)
}

const testKey = "test-api-key"

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(&mockAnalyzer{}, testKey)
	router := srv.Router()

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed token", "Bearer", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + testKey, http.StatusUnauthorized},
		{"wrong key", "Bearer nope", http.StatusForbidden},
		{"valid key", "Bearer " + testKey, http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
			if c.authHeader != "" {
				req.Header.Set("Authorization", c.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != c.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, c.wantStatus)
			}
		})
	}

	t.Run("unconfigured key denies everything", func(t *testing.T) {
		srv := newTestServer(&mockAnalyzer{}, "")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
		req.Header.Set("Authorization", "Bearer anything")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestSummaryHandler(t *testing.T) {
	seen := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	t.Run("serves the cached summary when present", func(t *testing.T) {
		cached := model.Summary{Total: 4, ActiveCount: 1, DormantCount: 1, InactiveCount: 2, OldestLastSeen: &seen}
		analyzer := &mockAnalyzer{lastSummary: &cached}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp summaryResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Cached {
			t.Errorf("expected cached response")
		}
		if resp.Total != 4 || resp.InactiveCount != 2 {
			t.Errorf("response = %+v, want total 4 / inactive 2", resp)
		}
		if analyzer.runCalls != 0 {
			t.Errorf("cached read triggered %d runs", analyzer.runCalls)
		}
	})

	t.Run("falls back to a fresh run on cache miss", func(t *testing.T) {
		analyzer := &mockAnalyzer{runSummary: model.Summary{Total: 2, ActiveCount: 2}}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp summaryResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Cached {
			t.Errorf("expected fresh response")
		}
		if analyzer.runCalls != 1 {
			t.Errorf("run called %d times, want 1", analyzer.runCalls)
		}
	})
}

func TestAnalyzeHandler(t *testing.T) {
	t.Run("triggers a run and returns the summary", func(t *testing.T) {
		analyzer := &mockAnalyzer{runSummary: model.Summary{Total: 10, InactiveCount: 3}}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if analyzer.runCalls != 1 {
			t.Errorf("run called %d times, want 1", analyzer.runCalls)
		}
	})

	t.Run("maps validation failures to 422", func(t *testing.T) {
		analyzer := &mockAnalyzer{runErr: domain.ErrInvalidUserID}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("maps collaborator failures to 502", func(t *testing.T) {
		analyzer := &mockAnalyzer{runErr: domain.ErrLoadFailed}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rec.Code)
		}
	})
}

func TestUserHandler(t *testing.T) {
	t.Run("classifies one user", func(t *testing.T) {
		seen := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
		days := 42
		analyzer := &mockAnalyzer{classifyOneResult: model.ClassifiedUser{
			ID:            7,
			LastSeen:      &seen,
			DaysSinceSeen: &days,
			Category:      model.CategoryInactive,
		}}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp userResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != 7 || resp.Category != model.CategoryInactive {
			t.Errorf("response = %+v, want id 7 / INACTIVE", resp)
		}
		if resp.DaysSinceSeen == nil || *resp.DaysSinceSeen != 42 {
			t.Errorf("days since seen = %v, want 42", resp.DaysSinceSeen)
		}
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		analyzer := &mockAnalyzer{classifyOneErr: domain.ErrNotFound}
		srv := newTestServer(analyzer, testKey)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/999", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("non-numeric id maps to 400", func(t *testing.T) {
		srv := newTestServer(&mockAnalyzer{}, testKey)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/abc", nil)
		req.Header.Set("Authorization", "Bearer "+testKey)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(&mockAnalyzer{}, testKey)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/moodlog/internal/model"
)

// mockTrendService は関数フィールドで挙動を差し替えられるモックサービス。
type mockTrendService struct {
	trendsFn func(ctx context.Context) (*model.TrendSnapshot, error)
}

func (m *mockTrendService) Trends(ctx context.Context) (*model.TrendSnapshot, error) {
	if m.trendsFn != nil {
		return m.trendsFn(ctx)
	}
	return nil, errors.New("trendsFn not set")
}

// TestGetTrends_ReturnsSnapshot はトレンドスナップショットが返ることを検証する。
func TestGetTrends_ReturnsSnapshot(t *testing.T) {
	svc := &mockTrendService{
		trendsFn: func(ctx context.Context) (*model.TrendSnapshot, error) {
			return &model.TrendSnapshot{
				WeeklyTrend:       model.TrendImproving,
				MonthlyEntryCount: 12,
				EmotionalPatterns: map[string]int{"calm": 5, "stressed": 3},
				Insights:          []string{"This week leaned positive: 4 of 6 entries carried a positive sentiment."},
				Recommendations:   []string{"Your mood is trending upward. Notice what has been working and keep doing it."},
			}, nil
		},
	}
	h := NewTrendHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/trends", nil)
	w := httptest.NewRecorder()

	h.GetTrends(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var got trendResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.WeeklyTrend != "improving" {
		t.Errorf("weekly_trend = %q, want %q", got.WeeklyTrend, "improving")
	}
	if got.MonthlyEntryCount != 12 {
		t.Errorf("monthly_entry_count = %d, want 12", got.MonthlyEntryCount)
	}
	if got.EmotionalPatterns["calm"] != 5 {
		t.Errorf("emotional_patterns[calm] = %d, want 5", got.EmotionalPatterns["calm"])
	}
	if len(got.Insights) != 1 {
		t.Errorf("len(insights) = %d, want 1", len(got.Insights))
	}
	if len(got.Recommendations) != 1 {
		t.Errorf("len(recommendations) = %d, want 1", len(got.Recommendations))
	}
}

// TestGetTrends_ServiceError_Returns500 は集計失敗で500が返ることを検証する。
func TestGetTrends_ServiceError_Returns500(t *testing.T) {
	svc := &mockTrendService{
		trendsFn: func(ctx context.Context) (*model.TrendSnapshot, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := NewTrendHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/trends", nil)
	w := httptest.NewRecorder()

	h.GetTrends(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want %q", body.Code, "INTERNAL_ERROR")
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/moodlog/internal/model"
)

// TrendServiceInterface はトレンドハンドラーが必要とするサービスインターフェース。
type TrendServiceInterface interface {
	// Trends は全記録からトレンドスナップショットを集計して返す。
	Trends(ctx context.Context) (*model.TrendSnapshot, error)
}

// TrendHandler はトレンド集計のHTTPハンドラー。
type TrendHandler struct {
	service TrendServiceInterface
}

// NewTrendHandler はTrendHandlerを生成する。
func NewTrendHandler(service TrendServiceInterface) *TrendHandler {
	return &TrendHandler{service: service}
}

// trendResponse はトレンドスナップショットのAPIレスポンス。
type trendResponse struct {
	WeeklyTrend       string         `json:"weekly_trend"`
	MonthlyEntryCount int            `json:"monthly_entry_count"`
	EmotionalPatterns map[string]int `json:"emotional_patterns"`
	Insights          []string       `json:"insights"`
	Recommendations   []string       `json:"recommendations"`
}

// GetTrends はトレンドスナップショットを返す。
// GET /api/trends
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Trends(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trendResponse{
		WeeklyTrend:       string(snapshot.WeeklyTrend),
		MonthlyEntryCount: snapshot.MonthlyEntryCount,
		EmotionalPatterns: snapshot.EmotionalPatterns,
		Insights:          snapshot.Insights,
		Recommendations:   snapshot.Recommendations,
	})
}

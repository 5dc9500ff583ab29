package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/moodlog/internal/journal"
	"github.com/hitoshi/moodlog/internal/model"
)

// JournalServiceInterface はエントリハンドラーが必要とするサービスインターフェース。
type JournalServiceInterface interface {
	// Submit は記録を検証・分析して保存する。
	Submit(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error)
	// List は全記録をタイムスタンプ昇順で返す。
	List(ctx context.Context) ([]model.MoodEntry, error)
}

// EntryHandler は気分記録のHTTPハンドラー。
type EntryHandler struct {
	service JournalServiceInterface
}

// NewEntryHandler はEntryHandlerを生成する。
func NewEntryHandler(service JournalServiceInterface) *EntryHandler {
	return &EntryHandler{service: service}
}

// submitEntryRequest は記録投稿リクエストのボディ。
type submitEntryRequest struct {
	Text         string `json:"text"`
	IsIncident   bool   `json:"is_incident"`
	ResponseRole string `json:"response_role"`
}

// analysisResponse は分析結果のAPIレスポンス。
type analysisResponse struct {
	Emotions        []string `json:"emotions"`
	DominantEmotion string   `json:"dominant_emotion"`
	Intensity       int      `json:"intensity"`
	Sentiment       string   `json:"sentiment"`
	Valence         float64  `json:"valence"`
}

// entryResponse は記録のAPIレスポンス。
type entryResponse struct {
	ID           string           `json:"id"`
	Timestamp    time.Time        `json:"timestamp"`
	Date         string           `json:"date"`
	Text         string           `json:"text"`
	IsIncident   bool             `json:"is_incident"`
	ResponseRole string           `json:"response_role"`
	Analysis     analysisResponse `json:"analysis"`
	Narrative    string           `json:"narrative"`
	Suggestions  []string         `json:"suggestions"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// SubmitEntry は記録投稿を処理する。
// POST /api/entries
func (h *EntryHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var req submitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	entry, err := h.service.Submit(r.Context(), journal.SubmitInput{
		Text:       req.Text,
		IsIncident: req.IsIncident,
		Role:       req.ResponseRole,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEntryResponse(entry))
}

// ListEntries は記録一覧を返す。
// GET /api/entries
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]entryResponse, len(entries))
	for i := range entries {
		responses[i] = toEntryResponse(&entries[i])
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// --- ヘルパー関数 ---

// toEntryResponse はmodel.MoodEntryからAPIレスポンスに変換する。
func toEntryResponse(entry *model.MoodEntry) entryResponse {
	return entryResponse{
		ID:           entry.ID,
		Timestamp:    entry.Timestamp,
		Date:         entry.Date,
		Text:         entry.Text,
		IsIncident:   entry.IsIncident,
		ResponseRole: string(entry.ResponseRole),
		Analysis: analysisResponse{
			Emotions:        entry.Analysis.Emotions,
			DominantEmotion: entry.Analysis.DominantEmotion,
			Intensity:       entry.Analysis.Intensity,
			Sentiment:       string(entry.Analysis.Sentiment),
			Valence:         entry.Analysis.Valence,
		},
		Narrative:   entry.Narrative,
		Suggestions: entry.Suggestions,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case "ENTRY_EMPTY":
		return http.StatusBadRequest
	case "ENTRY_TOO_SHORT":
		return http.StatusUnprocessableEntity
	case "INVALID_ROLE":
		return http.StatusBadRequest
	case "ENTRY_NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

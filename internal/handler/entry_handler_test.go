package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/moodlog/internal/journal"
	"github.com/hitoshi/moodlog/internal/model"
)

// mockJournalService は関数フィールドで挙動を差し替えられるモックサービス。
type mockJournalService struct {
	submitFn func(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error)
	listFn   func(ctx context.Context) ([]model.MoodEntry, error)
}

func (m *mockJournalService) Submit(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, input)
	}
	return nil, errors.New("submitFn not set")
}

func (m *mockJournalService) List(ctx context.Context) ([]model.MoodEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func sampleEntry() *model.MoodEntry {
	ts := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	return &model.MoodEntry{
		ID:           "entry-1",
		Timestamp:    ts,
		Date:         "2026-09-01",
		Text:         "Today was calm and I took a long walk by the river after work.",
		IsIncident:   false,
		ResponseRole: model.RoleCounselor,
		Analysis: model.SentimentAnalysis{
			Emotions:        []string{"calm"},
			DominantEmotion: "calm",
			Intensity:       3,
			Sentiment:       model.SentimentPositive,
			Valence:         0.42,
		},
		Narrative:   "A calm day like this is worth holding on to.",
		Suggestions: []string{"Keep the evening walk routine.", "Note what made today feel settled.", "Get to bed at the usual time."},
		CreatedAt:   ts,
	}
}

// TestSubmitEntry_Success_Returns201 は正常な投稿で201と記録が返ることを検証する。
func TestSubmitEntry_Success_Returns201(t *testing.T) {
	var captured journal.SubmitInput
	svc := &mockJournalService{
		submitFn: func(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error) {
			captured = input
			return sampleEntry(), nil
		},
	}
	h := NewEntryHandler(svc)

	body := `{"text":"Today was calm and I took a long walk by the river after work.","is_incident":false,"response_role":"counselor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.SubmitEntry(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	if captured.Role != "counselor" {
		t.Errorf("captured.Role = %q, want %q", captured.Role, "counselor")
	}
	if captured.IsIncident {
		t.Error("captured.IsIncident = true, want false")
	}

	var got entryResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "entry-1" {
		t.Errorf("id = %q, want %q", got.ID, "entry-1")
	}
	if got.Analysis.DominantEmotion != "calm" {
		t.Errorf("dominant_emotion = %q, want %q", got.Analysis.DominantEmotion, "calm")
	}
	if got.Analysis.Sentiment != "positive" {
		t.Errorf("sentiment = %q, want %q", got.Analysis.Sentiment, "positive")
	}
	if len(got.Suggestions) != 3 {
		t.Errorf("len(suggestions) = %d, want 3", len(got.Suggestions))
	}
}

// TestSubmitEntry_InvalidJSON_Returns400 は不正なJSONで400が返ることを検証する。
func TestSubmitEntry_InvalidJSON_Returns400(t *testing.T) {
	h := NewEntryHandler(&mockJournalService{})

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.SubmitEntry(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want %q", body.Code, "INVALID_REQUEST")
	}
}

// TestSubmitEntry_TooShort_Returns422 は短すぎるテキストで422が返ることを検証する。
func TestSubmitEntry_TooShort_Returns422(t *testing.T) {
	svc := &mockJournalService{
		submitFn: func(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error) {
			return nil, model.NewEntryTooShortError(10, 50)
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"text":"short"}`))
	w := httptest.NewRecorder()

	h.SubmitEntry(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Code != "ENTRY_TOO_SHORT" {
		t.Errorf("code = %q, want %q", body.Code, "ENTRY_TOO_SHORT")
	}
	if body.Category != "validation" {
		t.Errorf("category = %q, want %q", body.Category, "validation")
	}
}

// TestSubmitEntry_EmptyText_Returns400 は空テキストで400が返ることを検証する。
func TestSubmitEntry_EmptyText_Returns400(t *testing.T) {
	svc := &mockJournalService{
		submitFn: func(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error) {
			return nil, model.NewEntryEmptyError()
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"text":""}`))
	w := httptest.NewRecorder()

	h.SubmitEntry(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// TestSubmitEntry_InvalidRole_Returns400 は不正なロールで400が返ることを検証する。
func TestSubmitEntry_InvalidRole_Returns400(t *testing.T) {
	svc := &mockJournalService{
		submitFn: func(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error) {
			return nil, model.NewInvalidRoleError(input.Role)
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"text":"x","response_role":"wizard"}`))
	w := httptest.NewRecorder()

	h.SubmitEntry(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Code != "INVALID_ROLE" {
		t.Errorf("code = %q, want %q", body.Code, "INVALID_ROLE")
	}
}

// TestSubmitEntry_ServiceError_Returns500 はサービス内部エラーで500が返ることを検証する。
func TestSubmitEntry_ServiceError_Returns500(t *testing.T) {
	svc := &mockJournalService{
		submitFn: func(ctx context.Context, input journal.SubmitInput) (*model.MoodEntry, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"text":"anything"}`))
	w := httptest.NewRecorder()

	h.SubmitEntry(w, req)

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

// TestListEntries_ReturnsEntries は一覧取得で全記録が返ることを検証する。
func TestListEntries_ReturnsEntries(t *testing.T) {
	svc := &mockJournalService{
		listFn: func(ctx context.Context) ([]model.MoodEntry, error) {
			return []model.MoodEntry{*sampleEntry(), *sampleEntry()}, nil
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	w := httptest.NewRecorder()

	h.ListEntries(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got []entryResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(got))
	}
	if got[0].Date != "2026-09-01" {
		t.Errorf("date = %q, want %q", got[0].Date, "2026-09-01")
	}
}

// TestListEntries_Empty_ReturnsEmptyArray は記録ゼロ件で空配列が返ることを検証する。
func TestListEntries_Empty_ReturnsEmptyArray(t *testing.T) {
	svc := &mockJournalService{
		listFn: func(ctx context.Context) ([]model.MoodEntry, error) {
			return nil, nil
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	w := httptest.NewRecorder()

	h.ListEntries(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// nullではなく[]が返ること
	body := strings.TrimSpace(w.Body.String())
	if body != "[]" {
		t.Errorf("body = %q, want %q", body, "[]")
	}
}

// TestListEntries_ServiceError_Returns500 は一覧取得失敗で500が返ることを検証する。
func TestListEntries_ServiceError_Returns500(t *testing.T) {
	svc := &mockJournalService{
		listFn: func(ctx context.Context) ([]model.MoodEntry, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := NewEntryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	w := httptest.NewRecorder()

	h.ListEntries(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

// Package journal は気分記録のドメインロジックを提供する。
// 感情分析から文面生成、保存までのパイプラインを1件ずつ直列に実行する。
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/moodlog/internal/emotion"
	"github.com/hitoshi/moodlog/internal/metrics"
	"github.com/hitoshi/moodlog/internal/model"
	"github.com/hitoshi/moodlog/internal/narrative"
	"github.com/hitoshi/moodlog/internal/repository"
	"github.com/hitoshi/moodlog/internal/safety"
	"github.com/hitoshi/moodlog/internal/trend"
)

// Options はServiceの動作パラメータ。ゼロ値のフィールドにはデフォルト値が適用される。
type Options struct {
	MinEntryLength int
	MaxEmotions    int
	HistoryLimit   int
}

// SubmitInput は記録投稿の入力。
type SubmitInput struct {
	Text       string
	IsIncident bool
	Role       string
}

// Service は気分記録のサービス層。
// 投稿、一覧取得、トレンド集計のビジネスロジックを提供する。
type Service struct {
	repo      repository.EntryRepository
	generator narrative.Generator
	collector metrics.MetricsCollector
	logger    *slog.Logger
	opts      Options

	// 分析パイプラインは1件ずつ直列に実行する
	mu sync.Mutex
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.EntryRepository,
	generator narrative.Generator,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.MinEntryLength <= 0 {
		opts.MinEntryLength = model.MinEntryLength
	}
	if opts.MaxEmotions <= 0 {
		opts.MaxEmotions = emotion.DefaultMaxEmotions
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		generator: generator,
		collector: collector,
		logger:    logger,
		opts:      opts,
	}
}

// Submit は記録を検証・分析し、生成された文面とともに保存して返す。
// 検証エラーはmodel.APIErrorとして返す。分析・生成・保存のいずれかで
// 致命的な失敗が起きても、縮退した中立ペイロードで記録を残す。
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*model.MoodEntry, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, model.NewEntryEmptyError()
	}

	length := len([]rune(text))
	if length < s.opts.MinEntryLength {
		return nil, model.NewEntryTooShortError(length, s.opts.MinEntryLength)
	}

	role := model.ResponseRole(input.Role)
	if input.Role == "" {
		role = model.RoleCounselor
	} else if !model.ValidRoles[role] {
		return nil, model.NewInvalidRoleError(input.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	analysis, resp := s.analyze(ctx, text, input.IsIncident, role)

	now := time.Now().UTC()
	entry := &model.MoodEntry{
		ID:           uuid.NewString(),
		Timestamp:    now,
		Date:         now.Format("2006-01-02"),
		Text:         text,
		IsIncident:   input.IsIncident,
		ResponseRole: role,
		Analysis:     analysis,
		Narrative:    resp.Narrative,
		Suggestions:  resp.Suggestions,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("記録の保存に失敗しました: %w", err)
	}

	s.collector.RecordEntryAnalyzed(string(analysis.Sentiment))
	s.collector.RecordAnalysisLatency(time.Since(start))

	s.logger.Info("entry analyzed",
		slog.String("entry_id", entry.ID),
		slog.String("dominant_emotion", analysis.DominantEmotion),
		slog.Int("intensity", analysis.Intensity),
		slog.String("sentiment", string(analysis.Sentiment)),
		slog.Bool("is_incident", entry.IsIncident),
	)

	return entry, nil
}

// analyze は検出・分類・生成・後処理を実行する。
// panicが発生した場合は縮退した中立ペイロードを返し、記録自体は失わない。
func (s *Service) analyze(ctx context.Context, text string, isIncident bool, role model.ResponseRole) (analysis model.SentimentAnalysis, resp narrative.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("analysis pipeline panic",
				slog.Any("panic", rec),
			)
			analysis = degradedAnalysis()
			resp = degradedResponse()
		}
	}()

	detection := emotion.DetectWithLimit(text, s.opts.MaxEmotions)
	sentiment := emotion.Classify(detection.Emotions)
	valence := emotion.Valence(text)

	assessment := safety.Assess(text, detection.Intensity, sentiment == model.SentimentNegative)
	if assessment.Flagged {
		s.collector.RecordCrisisFlagged()
		s.logger.Warn("crisis signal detected",
			slog.Int("intensity", detection.Intensity),
		)
	}

	req := narrative.Request{
		Text:       text,
		Emotions:   detection.Emotions,
		Dominant:   detection.Dominant,
		Intensity:  detection.Intensity,
		Valence:    valence,
		History:    s.recentHistory(ctx),
		IsIncident: isIncident,
		Role:       role,
	}

	s.collector.RecordGeneratorAttempt()
	generated, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.collector.RecordGeneratorFailure(failureReason(err))
		s.collector.RecordFallbackUsed()
		s.logger.Warn("narrative generation failed, using fallback",
			slog.String("error", err.Error()),
			slog.String("dominant_emotion", detection.Dominant),
		)
		generated = narrative.Fallback(req)
	}

	cleaned := narrative.Response{
		Narrative:   narrative.CleanNarrative(generated.Narrative),
		Suggestions: narrative.PadSuggestions(narrative.CleanSuggestions(generated.Suggestions), detection.Dominant),
	}
	if cleaned.Narrative == "" {
		fallback := narrative.Fallback(req)
		cleaned.Narrative = fallback.Narrative
	}
	cleaned.Narrative = safety.Apply(cleaned.Narrative, assessment)

	analysis = model.SentimentAnalysis{
		Emotions:        detection.Emotions,
		DominantEmotion: detection.Dominant,
		Intensity:       detection.Intensity,
		Sentiment:       sentiment,
		Valence:         valence,
	}
	return analysis, cleaned
}

// recentHistory は直近エントリの支配的感情を新しい順で返す。
// 履歴の取得失敗は生成品質の低下にとどめ、エラーにはしない。
func (s *Service) recentHistory(ctx context.Context) []string {
	entries, err := s.repo.ListRecent(ctx, s.opts.HistoryLimit)
	if err != nil {
		s.logger.Warn("failed to load entry history",
			slog.String("error", err.Error()),
		)
		return nil
	}

	history := make([]string, 0, len(entries))
	for _, e := range entries {
		history = append(history, fmt.Sprintf("%s: %s (intensity %d)", e.Date, e.Analysis.DominantEmotion, e.Analysis.Intensity))
	}
	return history
}

// List は全記録をタイムスタンプ昇順で返す。
func (s *Service) List(ctx context.Context) ([]model.MoodEntry, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("記録一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// Trends は全記録からトレンドスナップショットを集計して返す。
func (s *Service) Trends(ctx context.Context) (*model.TrendSnapshot, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("記録一覧の取得に失敗しました: %w", err)
	}

	snapshot := trend.Aggregate(entries, time.Now().UTC())
	return &snapshot, nil
}

// degradedAnalysis はパイプライン失敗時の中立ペイロードを返す。
func degradedAnalysis() model.SentimentAnalysis {
	return model.SentimentAnalysis{
		Emotions:        []string{model.NeutralEmotion},
		DominantEmotion: model.NeutralEmotion,
		Intensity:       5,
		Sentiment:       model.SentimentNeutral,
		Valence:         0,
	}
}

// degradedResponse はパイプライン失敗時の汎用文面を返す。
func degradedResponse() narrative.Response {
	req := narrative.Request{
		Dominant: model.NeutralEmotion,
		Role:     model.RoleCounselor,
	}
	return narrative.Fallback(req)
}

// failureReason は生成失敗の理由をメトリクスラベルに分類する。
func failureReason(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return "rate_limit"
	case strings.Contains(msg, "context canceled") || strings.Contains(msg, "deadline"):
		return "timeout"
	default:
		return "server_error"
	}
}

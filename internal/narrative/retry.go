package narrative

import (
	"context"
	"strings"
	"time"
)

// BackoffConfig は外部呼び出しのリトライ戦略を保持する。
// レート制限系の失敗は一般的なサーバーエラーより長い待機スケジュールを使う。
type BackoffConfig struct {
	// MaxAttempts は最大試行回数。
	MaxAttempts int
	// RateLimitWait はレート制限エラー時の試行別待機時間。
	RateLimitWait []time.Duration
	// ServerWait はサーバーエラー時の試行別待機時間。
	ServerWait []time.Duration
}

// DefaultBackoffConfig は対話的な送信フローを想定したデフォルトのリトライ設定を返す。
// 試行3回、レート制限は5s/15s/30s、サーバーエラーは1s/3s/5s。
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		MaxAttempts:   3,
		RateLimitWait: []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second},
		ServerWait:    []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}
}

// waitFor は試行回数とエラー種別に応じた待機時間を返す。
func (b BackoffConfig) waitFor(attempt int, rateLimited bool) time.Duration {
	schedule := b.ServerWait
	if rateLimited {
		schedule = b.RateLimitWait
	}
	if len(schedule) == 0 {
		return 0
	}
	if attempt >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[attempt]
}

// isRateLimitError はエラーがレート制限に分類されるかを返す。
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// isRetryableError はエラーがリトライ対象（レート制限または5xx系）かを返す。
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if isRateLimitError(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "internal server error") ||
		strings.Contains(msg, "server_error") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection refused")
}

// sleepContext はコンテキストのキャンセルを尊重して待機する。
// キャンセルされた場合はctx.Err()を返す。
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

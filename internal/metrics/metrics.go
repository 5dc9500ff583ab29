// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordEntryAnalyzed(sentiment string)
	RecordAnalysisLatency(duration time.Duration)
	RecordGeneratorAttempt()
	RecordGeneratorFailure(reason string)
	RecordFallbackUsed()
	RecordCrisisFlagged()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	entriesAnalyzed   *prometheus.CounterVec
	analysisLatency   prometheus.Histogram
	generatorAttempts prometheus.Counter
	generatorFailures *prometheus.CounterVec
	fallbackUsed      prometheus.Counter
	crisisFlagged     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		entriesAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_entries_analyzed_total",
			Help: "分析された記録の合計数（センチメント別）",
		}, []string{"sentiment"}),
		analysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodlog_analysis_latency_seconds",
			Help:    "記録1件の分析パイプラインのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		generatorAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_generator_attempts_total",
			Help: "LLM文面生成の呼び出し回数",
		}),
		generatorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_generator_failures_total",
			Help: "LLM文面生成の失敗回数（理由別）",
		}, []string{"reason"}),
		fallbackUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_fallback_used_total",
			Help: "フォールバック文面が使用された回数",
		}),
		crisisFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_crisis_flagged_total",
			Help: "危機シグナルが検出された記録の合計数",
		}),
	}

	reg.MustRegister(
		c.entriesAnalyzed,
		c.analysisLatency,
		c.generatorAttempts,
		c.generatorFailures,
		c.fallbackUsed,
		c.crisisFlagged,
	)

	return c
}

// RecordEntryAnalyzed は記録の分析完了をセンチメント別に記録する。
func (c *Collector) RecordEntryAnalyzed(sentiment string) {
	c.entriesAnalyzed.WithLabelValues(sentiment).Inc()
}

// RecordAnalysisLatency は分析パイプラインのレイテンシを記録する。
func (c *Collector) RecordAnalysisLatency(duration time.Duration) {
	c.analysisLatency.Observe(duration.Seconds())
}

// RecordGeneratorAttempt はLLM呼び出しを記録する。
func (c *Collector) RecordGeneratorAttempt() {
	c.generatorAttempts.Inc()
}

// RecordGeneratorFailure はLLM呼び出しの失敗を理由別に記録する。
func (c *Collector) RecordGeneratorFailure(reason string) {
	c.generatorFailures.WithLabelValues(reason).Inc()
}

// RecordFallbackUsed はフォールバック文面の使用を記録する。
func (c *Collector) RecordFallbackUsed() {
	c.fallbackUsed.Inc()
}

// RecordCrisisFlagged は危機シグナルの検出を記録する。
func (c *Collector) RecordCrisisFlagged() {
	c.crisisFlagged.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

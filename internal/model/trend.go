// Package model はドメインモデルを定義する。
package model

// Trend は週次の気分傾向を表す。
type Trend string

const (
	// TrendImproving は改善傾向。後半の平均強度が前半を1.0超上回る場合。
	TrendImproving Trend = "improving"
	// TrendDeclining は悪化傾向。後半の平均強度が前半を1.0超下回る場合。
	TrendDeclining Trend = "declining"
	// TrendStable は安定。差が±1.0以内、またはエントリ数が3件未満の場合。
	TrendStable Trend = "stable"
)

// TrendSnapshot はエントリコレクションから再計算される集計結果を表す。
// 独立した永続化は行わず、読み取りのたびに作り直される。
type TrendSnapshot struct {
	// WeeklyTrend は週次ウィンドウにおける気分の傾向。
	WeeklyTrend Trend `json:"weekly_trend"`
	// MonthlyEntryCount は直近30日間のエントリ数。
	MonthlyEntryCount int `json:"monthly_entry_count"`
	// EmotionalPatterns は週次ウィンドウ内の感情ラベル出現回数のヒストグラム。
	EmotionalPatterns map[string]int `json:"emotional_patterns"`
	// Insights は定性的な観察の一覧。
	Insights []string `json:"insights"`
	// Recommendations は優先度順に最大3件の提案。
	Recommendations []string `json:"recommendations"`
}

// Package trend はエントリコレクションからの傾向集計を提供する。
//
// 集計は入力ウィンドウのみに依存する純粋関数で、失敗モードはない。
// スナップショットは永続化されず、読み取りのたびに作り直される。
package trend

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/hitoshi/moodlog/internal/lexicon"
	"github.com/hitoshi/moodlog/internal/model"
)

const (
	// weeklyWindow は週次集計のカレンダーウィンドウ。
	weeklyWindow = 7 * 24 * time.Hour
	// monthlyWindow は月次カウントのカレンダーウィンドウ。
	monthlyWindow = 30 * 24 * time.Hour
	// weeklyMaxEntries は週次ウィンドウ内でさらに適用される件数上限。
	weeklyMaxEntries = 7
	// minEntriesForTrend は傾向判定に必要な最小エントリ数。
	// これ未満ではstableを返す。
	minEntriesForTrend = 3
	// trendDelta は傾向判定のしきい値。平均強度の差がこれを超えたら変化とみなす。
	trendDelta = 1.0
	// maxRecommendations は提案件数の上限。
	maxRecommendations = 3
	// patternThreshold は感情頻度ベースの提案ルールが発火する出現回数。
	patternThreshold = 3
)

// Aggregate はエントリコレクションからTrendSnapshotを計算する。
//
// ウィンドウの定義はカレンダー時間でのフィルタが主で、週次ウィンドウには
// さらに直近7件の件数上限を重ねる（ウィンドウポリシーの決定はDESIGN.md参照）。
// 空コレクションでは{stable, 0, 空ヒストグラム, 空リスト}を返す。
func Aggregate(entries []model.MoodEntry, now time.Time) model.TrendSnapshot {
	snapshot := model.TrendSnapshot{
		WeeklyTrend:       model.TrendStable,
		EmotionalPatterns: map[string]int{},
		Insights:          []string{},
		Recommendations:   []string{},
	}

	if len(entries) == 0 {
		return snapshot
	}

	// タイムスタンプ昇順に揃える（入力順序に依存しないため）
	sorted := make([]model.MoodEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	weekly := filterWindow(sorted, now, weeklyWindow)
	if len(weekly) > weeklyMaxEntries {
		weekly = weekly[len(weekly)-weeklyMaxEntries:]
	}
	monthly := filterWindow(sorted, now, monthlyWindow)

	snapshot.MonthlyEntryCount = len(monthly)
	snapshot.EmotionalPatterns = histogram(weekly)
	snapshot.WeeklyTrend = weeklyTrend(weekly)
	snapshot.Insights = insights(weekly, snapshot.EmotionalPatterns)
	snapshot.Recommendations = recommendations(snapshot.EmotionalPatterns, snapshot.WeeklyTrend)

	return snapshot
}

// filterWindow はnowからwindow以内のエントリを返す。入力は昇順であること。
func filterWindow(entries []model.MoodEntry, now time.Time, window time.Duration) []model.MoodEntry {
	cutoff := now.Add(-window)
	var out []model.MoodEntry
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) && !e.Timestamp.After(now) {
			out = append(out, e)
		}
	}
	return out
}

// histogram は各エントリのEmotionsリストの全出現をラベル別に数える。
// 3ラベルを持つエントリは3つのバケットに1ずつ寄与する。
func histogram(entries []model.MoodEntry) map[string]int {
	h := map[string]int{}
	for _, e := range entries {
		for _, label := range e.Analysis.Emotions {
			h[label]++
		}
	}
	return h
}

// weeklyTrend は週次ウィンドウを位置で前半・後半に分割し
// （奇数件の場合は後半が1件多い）、平均強度の差で傾向を判定する。
// 3件未満ではstableを返す。
func weeklyTrend(entries []model.MoodEntry) model.Trend {
	if len(entries) < minEntriesForTrend {
		return model.TrendStable
	}

	half := len(entries) / 2
	firstMean := meanIntensity(entries[:half])
	secondMean := meanIntensity(entries[half:])

	diff := secondMean - firstMean
	switch {
	case diff > trendDelta:
		return model.TrendImproving
	case diff < -trendDelta:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

// meanIntensity はエントリ群の平均強度を返す。
func meanIntensity(entries []model.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	values := make([]float64, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Analysis.Intensity)
	}
	return stat.Mean(values, nil)
}

// insights は週次ウィンドウから定性的な観察を生成する。
// 最低限、ポジティブ/ネガティブ判定エントリの多数派を1行報告する（同数なら出さない）。
func insights(entries []model.MoodEntry, patterns map[string]int) []string {
	out := []string{}
	if len(entries) == 0 {
		return out
	}

	positive := 0
	negative := 0
	for _, e := range entries {
		switch e.Analysis.Sentiment {
		case model.SentimentPositive:
			positive++
		case model.SentimentNegative:
			negative++
		}
	}

	switch {
	case positive > negative:
		out = append(out, fmt.Sprintf("This week leaned positive: %d of %d entries carried a positive tone.", positive, len(entries)))
	case negative > positive:
		out = append(out, fmt.Sprintf("This week leaned difficult: %d of %d entries carried a negative tone.", negative, len(entries)))
	}

	if label, count := dominantPattern(patterns); count >= 2 {
		out = append(out, fmt.Sprintf("Your most frequent emotion this week was %q (%d times).", label, count))
	}

	if len(entries) >= 5 {
		out = append(out, fmt.Sprintf("You journaled %d times this week. Consistent writing makes these trends more reliable.", len(entries)))
	}

	return out
}

// dominantPattern はヒストグラムの最頻ラベルを返す。
// 同数の場合は語彙の宣言順で先のラベルを採用する。
func dominantPattern(patterns map[string]int) (string, int) {
	best := ""
	bestCount := 0
	for _, e := range lexicon.Emotions() {
		if c := patterns[e.Label]; c > bestCount {
			best = e.Label
			bestCount = c
		}
	}
	return best, bestCount
}

// recommendations は固定の優先順位でルールを評価し、最初の3件を返す。
// 優先順位: ストレス頻度 → 不安頻度 → 悲しみ頻度 → 悪化傾向 → 改善傾向。
func recommendations(patterns map[string]int, trend model.Trend) []string {
	out := []string{}

	type rule struct {
		match   bool
		message string
	}

	rules := []rule{
		{
			match:   patterns["stressed"]+patterns["overwhelmed"] >= patternThreshold,
			message: "Stress has come up repeatedly this week. Try scheduling one deliberate break each day, even ten minutes counts.",
		},
		{
			match:   patterns["anxious"] >= patternThreshold,
			message: "Anxiety appeared often this week. A short grounding exercise (5-4-3-2-1 senses) can interrupt the spiral.",
		},
		{
			match:   patterns["sad"]+patterns["lonely"] >= patternThreshold,
			message: "There has been a lot of heaviness this week. Reaching out to one person you trust can lighten it.",
		},
		{
			match:   trend == model.TrendDeclining,
			message: "Your mood trend is heading down this week. Consider checking in with yourself more deliberately, or with someone who supports you.",
		},
		{
			match:   trend == model.TrendImproving,
			message: "Your mood is trending upward. Notice what has been working and keep doing it.",
		},
	}

	for _, r := range rules {
		if !r.match {
			continue
		}
		out = append(out, r.message)
		if len(out) >= maxRecommendations {
			break
		}
	}

	return out
}

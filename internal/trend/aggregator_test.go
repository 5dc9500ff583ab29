package trend

import (
	"testing"
	"time"

	"github.com/hitoshi/moodlog/internal/model"
)

// テスト用のエントリ生成ヘルパー
func entryAt(t *testing.T, ts time.Time, intensity int, sentiment model.Sentiment, emotions ...string) model.MoodEntry {
	t.Helper()
	return model.MoodEntry{
		ID:        "entry-" + ts.Format(time.RFC3339),
		Timestamp: ts,
		Analysis: model.SentimentAnalysis{
			Emotions:  emotions,
			Intensity: intensity,
			Sentiment: sentiment,
		},
	}
}

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// 空コレクションはデフォルトスナップショットを返すことを検証
func TestAggregate_Empty_ReturnsDefaults(t *testing.T) {
	s := Aggregate(nil, now)

	if s.WeeklyTrend != model.TrendStable {
		t.Errorf("WeeklyTrend = %q, want %q", s.WeeklyTrend, model.TrendStable)
	}
	if s.MonthlyEntryCount != 0 {
		t.Errorf("MonthlyEntryCount = %d, want 0", s.MonthlyEntryCount)
	}
	if len(s.EmotionalPatterns) != 0 {
		t.Errorf("EmotionalPatterns = %v, want 空", s.EmotionalPatterns)
	}
	if len(s.Insights) != 0 {
		t.Errorf("Insights = %v, want 空", s.Insights)
	}
	if len(s.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want 空", s.Recommendations)
	}
}

// 3件未満の週次ウィンドウでは内容にかかわらずstableを返すことを検証
func TestAggregate_FewerThanThree_Stable(t *testing.T) {
	entries := []model.MoodEntry{
		entryAt(t, now.Add(-2*24*time.Hour), 1, model.SentimentNegative, "sad"),
		entryAt(t, now.Add(-1*24*time.Hour), 10, model.SentimentPositive, "happy"),
	}

	s := Aggregate(entries, now)
	if s.WeeklyTrend != model.TrendStable {
		t.Errorf("WeeklyTrend = %q, want %q（3件未満）", s.WeeklyTrend, model.TrendStable)
	}
}

// 7日連続で強度3→9に上昇するとimprovingになることを検証
func TestAggregate_RisingIntensity_Improving(t *testing.T) {
	intensities := []int{3, 4, 5, 6, 7, 8, 9}
	var entries []model.MoodEntry
	for i, v := range intensities {
		ts := now.Add(-time.Duration(len(intensities)-1-i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, v, model.SentimentNeutral))
	}

	s := Aggregate(entries, now)
	if s.WeeklyTrend != model.TrendImproving {
		t.Errorf("WeeklyTrend = %q, want %q", s.WeeklyTrend, model.TrendImproving)
	}
}

// 強度下降でdecliningになることを検証
func TestAggregate_FallingIntensity_Declining(t *testing.T) {
	intensities := []int{9, 8, 7, 5, 4, 3, 2}
	var entries []model.MoodEntry
	for i, v := range intensities {
		ts := now.Add(-time.Duration(len(intensities)-1-i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, v, model.SentimentNeutral))
	}

	s := Aggregate(entries, now)
	if s.WeeklyTrend != model.TrendDeclining {
		t.Errorf("WeeklyTrend = %q, want %q", s.WeeklyTrend, model.TrendDeclining)
	}
}

// 差が±1.0以内ならstableになることを検証
func TestAggregate_FlatIntensity_Stable(t *testing.T) {
	var entries []model.MoodEntry
	for i := 0; i < 6; i++ {
		ts := now.Add(-time.Duration(5-i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, 5, model.SentimentNeutral))
	}

	s := Aggregate(entries, now)
	if s.WeeklyTrend != model.TrendStable {
		t.Errorf("WeeklyTrend = %q, want %q", s.WeeklyTrend, model.TrendStable)
	}
}

// 入力順序に依存しないことを検証
func TestAggregate_OrderInsensitive(t *testing.T) {
	intensities := []int{3, 4, 5, 6, 7, 8, 9}
	var entries []model.MoodEntry
	for i, v := range intensities {
		ts := now.Add(-time.Duration(len(intensities)-1-i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, v, model.SentimentNeutral))
	}
	// 逆順で渡す
	reversed := make([]model.MoodEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}

	s := Aggregate(reversed, now)
	if s.WeeklyTrend != model.TrendImproving {
		t.Errorf("逆順入力でもimprovingであるべき: %q", s.WeeklyTrend)
	}
}

// ヒストグラムが全ラベル出現を数えることを検証
func TestAggregate_Histogram_CountsAllLabels(t *testing.T) {
	entries := []model.MoodEntry{
		entryAt(t, now.Add(-3*24*time.Hour), 5, model.SentimentNegative, "stressed", "anxious", "tired"),
		entryAt(t, now.Add(-2*24*time.Hour), 5, model.SentimentNegative, "stressed"),
		entryAt(t, now.Add(-1*24*time.Hour), 5, model.SentimentNegative, "stressed", "anxious"),
	}

	s := Aggregate(entries, now)
	if s.EmotionalPatterns["stressed"] != 3 {
		t.Errorf("stressed = %d, want 3", s.EmotionalPatterns["stressed"])
	}
	if s.EmotionalPatterns["anxious"] != 2 {
		t.Errorf("anxious = %d, want 2", s.EmotionalPatterns["anxious"])
	}
	if s.EmotionalPatterns["tired"] != 1 {
		t.Errorf("tired = %d, want 1", s.EmotionalPatterns["tired"])
	}
}

// 7日より古いエントリが週次ウィンドウから除外されることを検証
func TestAggregate_OldEntriesExcludedFromWeekly(t *testing.T) {
	entries := []model.MoodEntry{
		entryAt(t, now.Add(-20*24*time.Hour), 5, model.SentimentNegative, "sad"),
		entryAt(t, now.Add(-1*24*time.Hour), 5, model.SentimentPositive, "happy"),
	}

	s := Aggregate(entries, now)
	if _, ok := s.EmotionalPatterns["sad"]; ok {
		t.Error("20日前のエントリは週次ヒストグラムに含まれてはならない")
	}
	if s.MonthlyEntryCount != 2 {
		t.Errorf("MonthlyEntryCount = %d, want 2（30日以内）", s.MonthlyEntryCount)
	}
}

// 30日より古いエントリが月次カウントから除外されることを検証
func TestAggregate_MonthlyCountWindow(t *testing.T) {
	entries := []model.MoodEntry{
		entryAt(t, now.Add(-40*24*time.Hour), 5, model.SentimentNeutral),
		entryAt(t, now.Add(-29*24*time.Hour), 5, model.SentimentNeutral),
		entryAt(t, now.Add(-1*24*time.Hour), 5, model.SentimentNeutral),
	}

	s := Aggregate(entries, now)
	if s.MonthlyEntryCount != 2 {
		t.Errorf("MonthlyEntryCount = %d, want 2", s.MonthlyEntryCount)
	}
}

// 週次ウィンドウが直近7件に制限されることを検証
func TestAggregate_WeeklyCappedAtSevenEntries(t *testing.T) {
	// 2日間に10件のエントリ
	var entries []model.MoodEntry
	for i := 0; i < 10; i++ {
		ts := now.Add(-time.Duration(i) * 4 * time.Hour)
		entries = append(entries, entryAt(t, ts, 5, model.SentimentNeutral, "calm"))
	}

	s := Aggregate(entries, now)
	if s.EmotionalPatterns["calm"] != 7 {
		t.Errorf("calm = %d, want 7（件数上限）", s.EmotionalPatterns["calm"])
	}
}

// ネガティブ多数派で該当のインサイト行が出ることを検証
func TestAggregate_Insights_NegativeMajority(t *testing.T) {
	entries := []model.MoodEntry{
		entryAt(t, now.Add(-3*24*time.Hour), 5, model.SentimentNegative, "sad"),
		entryAt(t, now.Add(-2*24*time.Hour), 5, model.SentimentNegative, "sad"),
		entryAt(t, now.Add(-1*24*time.Hour), 5, model.SentimentPositive, "happy"),
	}

	s := Aggregate(entries, now)
	if len(s.Insights) == 0 {
		t.Fatal("インサイトが生成されるべき")
	}
	found := false
	for _, line := range s.Insights {
		if line == "This week leaned difficult: 2 of 3 entries carried a negative tone." {
			found = true
		}
	}
	if !found {
		t.Errorf("ネガティブ多数派の行が含まれるべき: %v", s.Insights)
	}
}

// 同数の場合は極性インサイト行が出ないことを検証
func TestAggregate_Insights_Tie_NoMajorityLine(t *testing.T) {
	entries := []model.MoodEntry{
		entryAt(t, now.Add(-2*24*time.Hour), 5, model.SentimentNegative, "sad"),
		entryAt(t, now.Add(-1*24*time.Hour), 5, model.SentimentPositive, "happy"),
	}

	s := Aggregate(entries, now)
	for _, line := range s.Insights {
		if line == "This week leaned positive: 1 of 2 entries carried a positive tone." ||
			line == "This week leaned difficult: 1 of 2 entries carried a negative tone." {
			t.Errorf("同数では極性行が出てはならない: %v", s.Insights)
		}
	}
}

// ストレス頻度ルールが最優先で発火することを検証
func TestAggregate_Recommendations_StressRule(t *testing.T) {
	var entries []model.MoodEntry
	for i := 0; i < 4; i++ {
		ts := now.Add(-time.Duration(i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, 5, model.SentimentNegative, "stressed"))
	}

	s := Aggregate(entries, now)
	if len(s.Recommendations) == 0 {
		t.Fatal("提案が生成されるべき")
	}
	if want := "Stress has come up repeatedly"; len(s.Recommendations[0]) < len(want) || s.Recommendations[0][:len(want)] != want {
		t.Errorf("ストレスルールが先頭であるべき: %q", s.Recommendations[0])
	}
}

// 提案が最大3件にキャップされることを検証
func TestAggregate_Recommendations_CappedAtThree(t *testing.T) {
	// ストレス・不安・悲しみの頻度ルールと悪化傾向を同時に満たす
	var entries []model.MoodEntry
	intensities := []int{9, 9, 8, 4, 3, 3, 2}
	for i, v := range intensities {
		ts := now.Add(-time.Duration(len(intensities)-1-i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, v, model.SentimentNegative, "stressed", "anxious", "sad"))
	}

	s := Aggregate(entries, now)
	if len(s.Recommendations) != 3 {
		t.Errorf("len(Recommendations) = %d, want 3", len(s.Recommendations))
	}
}

// 改善傾向で強化メッセージが出ることを検証
func TestAggregate_Recommendations_ImprovingRule(t *testing.T) {
	intensities := []int{3, 4, 5, 7, 8, 9}
	var entries []model.MoodEntry
	for i, v := range intensities {
		ts := now.Add(-time.Duration(len(intensities)-1-i) * 24 * time.Hour)
		entries = append(entries, entryAt(t, ts, v, model.SentimentPositive, "happy"))
	}

	s := Aggregate(entries, now)
	found := false
	for _, r := range s.Recommendations {
		if r == "Your mood is trending upward. Notice what has been working and keep doing it." {
			found = true
		}
	}
	if !found {
		t.Errorf("改善傾向の提案が含まれるべき: %v", s.Recommendations)
	}
}

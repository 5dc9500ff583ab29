// Package model はドメインモデルを定義する。
package model

import "time"

// MoodEntry は1件のジャーナルエントリを表す。
// 作成時に分析パイプラインを通して全フィールドが埋められた後、追記専用で永続化される。
// 更新・削除は行わない。
type MoodEntry struct {
	ID        string
	Timestamp time.Time
	// Date はTimestampから導出されるカレンダー日付（YYYY-MM-DD）。
	Date string
	// Text はユーザーが入力した生のテキスト。
	Text string
	// IsIncident は特定の出来事についての記録かどうかを示すフラグ。
	// テンプレート・トーンの選択を切り替える。
	IsIncident bool
	// ResponseRole はナラティブ生成に使用されたペルソナ。
	ResponseRole ResponseRole
	// Analysis は検出・分類の結果。
	Analysis SentimentAnalysis
	// Narrative は生成された応答テキスト（フォールバックの場合もある）。
	Narrative string
	// Suggestions は3〜6件の短い提案リスト。
	Suggestions []string
	CreatedAt   time.Time
}

// MinEntryLength はエントリとして受け付ける最小文字数（トリム後）。
// この長さ未満のテキストは分析前に拒否される。
// 短すぎるテキストに対する検出器の挙動はシグナル不足で定義されないため、
// 呼び出し側はこのゲートを必ず通すこと。
const MinEntryLength = 50

// SchemaVersion は永続化フォーマットのバージョンタグ。
const SchemaVersion = 1

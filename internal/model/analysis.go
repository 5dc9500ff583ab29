// Package model はドメインモデルを定義する。
package model

// Sentiment は検出された感情ラベルから導出される3値の極性分類を表す。
type Sentiment string

const (
	// SentimentPositive はポジティブな極性。
	SentimentPositive Sentiment = "positive"
	// SentimentNegative はネガティブな極性。
	SentimentNegative Sentiment = "negative"
	// SentimentNeutral は中立の極性。過半数が存在しない場合のデフォルト。
	SentimentNeutral Sentiment = "neutral"
)

// NeutralEmotion は感情が1つも検出されなかった場合のセンチネルラベル。
const NeutralEmotion = "neutral"

// SentimentAnalysis は1件のエントリに対する感情分析結果を表す。
// 生成後は変更しないイミュータブルな値オブジェクトとして扱う。
type SentimentAnalysis struct {
	// Emotions は検出された感情ラベルをスコア降順で並べたリスト。重複なし。
	Emotions []string `json:"emotions"`
	// DominantEmotion は最もスコアの高い感情ラベル。
	// Emotionsが空の場合はNeutralEmotionになる。
	DominantEmotion string `json:"dominant_emotion"`
	// Intensity は感情の強度。常に[1,10]の範囲に収まる。
	Intensity int `json:"intensity"`
	// Sentiment はEmotionsのみから導出される極性分類。
	Sentiment Sentiment `json:"sentiment"`
	// Valence はVADERによる参考値の複合スコア（[-1,1]）。
	// 極性分類には使用せず、ナラティブ生成のトーン調整と傾向表示にのみ使う。
	Valence float64 `json:"valence"`
}

// ResponseRole はナラティブ生成時に採用される話者ペルソナを表す。
type ResponseRole string

const (
	// RoleCounselor はカウンセラー調の応答。デフォルト値。
	RoleCounselor ResponseRole = "counselor"
	// RoleFriend は親しい友人調の応答。
	RoleFriend ResponseRole = "friend"
	// RoleMother は母親調の応答。
	RoleMother ResponseRole = "mother"
	// RoleFather は父親調の応答。
	RoleFather ResponseRole = "father"
)

// ValidRoles は有効なResponseRoleのセット。
var ValidRoles = map[ResponseRole]bool{
	RoleCounselor: true,
	RoleFriend:    true,
	RoleMother:    true,
	RoleFather:    true,
}

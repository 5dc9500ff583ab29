// Package safety は危機兆候の検出と相談窓口情報の挿入を提供する。
//
// 自傷・搾取を示唆するキーワードの照合を、プロンプト文字列の中ではなく
// 独立したルールとして実装する。フラグが立った場合、ナラティブへの
// 相談窓口情報の付与は必須となる。
package safety

import (
	"strings"
	"unicode"
)

// ResourceLine は危機兆候が検出された場合にナラティブへ必ず付与する相談窓口情報。
const ResourceLine = "If you are in crisis or thinking about harming yourself, please reach out now: call or text 988 (Suicide & Crisis Lifeline), or contact your local emergency services. You do not have to face this alone."

// highIntensityThreshold は単独でフラグを立てる強度のしきい値。
// キーワードに一致しなくても、ネガティブ極性でこの強度以上なら対象とする。
const highIntensityThreshold = 9

// crisisPhrases は危機兆候を示すフレーズのリスト。トークン列として照合する。
var crisisPhrases = []string{
	"kill myself",
	"end my life",
	"end it all",
	"suicide",
	"suicidal",
	"self harm",
	"self-harm",
	"hurt myself",
	"harm myself",
	"cutting myself",
	"want to die",
	"wish i was dead",
	"wish i were dead",
	"no reason to live",
	"better off without me",
	"being abused",
	"abusing me",
	"forced me",
	"threatening me",
}

// Assessment は危機判定の結果を表す。
type Assessment struct {
	// Flagged は危機兆候が検出されたかどうか。
	Flagged bool
	// MatchedPhrase は一致したフレーズ。強度トリガーの場合は空。
	MatchedPhrase string
}

// Assess はテキストと強度から危機判定を行う。純粋関数。
// キーワード一致、またはネガティブ判定かつ強度がしきい値以上でフラグを立てる。
func Assess(text string, intensity int, negative bool) Assessment {
	tokens := tokenize(text)
	joined := " " + strings.Join(tokens, " ") + " "

	for _, phrase := range crisisPhrases {
		normalized := " " + strings.Join(strings.Fields(strings.ReplaceAll(strings.ToLower(phrase), "-", " ")), " ") + " "
		if strings.Contains(joined, normalized) {
			return Assessment{Flagged: true, MatchedPhrase: phrase}
		}
	}

	if negative && intensity >= highIntensityThreshold {
		return Assessment{Flagged: true}
	}

	return Assessment{}
}

// Apply はフラグが立っている場合にナラティブへ相談窓口情報を付与する。
// すでに含まれている場合は二重付与しない。
func Apply(narrative string, a Assessment) string {
	if !a.Flagged {
		return narrative
	}
	if strings.Contains(narrative, ResourceLine) {
		return narrative
	}
	if narrative == "" {
		return ResourceLine
	}
	return narrative + "\n\n" + ResourceLine
}

// tokenize はテキストを小文字の単語トークン列に分割する。
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return r != '\''
	})
}

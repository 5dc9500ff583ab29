package narrative

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const (
	// NarrativeCap はナラティブのソフト上限（文字数）。
	NarrativeCap = 600
	// SuggestionCap は提案1件あたりの上限（文字数）。
	SuggestionCap = 200
	// MinSuggestionLength はこれ未満の提案を破棄する最小文字数。
	MinSuggestionLength = 10
	// MaxSuggestions は提案件数の上限。
	MaxSuggestions = 6
	// MinSuggestions は提案件数の下限。不足分はフォールバックから補充する。
	MinSuggestions = 3

	// truncateMinFraction は文境界探索の下限割合。上限のこの割合より手前にしか
	// 文末が見つからない場合はハードカットして省略記号を付ける。
	truncateMinFraction = 0.5
)

var (
	// labelPrefixPattern は生成器がエコーしがちなラベルプレフィックスにマッチする。
	labelPrefixPattern = regexp.MustCompile(`(?i)^\s*(insight|response|narrative|answer|reflection)\s*[:：]\s*`)
	// listMarkerPattern は提案の先頭の箇条書きマーカーにマッチする。
	listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•>]|\d+[.)])\s*`)
	// emphasisPattern はマークダウンの強調記号にマッチする。
	emphasisPattern = regexp.MustCompile(`[*_]{1,3}`)

	stripPolicy = bluemonday.StrictPolicy()
)

// sentenceTerminals は文末とみなす記号のセット。
var sentenceTerminals = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
}

// markdownToText はマークダウンをプレーンテキストに変換する。
// blackfridayでHTMLにレンダリングし、bluemondayで全タグを除去してから
// 空白を正規化する。
func markdownToText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := stripPolicy.Sanitize(string(rendered))
	return strings.Join(strings.Fields(stripped), " ")
}

// CleanNarrative はナラティブの後処理を行う。
// 成功経路・フォールバック経路の両方で適用される:
// マークダウン除去 → ラベルプレフィックス除去 → 強調記号除去 → 文境界で切り詰め。
func CleanNarrative(s string) string {
	s = markdownToText(s)
	s = labelPrefixPattern.ReplaceAllString(s, "")
	s = emphasisPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return TruncateAtSentence(s, NarrativeCap)
}

// CleanSuggestions は提案リストの後処理を行う。
// 各提案の箇条書きマーカー除去・切り詰めの後、最小文字数未満を破棄し、
// 件数を上限でキャップする。
func CleanSuggestions(suggestions []string) []string {
	cleaned := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		s = markdownToText(s)
		s = listMarkerPattern.ReplaceAllString(s, "")
		s = emphasisPattern.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		s = TruncateAtSentence(s, SuggestionCap)
		if len([]rune(s)) < MinSuggestionLength {
			continue
		}
		cleaned = append(cleaned, s)
		if len(cleaned) >= MaxSuggestions {
			break
		}
	}
	return cleaned
}

// PadSuggestions は提案がMinSuggestions件に満たない場合、
// 感情別のフォールバックリスト（なければ汎用リスト）から重複なしで補充する。
func PadSuggestions(suggestions []string, dominant string) []string {
	if len(suggestions) >= MinSuggestions {
		return suggestions
	}

	pool, ok := fallbackSuggestions[dominant]
	if !ok {
		pool = genericSuggestions
	}

	have := map[string]bool{}
	for _, s := range suggestions {
		have[s] = true
	}

	for _, s := range pool {
		if len(suggestions) >= MinSuggestions {
			break
		}
		if have[s] {
			continue
		}
		suggestions = append(suggestions, s)
		have[s] = true
	}
	return suggestions
}

// TruncateAtSentence は文字列を文境界でlimit文字以内に切り詰める。
// limit以内の最後の文末記号を探し、その直後（記号を含む）で切る。
// 文末記号がlimitのtruncateMinFraction割合より手前にしか見つからない場合は
// limit位置でハードカットして省略記号を付ける。limitは文字数（rune単位）で数える。
func TruncateAtSentence(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	minIndex := int(float64(limit) * truncateMinFraction)
	for i := limit - 1; i >= minIndex; i-- {
		if sentenceTerminals[runes[i]] {
			return string(runes[:i+1])
		}
	}

	return strings.TrimSpace(string(runes[:limit])) + "…"
}

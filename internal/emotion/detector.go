// Package emotion はジャーナルテキストの感情検出と極性分類を提供する。
//
// 検出・分類はいずれも語彙データのみに依存する純粋関数で、副作用を持たない。
// 失敗モードはなく、キーワードが1つも見つからない場合は
// model.NeutralEmotion / 強度1 に縮退する。
package emotion

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hitoshi/moodlog/internal/lexicon"
	"github.com/hitoshi/moodlog/internal/model"
)

const (
	// DefaultMaxEmotions は1エントリあたりに保持する感情ラベルの上限。
	DefaultMaxEmotions = 8

	// intensifierBonus は強調語が直前にある場合のスコアボーナス。
	intensifierBonus = 2

	// minIntensity / maxIntensity は強度のクランプ範囲。
	minIntensity = 1
	maxIntensity = 10
)

// Detection は検出結果を表す。
type Detection struct {
	// Emotions はスコア降順の感情ラベル。同点は語彙の宣言順。
	Emotions []string
	// Dominant は最上位の感情ラベル。検出ゼロ件ではmodel.NeutralEmotion。
	Dominant string
	// Intensity は[1,10]の強度。
	Intensity int
}

// Detect はテキストを語彙と照合して感情を検出する。
// 上限はDefaultMaxEmotionsを使用する。
func Detect(text string) Detection {
	return DetectWithLimit(text, DefaultMaxEmotions)
}

// DetectWithLimit は感情ラベル数の上限を指定して検出を行う。
//
// スコアリング: キーワード出現1回につき+1、キーワードの直前の単語が
// 強調語（very, really等）の場合はさらに+2。
//
// 強度ポリシー: 観測された最大スコアを基礎値（最低1）とし、
// 検出感情が4種以上で+1、6種以上でさらに+1、最後に[1,10]へクランプする。
// 中間値5から強調語・弱化語で±1する代替ポリシーは採用しない（DESIGN.md参照）。
func DetectWithLimit(text string, maxEmotions int) Detection {
	if maxEmotions <= 0 {
		maxEmotions = DefaultMaxEmotions
	}

	tokens := tokenize(text)

	type scored struct {
		label string
		score int
		order int // 語彙の宣言順（同点時のタイブレーク）
	}

	var results []scored
	for i, e := range lexicon.Emotions() {
		score := 0
		for _, kw := range e.Keywords {
			score += scoreKeyword(tokens, kw)
		}
		if score > 0 {
			results = append(results, scored{label: e.Label, score: score, order: i})
		}
	}

	if len(results) == 0 {
		return Detection{
			Emotions:  []string{},
			Dominant:  model.NeutralEmotion,
			Intensity: minIntensity,
		}
	}

	// スコア降順・同点は宣言順を維持する安定ソート
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	distinct := len(results)
	if len(results) > maxEmotions {
		results = results[:maxEmotions]
	}

	labels := make([]string, len(results))
	maxScore := 0
	for i, r := range results {
		labels[i] = r.label
		if r.score > maxScore {
			maxScore = r.score
		}
	}

	intensity := maxScore
	if distinct >= 4 {
		intensity++
	}
	if distinct >= 6 {
		intensity++
	}
	intensity = clamp(intensity, minIntensity, maxIntensity)

	return Detection{
		Emotions:  labels,
		Dominant:  labels[0],
		Intensity: intensity,
	}
}

// scoreKeyword はトークン列に対するキーワード（単語またはフレーズ）のスコアを返す。
// 出現ごとに+1、直前トークンが強調語なら+2を加算する。
func scoreKeyword(tokens []string, keyword string) int {
	words := strings.Fields(keyword)
	if len(words) == 0 {
		return 0
	}

	score := 0
	for i := 0; i+len(words) <= len(tokens); i++ {
		match := true
		for j, w := range words {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		score++
		if i > 0 && lexicon.IsIntensifier(tokens[i-1]) {
			score += intensifierBonus
		}
	}
	return score
}

// tokenize はテキストを小文字の単語トークン列に分割する。
// アポストロフィとハイフンは単語の一部として扱う（"can't" など）。
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return r != '\'' && r != '-'
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

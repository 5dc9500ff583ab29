package emotion

import "github.com/jonreiter/govader"

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Valence はVADERによる複合スコア（[-1,1]）を返す。
// 極性分類には使用しない参考値で、ナラティブ生成のトーン調整と
// 傾向表示にのみ使われる。Classifyの結果とは独立している。
func Valence(text string) float64 {
	return analyzer.PolarityScores(text).Compound
}

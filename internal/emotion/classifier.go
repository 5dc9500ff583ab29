package emotion

import (
	"github.com/hitoshi/moodlog/internal/lexicon"
	"github.com/hitoshi/moodlog/internal/model"
)

// Classify は感情ラベルのリストを3値の極性に分類する。
// ポジティブ極性セット・ネガティブ極性セットそれぞれへの所属数を数え、
// 厳密に多い側を返す。同数（ゼロ同士を含む）の場合はneutralを返す。
// 入力の順序に依存しない純粋関数で、失敗モードはない。
func Classify(labels []string) model.Sentiment {
	positive := 0
	negative := 0
	for _, label := range labels {
		switch {
		case lexicon.IsPositive(label):
			positive++
		case lexicon.IsNegative(label):
			negative++
		}
	}

	switch {
	case positive > negative:
		return model.SentimentPositive
	case negative > positive:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

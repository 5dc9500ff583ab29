// Package lexicon は感情検出に使用する静的な語彙データを提供する。
//
// 感情ラベルとトリガーキーワードのマッピング、極性分類用のラベルセット、
// 強調語のリストを定義する。宣言順が検出器の同点時の優先順位になるため、
// Emotions()の並び順には意味がある。
package lexicon

// Emotion は1つの感情ラベルとそのトリガーキーワードを表す。
type Emotion struct {
	// Label は感情ラベル。APIレスポンスにそのまま使用される。
	Label string
	// Keywords はこの感情を示唆する小文字のキーワード・フレーズのリスト。
	// 複数語のフレーズはトークン列として照合される。
	Keywords []string
}

// emotions は感情語彙の宣言。スコアが同点の場合はこの並び順が優先される。
var emotions = []Emotion{
	{
		Label: "happy",
		Keywords: []string{
			"happy", "joy", "joyful", "glad", "delighted", "cheerful",
			"wonderful", "great day", "smiled", "smiling", "laughed",
		},
	},
	{
		Label: "sad",
		Keywords: []string{
			"sad", "unhappy", "down", "depressed", "miserable", "cried",
			"crying", "tears", "heartbroken", "grief", "empty inside",
		},
	},
	{
		Label: "anxious",
		Keywords: []string{
			"anxious", "anxiety", "worried", "worry", "nervous", "uneasy",
			"on edge", "panick", "panic", "dread", "restless",
		},
	},
	{
		Label: "stressed",
		Keywords: []string{
			"stressed", "stress", "pressure", "overwhelmed", "exam",
			"deadline", "too much", "burned out", "burnout", "exhausting",
		},
	},
	{
		Label: "angry",
		Keywords: []string{
			"angry", "anger", "mad", "furious", "irritated", "annoyed",
			"rage", "resent", "fed up",
		},
	},
	{
		Label: "excited",
		Keywords: []string{
			"excited", "excitement", "thrilled", "can't wait", "looking forward",
			"pumped", "eager",
		},
	},
	{
		Label: "calm",
		Keywords: []string{
			"calm", "peaceful", "relaxed", "at ease", "serene", "tranquil",
			"breathed", "quiet mind",
		},
	},
	{
		Label: "tired",
		Keywords: []string{
			"tired", "exhausted", "sleepy", "fatigue", "drained", "worn out",
			"no energy", "couldn't sleep",
		},
	},
	{
		Label: "lonely",
		Keywords: []string{
			"lonely", "alone", "isolated", "no one", "nobody", "left out",
			"by myself",
		},
	},
	{
		Label: "grateful",
		Keywords: []string{
			"grateful", "thankful", "gratitude", "appreciate", "blessed",
			"lucky to have",
		},
	},
	{
		Label: "overwhelmed",
		Keywords: []string{
			"overwhelmed", "overwhelming", "can't cope", "can't handle",
			"drowning", "piling up", "swamped",
		},
	},
	{
		Label: "hopeful",
		Keywords: []string{
			"hopeful", "hope", "optimistic", "things will get better",
			"brighter", "fresh start",
		},
	},
	{
		Label: "frustrated",
		Keywords: []string{
			"frustrated", "frustrating", "frustration", "stuck", "going nowhere",
			"pointless", "gave up",
		},
	},
	{
		Label: "confused",
		Keywords: []string{
			"confused", "confusing", "unsure", "don't know what", "lost",
			"torn between",
		},
	},
	{
		Label: "content",
		Keywords: []string{
			"content", "satisfied", "fulfilled", "enough", "at peace",
		},
	},
}

// positiveLabels はポジティブ極性に分類される感情ラベルのセット。
// negativeLabelsとは互いに素であること。
var positiveLabels = map[string]bool{
	"happy":    true,
	"excited":  true,
	"calm":     true,
	"grateful": true,
	"hopeful":  true,
	"content":  true,
}

// negativeLabels はネガティブ極性に分類される感情ラベルのセット。
var negativeLabels = map[string]bool{
	"sad":         true,
	"anxious":     true,
	"stressed":    true,
	"angry":       true,
	"tired":       true,
	"lonely":      true,
	"overwhelmed": true,
	"frustrated":  true,
}

// intensifiers はキーワードの直前に現れるとスコアにボーナスを与える強調語のセット。
var intensifiers = map[string]bool{
	"very":       true,
	"really":     true,
	"so":         true,
	"extremely":  true,
	"incredibly": true,
	"totally":    true,
	"completely": true,
}

// Emotions は感情語彙を宣言順で返す。返されるスライスは変更しないこと。
func Emotions() []Emotion {
	return emotions
}

// IsPositive はラベルがポジティブ極性セットに含まれるかを返す。
func IsPositive(label string) bool {
	return positiveLabels[label]
}

// IsNegative はラベルがネガティブ極性セットに含まれるかを返す。
func IsNegative(label string) bool {
	return negativeLabels[label]
}

// IsIntensifier は単語が強調語かどうかを返す。引数は小文字であること。
func IsIntensifier(word string) bool {
	return intensifiers[word]
}

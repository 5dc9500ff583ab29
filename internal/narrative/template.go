package narrative

import (
	"context"

	"github.com/hitoshi/moodlog/internal/model"
)

// personaTemplate はペルソナごとのプロンプト指示を表す。
// コンテンツを制御フローから切り離すため、ロール×モードのデータ表として持つ。
type personaTemplate struct {
	// Voice は話者の立場の説明。
	Voice string
	// DailyDirective は日常モードのトーン指示。
	DailyDirective string
	// IncidentDirective は出来事モードのトーン指示。
	IncidentDirective string
}

// personas はペルソナテンプレートのレジストリ。
var personas = map[model.ResponseRole]personaTemplate{
	model.RoleCounselor: {
		Voice:             "a warm, professional counselor",
		DailyDirective:    "Reflect what the writer seems to be feeling, validate it without judgment, and gently point out one thing they handled well.",
		IncidentDirective: "Acknowledge the specific event, normalize the reaction to it, and help the writer separate the event from their self-worth.",
	},
	model.RoleFriend: {
		Voice:             "a close, supportive friend",
		DailyDirective:    "Respond casually and warmly, like catching up over coffee. Show you really listened.",
		IncidentDirective: "React to what happened the way a good friend would: take their side first, then help them see it clearly.",
	},
	model.RoleMother: {
		Voice:             "a caring mother",
		DailyDirective:    "Respond with gentle warmth and reassurance, reminding the writer they are cared for.",
		IncidentDirective: "Comfort first, advise second. Make the writer feel safe before anything else.",
	},
	model.RoleFather: {
		Voice:             "a steady, encouraging father",
		DailyDirective:    "Respond with calm confidence in the writer, keeping things grounded and practical.",
		IncidentDirective: "Take the event seriously, express quiet confidence that the writer can get through it, and offer one concrete perspective.",
	},
}

// personaFor はロールに対応するテンプレートを返す。未知のロールはカウンセラーになる。
func personaFor(role model.ResponseRole) personaTemplate {
	if p, ok := personas[role]; ok {
		return p
	}
	return personas[model.RoleCounselor]
}

// fallbackNarrative は感情ラベル×モード別のフォールバック応答。
// 生成サービスが利用できない場合に使用される決定的なテンプレート。
type fallbackNarrative struct {
	Daily    string
	Incident string
}

// fallbackNarratives は支配的感情をキーとするフォールバック応答の表。
var fallbackNarratives = map[string]fallbackNarrative{
	"happy": {
		Daily:    "It sounds like today brought you real joy. Moments like this are worth holding onto, and writing them down helps them last. Let yourself enjoy this feeling without rushing to the next thing.",
		Incident: "Something good happened, and you noticed it. That matters. Celebrating the wins, even quietly in a journal, builds the kind of memory you can lean on during harder days.",
	},
	"sad": {
		Daily:    "There is a heaviness in what you wrote, and it deserves acknowledgment rather than a quick fix. Sadness is a signal, not a failure. Be as patient with yourself today as you would be with someone you love.",
		Incident: "What happened clearly hurt, and it makes sense that you feel this way. You do not have to minimize it or talk yourself out of it. Let the feeling be what it is for now; it will soften with time and care.",
	},
	"anxious": {
		Daily:    "Worry has a way of filling whatever space we give it. Naming what you are anxious about, as you just did, is already a way of shrinking it. Your mind is trying to protect you, even if it is overdoing the job right now.",
		Incident: "That situation would make most people anxious. The feeling is proportional to how much you care, not proof that something is wrong with you. One small, concrete step is worth more than an hour of bracing for the worst.",
	},
	"stressed": {
		Daily:    "You are carrying a lot right now, and the pressure is showing up in your words. Stress at this level is a sign the load needs adjusting, not that you are failing to cope. Even ten minutes of genuine rest counts.",
		Incident: "That event added real pressure on top of everything else. When things pile up like this, the goal is not to do everything; it is to decide what actually needs you today and let the rest wait.",
	},
	"angry": {
		Daily:    "There is real frustration in what you wrote, and anger usually points at something that matters to you being stepped on. The feeling itself is valid; what you do with it is yours to choose.",
		Incident: "What happened crossed a line for you, and the anger makes sense. Before acting on it, give yourself credit for putting it into words here first; that is exactly how strong feelings become manageable ones.",
	},
	"lonely": {
		Daily:    "Loneliness is one of the hardest feelings to sit with, and writing about it takes honesty. The need for connection is not weakness; it is human. Even one small reach toward another person can shift the weight.",
		Incident: "Feeling left out or alone after what happened is painful, and it is understandable. This moment is not the whole picture of your relationships, even though it feels that way right now.",
	},
	"overwhelmed": {
		Daily:    "When everything feels like too much, that is usually because it genuinely is too much for one person at once. You do not have to sort all of it today. Pick the single smallest next thing and let that be enough.",
		Incident: "That situation tipped things from busy into too much, and your reaction is understandable. Overwhelm shrinks when it is broken into pieces; what you wrote here is the first piece.",
	},
	"tired": {
		Daily:    "Exhaustion this deep is information, not laziness. Your body and mind are asking for recovery, and working against that usually costs more than it saves. Rest is productive too.",
		Incident: "After what happened, feeling drained makes complete sense. Give yourself permission to do less for a little while; depletion is not a state to push through indefinitely.",
	},
	"grateful": {
		Daily:    "Gratitude like this changes how days are remembered. You noticed something good and gave it attention, which is a skill as much as a feeling. It is worth doing again tomorrow.",
		Incident: "Something happened that reminded you of what you have, and you took the time to honor it. These are the moments that steady us later, when things are harder.",
	},
	"hopeful": {
		Daily:    "There is a forward lean in what you wrote, a sense that things can get better. Hold onto that; hope is not naive, it is fuel. Pair it with one small action and it becomes momentum.",
		Incident: "Even with everything going on, you found a reason to look forward. That resilience is worth noticing, because it came from you, not from circumstances.",
	},
}

// genericFallbackNarrative は感情別テンプレートが存在しない場合のデフォルト応答。
var genericFallbackNarrative = fallbackNarrative{
	Daily:    "Thank you for taking the time to write today. Putting feelings into words, even briefly, is one of the most reliable ways to understand them. Whatever today held, you showed up for yourself by recording it.",
	Incident: "You went through something worth writing down, and you did. That act alone creates a little distance from the event and a little clarity about it. Be kind to yourself as you process the rest.",
}

// fallbackSuggestions は感情別のデフォルト提案リスト。各リストは3件以上。
var fallbackSuggestions = map[string][]string{
	"happy": {
		"Write down one specific detail of what made today good, so you can revisit it later.",
		"Share the good news with someone who will be glad to hear it.",
		"Notice what conditions made this feeling possible and plan to repeat one of them.",
	},
	"sad": {
		"Let yourself feel it without a deadline; set aside ten quiet minutes with no task.",
		"Reach out to one person you trust, even just to say today was hard.",
		"Do one small, gentle thing for yourself: a walk, a warm drink, an early night.",
	},
	"anxious": {
		"Try a grounding exercise: name five things you can see, four you can hear, three you can touch.",
		"Write the specific worry as a single sentence, then write what you would tell a friend with the same worry.",
		"Take ten slow breaths, making the exhale longer than the inhale.",
	},
	"stressed": {
		"List everything on your plate, then mark the one item that actually needs you today.",
		"Take a deliberate break away from screens, even five minutes outside helps.",
		"Say no, or not yet, to one thing this week.",
	},
	"angry": {
		"Move your body before responding: a brisk walk burns the edge off anger safely.",
		"Write the unsent version of what you want to say, then decide later what to actually send.",
		"Name what boundary was crossed; anger usually guards something that matters.",
	},
	"lonely": {
		"Send one low-pressure message to someone you have not talked to in a while.",
		"Put yourself somewhere with ambient company: a cafe, a library, a park.",
		"Plan one small social thing for this week, even a short call counts.",
	},
	"overwhelmed": {
		"Break the pile into the smallest possible next step and do only that one.",
		"Write everything down to get it out of your head; paper holds lists better than minds do.",
		"Ask for help with one specific thing, people respond well to concrete asks.",
	},
	"tired": {
		"Protect your sleep tonight: set a wind-down alarm an hour before bed.",
		"Cancel or postpone one non-essential commitment.",
		"Drink water and step outside for daylight; small physical resets help more than they seem.",
	},
	"grateful": {
		"Tell the person involved, specifically, what you appreciated.",
		"Keep a running list of small good moments; add today's entry.",
		"Pay the feeling forward with one small act of kindness.",
	},
	"hopeful": {
		"Turn the hope into one concrete step you can take this week.",
		"Write down what you are hoping for, so future you can see how it went.",
		"Protect this momentum: plan something small to look forward to.",
	},
}

// genericSuggestions は感情別リストが存在しない場合のデフォルト提案。
var genericSuggestions = []string{
	"Take a few minutes of quiet breathing before moving on with your day.",
	"Go for a short walk and let your thoughts settle without forcing them.",
	"Write one more sentence tomorrow about how today's feeling changed.",
	"Reach out to someone you trust, even briefly; connection helps perspective.",
}

// Fallback は決定的なフォールバック応答を生成する。
// (支配的感情, モード)でテンプレートを選択し、感情別の提案リスト
// （なければ汎用リスト）を返す。エラーを返すことはない。
func Fallback(req Request) Response {
	tmpl, ok := fallbackNarratives[req.Dominant]
	if !ok {
		tmpl = genericFallbackNarrative
	}

	text := tmpl.Daily
	if req.IsIncident {
		text = tmpl.Incident
	}

	suggestions, ok := fallbackSuggestions[req.Dominant]
	if !ok {
		suggestions = genericSuggestions
	}

	out := make([]string, len(suggestions))
	copy(out, suggestions)

	return Response{Narrative: text, Suggestions: out}
}

// FallbackGenerator はGeneratorインターフェースを満たす決定的なフォールバック実装。
// OpenAIのAPIキーが設定されていない環境で主生成器として使用される。
type FallbackGenerator struct{}

// Generate は常にフォールバック応答を返す。エラーを返すことはない。
func (FallbackGenerator) Generate(_ context.Context, req Request) (Response, error) {
	return Fallback(req), nil
}

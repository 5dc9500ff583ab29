package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/hitoshi/moodlog/internal/model"
)

// generatorOutput は構造化出力として要求するJSONの形。
type generatorOutput struct {
	Insight     string   `json:"insight" jsonschema_description:"A supportive narrative response to the journal entry"`
	Suggestions []string `json:"suggestions" jsonschema_description:"3 to 6 short actionable suggestions"`
}

// outputSchema はgeneratorOutputから反射で生成したJSONスキーマ。
var outputSchema = generateSchema[generatorOutput]()

// OpenAIGenerator はOpenAI Responses APIによるGenerator実装。
type OpenAIGenerator struct {
	client  openai.Client
	model   string
	backoff BackoffConfig
	logger  *slog.Logger
}

// NewOpenAIGenerator はOpenAIGeneratorの新しいインスタンスを生成する。
func NewOpenAIGenerator(apiKey, modelName string, backoff BackoffConfig, logger *slog.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   modelName,
		backoff: backoff,
		logger:  logger,
	}
}

// Generate はエントリ内容からナラティブと提案を生成する。
// レート制限・サーバーエラーはBackoffConfigに従ってリトライし、
// 試行回数を使い切った場合や空レスポンスの場合はエラーを返す
// （フォールバックへの切り替えは呼び出し側の責務）。
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(1200),
		Instructions:    openai.String(buildInstructions(req)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(buildInput(req), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "JournalReflection",
					Schema:      outputSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Supportive reflection JSON"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := g.callWithRetry(ctx, params)
	if err != nil {
		return Response{}, err
	}

	var out generatorOutput
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return Response{}, fmt.Errorf("生成レスポンスのパースに失敗しました: %w", err)
	}

	if strings.TrimSpace(out.Insight) == "" {
		return Response{}, errors.New("生成レスポンスのナラティブが空です")
	}

	return Response{Narrative: out.Insight, Suggestions: out.Suggestions}, nil
}

// callWithRetry はリトライ付きでResponses APIを呼び出す。
func (g *OpenAIGenerator) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	var lastErr error
	for attempt := 0; attempt < g.backoff.MaxAttempts; attempt++ {
		resp, err := g.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryableError(err) || attempt == g.backoff.MaxAttempts-1 {
			break
		}

		rateLimited := isRateLimitError(err)
		wait := g.backoff.waitFor(attempt, rateLimited)
		g.logger.Warn("生成サービスの呼び出しに失敗しました。リトライします",
			slog.Int("attempt", attempt+1),
			slog.Bool("rate_limited", rateLimited),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
		if err := sleepContext(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("生成サービスの呼び出しが%d回失敗しました: %w", g.backoff.MaxAttempts, lastErr)
}

// buildInstructions はペルソナテンプレートとモードからシステム指示を構築する。
func buildInstructions(req Request) string {
	p := personaFor(req.Role)
	directive := p.DailyDirective
	if req.IsIncident {
		directive = p.IncidentDirective
	}

	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(p.Voice)
	b.WriteString(" responding to a personal journal entry. ")
	b.WriteString(directive)
	b.WriteString(" Keep the narrative under 600 characters, ending on a complete sentence.")
	b.WriteString(" Provide 3 to 6 short, concrete suggestions.")
	b.WriteString(" Do not diagnose. Do not prefix the narrative with labels like 'Insight:'.")
	return b.String()
}

// buildInput はエントリ本文と分析コンテキストからユーザー入力を構築する。
func buildInput(req Request) string {
	var b strings.Builder
	b.WriteString("Journal entry:\n")
	b.WriteString(req.Text)
	b.WriteString("\n\nDetected emotions: ")
	if len(req.Emotions) == 0 {
		b.WriteString(model.NeutralEmotion)
	} else {
		b.WriteString(strings.Join(req.Emotions, ", "))
	}
	fmt.Fprintf(&b, "\nDominant emotion: %s\nIntensity (1-10): %d\nTone score (-1..1): %.2f\n",
		req.Dominant, req.Intensity, req.Valence)
	if len(req.History) > 0 {
		fmt.Fprintf(&b, "Recent dominant emotions (newest first): %s\n", strings.Join(req.History, ", "))
	}
	if req.IsIncident {
		b.WriteString("This entry describes a specific incident, not a general daily reflection.\n")
	}
	return b.String()
}

// generateSchema は型TからOpenAI互換のJSONスキーマを反射で生成する。
func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	ensureRequiredFields(m)
	return m
}

// ensureRequiredFields はstrictモード用に全プロパティをrequiredへ昇格させる。
func ensureRequiredFields(schema map[string]interface{}) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]interface{}); ok {
			var required []string
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
			for _, p := range props {
				if pm, ok := p.(map[string]interface{}); ok {
					ensureRequiredFields(pm)
				}
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		ensureRequiredFields(items)
	}
}

// Package narrative は支持的な応答テキストの生成を提供する。
//
// 外部のテキスト生成サービス（OpenAI）への委譲と、サービスが利用できない
// 場合の決定的なフォールバックの両方を含む。どちらの経路でも出力は
// 同じ後処理（プレフィックス除去・文境界での切り詰め・提案の正規化）を通る。
package narrative

import (
	"context"

	"github.com/hitoshi/moodlog/internal/model"
)

// Request はナラティブ生成への入力を表す。
type Request struct {
	// Text はエントリの生テキスト。
	Text string
	// Emotions は検出された感情ラベル（スコア降順）。
	Emotions []string
	// Dominant は最上位の感情ラベル。
	Dominant string
	// Intensity は[1,10]の強度。
	Intensity int
	// Valence はVADER複合スコア。トーン調整の参考値。
	Valence float64
	// History は直近エントリの支配的感情（新しい順、最大5件）。
	History []string
	// IsIncident は出来事モードかどうか。
	IsIncident bool
	// Role は応答ペルソナ。
	Role model.ResponseRole
}

// Response は生成結果を表す。後処理前の生の値を保持する。
type Response struct {
	// Narrative は支持的な応答テキスト。
	Narrative string
	// Suggestions は提案のリスト。
	Suggestions []string
}

// Generator はテキスト生成の狭い契約。プロンプト相当の入力を受け取り、
// 自由テキストを返す。失敗・タイムアウトし得る。
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

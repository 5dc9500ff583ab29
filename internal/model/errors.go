// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, journal, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEntryEmpty    = "ENTRY_EMPTY"
	ErrCodeEntryTooShort = "ENTRY_TOO_SHORT"
	ErrCodeInvalidRole   = "INVALID_ROLE"
	ErrCodeEntryNotFound = "ENTRY_NOT_FOUND"
)

// NewEntryEmptyError は空エントリエラーを生成する。
func NewEntryEmptyError() *APIError {
	return &APIError{
		Code:     ErrCodeEntryEmpty,
		Message:  "エントリのテキストが空です。",
		Category: "validation",
		Action:   "今日の気持ちを文章で入力してください。",
	}
}

// NewEntryTooShortError は最小文字数未満のエントリエラーを生成する。
func NewEntryTooShortError(length, min int) *APIError {
	return &APIError{
		Code:     ErrCodeEntryTooShort,
		Message:  fmt.Sprintf("エントリが短すぎます: %d文字（最低%d文字）", length, min),
		Category: "validation",
		Action:   fmt.Sprintf("分析には%d文字以上の記述が必要です。もう少し詳しく書いてみてください。", min),
	}
}

// NewInvalidRoleError は無効なペルソナ指定エラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効な応答ペルソナです: %s", role),
		Category: "validation",
		Action:   "counselor、friend、mother、father のいずれかを指定してください。",
	}
}

// NewEntryNotFoundError はエントリ未検出エラーを生成する。
func NewEntryNotFoundError(entryID string) *APIError {
	return &APIError{
		Code:     ErrCodeEntryNotFound,
		Message:  fmt.Sprintf("指定されたエントリが見つかりません: %s", entryID),
		Category: "journal",
		Action:   "エントリIDを確認してください。",
	}
}

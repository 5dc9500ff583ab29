// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/moodlog/internal/model"
)

// EntryRepository はジャーナルエントリの永続化インターフェース。
// エントリは追記専用で、更新・削除のメソッドは提供しない。
type EntryRepository interface {
	// Create はエントリを保存する。分析パイプライン完了後にのみ呼び出すこと。
	Create(ctx context.Context, entry *model.MoodEntry) error

	// ListAll は全エントリをタイムスタンプ昇順で返す。
	ListAll(ctx context.Context) ([]model.MoodEntry, error)

	// ListRecent は直近limit件のエントリを新しい順で返す。
	ListRecent(ctx context.Context, limit int) ([]model.MoodEntry, error)
}

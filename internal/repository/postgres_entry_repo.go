package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/moodlog/internal/model"
)

// PostgresEntryRepo はPostgreSQLを使用したエントリリポジトリ。
// 分析結果と提案リストはJSONBカラムで保持する。
type PostgresEntryRepo struct {
	db *sql.DB
}

// NewPostgresEntryRepo はPostgresEntryRepoを生成する。
func NewPostgresEntryRepo(db *sql.DB) *PostgresEntryRepo {
	return &PostgresEntryRepo{db: db}
}

// Create はエントリを保存する。
func (r *PostgresEntryRepo) Create(ctx context.Context, entry *model.MoodEntry) error {
	analysisJSON, err := json.Marshal(entry.Analysis)
	if err != nil {
		return fmt.Errorf("分析結果のシリアライズに失敗しました: %w", err)
	}
	suggestionsJSON, err := json.Marshal(entry.Suggestions)
	if err != nil {
		return fmt.Errorf("提案リストのシリアライズに失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO mood_entries
		   (id, entry_timestamp, entry_date, entry_text, is_incident,
		    response_role, analysis, narrative, suggestions, schema_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, entry.Timestamp, entry.Date, entry.Text, entry.IsIncident,
		string(entry.ResponseRole), analysisJSON, entry.Narrative, suggestionsJSON,
		model.SchemaVersion, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("エントリの保存に失敗しました: %w", err)
	}
	return nil
}

// ListAll は全エントリをタイムスタンプ昇順で返す。
func (r *PostgresEntryRepo) ListAll(ctx context.Context) ([]model.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` FROM mood_entries ORDER BY entry_timestamp ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListRecent は直近limit件のエントリを新しい順で返す。
func (r *PostgresEntryRepo) ListRecent(ctx context.Context, limit int) ([]model.MoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` FROM mood_entries ORDER BY entry_timestamp DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("直近エントリの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

const selectColumns = `SELECT id, entry_timestamp, entry_date::text, entry_text,
	is_incident, response_role, analysis, narrative, suggestions, created_at`

// scanEntries は結果セットをMoodEntryのスライスに変換する。
func scanEntries(rows *sql.Rows) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	for rows.Next() {
		var e model.MoodEntry
		var role string
		var analysisJSON, suggestionsJSON []byte

		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Date, &e.Text,
			&e.IsIncident, &role, &analysisJSON, &e.Narrative,
			&suggestionsJSON, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("エントリ行の読み取りに失敗しました: %w", err)
		}

		e.ResponseRole = model.ResponseRole(role)
		if err := json.Unmarshal(analysisJSON, &e.Analysis); err != nil {
			return nil, fmt.Errorf("分析結果のデシリアライズに失敗しました: %w", err)
		}
		if err := json.Unmarshal(suggestionsJSON, &e.Suggestions); err != nil {
			return nil, fmt.Errorf("提案リストのデシリアライズに失敗しました: %w", err)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("エントリ一覧の走査に失敗しました: %w", err)
	}
	return entries, nil
}

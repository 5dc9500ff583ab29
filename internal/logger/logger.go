package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// writerが指定された場合はそのwriterに出力する。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupWithFormat はformatに応じたハンドラのslog.Loggerを生成して返す。
// "text"の場合は開発用の色付きテキスト出力、それ以外はJSON出力となる。
func SetupWithFormat(w io.Writer, format string) *slog.Logger {
	if format == "text" {
		handler := tint.NewHandler(w, &tint.Options{
			Level: slog.LevelInfo,
		})
		return slog.New(handler)
	}
	return Setup(w)
}

// SetupDefault はformatに応じたロガーをグローバルロガーとして設定する。
// writerが指定された場合はそのwriterに出力する。
// 本番ではos.Stdoutを渡すことを想定している。
func SetupDefault(w io.Writer, format string) {
	if w == nil {
		w = os.Stdout
	}
	logger := SetupWithFormat(w, format)
	slog.SetDefault(logger)
}

package main

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"

	"github.com/hitoshi/moodlog/internal/app"
)

func main() {
	// ローカル開発用に.envがあれば読み込む（本番では存在しない）
	_ = gotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

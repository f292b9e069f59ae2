package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := server.Run(context.Background()); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

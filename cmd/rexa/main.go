package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/alexanderramin/rexa/internal/app"
	"github.com/alexanderramin/rexa/internal/cli"
	"github.com/alexanderramin/rexa/internal/llm"
	"github.com/alexanderramin/rexa/internal/logger"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; anything else is a broken file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	log := logger.New(logger.LoadConfig())
	defer func() { _ = log.Sync() }()

	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(log)
	}
	client := llm.NewOllamaClient(llmCfg, observer)

	cfg := app.LoadConfig()
	a, closeDB, err := app.Build(cfg, llmCfg, client, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	// Detect interactive terminal: chat TUI vs pipe mode.
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}

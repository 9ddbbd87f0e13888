// Command import replays an SMS backup CSV into the database without sending chat notifications.
//
//	import -file sms-backup.csv -source pixel
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/app"
	"github.com/MrJamesThe3rd/paisa/internal/config"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
	"github.com/MrJamesThe3rd/paisa/internal/smsimport"
)

func main() {
	path := flag.String("file", "", "SMS backup CSV (android, imazing or generic layout)")
	source := flag.String("source", "", "label recorded with each message, e.g. the phone name")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	summary, err := run(cfg, logger, *path, *source)
	if summary != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
	}

	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger, path, source string) (*smsimport.Summary, error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	a, err := app.Open(ctx, cfg, logger, observability.NewMetrics())
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return smsimport.NewService(a.Pipeline(nil), logger).Import(ctx, f, source)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/kotoba/internal/config"
	"github.com/ajitpratap0/kotoba/internal/corpus"
	"github.com/ajitpratap0/kotoba/internal/generator"
)

var (
	cfg       *config.Config
	corpusDir string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kotoba",
		Short:        "kotoba generates semantically coherent Japanese practice sentences",
		Long:         "kotoba fills grammar templates from a JSON corpus, picks entity types and words by semantic compatibility, and checks every sentence for coherence.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if corpusDir != "" {
				cfg.Corpus.Dir = corpusDir
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "corpus directory (overrides corpus.dir)")

	rootCmd.AddCommand(
		generateCmd(),
		themesCmd(),
		checkCmd(),
		scoreCmd(),
		corpusCmd(),
		serveCmd(),
		mcpCmd(),
	)
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch cfg.Logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func loadCorpus() (*corpus.Corpus, error) {
	c, err := corpus.Load(cfg.Corpus.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading corpus from %s: %w", cfg.Corpus.Dir, err)
	}
	return c, nil
}

func newGenerator(logger *slog.Logger) (*generator.Generator, error) {
	c, err := loadCorpus()
	if err != nil {
		return nil, err
	}
	return generator.New(c, logger), nil
}

// newProvider loads the corpus behind a holder and, when corpus.watch is set,
// keeps it fresh until ctx is done.
func newProvider(ctx context.Context, logger *slog.Logger) (*generator.Provider, error) {
	c, err := loadCorpus()
	if err != nil {
		return nil, err
	}
	holder := corpus.NewHolder(c)
	if cfg.Corpus.Watch {
		go func() {
			if werr := corpus.Watch(ctx, cfg.Corpus.Dir, cfg.Corpus.Debounce, logger, holder.Store); werr != nil {
				logger.Error("corpus watcher stopped", "error", werr)
			}
		}()
	}
	return generator.NewProvider(holder, logger), nil
}

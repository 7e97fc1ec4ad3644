package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"symptom-checker/internal/config"
	"symptom-checker/internal/core"
	"symptom-checker/internal/db"
	httpserver "symptom-checker/internal/http"
	"symptom-checker/internal/llm"
	"symptom-checker/internal/logging"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "symptom-checker",
		Short: "Symptom analysis API backed by an LLM",
		Long: `symptom-checker serves POST /check_symptoms and POST /prepare_questions,
forwarding requests to an OpenAI-compatible chat completion API (Groq by
default) and recording every answer in a local history table.

Settings come from the environment (a .env file in the working directory is
read first), an optional YAML file given with --config, and built-in defaults.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the history table if it does not exist and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	})
	return root
}

type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	conn    *sql.DB
	dialect db.Dialect
}

// bootstrap loads configuration, builds the logger and opens and migrates the
// history store.
func bootstrap(ctx context.Context) (*app, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	dialect, err := db.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		logger.WithError(err).Error("failed to open database")
		return nil, err
	}
	if err := db.Migrate(ctx, conn, dialect); err != nil {
		conn.Close()
		logger.WithError(err).Error("failed to run migrations")
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, conn: conn, dialect: dialect}, nil
}

func runMigrate() error {
	rt, err := bootstrap(context.Background())
	if err != nil {
		return err
	}
	defer rt.conn.Close()
	rt.logger.WithField("driver", rt.dialect).Info("history schema is up to date")
	return nil
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.conn.Close()
	cfg, logger := rt.cfg, rt.logger

	if cfg.LLM.APIKey == "" {
		// Calls will fail upstream and answer with the fallback sentence.
		logger.Warn("GROQ_API_KEY is not set; provider calls will fail")
	}
	client := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	advisor := core.NewAdvisor(client, logger)
	repo := db.NewHistoryRepository(rt.conn, rt.dialect)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpserver.NewServer(advisor, repo, rt.conn, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":   cfg.Server.Addr,
			"model":  client.Model(),
			"driver": rt.dialect,
		}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

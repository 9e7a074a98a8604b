package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/blind-hire/internal/config"
	"github.com/jonathan/blind-hire/internal/db"
	"github.com/jonathan/blind-hire/internal/fixtures"
	"github.com/jonathan/blind-hire/internal/lifecycle"
	"github.com/jonathan/blind-hire/internal/recruiting"
	"github.com/jonathan/blind-hire/internal/repository"
	"github.com/jonathan/blind-hire/internal/server"
)

var (
	servePort     int
	serveFixtures string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing job posting, anonymized screening, shortlisting and reveal endpoints.

Lifecycle state and the reveal audit trail are stored in PostgreSQL when DATABASE_URL is set,
otherwise in memory. Fixtures only seed the in-memory store and are refused together
with DATABASE_URL.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveFixtures, "fixtures", "", `Seed file to load at startup; "default" loads the bundled seed`)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("fixtures") {
		cfg.Fixtures = serveFixtures
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := openLifecycleStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := recruiting.NewService(repository.New(), lifecycle.NewMachine(store), recruiting.WithLogger(log))

	if err := seed(ctx, svc, cfg.Fixtures, log); err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
	}, svc, log)
	return srv.Run(ctx)
}

// openLifecycleStore connects to PostgreSQL when a database URL is configured.
func openLifecycleStore(ctx context.Context, cfg config.Config, log *zap.Logger) (lifecycle.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory lifecycle store")
		return lifecycle.NewMemoryStore(), func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("using postgres lifecycle store")
	return db.NewLifecycleStore(database), database.Close, nil
}

// seed applies the fixture document named by source, if any.
func seed(ctx context.Context, svc *recruiting.Service, source string, log *zap.Logger) error {
	var (
		doc *fixtures.Seed
		err error
	)
	switch source {
	case "":
		return nil
	case "default":
		doc, err = fixtures.Parse(fixtures.Default())
	default:
		doc, err = fixtures.LoadFile(source)
	}
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	res, err := fixtures.Apply(ctx, svc, doc)
	if err != nil {
		return fmt.Errorf("failed to apply fixtures: %w", err)
	}
	log.Info("fixtures applied",
		zap.String("source", source),
		zap.Int("jobs", len(res.JobIDs)),
		zap.Int("candidates", res.Candidates),
		zap.Int("actions", res.Actions))
	return nil
}

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tyler180/fbref-pizza/internal/config"
	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/lookup"
	"github.com/tyler180/fbref-pizza/internal/pipeline"
	"github.com/tyler180/fbref-pizza/internal/store"
)

var (
	flagLookup   string
	flagLogFile  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "pizza",
	Short:         "Percentile pizza charts from fbref scouting reports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLookup, "lookup", "", "player lookup source: file (.xlsx/.csv/.parquet), s3://, dynamodb:// or athena:// (default $LOOKUP_SOURCE or player_profiles.xlsx)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append-only log file (default $LOG_FILE or player_selector.log)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL or debug)")

	rootCmd.AddCommand(renderCmd, playersCmd, metricsCmd, importCmd)
}

// app is the state shared by the subcommands for one invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	aws      *store.Clients
}

func newApp() (*app, error) {
	cfg := config.Load()
	if flagLookup != "" {
		cfg.LookupSource = flagLookup
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	logger, closeLog, err := logging.NewLogger(logging.Config{
		Path:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func (a *app) clients(ctx context.Context) (*store.Clients, error) {
	if a.aws != nil {
		return a.aws, nil
	}
	cl, err := store.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	a.aws = cl
	return cl, nil
}

// loadStore reads the lookup table. Any failure maps to exit status 1.
func (a *app) loadStore(ctx context.Context) (*lookup.Store, error) {
	opts := lookup.Options{
		AthenaWorkgroup: a.cfg.Athena.Workgroup,
		AthenaOutput:    a.cfg.Athena.Output,
		Logger:          a.logger,
	}
	if lookup.NeedsAWS(a.cfg.LookupSource) {
		cl, err := a.clients(ctx)
		if err != nil {
			logging.Error(a.logger, "error loading aws config", err)
			return nil, loadFailure(err)
		}
		opts.S3, opts.DynamoDB, opts.Athena = cl.S3, cl.DynamoDB, cl.Athena
	}
	st, err := lookup.Load(ctx, a.cfg.LookupSource, opts)
	if err != nil {
		return nil, loadFailure(err)
	}
	return st, nil
}

func loadFailure(err error) error {
	return &exitError{code: 1, msg: pipeline.ResourceLoadFailure.Message(), err: err}
}

// runFailure maps a recoverable pipeline error to exit status 2.
func runFailure(err error) error {
	k := pipeline.KindOf(err)
	if k == pipeline.ResourceLoadFailure {
		return loadFailure(err)
	}
	return &exitError{code: 2, msg: k.String() + ": " + k.Message(), err: err}
}

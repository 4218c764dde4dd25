// cmd/aggregator/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChiefMedia/mintMeasureColab/pkg/attribution"
	"github.com/ChiefMedia/mintMeasureColab/pkg/config"
	"github.com/ChiefMedia/mintMeasureColab/pkg/pipeline"
	"github.com/ChiefMedia/mintMeasureColab/pkg/reader"
	"github.com/ChiefMedia/mintMeasureColab/pkg/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aggregator: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	lookup, err := config.LoadLookup(cfg.LookupFile)
	if err != nil {
		return fmt.Errorf("failed to load lookup tables: %w", err)
	}
	logger.Info("Loaded lookup tables",
		zap.String("path", cfg.LookupFile),
		zap.Int("stations", len(lookup.Stations)),
		zap.Int("markets", len(lookup.Markets)))

	ctx := context.Background()

	manager := pipeline.NewManager(cfg, lookup, reader.NewExcelReader(logger), logger)
	table, metrics, err := manager.Run(ctx)
	metrics.LogSummary(logger)
	if err != nil {
		return err
	}

	if cfg.AttributionLog != "" {
		attrLog, err := attribution.ParseLog(cfg.AttributionLog)
		if err != nil {
			return err
		}
		table, err = attribution.Join(logger, table, attribution.SessionCounts(attrLog))
		if err != nil {
			return err
		}
	}

	if err := sink.NewCSVSink(logger).Write(cfg.OutputFile, table); err != nil {
		return err
	}

	if cfg.Postgres != nil {
		pg, err := sink.NewPostgresSink(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.Write(ctx, table); err != nil {
			return err
		}
	}

	logger.Info("Aggregation complete",
		zap.String("output", cfg.OutputFile),
		zap.Int("spot_count", len(table.Rows)))

	return nil
}

// buildLogger constructs the process logger from configuration.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// pkg/sink/postgres.go
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/aggregate"
	"github.com/ChiefMedia/mintMeasureColab/pkg/config"
	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// PostgresSink loads the aggregated table into a PostgreSQL table.
// Canonical columns map to typed columns; passthrough business columns
// are stored together as jsonb, since their set varies by source file.
type PostgresSink struct {
	db     *sqlx.DB
	cfg    *config.PostgresConfig
	logger *zap.Logger
}

// NewPostgresSink connects to PostgreSQL and verifies the connection.
func NewPostgresSink(ctx context.Context, cfg *config.PostgresConfig) (*PostgresSink, error) {
	logger := zap.L().Named("postgres-sink")

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if cfg.StatementTimeout > 0 {
		_, err = db.ExecContext(ctx,
			fmt.Sprintf("SET statement_timeout = %d", cfg.StatementTimeout.Milliseconds()))
		if err != nil {
			logger.Warn("Failed to set statement timeout", zap.Error(err))
		}
	}

	return &PostgresSink{db: db, cfg: cfg, logger: logger}, nil
}

// Close releases the database connection.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

// Write replaces the destination table's contents with the aggregated
// rows inside one transaction, then verifies the loaded row count.
func (s *PostgresSink) Write(ctx context.Context, table *aggregate.Table) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.cfg.Table)); err != nil {
		return fmt.Errorf("failed to clear destination table: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, fmt.Sprintf(`
		INSERT INTO %s
		(spot_id, aired_at, aired_date, aired_time, station, dma_code, rate, length_seconds, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.cfg.Table))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	cols := columnIndexes(table)
	for i, row := range table.Rows {
		extra, jsonErr := extraJSON(table, row)
		if jsonErr != nil {
			err = fmt.Errorf("row %d: %w", i, jsonErr)
			return err
		}
		_, err = stmt.ExecContext(ctx,
			cell(row, cols[model.ColSpotID]),
			cell(row, cols[model.ColDateTime]),
			cell(row, cols[model.ColAiredDate]),
			cell(row, cols[model.ColAiredTime]),
			nullable(cell(row, cols[model.ColStation])),
			cell(row, cols[model.ColDMACode]),
			nullable(cell(row, cols[model.ColRate])),
			cell(row, cols[model.ColLength]),
			extra,
		)
		if err != nil {
			err = fmt.Errorf("failed to insert row %d: %w", i, err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.verifyRowCount(ctx, len(table.Rows))
}

// ensureTable creates the destination table when absent.
func (s *PostgresSink) ensureTable(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			spot_id TEXT PRIMARY KEY,
			aired_at TIMESTAMP NOT NULL,
			aired_date DATE NOT NULL,
			aired_time TIME NOT NULL,
			station TEXT,
			dma_code TEXT NOT NULL,
			rate TEXT,
			length_seconds INTEGER NOT NULL,
			extra JSONB,
			loaded_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`, s.cfg.Table)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create destination table: %w", err)
	}
	return nil
}

// verifyRowCount confirms the destination holds exactly the rows the
// run aggregated.
func (s *PostgresSink) verifyRowCount(ctx context.Context, expected int) error {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.cfg.Table)
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		return fmt.Errorf("failed to verify row count: %w", err)
	}
	if count != expected {
		return fmt.Errorf("row count mismatch after load: expected %d, found %d", expected, count)
	}

	s.logger.Info("Loaded aggregated output",
		zap.String("table", s.cfg.Table),
		zap.Int("rows", count))
	return nil
}

// columnIndexes maps each column name to its table index.
func columnIndexes(table *aggregate.Table) map[string]int {
	cols := make(map[string]int, len(table.Columns))
	for i, col := range table.Columns {
		cols[col] = i
	}
	return cols
}

// extraJSON marshals the passthrough columns of one row as JSON,
// omitting not-applicable markers.
func extraJSON(table *aggregate.Table, row []string) ([]byte, error) {
	extra := make(map[string]string)
	canonical := make(map[string]struct{}, len(model.CanonicalColumns))
	for _, col := range model.CanonicalColumns {
		canonical[col] = struct{}{}
	}
	for i, col := range table.Columns {
		if _, ok := canonical[col]; ok {
			continue
		}
		if i >= len(row) || row[i] == model.NotApplicable {
			continue
		}
		extra[col] = row[i]
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return json.Marshal(extra)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// nullable maps empty strings and N/A markers to SQL NULL.
func nullable(value string) interface{} {
	if value == "" || value == model.NotApplicable {
		return nil
	}
	return value
}

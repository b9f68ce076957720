// Package store keeps the most recent export in a SQLite database so other
// tools can query it with SQL. Every save replaces the previous contents
// for its source; no history is kept.
package store

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/export"
	"codeberg.org/mutker/hwstat/internal/iostat"
	"codeberg.org/mutker/hwstat/internal/logger"
	"codeberg.org/mutker/hwstat/internal/sensors"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sourceSensors = "sensors"
	sourceIOStat  = "iostat"
)

// Repository persists parsed reports.
type Repository interface {
	SaveReport(ctx context.Context, report *sensors.Report) error
	SaveSnapshot(ctx context.Context, snapshot *iostat.Snapshot) error
	Readings(ctx context.Context) ([]export.Row, error)
	Close() error
}

type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config
	mu     sync.Mutex
	now    func() time.Time
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := ValidateAndUpdateSchema(db, cfg, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Debug().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Store initialized")

	return &repository{
		db:     db,
		logger: log,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// SaveReport replaces the stored sensor readings with report. Thresholds
// the tool did not print are stored as NULL.
func (r *repository) SaveReport(ctx context.Context, report *sensors.Report) error {
	if report == nil {
		return errors.New().New(ErrInvalidInput)
	}

	rows := export.Rows(report)

	return r.replace(ctx, sourceSensors, []string{"sensor_readings"}, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertReadingSQL)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, row := range rows {
			if _, err := stmt.ExecContext(ctx,
				row.Chip, row.Adapter, row.Sensor, i,
				row.Current, nullIfInf(row.Low), nullIfInf(row.High), nullIfInf(row.Crit),
			); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveSnapshot replaces the stored iostat sections with snapshot. Sections
// absent from the snapshot are left empty.
func (r *repository) SaveSnapshot(ctx context.Context, snapshot *iostat.Snapshot) error {
	if snapshot == nil {
		return errors.New().New(ErrInvalidInput)
	}

	tables := []string{"kernel_info", "cpu_stats", "device_stats"}

	return r.replace(ctx, sourceIOStat, tables, func(tx *sql.Tx) error {
		if k := snapshot.Kernel; k != nil {
			if _, err := tx.ExecContext(ctx, insertKernelSQL,
				k.Kernel, k.Date, k.Architecture, k.CPUCount); err != nil {
				return err
			}
		}

		if cpu := snapshot.CPU; cpu != nil {
			for i, f := range cpu.Fields {
				if _, err := tx.ExecContext(ctx, insertCPUSQL, f.Name, i, f.Value); err != nil {
					return err
				}
			}
		}

		if devices := snapshot.Devices; devices != nil {
			stmt, err := tx.PrepareContext(ctx, insertDeviceSQL)
			if err != nil {
				return err
			}
			defer stmt.Close()

			for _, row := range devices.Rows {
				for i, f := range row.Fields {
					if _, err := stmt.ExecContext(ctx, row.Device, f.Name, i, f.Value); err != nil {
						return err
					}
				}
			}
		}

		return nil
	})
}

// replace clears tables and runs fill in one transaction, then records
// the export time for source.
func (r *repository) replace(ctx context.Context, source string, tables []string, fill func(*sql.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				r.logger.Error().Err(err).Msg("Failed to roll back transaction")
			}
		}
	}()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := fill(tx); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	if _, err := tx.ExecContext(ctx, upsertExportSQL, source, r.now().UTC().Format(time.RFC3339)); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	committed = true

	r.logger.Debug().Str("source", source).Msg("Export stored")

	return nil
}

// Readings returns the stored sensor rows in their original order.
func (r *repository) Readings(ctx context.Context) ([]export.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, `
        SELECT chip, adapter, sensor, current_c, low_c, high_c, crit_c
        FROM sensor_readings
        ORDER BY position
    `)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var out []export.Row
	for rows.Next() {
		var (
			row             export.Row
			low, high, crit sql.NullFloat64
		)
		if err := rows.Scan(&row.Chip, &row.Adapter, &row.Sensor, &row.Current, &low, &high, &crit); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		row.Low = orInf(low, -1)
		row.High = orInf(high, 1)
		row.Crit = orInf(crit, 1)
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return out, nil
}

func (r *repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to checkpoint WAL")
	}

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}

func nullIfInf(v float64) sql.NullFloat64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orInf(v sql.NullFloat64, sign int) float64 {
	if !v.Valid {
		return math.Inf(sign)
	}
	return v.Float64
}

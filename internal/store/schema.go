package store

import (
	"database/sql"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS exports (
	       source      TEXT PRIMARY KEY CHECK (source IN ('sensors', 'iostat')),
	       exported_at TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS sensor_readings (
	       chip       TEXT NOT NULL,
	       adapter    TEXT NOT NULL,
	       sensor     TEXT NOT NULL,
	       position   INTEGER NOT NULL,
	       current_c  REAL NOT NULL,
	       low_c      REAL,
	       high_c     REAL,
	       crit_c     REAL,
	       PRIMARY KEY (chip, sensor)
	   );
	   CREATE TABLE IF NOT EXISTS kernel_info (
	       kernel       TEXT NOT NULL,
	       date         TEXT NOT NULL,
	       architecture TEXT NOT NULL,
	       cpu_count    INTEGER NOT NULL CHECK (typeof(cpu_count) = 'integer')
	   );
	   CREATE TABLE IF NOT EXISTS cpu_stats (
	       category TEXT PRIMARY KEY,
	       position INTEGER NOT NULL,
	       percent  REAL NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS device_stats (
	       device   TEXT NOT NULL,
	       metric   TEXT NOT NULL,
	       position INTEGER NOT NULL,
	       value    REAL NOT NULL,
	       PRIMARY KEY (device, metric)
	   );`

	insertReadingSQL = `
    INSERT INTO sensor_readings (
        chip, adapter, sensor, position,
        current_c, low_c, high_c, crit_c
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertDeviceSQL = `
    INSERT INTO device_stats (device, metric, position, value)
    VALUES (?, ?, ?, ?)`

	insertCPUSQL = `
    INSERT INTO cpu_stats (category, position, percent)
    VALUES (?, ?, ?)`

	insertKernelSQL = `
    INSERT INTO kernel_info (kernel, date, architecture, cpu_count)
    VALUES (?, ?, ?, ?)`

	upsertExportSQL = `
    INSERT INTO exports (source, exported_at) VALUES (?, ?)
    ON CONFLICT(source) DO UPDATE SET exported_at = excluded.exported_at`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	// Track transaction state
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				if !errors.Is(err, sql.ErrTxDone) {
					log.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "create_tables",
		})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Schema initialized successfully")

	return nil
}

// GetSchemaVersion returns the current schema version, 0 for a new database
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Error string
		}{
			Phase: "get_version",
			Error: err.Error(),
		})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errors.New().WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: tableName,
			Error: err.Error(),
		})
	}
	return exists, nil
}

package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/srriwatch/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateRunsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		manifest_records INTEGER NOT NULL,
		monitoring_records INTEGER NOT NULL,
		summaries INTEGER NOT NULL,
		mismatch_count INTEGER NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS mismatches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		fund_name TEXT NOT NULL,
		share_class TEXT NOT NULL,
		security_id TEXT NOT NULL,
		kiid_url TEXT,
		fact_sheet_url TEXT,
		identifier TEXT NOT NULL,
		kiid_srri INTEGER NOT NULL,
		latest_srri INTEGER NOT NULL,
		week_of_change TEXT,
		date_of_change TEXT,
		fee_percent REAL,
		fee_found BOOLEAN NOT NULL DEFAULT FALSE,
		inception_date TEXT,
		FOREIGN KEY(run_id) REFERENCES reconciliation_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_user_created ON reconciliation_runs(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_mismatches_run ON mismatches(run_id);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateRunsTable backfills columns added after the first release. Runs
// before anything else so CREATE TABLE IF NOT EXISTS never hides a stale
// schema.
func migrateRunsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='reconciliation_runs'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'reconciliation_runs' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'reconciliation_runs' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(reconciliation_runs)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'reconciliation_runs'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'reconciliation_runs': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'reconciliation_runs'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'reconciliation_runs': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'reconciliation_runs'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'reconciliation_runs': %v", err)
		}
		return
	}

	// monitoring_records arrived with the workbook statistics; older
	// databases only counted manifest lines.
	if _, ok := columnExists["monitoring_records"]; !ok {
		_, err := DB.Exec("ALTER TABLE reconciliation_runs ADD COLUMN monitoring_records INTEGER NOT NULL DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'monitoring_records' column to 'reconciliation_runs' table", "error", err)
		} else {
			logger.L.Info("Added 'monitoring_records' column to 'reconciliation_runs' table")
		}
	}
	if _, ok := columnExists["summaries"]; !ok {
		_, err := DB.Exec("ALTER TABLE reconciliation_runs ADD COLUMN summaries INTEGER NOT NULL DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'summaries' column to 'reconciliation_runs' table", "error", err)
		} else {
			logger.L.Info("Added 'summaries' column to 'reconciliation_runs' table")
		}
	}
}

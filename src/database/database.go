package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/vendalytics/backend/src/logger"
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
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	if err := EnsureSchema(DB); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}

	migrateSalesTable()

	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// EnsureSchema creates the entity and sales tables. Entities are keyed by
// their natural ids so re-imports upsert in place (last write wins).
func EnsureSchema(db *sql.DB) error {
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER,
		gender TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		estimated_income REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		brand TEXT NOT NULL,
		unit_price REAL NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0,
		profit_margin REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS sellers (
		id TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		sale_date TEXT NOT NULL,
		final_value REAL NOT NULL DEFAULT 0,
		subtotal REAL NOT NULL DEFAULT 0,
		discount_percent REAL NOT NULL DEFAULT 0,
		channel TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		region TEXT NOT NULL,
		delivery_status TEXT NOT NULL,
		delivery_days INTEGER NOT NULL DEFAULT 0,
		customer_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		FOREIGN KEY(customer_id) REFERENCES customers(id),
		FOREIGN KEY(product_id) REFERENCES products(id),
		FOREIGN KEY(seller_id) REFERENCES sellers(id)
	);

	CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_id);
	CREATE INDEX IF NOT EXISTS idx_sales_product ON sales(product_id);
	`
	_, err := db.Exec(createTableStatement)
	return err
}

// migrateSalesTable backfills columns added after the first release. Same
// PRAGMA-based approach as the rest of the schema management: additive only.
func migrateSalesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='sales'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'sales' table", "error", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(sales)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'sales'", "error", err)
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
				logger.L.Error("Error scanning column info for 'sales'", "error", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'sales'", "error", err)
		}
		return
	}

	if _, ok := columnExists["delivery_status"]; !ok {
		if _, err := DB.Exec("ALTER TABLE sales ADD COLUMN delivery_status TEXT NOT NULL DEFAULT ''"); err != nil {
			logger.L.Error("Error adding 'delivery_status' column to 'sales' table", "error", err)
		} else {
			logger.L.Info("Added 'delivery_status' column to 'sales' table")
		}
	}
	if _, ok := columnExists["delivery_days"]; !ok {
		if _, err := DB.Exec("ALTER TABLE sales ADD COLUMN delivery_days INTEGER NOT NULL DEFAULT 0"); err != nil {
			logger.L.Error("Error adding 'delivery_days' column to 'sales' table", "error", err)
		} else {
			logger.L.Info("Added 'delivery_days' column to 'sales' table")
		}
	}
}

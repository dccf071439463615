package sqlite

import "database/sql"

// EnsureSchema creates the permission tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS permissions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            type TEXT NOT NULL,
            name TEXT NOT NULL,
            app_name TEXT NOT NULL,
            description TEXT,
            contract_address TEXT,
            function_signature TEXT,
            is_active INTEGER NOT NULL DEFAULT 1,
            max_amount TEXT,
            amount_per_second TEXT,
            total_amount TEXT,
            max_calls INTEGER,
            calls_used INTEGER NOT NULL DEFAULT 0,
            expiry_time TIMESTAMP,
            created_at TIMESTAMP NOT NULL,
            additional_data TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS permissions_user_idx ON permissions(user_id);`,
		`CREATE TABLE IF NOT EXISTS permission_requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            type TEXT NOT NULL,
            app_name TEXT NOT NULL,
            description TEXT,
            contract_address TEXT,
            function_signature TEXT,
            max_amount TEXT,
            amount_per_second TEXT,
            max_calls INTEGER,
            expiry_time TIMESTAMP,
            requested_at TIMESTAMP NOT NULL,
            additional_data TEXT
        );`,
		`CREATE INDEX IF NOT EXISTS permission_requests_user_idx ON permission_requests(user_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/postgresql"
)

// TestDatabaseSetup holds the connection used by the Postgres tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// ok is false when the variable is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, true, err
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateAllTables removes all rows from the ledger tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{"work_entries", "overtime_summaries", "workers", "users"}

	for _, table := range tables {
		_, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

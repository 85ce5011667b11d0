package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		fmt.Println("TEST_DATABASE_URL not set, skipping Postgres repository tests")
		os.Exit(0)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	testDB = setup.DB

	code := m.Run()
	setup.Close()
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	setup := &TestDatabaseSetup{DB: testDB}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
}

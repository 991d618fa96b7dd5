package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/timecard/timecard-backend/pkg/database"
	"github.com/timecard/timecard-backend/pkg/logger"
)

var (
	// Shared across all integration tests of a package
	globalContainer *PostgresContainer
	globalDB        *database.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationDB returns a connection to a migrated PostgreSQL container
// shared by the package's tests, with all tables emptied. The test is
// skipped under -short or when no container runtime is available.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//	    code := m.Run()
//	    testutil.TerminateContainer(context.Background())
//	    os.Exit(code)
//	}
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.IntegrationDB(t)
//	    repo := repository.NewRecordRepository(db)
//	}
func IntegrationDB(t *testing.T) *database.DB {
	t.Helper()
	SkipIfShort(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(logger.Nop())
	})
	if containerErr != nil {
		t.Skipf("postgres container unavailable: %v", containerErr)
	}

	ResetTables(t, globalDB)
	return globalDB
}

// IntegrationURL returns the shared container's connection URL, starting it
// if needed.
func IntegrationURL(t *testing.T) string {
	t.Helper()
	IntegrationDB(t)
	return globalContainer.URL
}

// ResetTables empties every table.
func ResetTables(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`TRUNCATE attendance_records, wage_history, employees CASCADE`)
	if err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
}

// TerminateContainer stops the shared container. Call it from TestMain.
func TerminateContainer(ctx context.Context) {
	if globalDB != nil {
		globalDB.Close()
	}
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}

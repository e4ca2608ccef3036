package cli

import (
	"database/sql"
	"testing"

	"github.com/thenoetrevino/opsboard/internal/app"
	"github.com/thenoetrevino/opsboard/internal/testutil"
)

// SetupCLITest creates an in-memory DB and returns both the DB and App instance
// This function is only for CLI tests and is isolated in a separate package
// to avoid import cycles when service tests import testutil
func SetupCLITest(t *testing.T) (*sql.DB, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	// Event publishing is tested in the events and board packages
	appInstance := app.New(db)

	return db, appInstance
}

// CreateTestBoard wraps testutil.CreateTestBoard for CLI tests
// Creates a test board with default columns (inbox, todo, doing, done)
func CreateTestBoard(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	return testutil.CreateTestBoard(t, db, name)
}

// CreateTestColumn wraps testutil.CreateTestColumn for CLI tests
// Creates a test column and returns its ID
func CreateTestColumn(t *testing.T, db *sql.DB, boardID, key string) string {
	t.Helper()
	return testutil.CreateTestColumn(t, db, boardID, key)
}

// CreateTestTask wraps testutil.CreateTestTask for CLI tests
// Creates a test task at the end of the status group and returns its ID
func CreateTestTask(t *testing.T, db *sql.DB, boardID, status, title string) string {
	t.Helper()
	return testutil.CreateTestTask(t, db, boardID, status, title)
}

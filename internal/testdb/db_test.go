package testdb_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/product-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTestDatabaseURL(t *testing.T) {
	t.Setenv(testdb.EnvDatabaseURL, "")
	t.Setenv(testdb.EnvTestDBURL, "")
	assert.Empty(t, testdb.GetTestDatabaseURL())
	assert.False(t, testdb.IsIntegrationTestEnvironment())
	assert.True(t, testdb.ShouldSkipDatabaseTest())

	t.Setenv(testdb.EnvTestDBURL, "postgres://second")
	assert.Equal(t, "postgres://second", testdb.GetTestDatabaseURL())

	t.Setenv(testdb.EnvDatabaseURL, "postgres://first")
	assert.Equal(t, "postgres://first", testdb.GetTestDatabaseURL())
	assert.True(t, testdb.IsIntegrationTestEnvironment())
}

func TestOpenSQLiteIsMigrated(t *testing.T) {
	t.Parallel()

	db := testdb.OpenSQLite(t)

	for _, table := range []string{"users", "products"} {
		var n int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
		require.NoError(t, err, "table %s should exist", table)
		assert.Zero(t, n)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	db := testdb.OpenSQLite(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := tx.Exec(`INSERT INTO users (username, passwordHash, token) VALUES ('a', 'b', 'c')`)
		require.NoError(t, err)
	})

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n, "changes made inside WithTx must not persist")
}

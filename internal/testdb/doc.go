// Package testdb provides database helpers for tests.
//
// OpenSQLite gives every test its own migrated SQLite database in a temporary
// directory, so store, service and API tests need no external services.
// OpenPostgres connects to the database named by DATABASE_URL (or
// PRODUCTS_TEST_DB_URL) and skips the test when neither is set; it is used by
// the integration suites built with the "integration" tag.
//
// Typical use:
//
//	db := testdb.OpenSQLite(t)
//	products := sqlstore.NewProductStore(db, sqlstore.SQLite, nil)
//
// WithTx runs a function inside a transaction that is always rolled back,
// isolating tests that share one Postgres database.
package testdb

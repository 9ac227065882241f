// Package sqlstore implements the store interfaces on top of database/sql.
//
// The same statements run against PostgreSQL (through the pgx stdlib driver)
// and SQLite (through go-sqlite3); a Dialect value carries the differences in
// driver name, placeholder syntax, id retrieval and migration files. The
// package also owns the embedded goose migrations and the bootstrap seed.
package sqlstore

// Package store defines the persistence interfaces for products and users,
// the sentinel errors every implementation returns, and small helpers shared
// by implementations such as the DBTX abstraction and RunInTransaction.
// Concrete SQL implementations live in internal/platform/sqlstore.
package store

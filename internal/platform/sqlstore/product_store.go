package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/redact"
	"github.com/phrazzld/product-api/internal/store"
)

const productEntity = "product"

// productColumns maps each writable field to its column. It is the only
// source of column names that ever reaches an UPDATE statement.
var productColumns = map[domain.ProductField]string{
	domain.FieldEANCodes:     "productEANCodes",
	domain.FieldName:         "productName",
	domain.FieldManufacturer: "productManufacturer",
	domain.FieldCategory:     "productCategory",
	domain.FieldPrice:        "productPrice",
}

const selectProductColumns = `productID, productEANCodes, productName, productManufacturer, productCategory, productPrice`

// ProductStore implements the store.ProductStore interface
// on top of a PostgreSQL or SQLite database.
type ProductStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewProductStore creates a new ProductStore.
// It accepts a database connection or transaction that should be initialized
// and managed by the caller. If logger is nil, a default logger will be used.
func NewProductStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ProductStore {
	if db == nil {
		// ALLOW-PANIC: programming error
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProductStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "product_store")),
	}
}

// Ensure ProductStore implements store.ProductStore interface
var _ store.ProductStore = (*ProductStore)(nil)

// WithTx implements store.ProductStore.WithTx
func (s *ProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &ProductStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads the price as text. decimal.Decimal.Scan panics on a
// non-finite SQLite REAL.
func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(
		&p.ID,
		&p.EANCodes,
		&p.Name,
		&p.Manufacturer,
		&p.Category,
		&price,
	); err != nil {
		return p, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return p, fmt.Errorf("%w: product %d has unreadable price %q", store.ErrInvalidEntity, p.ID, price)
	}
	p.Price = parsed
	return p, nil
}

// List implements store.ProductStore.List
func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + selectProductColumns + ` FROM products ORDER BY productID`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query products", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(productEntity, "list", "failed to query products", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close product rows", slog.String("error", closeErr.Error()))
		}
	}()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError(productEntity, "list", "failed to scan product", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating product rows", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(productEntity, "list", "failed to read products", MapError(err))
	}

	log.Debug("listed products", slog.Int("count", len(products)))
	return products, nil
}

// GetByID implements store.ProductStore.GetByID
// Returns store.ErrProductNotFound if the product does not exist.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + selectProductColumns + ` FROM products WHERE productID = ` + s.dialect.Placeholder(1)

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("product not found", slog.Int64("product_id", id))
			return nil, store.ErrProductNotFound
		}

		log.Error("failed to get product by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("product_id", id))
		return nil, store.NewStoreError(productEntity, "get", "failed to query product", MapError(err))
	}

	return &p, nil
}

// insertArgs returns the five column values of a complete change set in
// schema order. The price is bound as a decimal.
func insertArgs(changes domain.ProductChanges) ([]any, error) {
	price, err := changes.PriceDecimal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	args := make([]any, 0, len(domain.ProductFields))
	for _, field := range domain.ProductFields {
		if field == domain.FieldPrice {
			args = append(args, price)
			continue
		}
		value, _ := changes.Value(field)
		args = append(args, value)
	}
	return args, nil
}

func (s *ProductStore) insertQuery() string {
	columns := make([]string, 0, len(domain.ProductFields))
	for _, field := range domain.ProductFields {
		columns = append(columns, productColumns[field])
	}
	return fmt.Sprintf(
		"INSERT INTO products (%s) VALUES (%s)",
		strings.Join(columns, ", "),
		s.dialect.Placeholders(1, len(columns)),
	)
}

// Create implements store.ProductStore.Create
// Missing fields are written as empty strings; callers validate beforehand.
func (s *ProductStore) Create(ctx context.Context, changes domain.ProductChanges) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	args, err := insertArgs(changes)
	if err != nil {
		log.Warn("rejected product insert", slog.String("error", err.Error()))
		return 0, err
	}

	var id int64
	if s.dialect.supportsReturning() {
		err = s.db.QueryRowContext(ctx, s.insertQuery()+" RETURNING productID", args...).Scan(&id)
	} else {
		id, err = s.execInsert(ctx, args)
	}
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return 0, err
		}
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("product rejected by database", slog.String("error", redact.Error(err)))
			return 0, mapped
		}
		log.Error("failed to create product", slog.String("error", redact.Error(err)))
		return 0, store.NewStoreError(productEntity, "create", "failed to insert product", mapped)
	}

	log.Info("product created", slog.Int64("product_id", id))
	return id, nil
}

func (s *ProductStore) execInsert(ctx context.Context, args []any) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.insertQuery(), args...)
	if err != nil {
		return 0, err
	}
	if err := checkOneRow(result, fmt.Errorf("%w: insert affected no rows", store.ErrInvalidEntity)); err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CreateBatch implements store.ProductStore.CreateBatch
func (s *ProductStore) CreateBatch(ctx context.Context, products []domain.ProductChanges) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(products) == 0 {
		return nil
	}

	stmt, err := s.db.PrepareContext(ctx, s.insertQuery())
	if err != nil {
		log.Error("failed to prepare product insert", slog.String("error", redact.Error(err)))
		return store.NewStoreError(productEntity, "create_batch", "failed to prepare insert", MapError(err))
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn("failed to close prepared statement", slog.String("error", closeErr.Error()))
		}
	}()

	for i, changes := range products {
		args, err := insertArgs(changes)
		if err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			log.Error("failed to insert product in batch",
				slog.String("error", redact.Error(err)),
				slog.Int("index", i))
			return store.NewStoreError(productEntity, "create_batch", "failed to insert product", MapError(err))
		}
	}

	log.Info("products created in batch", slog.Int("count", len(products)))
	return nil
}

// Update implements store.ProductStore.Update
// The SET clause follows the order of changes.Keys(); every value is bound.
func (s *ProductStore) Update(ctx context.Context, id int64, changes domain.ProductChanges) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	keys := changes.Keys()
	assignments := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)

	for _, field := range keys {
		column, ok := productColumns[field]
		if !ok {
			return fmt.Errorf("%w: unknown product field %q", store.ErrInvalidEntity, field)
		}

		var arg any
		if field == domain.FieldPrice {
			price, err := changes.PriceDecimal()
			if err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
			}
			arg = price
		} else {
			arg, _ = changes.Value(field)
		}

		args = append(args, arg)
		assignments = append(assignments, column+" = "+s.dialect.Placeholder(len(args)))
	}

	if len(assignments) == 0 {
		return fmt.Errorf("%w: no product fields to update", store.ErrInvalidEntity)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE productID = %s",
		strings.Join(assignments, ", "),
		s.dialect.Placeholder(len(args)),
	)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("product update rejected by database",
				slog.String("error", redact.Error(err)),
				slog.Int64("product_id", id))
			return mapped
		}
		log.Error("failed to update product",
			slog.String("error", redact.Error(err)),
			slog.Int64("product_id", id))
		return store.NewStoreError(productEntity, "update", "failed to update product", mapped)
	}

	if err := checkOneRow(result, store.ErrProductNotFound); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			log.Debug("product not found for update", slog.Int64("product_id", id))
			return err
		}
		return store.NewStoreError(productEntity, "update", "failed to check update result", err)
	}

	log.Info("product updated",
		slog.Int64("product_id", id),
		slog.Int("fields", len(assignments)))
	return nil
}

// Delete implements store.ProductStore.Delete
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM products WHERE productID = ` + s.dialect.Placeholder(1)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete product",
			slog.String("error", redact.Error(err)),
			slog.Int64("product_id", id))
		return store.NewStoreError(productEntity, "delete", "failed to delete product", MapError(err))
	}

	if err := checkOneRow(result, store.ErrProductNotFound); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			log.Debug("product not found for delete", slog.Int64("product_id", id))
			return err
		}
		return store.NewStoreError(productEntity, "delete", "failed to check delete result", err)
	}

	log.Info("product deleted", slog.Int64("product_id", id))
	return nil
}

// Count implements store.ProductStore.Count
func (s *ProductStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, store.NewStoreError(productEntity, "count", "failed to count products", MapError(err))
	}
	return n, nil
}

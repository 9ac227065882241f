package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/store"
)

// ProductService provides the catalog operations behind the HTTP API.
type ProductService interface {
	// GetAll returns every product ordered by ID; an empty catalog is not an error.
	GetAll(ctx context.Context) ([]domain.Product, error)

	// Get returns one product or ErrProductNotFound.
	Get(ctx context.Context, id int64) (*domain.Product, error)

	// Add validates all writable fields of changes in schema order, inserts
	// the product and returns it as stored.
	Add(ctx context.Context, changes domain.ProductChanges) (*domain.Product, error)

	// Update validates the supplied fields in the order given, writes them and
	// returns the product as stored. Returns ErrNoChanges for an empty change set.
	Update(ctx context.Context, id int64, changes domain.ProductChanges) (*domain.Product, error)

	// Delete removes a product or returns ErrProductNotFound.
	Delete(ctx context.Context, id int64) error
}

// productServiceImpl implements the ProductService interface
type productServiceImpl struct {
	products store.ProductStore
	logger   *slog.Logger
}

// NewProductService creates a new ProductService.
// It returns an error if the product store is nil.
func NewProductService(products store.ProductStore, logger *slog.Logger) (ProductService, error) {
	if products == nil {
		return nil, &ProductServiceError{
			Operation: "create_service",
			Message:   "products cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &productServiceImpl{
		products: products,
		logger:   logger.With("component", "product_service"),
	}, nil
}

// GetAll implements ProductService.GetAll
func (s *productServiceImpl) GetAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, NewProductServiceError("get_all_products", "failed to list products", err)
	}
	return products, nil
}

// Get implements ProductService.Get
func (s *productServiceImpl) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, NewProductServiceError("get_product", "failed to get product", err)
	}
	return product, nil
}

// Add implements ProductService.Add
// Missing fields are validated as empty strings and unknown fields are ignored.
func (s *productServiceImpl) Add(ctx context.Context, changes domain.ProductChanges) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	complete := changes.Complete()
	if err := domain.ValidateProductChanges(complete); err != nil {
		log.Debug("rejected product payload", slog.String("error", err.Error()))
		return nil, err
	}

	id, err := s.products.Create(ctx, complete)
	if err != nil {
		return nil, NewProductServiceError("add_product", "failed to create product", err)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, NewProductServiceError("add_product", "failed to read created product", err)
	}

	log.Info("product added", slog.Int64("product_id", id))
	return product, nil
}

// Update implements ProductService.Update
// Unknown fields fail validation before any statement is built.
func (s *productServiceImpl) Update(
	ctx context.Context,
	id int64,
	changes domain.ProductChanges,
) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if changes.Len() == 0 {
		return nil, ErrNoChanges
	}

	if err := domain.ValidateProductChanges(changes); err != nil {
		log.Debug("rejected product changes",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.products.Update(ctx, id, changes); err != nil {
		return nil, NewProductServiceError("update_product", "failed to update product", err)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		// Deleted between the write and the read.
		if errors.Is(err, store.ErrProductNotFound) {
			log.Warn("product vanished after update", slog.Int64("product_id", id))
		}
		return nil, NewProductServiceError("update_product", "failed to read updated product", err)
	}

	log.Info("product updated", slog.Int64("product_id", id))
	return product, nil
}

// Delete implements ProductService.Delete
func (s *productServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return NewProductServiceError("delete_product", "failed to delete product", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("product deleted", slog.Int64("product_id", id))
	return nil
}

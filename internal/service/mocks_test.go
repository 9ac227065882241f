package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockProductStore mocks the store.ProductStore interface
type MockProductStore struct {
	mock.Mock
}

var _ store.ProductStore = (*MockProductStore)(nil)

func (m *MockProductStore) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, changes domain.ProductChanges) (int64, error) {
	args := m.Called(ctx, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductStore) CreateBatch(ctx context.Context, products []domain.ProductChanges) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductStore) Update(ctx context.Context, id int64, changes domain.ProductChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockProductStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	args := m.Called(tx)
	return args.Get(0).(store.ProductStore)
}

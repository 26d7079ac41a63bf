package products

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

type mockStoreRepository struct {
	mock.Mock
}

func (m *mockStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStoreRepository) FindByID(ctx context.Context, id string) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *mockStoreRepository) FindByName(ctx context.Context, name string) (*store.Store, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *mockStoreRepository) FindAll(ctx context.Context) ([]store.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *mockStoreRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) FindAll(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockLedger) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockLedger) FindByStore(ctx context.Context, storeID string) ([]order.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockLedger) ReplaceForStore(ctx context.Context, storeID string, orders []order.Order) error {
	return m.Called(ctx, storeID, orders).Error(0)
}

func (m *mockLedger) Insert(ctx context.Context, orders []order.Order) error {
	return m.Called(ctx, orders).Error(0)
}

func (m *mockLedger) PatchOne(ctx context.Context, storeID, id string, patch order.FieldPatch) error {
	return m.Called(ctx, storeID, id, patch).Error(0)
}

func (m *mockLedger) BatchSetStatus(ctx context.Context, storeID string, ids []string, status order.Status) error {
	return m.Called(ctx, storeID, ids, status).Error(0)
}

func (m *mockLedger) HardDelete(ctx context.Context, storeID string, ids []string) error {
	return m.Called(ctx, storeID, ids).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) TestConnection(ctx context.Context, creds remote.Credentials) (*remote.SystemStatus, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.SystemStatus), args.Error(1)
}

func (m *mockGateway) ListOrders(ctx context.Context, st *store.Store, perPage int) ([]order.Order, error) {
	args := m.Called(ctx, st, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockGateway) ListProducts(ctx context.Context, st *store.Store, perPage int) ([]catalog.Product, error) {
	args := m.Called(ctx, st, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockGateway) BatchUpdateOrderStatus(ctx context.Context, st *store.Store, updates []remote.OrderStatusUpdate) error {
	return m.Called(ctx, st, updates).Error(0)
}

func (m *mockGateway) BatchCreateOrders(ctx context.Context, st *store.Store, drafts []remote.OrderDraft) ([]order.Order, error) {
	args := m.Called(ctx, st, drafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *mockGateway) UpdateOrder(ctx context.Context, st *store.Store, orderID string, patch order.FieldPatch) (*order.Order, error) {
	args := m.Called(ctx, st, orderID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockGateway) DeleteOrderPermanently(ctx context.Context, st *store.Store, orderID string) error {
	return m.Called(ctx, st, orderID).Error(0)
}

func (m *mockGateway) BatchUpdateProducts(ctx context.Context, st *store.Store, patches []catalog.Patch) error {
	return m.Called(ctx, st, patches).Error(0)
}

func (m *mockGateway) BatchDeleteProducts(ctx context.Context, st *store.Store, ids []int64) error {
	return m.Called(ctx, st, ids).Error(0)
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/application/orders"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/store"
	"github.com/storehub/backend/internal/interfaces/http/dto"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// newTestRouter mounts a registrar behind a fixed permission set, the way
// the auth chain would after resolving a real session.
func newTestRouter(perms identity.Permissions, register func(rg *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	engine := gin.New()
	g := engine.Group("", func(c *gin.Context) {
		c.Set(middleware.PermissionsKey, perms)
		c.Next()
	})
	register(g)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func newOrderService(ledger *mockLedger, stores *mockStoreRepository, gateway *mockGateway) *orders.Service {
	return orders.NewService(ledger, stores, gateway, orders.NewChangeNotifier(), zap.NewNop())
}

func viewOnly(tab identity.Tab) identity.Permissions {
	return identity.Permissions{Tabs: map[identity.Tab]identity.TabAccess{tab: identity.TabAccessView}}
}

func TestListOrdersExcludesTrashed(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("FindAll", mock.Anything).Return([]order.Order{
		{
			ID:          "1042",
			StoreID:     "st-1",
			StoreName:   "Rosemary",
			Status:      order.StatusProcessing,
			DateCreated: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			Total:       decimal.RequireFromString("149.5"),
			Currency:    "AED",
		},
		{ID: "1043", StoreID: "st-1", Status: order.StatusTrash},
	}, nil)

	h := NewOrderHandler(newOrderService(ledger, new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)

	list, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	row := list[0].(map[string]any)
	assert.Equal(t, "1042", row["id"])
	assert.Equal(t, "processing", row["status"])
	assert.Equal(t, "149.50", row["total"])
}

func TestListOrdersForbiddenWithoutTab(t *testing.T) {
	h := NewOrderHandler(newOrderService(new(mockLedger), new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(identity.Permissions{}, h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
}

func TestPatchOrderRejectsViewOnlyRole(t *testing.T) {
	h := NewOrderHandler(newOrderService(new(mockLedger), new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(viewOnly(identity.TabOrders), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPatch, "/orders/1042", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPatchOrderWritesThroughRemote(t *testing.T) {
	existing := &order.Order{ID: "1042", StoreID: "st-1", Status: order.StatusProcessing}
	patched := &order.Order{ID: "1042", StoreID: "st-1", Status: order.StatusCompleted}
	st := &store.Store{ID: "st-1", Name: "Rosemary"}

	ledger := new(mockLedger)
	ledger.On("FindByID", mock.Anything, "1042").Return(existing, nil).Once()
	ledger.On("PatchOne", mock.Anything, "st-1", "1042", mock.Anything).Return(nil)
	ledger.On("FindByID", mock.Anything, "1042").Return(patched, nil).Once()

	stores := new(mockStoreRepository)
	stores.On("FindByID", mock.Anything, "st-1").Return(st, nil)

	gateway := new(mockGateway)
	gateway.On("UpdateOrder", mock.Anything, st, "1042", mock.Anything).Return(patched, nil)

	h := NewOrderHandler(newOrderService(ledger, stores, gateway))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPatch, "/orders/1042", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	row := resp.Data.(map[string]any)
	assert.Equal(t, "completed", row["status"])
	gateway.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestPatchOrderEmptyBodyRejected(t *testing.T) {
	h := NewOrderHandler(newOrderService(new(mockLedger), new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPatch, "/orders/1042", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchOrderNotFound(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("FindByID", mock.Anything, "9999").Return(nil, order.ErrNotFound)

	h := NewOrderHandler(newOrderService(ledger, new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPatch, "/orders/9999", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestTrashRequiresIDs(t *testing.T) {
	h := NewOrderHandler(newOrderService(new(mockLedger), new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPost, "/orders/trash", map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrashAndRestore(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("FindAll", mock.Anything).Return([]order.Order{
		{ID: "1042", StoreID: "st-1", StoreName: "Rosemary", Status: order.StatusProcessing},
	}, nil)
	ledger.On("BatchSetStatus", mock.Anything, "st-1", []string{"1042"}, order.StatusTrash).Return(nil)
	ledger.On("BatchSetStatus", mock.Anything, "st-1", []string{"1042"}, order.StatusProcessing).Return(nil)

	h := NewOrderHandler(newOrderService(ledger, new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPost, "/orders/trash", map[string]any{"ids": []string{"1042"}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, engine, http.MethodPost, "/trashed-orders/restore", map[string]any{"ids": []string{"1042"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	ledger.AssertExpectations(t)
}

package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/application/stores"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

func newStoreService(repo *mockStoreRepository, gateway *mockGateway) *stores.Service {
	return stores.NewService(repo, gateway, zap.NewNop())
}

func TestAddStoreNeverEchoesCredentials(t *testing.T) {
	repo := new(mockStoreRepository)
	repo.On("FindByName", mock.Anything, "Rosemary").Return(nil, store.ErrNotFound)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	gateway := new(mockGateway)
	gateway.On("TestConnection", mock.Anything, mock.Anything).Return(&remote.SystemStatus{Version: "9.1.2"}, nil)

	h := NewStoreHandler(newStoreService(repo, gateway))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPost, "/stores", map[string]string{
		"name":           "Rosemary",
		"url":            "https://rosemary.example",
		"consumerKey":    "ck_live",
		"consumerSecret": "cs_live",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	row := resp.Data.(map[string]any)
	assert.Equal(t, "Rosemary", row["name"])
	assert.NotContains(t, rec.Body.String(), "ck_live")
	assert.NotContains(t, rec.Body.String(), "cs_live")
}

func TestAddStoreFailedProbeRejected(t *testing.T) {
	repo := new(mockStoreRepository)
	repo.On("FindByName", mock.Anything, "Rosemary").Return(nil, store.ErrNotFound)

	gateway := new(mockGateway)
	gateway.On("TestConnection", mock.Anything, mock.Anything).Return(nil, remote.ErrConnectionFailed)

	h := NewStoreHandler(newStoreService(repo, gateway))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPost, "/stores", map[string]string{
		"name":           "Rosemary",
		"url":            "https://rosemary.example",
		"consumerKey":    "ck_live",
		"consumerSecret": "cs_live",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddStoreRequiresCapability(t *testing.T) {
	perms := identity.Permissions{
		Tabs: map[identity.Tab]identity.TabAccess{identity.TabStores: identity.TabAccessEdit},
	}

	h := NewStoreHandler(newStoreService(new(mockStoreRepository), new(mockGateway)))
	engine := newTestRouter(perms, h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodPost, "/stores", map[string]string{
		"name":           "Rosemary",
		"url":            "https://rosemary.example",
		"consumerKey":    "ck_live",
		"consumerSecret": "cs_live",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRemoveStore(t *testing.T) {
	repo := new(mockStoreRepository)
	repo.On("Delete", mock.Anything, "st-1").Return(nil)

	h := NewStoreHandler(newStoreService(repo, new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodDelete, "/stores/st-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestGetStoreNotFound(t *testing.T) {
	repo := new(mockStoreRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, store.ErrNotFound)

	h := NewStoreHandler(newStoreService(repo, new(mockGateway)))
	engine := newTestRouter(identity.AdminPermissions(), h.RegisterRoutes)

	rec := doRequest(t, engine, http.MethodGet, "/stores/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

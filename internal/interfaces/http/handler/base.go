package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/bulkops"
	"github.com/storehub/backend/internal/application/identity"
	productsvc "github.com/storehub/backend/internal/application/products"
	syncsvc "github.com/storehub/backend/internal/application/sync"
	domainidentity "github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/spreadsheet"
	"github.com/storehub/backend/internal/interfaces/http/dto"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return c.GetString(logger.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// List sends a success response carrying a collection and its count
func (h *BaseHandler) List(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 response carrying per-field details for a
// failed request binding
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps service and domain errors to HTTP responses. Unknown
// errors become opaque 500s so internals never leak to the dashboard.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrStagedNotFound),
		errors.Is(err, domainidentity.ErrUserNotFound),
		errors.Is(err, domainidentity.ErrRoleNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, err.Error())

	case errors.Is(err, store.ErrNameTaken),
		errors.Is(err, domainidentity.ErrUsernameTaken),
		errors.Is(err, order.ErrDuplicateKey):
		h.Error(c, http.StatusConflict, dto.ErrCodeAlreadyExists, err.Error())

	case errors.Is(err, store.ErrNameRequired),
		errors.Is(err, store.ErrURLRequired),
		errors.Is(err, store.ErrCredentialsRequired),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrManualAmountMissing),
		errors.Is(err, bulkops.ErrNoOrders),
		errors.Is(err, bulkops.ErrStatusNotRemote),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, domainidentity.ErrInvalidTabAccess):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, err.Error())

	case errors.Is(err, identity.ErrLastAdmin):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, err.Error())

	case errors.Is(err, domainidentity.ErrInvalidCredentials):
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid username or password")

	case errors.Is(err, remote.ErrConnectionFailed):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeStoreUnreachable, err.Error())

	case errors.Is(err, remote.ErrRequestFailed),
		errors.Is(err, remote.ErrInvalidResponse),
		errors.Is(err, syncsvc.ErrAllStoresFailed),
		errors.Is(err, productsvc.ErrAllStoresFailed):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeRemoteRejected, err.Error())

	case errors.Is(err, spreadsheet.ErrEmptyFile),
		errors.Is(err, spreadsheet.ErrInvalidEncoding),
		errors.Is(err, spreadsheet.ErrMissingHeader),
		errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidFile, err.Error())

	default:
		h.InternalError(c, "An unexpected error occurred")
	}
}

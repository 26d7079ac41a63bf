package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/dashboard"
	"github.com/storehub/backend/internal/application/interchange"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// Uploads beyond this size are rejected before parsing.
const maxUploadSize = 20 << 20 // 20MB

// InterchangeHandler handles spreadsheet import and export
type InterchangeHandler struct {
	BaseHandler
	interchange *interchange.Service
	dashboard   *dashboard.Service
}

// NewInterchangeHandler creates a new interchange handler
func NewInterchangeHandler(interchangeService *interchange.Service, dashboardService *dashboard.Service) *InterchangeHandler {
	return &InterchangeHandler{
		interchange: interchangeService,
		dashboard:   dashboardService,
	}
}

// RegisterRoutes registers the import/export routes
func (h *InterchangeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("", middleware.RequireCapability(func(p identity.Permissions) bool {
		return p.ImportExport || p.IsAdmin
	}))
	g.GET("/export/orders", h.ExportOrders)
	g.POST("/import/orders", h.ImportOrders)
	g.GET("/export/products", h.ExportProducts)
	g.POST("/import/products", h.ImportProducts)
}

// ExportOrders streams the selected orders as a CSV download. Without an
// ids parameter every non-trashed order is exported.
func (h *InterchangeHandler) ExportOrders(c *gin.Context) {
	var ids []string
	if raw := c.Query("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	opts, err := h.dashboard.ScreenOptions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	setCSVDownloadHeaders(c, interchange.ExportFilename("orders"))
	if err := h.interchange.ExportOrdersCSV(c.Request.Context(), c.Writer, ids, opts); err != nil {
		// Headers are out; all that is left is aborting the stream.
		_ = c.AbortWithError(http.StatusInternalServerError, err)
	}
}

// ImportOrdersResponse is the wire shape of one order import outcome,
// carrying the created orders so the dashboard can show them without a
// refetch.
type ImportOrdersResponse struct {
	Created       int             `json:"created"`
	Skipped       int             `json:"skipped"`
	Failed        int             `json:"failed"`
	Failures      []string        `json:"failures,omitempty"`
	CreatedOrders []OrderResponse `json:"createdOrders"`
}

// ImportOrders reads an uploaded CSV or XLSX and creates the contained
// orders on their owning stores
func (h *InterchangeHandler) ImportOrders(c *gin.Context) {
	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	report, err := h.interchange.ImportOrders(c.Request.Context(), data, filename)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ImportOrdersResponse{
		Created:       report.Created,
		Skipped:       report.Skipped,
		Failed:        report.Failed,
		Failures:      report.Failures,
		CreatedOrders: toOrderResponses(report.CreatedOrders),
	})
}

// ExportProducts streams the cross-store product list as a CSV download
func (h *InterchangeHandler) ExportProducts(c *gin.Context) {
	setCSVDownloadHeaders(c, interchange.ExportFilename("products"))
	if err := h.interchange.ExportProductsCSV(c.Request.Context(), c.Writer); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
	}
}

// ImportProducts reads price and stock edits from an uploaded spreadsheet
func (h *InterchangeHandler) ImportProducts(c *gin.Context) {
	data, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	success, failed, err := h.interchange.ImportProducts(c.Request.Context(), data, filename)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BatchCountResponse{SuccessCount: success, ErrorCount: failed})
}

func (h *InterchangeHandler) readUpload(c *gin.Context) (data []byte, filename string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file upload is required")
		return nil, "", false
	}
	if fileHeader.Size > maxUploadSize {
		h.BadRequest(c, "File exceeds the upload size limit")
		return nil, "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read the upload")
		return nil, "", false
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		h.InternalError(c, "Failed to read the upload")
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

func setCSVDownloadHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/domain/remote"
	"github.com/storehub/backend/internal/domain/store"
)

// maxResponseSize is the maximum allowed response size from a store (10MB)
const maxResponseSize = 10 * 1024 * 1024

const apiBasePath = "/wp-json/wc/v3/"

// Client implements the remote.Gateway port against the WooCommerce REST
// API. When a proxy base is configured it is prepended to the full store
// URL, so requests route through a forwarding proxy that strips CORS.
type Client struct {
	httpClient *http.Client
	proxyBase  string
	logger     *zap.Logger
}

var _ remote.Gateway = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithProxyBase routes every request through the given forwarding proxy.
func WithProxyBase(base string) Option {
	return func(c *Client) { c.proxyBase = base }
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a WooCommerce API client. Each request is a single
// attempt bounded by the given timeout; there is no retry and no caching.
func NewClient(timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint builds the absolute URL for an API path on the given store.
func (c *Client) endpoint(storeURL, path string) string {
	return c.proxyBase + strings.TrimRight(storeURL, "/") + apiBasePath + path
}

// doJSON performs one authenticated request and decodes the response body
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, url string, creds remote.Credentials, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("woocommerce: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("woocommerce: failed to create request: %w", err)
	}
	req.SetBasicAuth(creds.ConsumerKey, creds.ConsumerSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", remote.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("woocommerce: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("woocommerce request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: HTTP %d", remote.ErrRequestFailed, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %v", remote.ErrInvalidResponse, err)
		}
	}
	return nil
}

func storeCreds(st *store.Store) remote.Credentials {
	return remote.Credentials{
		URL:            st.URL,
		ConsumerKey:    st.ConsumerKey,
		ConsumerSecret: st.ConsumerSecret,
	}
}

// TestConnection probes the system-status endpoint with the given
// credentials. Any failure, network or HTTP, is reported as a connection
// failure so callers can reject the store before persisting it.
func (c *Client) TestConnection(ctx context.Context, creds remote.Credentials) (*remote.SystemStatus, error) {
	url := c.endpoint(creds.URL, "system_status")

	var status wcSystemStatus
	if err := c.doJSON(ctx, http.MethodGet, url, creds, nil, &status); err != nil {
		return nil, fmt.Errorf("%w: %v", remote.ErrConnectionFailed, err)
	}

	return &remote.SystemStatus{
		HomeURL:  status.Environment.HomeURL,
		Version:  status.Environment.Version,
		Currency: status.Settings.Currency,
	}, nil
}

// ListOrders fetches one page of orders, newest first, tagged with the
// owning store.
func (c *Client) ListOrders(ctx context.Context, st *store.Store, perPage int) ([]order.Order, error) {
	url := c.endpoint(st.URL, fmt.Sprintf("orders?per_page=%d", perPage))

	var raw []wcOrder
	if err := c.doJSON(ctx, http.MethodGet, url, storeCreds(st), nil, &raw); err != nil {
		return nil, err
	}

	orders := make([]order.Order, 0, len(raw))
	for i := range raw {
		orders = append(orders, toDomainOrder(st, &raw[i]))
	}
	return orders, nil
}

// ListProducts fetches one page of products tagged with the owning store.
func (c *Client) ListProducts(ctx context.Context, st *store.Store, perPage int) ([]catalog.Product, error) {
	url := c.endpoint(st.URL, fmt.Sprintf("products?per_page=%d", perPage))

	var raw []wcProduct
	if err := c.doJSON(ctx, http.MethodGet, url, storeCreds(st), nil, &raw); err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(raw))
	for i := range raw {
		products = append(products, toDomainProduct(st, &raw[i]))
	}
	return products, nil
}

// BatchUpdateOrderStatus posts one status-update batch envelope. The batch
// endpoint reports per-item outcomes inside a 2xx body, but those are not
// inspected: a 2xx is success for the whole batch and anything else fails
// the whole batch.
func (c *Client) BatchUpdateOrderStatus(ctx context.Context, st *store.Store, updates []remote.OrderStatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	entries := make([]wcOrderStatusEntry, 0, len(updates))
	for _, u := range updates {
		id, err := strconv.ParseInt(u.OrderID, 10, 64)
		if err != nil {
			return &remote.BatchError{
				StoreName: st.Name,
				Err:       fmt.Errorf("%w: non-numeric order id %q", remote.ErrRequestFailed, u.OrderID),
			}
		}
		entries = append(entries, wcOrderStatusEntry{ID: id, Status: u.Status.String()})
	}

	url := c.endpoint(st.URL, "orders/batch")
	body := map[string]interface{}{"update": entries}
	if err := c.doJSON(ctx, http.MethodPost, url, storeCreds(st), body, nil); err != nil {
		return &remote.BatchError{StoreName: st.Name, Err: err}
	}
	return nil
}

// BatchCreateOrders posts one create batch envelope and returns the orders
// the store confirmed as created.
func (c *Client) BatchCreateOrders(ctx context.Context, st *store.Store, drafts []remote.OrderDraft) ([]order.Order, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	entries := make([]wcOrderDraft, 0, len(drafts))
	for _, d := range drafts {
		entry := wcOrderDraft{
			Status:             d.Status.String(),
			Currency:           d.Currency,
			PaymentMethod:      d.PaymentMethod,
			PaymentMethodTitle: d.PaymentMethodTitle,
			SetPaid:            d.SetPaid,
			Billing:            fromDomainAddress(&d.Billing),
			Shipping:           fromDomainAddress(&d.Shipping),
			CustomerNote:       d.CustomerNote,
			LineItems:          make([]wcLineItem, 0, len(d.LineItems)),
		}
		for _, li := range d.LineItems {
			entry.LineItems = append(entry.LineItems, wcLineItem{
				ProductID: li.ProductID,
				Name:      li.Name,
				SKU:       li.SKU,
				Quantity:  li.Quantity,
			})
		}
		entries = append(entries, entry)
	}

	url := c.endpoint(st.URL, "orders/batch")
	body := map[string]interface{}{"create": entries}

	var resp struct {
		Create []wcOrder `json:"create"`
	}
	if err := c.doJSON(ctx, http.MethodPost, url, storeCreds(st), body, &resp); err != nil {
		return nil, &remote.BatchError{StoreName: st.Name, Err: err}
	}

	created := make([]order.Order, 0, len(resp.Create))
	for i := range resp.Create {
		created = append(created, toDomainOrder(st, &resp.Create[i]))
	}
	return created, nil
}

// UpdateOrder puts a field patch to the single-order endpoint and returns
// the server's canonical representation of the order.
func (c *Client) UpdateOrder(ctx context.Context, st *store.Store, orderID string, patch order.FieldPatch) (*order.Order, error) {
	url := c.endpoint(st.URL, "orders/"+orderID)

	var raw wcOrder
	if err := c.doJSON(ctx, http.MethodPut, url, storeCreds(st), expandPatch(patch), &raw); err != nil {
		return nil, err
	}

	o := toDomainOrder(st, &raw)
	return &o, nil
}

// expandPatch rewrites dotted patch keys into nested objects. The API
// ignores a literal "billing.phone" key, so "billing.phone" must go out as
// {"billing":{"phone":...}}.
func expandPatch(patch order.FieldPatch) map[string]interface{} {
	body := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		head, rest, nested := strings.Cut(key, ".")
		if !nested {
			body[key] = value
			continue
		}
		obj, ok := body[head].(map[string]interface{})
		if !ok {
			obj = make(map[string]interface{})
			body[head] = obj
		}
		obj[rest] = value
	}
	return body
}

// DeleteOrderPermanently deletes one order with the force flag, bypassing
// the remote trash. The batch endpoint has no force variant, so callers
// iterate order by order.
func (c *Client) DeleteOrderPermanently(ctx context.Context, st *store.Store, orderID string) error {
	url := c.endpoint(st.URL, "orders/"+orderID+"?force=true")
	return c.doJSON(ctx, http.MethodDelete, url, storeCreds(st), nil, nil)
}

// BatchUpdateProducts posts one product update batch envelope.
func (c *Client) BatchUpdateProducts(ctx context.Context, st *store.Store, patches []catalog.Patch) error {
	if len(patches) == 0 {
		return nil
	}

	entries := make([]wcProductPatchEntry, 0, len(patches))
	for _, p := range patches {
		entry := wcProductPatchEntry{
			ID:          p.ID,
			Name:        p.Name,
			StockStatus: string(p.StockStatus),
		}
		// Zero prices mean "not edited"; sending "0" would wipe the price.
		if !p.RegularPrice.IsZero() {
			entry.RegularPrice = p.RegularPrice.String()
		}
		if !p.SalePrice.IsZero() {
			entry.SalePrice = p.SalePrice.String()
		}
		entries = append(entries, entry)
	}

	url := c.endpoint(st.URL, "products/batch")
	body := map[string]interface{}{"update": entries}
	if err := c.doJSON(ctx, http.MethodPost, url, storeCreds(st), body, nil); err != nil {
		return &remote.BatchError{StoreName: st.Name, Err: err}
	}
	return nil
}

// BatchDeleteProducts posts one product delete batch envelope.
func (c *Client) BatchDeleteProducts(ctx context.Context, st *store.Store, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	url := c.endpoint(st.URL, "products/batch")
	body := map[string]interface{}{"delete": ids}
	if err := c.doJSON(ctx, http.MethodPost, url, storeCreds(st), body, nil); err != nil {
		return &remote.BatchError{StoreName: st.Name, Err: err}
	}
	return nil
}

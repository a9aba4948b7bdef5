package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vidinfra/ledgersync/internal/config"
	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/logger"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultBaseURL = "https://api.xero.com"
	tokenURL       = "https://identity.xero.com/connect/token"
	accountingPath = "/api.xro/2.0"
)

func init() {
	// The accounting API rejects quoted numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Client talks to the accounting ledger API. A single OAuth2 client
// credentials token source backs every call in the run and refreshes the
// token transparently.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tenantID   string
	logger     *logger.Logger
}

// Option customises a Client, used by tests to point at a stub server
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (and with it the
// OAuth2 transport)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API base URL
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTenantID pins the tenant without hitting the connections endpoint
func WithTenantID(id string) Option {
	return func(c *Client) { c.tenantID = id }
}

// NewClient builds a ledger API client from configuration
func NewClient(cfg config.XeroConfig, log *logger.Logger, opts ...Option) *Client {
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes: []string{
			"accounting.transactions",
			"accounting.contacts",
			"accounting.settings",
		},
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil

	// Token refresh goes through the retrying client as well
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, retryClient.StandardClient())

	c := &Client{
		httpClient: creds.Client(baseCtx),
		baseURL:    defaultBaseURL,
		tenantID:   cfg.TenantID,
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect resolves the organisation tenant ID from the connections endpoint.
// A tenant ID supplied via configuration or options is kept as-is.
func (c *Client) Connect(ctx context.Context) error {
	if c.tenantID != "" {
		c.logger.Infow("using configured tenant", "tenant_id", c.tenantID)
		return nil
	}

	var connections []Connection
	if err := c.do(ctx, http.MethodGet, "/connections", nil, nil, &connections); err != nil {
		return err
	}

	org, found := lo.Find(connections, func(conn Connection) bool {
		return conn.TenantType == TenantTypeOrganisation
	})
	if !found {
		return ierr.NewError("no organisation tenant connected").
			WithHint("The app must be connected to exactly one organisation").
			Mark(ierr.ErrAuthentication)
	}

	c.tenantID = org.TenantID
	c.logger.Infow("resolved tenant", "tenant_id", c.tenantID, "tenant_name", org.TenantName)
	return nil
}

// TenantID returns the resolved tenant ID
func (c *Client) TenantID() string {
	return c.tenantID
}

// GetInvoiceByNumber looks up an invoice by its exact invoice number.
// Returns an ErrNotFound marked error when no invoice matches.
func (c *Client) GetInvoiceByNumber(ctx context.Context, number string) (*Invoice, error) {
	query := url.Values{}
	query.Set("where", fmt.Sprintf(`InvoiceNumber=="%s"`, escapeWhereValue(number)))

	var resp apiResponse
	if err := c.do(ctx, http.MethodGet, accountingPath+"/Invoices", query, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Invoices) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{
				"invoice_number": number,
			}).
			Mark(ierr.ErrNotFound)
	}
	return &resp.Invoices[0], nil
}

// CreateInvoices creates the given invoices and returns them as the ledger
// recorded them, totals included
func (c *Client) CreateInvoices(ctx context.Context, invoices []Invoice) ([]Invoice, error) {
	body := apiResponse{Invoices: invoices}

	var resp apiResponse
	if err := c.do(ctx, http.MethodPut, accountingPath+"/Invoices", nil, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Invoices) == 0 {
		return nil, ierr.NewError("create invoices returned no invoices").
			Mark(ierr.ErrIntegration)
	}
	return resp.Invoices, nil
}

// GetContactByNumber looks up a contact by its exact contact number.
// Returns an ErrNotFound marked error when no contact matches.
func (c *Client) GetContactByNumber(ctx context.Context, number string) (*Contact, error) {
	query := url.Values{}
	query.Set("where", fmt.Sprintf(`ContactNumber=="%s"`, escapeWhereValue(number)))

	var resp apiResponse
	if err := c.do(ctx, http.MethodGet, accountingPath+"/Contacts", query, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Contacts) == 0 {
		return nil, ierr.NewError("contact not found").
			WithReportableDetails(map[string]any{
				"contact_number": number,
			}).
			Mark(ierr.ErrNotFound)
	}
	return &resp.Contacts[0], nil
}

// CreateContact creates a single contact and returns the recorded contact
func (c *Client) CreateContact(ctx context.Context, contact Contact) (*Contact, error) {
	body := apiResponse{Contacts: []Contact{contact}}

	var resp apiResponse
	if err := c.do(ctx, http.MethodPut, accountingPath+"/Contacts", nil, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Contacts) == 0 {
		return nil, ierr.NewError("create contact returned no contacts").
			Mark(ierr.ErrIntegration)
	}
	return &resp.Contacts[0], nil
}

// CreatePayment records a payment against an invoice
func (c *Client) CreatePayment(ctx context.Context, payment Payment) (*Payment, error) {
	body := apiResponse{Payments: []Payment{payment}}

	var resp apiResponse
	if err := c.do(ctx, http.MethodPut, accountingPath+"/Payments", nil, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Payments) == 0 {
		return nil, ierr.NewError("create payment returned no payments").
			Mark(ierr.ErrIntegration)
	}
	return &resp.Payments[0], nil
}

// ListAccounts returns the chart of accounts, used by diagnostics only
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var resp apiResponse
	if err := c.do(ctx, http.MethodGet, accountingPath+"/Accounts", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// ListTrackingCategories returns all tracking categories with their options,
// used by diagnostics only
func (c *Client) ListTrackingCategories(ctx context.Context) ([]TrackingCategory, error) {
	var resp apiResponse
	if err := c.do(ctx, http.MethodGet, accountingPath+"/TrackingCategories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.TrackingCategories, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to encode request body").
				Mark(ierr.ErrSystem)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tenantID != "" {
		req.Header.Set("Xero-Tenant-Id", c.tenantID)
	}

	c.logger.Debugw("ledger api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Request to %s failed", path).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to read response from %s", path).
			Mark(ierr.ErrHTTPClient)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ierr.NewError("ledger api denied the request").
			WithHint("Check the client credentials and tenant connection").
			WithReportableDetails(map[string]any{
				"status": resp.StatusCode,
				"path":   path,
			}).
			Mark(ierr.ErrAuthentication)
	case resp.StatusCode == http.StatusNotFound:
		return ierr.NewError("ledger api resource not found").
			WithReportableDetails(map[string]any{
				"path": path,
			}).
			Mark(ierr.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return ierr.NewError("ledger api request failed").
			WithReportableDetails(map[string]any{
				"status": resp.StatusCode,
				"path":   path,
				"body":   truncate(string(raw), 512),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to decode response from %s", path).
				Mark(ierr.ErrIntegration)
		}
	}
	return nil
}

// escapeWhereValue escapes a value interpolated into a where filter string
func escapeWhereValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

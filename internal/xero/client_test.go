package xero

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidinfra/ledgersync/internal/config"
	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.XeroConfig{}, logger.NewNop(),
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL),
		WithTenantID("tenant-1"),
	)
	return client, server
}

func TestGetInvoiceByNumber(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api.xro/2.0/Invoices", r.URL.Path)
		assert.Equal(t, `InvoiceNumber=="INV-1"`, r.URL.Query().Get("where"))
		assert.Equal(t, "tenant-1", r.Header.Get("Xero-Tenant-Id"))

		_ = json.NewEncoder(w).Encode(apiResponse{Invoices: []Invoice{{
			InvoiceID:     "inv-uuid-1",
			InvoiceNumber: "INV-1",
			Total:         decimal.RequireFromString("50.00"),
			Payments:      []Payment{{PaymentID: "pay-uuid-1"}},
		}}})
	}))

	inv, err := client.GetInvoiceByNumber(t.Context(), "INV-1")
	require.NoError(t, err)
	assert.Equal(t, "inv-uuid-1", inv.InvoiceID)
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("50.00")))
	assert.Len(t, inv.Payments, 1)
}

func TestGetInvoiceByNumberNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(apiResponse{})
	}))

	_, err := client.GetInvoiceByNumber(t.Context(), "INV-404")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestCreateInvoicesSendsUnquotedAmounts(t *testing.T) {
	var rawBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api.xro/2.0/Invoices", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))

		_ = json.NewEncoder(w).Encode(apiResponse{Invoices: []Invoice{{
			InvoiceID:     "inv-uuid-1",
			InvoiceNumber: "INV-1",
			Total:         decimal.RequireFromString("12.00"),
		}}})
	}))

	created, err := client.CreateInvoices(t.Context(), []Invoice{{
		InvoiceNumber: "INV-1",
		Type:          InvoiceTypeAccRec,
		Status:        InvoiceStatusAuthorised,
		LineItems: []LineItem{{
			Description: "Widget (Quantity: 1)",
			AccountCode: "200",
			LineAmount:  decimal.RequireFromString("10.00"),
			TaxAmount:   decimal.RequireFromString("2.00"),
		}},
	}})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "inv-uuid-1", created[0].InvoiceID)

	// amounts must be JSON numbers, not strings
	invoices := rawBody["Invoices"].([]any)
	lineItems := invoices[0].(map[string]any)["LineItems"].([]any)
	line := lineItems[0].(map[string]any)
	assert.Equal(t, float64(10), line["LineAmount"])
	assert.Equal(t, float64(2), line["TaxAmount"])
}

func TestCreatePayment(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api.xro/2.0/Payments", r.URL.Path)

		var body apiResponse
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Payments, 1)
		assert.Equal(t, "inv-uuid-1", body.Payments[0].Invoice.InvoiceID)
		assert.Equal(t, "090", body.Payments[0].Account.Code)
		assert.Equal(t, "ch_123", body.Payments[0].Reference)

		_ = json.NewEncoder(w).Encode(apiResponse{Payments: []Payment{{PaymentID: "pay-uuid-1"}}})
	}))

	payment, err := client.CreatePayment(t.Context(), Payment{
		Invoice:   &Invoice{InvoiceID: "inv-uuid-1"},
		Account:   &Account{Code: "090"},
		Date:      "2024-02-10",
		Amount:    decimal.RequireFromString("50.00"),
		Reference: "ch_123",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-uuid-1", payment.PaymentID)
}

func TestConnectResolvesOrganisationTenant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/connections", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Connection{
			{ID: "conn-1", TenantID: "tenant-practice", TenantType: "PRACTICEMANAGER"},
			{ID: "conn-2", TenantID: "tenant-org", TenantType: TenantTypeOrganisation, TenantName: "Acme"},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient(config.XeroConfig{}, logger.NewNop(),
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL),
	)

	require.NoError(t, client.Connect(t.Context()))
	assert.Equal(t, "tenant-org", client.TenantID())
}

func TestAuthenticationFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.GetInvoiceByNumber(t.Context(), "INV-1")
	require.Error(t, err)
	assert.True(t, ierr.IsAuthentication(err))
}

func TestEscapeWhereValue(t *testing.T) {
	assert.Equal(t, `INV-1`, escapeWhereValue(`INV-1`))
	assert.Equal(t, `a\"b`, escapeWhereValue(`a"b`))
	assert.Equal(t, `a\\b`, escapeWhereValue(`a\b`))
}

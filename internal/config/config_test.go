package config

import (
	"testing"
	"time"

	ierr "github.com/vidinfra/ledgersync/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("START_DATE", "2024-01-01")
	t.Setenv("END_DATE", "2024-03-31")
	t.Setenv("XERO_CLIENT_ID", "client-id")
	t.Setenv("XERO_CLIENT_SECRET", "client-secret")
	t.Setenv("XERO_GENERIC_CUSTOMER_CONTACT_ID", "contact-generic")
	t.Setenv("XERO_ACCOUNT_STRIPE_SALES", "200")
	t.Setenv("XERO_ACCOUNT_STRIPE_SALES_LONG_TERM", "201")
	t.Setenv("XERO_ACCOUNT_STRIPE_BANK", "090")
}

func TestNewConfigFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XERO_CONTACT_IDS_LONG_TERM", "cus_1, cus_2,")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, "200", cfg.Xero.AccountStripeSales)
	assert.Equal(t, []string{"cus_1", "cus_2"}, cfg.Xero.LongTermContactNumbers())
}

func TestNewConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.True(t, ierr.IsConfiguration(err))
}

func TestWindowResolve(t *testing.T) {
	w := WindowConfig{StartDate: "2024-01-01", EndDate: "2024-03-31"}
	require.NoError(t, w.Resolve())

	loc, err := time.LoadLocation(Timezone)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, loc), w.AcceptStart())
	assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 0, loc), w.AcceptEnd())

	// fetch window reaches 31 days further back to catch late finalisation
	assert.Equal(t, 2678400*time.Second, w.AcceptStart().Sub(w.FetchStart()))
	assert.True(t, w.FetchEnd().Equal(w.AcceptEnd()))
}

func TestWindowResolveRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "malformed start date", start: "01/01/2024", end: "2024-03-31"},
		{name: "malformed end date", start: "2024-01-01", end: "yesterday"},
		{name: "end before start", start: "2024-03-31", end: "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowConfig{StartDate: tt.start, EndDate: tt.end}
			err := w.Resolve()
			require.Error(t, err)
			assert.True(t, ierr.IsConfiguration(err))
		})
	}
}

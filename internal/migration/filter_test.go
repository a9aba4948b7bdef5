package migration

import (
	"testing"
	"time"

	"github.com/vidinfra/ledgersync/internal/config"
	"github.com/vidinfra/ledgersync/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow(t *testing.T, start, end string) config.WindowConfig {
	t.Helper()
	w := config.WindowConfig{StartDate: start, EndDate: end}
	require.NoError(t, w.Resolve())
	return w
}

func TestEligibilityFilter(t *testing.T) {
	window := testWindow(t, "2024-01-01", "2024-03-31")
	filter := eligibilityFilter{window: window}

	tests := []struct {
		name       string
		status     types.InvoiceStatus
		finalized  time.Time
		want       bool
		wantReason types.SkipReason
	}{
		{
			name:      "finalized exactly at window start",
			status:    types.InvoiceStatusOpen,
			finalized: window.AcceptStart(),
			want:      true,
		},
		{
			name:      "finalized exactly at window end",
			status:    types.InvoiceStatusPaid,
			finalized: window.AcceptEnd(),
			want:      true,
		},
		{
			name:      "finalized mid window",
			status:    types.InvoiceStatusOpen,
			finalized: window.AcceptStart().AddDate(0, 1, 0),
			want:      true,
		},
		{
			name:       "finalized one second before window start",
			status:     types.InvoiceStatusOpen,
			finalized:  window.AcceptStart().Add(-time.Second),
			want:       false,
			wantReason: types.SkipReasonOutsideWindow,
		},
		{
			name:       "finalized one second after window end",
			status:     types.InvoiceStatusOpen,
			finalized:  window.AcceptEnd().Add(time.Second),
			want:       false,
			wantReason: types.SkipReasonOutsideWindow,
		},
		{
			name:       "draft is never migrated regardless of timestamps",
			status:     types.InvoiceStatusDraft,
			finalized:  window.AcceptStart().AddDate(0, 1, 0),
			want:       false,
			wantReason: types.SkipReasonDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &types.SourceInvoice{
				Number:      "INV-100",
				Status:      tt.status,
				FinalizedAt: tt.finalized,
			}
			got, reason := filter.Check(inv)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

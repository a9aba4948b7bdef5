package migration

import (
	"github.com/vidinfra/ledgersync/internal/config"
	"github.com/vidinfra/ledgersync/internal/types"
)

// eligibilityFilter decides whether a source invoice should be migrated.
// The acceptance window is narrower than the fetch window: an invoice is
// fetched if it was created up to 31 days before the window, but accepted
// only if it was finalised inside the window itself.
type eligibilityFilter struct {
	window config.WindowConfig
}

// Check returns whether the invoice is eligible, and if not, why it was
// skipped. Both window bounds are inclusive.
func (f eligibilityFilter) Check(inv *types.SourceInvoice) (bool, types.SkipReason) {
	if inv.Status == types.InvoiceStatusDraft {
		return false, types.SkipReasonDraft
	}
	if inv.FinalizedAt.Before(f.window.AcceptStart()) || inv.FinalizedAt.After(f.window.AcceptEnd()) {
		return false, types.SkipReasonOutsideWindow
	}
	return true, ""
}

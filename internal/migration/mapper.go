package migration

import (
	"fmt"
	"time"

	"github.com/vidinfra/ledgersync/internal/config"
	"github.com/vidinfra/ledgersync/internal/types"
	"github.com/vidinfra/ledgersync/internal/xero"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// dueDateFallback is applied when the source invoice carries no due date
const dueDateFallback = 7 * 24 * time.Hour

var minorUnitsPerUnit = decimal.NewFromInt(100)

// invoiceMapper translates source invoices and line items into their ledger
// shape
type invoiceMapper struct {
	cfg config.XeroConfig
	loc *time.Location
}

// accountFor selects the sales account for a resolved contact. Contacts on
// the long-term allow-list route to the long-term sales account; everything
// else, including the generic customer, routes to the standard one.
func (m invoiceMapper) accountFor(contactNumber string) string {
	if contactNumber != "" && lo.Contains(m.cfg.LongTermContactNumbers(), contactNumber) {
		return m.cfg.AccountStripeSalesLongTerm
	}
	return m.cfg.AccountStripeSales
}

// trackingAssignments returns the statically configured tracking assignments
// attached to every mapped line. A pair is only attached when both its
// category and option IDs are configured.
func (m invoiceMapper) trackingAssignments() []xero.LineItemTracking {
	var tracking []xero.LineItemTracking
	if m.cfg.TrackingCategoryOneID != "" && m.cfg.TrackingCategoryOneOptionID != "" {
		tracking = append(tracking, xero.LineItemTracking{
			TrackingCategoryID: m.cfg.TrackingCategoryOneID,
			TrackingOptionID:   m.cfg.TrackingCategoryOneOptionID,
		})
	}
	if m.cfg.TrackingCategoryTwoID != "" && m.cfg.TrackingCategoryTwoOptionID != "" {
		tracking = append(tracking, xero.LineItemTracking{
			TrackingCategoryID: m.cfg.TrackingCategoryTwoID,
			TrackingOptionID:   m.cfg.TrackingCategoryTwoOptionID,
		})
	}
	return tracking
}

// mapLine converts one source line item. The quantity is embedded in the
// description instead of being sent as a structured field so the ledger
// cannot recompute a line total that diverges from the tax-exclusive amount
// by rounding.
func (m invoiceMapper) mapLine(item *types.SourceLineItem, accountCode string, tracking []xero.LineItemTracking) xero.LineItem {
	return xero.LineItem{
		Description: fmt.Sprintf("%s (Quantity: %d)", item.Description, item.Quantity),
		AccountCode: accountCode,
		LineAmount:  decimal.NewFromInt(item.AmountExcludingTax).Div(minorUnitsPerUnit),
		TaxAmount:   decimal.NewFromInt(item.TaxAmount()).Div(minorUnitsPerUnit),
		Tracking:    tracking,
	}
}

// buildInvoice assembles the ledger invoice to create. Issue date is the
// finalisation timestamp; a missing due date falls back to issue date plus
// seven days.
func (m invoiceMapper) buildInvoice(src *types.SourceInvoice, contact *xero.Contact, lines []xero.LineItem) xero.Invoice {
	date := src.FinalizedAt.In(m.loc)
	due := date.Add(dueDateFallback)
	if !src.DueDate.IsZero() {
		due = src.DueDate.In(m.loc)
	}

	return xero.Invoice{
		InvoiceNumber: src.Number,
		Contact:       contact,
		LineItems:     lines,
		Date:          xero.FormatDate(date),
		DueDate:       xero.FormatDate(due),
		Type:          xero.InvoiceTypeAccRec,
		Status:        xero.InvoiceStatusAuthorised,
		SentToContact: true,
	}
}

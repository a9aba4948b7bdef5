package types

import (
	"time"

	ierr "github.com/vidinfra/ledgersync/internal/errors"

	"github.com/samber/lo"
)

// InvoiceStatus represents the lifecycle state of a billing invoice on the
// payments platform
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusOpen          InvoiceStatus = "open"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusOpen,
		InvoiceStatusPaid,
		InvoiceStatusVoid,
		InvoiceStatusUncollectible,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CollectionMethod indicates how the payments platform collects an invoice
type CollectionMethod string

const (
	// CollectionMethodChargeAutomatically indicates the invoice is settled
	// against a stored payment method
	CollectionMethodChargeAutomatically CollectionMethod = "charge_automatically"
	// CollectionMethodSendInvoice indicates the invoice is emailed to the
	// customer for manual payment
	CollectionMethodSendInvoice CollectionMethod = "send_invoice"
)

func (m CollectionMethod) String() string {
	return string(m)
}

func (m CollectionMethod) Validate() error {
	allowed := []CollectionMethod{
		CollectionMethodChargeAutomatically,
		CollectionMethodSendInvoice,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid collection method").
			WithHint("Please provide a valid collection method").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SourceInvoice is a read-only snapshot of a billing invoice fetched from the
// payments platform. Amounts are in integer minor units.
type SourceInvoice struct {
	ID               string
	Number           string
	Status           InvoiceStatus
	CustomerID       string
	CustomerName     string
	Total            int64
	Created          time.Time
	FinalizedAt      time.Time
	DueDate          time.Time // zero when the invoice has no due date
	PaidAt           time.Time
	CollectionMethod CollectionMethod
	Paid             bool
	PaidOutOfBand    bool
	ChargeID         string
}

// SourceLineItem is a single line of a SourceInvoice. Amount is tax-inclusive,
// AmountExcludingTax is the pre-tax portion, both in minor units.
type SourceLineItem struct {
	Description        string
	Quantity           int64
	Amount             int64
	AmountExcludingTax int64
}

// TaxAmount returns the tax portion of the line in minor units
func (l SourceLineItem) TaxAmount() int64 {
	return l.Amount - l.AmountExcludingTax
}

package xero

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// InvoiceTypeAccRec is an accounts-receivable (sales) invoice
	InvoiceTypeAccRec = "ACCREC"
	// InvoiceStatusAuthorised is an approved invoice awaiting payment
	InvoiceStatusAuthorised = "AUTHORISED"
	// TenantTypeOrganisation identifies organisation connections on the
	// connections endpoint
	TenantTypeOrganisation = "ORGANISATION"
)

// dateLayout is the calendar-date format the accounting API accepts on writes
const dateLayout = "2006-01-02"

// FormatDate renders a time as an accounting API calendar date
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Connection is one entry of the tenant connections endpoint
type Connection struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	TenantType string `json:"tenantType"`
	TenantName string `json:"tenantName"`
}

// Contact is a ledger contact. On writes only the fields being set are
// populated; a bare ContactID is a reference to an existing contact.
type Contact struct {
	ContactID     string `json:"ContactID,omitempty"`
	ContactNumber string `json:"ContactNumber,omitempty"`
	Name          string `json:"Name,omitempty"`
}

// LineItemTracking assigns a tracking category option to a line item
type LineItemTracking struct {
	TrackingCategoryID string `json:"TrackingCategoryID"`
	TrackingOptionID   string `json:"TrackingOptionID"`
}

// LineItem is a single invoice line. LineAmount is tax-exclusive; the
// quantity field is deliberately absent so the ledger cannot recompute a
// total that drifts from the supplied amounts by rounding.
type LineItem struct {
	Description string             `json:"Description"`
	AccountCode string             `json:"AccountCode"`
	LineAmount  decimal.Decimal    `json:"LineAmount"`
	TaxAmount   decimal.Decimal    `json:"TaxAmount"`
	Tracking    []LineItemTracking `json:"Tracking,omitempty"`
}

// Invoice is a ledger invoice. Total and Payments are read-only, populated
// by the API on responses.
type Invoice struct {
	InvoiceID     string          `json:"InvoiceID,omitempty"`
	InvoiceNumber string          `json:"InvoiceNumber,omitempty"`
	Type          string          `json:"Type,omitempty"`
	Status        string          `json:"Status,omitempty"`
	Contact       *Contact        `json:"Contact,omitempty"`
	LineItems     []LineItem      `json:"LineItems,omitempty"`
	Date          string          `json:"Date,omitempty"`
	DueDate       string          `json:"DueDate,omitempty"`
	SentToContact bool            `json:"SentToContact,omitempty"`
	Total         decimal.Decimal `json:"Total,omitzero"`
	Payments      []Payment       `json:"Payments,omitempty"`
}

// Payment applies money against an invoice. Invoice carries only the
// InvoiceID and Account only the bank account code.
type Payment struct {
	PaymentID string          `json:"PaymentID,omitempty"`
	Invoice   *Invoice        `json:"Invoice,omitempty"`
	Account   *Account        `json:"Account,omitempty"`
	Date      string          `json:"Date,omitempty"`
	Amount    decimal.Decimal `json:"Amount,omitzero"`
	Reference string          `json:"Reference,omitempty"`
}

// Account is an entry of the chart of accounts
type Account struct {
	AccountID string `json:"AccountID,omitempty"`
	Code      string `json:"Code,omitempty"`
	Name      string `json:"Name,omitempty"`
	Type      string `json:"Type,omitempty"`
	Status    string `json:"Status,omitempty"`
}

// TrackingCategory is a reporting dimension with its options
type TrackingCategory struct {
	TrackingCategoryID string           `json:"TrackingCategoryID"`
	Name               string           `json:"Name"`
	Status             string           `json:"Status,omitempty"`
	Options            []TrackingOption `json:"Options,omitempty"`
}

// TrackingOption is one value of a tracking category
type TrackingOption struct {
	TrackingOptionID string `json:"TrackingOptionID"`
	Name             string `json:"Name"`
}

// apiResponse is the envelope the accounting API wraps every collection in
type apiResponse struct {
	Invoices           []Invoice          `json:"Invoices,omitempty"`
	Contacts           []Contact          `json:"Contacts,omitempty"`
	Payments           []Payment          `json:"Payments,omitempty"`
	Accounts           []Account          `json:"Accounts,omitempty"`
	TrackingCategories []TrackingCategory `json:"TrackingCategories,omitempty"`
}

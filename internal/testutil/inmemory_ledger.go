package testutil

import (
	"context"
	"fmt"

	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/xero"

	"github.com/shopspring/decimal"
)

// InMemoryLedger is a map-backed stand-in for the accounting ledger. Like
// the real thing it computes invoice totals from the submitted lines, so
// payment amounts taken from the created invoice reflect ledger-side math.
type InMemoryLedger struct {
	invoicesByNumber map[string]*xero.Invoice
	contactsByNumber map[string]*xero.Contact
	nextID           int

	// Mutation counters for assertions
	InvoiceCreates int
	ContactCreates int
	PaymentCreates int
}

// NewInMemoryLedger creates an empty in-memory ledger
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		invoicesByNumber: make(map[string]*xero.Invoice),
		contactsByNumber: make(map[string]*xero.Contact),
	}
}

// SeedContact registers a pre-existing contact
func (l *InMemoryLedger) SeedContact(contact xero.Contact) *xero.Contact {
	if contact.ContactID == "" {
		contact.ContactID = l.newID("contact")
	}
	l.contactsByNumber[contact.ContactNumber] = &contact
	return &contact
}

// InvoiceByNumber exposes a stored invoice for assertions
func (l *InMemoryLedger) InvoiceByNumber(number string) *xero.Invoice {
	return l.invoicesByNumber[number]
}

func (l *InMemoryLedger) GetInvoiceByNumber(ctx context.Context, number string) (*xero.Invoice, error) {
	inv, ok := l.invoicesByNumber[number]
	if !ok {
		return nil, ierr.NewError("invoice not found").Mark(ierr.ErrNotFound)
	}
	copied := *inv
	return &copied, nil
}

func (l *InMemoryLedger) CreateInvoices(ctx context.Context, invoices []xero.Invoice) ([]xero.Invoice, error) {
	created := make([]xero.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if _, exists := l.invoicesByNumber[inv.InvoiceNumber]; exists {
			return nil, ierr.NewError("invoice number already taken").Mark(ierr.ErrAlreadyExists)
		}

		inv.InvoiceID = l.newID("invoice")
		total := decimal.Zero
		for _, line := range inv.LineItems {
			total = total.Add(line.LineAmount).Add(line.TaxAmount)
		}
		inv.Total = total

		stored := inv
		l.invoicesByNumber[inv.InvoiceNumber] = &stored
		l.InvoiceCreates++
		created = append(created, inv)
	}
	return created, nil
}

func (l *InMemoryLedger) GetContactByNumber(ctx context.Context, number string) (*xero.Contact, error) {
	contact, ok := l.contactsByNumber[number]
	if !ok {
		return nil, ierr.NewError("contact not found").Mark(ierr.ErrNotFound)
	}
	copied := *contact
	return &copied, nil
}

func (l *InMemoryLedger) CreateContact(ctx context.Context, contact xero.Contact) (*xero.Contact, error) {
	contact.ContactID = l.newID("contact")
	stored := contact
	l.contactsByNumber[contact.ContactNumber] = &stored
	l.ContactCreates++
	return &contact, nil
}

func (l *InMemoryLedger) CreatePayment(ctx context.Context, payment xero.Payment) (*xero.Payment, error) {
	if payment.Invoice == nil || payment.Invoice.InvoiceID == "" {
		return nil, ierr.NewError("payment requires an invoice reference").Mark(ierr.ErrValidation)
	}

	for _, inv := range l.invoicesByNumber {
		if inv.InvoiceID == payment.Invoice.InvoiceID {
			payment.PaymentID = l.newID("payment")
			inv.Payments = append(inv.Payments, payment)
			l.PaymentCreates++
			return &payment, nil
		}
	}
	return nil, ierr.NewError("invoice not found").Mark(ierr.ErrNotFound)
}

func (l *InMemoryLedger) newID(prefix string) string {
	l.nextID++
	return fmt.Sprintf("%s-%04d", prefix, l.nextID)
}

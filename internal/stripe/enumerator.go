package stripe

import (
	"context"
	"iter"
	"time"

	"github.com/vidinfra/ledgersync/internal/config"
	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/logger"
	"github.com/vidinfra/ledgersync/internal/types"

	"github.com/stripe/stripe-go/v82"
)

// pageSize is the number of records fetched per page while enumerating
const pageSize = 100

// Enumerator pages through the payments platform's invoice collection for
// the configured window and yields read-only snapshots in creation order.
// Pagination (limit 100, cursor after the last record) is handled by the
// SDK's list iterators.
type Enumerator struct {
	client *stripe.Client
	window config.WindowConfig
	logger *logger.Logger
}

// NewEnumerator creates an invoice enumerator over the given window
func NewEnumerator(cfg config.StripeConfig, window config.WindowConfig, log *logger.Logger) *Enumerator {
	return &Enumerator{
		client: stripe.NewClient(cfg.SecretKey, nil),
		window: window,
		logger: log,
	}
}

// Invoices returns a lazy, forward-only sequence of invoices created inside
// the fetch window. The fetch window starts 31 days before the acceptance
// window so late-finalised invoices are not missed. Any transport or auth
// error is yielded once and terminates the sequence.
func (e *Enumerator) Invoices(ctx context.Context) iter.Seq2[*types.SourceInvoice, error] {
	return func(yield func(*types.SourceInvoice, error) bool) {
		params := &stripe.InvoiceListParams{
			CreatedRange: &stripe.RangeQueryParams{
				GreaterThanOrEqual: e.window.FetchStart().Unix(),
				LesserThan:         e.window.FetchEnd().Unix(),
			},
		}
		params.Limit = stripe.Int64(pageSize)
		params.AddExpand("data.payments")

		e.logger.Infow("enumerating source invoices",
			"created_gte", e.window.FetchStart().Unix(),
			"created_lt", e.window.FetchEnd().Unix())

		for inv, err := range e.client.V1Invoices.List(ctx, params) {
			if err != nil {
				yield(nil, ierr.WithError(err).
					WithHint("Failed to list invoices from the payments platform").
					Mark(ierr.ErrIntegration))
				return
			}
			src, err := mapInvoice(inv)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(src, nil) {
				return
			}
		}
	}
}

// LineItems returns a lazy sequence of the line items of one invoice
func (e *Enumerator) LineItems(ctx context.Context, invoiceID string) iter.Seq2[*types.SourceLineItem, error] {
	return func(yield func(*types.SourceLineItem, error) bool) {
		params := &stripe.InvoiceListLinesParams{Invoice: stripe.String(invoiceID)}
		params.Limit = stripe.Int64(pageSize)

		for line, err := range e.client.V1Invoices.ListLines(ctx, params) {
			if err != nil {
				yield(nil, ierr.WithError(err).
					WithHint("Failed to list invoice line items from the payments platform").
					WithReportableDetails(map[string]any{
						"invoice_id": invoiceID,
					}).
					Mark(ierr.ErrIntegration))
				return
			}
			if !yield(mapLineItem(line), nil) {
				return
			}
		}
	}
}

// mapInvoice converts an SDK invoice into a domain snapshot, validating the
// enums at the boundary so the engine never sees a shape it does not know
func mapInvoice(inv *stripe.Invoice) (*types.SourceInvoice, error) {
	src := &types.SourceInvoice{
		ID:               inv.ID,
		Number:           inv.Number,
		Status:           types.InvoiceStatus(inv.Status),
		CustomerName:     inv.CustomerName,
		Total:            inv.Total,
		Created:          time.Unix(inv.Created, 0),
		CollectionMethod: types.CollectionMethod(inv.CollectionMethod),
		Paid:             inv.Status == stripe.InvoiceStatusPaid,
	}
	if inv.Customer != nil {
		src.CustomerID = inv.Customer.ID
	}
	if inv.StatusTransitions != nil {
		if inv.StatusTransitions.FinalizedAt > 0 {
			src.FinalizedAt = time.Unix(inv.StatusTransitions.FinalizedAt, 0)
		}
		if inv.StatusTransitions.PaidAt > 0 {
			src.PaidAt = time.Unix(inv.StatusTransitions.PaidAt, 0)
		}
	}
	if inv.DueDate > 0 {
		src.DueDate = time.Unix(inv.DueDate, 0)
	}

	// The charge reference comes from the invoice's settled payments. A paid
	// invoice with no charge or payment intent behind it was paid out of band.
	if inv.Payments != nil {
		for _, p := range inv.Payments.Data {
			if p.Payment == nil {
				continue
			}
			switch p.Payment.Type {
			case "charge":
				if p.Payment.Charge != nil {
					src.ChargeID = p.Payment.Charge.ID
				}
			case "payment_intent":
				if p.Payment.PaymentIntent != nil && src.ChargeID == "" {
					src.ChargeID = p.Payment.PaymentIntent.ID
				}
			}
		}
	}
	src.PaidOutOfBand = src.Paid && src.ChargeID == ""

	if err := src.Status.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Source invoice %s has an unrecognised status", inv.ID).
			Mark(ierr.ErrIntegration)
	}
	if err := src.CollectionMethod.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Source invoice %s has an unrecognised collection method", inv.ID).
			Mark(ierr.ErrIntegration)
	}

	return src, nil
}

func mapLineItem(line *stripe.InvoiceLineItem) *types.SourceLineItem {
	item := &types.SourceLineItem{
		Description: line.Description,
		Quantity:    line.Quantity,
		Amount:      line.Amount,
	}

	// Amount is tax inclusive; the pre-tax portion is what remains after the
	// line's tax amounts
	var tax int64
	for _, t := range line.Taxes {
		tax += t.Amount
	}
	item.AmountExcludingTax = line.Amount - tax

	return item
}

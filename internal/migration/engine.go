package migration

import (
	"context"
	"iter"
	"time"

	"github.com/vidinfra/ledgersync/internal/config"
	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/logger"
	"github.com/vidinfra/ledgersync/internal/types"
	"github.com/vidinfra/ledgersync/internal/xero"
)

// Source enumerates billing invoices on the payments platform
type Source interface {
	Invoices(ctx context.Context) iter.Seq2[*types.SourceInvoice, error]
	LineItems(ctx context.Context, invoiceID string) iter.Seq2[*types.SourceLineItem, error]
}

// Ledger is the destination accounting system
type Ledger interface {
	GetInvoiceByNumber(ctx context.Context, number string) (*xero.Invoice, error)
	CreateInvoices(ctx context.Context, invoices []xero.Invoice) ([]xero.Invoice, error)
	GetContactByNumber(ctx context.Context, number string) (*xero.Contact, error)
	CreateContact(ctx context.Context, contact xero.Contact) (*xero.Contact, error)
	CreatePayment(ctx context.Context, payment xero.Payment) (*xero.Payment, error)
}

// Engine runs the one-pass migration: enumerate, filter, ensure the ledger
// invoice exists, then ensure its payment exists. Single threaded, one
// invoice start to finish before the next. The ledger itself is the record
// of progress, so a rerun after a failure is safe.
type Engine struct {
	source     Source
	ledger     Ledger
	filter     eligibilityFilter
	mapper     invoiceMapper
	contacts   contactResolver
	reconciler paymentReconciler
	logger     *logger.Logger
}

// NewEngine wires a migration engine from its collaborators
func NewEngine(source Source, ledger Ledger, cfg *config.Configuration, log *logger.Logger) (*Engine, error) {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load timezone").
			Mark(ierr.ErrSystem)
	}

	return &Engine{
		source:     source,
		ledger:     ledger,
		filter:     eligibilityFilter{window: cfg.Window},
		mapper:     invoiceMapper{cfg: cfg.Xero, loc: loc},
		contacts:   contactResolver{ledger: ledger, cfg: cfg.Xero, logger: log},
		reconciler: paymentReconciler{ledger: ledger, cfg: cfg.Xero, loc: loc, logger: log},
		logger:     log,
	}, nil
}

// Run executes the migration over the configured window. Skips are counted
// and processing continues; any source or ledger error aborts the run with
// the summary accumulated so far.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	for inv, err := range e.source.Invoices(ctx) {
		if err != nil {
			return summary, err
		}

		e.logger.Infow("retrieved invoice",
			"number", inv.Number,
			"status", inv.Status,
			"customer", inv.CustomerName,
			"total_minor_units", inv.Total,
			"collection_method", inv.CollectionMethod)

		result, err := e.processInvoice(ctx, inv)
		if err != nil {
			return summary, ierr.WithError(err).
				WithHintf("Migration failed on invoice %s", inv.Number).
				Err()
		}
		summary.record(result)
	}

	return summary, nil
}

func (e *Engine) processInvoice(ctx context.Context, inv *types.SourceInvoice) (Result, error) {
	if ok, reason := e.filter.Check(inv); !ok {
		e.logger.Infow("skipping invoice",
			"number", inv.Number,
			"reason", reason)
		return Result{InvoiceNumber: inv.Number, Outcome: types.OutcomeSkipped, SkipReason: reason}, nil
	}

	outcome := types.OutcomeAlreadyPresent

	dest, err := e.ledger.GetInvoiceByNumber(ctx, inv.Number)
	switch {
	case err == nil:
		e.logger.Infow("invoice already in ledger",
			"number", inv.Number,
			"invoice_id", dest.InvoiceID)
	case ierr.IsNotFound(err):
		dest, err = e.createInvoice(ctx, inv)
		if err != nil {
			return Result{}, err
		}
		outcome = types.OutcomeMigrated
	default:
		return Result{}, err
	}

	paymentCreated, err := e.reconciler.Reconcile(ctx, inv, dest)
	if err != nil {
		return Result{}, err
	}

	return Result{
		InvoiceNumber:  inv.Number,
		Outcome:        outcome,
		PaymentCreated: paymentCreated,
	}, nil
}

func (e *Engine) createInvoice(ctx context.Context, inv *types.SourceInvoice) (*xero.Invoice, error) {
	contact, contactNumber, err := e.contacts.Resolve(ctx, inv)
	if err != nil {
		return nil, err
	}

	accountCode := e.mapper.accountFor(contactNumber)
	tracking := e.mapper.trackingAssignments()

	var lines []xero.LineItem
	for item, err := range e.source.LineItems(ctx, inv.ID) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, e.mapper.mapLine(item, accountCode, tracking))
	}

	created, err := e.ledger.CreateInvoices(ctx, []xero.Invoice{e.mapper.buildInvoice(inv, contact, lines)})
	if err != nil {
		return nil, err
	}

	e.logger.Infow("created ledger invoice",
		"number", inv.Number,
		"invoice_id", created[0].InvoiceID,
		"account_code", accountCode,
		"lines", len(lines))

	return &created[0], nil
}

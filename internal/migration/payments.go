package migration

import (
	"context"
	"time"

	"github.com/vidinfra/ledgersync/internal/config"
	"github.com/vidinfra/ledgersync/internal/logger"
	"github.com/vidinfra/ledgersync/internal/types"
	"github.com/vidinfra/ledgersync/internal/xero"
)

// paymentReconciler ensures a paid, automatically charged invoice carries a
// payment record in the ledger. An invoice that already has payments keeps
// them untouched, which is what makes re-runs safe.
type paymentReconciler struct {
	ledger Ledger
	cfg    config.XeroConfig
	loc    *time.Location
	logger *logger.Logger
}

// Reconcile creates a payment when all preconditions hold and reports
// whether one was created. Unpaid and out-of-band invoices are skipped
// silently; out-of-band money is reconciled through a separate process.
func (r paymentReconciler) Reconcile(ctx context.Context, src *types.SourceInvoice, dest *xero.Invoice) (bool, error) {
	if len(dest.Payments) > 0 {
		return false, nil
	}
	if src.CollectionMethod != types.CollectionMethodChargeAutomatically {
		return false, nil
	}
	if !src.Paid || src.PaidOutOfBand {
		return false, nil
	}

	// Amount comes from the ledger invoice total, not the source total, to
	// stay consistent with whatever the ledger computed from the lines.
	payment := xero.Payment{
		Invoice:   &xero.Invoice{InvoiceID: dest.InvoiceID},
		Account:   &xero.Account{Code: r.cfg.AccountStripeBank},
		Date:      xero.FormatDate(src.PaidAt.In(r.loc)),
		Amount:    dest.Total,
		Reference: src.ChargeID,
	}

	if _, err := r.ledger.CreatePayment(ctx, payment); err != nil {
		return false, err
	}

	r.logger.Infow("created payment",
		"invoice_number", src.Number,
		"amount", dest.Total.String(),
		"reference", src.ChargeID)

	return true, nil
}

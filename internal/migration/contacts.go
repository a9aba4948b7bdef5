package migration

import (
	"context"

	"github.com/vidinfra/ledgersync/internal/config"
	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/logger"
	"github.com/vidinfra/ledgersync/internal/types"
	"github.com/vidinfra/ledgersync/internal/xero"
)

// contactResolver finds or creates the ledger contact for an invoice.
// Automatically charged invoices all land on the fixed generic customer;
// invoiced customers are keyed by the source customer identifier stored as
// the contact number. Lookups are not cached across invoices.
type contactResolver struct {
	ledger Ledger
	cfg    config.XeroConfig
	logger *logger.Logger
}

// Resolve returns a contact reference and the contact number used for
// account routing. The generic customer has no contact number.
func (r contactResolver) Resolve(ctx context.Context, inv *types.SourceInvoice) (*xero.Contact, string, error) {
	if inv.CollectionMethod == types.CollectionMethodChargeAutomatically {
		return &xero.Contact{ContactID: r.cfg.GenericCustomerContactID}, "", nil
	}

	existing, err := r.ledger.GetContactByNumber(ctx, inv.CustomerID)
	if err == nil {
		return &xero.Contact{ContactID: existing.ContactID}, inv.CustomerID, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, "", err
	}

	created, err := r.ledger.CreateContact(ctx, xero.Contact{
		Name:          inv.CustomerName,
		ContactNumber: inv.CustomerID,
	})
	if err != nil {
		return nil, "", err
	}

	r.logger.Infow("created ledger contact",
		"contact_id", created.ContactID,
		"contact_number", inv.CustomerID,
		"name", inv.CustomerName)

	return &xero.Contact{ContactID: created.ContactID}, inv.CustomerID, nil
}

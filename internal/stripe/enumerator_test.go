package stripe

import (
	"testing"
	"time"

	"github.com/vidinfra/ledgersync/internal/types"

	"github.com/stripe/stripe-go/v82"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidInvoice() *stripe.Invoice {
	return &stripe.Invoice{
		ID:               "in_1",
		Number:           "INV-1",
		Status:           stripe.InvoiceStatusPaid,
		Customer:         &stripe.Customer{ID: "cus_1"},
		CustomerName:     "Acme Ltd",
		Total:            5000,
		Created:          1707000000,
		DueDate:          1708000000,
		CollectionMethod: stripe.InvoiceCollectionMethodChargeAutomatically,
		StatusTransitions: &stripe.InvoiceStatusTransitions{
			FinalizedAt: 1707100000,
			PaidAt:      1707200000,
		},
		Payments: &stripe.InvoicePaymentList{
			Data: []*stripe.InvoicePayment{{
				Payment: &stripe.InvoicePaymentPayment{
					Type:   "charge",
					Charge: &stripe.Charge{ID: "ch_1"},
				},
			}},
		},
	}
}

func TestMapInvoice(t *testing.T) {
	t.Run("paid invoice with a charge", func(t *testing.T) {
		src, err := mapInvoice(paidInvoice())
		require.NoError(t, err)

		assert.Equal(t, "INV-1", src.Number)
		assert.Equal(t, types.InvoiceStatusPaid, src.Status)
		assert.Equal(t, "cus_1", src.CustomerID)
		assert.Equal(t, types.CollectionMethodChargeAutomatically, src.CollectionMethod)
		assert.True(t, src.Paid)
		assert.False(t, src.PaidOutOfBand)
		assert.Equal(t, "ch_1", src.ChargeID)
		assert.Equal(t, time.Unix(1707100000, 0).Unix(), src.FinalizedAt.Unix())
		assert.Equal(t, time.Unix(1707200000, 0).Unix(), src.PaidAt.Unix())
		assert.Equal(t, time.Unix(1708000000, 0).Unix(), src.DueDate.Unix())
	})

	t.Run("payment intent used when no charge entry", func(t *testing.T) {
		inv := paidInvoice()
		inv.Payments.Data = []*stripe.InvoicePayment{{
			Payment: &stripe.InvoicePaymentPayment{
				Type:          "payment_intent",
				PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
			},
		}}

		src, err := mapInvoice(inv)
		require.NoError(t, err)
		assert.Equal(t, "pi_1", src.ChargeID)
		assert.False(t, src.PaidOutOfBand)
	})

	t.Run("paid with no settled payment is out of band", func(t *testing.T) {
		inv := paidInvoice()
		inv.Payments = nil

		src, err := mapInvoice(inv)
		require.NoError(t, err)
		assert.True(t, src.Paid)
		assert.True(t, src.PaidOutOfBand)
		assert.Empty(t, src.ChargeID)
	})

	t.Run("open invoice is not paid", func(t *testing.T) {
		inv := paidInvoice()
		inv.Status = stripe.InvoiceStatusOpen
		inv.Payments = nil

		src, err := mapInvoice(inv)
		require.NoError(t, err)
		assert.False(t, src.Paid)
		assert.False(t, src.PaidOutOfBand)
	})

	t.Run("missing due date maps to zero time", func(t *testing.T) {
		inv := paidInvoice()
		inv.DueDate = 0

		src, err := mapInvoice(inv)
		require.NoError(t, err)
		assert.True(t, src.DueDate.IsZero())
	})

	t.Run("unrecognised status is rejected", func(t *testing.T) {
		inv := paidInvoice()
		inv.Status = "superseded"

		_, err := mapInvoice(inv)
		require.Error(t, err)
	})

	t.Run("unrecognised collection method is rejected", func(t *testing.T) {
		inv := paidInvoice()
		inv.CollectionMethod = "carrier_pigeon"

		_, err := mapInvoice(inv)
		require.Error(t, err)
	})
}

func TestMapLineItem(t *testing.T) {
	line := &stripe.InvoiceLineItem{
		Description: "Widget",
		Quantity:    2,
		Amount:      1200,
		Taxes: []*stripe.InvoiceLineItemTax{
			{Amount: 150},
			{Amount: 50},
		},
	}

	item := mapLineItem(line)
	assert.Equal(t, "Widget", item.Description)
	assert.Equal(t, int64(2), item.Quantity)
	assert.Equal(t, int64(1200), item.Amount)
	assert.Equal(t, int64(1000), item.AmountExcludingTax)
	assert.Equal(t, int64(200), item.TaxAmount())
}

func TestMapLineItemNoTaxes(t *testing.T) {
	line := &stripe.InvoiceLineItem{
		Description: "Widget",
		Quantity:    1,
		Amount:      1000,
	}

	item := mapLineItem(line)
	assert.Equal(t, int64(1000), item.AmountExcludingTax)
	assert.Equal(t, int64(0), item.TaxAmount())
}

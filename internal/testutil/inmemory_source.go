package testutil

import (
	"context"
	"iter"

	"github.com/vidinfra/ledgersync/internal/types"
)

// InMemorySource is a slice-backed stand-in for the payments platform
type InMemorySource struct {
	SourceInvoices []*types.SourceInvoice
	SourceLines    map[string][]*types.SourceLineItem

	// Err, when set, is yielded after ErrAfter invoices; the remaining
	// invoices are never yielded
	Err      error
	ErrAfter int
}

// NewInMemorySource creates an empty in-memory source
func NewInMemorySource() *InMemorySource {
	return &InMemorySource{
		SourceLines: make(map[string][]*types.SourceLineItem),
	}
}

// AddInvoice registers an invoice and its line items
func (s *InMemorySource) AddInvoice(inv *types.SourceInvoice, lines ...*types.SourceLineItem) {
	s.SourceInvoices = append(s.SourceInvoices, inv)
	s.SourceLines[inv.ID] = lines
}

func (s *InMemorySource) Invoices(ctx context.Context) iter.Seq2[*types.SourceInvoice, error] {
	return func(yield func(*types.SourceInvoice, error) bool) {
		for i, inv := range s.SourceInvoices {
			if s.Err != nil && i == s.ErrAfter {
				yield(nil, s.Err)
				return
			}
			if !yield(inv, nil) {
				return
			}
		}
		if s.Err != nil && s.ErrAfter >= len(s.SourceInvoices) {
			yield(nil, s.Err)
		}
	}
}

func (s *InMemorySource) LineItems(ctx context.Context, invoiceID string) iter.Seq2[*types.SourceLineItem, error] {
	return func(yield func(*types.SourceLineItem, error) bool) {
		for _, item := range s.SourceLines[invoiceID] {
			if !yield(item, nil) {
				return
			}
		}
	}
}

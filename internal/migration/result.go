package migration

import (
	"github.com/vidinfra/ledgersync/internal/types"
)

// Result describes what the engine did with a single source invoice. Skips
// and reuse are normal outcomes, not errors.
type Result struct {
	InvoiceNumber  string
	Outcome        types.MigrationOutcome
	SkipReason     types.SkipReason
	PaymentCreated bool
}

// Summary aggregates the results of a run
type Summary struct {
	Processed       int
	Migrated        int
	AlreadyPresent  int
	Skipped         int
	PaymentsCreated int
}

func (s *Summary) record(r Result) {
	s.Processed++
	switch r.Outcome {
	case types.OutcomeMigrated:
		s.Migrated++
	case types.OutcomeAlreadyPresent:
		s.AlreadyPresent++
	case types.OutcomeSkipped:
		s.Skipped++
	}
	if r.PaymentCreated {
		s.PaymentsCreated++
	}
}

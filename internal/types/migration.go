package types

// MigrationOutcome classifies what happened to a single source invoice during
// a migration run. Skips are expected, failures abort the run.
type MigrationOutcome string

const (
	// OutcomeMigrated indicates a new ledger invoice was created
	OutcomeMigrated MigrationOutcome = "migrated"
	// OutcomeAlreadyPresent indicates the ledger already held an invoice with
	// the same number and it was reused as-is
	OutcomeAlreadyPresent MigrationOutcome = "already_present"
	// OutcomeSkipped indicates the invoice was not eligible for migration
	OutcomeSkipped MigrationOutcome = "skipped"
)

func (o MigrationOutcome) String() string {
	return string(o)
}

// SkipReason explains why an invoice was skipped
type SkipReason string

const (
	// SkipReasonDraft indicates the source invoice was never finalised
	SkipReasonDraft SkipReason = "draft"
	// SkipReasonOutsideWindow indicates the invoice was finalised outside the
	// configured acceptance window
	SkipReasonOutsideWindow SkipReason = "outside_window"
)

func (r SkipReason) String() string {
	return string(r)
}

package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Source identifies which upstream provider a record came from
type Source string

const (
	SourcePitchBook Source = "pitchbook"
	SourceHarmonic  Source = "harmonic"
)

// Round represents a single funding event from one provider, normalized
// into the canonical shape used by the reconciler and aggregator.
// A Round is never mutated after normalization.
type Round struct {
	Date      string           // YYYY-MM-DD when parseable, otherwise the raw source value
	Type      string           // human-readable round label
	Amount    *decimal.Decimal // nil when the source does not report an amount
	Currency  string           // defaults to USD when the source omits it
	Investors []string         // source order, duplicates kept
	Source    Source
}

// Validate ensures the round adheres to domain rules
// Returns an error if validation fails
func (r *Round) Validate() error {
	if r.Source != SourcePitchBook && r.Source != SourceHarmonic {
		return errors.New("round source must be pitchbook or harmonic")
	}

	if r.Amount != nil && r.Amount.IsNegative() {
		return errors.New("round amount cannot be negative")
	}

	if r.Currency == "" {
		return errors.New("round currency cannot be empty")
	}

	return nil
}

// CellFlag is the per-cell comparison outcome for a matched pair
type CellFlag int

const (
	// FlagNeutral means at least one side has no value to compare
	FlagNeutral CellFlag = iota
	// FlagMatch means both sides are present and equal
	FlagMatch
	// FlagMismatch means both sides are present and differ
	FlagMismatch
)

// MatchedPair holds zero or one round from each source, reconciled as the
// same real-world event or left unmatched on one side. At least one side is
// always present. Immutable once constructed.
type MatchedPair struct {
	PitchBook *Round
	Harmonic  *Round

	TypeFlag   CellFlag
	AmountFlag CellFlag
}

// EffectiveDate returns the date used for ordering rows: the PitchBook
// side's date when present, otherwise the Harmonic side's.
func (p *MatchedPair) EffectiveDate() string {
	if p.PitchBook != nil && p.PitchBook.Date != "" {
		return p.PitchBook.Date
	}
	if p.Harmonic != nil {
		return p.Harmonic.Date
	}
	return ""
}

// MonthBucket groups raw per-source rounds that fall in the same calendar
// month. Bucketing is independent of reconciliation: two rounds landing in
// the same month need not be the same event.
type MonthBucket struct {
	Key       string // YYYY-MM, or "Unknown" for unparseable dates
	PitchBook []Round
	Harmonic  []Round
}

// Summary holds per-source totals over a set of rounds
type Summary struct {
	RoundCount  int
	TotalRaised decimal.Decimal
}

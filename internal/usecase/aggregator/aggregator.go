// Package aggregator groups per-source rounds into calendar-month buckets
// and computes per-source summary totals.
package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundbench/fundbench-backend/internal/domain"
	"github.com/fundbench/fundbench-backend/internal/usecase/normalizer"
)

// UnknownKey is the bucket for rounds whose date does not normalize.
// It is ordered by plain string comparison like any other key, not pinned.
const UnknownKey = "Unknown"

// BucketByMonth groups rounds from both sources into month buckets, most
// recent first. Bucketing ignores reconciliation: rounds sharing a month
// need not be the same event. Within a bucket each source keeps its
// original relative order.
//
// Harmonic rounds reporting an amount of exactly zero are dropped before
// bucketing as provider noise; rounds with no amount at all are kept.
func BucketByMonth(pb, harmonic []domain.Round) []domain.MonthBucket {
	byKey := make(map[string]*domain.MonthBucket)
	keys := make([]string, 0)

	add := func(r domain.Round) {
		key := monthKey(r.Date)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &domain.MonthBucket{Key: key}
			byKey[key] = bucket
			keys = append(keys, key)
		}
		if r.Source == domain.SourceHarmonic {
			bucket.Harmonic = append(bucket.Harmonic, r)
		} else {
			bucket.PitchBook = append(bucket.PitchBook, r)
		}
	}

	for _, r := range pb {
		add(r)
	}
	for _, r := range FilterNoise(harmonic) {
		add(r)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	buckets := make([]domain.MonthBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, *byKey[key])
	}
	return buckets
}

// FilterNoise removes Harmonic rounds whose reported amount is exactly
// zero. Rounds from other sources and rounds with a nil amount pass
// through untouched, in order.
func FilterNoise(rounds []domain.Round) []domain.Round {
	kept := make([]domain.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.Source == domain.SourceHarmonic && r.Amount != nil && r.Amount.IsZero() {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Summarize computes the per-source round count and total raised over a
// set of rounds, after the zero-amount noise filter. Rounds with no
// reported amount count toward RoundCount but not TotalRaised.
func Summarize(rounds []domain.Round) domain.Summary {
	summary := domain.Summary{TotalRaised: decimal.Zero}
	for _, r := range FilterNoise(rounds) {
		summary.RoundCount++
		if r.Amount != nil {
			summary.TotalRaised = summary.TotalRaised.Add(*r.Amount)
		}
	}
	return summary
}

// monthKey derives the bucket key: the YYYY-MM prefix of a normalized
// date, or UnknownKey when the date does not normalize.
func monthKey(date string) string {
	normalized := normalizer.Date(date)
	if len(normalized) == 10 {
		if _, ok := normalizer.ParseDate(normalized); ok {
			return normalized[:7]
		}
	}
	return UnknownKey
}

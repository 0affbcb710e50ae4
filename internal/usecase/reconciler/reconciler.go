// Package reconciler pairs funding rounds from the two providers that
// plausibly represent the same real-world event.
package reconciler

import (
	"sort"
	"time"

	"github.com/fundbench/fundbench-backend/internal/domain"
	"github.com/fundbench/fundbench-backend/internal/usecase/normalizer"
)

// MatchWindow is the maximum date distance between two rounds considered
// the same event.
const MatchWindow = 180 * 24 * time.Hour

// Match pairs PitchBook rounds against Harmonic rounds with a greedy
// nearest-date policy:
//
//  1. each PitchBook round, in source order, takes the nearest unconsumed
//     Harmonic round within the match window; ties go to the
//     first-encountered Harmonic round, with no backtracking
//  2. PitchBook rounds with no candidate are emitted unmatched
//  3. leftover Harmonic rounds are emitted unmatched
//  4. rows are sorted by effective date descending, unparseable and absent
//     dates last
//
// Greedy matching is intentional: an earlier PitchBook round may consume a
// Harmonic round that would have fit a later one better. Funding rounds
// rarely cluster inside the window, so the approximation holds up.
func Match(pb, harmonic []domain.Round) []domain.MatchedPair {
	consumed := make([]bool, len(harmonic))
	rows := make([]domain.MatchedPair, 0, len(pb)+len(harmonic))

	hTimes := make([]time.Time, len(harmonic))
	hOK := make([]bool, len(harmonic))
	for i := range harmonic {
		hTimes[i], hOK[i] = normalizer.ParseDate(harmonic[i].Date)
	}

	for i := range pb {
		p := &pb[i]
		best := -1
		var bestDiff time.Duration

		if pTime, ok := normalizer.ParseDate(p.Date); ok {
			for j := range harmonic {
				if consumed[j] || !hOK[j] {
					continue
				}
				diff := pTime.Sub(hTimes[j])
				if diff < 0 {
					diff = -diff
				}
				if diff >= MatchWindow {
					continue
				}
				if best < 0 || diff < bestDiff {
					best = j
					bestDiff = diff
				}
			}
		}

		if best >= 0 {
			consumed[best] = true
			rows = append(rows, newPair(p, &harmonic[best]))
		} else {
			rows = append(rows, newPair(p, nil))
		}
	}

	for j := range harmonic {
		if !consumed[j] {
			rows = append(rows, newPair(nil, &harmonic[j]))
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		ta, aok := normalizer.ParseDate(rows[a].EffectiveDate())
		tb, bok := normalizer.ParseDate(rows[b].EffectiveDate())
		if aok != bok {
			return aok // rows with unparseable dates sort last
		}
		if !aok {
			return false
		}
		return ta.After(tb)
	})

	return rows
}

// newPair constructs an immutable row with its per-cell comparison flags
func newPair(pb, h *domain.Round) domain.MatchedPair {
	pair := domain.MatchedPair{PitchBook: pb, Harmonic: h}
	if pb == nil || h == nil {
		return pair
	}

	pair.TypeFlag = compareText(pb.Type, h.Type)
	// amount equality follows the display formatting contract
	pair.AmountFlag = compareAmount(pb, h)
	return pair
}

func compareText(a, b string) domain.CellFlag {
	if a == "" || b == "" {
		return domain.FlagNeutral
	}
	if a == b {
		return domain.FlagMatch
	}
	return domain.FlagMismatch
}

func compareAmount(pb, h *domain.Round) domain.CellFlag {
	if pb.Amount == nil || h.Amount == nil {
		return domain.FlagNeutral
	}
	if normalizer.FormatAmount(pb.Amount) == normalizer.FormatAmount(h.Amount) {
		return domain.FlagMatch
	}
	return domain.FlagMismatch
}

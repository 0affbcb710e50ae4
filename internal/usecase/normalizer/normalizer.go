// Package normalizer converts raw provider values (dates, round type codes,
// monetary amounts) into the canonical shapes the rest of the pipeline
// compares.
package normalizer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundbench/fundbench-backend/internal/payload"
)

// dateLayouts are tried in order; plain dates first, then timestamped
// ISO-8601 variants, which are truncated to the date component.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// Date re-renders a parseable date as YYYY-MM-DD. Unparseable input,
// including the empty string, is returned unchanged.
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// ParseDate parses a normalized or raw date string. The second return is
// false when no layout matches.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RoundType makes a provider round type human-readable. Upper-case
// underscore-separated enumerations (SERIES_A, PRE_SEED) become
// space-separated title-case words; anything else passes through.
func RoundType(raw string) string {
	if raw == "" || !isEnumCode(raw) {
		return raw
	}
	words := strings.Split(raw, "_")
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func isEnumCode(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// dealTypeMap is the fixed PitchBook legacy code table
var dealTypeMap = map[string]string{
	"ACC": "Accelerator/Incubator",
	"ANG": "Angel",
	"BSO": "Business Spin-Off/Split-Off",
	"CFD": "Crowdfunding",
	"ELG": "Early Stage VC (Series A/B)",
	"GPC": "Growth/Private Equity",
	"ICO": "Initial Coin Offering",
	"IPO": "IPO",
	"LBO": "Leveraged Buyout",
	"LSG": "Late Stage VC (Series C+)",
	"MBO": "Management Buyout",
	"MRG": "Merger/Acquisition",
	"PIP": "PIPE",
	"REV": "Revenue Loan",
	"SCD": "Secondary Transaction",
	"SDD": "Seed Round",
	"SPB": "SPAC/Blank Check",
	"VTD": "Venture Debt",
	"VNT": "Venture (General)",
}

// DecodeDealType maps a legacy PitchBook deal code to its display label.
// Lookup is case-insensitive; unrecognized codes pass through unchanged.
func DecodeDealType(code string) string {
	if label, ok := dealTypeMap[strings.ToUpper(code)]; ok {
		return label
	}
	return code
}

// ExtractDealType resolves a single display type from a deal's detail and
// listing records. The fallback order is fixed and a later source never
// overrides an earlier non-empty hit:
//  1. dealType2 description (Series A/B etc.), detail first
//  2. dealType1 description (Grant etc.), listing first
//  3. dealClass description (Venture Capital etc.), detail first
//  4. legacy string dealType, run through the code table
//
// Returns empty only when all four sources miss.
func ExtractDealType(detail, listing *payload.PBDeal) string {
	if d := pickCode(field(detail, 2), field(listing, 2)); d != "" {
		return d
	}
	if d := pickCode(field(listing, 1), field(detail, 1)); d != "" {
		return d
	}
	if d := pickCode(class(detail), class(listing)); d != "" {
		return d
	}
	legacy := ""
	if detail != nil && detail.DealType != "" {
		legacy = detail.DealType.String()
	} else if listing != nil && listing.DealType != "" {
		legacy = listing.DealType.String()
	}
	if legacy != "" {
		return DecodeDealType(legacy)
	}
	return ""
}

func field(d *payload.PBDeal, n int) *payload.CodeDescription {
	if d == nil {
		return nil
	}
	if n == 2 {
		return d.DealType2
	}
	return d.DealType1
}

func class(d *payload.PBDeal) *payload.CodeDescription {
	if d == nil {
		return nil
	}
	return d.DealClass
}

func pickCode(first, second *payload.CodeDescription) string {
	if first != nil && first.Description != "" {
		return first.Description
	}
	if second != nil && second.Description != "" {
		return second.Description
	}
	return ""
}

// Formatting thresholds. These and the rounding below are contractual:
// mismatch highlighting compares the formatted strings byte-for-byte.
var (
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
	thousand = decimal.New(1, 3)
)

// FormatAmount renders a monetary amount for display. nil renders as an
// em-dash placeholder; known amounts scale to the largest applicable unit,
// one decimal place for billions/millions, none for thousands and units.
func FormatAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return "—"
	}
	switch {
	case amount.GreaterThanOrEqual(billion):
		return "$" + amount.DivRound(billion, 1).StringFixed(1) + "B"
	case amount.GreaterThanOrEqual(million):
		return "$" + amount.DivRound(million, 1).StringFixed(1) + "M"
	case amount.GreaterThanOrEqual(thousand):
		return "$" + amount.DivRound(thousand, 0).StringFixed(0) + "K"
	default:
		return "$" + amount.StringFixed(0)
	}
}

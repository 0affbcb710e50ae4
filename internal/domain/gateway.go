package domain

import (
	"context"

	"github.com/fundbench/fundbench-backend/internal/payload"
)

// ProviderGateway defines the interface for reaching the two upstream data
// providers through the proxy gateway. Implementations inject credentials;
// callers never see them.
type ProviderGateway interface {
	// PitchBookCompany fetches the company bio for a PitchBook identifier
	PitchBookCompany(ctx context.Context, pbID string, sandbox bool) (*payload.PBCompany, error)

	// PitchBookDeals fetches the deal summaries for a company
	PitchBookDeals(ctx context.Context, pbID string, sandbox bool) (*payload.PBDealList, error)

	// PitchBookDealDetail fetches the detailed record for one deal
	PitchBookDealDetail(ctx context.Context, dealID string, sandbox bool) (*payload.PBDeal, error)

	// PitchBookCredits fetches the current credits-usage snapshot
	PitchBookCredits(ctx context.Context, sandbox bool) (*payload.PBCredits, error)

	// SearchByDomain searches Harmonic for companies on a bare domain
	SearchByDomain(ctx context.Context, domain string) (*payload.HarmonicSearch, error)

	// HarmonicCompany fetches the full Harmonic company record by id
	HarmonicCompany(ctx context.Context, harmonicID string) (*payload.HarmonicCompany, error)
}

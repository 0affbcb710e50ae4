// Package lookup sequences the upstream calls for one company lookup,
// normalizes what comes back, and reports per-step progress.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fundbench/fundbench-backend/internal/domain"
	"github.com/fundbench/fundbench-backend/internal/payload"
	"github.com/fundbench/fundbench-backend/internal/usecase/normalizer"
)

// Input identifies one lookup
type Input struct {
	PitchBookID string
	Sandbox     bool
}

// Result is everything one lookup produced. Fields are populated as far as
// the lookup got; a failed step leaves later fields zero.
type Result struct {
	PitchBookID     string
	HarmonicID      string
	PitchBookMeta   *domain.CompanyMeta
	HarmonicMeta    *domain.CompanyMeta
	PitchBookRounds []domain.Round
	HarmonicRounds  []domain.Round
	CreditsUsed     *int64 // delta across the lookup, nil when unavailable
}

// Service runs lookups against the provider gateway
type Service struct {
	Gateway domain.ProviderGateway
	Log     *logrus.Logger
}

// NewService creates a new lookup Service instance
func NewService(gateway domain.ProviderGateway, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{Gateway: gateway, Log: log}
}

// Run executes one lookup. Steps report their transitions through sink
// before the next step starts; each step's failure handling is isolated:
//   - a failed per-deal detail fetch degrades that round to summary data
//   - a failed domain search marks only that step as errored
//   - anything else aborts the remainder and reports the Error step
//
// Run always returns the partial result accumulated so far. No retries.
func (s *Service) Run(ctx context.Context, input Input, sink domain.StatusSink) *Result {
	result := &Result{PitchBookID: input.PitchBookID}

	// 1. PitchBook company profile
	sink.Update(domain.StepPBCompany, domain.StepLoading, "")
	company, err := s.Gateway.PitchBookCompany(ctx, input.PitchBookID, input.Sandbox)
	if err != nil {
		s.fail(sink, err)
		return result
	}
	result.PitchBookMeta = pbMeta(company, input.PitchBookID)
	sink.Update(domain.StepPBCompany, domain.StepDone, "")

	creditsBefore := s.creditsSnapshot(ctx, input.Sandbox)

	// 2. PitchBook deals, enriched one at a time
	sink.Update(domain.StepPBDeals, domain.StepLoading, "")
	deals, err := s.Gateway.PitchBookDeals(ctx, input.PitchBookID, input.Sandbox)
	if err != nil {
		s.fail(sink, err)
		return result
	}
	result.PitchBookRounds = s.pbRounds(ctx, deals.Items, input.Sandbox)
	sink.Update(domain.StepPBDeals, domain.StepDone, fmt.Sprintf("%d rounds", len(result.PitchBookRounds)))

	// 3+4. Harmonic side, keyed off the PitchBook website
	if result.PitchBookMeta.Website != "" {
		s.harmonicSide(ctx, result, sink)
	}

	s.reportCredits(ctx, input.Sandbox, creditsBefore, result, sink)
	return result
}

// pbRounds builds one canonical round per deal summary. The per-deal detail
// fetch is sequential to stay inside upstream rate and credit limits; a
// failed detail call falls back to the summary alone rather than dropping
// the round or aborting the batch.
func (s *Service) pbRounds(ctx context.Context, items []payload.PBDeal, sandbox bool) []domain.Round {
	rounds := make([]domain.Round, 0, len(items))
	for i := range items {
		listing := &items[i]
		detail, err := s.Gateway.PitchBookDealDetail(ctx, listing.DealID, sandbox)
		if err != nil {
			s.Log.WithError(err).WithField("dealId", listing.DealID).
				Warn("deal detail fetch failed, using summary data")
			rounds = append(rounds, pbRound(nil, listing))
			continue
		}
		rounds = append(rounds, pbRound(detail, listing))
	}
	return rounds
}

// harmonicSide runs the domain search and, when it matches, the Harmonic
// company fetch. Failures here are isolated to their own step: everything
// already fetched stays on the result.
func (s *Service) harmonicSide(ctx context.Context, result *Result, sink domain.StatusSink) {
	sink.Update(domain.StepHarmonicSearch, domain.StepLoading, "")

	search, err := s.Gateway.SearchByDomain(ctx, BareDomain(result.PitchBookMeta.Website))
	if err != nil {
		s.Log.WithError(err).Error("harmonic domain search failed")
		sink.Update(domain.StepHarmonicSearch, domain.StepError, safeDetail(err))
		return
	}

	matches := search.Matches()
	if len(matches) == 0 {
		sink.Update(domain.StepHarmonicSearch, domain.StepDone, "no match")
		return
	}
	result.HarmonicID = matches[0].ResolveID()
	sink.Update(domain.StepHarmonicSearch, domain.StepDone, "")

	sink.Update(domain.StepHarmonicCompany, domain.StepLoading, "")
	company, err := s.Gateway.HarmonicCompany(ctx, result.HarmonicID)
	if err != nil {
		s.Log.WithError(err).Error("harmonic company fetch failed")
		sink.Update(domain.StepHarmonicCompany, domain.StepError, safeDetail(err))
		return
	}

	result.HarmonicMeta = &domain.CompanyMeta{
		Name:        company.Name,
		Website:     company.ResolveWebsite(),
		Description: company.Description,
		HQ:          company.ResolveHQ(),
		Founded:     company.ResolveFounded(),
	}
	result.HarmonicRounds = harmonicRounds(company)
	sink.Update(domain.StepHarmonicCompany, domain.StepDone, fmt.Sprintf("%d rounds", len(result.HarmonicRounds)))
}

// creditsSnapshot is best-effort instrumentation; failure is logged at
// debug and otherwise ignored.
func (s *Service) creditsSnapshot(ctx context.Context, sandbox bool) *payload.PBCredits {
	snapshot, err := s.Gateway.PitchBookCredits(ctx, sandbox)
	if err != nil {
		s.Log.WithError(err).Debug("credits snapshot unavailable")
		return nil
	}
	return snapshot
}

func (s *Service) reportCredits(ctx context.Context, sandbox bool, before *payload.PBCredits, result *Result, sink domain.StatusSink) {
	if before == nil {
		return
	}
	after := s.creditsSnapshot(ctx, sandbox)
	if after == nil {
		return
	}
	delta := after.CreditsUsed - before.CreditsUsed
	result.CreditsUsed = &delta
	sink.Update(domain.StepCredits, domain.StepDone, fmt.Sprintf("%d credits", delta))
}

func (s *Service) fail(sink domain.StatusSink, err error) {
	s.Log.WithError(err).Error("lookup aborted")
	sink.Update(domain.StepFatal, domain.StepError, safeDetail(err))
}

// safeDetail trims an error message down to something presentable in a
// status line
func safeDetail(err error) string {
	if err == nil {
		return "failed"
	}
	return err.Error()
}

// pbMeta extracts company metadata from the PitchBook bio, falling back to
// the entered identifier when the payload names nothing.
func pbMeta(company *payload.PBCompany, pbID string) *domain.CompanyMeta {
	name := company.ResolveName()
	if name == "" {
		name = pbID
	}
	return &domain.CompanyMeta{
		Name:        name,
		Website:     company.Website,
		Description: company.Description,
		HQ:          joinHQ(company.City, company.State, company.Country),
		Founded:     company.YearFounded.String(),
	}
}

func joinHQ(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// pbRound builds a canonical round from a deal's detail and listing
// records, either of which may be nil (never both).
func pbRound(detail, listing *payload.PBDeal) domain.Round {
	date := ""
	if detail != nil && detail.DealDate != "" {
		date = detail.DealDate
	} else if listing != nil {
		date = listing.DealDate
	}

	amount := detail.Size()
	if amount == nil {
		amount = listing.Size()
	}

	var investors []string
	if detail != nil {
		for _, inv := range detail.Investors {
			investors = append(investors, inv.InvestorName)
		}
	}

	return domain.Round{
		Date:      normalizer.Date(date),
		Type:      normalizer.ExtractDealType(detail, listing),
		Amount:    amount,
		Currency:  "USD",
		Investors: investors,
		Source:    domain.SourcePitchBook,
	}
}

// harmonicRounds builds canonical rounds from the company record's primary
// round list. When the list is empty but the funding summary reports a
// nonzero round count, one round is synthesized from the summary so the
// company does not show as unfunded.
func harmonicRounds(company *payload.HarmonicCompany) []domain.Round {
	raw := company.ResolveRounds()
	if len(raw) > 0 {
		rounds := make([]domain.Round, 0, len(raw))
		for i := range raw {
			r := &raw[i]
			investors := make([]string, 0, len(r.Investors))
			for j := range r.Investors {
				investors = append(investors, r.Investors[j].ResolveName())
			}
			rounds = append(rounds, domain.Round{
				Date:      normalizer.Date(r.ResolveDate()),
				Type:      normalizer.RoundType(r.ResolveType()),
				Amount:    r.ResolveAmount(),
				Currency:  r.ResolveCurrency(),
				Investors: investors,
				Source:    domain.SourceHarmonic,
			})
		}
		return rounds
	}

	summary := company.Funding
	if summary == nil || summary.NumFundingRounds <= 0 {
		return nil
	}
	investors := make([]string, 0, len(summary.Investors))
	for i := range summary.Investors {
		investors = append(investors, summary.Investors[i].ResolveName())
	}
	return []domain.Round{{
		Date:      normalizer.Date(summary.LastFundingAt),
		Type:      normalizer.RoundType(summary.LastFundingType),
		Amount:    summary.ResolveTotal(),
		Currency:  "USD",
		Investors: investors,
		Source:    domain.SourceHarmonic,
	}}
}

// BareDomain strips the protocol and any trailing slash from a website URL
func BareDomain(website string) string {
	d := strings.TrimPrefix(website, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimSuffix(d, "/")
}

package lookup

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fundbench/fundbench-backend/internal/domain"
	"github.com/fundbench/fundbench-backend/internal/payload"
)

// MockGateway is a mock implementation of ProviderGateway for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) PitchBookCompany(ctx context.Context, pbID string, sandbox bool) (*payload.PBCompany, error) {
	args := m.Called(ctx, pbID, sandbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.PBCompany), args.Error(1)
}

func (m *MockGateway) PitchBookDeals(ctx context.Context, pbID string, sandbox bool) (*payload.PBDealList, error) {
	args := m.Called(ctx, pbID, sandbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.PBDealList), args.Error(1)
}

func (m *MockGateway) PitchBookDealDetail(ctx context.Context, dealID string, sandbox bool) (*payload.PBDeal, error) {
	args := m.Called(ctx, dealID, sandbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.PBDeal), args.Error(1)
}

func (m *MockGateway) PitchBookCredits(ctx context.Context, sandbox bool) (*payload.PBCredits, error) {
	args := m.Called(ctx, sandbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.PBCredits), args.Error(1)
}

func (m *MockGateway) SearchByDomain(ctx context.Context, domain string) (*payload.HarmonicSearch, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.HarmonicSearch), args.Error(1)
}

func (m *MockGateway) HarmonicCompany(ctx context.Context, harmonicID string) (*payload.HarmonicCompany, error) {
	args := m.Called(ctx, harmonicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.HarmonicCompany), args.Error(1)
}

// recordingSink keeps every status transition in delivery order
type recordingSink struct {
	updates []domain.StepStatus
}

func (s *recordingSink) Update(step string, state domain.StepState, detail string) {
	s.updates = append(s.updates, domain.StepStatus{Step: step, State: state, Detail: detail})
}

func (s *recordingSink) last(step string) (domain.StepStatus, bool) {
	for i := len(s.updates) - 1; i >= 0; i-- {
		if s.updates[i].Step == step {
			return s.updates[i], true
		}
	}
	return domain.StepStatus{}, false
}

func quietService(gateway domain.ProviderGateway) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(gateway, log)
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestRun_ZeroDealsAndNoWebsite(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(&payload.PBCompany{Name: "Acme Corp"}, nil)
	gw.On("PitchBookCredits", mock.Anything, false).
		Return(nil, errors.New("credits unavailable"))
	gw.On("PitchBookDeals", mock.Anything, "pb-1", false).
		Return(&payload.PBDealList{}, nil)

	sink := &recordingSink{}
	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, sink)

	company, ok := sink.last(domain.StepPBCompany)
	require.True(t, ok)
	assert.Equal(t, domain.StepDone, company.State)

	deals, ok := sink.last(domain.StepPBDeals)
	require.True(t, ok)
	assert.Equal(t, domain.StepDone, deals.State)
	assert.Equal(t, "0 rounds", deals.Detail)

	_, searched := sink.last(domain.StepHarmonicSearch)
	assert.False(t, searched, "domain search must not run without a website")

	assert.Empty(t, result.PitchBookRounds)
	assert.Empty(t, result.HarmonicRounds)
	gw.AssertNotCalled(t, "SearchByDomain", mock.Anything, mock.Anything)
}

func TestRun_DealDetailFailureFallsBackToSummary(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(&payload.PBCompany{Name: "Acme Corp"}, nil)
	gw.On("PitchBookCredits", mock.Anything, false).
		Return(nil, errors.New("nope"))
	gw.On("PitchBookDeals", mock.Anything, "pb-1", false).
		Return(&payload.PBDealList{Items: []payload.PBDeal{
			{DealID: "d-1", DealDate: "2022-01-10", DealType: "SDD", DealSize: &payload.PBAmount{Amount: dec(1_000_000)}},
			{DealID: "d-2", DealDate: "2023-03-05", DealType: "ELG"},
		}}, nil)
	gw.On("PitchBookDealDetail", mock.Anything, "d-1", false).
		Return(&payload.PBDeal{
			DealID:    "d-1",
			DealDate:  "2022-01-12T00:00:00Z",
			DealType2: &payload.CodeDescription{Description: "Seed"},
			DealSize:  &payload.PBAmount{Amount: dec(1_200_000)},
			Investors: []payload.PBInvestor{{InvestorName: "First Capital"}, {InvestorName: "Second Fund"}},
		}, nil)
	gw.On("PitchBookDealDetail", mock.Anything, "d-2", false).
		Return(nil, errors.New("detail endpoint down"))

	sink := &recordingSink{}
	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, sink)

	require.Len(t, result.PitchBookRounds, 2, "one bad detail call must not drop the round")

	enriched := result.PitchBookRounds[0]
	assert.Equal(t, "2022-01-12", enriched.Date)
	assert.Equal(t, "Seed", enriched.Type)
	assert.Equal(t, []string{"First Capital", "Second Fund"}, enriched.Investors)
	require.NotNil(t, enriched.Amount)
	assert.True(t, enriched.Amount.Equal(decimal.NewFromInt(1_200_000)))

	degraded := result.PitchBookRounds[1]
	assert.Equal(t, "2023-03-05", degraded.Date)
	assert.Equal(t, "Early Stage VC (Series A/B)", degraded.Type)
	assert.Empty(t, degraded.Investors)
	assert.Nil(t, degraded.Amount)

	deals, _ := sink.last(domain.StepPBDeals)
	assert.Equal(t, "2 rounds", deals.Detail)
}

func TestRun_HarmonicSideResolvedByDomain(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(&payload.PBCompany{Name: "Acme Corp", Website: "https://acme.io/"}, nil)
	gw.On("PitchBookCredits", mock.Anything, false).
		Return(nil, errors.New("nope"))
	gw.On("PitchBookDeals", mock.Anything, "pb-1", false).
		Return(&payload.PBDealList{}, nil)
	gw.On("SearchByDomain", mock.Anything, "acme.io").
		Return(&payload.HarmonicSearch{Results: []payload.HarmonicSearchResult{{ID: "777"}}}, nil)
	gw.On("HarmonicCompany", mock.Anything, "777").
		Return(&payload.HarmonicCompany{
			Name:        "Acme",
			WebsiteURL:  "https://acme.io",
			Location:    &payload.HarmonicLocation{City: "Berlin", Country: "Germany"},
			FoundedDate: "2016-04-01",
			Rounds: []payload.HarmonicRound{{
				AnnouncementDate: "2021-06-01T00:00:00Z",
				FundingRoundType: "SERIES_A",
				FundingAmount:    dec(5_000_000),
				Investors:        []payload.HarmonicInvestor{{Name: "Index"}},
			}},
		}, nil)

	sink := &recordingSink{}
	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, sink)

	assert.Equal(t, "777", result.HarmonicID)
	require.NotNil(t, result.HarmonicMeta)
	assert.Equal(t, "Berlin, Germany", result.HarmonicMeta.HQ)
	assert.Equal(t, "2016", result.HarmonicMeta.Founded)

	require.Len(t, result.HarmonicRounds, 1)
	round := result.HarmonicRounds[0]
	assert.Equal(t, "2021-06-01", round.Date)
	assert.Equal(t, "Series A", round.Type)
	assert.Equal(t, []string{"Index"}, round.Investors)

	step, _ := sink.last(domain.StepHarmonicCompany)
	assert.Equal(t, domain.StepDone, step.State)
	assert.Equal(t, "1 rounds", step.Detail)
}

func TestRun_HarmonicRoundSynthesizedFromFundingSummary(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(&payload.PBCompany{Name: "Acme Corp", Website: "http://acme.io"}, nil)
	gw.On("PitchBookCredits", mock.Anything, false).
		Return(nil, errors.New("nope"))
	gw.On("PitchBookDeals", mock.Anything, "pb-1", false).
		Return(&payload.PBDealList{}, nil)
	gw.On("SearchByDomain", mock.Anything, "acme.io").
		Return(&payload.HarmonicSearch{Data: []payload.HarmonicSearchResult{{EntityID: "42"}}}, nil)
	gw.On("HarmonicCompany", mock.Anything, "42").
		Return(&payload.HarmonicCompany{
			Name: "Acme",
			Funding: &payload.HarmonicFundingSummary{
				NumFundingRounds: 3,
				LastFundingAt:    "2020-11-20",
				LastFundingType:  "SERIES_B",
				LastFundingTotal: dec(25_000_000),
				Investors:        []payload.HarmonicInvestor{{Name: "Sequoia"}},
			},
		}, nil)

	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, &recordingSink{})

	require.Len(t, result.HarmonicRounds, 1, "summary with nonzero round count synthesizes one round")
	round := result.HarmonicRounds[0]
	assert.Equal(t, "2020-11-20", round.Date)
	assert.Equal(t, "Series B", round.Type)
	require.NotNil(t, round.Amount)
	assert.True(t, round.Amount.Equal(decimal.NewFromInt(25_000_000)))
	assert.Equal(t, []string{"Sequoia"}, round.Investors)
}

func TestRun_SearchNoMatchSkipsHarmonicCompany(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(&payload.PBCompany{Name: "Acme Corp", Website: "acme.io"}, nil)
	gw.On("PitchBookCredits", mock.Anything, false).
		Return(nil, errors.New("nope"))
	gw.On("PitchBookDeals", mock.Anything, "pb-1", false).
		Return(&payload.PBDealList{}, nil)
	gw.On("SearchByDomain", mock.Anything, "acme.io").
		Return(&payload.HarmonicSearch{}, nil)

	sink := &recordingSink{}
	quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, sink)

	step, ok := sink.last(domain.StepHarmonicSearch)
	require.True(t, ok)
	assert.Equal(t, domain.StepDone, step.State, "zero results is not an error")
	assert.Equal(t, "no match", step.Detail)
	gw.AssertNotCalled(t, "HarmonicCompany", mock.Anything, mock.Anything)
}

func TestRun_SearchFailureIsolatedToItsStep(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(&payload.PBCompany{Name: "Acme Corp", Website: "acme.io"}, nil)
	gw.On("PitchBookCredits", mock.Anything, false).
		Return(nil, errors.New("nope"))
	gw.On("PitchBookDeals", mock.Anything, "pb-1", false).
		Return(&payload.PBDealList{Items: []payload.PBDeal{{DealID: "d-1", DealDate: "2022-01-10"}}}, nil)
	gw.On("PitchBookDealDetail", mock.Anything, "d-1", false).
		Return(&payload.PBDeal{DealID: "d-1", DealDate: "2022-01-10"}, nil)
	gw.On("SearchByDomain", mock.Anything, "acme.io").
		Return(nil, errors.New("search exploded"))

	sink := &recordingSink{}
	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, sink)

	step, _ := sink.last(domain.StepHarmonicSearch)
	assert.Equal(t, domain.StepError, step.State)

	// earlier steps remain visible and their data survives
	deals, _ := sink.last(domain.StepPBDeals)
	assert.Equal(t, domain.StepDone, deals.State)
	assert.Len(t, result.PitchBookRounds, 1)

	_, fatal := sink.last(domain.StepFatal)
	assert.False(t, fatal, "a step failure is not a fatal failure")
}

func TestRun_CreditsDeltaReported(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", true).
		Return(&payload.PBCompany{Name: "Acme Corp"}, nil)
	gw.On("PitchBookCredits", mock.Anything, true).
		Return(&payload.PBCredits{CreditsUsed: 100}, nil).Once()
	gw.On("PitchBookDeals", mock.Anything, "pb-1", true).
		Return(&payload.PBDealList{}, nil)
	gw.On("PitchBookCredits", mock.Anything, true).
		Return(&payload.PBCredits{CreditsUsed: 103}, nil).Once()

	sink := &recordingSink{}
	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1", Sandbox: true}, sink)

	require.NotNil(t, result.CreditsUsed)
	assert.Equal(t, int64(3), *result.CreditsUsed)

	step, ok := sink.last(domain.StepCredits)
	require.True(t, ok)
	assert.Equal(t, "3 credits", step.Detail)
}

func TestRun_CompanyFetchFailureIsFatal(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PitchBookCompany", mock.Anything, "pb-1", false).
		Return(nil, errors.New("upstream rejected"))

	sink := &recordingSink{}
	result := quietService(gw).Run(context.Background(), Input{PitchBookID: "pb-1"}, sink)

	step, ok := sink.last(domain.StepFatal)
	require.True(t, ok)
	assert.Equal(t, domain.StepError, step.State)
	assert.Nil(t, result.PitchBookMeta)
	gw.AssertNotCalled(t, "PitchBookDeals", mock.Anything, mock.Anything, mock.Anything)
}

func TestBareDomain(t *testing.T) {
	assert.Equal(t, "acme.io", BareDomain("https://acme.io/"))
	assert.Equal(t, "acme.io", BareDomain("http://acme.io"))
	assert.Equal(t, "acme.io", BareDomain("acme.io"))
}

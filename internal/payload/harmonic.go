package payload

import (
	"strings"

	"github.com/shopspring/decimal"
)

// HarmonicSearchResult is one entry from the domain search
type HarmonicSearchResult struct {
	ID       FlexString `json:"id"`
	EntityID FlexString `json:"entity_id"`
}

// ResolveID resolves the company identifier, preferring id over entity_id
func (r *HarmonicSearchResult) ResolveID() string {
	if r.ID != "" {
		return r.ID.String()
	}
	return r.EntityID.String()
}

// HarmonicSearch is the domain search response. Older responses carry the
// matches under data instead of results.
type HarmonicSearch struct {
	Results []HarmonicSearchResult `json:"results"`
	Data    []HarmonicSearchResult `json:"data"`
}

// Matches returns the result list regardless of which field carried it
func (s *HarmonicSearch) Matches() []HarmonicSearchResult {
	if len(s.Results) > 0 {
		return s.Results
	}
	return s.Data
}

// HarmonicWebsite is the structured website variant
type HarmonicWebsite struct {
	URL string `json:"url"`
}

// HarmonicLocation is the structured headquarters variant
type HarmonicLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// HarmonicInvestor is one investor entry; the name key differs by version
type HarmonicInvestor struct {
	InvestorName string `json:"investor_name"`
	Name         string `json:"name"`
}

// ResolveName resolves the investor display name
func (i *HarmonicInvestor) ResolveName() string {
	if i.InvestorName != "" {
		return i.InvestorName
	}
	return i.Name
}

// HarmonicMoney is the nested money_raised variant
type HarmonicMoney struct {
	Amount *decimal.Decimal `json:"amount"`
}

// HarmonicRound is one funding round from the primary rounds list
type HarmonicRound struct {
	AnnouncementDate string             `json:"announcement_date"`
	AnnouncedDate    string             `json:"announced_date"`
	Date             string             `json:"date"`
	FundingRoundType string             `json:"funding_round_type"`
	FundingType      string             `json:"funding_type"`
	Series           string             `json:"series"`
	FundingAmount    *decimal.Decimal   `json:"funding_amount"`
	MoneyRaised      *HarmonicMoney     `json:"money_raised"`
	Amount           *decimal.Decimal   `json:"amount"`
	FundingCurrency  string             `json:"funding_currency"`
	Investors        []HarmonicInvestor `json:"investors"`
}

// ResolveDate resolves the announcement date across shape versions
func (r *HarmonicRound) ResolveDate() string {
	if r.AnnouncementDate != "" {
		return r.AnnouncementDate
	}
	if r.AnnouncedDate != "" {
		return r.AnnouncedDate
	}
	return r.Date
}

// ResolveType resolves the round type label across shape versions
func (r *HarmonicRound) ResolveType() string {
	if r.FundingRoundType != "" {
		return r.FundingRoundType
	}
	if r.FundingType != "" {
		return r.FundingType
	}
	return r.Series
}

// ResolveAmount resolves the raised amount across shape versions
func (r *HarmonicRound) ResolveAmount() *decimal.Decimal {
	if r.FundingAmount != nil {
		return r.FundingAmount
	}
	if r.MoneyRaised != nil && r.MoneyRaised.Amount != nil {
		return r.MoneyRaised.Amount
	}
	return r.Amount
}

// ResolveCurrency resolves the currency, defaulting to USD
func (r *HarmonicRound) ResolveCurrency() string {
	if r.FundingCurrency != "" {
		return r.FundingCurrency
	}
	return "USD"
}

// HarmonicFundingSummary is the aggregate funding object used to synthesize
// a round when the primary list is empty
type HarmonicFundingSummary struct {
	NumFundingRounds int                `json:"num_funding_rounds"`
	LastFundingAt    string             `json:"last_funding_at"`
	LastFundingType  string             `json:"last_funding_type"`
	LastFundingTotal *decimal.Decimal   `json:"last_funding_total"`
	FundingTotal     *decimal.Decimal   `json:"funding_total"`
	Investors        []HarmonicInvestor `json:"investors"`
}

// ResolveTotal resolves the summary amount, preferring the last round's
// total over the lifetime total.
func (s *HarmonicFundingSummary) ResolveTotal() *decimal.Decimal {
	if s.LastFundingTotal != nil {
		return s.LastFundingTotal
	}
	return s.FundingTotal
}

// HarmonicFoundingDate is the structured founding date variant
type HarmonicFoundingDate struct {
	Date string `json:"date"`
}

// HarmonicCompany is the Harmonic company record
type HarmonicCompany struct {
	Name         string                  `json:"name"`
	Website      *HarmonicWebsite        `json:"website"`
	WebsiteURL   string                  `json:"website_url"`
	Domain       string                  `json:"domain"`
	Description  string                  `json:"description"`
	Location     *HarmonicLocation       `json:"location"`
	LocationStr  string                  `json:"location_str"`
	FoundingDate *HarmonicFoundingDate   `json:"founding_date"`
	FoundedDate  string                  `json:"founded_date"`
	YearFounded  FlexString              `json:"year_founded"`
	Rounds       []HarmonicRound         `json:"funding_rounds"`
	Fundings     []HarmonicRound         `json:"fundings"`
	Funding      *HarmonicFundingSummary `json:"funding"`
}

// ResolveWebsite resolves the website across shape versions
func (c *HarmonicCompany) ResolveWebsite() string {
	if c.Website != nil && c.Website.URL != "" {
		return c.Website.URL
	}
	if c.WebsiteURL != "" {
		return c.WebsiteURL
	}
	return c.Domain
}

// ResolveHQ resolves the headquarters string: the structured location parts
// joined with commas, skipping empties, falling back to the flat string.
func (c *HarmonicCompany) ResolveHQ() string {
	if c.Location != nil {
		parts := make([]string, 0, 3)
		for _, p := range []string{c.Location.City, c.Location.State, c.Location.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return c.LocationStr
}

// ResolveFounded resolves the founding year across shape versions
func (c *HarmonicCompany) ResolveFounded() string {
	if c.FoundingDate != nil && c.FoundingDate.Date != "" {
		return FoundedYear(c.FoundingDate.Date)
	}
	if c.FoundedDate != "" {
		return FoundedYear(c.FoundedDate)
	}
	return c.YearFounded.String()
}

// ResolveRounds returns the round list regardless of which field carried it
func (c *HarmonicCompany) ResolveRounds() []HarmonicRound {
	if len(c.Rounds) > 0 {
		return c.Rounds
	}
	return c.Fundings
}

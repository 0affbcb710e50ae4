// Package payload defines the upstream provider payload shapes.
//
// Both providers have shipped more than one shape for the same record, so
// each struct models the union of known versions and exposes resolver
// methods that apply a fixed fallback order across the variant fields.
package payload

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// FlexString decodes a JSON value that may arrive as a string or a number
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the decoded value
func (f FlexString) String() string { return string(f) }

// PBName decodes the PitchBook company name field, which is either a plain
// string or a structured object carrying a formalName.
type PBName struct {
	Plain      string
	FormalName string
}

// UnmarshalJSON implements json.Unmarshaler
func (n *PBName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &n.Plain)
	}
	var obj struct {
		FormalName string `json:"formalName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	n.FormalName = obj.FormalName
	return nil
}

// PBAmount decodes a PitchBook deal size, which is either a bare number or
// an object carrying an amount.
type PBAmount struct {
	Amount *decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (a *PBAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Amount *decimal.Decimal `json:"amount"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		a.Amount = obj.Amount
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	a.Amount = &d
	return nil
}

// PBCompany is the PitchBook company bio payload
type PBCompany struct {
	CompanyName PBName     `json:"companyName"`
	Name        string     `json:"name"`
	Website     string     `json:"website"`
	Description string     `json:"description"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Country     string     `json:"country"`
	YearFounded FlexString `json:"yearFounded"`
}

// ResolveName resolves the display name, preferring the structured formal
// name over the plain string over the generic name field. Returns empty if
// none is populated; callers fall back to the identifier.
func (c *PBCompany) ResolveName() string {
	if c.CompanyName.FormalName != "" {
		return c.CompanyName.FormalName
	}
	if c.CompanyName.Plain != "" {
		return c.CompanyName.Plain
	}
	return c.Name
}

// CodeDescription is PitchBook's classification pair
type CodeDescription struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// PBInvestor is one investor entry on a PitchBook deal
type PBInvestor struct {
	InvestorName string `json:"investorName"`
}

// PBDeal is a PitchBook deal record. The listing endpoint and the detailed
// endpoint return overlapping subsets of these fields.
type PBDeal struct {
	DealID    string           `json:"dealId"`
	DealDate  string           `json:"dealDate"`
	DealType  FlexString       `json:"dealType"` // legacy string code
	DealType1 *CodeDescription `json:"dealType1"`
	DealType2 *CodeDescription `json:"dealType2"`
	DealClass *CodeDescription `json:"dealClass"`
	DealSize  *PBAmount        `json:"dealSize"`
	Investors []PBInvestor     `json:"investors"`
}

// Size returns the deal size amount, nil when unreported
func (d *PBDeal) Size() *decimal.Decimal {
	if d == nil || d.DealSize == nil {
		return nil
	}
	return d.DealSize.Amount
}

// PBDealList decodes the deals listing, which is either an object wrapping
// an items array or a bare array.
type PBDealList struct {
	Items []PBDeal
}

// UnmarshalJSON implements json.Unmarshaler
func (l *PBDealList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Items)
	}
	var obj struct {
		Items []PBDeal `json:"items"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	l.Items = obj.Items
	return nil
}

// PBCredits is the PitchBook credits-history payload. CreditsUsed is the
// running total consumed on the account.
type PBCredits struct {
	CreditsUsed int64 `json:"creditsUsed"`
}

// FoundedYear renders a founding year value; long date strings are cut down
// to the year component.
func FoundedYear(raw string) string {
	if len(raw) > 4 {
		if y, err := strconv.Atoi(raw[:4]); err == nil {
			return strconv.Itoa(y)
		}
	}
	return raw
}

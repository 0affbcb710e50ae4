package domain

import "errors"

// CompanyMeta represents one provider's view of a company profile.
// All fields except Name are independently optional.
type CompanyMeta struct {
	Name        string
	Website     string
	Description string
	HQ          string
	Founded     string
}

// Validate ensures the company meta adheres to domain rules
// Returns an error if validation fails
func (m *CompanyMeta) Validate() error {
	if m.Name == "" {
		return errors.New("company name cannot be empty")
	}
	return nil
}

package tax

import "github.com/shopspring/decimal"

// Bracket is one progressive tax bracket. A non-positive Max means the
// bracket is open-ended.
type Bracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// Policy is the jurisdiction configuration applied to annualized income.
// Passed into the calculator explicitly so tests and per-jurisdiction
// deployments can swap it out.
type Policy struct {
	Brackets           []Bracket
	SocialSecurityRate decimal.Decimal
	SocialSecurityCap  decimal.Decimal
}

// DefaultPolicy returns the reference bracket table:
// 0% to 375,000; 9% to 750,000; 15% to 1,500,000; 18% above.
// Social security 5% capped at 50,000. Currency-unit agnostic.
func DefaultPolicy() Policy {
	return Policy{
		Brackets: []Bracket{
			{Min: decimal.Zero, Max: decimal.NewFromInt(375000), Rate: decimal.Zero},
			{Min: decimal.NewFromInt(375000), Max: decimal.NewFromInt(750000), Rate: decimal.NewFromFloat(0.09)},
			{Min: decimal.NewFromInt(750000), Max: decimal.NewFromInt(1500000), Rate: decimal.NewFromFloat(0.15)},
			{Min: decimal.NewFromInt(1500000), Max: decimal.Decimal{}, Rate: decimal.NewFromFloat(0.18)},
		},
		SocialSecurityRate: decimal.NewFromFloat(0.05),
		SocialSecurityCap:  decimal.NewFromInt(50000),
	}
}

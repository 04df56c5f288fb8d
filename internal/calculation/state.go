package calculation

import (
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// StateTax estimates state income tax on the federal taxable income base.
// A nil jurisdiction yields zero.
func StateTax(taxableIncome decimal.Decimal, status domain.FilingStatus, jurisdiction domain.StateJurisdiction) decimal.Decimal {
	base := decimal.Max(taxableIncome, decimal.Zero)
	switch j := jurisdiction.(type) {
	case domain.NoIncomeTax:
		return decimal.Zero
	case domain.FlatRateTax:
		return base.Mul(j.RatePercent).Div(hundred)
	case domain.ProgressiveTax:
		return TaxOnBrackets(base, j.Table(status))
	default:
		return decimal.Zero
	}
}

package calculation

import (
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	decimalOne = decimal.NewFromInt(1)

	// DefaultGrowthRate is the nominal annual return assumed when none is given
	DefaultGrowthRate = decimal.NewFromFloat(0.08)
)

// ProjectGrowth compounds principal at rate for the given number of years,
// adding contribution at the end of each year. The series has years+1
// points starting at period 0 with the principal. Negative years are
// treated as zero.
func ProjectGrowth(principal, contribution decimal.Decimal, years int, rate decimal.Decimal) domain.GrowthProjection {
	if years < 0 {
		years = 0
	}

	periods := make([]int, 0, years+1)
	balances := make([]decimal.Decimal, 0, years+1)

	growth := decimalOne.Add(rate)
	balance := principal
	periods = append(periods, 0)
	balances = append(balances, balance)
	for year := 1; year <= years; year++ {
		balance = balance.Mul(growth).Add(contribution)
		periods = append(periods, year)
		balances = append(balances, balance)
	}

	return domain.GrowthProjection{Periods: periods, Balances: balances}
}

package calculation

import (
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxOnBrackets applies a progressive schedule to amount.
//
// Precondition: amount >= 0. Callers clamp negative bases; a non-positive
// amount simply falls below every tier and yields zero.
func TaxOnBrackets(amount decimal.Decimal, brackets domain.BracketTable) decimal.Decimal {
	tax := decimal.Zero
	prevLimit := decimal.Zero
	for _, b := range brackets {
		if !amount.GreaterThan(prevLimit) {
			break
		}
		top := amount
		if b.Bounded() && b.UpTo.LessThan(amount) {
			top = *b.UpTo
		}
		tax = tax.Add(top.Sub(prevLimit).Mul(b.Rate))
		if !b.Bounded() {
			break
		}
		prevLimit = *b.UpTo
	}
	return tax
}

// MarginalRate returns the rate of the tier that amount falls into: the
// first bounded tier whose limit exceeds amount, otherwise the top rate.
func MarginalRate(amount decimal.Decimal, brackets domain.BracketTable) decimal.Decimal {
	for _, b := range brackets {
		if !b.Bounded() || amount.LessThan(*b.UpTo) {
			return b.Rate
		}
	}
	return brackets.TopRate()
}

// BracketHeadroom returns how much more income fits in the tier amount falls
// into before the next rate applies. It is zero in the unbounded top tier.
func BracketHeadroom(amount decimal.Decimal, brackets domain.BracketTable) decimal.Decimal {
	amount = decimal.Max(amount, decimal.Zero)
	for _, b := range brackets {
		if !b.Bounded() {
			return decimal.Zero
		}
		if amount.LessThan(*b.UpTo) {
			return b.UpTo.Sub(amount)
		}
	}
	return decimal.Zero
}

// StackedTax taxes income layered on top of a base that already occupies the
// bottom of the schedule. Used for long-term gains over taxable ordinary income.
func StackedTax(base, income decimal.Decimal, brackets domain.BracketTable) decimal.Decimal {
	stack := decimal.Max(base, decimal.Zero)
	remaining := decimal.Max(income, decimal.Zero)
	tax := decimal.Zero
	for _, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		portion := remaining
		if b.Bounded() {
			if !stack.LessThan(*b.UpTo) {
				continue
			}
			portion = decimal.Min(remaining, b.UpTo.Sub(stack))
		}
		tax = tax.Add(portion.Mul(b.Rate))
		stack = stack.Add(portion)
		remaining = remaining.Sub(portion)
	}
	return tax
}

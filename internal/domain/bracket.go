package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one tier of a progressive schedule. UpTo is the inclusive
// upper limit of the tier; a nil UpTo marks the unbounded top tier.
type TaxBracket struct {
	UpTo *decimal.Decimal `yaml:"up_to,omitempty" json:"upTo,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Bracket builds a bounded tier
func Bracket(upTo, rate float64) TaxBracket {
	limit := decimal.NewFromFloat(upTo)
	return TaxBracket{UpTo: &limit, Rate: decimal.NewFromFloat(rate)}
}

// TopBracket builds the unbounded final tier
func TopBracket(rate float64) TaxBracket {
	return TaxBracket{Rate: decimal.NewFromFloat(rate)}
}

// Bounded reports whether the tier has a finite upper limit
func (b TaxBracket) Bounded() bool {
	return b.UpTo != nil
}

// BracketTable is an ascending list of tiers partitioning [0, ∞)
type BracketTable []TaxBracket

// Validate checks that the limits are strictly increasing, that only the
// final tier is unbounded, and that rates are fractions in non-decreasing order.
func (t BracketTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidBracketTable)
	}
	one := decimal.NewFromInt(1)
	prevLimit := decimal.Zero
	prevRate := decimal.Zero
	for i, b := range t {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("%w: bracket %d rate %s outside [0,1]", ErrInvalidBracketTable, i, b.Rate)
		}
		if b.Rate.LessThan(prevRate) {
			return fmt.Errorf("%w: bracket %d rate %s lower than previous %s", ErrInvalidBracketTable, i, b.Rate, prevRate)
		}
		prevRate = b.Rate

		last := i == len(t)-1
		if !b.Bounded() {
			if !last {
				return fmt.Errorf("%w: bracket %d is unbounded but not last", ErrInvalidBracketTable, i)
			}
			continue
		}
		if last {
			return fmt.Errorf("%w: final bracket must be unbounded", ErrInvalidBracketTable)
		}
		if !b.UpTo.GreaterThan(prevLimit) {
			return fmt.Errorf("%w: bracket %d limit %s not above %s", ErrInvalidBracketTable, i, b.UpTo, prevLimit)
		}
		prevLimit = *b.UpTo
	}
	return nil
}

// TopRate returns the rate of the unbounded tier
func (t BracketTable) TopRate() decimal.Decimal {
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[len(t)-1].Rate
}

// FilingTables holds one bracket table per filing status
type FilingTables struct {
	Single       BracketTable `yaml:"single" json:"single"`
	MarriedJoint BracketTable `yaml:"married_joint" json:"marriedJoint"`
}

// For returns the table for the given status
func (ft FilingTables) For(status FilingStatus) BracketTable {
	if status == MarriedJoint {
		return ft.MarriedJoint
	}
	return ft.Single
}

// Validate checks both tables
func (ft FilingTables) Validate() error {
	if err := ft.Single.Validate(); err != nil {
		return fmt.Errorf("single: %w", err)
	}
	if err := ft.MarriedJoint.Validate(); err != nil {
		return fmt.Errorf("married_joint: %w", err)
	}
	return nil
}

// FilingAmounts holds a dollar threshold or allowance per filing status
type FilingAmounts struct {
	Single       decimal.Decimal `yaml:"single" json:"single"`
	MarriedJoint decimal.Decimal `yaml:"married_joint" json:"marriedJoint"`
}

// For returns the amount for the given status
func (fa FilingAmounts) For(status FilingStatus) decimal.Decimal {
	if status == MarriedJoint {
		return fa.MarriedJoint
	}
	return fa.Single
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxProfile is the engine input for one household and one tax year
type TaxProfile struct {
	OrdinaryIncome     decimal.Decimal `yaml:"ordinary_income" json:"ordinaryIncome"`
	CapitalGains       decimal.Decimal `yaml:"capital_gains" json:"capitalGains"` // long-term gains and qualified dividends
	FilingStatus       FilingStatus    `yaml:"filing_status" json:"filingStatus"`
	ItemizedDeductions decimal.Decimal `yaml:"itemized_deductions" json:"itemizedDeductions"`
	Credits            decimal.Decimal `yaml:"credits" json:"credits"`
	Age                int             `yaml:"age,omitempty" json:"age,omitempty"` // 0 = not supplied
}

// Validate rejects negative money fields. The engine clamps instead of
// rejecting, so this is applied at the input boundary only.
func (p TaxProfile) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"ordinary_income", p.OrdinaryIncome},
		{"capital_gains", p.CapitalGains},
		{"itemized_deductions", p.ItemizedDeductions},
		{"credits", p.Credits},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%s: %w", f.name, ErrNegativeAmount)
		}
	}
	if p.Age < 0 || p.Age > 120 {
		return fmt.Errorf("age must be between 0 and 120")
	}
	return nil
}

// ItemizedInputs are the itemizable amounts collected from the user
type ItemizedInputs struct {
	HSA        decimal.Decimal `yaml:"hsa" json:"hsa"`
	Charitable decimal.Decimal `yaml:"charitable" json:"charitable"`
	SALT       decimal.Decimal `yaml:"salt" json:"salt"`
}

// Validate rejects negative itemizable amounts
func (in ItemizedInputs) Validate() error {
	if in.HSA.IsNegative() {
		return fmt.Errorf("hsa: %w", ErrNegativeAmount)
	}
	if in.Charitable.IsNegative() {
		return fmt.Errorf("charitable: %w", ErrNegativeAmount)
	}
	if in.SALT.IsNegative() {
		return fmt.Errorf("salt: %w", ErrNegativeAmount)
	}
	return nil
}

// StrategyElections are the optimisations applied on top of a baseline
type StrategyElections struct {
	HarvestedLoss decimal.Decimal `yaml:"harvested_loss" json:"harvestedLoss"`
	Charitable    decimal.Decimal `yaml:"charitable" json:"charitable"`
	Deferral      decimal.Decimal `yaml:"deferral" json:"deferral"`
}

// IsZero reports whether no strategy is elected
func (s StrategyElections) IsZero() bool {
	return s.HarvestedLoss.IsZero() && s.Charitable.IsZero() && s.Deferral.IsZero()
}

// Validate rejects negative elections
func (s StrategyElections) Validate() error {
	if s.HarvestedLoss.IsNegative() {
		return fmt.Errorf("harvested_loss: %w", ErrNegativeAmount)
	}
	if s.Charitable.IsNegative() {
		return fmt.Errorf("charitable: %w", ErrNegativeAmount)
	}
	if s.Deferral.IsNegative() {
		return fmt.Errorf("deferral: %w", ErrNegativeAmount)
	}
	return nil
}

// ScheduleDInputs are raw trading results; any field may be negative
type ScheduleDInputs struct {
	ShortTermStock decimal.Decimal `yaml:"short_term_stock" json:"shortTermStock"`
	LongTermStock  decimal.Decimal `yaml:"long_term_stock" json:"longTermStock"`
	Section1256    decimal.Decimal `yaml:"section_1256" json:"section1256"`
}

// IsZero reports whether all trading inputs are zero
func (in ScheduleDInputs) IsZero() bool {
	return in.ShortTermStock.IsZero() && in.LongTermStock.IsZero() && in.Section1256.IsZero()
}

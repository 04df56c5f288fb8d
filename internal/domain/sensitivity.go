package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sweepable profile fields
const (
	ParamOrdinaryIncome = "ordinary_income"
	ParamCapitalGains   = "capital_gains"
	ParamItemized       = "itemized_deductions"
	ParamCredits        = "credits"
)

// MaxSensitivitySteps bounds the number of points in one sweep
const MaxSensitivitySteps = 101

// SensitivityParameter is one profile field swept from Min to Max
type SensitivityParameter struct {
	Name  string          `yaml:"name" json:"name"`
	Min   decimal.Decimal `yaml:"min" json:"min"`
	Max   decimal.Decimal `yaml:"max" json:"max"`
	Steps int             `yaml:"steps" json:"steps"`
}

// SensitivityParameterNames lists the fields a sweep can vary
func SensitivityParameterNames() []string {
	return []string{ParamOrdinaryIncome, ParamCapitalGains, ParamItemized, ParamCredits}
}

// Validate checks the name, range and step count
func (p SensitivityParameter) Validate() error {
	known := false
	for _, n := range SensitivityParameterNames() {
		if n == p.Name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown sensitivity parameter %q", p.Name)
	}
	if p.Min.IsNegative() || p.Max.IsNegative() {
		return fmt.Errorf("%s range: %w", p.Name, ErrNegativeAmount)
	}
	if !p.Max.GreaterThan(p.Min) {
		return fmt.Errorf("%s range: max %s must be above min %s", p.Name, p.Max, p.Min)
	}
	if p.Steps < 2 || p.Steps > MaxSensitivitySteps {
		return fmt.Errorf("steps must be between 2 and %d", MaxSensitivitySteps)
	}
	return nil
}

// Values returns Steps evenly spaced values from Min to Max inclusive
func (p SensitivityParameter) Values() []decimal.Decimal {
	if p.Steps < 2 {
		return []decimal.Decimal{p.Min}
	}
	step := p.Max.Sub(p.Min).Div(decimal.NewFromInt(int64(p.Steps - 1)))
	values := make([]decimal.Decimal, 0, p.Steps)
	for i := 0; i < p.Steps-1; i++ {
		values = append(values, p.Min.Add(step.Mul(decimal.NewFromInt(int64(i)))))
	}
	return append(values, p.Max)
}

// Apply returns profile with the parameter's field set to value
func (p SensitivityParameter) Apply(profile TaxProfile, value decimal.Decimal) TaxProfile {
	switch p.Name {
	case ParamOrdinaryIncome:
		profile.OrdinaryIncome = value
	case ParamCapitalGains:
		profile.CapitalGains = value
	case ParamItemized:
		profile.ItemizedDeductions = value
	case ParamCredits:
		profile.Credits = value
	}
	return profile
}

// SensitivityPoint is the liability at one swept value. MarginalRate is the
// liability change per dollar since the previous point; it is zero for the
// first point and negative for deductions and credits.
type SensitivityPoint struct {
	Value          decimal.Decimal `json:"value"`
	TotalLiability decimal.Decimal `json:"totalLiability"`
	EffectiveRate  decimal.Decimal `json:"effectiveRate"`
	BracketRate    decimal.Decimal `json:"bracketRate"`
	MarginalRate   decimal.Decimal `json:"marginalRate"`
}

// SensitivityAnalysis is a completed one-parameter sweep
type SensitivityAnalysis struct {
	Parameter       SensitivityParameter `json:"parameter"`
	Profile         TaxProfile           `json:"profile"`
	BaseLiability   decimal.Decimal      `json:"baseLiability"`
	Points          []SensitivityPoint   `json:"points"`
	PeakMarginal    decimal.Decimal      `json:"peakMarginal"`
	PeakFrom        decimal.Decimal      `json:"peakFrom"`
	PeakTo          decimal.Decimal      `json:"peakTo"`
	Recommendations []string             `json:"recommendations"`
}

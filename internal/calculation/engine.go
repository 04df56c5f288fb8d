package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine binds the pure calculators to one tax year's rules
type CalculationEngine struct {
	Rules  *domain.TaxYearRules
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine for the given rules
func NewCalculationEngine(rules *domain.TaxYearRules) *CalculationEngine {
	return &CalculationEngine{
		Rules:  rules,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine
func (ce *CalculationEngine) SetLogger(logger Logger) {
	if logger == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = logger
}

// Liability computes the federal liability for profile
func (ce *CalculationEngine) Liability(profile domain.TaxProfile) domain.LiabilityResult {
	res := ComputeLiability(profile, ce.Rules)
	ce.Logger.Debugf("liability %s: ordinary=%s ltcg=%s taxable=%s ordinary_tax=%s ltcg_tax=%s niit=%s medicare=%s total=%s",
		profile.FilingStatus, profile.OrdinaryIncome.StringFixed(2), profile.CapitalGains.StringFixed(2),
		res.TaxableOrdinaryIncome.StringFixed(2), res.OrdinaryTax.StringFixed(2), res.LTCGTax.StringFixed(2),
		res.NIIT.StringFixed(2), res.MedicareSurtax.StringFixed(2), res.TotalLiability.StringFixed(2))
	if profile.Credits.GreaterThan(res.GrossTax) {
		ce.Logger.Infof("credits %s exceed gross tax %s; excess is not refundable",
			profile.Credits.StringFixed(2), res.GrossTax.StringFixed(2))
	}
	return res
}

// StateTax estimates state tax for a resolved jurisdiction
func (ce *CalculationEngine) StateTax(taxable decimal.Decimal, status domain.FilingStatus, jurisdiction domain.StateJurisdiction) decimal.Decimal {
	return StateTax(taxable, status, jurisdiction)
}

// StateTaxByName resolves a jurisdiction key from the rules and estimates
// state tax. Unknown keys return zero together with ErrUnknownJurisdiction so
// callers can choose between the permissive result and reporting the error.
func (ce *CalculationEngine) StateTaxByName(taxable decimal.Decimal, status domain.FilingStatus, name string, customRatePercent decimal.Decimal) (decimal.Decimal, error) {
	jurisdiction, err := ce.Rules.Jurisdiction(name, customRatePercent)
	if err != nil {
		ce.Logger.Warnf("state tax for %q: %v", name, err)
		return decimal.Zero, fmt.Errorf("state tax: %w", err)
	}
	tax := StateTax(taxable, status, jurisdiction)
	ce.Logger.Debugf("state tax %s (%s): base=%s tax=%s", name, jurisdiction.Kind(), taxable.StringFixed(2), tax.StringFixed(2))
	return tax, nil
}

// StateEstimate is StateTaxByName with the jurisdiction label and the
// effective state rate on the taxable base.
func (ce *CalculationEngine) StateEstimate(taxable decimal.Decimal, status domain.FilingStatus, name string, customRatePercent decimal.Decimal) (domain.StateTaxResult, error) {
	tax, err := ce.StateTaxByName(taxable, status, name, customRatePercent)
	if err != nil {
		return domain.StateTaxResult{}, err
	}
	sr := ce.Rules.States[name]
	res := domain.StateTaxResult{
		State:         name,
		Label:         sr.Label,
		Kind:          sr.Type,
		TaxableIncome: decimal.Max(taxable, decimal.Zero),
		Tax:           tax,
		EffectiveRate: decimal.Zero,
	}
	if res.TaxableIncome.IsPositive() {
		res.EffectiveRate = tax.Div(res.TaxableIncome)
	}
	return res, nil
}

// ScheduleD nets trading results for the engine's year
func (ce *CalculationEngine) ScheduleD(in domain.ScheduleDInputs) domain.ScheduleDResult {
	res := NetScheduleD(in, ce.Rules)
	ce.Logger.Debugf("schedule d: short=%s long=%s final_short=%s final_long=%s loss=%s",
		res.TotalShortTerm.StringFixed(2), res.TotalLongTerm.StringFixed(2),
		res.FinalShortTerm.StringFixed(2), res.FinalLongTerm.StringFixed(2), res.DeductibleLoss.StringFixed(2))
	return res
}

// Itemized sums itemizable inputs under the engine's SALT cap
func (ce *CalculationEngine) Itemized(in domain.ItemizedInputs) decimal.Decimal {
	return ItemizedDeductions(in, ce.Rules)
}

// Project runs the growth projector. A nil rate uses DefaultGrowthRate.
func (ce *CalculationEngine) Project(principal, contribution decimal.Decimal, years int, rate *decimal.Decimal) domain.GrowthProjection {
	r := DefaultGrowthRate
	if rate != nil {
		r = *rate
	}
	if years < 0 {
		ce.Logger.Warnf("negative projection horizon %d treated as 0", years)
	}
	return ProjectGrowth(principal, contribution, years, r)
}

// ScenarioProfile builds the effective profile for a scenario: itemized
// inputs replace the profile's itemized deductions when larger, and
// trading results are folded in through Schedule D.
func (ce *CalculationEngine) ScenarioProfile(s domain.Scenario) (domain.TaxProfile, *domain.ScheduleDResult) {
	profile := s.Profile
	if s.Itemized != nil {
		profile.ItemizedDeductions = decimal.Max(profile.ItemizedDeductions, ce.Itemized(*s.Itemized))
	}
	if s.Trading == nil || s.Trading.IsZero() {
		return profile, nil
	}
	sd := ce.ScheduleD(*s.Trading)
	return sd.ApplyTo(profile), &sd
}

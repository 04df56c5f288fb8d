package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for planner inputs that cannot be projected
var ErrInvalidInput = errors.New("invalid planner input")

var (
	// DefaultWithdrawalTaxRate is the tax assumed on Traditional withdrawals
	DefaultWithdrawalTaxRate = decimal.NewFromFloat(0.20)

	// TraditionalThreshold is the marginal rate at or above which pre-tax
	// contributions are preferred
	TraditionalThreshold = decimal.NewFromFloat(0.22)
)

// AccountType identifies the preferred retirement account
type AccountType string

const (
	Traditional AccountType = "traditional"
	Roth        AccountType = "roth"
)

// Label returns the display name of the account type
func (a AccountType) Label() string {
	if a == Traditional {
		return "Traditional 401k/IRA"
	}
	return "Roth IRA/401k"
}

// Plan is the standard-mode planning result
type Plan struct {
	Input             domain.PlannerInput    `json:"input"`
	Years             int                    `json:"years"`
	HSADeduction      decimal.Decimal        `json:"hsaDeduction"`
	Liability         domain.LiabilityResult `json:"liability"`
	GrowthRate        decimal.Decimal        `json:"growthRate"`
	WithdrawalTaxRate decimal.Decimal        `json:"withdrawalTaxRate"`

	Traditional         domain.GrowthProjection `json:"traditional"`
	Roth                domain.GrowthProjection `json:"roth"`
	RothContribution    decimal.Decimal         `json:"rothContribution"` // budget after paying tax now
	TraditionalAfterTax decimal.Decimal         `json:"traditionalAfterTax"`
	RothAfterTax        decimal.Decimal         `json:"rothAfterTax"`

	Preferred       AccountType `json:"preferred"`
	Recommendations []string    `json:"recommendations"`
	Notes           []string    `json:"notes,omitempty"`
}

// Planner runs the Traditional vs Roth comparison on top of the engine
type Planner struct {
	calcEngine *calculation.CalculationEngine
}

// NewPlanner creates a new planner
func NewPlanner(calcEngine *calculation.CalculationEngine) *Planner {
	return &Planner{calcEngine: calcEngine}
}

// Validate checks the planner input
func Validate(in domain.PlannerInput) error {
	if in.CurrentAge <= 0 || in.CurrentAge > 120 {
		return fmt.Errorf("%w: current age %d must be between 1 and 120", ErrInvalidInput, in.CurrentAge)
	}
	if in.RetirementAge < in.CurrentAge {
		return fmt.Errorf("%w: retirement age %d is before current age %d", ErrInvalidInput, in.RetirementAge, in.CurrentAge)
	}
	if in.GrossIncome.IsNegative() {
		return fmt.Errorf("%w: gross income: %w", ErrInvalidInput, domain.ErrNegativeAmount)
	}
	if in.OtherCredit.IsNegative() {
		return fmt.Errorf("%w: other credit: %w", ErrInvalidInput, domain.ErrNegativeAmount)
	}
	if in.InvestmentBudget.IsNegative() {
		return fmt.Errorf("%w: investment budget: %w", ErrInvalidInput, domain.ErrNegativeAmount)
	}
	if in.GrowthRate != nil && in.GrowthRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("%w: growth rate must be greater than -100%%", ErrInvalidInput)
	}
	if in.WithdrawalTaxRate != nil && (in.WithdrawalTaxRate.IsNegative() || in.WithdrawalTaxRate.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("%w: withdrawal tax rate must be between 0 and 1", ErrInvalidInput)
	}
	return nil
}

// Plan computes the current-year liability with the HSA deduction and
// projects Traditional and Roth balances to retirement.
func (p *Planner) Plan(ctx context.Context, in domain.PlannerInput) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	rules := p.calcEngine.Rules
	growth := calculation.DefaultGrowthRate
	if in.GrowthRate != nil {
		growth = *in.GrowthRate
	}
	withdrawal := DefaultWithdrawalTaxRate
	if in.WithdrawalTaxRate != nil {
		withdrawal = *in.WithdrawalTaxRate
	}

	hsa := decimal.Zero
	if in.HSAEligible {
		hsa = rules.HSALimitFor(in.FilingStatus)
	}

	liability := p.calcEngine.Liability(domain.TaxProfile{
		OrdinaryIncome:     in.GrossIncome,
		FilingStatus:       in.FilingStatus,
		ItemizedDeductions: hsa,
		Credits:            in.OtherCredit,
		Age:                in.CurrentAge,
	})

	years := in.RetirementAge - in.CurrentAge
	marginal := liability.MarginalRate

	traditional := calculation.ProjectGrowth(decimal.Zero, in.InvestmentBudget, years, growth)
	rothContribution := in.InvestmentBudget.Sub(in.InvestmentBudget.Mul(marginal))
	roth := calculation.ProjectGrowth(decimal.Zero, rothContribution, years, growth)

	plan := &Plan{
		Input:               in,
		Years:               years,
		HSADeduction:        hsa,
		Liability:           liability,
		GrowthRate:          growth,
		WithdrawalTaxRate:   withdrawal,
		Traditional:         traditional,
		Roth:                roth,
		RothContribution:    rothContribution,
		TraditionalAfterTax: traditional.Final().Mul(decimal.NewFromInt(1).Sub(withdrawal)),
		RothAfterTax:        roth.Final(),
		Preferred:           Roth,
	}
	if marginal.GreaterThanOrEqual(TraditionalThreshold) {
		plan.Preferred = Traditional
	}

	plan.Recommendations = recommendations(plan)
	if in.OtherCredit.IsPositive() && !calculation.EVCreditIncomeEligible(in.GrossIncome, in.FilingStatus, rules) {
		plan.Notes = append(plan.Notes, fmt.Sprintf(
			"Income exceeds the $%s EV credit income cap; the credit is applied as entered",
			rules.EVCreditIncomeCap.For(in.FilingStatus).StringFixed(0)))
	}

	p.calcEngine.Logger.Debugf("plan: years=%d marginal=%s traditional=%s roth=%s preferred=%s",
		years, marginal.String(), plan.TraditionalAfterTax.StringFixed(2), plan.RothAfterTax.StringFixed(2), plan.Preferred)

	return plan, nil
}

func recommendations(plan *Plan) []string {
	recs := make([]string, 0, 3)
	if plan.Input.HSAEligible {
		recs = append(recs, fmt.Sprintf("HSA: Maximize your HSA contribution of $%s.", plan.HSADeduction.StringFixed(0)))
	} else {
		recs = append(recs, "HSA: Not applicable.")
	}
	recs = append(recs, fmt.Sprintf("Retirement Account: Based on your %s%% bracket, prioritize %s.",
		plan.Liability.MarginalRate.Mul(decimal.NewFromInt(100)).StringFixed(0), plan.Preferred.Label()))
	if plan.Years > 0 && plan.Input.InvestmentBudget.IsPositive() {
		recs = append(recs, fmt.Sprintf("After %d years: Traditional $%s after %s%% withdrawal tax vs Roth $%s.",
			plan.Years, plan.TraditionalAfterTax.StringFixed(0),
			plan.WithdrawalTaxRate.Mul(decimal.NewFromInt(100)).StringFixed(0), plan.RothAfterTax.StringFixed(0)))
	}
	return recs
}

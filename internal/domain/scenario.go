package domain

import (
	"github.com/shopspring/decimal"
)

// Scenario is one household's complete set of inputs as read from a
// scenario file. Optional sections are nil when absent.
type Scenario struct {
	Name            string            `yaml:"name" json:"name"`
	TaxYear         int               `yaml:"tax_year" json:"taxYear"`
	State           string            `yaml:"state" json:"state"`
	CustomStateRate decimal.Decimal   `yaml:"custom_state_rate" json:"customStateRate"` // percent, used when state is flat_input
	Profile         TaxProfile        `yaml:"profile" json:"profile"`
	Itemized        *ItemizedInputs   `yaml:"itemized,omitempty" json:"itemized,omitempty"`
	Trading         *ScheduleDInputs  `yaml:"trading,omitempty" json:"trading,omitempty"`
	Strategies      StrategyElections `yaml:"strategies" json:"strategies"`
	Planner         *PlannerSettings  `yaml:"planner,omitempty" json:"planner,omitempty"`
}

// PlannerSettings is the scenario-file section driving the retirement planner
type PlannerSettings struct {
	RetirementAge     int              `yaml:"retirement_age" json:"retirementAge"`
	HSAEligible       bool             `yaml:"hsa_eligible" json:"hsaEligible"`
	InvestmentBudget  decimal.Decimal  `yaml:"investment_budget" json:"investmentBudget"`
	GrowthRate        *decimal.Decimal `yaml:"growth_rate,omitempty" json:"growthRate,omitempty"`
	WithdrawalTaxRate *decimal.Decimal `yaml:"withdrawal_tax_rate,omitempty" json:"withdrawalTaxRate,omitempty"`
}

// PlannerInput is everything the Traditional-vs-Roth planner needs
type PlannerInput struct {
	FilingStatus      FilingStatus     `json:"filingStatus"`
	CurrentAge        int              `json:"currentAge"`
	RetirementAge     int              `json:"retirementAge"`
	GrossIncome       decimal.Decimal  `json:"grossIncome"`
	HSAEligible       bool             `json:"hsaEligible"`
	OtherCredit       decimal.Decimal  `json:"otherCredit"`
	InvestmentBudget  decimal.Decimal  `json:"investmentBudget"`
	GrowthRate        *decimal.Decimal `json:"growthRate,omitempty"`        // nil = default
	WithdrawalTaxRate *decimal.Decimal `json:"withdrawalTaxRate,omitempty"` // nil = default
}

// PlannerInput derives the planner input from the scenario profile and
// planner section. It returns false when the scenario has no planner section.
func (s Scenario) PlannerInput() (PlannerInput, bool) {
	if s.Planner == nil {
		return PlannerInput{}, false
	}
	return PlannerInput{
		FilingStatus:      s.Profile.FilingStatus,
		CurrentAge:        s.Profile.Age,
		RetirementAge:     s.Planner.RetirementAge,
		GrossIncome:       s.Profile.OrdinaryIncome,
		HSAEligible:       s.Planner.HSAEligible,
		OtherCredit:       s.Profile.Credits,
		InvestmentBudget:  s.Planner.InvestmentBudget,
		GrowthRate:        s.Planner.GrowthRate,
		WithdrawalTaxRate: s.Planner.WithdrawalTaxRate,
	}, true
}

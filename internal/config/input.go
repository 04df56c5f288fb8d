package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario files
type InputParser struct {
	Registry *RulesRegistry
}

// NewInputParser creates a new input parser. The registry is used to check
// the tax year and state; it may be nil to skip those checks.
func NewInputParser(registry *RulesRegistry) *InputParser {
	return &InputParser{Registry: registry}
}

// LoadFromFile loads a scenario from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario document
func (ip *InputParser) Parse(data []byte) (*domain.Scenario, error) {
	var scenario domain.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if scenario.TaxYear == 0 {
		scenario.TaxYear = DefaultTaxYear
	}
	if scenario.State == "" {
		scenario.State = "texas"
	}
	if err := ip.ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &scenario, nil
}

// ValidateScenario validates a loaded scenario
func (ip *InputParser) ValidateScenario(s *domain.Scenario) error {
	if err := s.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if err := s.Strategies.Validate(); err != nil {
		return fmt.Errorf("strategies: %w", err)
	}
	if s.Itemized != nil {
		if err := s.Itemized.Validate(); err != nil {
			return fmt.Errorf("itemized: %w", err)
		}
	}
	if s.CustomStateRate.IsNegative() || s.CustomStateRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("custom_state_rate must be between 0 and 100")
	}
	if s.Planner != nil {
		if err := validatePlanner(s.Profile, s.Planner); err != nil {
			return fmt.Errorf("planner: %w", err)
		}
	}

	if ip.Registry == nil {
		return nil
	}
	rules, err := ip.Registry.Rules(s.TaxYear)
	if err != nil {
		return err
	}
	if _, err := rules.Jurisdiction(s.State, s.CustomStateRate); err != nil {
		return err
	}
	return nil
}

func validatePlanner(profile domain.TaxProfile, p *domain.PlannerSettings) error {
	if p.RetirementAge <= 0 {
		return fmt.Errorf("retirement_age is required")
	}
	if profile.Age == 0 {
		return fmt.Errorf("profile age is required when planner section is present")
	}
	if p.RetirementAge < profile.Age {
		return fmt.Errorf("retirement_age %d is before current age %d", p.RetirementAge, profile.Age)
	}
	if p.InvestmentBudget.IsNegative() {
		return fmt.Errorf("investment_budget: %w", domain.ErrNegativeAmount)
	}
	if p.GrowthRate != nil && p.GrowthRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("growth_rate must be greater than -100%%")
	}
	if p.WithdrawalTaxRate != nil && (p.WithdrawalTaxRate.IsNegative() || p.WithdrawalTaxRate.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("withdrawal_tax_rate must be between 0 and 1")
	}
	return nil
}

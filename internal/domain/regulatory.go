package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RegulatoryConfig is the on-disk form of the published tax constants,
// keyed by tax year so new years can be added without touching the engine.
type RegulatoryConfig struct {
	Metadata RegulatoryMetadata   `yaml:"metadata" json:"metadata"`
	TaxYears map[int]TaxYearRules `yaml:"tax_years" json:"taxYears"`
}

// RegulatoryMetadata contains information about the regulatory data
type RegulatoryMetadata struct {
	LastUpdated string `yaml:"last_updated" json:"lastUpdated"`
	Description string `yaml:"description" json:"description"`
}

// TaxYearRules contains every year-specific constant the engine reads.
// Values are read-only once loaded.
type TaxYearRules struct {
	Year int `yaml:"year" json:"year"`

	OrdinaryBrackets FilingTables `yaml:"ordinary_brackets" json:"ordinaryBrackets"`
	LTCGBrackets     FilingTables `yaml:"ltcg_brackets" json:"ltcgBrackets"`

	StandardDeduction         FilingAmounts `yaml:"standard_deduction" json:"standardDeduction"`
	SeniorAdditionalDeduction FilingAmounts `yaml:"senior_additional_deduction" json:"seniorAdditionalDeduction"`
	SeniorAge                 int           `yaml:"senior_age" json:"seniorAge"`

	NIIT               SurtaxRule `yaml:"niit" json:"niit"`
	AdditionalMedicare SurtaxRule `yaml:"additional_medicare" json:"additionalMedicare"`

	HSALimit              HSALimits       `yaml:"hsa_limit" json:"hsaLimit"`
	EVCreditIncomeCap     FilingAmounts   `yaml:"ev_credit_income_cap" json:"evCreditIncomeCap"`
	SALTCap               decimal.Decimal `yaml:"salt_cap" json:"saltCap"`
	ElectiveDeferralLimit decimal.Decimal `yaml:"elective_deferral_limit" json:"electiveDeferralLimit"`

	CapitalLossDeductionCap  decimal.Decimal `yaml:"capital_loss_deduction_cap" json:"capitalLossDeductionCap"`
	Section1256LongTermShare decimal.Decimal `yaml:"section_1256_long_term_share" json:"section1256LongTermShare"`

	States map[string]StateRules `yaml:"states" json:"states"`
}

// SurtaxRule is a flat-rate surtax on the excess over a per-status threshold
type SurtaxRule struct {
	Rate       decimal.Decimal `yaml:"rate" json:"rate"`
	Thresholds FilingAmounts   `yaml:"thresholds" json:"thresholds"`
}

// HSALimits contains the annual HSA contribution limits by coverage type
type HSALimits struct {
	SelfOnly decimal.Decimal `yaml:"self_only" json:"selfOnly"`
	Family   decimal.Decimal `yaml:"family" json:"family"`
}

// StateRules is the on-disk description of one state jurisdiction
type StateRules struct {
	Label          string           `yaml:"label" json:"label"`
	Type           JurisdictionKind `yaml:"type" json:"type"`
	BracketsSingle BracketTable     `yaml:"brackets_single,omitempty" json:"bracketsSingle,omitempty"`
	BracketsJoint  BracketTable     `yaml:"brackets_joint,omitempty" json:"bracketsJoint,omitempty"`
}

// Jurisdiction converts the stored rules into the typed variant.
// customRatePercent only applies to flat_input states.
func (sr StateRules) Jurisdiction(customRatePercent decimal.Decimal) (StateJurisdiction, error) {
	switch sr.Type {
	case KindNone:
		return NoIncomeTax{}, nil
	case KindFlat:
		return FlatRateTax{RatePercent: customRatePercent}, nil
	case KindProgressive:
		return ProgressiveTax{Single: sr.BracketsSingle, MarriedJoint: sr.BracketsJoint}, nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownJurisdiction, sr.Type)
	}
}

// Jurisdiction resolves a state key (e.g. "california") to its tax regime
func (r *TaxYearRules) Jurisdiction(state string, customRatePercent decimal.Decimal) (StateJurisdiction, error) {
	sr, ok := r.States[state]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, state)
	}
	return sr.Jurisdiction(customRatePercent)
}

// StateKeys returns the configured state keys in sorted order
func (r *TaxYearRules) StateKeys() []string {
	keys := make([]string, 0, len(r.States))
	for k := range r.States {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HSALimitFor returns the self-only limit for single filers and the family
// limit for joint filers.
func (r *TaxYearRules) HSALimitFor(status FilingStatus) decimal.Decimal {
	if status == MarriedJoint {
		return r.HSALimit.Family
	}
	return r.HSALimit.SelfOnly
}

// Validate checks every table and the state definitions
func (r *TaxYearRules) Validate() error {
	if r.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	if err := r.OrdinaryBrackets.Validate(); err != nil {
		return fmt.Errorf("ordinary_brackets: %w", err)
	}
	if err := r.LTCGBrackets.Validate(); err != nil {
		return fmt.Errorf("ltcg_brackets: %w", err)
	}
	if err := requirePositive("standard_deduction", r.StandardDeduction); err != nil {
		return err
	}
	if !r.CapitalLossDeductionCap.IsPositive() {
		return fmt.Errorf("capital_loss_deduction_cap: %w", ErrMissingRule)
	}
	if !r.Section1256LongTermShare.IsPositive() || r.Section1256LongTermShare.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("section_1256_long_term_share must be in (0, 1]: %w", ErrMissingRule)
	}
	if err := r.NIIT.validate("niit"); err != nil {
		return err
	}
	if err := r.AdditionalMedicare.validate("additional_medicare"); err != nil {
		return err
	}
	for _, name := range r.StateKeys() {
		sr := r.States[name]
		switch sr.Type {
		case KindNone, KindFlat:
		case KindProgressive:
			if err := sr.BracketsSingle.Validate(); err != nil {
				return fmt.Errorf("state %s brackets_single: %w", name, err)
			}
			if err := sr.BracketsJoint.Validate(); err != nil {
				return fmt.Errorf("state %s brackets_joint: %w", name, err)
			}
		default:
			return fmt.Errorf("state %s: %w: type %q", name, ErrUnknownJurisdiction, sr.Type)
		}
	}
	return nil
}

func (s SurtaxRule) validate(name string) error {
	if !s.Rate.IsPositive() {
		return fmt.Errorf("%s rate: %w", name, ErrMissingRule)
	}
	return requirePositive(name+" thresholds", s.Thresholds)
}

func requirePositive(name string, fa FilingAmounts) error {
	if !fa.Single.IsPositive() || !fa.MarriedJoint.IsPositive() {
		return fmt.Errorf("%s: %w", name, ErrMissingRule)
	}
	return nil
}

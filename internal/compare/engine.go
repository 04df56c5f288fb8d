package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// CompareEngine orchestrates baseline vs optimized comparison
type CompareEngine struct {
	CalcEngine *calculation.CalculationEngine
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{CalcEngine: calcEngine}
}

// OptimizeProfile applies strategy elections to a baseline profile.
// Harvested losses offset long-term gains first; what remains offsets
// ordinary income up to the capital loss cap. Charitable and deferral
// amounts are added to itemized deductions.
func OptimizeProfile(profile domain.TaxProfile, elections domain.StrategyElections, rules *domain.TaxYearRules) (domain.TaxProfile, Adjustments) {
	ltcg := decimal.Max(profile.CapitalGains, decimal.Zero)
	harvested := decimal.Max(elections.HarvestedLoss, decimal.Zero)

	appliedLTCG := decimal.Min(ltcg, harvested)
	remaining := harvested.Sub(appliedLTCG)
	ordinaryOffset := decimal.Min(rules.CapitalLossDeductionCap, remaining)
	appliedOrdinary := ordinaryOffset.Add(elections.Charitable).Add(elections.Deferral)

	optimized := profile
	optimized.CapitalGains = decimal.Max(decimal.Zero, ltcg.Sub(appliedLTCG))
	optimized.ItemizedDeductions = profile.ItemizedDeductions.Add(appliedOrdinary)

	return optimized, Adjustments{
		AppliedLTCGDeduction:     appliedLTCG,
		RemainingLoss:            remaining,
		HarvestedOrdinaryOffset:  ordinaryOffset,
		UnusedLoss:               remaining.Sub(ordinaryOffset),
		AppliedOrdinaryDeduction: appliedOrdinary,
	}
}

// Compare runs the liability engine on the baseline and optimized profiles
func (ce *CompareEngine) Compare(
	ctx context.Context,
	profile domain.TaxProfile,
	elections domain.StrategyElections,
) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := elections.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy elections: %w", err)
	}

	rules := ce.CalcEngine.Rules
	optimizedProfile, adj := OptimizeProfile(profile, elections, rules)

	baseline := ce.CalcEngine.Liability(profile)
	optimized := ce.CalcEngine.Liability(optimizedProfile)

	compSet := &ComparisonSet{
		TaxYear:          rules.Year,
		BaselineProfile:  profile,
		OptimizedProfile: optimizedProfile,
		Elections:        elections,
		Adjustments:      adj,
		Baseline:         baseline,
		Optimized:        optimized,
		Savings:          baseline.TotalLiability.Sub(optimized.TotalLiability),
	}
	compSet.Waterfall = BuildWaterfall(baseline, optimized)
	compSet.Ledger = BuildLedger(profile, baseline, optimizedProfile, optimized, adj)
	compSet.Recommendations = GenerateRecommendations(compSet, rules)

	if compSet.Savings.IsNegative() {
		ce.CalcEngine.Logger.Warnf("strategies increase liability by %s", compSet.Savings.Abs().StringFixed(2))
	}
	ce.CalcEngine.Logger.Infof("comparison: baseline=%s optimized=%s savings=%s",
		baseline.TotalLiability.StringFixed(2), optimized.TotalLiability.StringFixed(2), compSet.Savings.StringFixed(2))

	return compSet, nil
}

// CompareScenario compares a full scenario, folding itemized inputs and
// trading results into the baseline profile first.
func (ce *CompareEngine) CompareScenario(ctx context.Context, scenario domain.Scenario) (*ComparisonSet, error) {
	profile, _ := ce.CalcEngine.ScenarioProfile(scenario)
	compSet, err := ce.Compare(ctx, profile, scenario.Strategies)
	if err != nil {
		return nil, fmt.Errorf("failed to compare scenario %s: %w", scenario.Name, err)
	}
	compSet.ScenarioName = scenario.Name
	return compSet, nil
}

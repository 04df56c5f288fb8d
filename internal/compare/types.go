package compare

import (
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// Adjustments records how the strategy elections were applied
type Adjustments struct {
	AppliedLTCGDeduction     decimal.Decimal `json:"appliedLtcgDeduction"`
	RemainingLoss            decimal.Decimal `json:"remainingLoss"`
	HarvestedOrdinaryOffset  decimal.Decimal `json:"harvestedOrdinaryOffset"` // remaining loss used against ordinary income
	UnusedLoss               decimal.Decimal `json:"unusedLoss"`              // harvested loss beyond the yearly cap
	AppliedOrdinaryDeduction decimal.Decimal `json:"appliedOrdinaryDeduction"`
}

// Waterfall step kinds
const (
	StepTotal = "total"
	StepDelta = "delta"
)

// WaterfallStep is one bar of the savings waterfall
type WaterfallStep struct {
	Label  string          `json:"label"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// LedgerRow is one line of the baseline vs optimized breakdown
type LedgerRow struct {
	Item      string          `json:"item"`
	Baseline  decimal.Decimal `json:"baseline"`
	Optimized decimal.Decimal `json:"optimized"`
	Savings   decimal.Decimal `json:"savings"`
}

// ComparisonSet is the baseline vs strategy-optimized comparison
type ComparisonSet struct {
	ScenarioName string `json:"scenarioName,omitempty"`
	TaxYear      int    `json:"taxYear"`

	BaselineProfile  domain.TaxProfile        `json:"baselineProfile"`
	OptimizedProfile domain.TaxProfile        `json:"optimizedProfile"`
	Elections        domain.StrategyElections `json:"elections"`
	Adjustments      Adjustments              `json:"adjustments"`

	Baseline  domain.LiabilityResult `json:"baseline"`
	Optimized domain.LiabilityResult `json:"optimized"`

	// Savings may be negative when strategies raise surtaxes
	Savings decimal.Decimal `json:"savings"`

	Waterfall       []WaterfallStep `json:"waterfall"`
	Ledger          []LedgerRow     `json:"ledger"`
	Recommendations []string        `json:"recommendations"`
}

// SavingsPercent returns savings as a percentage of the baseline liability
func (cs *ComparisonSet) SavingsPercent() decimal.Decimal {
	if !cs.Baseline.TotalLiability.IsPositive() {
		return decimal.Zero
	}
	return cs.Savings.Div(cs.Baseline.TotalLiability).Mul(decimal.NewFromInt(100))
}

// BuildWaterfall walks from the baseline bill to the optimized bill.
// A credit step is added when the non-refundable credit floor makes the
// tax deltas disagree with the final bill.
func BuildWaterfall(baseline, optimized domain.LiabilityResult) []WaterfallStep {
	incomeDelta := optimized.IncomeTaxTotal().Sub(baseline.IncomeTaxTotal())
	surtaxDelta := optimized.SurtaxTotal().Sub(baseline.SurtaxTotal())

	steps := []WaterfallStep{
		{Label: "Baseline Tax", Kind: StepTotal, Amount: baseline.TotalLiability},
		{Label: "Income Tax Change", Kind: StepDelta, Amount: incomeDelta},
		{Label: "Surtax Change", Kind: StepDelta, Amount: surtaxDelta},
	}

	residual := optimized.TotalLiability.Sub(baseline.TotalLiability.Add(incomeDelta).Add(surtaxDelta))
	if !residual.IsZero() {
		steps = append(steps, WaterfallStep{Label: "Credit Limit", Kind: StepDelta, Amount: residual})
	}

	return append(steps, WaterfallStep{Label: "Final Bill", Kind: StepTotal, Amount: optimized.TotalLiability})
}

// BuildLedger produces the line-by-line breakdown. Optimized ordinary
// income is shown net of the applied ordinary deduction.
func BuildLedger(baseProfile domain.TaxProfile, baseline domain.LiabilityResult, optProfile domain.TaxProfile, optimized domain.LiabilityResult, adj Adjustments) []LedgerRow {
	row := func(item string, b, o decimal.Decimal) LedgerRow {
		return LedgerRow{Item: item, Baseline: b, Optimized: o, Savings: b.Sub(o)}
	}
	return []LedgerRow{
		row("Ordinary Income", baseProfile.OrdinaryIncome, optProfile.OrdinaryIncome.Sub(adj.AppliedOrdinaryDeduction)),
		row("LTCG Income", baseProfile.CapitalGains, optProfile.CapitalGains),
		row("Taxable Ordinary", baseline.TaxableOrdinaryIncome, optimized.TaxableOrdinaryIncome),
		row("Ordinary Tax", baseline.OrdinaryTax, optimized.OrdinaryTax),
		row("LTCG Tax", baseline.LTCGTax, optimized.LTCGTax),
		row("NIIT", baseline.NIIT, optimized.NIIT),
		row("Medicare Surtax", baseline.MedicareSurtax, optimized.MedicareSurtax),
		row("Total Liability", baseline.TotalLiability, optimized.TotalLiability),
	}
}

// GenerateRecommendations creates notes based on the comparison
func GenerateRecommendations(cs *ComparisonSet, rules *domain.TaxYearRules) []string {
	recommendations := []string{}

	switch {
	case cs.Savings.IsPositive():
		recommendations = append(recommendations,
			fmt.Sprintf("Strategies save $%s (%s%% of baseline liability)", cs.Savings.StringFixed(0), cs.SavingsPercent().StringFixed(1)))
	case cs.Savings.IsNegative():
		recommendations = append(recommendations,
			fmt.Sprintf("Strategies increase liability by $%s", cs.Savings.Abs().StringFixed(0)))
	}

	if cs.Adjustments.UnusedLoss.IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("$%s of harvested loss exceeds gains plus the $%s deduction cap and is not used this year",
				cs.Adjustments.UnusedLoss.StringFixed(0), rules.CapitalLossDeductionCap.StringFixed(0)))
	}

	if room := DeferralRoom(cs.Elections, rules); room.IsPositive() && cs.Baseline.MarginalRate.GreaterThanOrEqual(decimal.NewFromFloat(0.22)) {
		recommendations = append(recommendations,
			fmt.Sprintf("Up to $%s more can be deferred at a %s%% marginal rate", room.StringFixed(0),
				cs.Baseline.MarginalRate.Mul(decimal.NewFromInt(100)).StringFixed(0)))
	}

	if cs.Optimized.SurtaxTotal().IsPositive() {
		recommendations = append(recommendations,
			fmt.Sprintf("Surtaxes of $%s remain after strategies", cs.Optimized.SurtaxTotal().StringFixed(0)))
	}

	return recommendations
}

// MaxDeferral returns the elective deferral limit for the year
func MaxDeferral(rules *domain.TaxYearRules) decimal.Decimal {
	return rules.ElectiveDeferralLimit
}

// DeferralRoom returns how much more could be deferred under the limit
func DeferralRoom(elections domain.StrategyElections, rules *domain.TaxYearRules) decimal.Decimal {
	return decimal.Max(decimal.Zero, MaxDeferral(rules).Sub(elections.Deferral))
}

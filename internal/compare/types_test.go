package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func newTestEngine(t *testing.T) *CompareEngine {
	t.Helper()
	reg, err := config.DefaultRegistry()
	require.NoError(t, err)
	rules, err := reg.Rules(2025)
	require.NoError(t, err)
	return NewCompareEngine(calculation.NewCalculationEngine(rules))
}

func sampleProfile() domain.TaxProfile {
	return domain.TaxProfile{
		OrdinaryIncome: d(150000),
		CapitalGains:   d(20000),
		FilingStatus:   domain.Single,
	}
}

func TestOptimizeProfile(t *testing.T) {
	ce := newTestEngine(t)
	rules := ce.CalcEngine.Rules

	tests := []struct {
		name            string
		ltcg            decimal.Decimal
		elections       domain.StrategyElections
		appliedLTCG     decimal.Decimal
		appliedOrdinary decimal.Decimal
		optimizedLTCG   decimal.Decimal
		unused          decimal.Decimal
	}{
		{
			name:            "loss smaller than gains",
			ltcg:            d(20000),
			elections:       domain.StrategyElections{HarvestedLoss: d(5000)},
			appliedLTCG:     d(5000),
			appliedOrdinary: d(0),
			optimizedLTCG:   d(15000),
			unused:          d(0),
		},
		{
			name:            "loss spills to ordinary",
			ltcg:            d(20000),
			elections:       domain.StrategyElections{HarvestedLoss: d(25000), Charitable: d(5000), Deferral: d(10000)},
			appliedLTCG:     d(20000),
			appliedOrdinary: d(18000),
			optimizedLTCG:   d(0),
			unused:          d(2000),
		},
		{
			name:            "no gains",
			ltcg:            d(0),
			elections:       domain.StrategyElections{HarvestedLoss: d(1000), Deferral: d(23500)},
			appliedLTCG:     d(0),
			appliedOrdinary: d(24500),
			optimizedLTCG:   d(0),
			unused:          d(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := sampleProfile()
			profile.CapitalGains = tt.ltcg
			profile.ItemizedDeductions = d(1000)

			opt, adj := OptimizeProfile(profile, tt.elections, rules)
			assert.True(t, adj.AppliedLTCGDeduction.Equal(tt.appliedLTCG), "applied ltcg %s", adj.AppliedLTCGDeduction)
			assert.True(t, adj.AppliedOrdinaryDeduction.Equal(tt.appliedOrdinary), "applied ordinary %s", adj.AppliedOrdinaryDeduction)
			assert.True(t, adj.UnusedLoss.Equal(tt.unused), "unused %s", adj.UnusedLoss)
			assert.True(t, opt.CapitalGains.Equal(tt.optimizedLTCG), "optimized ltcg %s", opt.CapitalGains)
			assert.True(t, opt.ItemizedDeductions.Equal(d(1000).Add(tt.appliedOrdinary)))
			assert.True(t, opt.OrdinaryIncome.Equal(profile.OrdinaryIncome), "ordinary income unchanged")
			assert.True(t, opt.Credits.Equal(profile.Credits), "credits unchanged")
		})
	}
}

func TestCompare_ZeroStrategies(t *testing.T) {
	ce := newTestEngine(t)
	profiles := []domain.TaxProfile{
		sampleProfile(),
		{OrdinaryIncome: d(500000), CapitalGains: d(100000), FilingStatus: domain.MarriedJoint},
		{FilingStatus: domain.Single},
	}

	for _, p := range profiles {
		compSet, err := ce.Compare(context.Background(), p, domain.StrategyElections{})
		require.NoError(t, err)
		assert.True(t, compSet.Savings.IsZero(), "savings %s", compSet.Savings)
		assert.True(t, compSet.Baseline.TotalLiability.Equal(compSet.Optimized.TotalLiability))
		assert.True(t, compSet.Baseline.TaxableOrdinaryIncome.Equal(compSet.Optimized.TaxableOrdinaryIncome))
		assert.True(t, compSet.Baseline.NIIT.Equal(compSet.Optimized.NIIT))
	}
}

func TestCompare_Savings(t *testing.T) {
	ce := newTestEngine(t)
	compSet, err := ce.Compare(context.Background(), sampleProfile(), domain.StrategyElections{
		HarvestedLoss: d(25000),
		Charitable:    d(5000),
		Deferral:      d(10000),
	})
	require.NoError(t, err)

	assert.True(t, compSet.Baseline.TotalLiability.Equal(d(28247)), "baseline %s", compSet.Baseline.TotalLiability)
	assert.True(t, compSet.Optimized.TotalLiability.Equal(d(24527)), "optimized %s", compSet.Optimized.TotalLiability)
	assert.True(t, compSet.Savings.Equal(d(3720)), "savings %s", compSet.Savings)
	assert.True(t, compSet.Savings.Equal(compSet.Baseline.TotalLiability.Sub(compSet.Optimized.TotalLiability)))
	assert.Equal(t, 2025, compSet.TaxYear)

	require.Len(t, compSet.Waterfall, 4)
	assert.Equal(t, "Baseline Tax", compSet.Waterfall[0].Label)
	assert.True(t, compSet.Waterfall[1].Amount.Equal(d(-3720)))
	assert.True(t, compSet.Waterfall[2].Amount.IsZero())
	assert.True(t, compSet.Waterfall[3].Amount.Equal(d(24527)))

	require.Len(t, compSet.Ledger, 8)
	assert.Equal(t, "Ordinary Income", compSet.Ledger[0].Item)
	assert.True(t, compSet.Ledger[0].Optimized.Equal(d(132000)), "ordinary net of deductions %s", compSet.Ledger[0].Optimized)
	assert.Equal(t, "Total Liability", compSet.Ledger[7].Item)
	assert.True(t, compSet.Ledger[7].Savings.Equal(d(3720)))

	assert.NotEmpty(t, compSet.Recommendations)
	assert.Contains(t, compSet.Recommendations[0], "Strategies save $3720")
}

func TestCompare_NegativeElectionRejected(t *testing.T) {
	ce := newTestEngine(t)
	_, err := ce.Compare(context.Background(), sampleProfile(), domain.StrategyElections{Charitable: d(-1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
}

func TestCompare_CancelledContext(t *testing.T) {
	ce := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	compSet, err := ce.Compare(ctx, sampleProfile(), domain.StrategyElections{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, compSet)
}

func TestCompareScenario(t *testing.T) {
	ce := newTestEngine(t)
	compSet, err := ce.CompareScenario(context.Background(), domain.Scenario{
		Name:       "trader",
		Profile:    sampleProfile(),
		Trading:    &domain.ScheduleDInputs{ShortTermStock: d(-5000), Section1256: d(10000)},
		Strategies: domain.StrategyElections{Charitable: d(2000)},
	})
	require.NoError(t, err)
	assert.Equal(t, "trader", compSet.ScenarioName)
	assert.True(t, compSet.BaselineProfile.CapitalGains.Equal(d(25000)), "trading gains folded in")
}

func TestBuildWaterfall_CreditFloor(t *testing.T) {
	baseline := domain.LiabilityResult{OrdinaryTax: d(3000), GrossTax: d(3000), TotalLiability: d(1000)}
	optimized := domain.LiabilityResult{OrdinaryTax: d(1500), GrossTax: d(1500), TotalLiability: d(0)}

	steps := BuildWaterfall(baseline, optimized)
	require.Len(t, steps, 5)
	assert.Equal(t, "Credit Limit", steps[3].Label)
	assert.True(t, steps[3].Amount.Equal(d(500)))

	total := steps[0].Amount
	for _, s := range steps[1:4] {
		total = total.Add(s.Amount)
	}
	assert.True(t, total.Equal(steps[4].Amount))
}

func TestDeferralRoom(t *testing.T) {
	ce := newTestEngine(t)
	rules := ce.CalcEngine.Rules

	assert.True(t, MaxDeferral(rules).Equal(d(23500)))
	assert.True(t, DeferralRoom(domain.StrategyElections{Deferral: d(3500)}, rules).Equal(d(20000)))
	assert.True(t, DeferralRoom(domain.StrategyElections{Deferral: d(30000)}, rules).IsZero())
}

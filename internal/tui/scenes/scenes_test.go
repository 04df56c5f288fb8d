package scenes

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStandardModel_Defaults(t *testing.T) {
	m := NewStandardModel(domain.PlannerInput{})
	in := m.Input()

	assert.Equal(t, domain.Single, in.FilingStatus)
	assert.Equal(t, 40, in.CurrentAge)
	assert.Equal(t, 65, in.RetirementAge)
	assert.True(t, in.GrossIncome.Equal(decimal.NewFromInt(120000)))
	assert.True(t, in.InvestmentBudget.Equal(decimal.NewFromInt(10000)))
	assert.True(t, in.HSAEligible)
	require.NotNil(t, in.GrowthRate)
	assert.True(t, in.GrowthRate.Equal(decimal.NewFromFloat(0.08)))
}

func TestStandardModel_SeededInput(t *testing.T) {
	growth := decimal.NewFromFloat(0.05)
	m := NewStandardModel(domain.PlannerInput{
		FilingStatus:     domain.MarriedJoint,
		CurrentAge:       50,
		RetirementAge:    60,
		GrossIncome:      decimal.NewFromInt(200000),
		InvestmentBudget: decimal.NewFromInt(20000),
		GrowthRate:       &growth,
	})
	in := m.Input()

	assert.Equal(t, domain.MarriedJoint, in.FilingStatus)
	assert.Equal(t, 50, in.CurrentAge)
	assert.Equal(t, 60, in.RetirementAge)
	assert.False(t, in.HSAEligible, "seeded input keeps its HSA flag")
	assert.True(t, in.GrowthRate.Equal(growth))
}

func TestStandardModel_Keys(t *testing.T) {
	m := NewStandardModel(domain.PlannerInput{})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.PlanRequestedMsg)
	require.True(t, ok)
	assert.True(t, msg.Input.GrossIncome.Equal(decimal.NewFromInt(125000)))

	m, cmd = m.Update(runes("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, domain.MarriedJoint, m.Input().FilingStatus)

	m, _ = m.Update(runes("e"))
	assert.False(t, m.Input().HSAEligible)

	// moving focus does not recalculate
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd)
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.NotNil(t, cmd)
	assert.Equal(t, 39, m.Input().CurrentAge)

	_, cmd = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
}

func TestStandardModel_RetirementNeverBeforeAge(t *testing.T) {
	m := NewStandardModel(domain.PlannerInput{CurrentAge: 70, RetirementAge: 70})
	m.form.sliders[stdRetirementAge].SetValue(50)

	in := m.Input()
	assert.Equal(t, 70, in.RetirementAge)
}

func TestStandardModel_View(t *testing.T) {
	m := NewStandardModel(domain.PlannerInput{})
	assert.Contains(t, m.View(), "Calculating...")

	m.SetPlan(tuimsg.PlanCompleteMsg{Err: errors.New("boom")})
	assert.Contains(t, m.View(), "boom")

	plan := &planner.Plan{
		Years:               25,
		Liability:           domain.LiabilityResult{TotalLiability: decimal.NewFromInt(18047), MarginalRate: decimal.NewFromFloat(0.24)},
		WithdrawalTaxRate:   decimal.NewFromFloat(0.2),
		Traditional:         domain.GrowthProjection{Periods: []int{0, 1}, Balances: []decimal.Decimal{decimal.Zero, decimal.NewFromInt(1000)}},
		Roth:                domain.GrowthProjection{Periods: []int{0, 1}, Balances: []decimal.Decimal{decimal.Zero, decimal.NewFromInt(760)}},
		TraditionalAfterTax: decimal.NewFromInt(800),
		RothAfterTax:        decimal.NewFromInt(760),
		Preferred:           planner.Traditional,
		Recommendations:     []string{"Max the HSA"},
	}
	m.SetPlan(tuimsg.PlanCompleteMsg{Plan: plan})
	assert.Same(t, plan, m.Plan())

	out := m.View()
	assert.Contains(t, out, "$18,047")
	assert.Contains(t, out, "25 Year Horizon")
	assert.Contains(t, out, "Traditional 401k/IRA")
	assert.Contains(t, out, "Max the HSA")
}

func TestStandardModel_DropsSupersededPlan(t *testing.T) {
	m := NewStandardModel(domain.PlannerInput{})
	first := m.Request()().(tuimsg.PlanRequestedMsg)
	second := m.Request()().(tuimsg.PlanRequestedMsg)
	assert.Equal(t, first.Seq+1, second.Seq)

	latest := &planner.Plan{Years: 25}
	m.SetPlan(tuimsg.PlanCompleteMsg{Seq: second.Seq, Plan: latest})
	m.SetPlan(tuimsg.PlanCompleteMsg{Seq: first.Seq, Err: errors.New("stale failure")})
	assert.Same(t, latest, m.Plan())
	assert.NoError(t, m.err)
}

func sampleScenario() domain.Scenario {
	return domain.Scenario{
		State: "new_york",
		Profile: domain.TaxProfile{
			OrdinaryIncome: decimal.NewFromInt(150000),
			CapitalGains:   decimal.NewFromInt(20000),
			FilingStatus:   domain.Single,
		},
		Strategies: domain.StrategyElections{
			HarvestedLoss: decimal.NewFromInt(25000),
			Charitable:    decimal.NewFromInt(5000),
			Deferral:      decimal.NewFromInt(10000),
		},
	}
}

var testStates = []string{"california", "new_york", "other", "texas"}

func TestAdvancedModel_Request(t *testing.T) {
	m := NewAdvancedModel(sampleScenario(), testStates, decimal.NewFromInt(23500))
	req := m.Request()

	assert.Equal(t, "new_york", req.State)
	assert.True(t, req.Profile.OrdinaryIncome.Equal(decimal.NewFromInt(150000)))
	assert.True(t, req.Profile.CapitalGains.Equal(decimal.NewFromInt(20000)))
	assert.True(t, req.Elections.HarvestedLoss.Equal(decimal.NewFromInt(25000)))
	assert.True(t, req.Elections.Charitable.Equal(decimal.NewFromInt(5000)))
	assert.True(t, req.Elections.Deferral.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 0.0, req.CustomStateRate)
}

func TestAdvancedModel_DeferralCapped(t *testing.T) {
	s := sampleScenario()
	s.Strategies.Deferral = decimal.NewFromInt(50000)
	m := NewAdvancedModel(s, testStates, decimal.NewFromInt(23500))
	assert.True(t, m.Request().Elections.Deferral.Equal(decimal.NewFromInt(23500)))
}

func TestAdvancedModel_StateCycling(t *testing.T) {
	m := NewAdvancedModel(sampleScenario(), testStates, decimal.NewFromInt(23500))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	req, ok := cmd().(tuimsg.CompareRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, "other", req.State)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "california", m.State())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "texas", m.State(), "wraps around")

	empty := NewAdvancedModel(sampleScenario(), nil, decimal.NewFromInt(23500))
	_, cmd = empty.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd)
	assert.Equal(t, "", empty.State())
}

func TestAdvancedModel_StatusAndSliders(t *testing.T) {
	m := NewAdvancedModel(sampleScenario(), testStates, decimal.NewFromInt(23500))

	m, cmd := m.Update(runes("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, domain.MarriedJoint, m.Request().Profile.FilingStatus)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, m.Request().Profile.OrdinaryIncome.Equal(decimal.NewFromInt(155000)))

	// the first slider cannot move focus further up
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Nil(t, cmd)
}

func TestAdvancedModel_View(t *testing.T) {
	m := NewAdvancedModel(sampleScenario(), testStates, decimal.NewFromInt(23500))
	assert.Contains(t, m.View(), "Calculating...")

	m.SetResult(tuimsg.CompareCompleteMsg{Err: errors.New("bad input")})
	assert.Contains(t, m.View(), "bad input")
	assert.Nil(t, m.Result())

	cs := &compare.ComparisonSet{
		Baseline:  domain.LiabilityResult{TotalLiability: decimal.NewFromInt(28247)},
		Optimized: domain.LiabilityResult{TotalLiability: decimal.NewFromInt(24527)},
		Savings:   decimal.NewFromInt(3720),
		Ledger: []compare.LedgerRow{
			{Item: "Total Liability", Baseline: decimal.NewFromInt(28247), Optimized: decimal.NewFromInt(24527), Savings: decimal.NewFromInt(3720)},
		},
		Waterfall: []compare.WaterfallStep{
			{Label: "Baseline Tax", Kind: compare.StepTotal, Amount: decimal.NewFromInt(28247)},
			{Label: "Final Bill", Kind: compare.StepTotal, Amount: decimal.NewFromInt(24527)},
		},
		Recommendations: []string{"Strategies save $3720"},
	}
	m.SetResult(tuimsg.CompareCompleteMsg{
		Result:         cs,
		BaselineState:  domain.StateTaxResult{State: "new_york", Label: "New York (High)", Tax: decimal.NewFromInt(8000)},
		OptimizedState: domain.StateTaxResult{State: "new_york", Label: "New York (High)", Tax: decimal.NewFromInt(7000)},
	})
	require.Same(t, cs, m.Result())

	out := m.View()
	assert.Contains(t, out, "$28,247")
	assert.Contains(t, out, "$3,720")
	assert.Contains(t, out, "Final Bill")
	assert.Contains(t, out, "New York (High)")
	assert.Contains(t, out, "Strategies save $3720")
}

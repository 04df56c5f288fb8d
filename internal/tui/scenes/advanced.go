package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/tui/components"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// slider positions in the advanced form
const (
	advOrdinary = iota
	advLTCG
	advItemized
	advCredits
	advHarvest
	advCharitable
	advDeferral
	advStateRate
)

var (
	nextStateKey = key.NewBinding(key.WithKeys("tab", "s"), key.WithHelp("tab", "next state"))
	prevStateKey = key.NewBinding(key.WithKeys("shift+tab", "S"), key.WithHelp("shift+tab", "previous state"))
)

// AdvancedModel compares a baseline against harvesting, charitable and
// deferral strategies, with a state estimate on both.
type AdvancedModel struct {
	status   domain.FilingStatus
	age      int
	states   []string
	stateIdx int
	form     sliderForm

	seq            uint64
	result         *compare.ComparisonSet
	baselineState  domain.StateTaxResult
	optimizedState domain.StateTaxResult
	err            error

	width  int
	height int
}

// NewAdvancedModel seeds the form from a scenario whose profile already
// carries its itemized and trading sections. states is the list of
// selectable jurisdiction keys; maxDeferral bounds the deferral slider.
func NewAdvancedModel(seed domain.Scenario, states []string, maxDeferral decimal.Decimal) *AdvancedModel {
	p := seed.Profile
	ordinary := p.OrdinaryIncome.InexactFloat64()
	if ordinary == 0 && p.CapitalGains.IsZero() {
		ordinary = 250000
	}

	m := &AdvancedModel{
		status: p.FilingStatus,
		age:    p.Age,
		states: states,
		form: newSliderForm(
			components.NewParameterSlider("Ordinary Income", ordinary, 0, 2000000, 5000).AsMoney(),
			components.NewParameterSlider("Long-Term Gains", p.CapitalGains.InexactFloat64(), 0, 1000000, 5000).AsMoney(),
			components.NewParameterSlider("Itemized Deductions", p.ItemizedDeductions.InexactFloat64(), 0, 200000, 1000).AsMoney(),
			components.NewParameterSlider("Credits", p.Credits.InexactFloat64(), 0, 20000, 500).AsMoney(),
			components.NewParameterSlider("Harvested Loss", seed.Strategies.HarvestedLoss.InexactFloat64(), 0, 200000, 1000).AsMoney(),
			components.NewParameterSlider("Charitable Gift", seed.Strategies.Charitable.InexactFloat64(), 0, 200000, 1000).AsMoney(),
			components.NewParameterSlider("401k Deferral", seed.Strategies.Deferral.InexactFloat64(), 0, maxDeferral.InexactFloat64(), 500).AsMoney(),
			components.NewParameterSlider("Custom State Rate", seed.CustomStateRate.InexactFloat64(), 0, 15, 0.25).AsPercent(),
		),
	}
	for i, s := range states {
		if s == seed.State {
			m.stateIdx = i
		}
	}
	return m
}

// State returns the selected jurisdiction key
func (m *AdvancedModel) State() string {
	if len(m.states) == 0 {
		return ""
	}
	return m.states[m.stateIdx]
}

// Request builds the comparison request from the form and stamps it as the
// latest one.
func (m *AdvancedModel) Request() tuimsg.CompareRequestedMsg {
	s := m.form.sliders
	m.seq++
	return tuimsg.CompareRequestedMsg{
		Profile: domain.TaxProfile{
			OrdinaryIncome:     s[advOrdinary].Decimal(),
			CapitalGains:       s[advLTCG].Decimal(),
			FilingStatus:       m.status,
			ItemizedDeductions: s[advItemized].Decimal(),
			Credits:            s[advCredits].Decimal(),
			Age:                m.age,
		},
		Elections: domain.StrategyElections{
			HarvestedLoss: s[advHarvest].Decimal(),
			Charitable:    s[advCharitable].Decimal(),
			Deferral:      s[advDeferral].Decimal(),
		},
		State:           m.State(),
		CustomStateRate: s[advStateRate].Value,
		Seq:             m.seq,
	}
}

func (m *AdvancedModel) requestCmd() tea.Cmd {
	req := m.Request()
	return func() tea.Msg { return req }
}

// SetResult stores a comparison result. Results of superseded requests are
// dropped.
func (m *AdvancedModel) SetResult(msg tuimsg.CompareCompleteMsg) {
	if msg.Seq != m.seq {
		return
	}
	m.err = msg.Err
	if msg.Err != nil {
		return
	}
	m.result = msg.Result
	m.baselineState = msg.BaselineState
	m.optimizedState = msg.OptimizedState
}

// Result returns the last successful comparison
func (m *AdvancedModel) Result() *compare.ComparisonSet {
	return m.result
}

// SetSize updates the scene dimensions
func (m *AdvancedModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles keys for the advanced scene
func (m *AdvancedModel) Update(msg tea.Msg) (*AdvancedModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, sliderKeys.Status):
		m.status = toggleStatus(m.status)
		return m, m.requestCmd()
	case key.Matches(keyMsg, nextStateKey):
		if len(m.states) > 0 {
			m.stateIdx = (m.stateIdx + 1) % len(m.states)
			return m, m.requestCmd()
		}
		return m, nil
	case key.Matches(keyMsg, prevStateKey):
		if len(m.states) > 0 {
			m.stateIdx = (m.stateIdx - 1 + len(m.states)) % len(m.states)
			return m, m.requestCmd()
		}
		return m, nil
	}

	if _, changed := m.form.handle(keyMsg); changed {
		return m, m.requestCmd()
	}
	return m, nil
}

// View renders the inputs, the headline figures, the ledger and the
// savings waterfall.
func (m *AdvancedModel) View() string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		sectionTitle("Income & Strategies"),
		m.form.view(),
		"",
		fmt.Sprintf("  Filing Status: %s", tuistyles.SelectedItemStyle.Render(m.status.Label())),
		fmt.Sprintf("  State:         %s", tuistyles.SelectedItemStyle.Render(m.stateLabel())),
		"",
		mutedLine("↑↓ select • ←→ adjust • m status • tab state"),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", m.resultsView())
}

func (m *AdvancedModel) stateLabel() string {
	if m.baselineState.Label != "" && m.baselineState.State == m.State() {
		return m.baselineState.Label
	}
	return m.State()
}

func (m *AdvancedModel) resultsView() string {
	if m.err != nil {
		return tuistyles.ErrorStyle.Render("Error: " + m.err.Error())
	}
	if m.result == nil {
		return tuistyles.InfoStyle.Render("Calculating...")
	}
	cs := m.result

	stateSavings := m.baselineState.Tax.Sub(m.optimizedState.Tax)
	cards := components.MetricGrid([]*components.MetricCard{
		components.NewMoneyCard("Baseline Federal", cs.Baseline.TotalLiability),
		components.NewMoneyCard("Optimized Federal", cs.Optimized.TotalLiability).WithSavings(cs.Savings),
		components.NewMoneyCard("Federal Savings", cs.Savings).
			WithDescription(output.FormatPercentage(cs.SavingsPercent().Div(decimal.NewFromInt(100))) + " of baseline"),
		components.NewMoneyCard("State Tax", m.optimizedState.Tax).WithSavings(stateSavings),
	}, 2)

	sections := []string{cards, "", sectionTitle("Detailed Ledger"), m.ledgerView(), "", sectionTitle("Savings Waterfall"), m.waterfallView()}
	if len(cs.Recommendations) > 0 {
		sections = append(sections, "", sectionTitle("Recommendations"), bulletList(cs.Recommendations))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *AdvancedModel) ledgerView() string {
	var b strings.Builder
	b.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-22s %12s %12s %12s", "Item", "Baseline", "Optimized", "Savings")))
	for _, row := range m.result.Ledger {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-22s %12s %12s %12s", row.Item,
			output.FormatCurrency(row.Baseline), output.FormatCurrency(row.Optimized), output.FormatCurrency(row.Savings)))
	}
	return b.String()
}

func (m *AdvancedModel) waterfallView() string {
	lines := make([]string, len(m.result.Waterfall))
	for i, step := range m.result.Waterfall {
		lines[i] = fmt.Sprintf("%-22s %12s", step.Label, output.FormatCurrency(step.Amount))
	}
	return strings.Join(lines, "\n")
}

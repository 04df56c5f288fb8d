package scenes

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/rgehrsitz/taxgo/internal/tui/components"
	"github.com/rgehrsitz/taxgo/internal/tui/tuimsg"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// slider positions in the standard form
const (
	stdIncome = iota
	stdAge
	stdRetirementAge
	stdBudget
	stdCredit
	stdGrowth
)

var hsaKey = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "HSA eligible"))

// StandardModel is the household planner: HSA, credits and Traditional vs
// Roth over the years to retirement.
type StandardModel struct {
	status      domain.FilingStatus
	hsaEligible bool
	form        sliderForm

	seq  uint64
	plan *planner.Plan
	err  error

	width  int
	height int
}

// NewStandardModel seeds the form from in. Zero fields take defaults.
func NewStandardModel(in domain.PlannerInput) *StandardModel {
	income := in.GrossIncome.InexactFloat64()
	if income == 0 {
		income = 120000
	}
	age := in.CurrentAge
	if age == 0 {
		age = 40
	}
	retire := in.RetirementAge
	if retire == 0 {
		retire = 65
	}
	budget := in.InvestmentBudget.InexactFloat64()
	if budget == 0 {
		budget = 10000
	}
	growth := 8.0
	if in.GrowthRate != nil {
		growth = in.GrowthRate.Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	// an unseeded form assumes HSA eligibility
	seeded := in.CurrentAge != 0

	return &StandardModel{
		status:      in.FilingStatus,
		hsaEligible: in.HSAEligible || !seeded,
		form: newSliderForm(
			components.NewParameterSlider("Gross Income", income, 0, 1000000, 5000).AsMoney(),
			components.NewParameterSlider("Current Age", float64(age), 18, 80, 1).WithUnit(" yrs"),
			components.NewParameterSlider("Retirement Age", float64(retire), 30, 80, 1).WithUnit(" yrs"),
			components.NewParameterSlider("Annual Investment", budget, 0, 100000, 500).AsMoney(),
			components.NewParameterSlider("Other Credit (EV etc.)", in.OtherCredit.InexactFloat64(), 0, 15000, 500).AsMoney(),
			components.NewParameterSlider("Growth Rate", growth, 0, 15, 0.5).AsPercent(),
		),
	}
}

// Input builds the planner input from the form. Retirement age is never
// earlier than the current age.
func (m *StandardModel) Input() domain.PlannerInput {
	s := m.form.sliders
	age := s[stdAge].Int()
	retire := s[stdRetirementAge].Int()
	if retire < age {
		retire = age
	}
	growth := s[stdGrowth].Decimal().Div(decimal.NewFromInt(100))
	return domain.PlannerInput{
		FilingStatus:     m.status,
		CurrentAge:       age,
		RetirementAge:    retire,
		GrossIncome:      s[stdIncome].Decimal(),
		HSAEligible:      m.hsaEligible,
		OtherCredit:      s[stdCredit].Decimal(),
		InvestmentBudget: s[stdBudget].Decimal(),
		GrowthRate:       &growth,
	}
}

// Request returns the command asking for a recalculation
func (m *StandardModel) Request() tea.Cmd {
	m.seq++
	req := tuimsg.PlanRequestedMsg{Seq: m.seq, Input: m.Input()}
	return func() tea.Msg { return req }
}

// SetPlan stores a planner result. Results of superseded requests are
// dropped.
func (m *StandardModel) SetPlan(msg tuimsg.PlanCompleteMsg) {
	if msg.Seq != m.seq {
		return
	}
	m.err = msg.Err
	if msg.Err == nil {
		m.plan = msg.Plan
	}
}

// Plan returns the last successful result
func (m *StandardModel) Plan() *planner.Plan {
	return m.plan
}

// SetSize updates the scene dimensions
func (m *StandardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles keys for the standard scene
func (m *StandardModel) Update(msg tea.Msg) (*StandardModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, sliderKeys.Status):
		m.status = toggleStatus(m.status)
		return m, m.Request()
	case key.Matches(keyMsg, hsaKey):
		m.hsaEligible = !m.hsaEligible
		return m, m.Request()
	}

	if _, changed := m.form.handle(keyMsg); changed {
		return m, m.Request()
	}
	return m, nil
}

// View renders the form on the left and the plan on the right
func (m *StandardModel) View() string {
	hsa := "no"
	if m.hsaEligible {
		hsa = "yes"
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		sectionTitle("Your Profile"),
		m.form.view(),
		"",
		fmt.Sprintf("  Filing Status: %s", tuistyles.SelectedItemStyle.Render(m.status.Label())),
		fmt.Sprintf("  HSA Eligible:  %s", tuistyles.SelectedItemStyle.Render(hsa)),
		"",
		mutedLine("↑↓ select • ←→ adjust • m status • e HSA"),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", m.resultsView())
}

func (m *StandardModel) resultsView() string {
	if m.err != nil {
		return tuistyles.ErrorStyle.Render("Error: " + m.err.Error())
	}
	if m.plan == nil {
		return tuistyles.InfoStyle.Render("Calculating...")
	}
	p := m.plan

	cards := components.MetricGrid([]*components.MetricCard{
		components.NewMoneyCard("Est. Tax Bill", p.Liability.TotalLiability),
		components.NewRateCard("Marginal Rate", p.Liability.MarginalRate),
		components.NewRateCard("Effective Rate", p.Liability.EffectiveRate),
		components.NewMoneyCard("HSA Deduction", p.HSADeduction),
	}, 2)

	horizon := lipgloss.JoinVertical(lipgloss.Left,
		sectionTitle(fmt.Sprintf("Traditional vs. Roth (%d Year Horizon)", p.Years)),
		fmt.Sprintf("Traditional (after %s tax): %s", output.FormatPercentage(p.WithdrawalTaxRate), output.FormatCurrency(p.TraditionalAfterTax)),
		fmt.Sprintf("Roth (after tax now):       %s", output.FormatCurrency(p.RothAfterTax)),
		tuistyles.SelectedItemStyle.Render("Preferred: "+p.Preferred.Label()),
	)

	chart := components.NewASCIIChart("").
		WithSize(56, 8).
		AddProjection("Traditional", p.Traditional, tuistyles.ColorChartLine1).
		AddProjection("Roth", p.Roth, tuistyles.ColorChartLine2).
		Render()

	sections := []string{cards, "", horizon, "", chart, "", sectionTitle("Action Plan"), bulletList(p.Recommendations)}
	if len(p.Notes) > 0 {
		sections = append(sections, "", tuistyles.InfoStyle.Render(bulletList(p.Notes)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func toggleStatus(s domain.FilingStatus) domain.FilingStatus {
	if s == domain.Single {
		return domain.MarriedJoint
	}
	return domain.Single
}

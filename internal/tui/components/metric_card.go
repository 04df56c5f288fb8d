package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single figure with an optional change line
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend is a change against a reference figure. Good selects the colour:
// a lower tax bill is good even though the arrow points down.
type Trend struct {
	Good   bool
	Change string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 24,
	}
}

// NewMoneyCard creates a card showing a whole-dollar amount
func NewMoneyCard(label string, amount decimal.Decimal) *MetricCard {
	return NewMetricCard(label, output.FormatCurrency(amount))
}

// NewRateCard creates a card showing a fraction as a percentage
func NewRateCard(label string, rate decimal.Decimal) *MetricCard {
	return NewMetricCard(label, output.FormatPercentage(rate))
}

// WithSavings adds a change line for a tax saving. Positive savings are
// shown as a reduction.
func (m *MetricCard) WithSavings(savings decimal.Decimal) *MetricCard {
	if savings.IsZero() {
		return m
	}
	m.Trend = &Trend{
		Good:   savings.IsPositive(),
		Change: output.FormatCurrency(savings.Abs()),
	}
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var trend string
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.Good)
		trend = "\n" + tuistyles.MetricTrendStyle(m.Trend.Good).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}

	var desc string
	if m.Description != "" {
		desc = "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(label + "\n" + value + trend + desc)
}

// RenderCompact returns a single line without border
func (m *MetricCard) RenderCompact() string {
	line := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Trend != nil {
		line += " " + tuistyles.MetricTrendStyle(m.Trend.Good).Render(tuistyles.TrendIndicator(m.Trend.Good)+" "+m.Trend.Change)
	}
	return line
}

// MetricGrid lays cards out in rows of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

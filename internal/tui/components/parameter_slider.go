package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// SliderKind selects how a slider value is displayed
type SliderKind int

const (
	SliderNumber SliderKind = iota
	SliderMoney
	SliderPercent
)

// ParameterSlider is an adjustable input with a visual track
type ParameterSlider struct {
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Kind        SliderKind
	Unit        string // suffix for SliderNumber, e.g. " years"
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider, clamping value into [min, max]. The
// seed is kept off the step grid so scenario amounts are used exactly.
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		Width: 30,
	}
	p.Value = math.Max(min, math.Min(max, value))
	return p
}

// AsMoney displays the value as whole dollars
func (p *ParameterSlider) AsMoney() *ParameterSlider {
	p.Kind = SliderMoney
	return p
}

// AsPercent displays the value with a percent sign
func (p *ParameterSlider) AsPercent() *ParameterSlider {
	p.Kind = SliderPercent
	return p
}

// WithUnit sets the suffix used for plain numbers
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithWidth sets the track width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// WithDescription adds a help line under the track
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment raises the value by one step, stopping at Max
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement lowers the value by one step, stopping at Min
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue sets the value, snapped to the step grid and clamped to the range
func (p *ParameterSlider) SetValue(value float64) {
	if p.Step > 0 {
		value = p.Min + math.Round((value-p.Min)/p.Step)*p.Step
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// SetMax changes the upper bound, pulling the value down if needed
func (p *ParameterSlider) SetMax(max float64) {
	p.Max = max
	p.SetValue(p.Value)
}

// Decimal returns the value for the engine
func (p *ParameterSlider) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(p.Value)
}

// Int returns the value rounded to a whole number
func (p *ParameterSlider) Int() int {
	return int(math.Round(p.Value))
}

// Percentage returns the value's position in the range, 0 to 1
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// FormatValue renders v in the slider's display format
func (p *ParameterSlider) FormatValue(v float64) string {
	switch p.Kind {
	case SliderMoney:
		return output.FormatCurrency(decimal.NewFromFloat(v))
	case SliderPercent:
		return fmt.Sprintf("%.2f%%", v)
	default:
		return fmt.Sprintf("%.0f%s", v, p.Unit)
	}
}

// Render returns the full slider with label, value, track and range
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.FormatValue(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderTrack(p.Width))

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(" ")
	content.WriteString(rangeStyle.Render(p.FormatValue(p.Min) + " ─ " + p.FormatValue(p.Max)))

	if p.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(p.Description))
	}
	return content.String()
}

// RenderCompact returns a single-line version with a short track
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	marker := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		marker = "▸ "
	}
	return fmt.Sprintf("%s%s %s %s", marker, labelStyle.Render(fmt.Sprintf("%-22s", p.Label)), p.renderTrack(12), valueStyle.Render(p.FormatValue(p.Value)))
}

func (p *ParameterSlider) renderTrack(width int) string {
	filled := int(math.Round(float64(width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i == filled || (i == width-1 && filled == width):
			bar.WriteString(thumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(thumbStyle.Render("━"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}

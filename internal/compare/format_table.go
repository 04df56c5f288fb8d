package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing baseline and optimized
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("TAX STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	if compSet.ScenarioName != "" {
		sb.WriteString(fmt.Sprintf("Scenario: %s\n", compSet.ScenarioName))
	}
	sb.WriteString(fmt.Sprintf("Tax Year: %d   Filing Status: %s\n", compSet.TaxYear, compSet.BaselineProfile.FilingStatus.Label()))
	sb.WriteString("\n")

	itemWidth := 24
	numWidth := 15

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		itemWidth, "Item",
		numWidth, "Baseline",
		numWidth, "Optimized",
		numWidth, "Savings"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for i, row := range compSet.Ledger {
		if i == len(compSet.Ledger)-1 {
			sb.WriteString(strings.Repeat("-", 72) + "\n")
		}
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
			itemWidth, row.Item,
			numWidth, formatMoney(row.Baseline),
			numWidth, formatMoney(row.Optimized),
			numWidth, tf.deltaSymbol(row.Savings)+formatMoney(row.Savings.Abs())))
	}
	sb.WriteString(strings.Repeat("=", 72) + "\n")

	sb.WriteString(fmt.Sprintf("\nMarginal Rate:  %s%% -> %s%%\n",
		pct(compSet.Baseline.MarginalRate), pct(compSet.Optimized.MarginalRate)))
	sb.WriteString(fmt.Sprintf("Effective Rate: %s%% -> %s%%\n",
		pct(compSet.Baseline.EffectiveRate), pct(compSet.Optimized.EffectiveRate)))

	// Waterfall
	sb.WriteString("\nSAVINGS WATERFALL\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, step := range compSet.Waterfall {
		amount := formatMoney(step.Amount)
		if step.Kind == StepDelta {
			amount = tf.signed(step.Amount)
		}
		sb.WriteString(fmt.Sprintf("  %-22s %15s\n", step.Label, amount))
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatCompact creates a single-line summary
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	change := "="
	if compSet.Savings.IsPositive() {
		change = "saves " + formatMoney(compSet.Savings)
	} else if compSet.Savings.IsNegative() {
		change = "costs " + formatMoney(compSet.Savings.Abs())
	}
	return fmt.Sprintf("Baseline: %s | Optimized: %s | %s",
		formatMoney(compSet.Baseline.TotalLiability), formatMoney(compSet.Optimized.TotalLiability), change)
}

// deltaSymbol returns + for savings and - for added cost
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + formatMoney(d.Abs())
	}
	return "+" + formatMoney(d)
}

// formatMoney renders whole dollars with thousands separators
func formatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(0)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-$" + string(out)
	}
	return "$" + string(out)
}

func pct(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1)
}

package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats the comparison ledger as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	header := []string{"Item", "Baseline", "Optimized", "Savings"}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, row := range compSet.Ledger {
		record := []string{
			row.Item,
			row.Baseline.StringFixed(2),
			row.Optimized.StringFixed(2),
			row.Savings.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	// Rates as fractions
	rates := [][]string{
		{"Marginal Rate", compSet.Baseline.MarginalRate.StringFixed(4), compSet.Optimized.MarginalRate.StringFixed(4),
			compSet.Baseline.MarginalRate.Sub(compSet.Optimized.MarginalRate).StringFixed(4)},
		{"Effective Rate", compSet.Baseline.EffectiveRate.StringFixed(4), compSet.Optimized.EffectiveRate.StringFixed(4),
			compSet.Baseline.EffectiveRate.Sub(compSet.Optimized.EffectiveRate).StringFixed(4)},
	}
	if err := writer.WriteAll(rates); err != nil {
		return "", err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

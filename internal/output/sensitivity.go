package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/domain"
)

// SensitivityReport describes a one-parameter liability sweep
func SensitivityReport(a *domain.SensitivityAnalysis) *Report {
	points := make([]Row, len(a.Points))
	for i, p := range a.Points {
		value := fmt.Sprintf("%s (effective %s, bracket %s", FormatCurrency(p.TotalLiability),
			FormatPercentage(p.EffectiveRate), FormatPercentage(p.BracketRate))
		if i > 0 {
			value += ", marginal " + FormatPercentage(p.MarginalRate)
		}
		points[i] = Row{Label: FormatCurrency(p.Value), Value: value + ")"}
	}
	recs := make([]Row, len(a.Recommendations))
	for i, r := range a.Recommendations {
		recs[i] = Row{Label: fmt.Sprintf("%d.", i+1), Value: r}
	}

	return &Report{
		Title: "SENSITIVITY: " + strings.ToUpper(strings.ReplaceAll(a.Parameter.Name, "_", " ")),
		Sections: []Section{
			{Heading: "Sweep", Rows: []Row{
				{"Range", fmt.Sprintf("%s to %s (%d steps)", FormatCurrency(a.Parameter.Min), FormatCurrency(a.Parameter.Max), a.Parameter.Steps)},
				{"Base Liability", FormatCurrency(a.BaseLiability)},
				{"Peak Marginal", fmt.Sprintf("%s (%s to %s)", FormatPercentage(a.PeakMarginal), FormatCurrency(a.PeakFrom), FormatCurrency(a.PeakTo))},
			}},
			{Heading: "Liability by Value", Rows: points},
			{Heading: "Observations", Rows: recs},
		},
		Payload: a,
	}
}

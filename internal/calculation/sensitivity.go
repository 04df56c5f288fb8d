package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer sweeps one profile field and records the liability
// at each value
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// Analyze runs the sweep for param on top of profile
func (sa *SensitivityAnalyzer) Analyze(ctx context.Context, profile domain.TaxProfile, param domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if err := param.Validate(); err != nil {
		return nil, err
	}

	analysis := &domain.SensitivityAnalysis{
		Parameter:     param,
		Profile:       profile,
		BaseLiability: sa.calculationEngine.Liability(profile).TotalLiability,
	}

	var prev *domain.SensitivityPoint
	for _, value := range param.Values() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := sa.calculationEngine.Liability(param.Apply(profile, value))
		point := domain.SensitivityPoint{
			Value:          value,
			TotalLiability: res.TotalLiability,
			EffectiveRate:  res.EffectiveRate,
			BracketRate:    res.MarginalRate,
			MarginalRate:   decimal.Zero,
		}
		if prev != nil {
			point.MarginalRate = res.TotalLiability.Sub(prev.TotalLiability).Div(value.Sub(prev.Value))
			if point.MarginalRate.Abs().GreaterThan(analysis.PeakMarginal.Abs()) {
				analysis.PeakMarginal = point.MarginalRate
				analysis.PeakFrom = prev.Value
				analysis.PeakTo = value
			}
		}
		analysis.Points = append(analysis.Points, point)
		prev = &analysis.Points[len(analysis.Points)-1]
	}

	analysis.Recommendations = sensitivityRecommendations(analysis)
	sa.calculationEngine.Logger.Debugf("sensitivity %s: %d points, peak marginal %s between %s and %s",
		param.Name, len(analysis.Points), analysis.PeakMarginal.StringFixed(4),
		analysis.PeakFrom.StringFixed(0), analysis.PeakTo.StringFixed(0))
	return analysis, nil
}

func sensitivityRecommendations(a *domain.SensitivityAnalysis) []string {
	if len(a.Points) < 2 {
		return nil
	}
	pct := func(d decimal.Decimal) string {
		return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
	}
	first, last := a.Points[0], a.Points[len(a.Points)-1]
	var recs []string

	switch a.Parameter.Name {
	case domain.ParamOrdinaryIncome, domain.ParamCapitalGains:
		recs = append(recs, fmt.Sprintf("Each extra dollar of %s costs up to %s in federal tax (between $%s and $%s)",
			a.Parameter.Name, pct(a.PeakMarginal), a.PeakFrom.StringFixed(0), a.PeakTo.StringFixed(0)))
		if !last.BracketRate.Equal(first.BracketRate) {
			recs = append(recs, fmt.Sprintf("The sweep crosses from the %s to the %s ordinary bracket",
				pct(first.BracketRate), pct(last.BracketRate)))
		}
	case domain.ParamItemized:
		if a.PeakMarginal.IsZero() {
			recs = append(recs, "Itemized deductions in this range do not beat the standard deduction")
		} else {
			recs = append(recs, fmt.Sprintf("Each extra itemized dollar saves up to %s once above the standard deduction",
				pct(a.PeakMarginal.Neg())))
		}
	case domain.ParamCredits:
		if last.TotalLiability.IsZero() {
			recs = append(recs, "Credits in this range can erase the federal liability; excess credit is lost")
		}
	}
	return recs
}

package calculation

import (
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// NetScheduleD splits Section 1256 results 60/40 between long and short term,
// nets them against stock results and applies the capital loss deduction cap.
// Losses beyond the cap are dropped; carryforward is not modelled.
func NetScheduleD(in domain.ScheduleDInputs, rules *domain.TaxYearRules) domain.ScheduleDResult {
	longShare := rules.Section1256LongTermShare
	futuresLong := in.Section1256.Mul(longShare)
	futuresShort := in.Section1256.Sub(futuresLong)

	totalShort := in.ShortTermStock.Add(futuresShort)
	totalLong := in.LongTermStock.Add(futuresLong)

	res := domain.ScheduleDResult{
		FinalShortTerm:   decimal.Zero,
		FinalLongTerm:    decimal.Zero,
		DeductibleLoss:   decimal.Zero,
		FuturesShortTerm: futuresShort,
		FuturesLongTerm:  futuresLong,
		TotalShortTerm:   totalShort,
		TotalLongTerm:    totalLong,
	}

	capLoss := func(loss decimal.Decimal) decimal.Decimal {
		return decimal.Min(rules.CapitalLossDeductionCap, loss.Abs())
	}

	shortNeg := totalShort.IsNegative()
	longNeg := totalLong.IsNegative()
	net := totalShort.Add(totalLong)

	switch {
	case !shortNeg && !longNeg:
		res.FinalShortTerm = totalShort
		res.FinalLongTerm = totalLong
	case shortNeg && longNeg:
		res.DeductibleLoss = capLoss(net)
	case shortNeg:
		// short-term loss absorbed by long-term gain first
		if net.IsNegative() {
			res.DeductibleLoss = capLoss(net)
		} else {
			res.FinalLongTerm = net
		}
	default:
		if net.IsNegative() {
			res.DeductibleLoss = capLoss(net)
		} else {
			res.FinalShortTerm = net
		}
	}
	return res
}

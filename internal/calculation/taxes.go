package calculation

import (
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. MAGI is ordinary income plus long-term gains, with no add-backs.
// 2. The larger of the standard deduction (plus the senior addition when the
//    filer has reached the senior age) and itemized deductions is used.
// 3. Long-term gains are stacked on top of taxable ordinary income.
// 4. Credits are non-refundable; any excess is lost, not carried forward.
// 5. The Additional Medicare surtax is applied to all ordinary income, not
//    only wages.

// StandardDeduction returns the standard deduction for the profile,
// including the senior addition when Age is at or above the senior age.
func StandardDeduction(profile domain.TaxProfile, rules *domain.TaxYearRules) decimal.Decimal {
	std := rules.StandardDeduction.For(profile.FilingStatus)
	if profile.Age > 0 && rules.SeniorAge > 0 && profile.Age >= rules.SeniorAge {
		std = std.Add(rules.SeniorAdditionalDeduction.For(profile.FilingStatus))
	}
	return std
}

// ComputeLiability computes the federal liability for a profile
func ComputeLiability(profile domain.TaxProfile, rules *domain.TaxYearRules) domain.LiabilityResult {
	status := profile.FilingStatus
	ordinaryIncome := profile.OrdinaryIncome
	ltcg := decimal.Max(profile.CapitalGains, decimal.Zero)

	deduction := decimal.Max(StandardDeduction(profile, rules), profile.ItemizedDeductions)
	taxableOrdinary := decimal.Max(decimal.Zero, ordinaryIncome.Sub(deduction))

	ordinaryBrackets := rules.OrdinaryBrackets.For(status)
	ordinaryTax := TaxOnBrackets(taxableOrdinary, ordinaryBrackets)
	ltcgTax := StackedTax(taxableOrdinary, ltcg, rules.LTCGBrackets.For(status))

	magi := ordinaryIncome.Add(profile.CapitalGains)

	niitExcess := decimal.Max(decimal.Zero, magi.Sub(rules.NIIT.Thresholds.For(status)))
	niit := decimal.Min(ltcg, niitExcess).Mul(rules.NIIT.Rate)

	medicareExcess := decimal.Max(decimal.Zero, ordinaryIncome.Sub(rules.AdditionalMedicare.Thresholds.For(status)))
	medicare := medicareExcess.Mul(rules.AdditionalMedicare.Rate)

	gross := ordinaryTax.Add(ltcgTax).Add(niit).Add(medicare)
	total := decimal.Max(decimal.Zero, gross.Sub(profile.Credits))

	effective := decimal.Zero
	if magi.IsPositive() {
		effective = total.Div(magi)
	}

	return domain.LiabilityResult{
		TaxableOrdinaryIncome: taxableOrdinary,
		DeductionUsed:         deduction,
		OrdinaryTax:           ordinaryTax,
		LTCGTax:               ltcgTax,
		NIIT:                  niit,
		MedicareSurtax:        medicare,
		GrossTax:              gross,
		TotalLiability:        total,
		MAGI:                  magi,
		MarginalRate:          MarginalRate(taxableOrdinary, ordinaryBrackets),
		BracketHeadroom:       BracketHeadroom(taxableOrdinary, ordinaryBrackets),
		EffectiveRate:         effective,
	}
}

// ItemizedDeductions sums the itemizable inputs, capping state and local
// taxes at the SALT cap.
func ItemizedDeductions(in domain.ItemizedInputs, rules *domain.TaxYearRules) decimal.Decimal {
	salt := decimal.Max(in.SALT, decimal.Zero)
	if rules.SALTCap.IsPositive() {
		salt = decimal.Min(salt, rules.SALTCap)
	}
	return decimal.Max(in.HSA, decimal.Zero).Add(decimal.Max(in.Charitable, decimal.Zero)).Add(salt)
}

// EVCreditIncomeEligible reports whether income is within the EV credit
// income cap. It is informational; credits are never altered by it.
func EVCreditIncomeEligible(income decimal.Decimal, status domain.FilingStatus, rules *domain.TaxYearRules) bool {
	limit := rules.EVCreditIncomeCap.For(status)
	if limit.IsZero() {
		return true
	}
	return !income.GreaterThan(limit)
}

// StateTaxBase is the federal taxable income a state estimate is applied
// to: taxable ordinary income plus non-negative long-term gains.
func StateTaxBase(profile domain.TaxProfile, res domain.LiabilityResult) decimal.Decimal {
	return res.TaxableOrdinaryIncome.Add(decimal.Max(profile.CapitalGains, decimal.Zero))
}

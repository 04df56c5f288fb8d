package output

import (
	"fmt"
	"strconv"

	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/planner"
	"github.com/shopspring/decimal"
)

// Row is one labelled value in a report section
type Row struct {
	Label string
	Value string
}

// Section groups rows under a heading
type Section struct {
	Heading string
	Rows    []Row
}

// Report is a rendered-agnostic view of a result. Payload is what the
// structured formats (json, yaml) encode; Sections drive table and csv.
type Report struct {
	Title    string
	Sections []Section
	Payload  any
}

// LiabilityReport describes a federal liability result
func LiabilityReport(profile domain.TaxProfile, res domain.LiabilityResult) *Report {
	return &Report{
		Title: "FEDERAL TAX LIABILITY",
		Sections: []Section{
			{Heading: "Inputs", Rows: []Row{
				{"Filing Status", profile.FilingStatus.Label()},
				{"Ordinary Income", FormatCurrency(profile.OrdinaryIncome)},
				{"Long-Term Gains", FormatCurrency(profile.CapitalGains)},
				{"Itemized Deductions", FormatCurrency(profile.ItemizedDeductions)},
				{"Credits", FormatCurrency(profile.Credits)},
			}},
			{Heading: "Liability", Rows: liabilityRows(res)},
		},
		Payload: struct {
			Profile   domain.TaxProfile      `json:"profile"`
			Liability domain.LiabilityResult `json:"liability"`
		}{profile, res},
	}
}

func liabilityRows(res domain.LiabilityResult) []Row {
	return []Row{
		{"Deduction Used", FormatCurrency(res.DeductionUsed)},
		{"Taxable Ordinary Income", FormatCurrency(res.TaxableOrdinaryIncome)},
		{"Ordinary Tax", FormatCurrency(res.OrdinaryTax)},
		{"LTCG Tax", FormatCurrency(res.LTCGTax)},
		{"NIIT", FormatCurrency(res.NIIT)},
		{"Additional Medicare", FormatCurrency(res.MedicareSurtax)},
		{"Gross Tax", FormatCurrency(res.GrossTax)},
		{"Total Liability", FormatCurrency(res.TotalLiability)},
		{"MAGI", FormatCurrency(res.MAGI)},
		{"Marginal Rate", FormatPercentage(res.MarginalRate)},
		{"Room in Bracket", headroom(res)},
		{"Effective Rate", FormatPercentage(res.EffectiveRate)},
	}
}

func headroom(res domain.LiabilityResult) string {
	if res.BracketHeadroom.IsZero() {
		return "top bracket"
	}
	return FormatCurrency(res.BracketHeadroom)
}

// ScheduleDReport describes a Schedule D netting result
func ScheduleDReport(in domain.ScheduleDInputs, res domain.ScheduleDResult) *Report {
	return &Report{
		Title: "SCHEDULE D NETTING",
		Sections: []Section{
			{Heading: "Inputs", Rows: []Row{
				{"Short-Term Stock", FormatCurrency(in.ShortTermStock)},
				{"Long-Term Stock", FormatCurrency(in.LongTermStock)},
				{"Section 1256", FormatCurrency(in.Section1256)},
			}},
			{Heading: "Section 1256 Split", Rows: []Row{
				{"Short-Term (40%)", FormatCurrency(res.FuturesShortTerm)},
				{"Long-Term (60%)", FormatCurrency(res.FuturesLongTerm)},
			}},
			{Heading: "Result", Rows: []Row{
				{"Total Short-Term", FormatCurrency(res.TotalShortTerm)},
				{"Total Long-Term", FormatCurrency(res.TotalLongTerm)},
				{"Final Short-Term", FormatCurrency(res.FinalShortTerm)},
				{"Final Long-Term", FormatCurrency(res.FinalLongTerm)},
				{"Deductible Loss", FormatCurrency(res.DeductibleLoss)},
			}},
		},
		Payload: struct {
			Inputs domain.ScheduleDInputs `json:"inputs"`
			Result domain.ScheduleDResult `json:"result"`
		}{in, res},
	}
}

// StateTaxReport describes a state estimate
func StateTaxReport(res domain.StateTaxResult) *Report {
	return &Report{
		Title: "STATE TAX ESTIMATE",
		Sections: []Section{{Heading: res.Label, Rows: []Row{
			{"Jurisdiction", res.State},
			{"Type", string(res.Kind)},
			{"Taxable Income", FormatCurrency(res.TaxableIncome)},
			{"State Tax", FormatCurrency(res.Tax)},
			{"Effective Rate", FormatPercentage(res.EffectiveRate)},
		}}},
		Payload: res,
	}
}

// ProjectionReport describes a growth series
func ProjectionReport(p domain.GrowthProjection) *Report {
	rows := make([]Row, len(p.Periods))
	for i := range p.Periods {
		rows[i] = Row{Label: "Year " + strconv.Itoa(p.Periods[i]), Value: FormatCurrency(p.Balances[i])}
	}
	return &Report{
		Title:    "GROWTH PROJECTION",
		Sections: []Section{{Heading: "Balances", Rows: rows}},
		Payload:  p,
	}
}

// PlanReport describes a standard planner result
func PlanReport(plan *planner.Plan) *Report {
	series := make([]Row, len(plan.Traditional.Periods))
	for i := range plan.Traditional.Periods {
		series[i] = Row{
			Label: "Year " + strconv.Itoa(plan.Traditional.Periods[i]),
			Value: fmt.Sprintf("%s / %s", FormatCurrency(plan.Traditional.Balances[i]), FormatCurrency(plan.Roth.Balances[i])),
		}
	}

	recs := make([]Row, 0, len(plan.Recommendations)+len(plan.Notes))
	for i, r := range plan.Recommendations {
		recs = append(recs, Row{Label: strconv.Itoa(i + 1), Value: r})
	}
	for _, n := range plan.Notes {
		recs = append(recs, Row{Label: "Note", Value: n})
	}

	return &Report{
		Title: "RETIREMENT & TAX PLAN",
		Sections: []Section{
			{Heading: "Current Year", Rows: []Row{
				{"Est. Tax Bill", FormatCurrency(plan.Liability.TotalLiability)},
				{"Marginal Rate", FormatPercentage(plan.Liability.MarginalRate)},
				{"Effective Rate", FormatPercentage(plan.Liability.EffectiveRate)},
				{"HSA Deduction", FormatCurrency(plan.HSADeduction)},
				{"Other Credit", FormatCurrency(plan.Input.OtherCredit)},
			}},
			{Heading: fmt.Sprintf("Traditional vs. Roth (%d Year Horizon)", plan.Years), Rows: []Row{
				{"Traditional After Tax", FormatCurrency(plan.TraditionalAfterTax)},
				{"Roth After Tax", FormatCurrency(plan.RothAfterTax)},
				{"Preferred", plan.Preferred.Label()},
			}},
			{Heading: "Traditional / Roth Balances", Rows: series},
			{Heading: "Action Plan", Rows: recs},
		},
		Payload: plan,
	}
}

// ComparisonReport describes a baseline vs optimized comparison
func ComparisonReport(cs *compare.ComparisonSet) *Report {
	ledger := make([]Row, len(cs.Ledger))
	for i, r := range cs.Ledger {
		ledger[i] = Row{
			Label: r.Item,
			Value: fmt.Sprintf("%s -> %s (%s)", FormatCurrency(r.Baseline), FormatCurrency(r.Optimized), FormatCurrency(r.Savings)),
		}
	}
	waterfall := make([]Row, len(cs.Waterfall))
	for i, s := range cs.Waterfall {
		waterfall[i] = Row{Label: s.Label, Value: FormatCurrency(s.Amount)}
	}
	return &Report{
		Title: "TAX STRATEGY COMPARISON",
		Sections: []Section{
			{Heading: "Ledger", Rows: ledger},
			{Heading: "Waterfall", Rows: waterfall},
			{Heading: "Summary", Rows: []Row{{"Savings", FormatCurrency(cs.Savings)}}},
		},
		Payload: cs,
	}
}

// RulesReport summarises one year's constants
func RulesReport(rules *domain.TaxYearRules) *Report {
	both := func(a domain.FilingAmounts) string {
		return FormatCurrency(a.Single) + " / " + FormatCurrency(a.MarriedJoint)
	}
	states := make([]Row, 0, len(rules.States))
	for _, key := range rules.StateKeys() {
		states = append(states, Row{Label: key, Value: fmt.Sprintf("%s (%s)", rules.States[key].Label, rules.States[key].Type)})
	}
	return &Report{
		Title: fmt.Sprintf("TAX YEAR %d RULES", rules.Year),
		Sections: []Section{
			{Heading: "Single / Married Joint", Rows: []Row{
				{"Standard Deduction", both(rules.StandardDeduction)},
				{"Senior Addition", both(rules.SeniorAdditionalDeduction)},
				{"NIIT Threshold", both(rules.NIIT.Thresholds)},
				{"Medicare Threshold", both(rules.AdditionalMedicare.Thresholds)},
				{"EV Credit Income Cap", both(rules.EVCreditIncomeCap)},
			}},
			{Heading: "Limits", Rows: []Row{
				{"HSA (Self / Family)", FormatCurrency(rules.HSALimit.SelfOnly) + " / " + FormatCurrency(rules.HSALimit.Family)},
				{"SALT Cap", FormatCurrency(rules.SALTCap)},
				{"Elective Deferral", FormatCurrency(rules.ElectiveDeferralLimit)},
				{"Capital Loss Cap", FormatCurrency(rules.CapitalLossDeductionCap)},
				{"Section 1256 Long-Term Share", FormatPercentage(rules.Section1256LongTermShare)},
			}},
			{Heading: "States", Rows: states},
		},
		Payload: rules,
	}
}

// FormatCurrency formats a decimal as whole dollars with separators
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(0)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if amount.Round(0).IsNegative() {
		return "-$" + string(out)
	}
	return "$" + string(out)
}

// FormatPercentage formats a fraction as a percentage
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

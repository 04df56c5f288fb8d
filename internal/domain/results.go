package domain

import (
	"github.com/shopspring/decimal"
)

// LiabilityResult is the federal tax breakdown for one profile
type LiabilityResult struct {
	TaxableOrdinaryIncome decimal.Decimal `json:"taxableOrdinaryIncome"`
	DeductionUsed         decimal.Decimal `json:"deductionUsed"`
	OrdinaryTax           decimal.Decimal `json:"ordinaryTax"`
	LTCGTax               decimal.Decimal `json:"ltcgTax"`
	NIIT                  decimal.Decimal `json:"niit"`
	MedicareSurtax        decimal.Decimal `json:"medicareSurtax"`
	GrossTax              decimal.Decimal `json:"grossTax"` // before credits
	TotalLiability        decimal.Decimal `json:"totalLiability"`
	MAGI                  decimal.Decimal `json:"magi"`
	MarginalRate          decimal.Decimal `json:"marginalRate"`
	BracketHeadroom       decimal.Decimal `json:"bracketHeadroom"` // zero in the top bracket
	EffectiveRate         decimal.Decimal `json:"effectiveRate"`
}

// SurtaxTotal returns NIIT plus the Additional Medicare surtax
func (r LiabilityResult) SurtaxTotal() decimal.Decimal {
	return r.NIIT.Add(r.MedicareSurtax)
}

// IncomeTaxTotal returns ordinary plus LTCG tax
func (r LiabilityResult) IncomeTaxTotal() decimal.Decimal {
	return r.OrdinaryTax.Add(r.LTCGTax)
}

// ScheduleDResult is the netted capital gain/loss position
type ScheduleDResult struct {
	FinalShortTerm   decimal.Decimal `json:"finalShortTerm"`
	FinalLongTerm    decimal.Decimal `json:"finalLongTerm"`
	DeductibleLoss   decimal.Decimal `json:"deductibleLoss"`
	FuturesShortTerm decimal.Decimal `json:"futuresShortTerm"`
	FuturesLongTerm  decimal.Decimal `json:"futuresLongTerm"`
	TotalShortTerm   decimal.Decimal `json:"totalShortTerm"`
	TotalLongTerm    decimal.Decimal `json:"totalLongTerm"`
}

// ApplyTo folds the netted position into a profile: net short-term gains
// and the deductible loss adjust ordinary income, net long-term gains are
// added to capital gains.
func (r ScheduleDResult) ApplyTo(p TaxProfile) TaxProfile {
	ordinary := p.OrdinaryIncome.Add(r.FinalShortTerm).Sub(r.DeductibleLoss)
	if ordinary.IsNegative() {
		ordinary = decimal.Zero
	}
	p.OrdinaryIncome = ordinary
	p.CapitalGains = p.CapitalGains.Add(r.FinalLongTerm)
	return p
}

// GrowthProjection is a year-indexed balance series. Periods and Balances
// always have the same length.
type GrowthProjection struct {
	Periods  []int             `json:"periods"`
	Balances []decimal.Decimal `json:"balances"`
}

// Final returns the terminal balance
func (g GrowthProjection) Final() decimal.Decimal {
	if len(g.Balances) == 0 {
		return decimal.Zero
	}
	return g.Balances[len(g.Balances)-1]
}

// StateTaxResult is a state estimate on the federal taxable base
type StateTaxResult struct {
	State         string           `json:"state"`
	Label         string           `json:"label"`
	Kind          JurisdictionKind `json:"kind"`
	TaxableIncome decimal.Decimal  `json:"taxableIncome"`
	Tax           decimal.Decimal  `json:"tax"`
	EffectiveRate decimal.Decimal  `json:"effectiveRate"`
}

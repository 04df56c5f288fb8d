package domain

import (
	"github.com/shopspring/decimal"
)

// StateJurisdiction is the closed set of state tax regimes the calculator
// understands: NoIncomeTax, FlatRateTax and ProgressiveTax.
type StateJurisdiction interface {
	jurisdiction()
	Kind() JurisdictionKind
}

// JurisdictionKind is the YAML/JSON discriminator for a StateJurisdiction
type JurisdictionKind string

const (
	KindNone        JurisdictionKind = "none"
	KindFlat        JurisdictionKind = "flat_input"
	KindProgressive JurisdictionKind = "progressive"
)

// NoIncomeTax is a state without a wage income tax
type NoIncomeTax struct{}

// FlatRateTax taxes all state taxable income at a single user-supplied rate.
// RatePercent is expressed as a percentage (5 means 5%).
type FlatRateTax struct {
	RatePercent decimal.Decimal
}

// ProgressiveTax applies a per-status bracket table
type ProgressiveTax struct {
	Single       BracketTable
	MarriedJoint BracketTable
}

func (NoIncomeTax) jurisdiction()    {}
func (FlatRateTax) jurisdiction()    {}
func (ProgressiveTax) jurisdiction() {}

func (NoIncomeTax) Kind() JurisdictionKind    { return KindNone }
func (FlatRateTax) Kind() JurisdictionKind    { return KindFlat }
func (ProgressiveTax) Kind() JurisdictionKind { return KindProgressive }

// Table returns the bracket table for the given status
func (p ProgressiveTax) Table(status FilingStatus) BracketTable {
	if status == MarriedJoint {
		return p.MarriedJoint
	}
	return p.Single
}

package domain

import "errors"

var (
	ErrUnknownFilingStatus = errors.New("unknown filing status")
	ErrUnknownJurisdiction = errors.New("unknown state jurisdiction")
	ErrUnknownTaxYear      = errors.New("no rules for tax year")
	ErrInvalidBracketTable = errors.New("invalid bracket table")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrMissingRule         = errors.New("required rule missing or not positive")
)

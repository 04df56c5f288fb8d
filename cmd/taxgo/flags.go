package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// flagReader reads typed values from a command's flags and keeps the first
// parse error, so callers check once after reading everything.
type flagReader struct {
	cmd *cobra.Command
	err error
}

func newFlagReader(cmd *cobra.Command) *flagReader {
	return &flagReader{cmd: cmd}
}

// money parses a dollar amount. "$" and thousands separators are accepted.
func (r *flagReader) money(name string) decimal.Decimal {
	s, _ := r.cmd.Flags().GetString(name)
	return r.decimal(name, strings.NewReplacer("$", "", ",", "", "_", "").Replace(s))
}

// rate parses a fraction such as 0.08
func (r *flagReader) rate(name string) decimal.Decimal {
	s, _ := r.cmd.Flags().GetString(name)
	return r.decimal(name, s)
}

// percent parses a rate given in percent and keeps it within 0 to 100
func (r *flagReader) percent(name string) decimal.Decimal {
	v := r.rate(name)
	if (v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100))) && r.err == nil {
		r.err = fmt.Errorf("--%s: must be between 0 and 100, got %s", name, v)
	}
	return v
}

// optionalRate is rate, returning nil when the flag was not given
func (r *flagReader) optionalRate(name string) *decimal.Decimal {
	if !r.cmd.Flags().Changed(name) {
		return nil
	}
	v := r.rate(name)
	return &v
}

func (r *flagReader) decimal(name, s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("--%s: invalid number %q", name, s)
	}
	return v
}

func (r *flagReader) status(name string) domain.FilingStatus {
	s, _ := r.cmd.Flags().GetString(name)
	fs, err := domain.ParseFilingStatus(s)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("--%s: %w", name, err)
	}
	return fs
}

func (r *flagReader) intFlag(name string) int {
	v, _ := r.cmd.Flags().GetInt(name)
	return v
}

func (r *flagReader) boolFlag(name string) bool {
	v, _ := r.cmd.Flags().GetBool(name)
	return v
}

func (r *flagReader) stringFlag(name string) string {
	v, _ := r.cmd.Flags().GetString(name)
	return v
}

// addProfileFlags registers the TaxProfile inputs
func addProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("income", "0", "Ordinary income")
	f.String("ltcg", "0", "Long-term capital gains and qualified dividends")
	f.String("status", "single", "Filing status (single, married_joint)")
	f.String("itemized", "0", "Itemized deductions")
	f.String("credits", "0", "Non-refundable credits")
	f.Int("age", 0, "Age, for the senior deduction (0 = not supplied)")
}

// readProfile reads and validates the TaxProfile flags
func readProfile(r *flagReader) (domain.TaxProfile, error) {
	p := domain.TaxProfile{
		OrdinaryIncome:     r.money("income"),
		CapitalGains:       r.money("ltcg"),
		FilingStatus:       r.status("status"),
		ItemizedDeductions: r.money("itemized"),
		Credits:            r.money("credits"),
		Age:                r.intFlag("age"),
	}
	if r.err != nil {
		return p, r.err
	}
	return p, p.Validate()
}

// addStateFlags registers the optional state estimate inputs
func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().String("state", "", "State key (see `taxgo rules`)")
	cmd.Flags().String("state-rate", "0", "Rate in percent for the custom flat-rate state")
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	niitBlock = `    niit:
      rate: 0.038
      thresholds: { single: 200000, married_joint: 250000 }
`
	medicareBlock = `    additional_medicare:
      rate: 0.009
      thresholds: { single: 200000, married_joint: 250000 }
`
)

const overlay2026 = `
tax_years:
  2026:
    ordinary_brackets:
      single:
        - { up_to: 12000, rate: 0.10 }
        - { rate: 0.30 }
      married_joint:
        - { up_to: 24000, rate: 0.10 }
        - { rate: 0.30 }
    ltcg_brackets:
      single:
        - { up_to: 50000, rate: 0.0 }
        - { rate: 0.15 }
      married_joint:
        - { up_to: 100000, rate: 0.0 }
        - { rate: 0.15 }
    standard_deduction:
      single: 16000
      married_joint: 32000
` + niitBlock + medicareBlock + `    capital_loss_deduction_cap: 3000
    section_1256_long_term_share: 0.60
    states:
      texas:
        label: "Texas (0%)"
        type: none
`

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, reg.Years())

	rules, err := reg.Rules(2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, rules.Year)
	assert.Equal(t, 65, rules.SeniorAge)
	assert.True(t, rules.StandardDeduction.Single.Equal(decimal.NewFromInt(15000)))
	assert.True(t, rules.StandardDeduction.MarriedJoint.Equal(decimal.NewFromInt(30000)))
	assert.True(t, rules.HSALimit.SelfOnly.Equal(decimal.NewFromInt(4300)))
	assert.True(t, rules.HSALimit.Family.Equal(decimal.NewFromInt(8550)))
	assert.True(t, rules.ElectiveDeferralLimit.Equal(decimal.NewFromInt(23500)))
	assert.True(t, rules.CapitalLossDeductionCap.Equal(decimal.NewFromInt(3000)))
	assert.Len(t, rules.OrdinaryBrackets.Single, 7)
	assert.Equal(t, []string{"california", "florida", "new_york", "other", "texas", "washington"}, rules.StateKeys())
}

func TestRules_UnknownYear(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	_, err = reg.Rules(1999)
	assert.ErrorIs(t, err, domain.ErrUnknownTaxYear)
	assert.Contains(t, err.Error(), "1999")
}

func TestMerge_AddsYear(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	require.NoError(t, reg.Merge([]byte(overlay2026)))
	assert.Equal(t, []int{2025, 2026}, reg.Years())

	rules, err := reg.Rules(2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, rules.Year, "year defaults to the map key")
	assert.Equal(t, 65, rules.SeniorAge, "senior age defaults to 65")
	assert.True(t, rules.StandardDeduction.Single.Equal(decimal.NewFromInt(16000)))
	assert.Equal(t, []string{"texas"}, rules.StateKeys())

	// 2025 is untouched
	base, err := reg.Rules(2025)
	require.NoError(t, err)
	assert.True(t, base.StandardDeduction.Single.Equal(decimal.NewFromInt(15000)))
}

func TestMerge_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		target  error
		message string
	}{
		{name: "malformed", yaml: "tax_years: [", message: "failed to parse YAML"},
		{name: "empty", yaml: "metadata:\n  description: nothing\n", message: "no tax_years defined"},
		{name: "year mismatch", yaml: "tax_years:\n  2026:\n    year: 2027\n", message: "does not match"},
		{
			name:   "missing brackets",
			yaml:   "tax_years:\n  2026:\n    year: 2026\n",
			target: domain.ErrInvalidBracketTable,
		},
		{
			name:   "unbounded middle bracket",
			yaml:   strings.Replace(overlay2026, "- { up_to: 12000, rate: 0.10 }", "- { rate: 0.10 }", 1),
			target: domain.ErrInvalidBracketTable,
		},
		{
			name:   "unknown state type",
			yaml:   strings.Replace(overlay2026, "type: none", "type: tribute", 1),
			target: domain.ErrUnknownJurisdiction,
		},
		{
			name:    "missing standard deduction",
			yaml:    withoutLines(overlay2026, "standard_deduction:", "single: 16000", "married_joint: 32000"),
			target:  domain.ErrMissingRule,
			message: "standard_deduction",
		},
		{
			name:    "missing capital loss cap",
			yaml:    withoutLines(overlay2026, "capital_loss_deduction_cap:"),
			target:  domain.ErrMissingRule,
			message: "capital_loss_deduction_cap",
		},
		{
			name:    "missing section 1256 share",
			yaml:    withoutLines(overlay2026, "section_1256_long_term_share:"),
			target:  domain.ErrMissingRule,
			message: "section_1256_long_term_share",
		},
		{
			name:    "section 1256 share above one",
			yaml:    strings.Replace(overlay2026, "section_1256_long_term_share: 0.60", "section_1256_long_term_share: 1.5", 1),
			target:  domain.ErrMissingRule,
			message: "section_1256_long_term_share",
		},
		{
			name:    "missing niit",
			yaml:    strings.Replace(overlay2026, niitBlock, "", 1),
			target:  domain.ErrMissingRule,
			message: "niit",
		},
		{
			name:    "missing niit thresholds",
			yaml:    strings.Replace(overlay2026, "rate: 0.038\n      thresholds: { single: 200000, married_joint: 250000 }", "rate: 0.038", 1),
			target:  domain.ErrMissingRule,
			message: "niit thresholds",
		},
		{
			name:    "missing additional medicare",
			yaml:    strings.Replace(overlay2026, medicareBlock, "", 1),
			target:  domain.ErrMissingRule,
			message: "additional_medicare",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRulesRegistry().Merge([]byte(tt.yaml))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, reg.Years())

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlay2026), 0o600))
	reg, err = LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, reg.Years())

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rules file")
}

// withoutLines drops every line of doc containing one of the fragments
func withoutLines(doc string, fragments ...string) string {
	var kept []string
	for _, line := range strings.Split(doc, "\n") {
		drop := false
		for _, f := range fragments {
			if strings.Contains(line, f) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

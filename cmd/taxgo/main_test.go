package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "taxgo", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)

	expected := []string{"liability", "compare", "schedule-d", "state-tax", "project", "plan", "sensitivity", "validate", "run", "rules", "serve", "version"}
	for _, name := range expected {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %s not registered", name)
	}

	for _, flag := range []string{"config", "tax-year", "rules", "log-level", "log-format", "format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %s", flag)
	}
}

func TestRootCommand_Errors(t *testing.T) {
	_, err := execute(t, "invalid-command")
	assert.Error(t, err)

	_, err = execute(t, "--invalid-flag")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "taxgo dev")
}

func TestLiability(t *testing.T) {
	out, err := execute(t, "liability", "--income", "120000")
	require.NoError(t, err)
	assert.Contains(t, out, "FEDERAL TAX LIABILITY")
	assert.Contains(t, out, "$18,047")
	assert.Contains(t, out, "$105,000")

	out, err = execute(t, "liability", "--income", "$120,000", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalLiability": "18047"`)
}

func TestLiability_WithState(t *testing.T) {
	out, err := execute(t, "liability", "--income", "120000", "--state", "other", "--state-rate", "5", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalLiability": "18047"`)
	assert.Contains(t, out, `"tax": "5250"`)

	_, err = execute(t, "liability", "--income", "120000", "--state", "atlantis")
	assert.ErrorIs(t, err, domain.ErrUnknownJurisdiction)

	_, err = execute(t, "liability", "--income", "120000", "--state", "other", "--state-rate", "150")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--state-rate: must be between 0 and 100")
}

func TestLiability_BadInput(t *testing.T) {
	_, err := execute(t, "liability", "--income", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--income")

	_, err = execute(t, "liability", "--status", "head_of_household")
	assert.ErrorIs(t, err, domain.ErrUnknownFilingStatus)

	_, err = execute(t, "liability", "--income=-5")
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)

	_, err = execute(t, "liability", "--tax-year", "1999")
	assert.ErrorIs(t, err, domain.ErrUnknownTaxYear)

	_, err = execute(t, "liability", "--format", "xml")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	args := []string{"compare", "--income", "150000", "--ltcg", "20000", "--harvest", "25000", "--charitable", "5000", "--deferral", "10000"}

	out, err := execute(t, append(args, "--format", "json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"savings": "3720"`)

	out, err = execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "3,720")

	out, err = execute(t, append(args, "--format", "csv")...)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = execute(t, append(args, "--format", "yaml")...)
	require.NoError(t, err)
	assert.Contains(t, out, "savings:")
	assert.Contains(t, out, "3720")

	_, err = execute(t, "compare", "--deferral=-1")
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
}

func TestCompare_ScenarioFile(t *testing.T) {
	out, err := execute(t, "compare", filepath.Join("testdata", "scenario.yaml"), "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"scenarioName": "Sample Household"`)
	assert.Contains(t, out, `"savings": "3720"`)
}

func TestScheduleD(t *testing.T) {
	out, err := execute(t, "schedule-d", "--short-term=-5000", "--section-1256", "10000", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"futuresLongTerm": "6000"`)
	assert.Contains(t, out, `"futuresShortTerm": "4000"`)
	assert.Contains(t, out, `"finalLongTerm": "5000"`)
	assert.Contains(t, out, `"deductibleLoss": "0"`)
}

func TestStateTax(t *testing.T) {
	out, err := execute(t, "state-tax", "--state", "new_york", "--taxable", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "$935")
	assert.Contains(t, out, "New York (High)")

	_, err = execute(t, "state-tax", "--taxable", "20000")
	assert.Error(t, err)

	for _, rate := range []string{"-1", "100.5"} {
		_, err = execute(t, "state-tax", "--state", "other", "--taxable", "20000", "--rate="+rate)
		require.Error(t, err, rate)
		assert.Contains(t, err.Error(), "--rate: must be between 0 and 100")
	}

	out, err = execute(t, "state-tax", "--state", "other", "--taxable", "20000", "--rate", "100", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tax": "20000"`)
}

func TestProject(t *testing.T) {
	out, err := execute(t, "project", "--principal", "1000", "--contribution", "100", "--years", "3", "--rate", "0.10", "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Balances,Year 3,\"$1,662\"", lines[4])

	_, err = execute(t, "project", "--years", "101")
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	out, err := execute(t, "plan", "--income", "120000", "--age", "35", "--budget", "15000", "--hsa", "--credit", "7500", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"preferred": "traditional"`)
	assert.Contains(t, out, `"hsaDeduction": "4300"`)

	_, err = execute(t, "plan", "--age", "50", "--retirement-age", "40")
	assert.Error(t, err)
}

func TestSensitivity(t *testing.T) {
	out, err := execute(t, "sensitivity", "--income", "120000", "--min", "100000", "--max", "140000", "--steps", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "SENSITIVITY: ORDINARY INCOME")
	assert.Contains(t, out, "$22,847")

	out, err = execute(t, "sensitivity", "--income", "120000", "--param", "itemized_deductions", "--max", "20000", "--steps", "3", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"peakMarginal": "-0.1133"`)

	out, err = execute(t, "sensitivity", "--income", "120000", "-f", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")

	_, err = execute(t, "sensitivity", "--param", "age")
	assert.Error(t, err)

	_, err = execute(t, "sensitivity", "--min", "50000", "--max", "10000")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", filepath.Join("testdata", "scenario.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, err = execute(t, "validate", filepath.Join("testdata", "invalid.yaml"))
	assert.ErrorIs(t, err, domain.ErrUnknownJurisdiction)

	_, err = execute(t, "validate", filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "validate")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	file := filepath.Join("testdata", "scenario.yaml")

	out, err := execute(t, "run", file)
	require.NoError(t, err)
	assert.Contains(t, out, "SCENARIO: Sample Household (2025)")
	assert.Contains(t, out, "New York (High)")
	assert.Contains(t, out, "Action Plan")

	out, err = execute(t, "run", file, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalLiability": "28247"`)
	assert.Contains(t, out, `"comparison"`)
	assert.Contains(t, out, `"plan"`)
	assert.NotContains(t, out, `"scheduleD"`)
}

func TestRules(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX YEAR 2025 RULES")
	assert.Contains(t, out, "new_york")

	out, err = execute(t, "rules", "--list")
	require.NoError(t, err)
	assert.Equal(t, "2025\n", out)

	_, err = execute(t, "rules", "--year", "1999")
	assert.ErrorIs(t, err, domain.ErrUnknownTaxYear)
}

func TestSettings_EnvAndConfigFile(t *testing.T) {
	t.Setenv("TAXGO_FORMAT", "json")
	out, err := execute(t, "liability", "--income", "120000")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"), "env selects json: %s", out)

	path := filepath.Join(t.TempDir(), "taxgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: csv\n"), 0o600))
	out, err = execute(t, "liability", "--income", "120000", "--config", path)
	require.NoError(t, err)
	// environment beats the config file
	assert.True(t, strings.HasPrefix(out, "{"))

	out, err = execute(t, "liability", "--income", "120000", "--config", path, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Section,Item,Value"))
}

func TestSettings_ConfigFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: csv\nlog:\n  level: error\n"), 0o600))
	out, err := execute(t, "liability", "--income", "120000", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Section,Item,Value"))

	_, err = execute(t, "liability", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServerConfig(t *testing.T) {
	a := &app{v: config.NewViper()}
	cmd := serveCmd(a)
	require.NoError(t, cmd.Flags().Parse([]string{"--addr", ":9999", "--metrics=false"}))
	require.NoError(t, a.setup(cmd))

	cfg := serverConfig(a)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, config.DefaultTaxYear, cfg.DefaultTaxYear)

	b := &app{v: config.NewViper()}
	cmd = serveCmd(b)
	require.NoError(t, b.setup(cmd))
	cfg = serverConfig(b)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.EnableMetrics)
}

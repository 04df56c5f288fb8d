package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_RunIsDeterministic(t *testing.T) {
	t.Setenv("TAXGO_LOG_LEVEL", "error")
	file := filepath.Join("testdata", "scenario.yaml")

	first, err := execute(t, "run", file, "-f", "json")
	require.NoError(t, err)
	second, err := execute(t, "run", file, "-f", "json")
	require.NoError(t, err)
	assert.JSONEq(t, first, second, "identical inputs give identical results")

	var decoded struct {
		Liability  map[string]any `json:"liability"`
		State      map[string]any `json:"state"`
		Comparison struct {
			Baseline map[string]any `json:"baseline"`
			Savings  string         `json:"savings"`
		} `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &decoded))
	// the comparison baseline and the standalone liability describe the same profile
	assert.Equal(t, decoded.Liability["totalLiability"], decoded.Comparison.Baseline["totalLiability"])
	assert.Equal(t, "3720", decoded.Comparison.Savings)
	assert.Equal(t, "new_york", decoded.State["state"])
}

func TestIntegration_EveryFormat(t *testing.T) {
	t.Setenv("TAXGO_LOG_LEVEL", "error")
	commands := [][]string{
		{"liability", "--income", "120000"},
		{"compare", "--income", "150000", "--ltcg", "20000", "--charitable", "20000"},
		{"schedule-d", "--short-term=-5000", "--section-1256", "10000"},
		{"state-tax", "--state", "california", "--taxable", "80000"},
		{"project", "--principal", "1000", "--years", "5"},
		{"plan", "--income", "90000", "--budget", "6000"},
		{"sensitivity", "--income", "90000", "--steps", "4"},
		{"run", filepath.Join("testdata", "scenario.yaml")},
		{"rules"},
	}
	for _, args := range commands {
		for _, format := range []string{"table", "json", "csv", "yaml", "html"} {
			t.Run(fmt.Sprintf("%s_%s", args[0], format), func(t *testing.T) {
				out, err := execute(t, append(args, "--format", format)...)
				require.NoError(t, err)
				assert.NotEmpty(t, out)
				if format == "json" {
					assert.True(t, json.Valid([]byte(out)), out)
				}
			})
		}
	}
}

package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/rgehrsitz/taxgo/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultTaxYear is the year used when no tax year is requested
const DefaultTaxYear = 2025

//go:embed rules/*.yaml
var embeddedRules embed.FS

// RulesRegistry holds the validated rules for every known tax year.
// It is populated once at start-up and only read afterwards.
type RulesRegistry struct {
	years map[int]*domain.TaxYearRules
}

// NewRulesRegistry creates an empty registry
func NewRulesRegistry() *RulesRegistry {
	return &RulesRegistry{years: make(map[int]*domain.TaxYearRules)}
}

// DefaultRegistry loads the rules shipped with the binary
func DefaultRegistry() (*RulesRegistry, error) {
	reg := NewRulesRegistry()
	files, err := fs.Glob(embeddedRules, "rules/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded rules: %w", err)
	}
	sort.Strings(files)
	for _, name := range files {
		data, err := embeddedRules.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded rules %s: %w", name, err)
		}
		if err := reg.Merge(data); err != nil {
			return nil, fmt.Errorf("embedded rules %s: %w", name, err)
		}
	}
	return reg, nil
}

// LoadRegistry returns the embedded rules overlaid with rulesFile, if given.
// Years present in rulesFile replace the embedded year entirely.
func LoadRegistry(rulesFile string) (*RulesRegistry, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	if rulesFile == "" {
		return reg, nil
	}
	if err := reg.LoadFile(rulesFile); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadFile merges a rules YAML file into the registry
func (r *RulesRegistry) LoadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	if err := r.Merge(data); err != nil {
		return fmt.Errorf("rules file %s: %w", filename, err)
	}
	return nil
}

// Merge parses a RegulatoryConfig document and adds its years
func (r *RulesRegistry) Merge(data []byte) error {
	var doc domain.RegulatoryConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.TaxYears) == 0 {
		return fmt.Errorf("no tax_years defined")
	}
	for year, rules := range doc.TaxYears {
		if rules.Year == 0 {
			rules.Year = year
		}
		if rules.Year != year {
			return fmt.Errorf("tax year key %d does not match year field %d", year, rules.Year)
		}
		if rules.SeniorAge == 0 {
			rules.SeniorAge = 65
		}
		if err := rules.Validate(); err != nil {
			return fmt.Errorf("tax year %d: %w", year, err)
		}
		r.years[year] = &rules
	}
	return nil
}

// Rules returns the rules for a tax year
func (r *RulesRegistry) Rules(year int) (*domain.TaxYearRules, error) {
	rules, ok := r.years[year]
	if !ok {
		return nil, fmt.Errorf("%w %d", domain.ErrUnknownTaxYear, year)
	}
	return rules, nil
}

// Years returns the loaded years in ascending order
func (r *RulesRegistry) Years() []int {
	years := make([]int, 0, len(r.years))
	for y := range r.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

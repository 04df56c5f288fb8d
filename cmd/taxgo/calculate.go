package main

import (
	"fmt"

	"github.com/rgehrsitz/taxgo/internal/calculation"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/output"
	"github.com/spf13/cobra"
)

func liabilityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liability",
		Short: "Compute federal tax liability for one profile",
		Long: `Compute ordinary income tax, stacked long-term gains tax, NIIT and the
Additional Medicare surtax for one household.

Examples:
  taxgo liability --income 120000
  taxgo liability --income 150000 --ltcg 20000 --status married_joint --state california
  taxgo liability --income 90000 --state other --state-rate 4.5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newFlagReader(cmd)
			profile, err := readProfile(r)
			if err != nil {
				return err
			}
			state := r.stringFlag("state")
			stateRate := r.percent("state-rate")
			if r.err != nil {
				return r.err
			}

			engine, err := a.engine(0)
			if err != nil {
				return err
			}
			res := engine.Liability(profile)
			report := output.LiabilityReport(profile, res)
			if state == "" {
				return a.write(cmd, report)
			}

			st, err := engine.StateEstimate(calculation.StateTaxBase(profile, res), profile.FilingStatus, state, stateRate)
			if err != nil {
				return err
			}
			report.Sections = append(report.Sections, output.StateTaxReport(st).Sections...)
			report.Payload = struct {
				Profile   domain.TaxProfile      `json:"profile"`
				Liability domain.LiabilityResult `json:"liability"`
				State     domain.StateTaxResult  `json:"state"`
			}{profile, res, st}
			return a.write(cmd, report)
		},
	}
	addProfileFlags(cmd)
	addStateFlags(cmd)
	return cmd
}

func scheduleDCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule-d",
		Short: "Net stock and Section 1256 results",
		Long: `Net short-term and long-term stock results with Section 1256 futures
(60% long-term, 40% short-term) and apply the capital loss deduction cap.

Example:
  taxgo schedule-d --short-term=-5000 --section-1256 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newFlagReader(cmd)
			in := domain.ScheduleDInputs{
				ShortTermStock: r.money("short-term"),
				LongTermStock:  r.money("long-term"),
				Section1256:    r.money("section-1256"),
			}
			if r.err != nil {
				return r.err
			}
			engine, err := a.engine(0)
			if err != nil {
				return err
			}
			return a.write(cmd, output.ScheduleDReport(in, engine.ScheduleD(in)))
		},
	}
	cmd.Flags().String("short-term", "0", "Net short-term stock gain or loss")
	cmd.Flags().String("long-term", "0", "Net long-term stock gain or loss")
	cmd.Flags().String("section-1256", "0", "Net Section 1256 contract gain or loss")
	return cmd
}

func stateTaxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state-tax",
		Short: "Estimate state tax on a taxable base",
		Long: `Estimate state income tax for a jurisdiction on an already computed
taxable base.

Examples:
  taxgo state-tax --state new_york --taxable 20000
  taxgo state-tax --state other --rate 5 --taxable 85000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newFlagReader(cmd)
			state := r.stringFlag("state")
			status := r.status("status")
			taxable := r.money("taxable")
			rate := r.percent("rate")
			if r.err != nil {
				return r.err
			}
			if state == "" {
				return fmt.Errorf("--state is required")
			}
			engine, err := a.engine(0)
			if err != nil {
				return err
			}
			st, err := engine.StateEstimate(taxable, status, state, rate)
			if err != nil {
				return err
			}
			return a.write(cmd, output.StateTaxReport(st))
		},
	}
	cmd.Flags().String("state", "", "State key (see `taxgo rules`)")
	cmd.Flags().String("status", "single", "Filing status (single, married_joint)")
	cmd.Flags().String("taxable", "0", "Taxable income")
	cmd.Flags().String("rate", "0", "Rate in percent for the custom flat-rate state")
	return cmd
}

func projectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project compound growth with yearly contributions",
		Long: `Project a balance growing at a fixed yearly rate with a contribution at
the end of each year.

Example:
  taxgo project --principal 1000 --contribution 100 --years 3 --rate 0.10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newFlagReader(cmd)
			principal := r.money("principal")
			contribution := r.money("contribution")
			years := r.intFlag("years")
			rate := r.optionalRate("rate")
			if r.err != nil {
				return r.err
			}
			if years < 0 || years > 100 {
				return fmt.Errorf("--years must be between 0 and 100")
			}
			engine, err := a.engine(0)
			if err != nil {
				return err
			}
			return a.write(cmd, output.ProjectionReport(engine.Project(principal, contribution, years, rate)))
		},
	}
	cmd.Flags().String("principal", "0", "Starting balance")
	cmd.Flags().String("contribution", "0", "Yearly contribution")
	cmd.Flags().Int("years", 10, "Years to project")
	cmd.Flags().String("rate", "", "Yearly growth rate as a fraction (default 0.08)")
	return cmd
}

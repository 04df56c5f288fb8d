// Package tuimsg holds the messages exchanged between scenes and the root
// model. It exists to keep scenes from importing the root tui package.
package tuimsg

import (
	"github.com/rgehrsitz/taxgo/internal/compare"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/planner"
)

// PlanRequestedMsg asks the root model to rerun the standard planner.
// Seq numbers requests so a scene can ignore results it has superseded.
type PlanRequestedMsg struct {
	Seq   uint64
	Input domain.PlannerInput
}

// PlanCompleteMsg carries a planner result back to the standard scene
type PlanCompleteMsg struct {
	Seq  uint64
	Plan *planner.Plan
	Err  error
}

// CompareRequestedMsg asks the root model to rerun the comparison for the
// advanced scene. State and CustomStateRate select the state estimate.
type CompareRequestedMsg struct {
	Seq             uint64
	Profile         domain.TaxProfile
	Elections       domain.StrategyElections
	State           string
	CustomStateRate float64
}

// CompareCompleteMsg carries a comparison and the state estimates on the
// baseline and optimized bases.
type CompareCompleteMsg struct {
	Seq            uint64
	Result         *compare.ComparisonSet
	BaselineState  domain.StateTaxResult
	OptimizedState domain.StateTaxResult
	Err            error
}

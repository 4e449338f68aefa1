package optimizer

import (
	"fmt"

	"mit.edu/dsg/planopt/common"
)

// Stage identifies a named phase of optimization. Each stage has its own subset of rules and is run to a fixed
// point before the next one starts.
type Stage int

const (
	// StageFirstPass removes structural noise left by query construction: identity wrappers, redundant
	// materializations, no-op projections, nested unions.
	StageFirstPass Stage = iota
	// StagePushdown moves filters and limits toward the leaves.
	StagePushdown
	// StageProjectionMerge collapses chains of projections and folds column selection into sources, maps and
	// unions.
	StageProjectionMerge
	// StageFinal picks physical operators (e.g. a sort followed by a limit becomes a top-n).
	StageFinal

	NumStages
)

var stageNames = [NumStages]string{
	StageFirstPass:       "first-pass",
	StagePushdown:        "pushdown",
	StageProjectionMerge: "projection-merge",
	StageFinal:           "final",
}

func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) valid() bool {
	return s >= 0 && s < NumStages
}

// ParseStage maps a stage name (as printed by Stage.String) back to its identifier.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, common.NewPlanError(common.UnknownStageError, "unknown optimization stage %q", name)
}

// DefaultStages returns the stage order used when the caller does not pick one.
func DefaultStages() []Stage {
	return []Stage{StageFirstPass, StagePushdown, StageProjectionMerge, StageFinal}
}

package sat

import "time"

// Options configures a Solver. Unset numeric fields behave as zero, not as
// "use the default" -- callers should start from DefaultOptions and override
// individual fields.
type Options struct {
	// Clause/variable activity bookkeeping.
	ClauseDecay   float64
	VariableDecay float64

	// Decision heuristic.
	RandomVarFreq float64
	RandomSeed    int64
	RndPol        bool
	PhaseSaving   int // 0 (none), 1 (topmost cancelled level only), or 2 (always).

	// Conflict analysis.
	CCMinMode int // 2 (recursive, default) minimizes; any other value, 1 included, leaves learnt clauses unminimized.

	// Restart schedule.
	Luby         bool
	RestartFirst float64
	RestartInc   float64

	// Clause database maintenance.
	GCFrac                     float64
	MinLearntsLim              int
	LearntSizeFactor           float64
	LearntSizeInc              float64
	LearntSizeAdjustStartConfl int
	LearntSizeAdjustInc        float64

	// Stop conditions.
	MaxConflicts int64
	Timeout      time.Duration

	// Optional assumption-cutoff cube-blocker subsystem. Zero disables it.
	AssignmentCutoff int
}

// DefaultOptions mirrors MiniSat-lineage default tuning constants.
var DefaultOptions = Options{
	ClauseDecay:                0.999,
	VariableDecay:              0.95,
	RandomVarFreq:              0,
	RandomSeed:                 91648253,
	CCMinMode:                  2,
	PhaseSaving:                2,
	Luby:                       true,
	RestartFirst:               100,
	RestartInc:                 2,
	GCFrac:                     0.20,
	MinLearntsLim:              0,
	LearntSizeFactor:           1.0 / 3.0,
	LearntSizeInc:              1.1,
	LearntSizeAdjustStartConfl: 100,
	LearntSizeAdjustInc:        1.5,
	MaxConflicts:               -1,
	Timeout:                    -1,
	AssignmentCutoff:           0,
}

package sat

import (
	"sort"
	"time"
)

func durationFromSeconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// PropagationResult is the verdict returned by the stepwise driver's
// propagation-related calls.
type PropagationResult int

const (
	ResultConflict PropagationResult = -1
	ResultStepOpen PropagationResult = 0
	ResultSAT      PropagationResult = 1
	ResultInconsistentAssumptions PropagationResult = 2
)

// EnumerationTermination reports why RunSolverEnumerate stopped.
type EnumerationTermination int

const (
	EnumDone EnumerationTermination = iota
	EnumTime
	EnumLimit
)

func (t EnumerationTermination) String() string {
	switch t {
	case EnumDone:
		return "DONE"
	case EnumTime:
		return "TIME"
	case EnumLimit:
		return "LIMIT"
	default:
		return "UNKNOWN"
	}
}

func (r PropagationResult) String() string {
	switch r {
	case ResultConflict:
		return "CONFLICT"
	case ResultStepOpen:
		return "OPEN"
	case ResultSAT:
		return "SAT"
	case ResultInconsistentAssumptions:
		return "INCONSISTENT_ASSUMPTIONS"
	default:
		return "UNKNOWN"
	}
}

// StepPropagate runs unit propagation to a fixpoint and reports the outcome
// plus how many literals were newly pushed onto the trail.
func (s *Solver) StepPropagate() (PropagationResult, int) {
	before := len(s.trail)
	if confl := s.Propagate(); confl != clauseNone {
		return ResultConflict, len(s.trail) - before
	}
	n := len(s.trail) - before
	if len(s.trail) == s.NumVariables() {
		return ResultSAT, n
	}
	return ResultStepOpen, n
}

// AssignLiteral pushes a fresh decision level, enqueues l as a decision, and
// propagates to a fixpoint.
func (s *Solver) AssignLiteral(l Literal) (PropagationResult, int) {
	if s.LitValue(l) == False {
		return ResultInconsistentAssumptions, 0
	}
	s.assume(l)
	return s.StepPropagate()
}

// Backtrack undoes n decision levels. It fails (returns false) if n exceeds
// the current decision level, leaving the solver state untouched.
func (s *Solver) Backtrack(n int) bool {
	if n < 0 || n > s.decisionLevel() {
		return false
	}
	s.cancelUntil(s.decisionLevel() - n)
	return true
}

// LearnClause requires a cached conflict (the one left by the most recent
// StepPropagate/Propagate call that returned ResultConflict): it runs
// analysis, backjumps, installs the learnt clause, and propagates. Fails if
// no conflict is cached.
func (s *Solver) LearnClause() (PropagationResult, int, bool) {
	if s.conflict == clauseNone {
		return ResultStepOpen, 0, false
	}
	confl := s.conflict

	if s.decisionLevel() == 0 {
		s.unsat = true
		return ResultConflict, 0, true
	}

	learnt, btLevel := s.analyze(confl)
	s.cancelUntil(btLevel)
	if len(learnt) == 1 {
		s.enqueue(learnt[0], clauseNone)
	} else {
		s.record(learnt)
	}

	result, n := s.StepPropagate()
	return result, n, true
}

// PropagationCursor supports request_propagation_scope/next_prop_lit: it
// iterates the trail starting at a given decision level without copying it.
type PropagationCursor struct {
	trail []Literal
	pos   int
}

// RequestPropagationScope returns a cursor over every literal on the trail
// from the start of decision level `level` onward.
func (s *Solver) RequestPropagationScope(level int) *PropagationCursor {
	start := 0
	if level > 0 && level <= len(s.trailLim) {
		start = s.trailLim[level-1]
	} else if level > len(s.trailLim) {
		start = len(s.trail)
	}
	return &PropagationCursor{trail: s.trail, pos: start}
}

// NextPropLit returns the next literal in the cursor's scope, or
// (NoneLiteral, false) once exhausted.
func (c *PropagationCursor) NextPropLit() (Literal, bool) {
	if c.pos >= len(c.trail) {
		return NoneLiteral, false
	}
	l := c.trail[c.pos]
	c.pos++
	return l, true
}

// FastSwitchAssignment finds the deepest prefix of the current decision
// trail all of whose literals are members of target, backjumps to that
// point, then re-applies the remaining target literals as decisions,
// propagating between each. target need not be sorted by the caller; it is
// sorted here to support a binary-search membership test.
//
// Returns the outcome plus the number of decisions executed and literals
// propagated.
func (s *Solver) FastSwitchAssignment(target []Literal) (PropagationResult, int, int) {
	sorted := append([]Literal(nil), target...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	inTarget := func(l Literal) bool {
		i := sort.Search(len(sorted), func(k int) bool { return sorted[k] >= l })
		return i < len(sorted) && sorted[i] == l
	}

	// Find the deepest level boundary such that every decision literal up to
	// that point is in target.
	keepLevel := 0
	for lvl := 0; lvl < len(s.trailLim); lvl++ {
		dec := s.trail[s.trailLim[lvl]]
		if !inTarget(dec) {
			break
		}
		keepLevel = lvl + 1
	}
	s.cancelUntil(keepLevel)

	// Re-apply every target literal not already satisfied by the retained
	// prefix, one decision at a time.
	decisions, propagated := 0, 0
	for _, l := range sorted {
		if s.LitValue(l) == True {
			continue
		}
		if s.LitValue(l) == False {
			return ResultInconsistentAssumptions, decisions, propagated
		}
		s.assume(l)
		decisions++
		result, n := s.StepPropagate()
		propagated += n
		switch result {
		case ResultConflict:
			return ResultConflict, decisions, propagated
		case ResultSAT:
			return ResultSAT, decisions, propagated
		}
	}
	return ResultStepOpen, decisions, propagated
}

// RunSolverEnumerate repeatedly solves the instance, and on every SAT result
// emits a blocking clause over the negations of the edge-variable portion of
// the model only (not every variable), installs it at level 0, and
// continues. Stops after max models are found (max <= 0 means unbounded) or
// once no further model exists.
//
// timeoutSeconds <= 0 means no time limit.
func (s *Solver) RunSolverEnumerate(timeoutSeconds float64, max int) EnumerationTermination {
	if timeoutSeconds > 0 {
		s.hasStopCond = true
		s.timeout = durationFromSeconds(timeoutSeconds)
	}

	for max <= 0 || len(s.Models) < max {
		status := s.Solve()
		if status != True {
			if s.shouldStop() {
				return EnumTime
			}
			return EnumDone
		}

		blocker := s.edgeBlockingClause()
		s.cancelUntil(0)
		if outcome := s.AddClauseDuringSearch(blocker); outcome == IngestUnsat {
			return EnumDone
		}

		if s.shouldStop() {
			return EnumTime
		}
	}
	return EnumLimit
}

// edgeBlockingClause returns the disjunction of the negations of the
// edge-variable portion of the most recent model.
func (s *Solver) edgeBlockingClause() []Literal {
	model := s.Models[len(s.Models)-1]
	n := s.edgeVarN()
	clause := make([]Literal, 0, n)
	for v := 0; v < n; v++ {
		if model[v] {
			clause = append(clause, NegativeLiteral(v))
		} else {
			clause = append(clause, PositiveLiteral(v))
		}
	}
	return clause
}

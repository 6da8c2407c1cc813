package sat

import (
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/adrianmoors/smsolve/internal/graph"
)

// Solver is a CDCL SAT solver with two-watched-literal propagation, 1-UIP
// conflict analysis with clause minimization, Luby restarts, an
// arena-backed learnt-clause database, and an external-propagator hook.
type Solver struct {
	// Clause database.
	arena       *clauseArena
	constraints []ClauseRef
	learnts     []ClauseRef
	clauseInc   float64
	clauseDecay float64
	gcFrac      float64

	// Variable ordering.
	varDecay float64
	order    *VarOrder

	// Propagation and watchers.
	watchers  []watchList // indexed by Literal
	propQueue *Queue[Literal]

	// Per-literal/-variable assignment state.
	assigns  []LBool
	trail    []Literal
	trailLim []int
	reason   []ClauseRef
	level    []int

	phaseSaving int
	ccminMode   int

	// Whether the problem has reached a root-level conflict.
	unsat bool

	// Conflict cached across a Propagate() call so the stepwise driver can
	// run analysis later without re-deriving it.
	conflict ClauseRef

	// Search statistics.
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
	startTime       time.Time

	// Stop conditions.
	hasStopCond bool
	maxConflict int64
	timeout     time.Duration
	interrupted atomic.Bool

	// Models found so far (populated by Search on SAT, and by
	// RunSolverEnumerate for every solution it blocks).
	Models [][]bool

	// Shared scratch state for conflict analysis.
	seenVar        *ResetSet
	tmpWatchers    []watcher
	tmpLearnts     []Literal
	tmpReason      []Literal
	minMark        []minMark
	minimizeStack  []Literal
	analyzeToClear []int

	// Restart schedule.
	restart *restartSchedule

	// Dynamic growth of the learnt-clause size limit.
	maxLearnts            float64
	learntSizeAdjustConfl float64
	learntSizeAdjustCnt   int
	learntSizeAdjustInc   float64
	learntSizeAdjustStart int

	// Released variables are recycled by AddVariable instead of growing the
	// arrays further.
	released []bool
	freeVars []int

	// External-propagator integration and the graph-domain view it is
	// handed.
	propagator   ExternalPropagator
	edgeVarCount int // number of leading variables considered "edge variables"; 0 means "all variables"
	graphN       int // vertex count backing edgeVarCount, if set via SetGraphVertexCount

	// Optional assumption-cutoff cube blocker.
	cutoff cutoffState

	opts Options
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NewSolver returns a solver configured with the given options.
func NewSolver(opts Options) *Solver {
	s := &Solver{
		arena:       newClauseArena(),
		clauseDecay: opts.ClauseDecay,
		varDecay:    opts.VariableDecay,
		clauseInc:   1,
		gcFrac:      opts.GCFrac,
		propQueue:   NewQueue[Literal](128),
		conflict:    clauseNone,
		maxConflict: -1,
		timeout:     -1,
		seenVar:     &ResetSet{},
		phaseSaving: opts.PhaseSaving,
		ccminMode:   opts.CCMinMode,
		order:       NewVarOrder(opts.VariableDecay, opts.RandomVarFreq, opts.RandomSeed, opts.RndPol),
		restart:     newRestartSchedule(opts.Luby, opts.RestartFirst, opts.RestartInc),
		opts:        opts,
		cutoff:      newCutoffState(opts.AssignmentCutoff),
	}

	if opts.MaxConflicts >= 0 {
		s.hasStopCond = true
		s.maxConflict = opts.MaxConflicts
	}
	if opts.Timeout >= 0 {
		s.hasStopCond = true
		s.timeout = opts.Timeout
	}

	return s
}

// Interrupt asynchronously requests the search to stop at the next restart
// boundary.
func (s *Solver) Interrupt() { s.interrupted.Store(true) }

func (s *Solver) shouldStop() bool {
	if s.interrupted.Load() {
		return true
	}
	if !s.hasStopCond {
		return false
	}
	if s.maxConflict >= 0 && s.maxConflict <= s.TotalConflicts {
		return true
	}
	if s.timeout >= 0 && s.timeout <= time.Since(s.startTime) {
		return true
	}
	return false
}

func (s *Solver) NumVariables() int { return len(s.assigns) / 2 }
func (s *Solver) NumAssigns() int   { return len(s.trail) }
func (s *Solver) NumConstraints() int { return len(s.constraints) }
func (s *Solver) NumLearnts() int   { return len(s.learnts) }

func (s *Solver) VarValue(v int) LBool { return s.assigns[PositiveLiteral(v)] }
func (s *Solver) LitValue(l Literal) LBool { return s.assigns[l] }

// ConstraintLiterals returns a copy of the i-th original clause's current
// literals, for DIMACS output (internal/dimacs.WriteCNF).
func (s *Solver) ConstraintLiterals(i int) []Literal {
	return s.clauseLits(s.constraints[i])
}

// IsUnsat reports whether the solver has determined a root-level conflict.
// Once true it stays true for the lifetime of the solver.
func (s *Solver) IsUnsat() bool { return s.unsat }

// AddVariable allocates a new SAT variable (or recycles a released one) and
// returns its 0-based id.
func (s *Solver) AddVariable() int {
	if n := len(s.freeVars); n > 0 {
		v := s.freeVars[n-1]
		s.freeVars = s.freeVars[:n-1]
		s.released[v] = false
		s.order.SetDecisionVar(v, true)
		return v
	}

	v := s.NumVariables()
	s.watchers = append(s.watchers, watchList{}, watchList{})
	s.reason = append(s.reason, clauseNone)
	s.seenVar.Expand()
	s.minMark = append(s.minMark, minUnset)
	s.released = append(s.released, false)

	s.assigns = append(s.assigns, Unknown, Unknown)
	s.level = append(s.level, -1)
	s.order.AddVar(0, false)

	s.cutoff.expand()

	return v
}

// ReleaseVar retires v: it must currently be unassigned. Released variables
// are excluded from decisions and recycled by future AddVariable calls.
func (s *Solver) ReleaseVar(v int) bool {
	if s.VarValue(v) != Unknown {
		return false // invalid API use: cannot release an assigned variable
	}
	s.released[v] = true
	s.order.SetDecisionVar(v, false)
	s.freeVars = append(s.freeVars, v)
	return true
}

// SetDecisionVar controls whether v may ever be picked by pick_branch_lit.
func (s *Solver) SetDecisionVar(v int, isDecision bool) {
	s.order.SetDecisionVar(v, isDecision)
}

// SetPolarity forces v's branching phase; Unknown clears the override.
func (s *Solver) SetPolarity(v int, pol LBool) {
	s.order.SetUserPolarity(v, pol)
}

// SetEdgeVariableCount declares that variables [0, n) are the graph's edge
// variables: the external-propagator hook checks fullness against this
// prefix and RunSolverEnumerate builds its blocking clause against exactly
// this prefix. n == 0 (the default) treats every variable as an edge
// variable.
func (s *Solver) SetEdgeVariableCount(n int) { s.edgeVarCount = n }

func (s *Solver) edgeVarN() int {
	if s.edgeVarCount > 0 {
		return s.edgeVarCount
	}
	return s.NumVariables()
}

// SetGraphVertexCount declares that the problem encodes a graph on n
// vertices using the edgeVar(i, j, n) numbering (internal/graph), and that
// the leading NumEdgeVars(n) variables are the edge variables consulted by
// the external propagator and by enumeration blocking.
func (s *Solver) SetGraphVertexCount(n int) {
	s.graphN = n
	s.edgeVarCount = graph.NumEdgeVars(n)
}

// SetPropagator installs the external propagator consulted at every
// propagation fixpoint. A nil propagator disables the hook entirely (plain
// CDCL).
func (s *Solver) SetPropagator(p ExternalPropagator) {
	s.propagator = p
}

// AddClause adds an original (non-learnt) clause. Must be called at decision
// level 0.
func (s *Solver) AddClause(clause []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, must be 0", s.decisionLevel())
	}
	tmp := append([]Literal(nil), clause...)
	c, ok := s.newClause(tmp, false)
	if c != clauseNone {
		s.constraints = append(s.constraints, c)
	}
	if !ok {
		s.unsat = true
	}
	return nil
}

// Simplify removes root-level-satisfied clauses from both the constraint and
// learnt databases, and strips root-level-false literals from the rest.
// Must be called at decision level 0 with the propagation queue empty.
func (s *Solver) Simplify() bool {
	if l := s.decisionLevel(); l != 0 {
		log.Fatalf("sat: Simplify called at decision level %d, must be 0", l)
	}
	if s.propQueue.Size() != 0 {
		log.Fatal("sat: Simplify called with a non-empty propagation queue")
	}

	if s.unsat || s.Propagate() != clauseNone {
		s.unsat = true
		return false
	}

	s.simplifySet(&s.learnts)
	s.simplifySet(&s.constraints)
	s.checkGarbage()

	return true
}

func (s *Solver) simplifySet(refs *[]ClauseRef) {
	clauses := *refs
	j := 0
	for i := 0; i < len(clauses); i++ {
		if s.clauseSimplifyOrRemove(clauses[i]) {
			continue
		}
		clauses[j] = clauses[i]
		j++
	}
	*refs = clauses[:j]
}

// clauseSimplifyOrRemove removes r if it is satisfied at level 0, and
// reports whether it did.
func (s *Solver) clauseSimplifyOrRemove(r ClauseRef) bool {
	if s.clauseSimplify(r) {
		s.removeClause(r)
		return true
	}
	return false
}

// ReduceDB evicts the least-active half of the learnt clauses, keeping
// binaries and locked clauses regardless.
func (s *Solver) ReduceDB() {
	lim := s.clauseInc / float64(len(s.learnts))

	sort.Slice(s.learnts, func(i, j int) bool {
		xi, xj := s.learnts[i], s.learnts[j]
		sizeI, sizeJ := s.arena.clauseSize(xi), s.arena.clauseSize(xj)
		if sizeI > 2 && sizeJ == 2 {
			return false
		}
		if sizeJ > 2 && sizeI == 2 {
			return true
		}
		return s.arena.activity(xi) < s.arena.activity(xj)
	})

	i, j := 0, 0
	for ; i < len(s.learnts)/2; i++ {
		r := s.learnts[i]
		if s.arena.clauseSize(r) == 2 || s.clauseLocked(r) {
			s.learnts[j] = r
			j++
		} else {
			s.removeClause(r)
		}
	}
	for ; i < len(s.learnts); i++ {
		r := s.learnts[i]
		if s.arena.clauseSize(r) != 2 && !s.clauseLocked(r) && s.arena.activity(r) < lim {
			s.removeClause(r)
		} else {
			s.learnts[j] = r
			j++
		}
	}
	s.learnts = s.learnts[:j]

	s.checkGarbage()
}

// checkGarbage compacts the clause arena when the wasted fraction exceeds
// GCFrac.
func (s *Solver) checkGarbage() {
	if s.arena.wastedFraction() <= s.gcFrac {
		return
	}
	s.garbageCollect()
}

// garbageCollect copies every live clause into a fresh arena and relocates
// every reference the solver itself holds (constraints, learnts, watchers,
// reasons, and the cached conflict). Any ClauseRef a caller is holding
// outside the solver becomes stale at this point.
func (s *Solver) garbageCollect() {
	dst := newClauseArena()

	relocList := func(refs []ClauseRef) {
		for i, r := range refs {
			refs[i] = s.arena.relocate(r, dst)
		}
	}
	relocList(s.constraints)
	relocList(s.learnts)

	for l := range s.watchers {
		wl := &s.watchers[Literal(l)]
		j := 0
		for _, w := range wl.entries {
			if s.clauseRemoved(w.clause) {
				continue
			}
			w.clause = s.arena.relocate(w.clause, dst)
			wl.entries[j] = w
			j++
		}
		wl.entries = wl.entries[:j]
		wl.dirty = false
	}

	for v := range s.reason {
		if s.reason[v] != clauseNone {
			s.reason[v] = s.arena.relocate(s.reason[v], dst)
		}
	}
	if s.conflict != clauseNone {
		s.conflict = s.arena.relocate(s.conflict, dst)
	}

	s.arena = dst
}

// record installs a just-derived learnt clause as the reason for its
// asserting literal.
func (s *Solver) record(clause []Literal) {
	c, _ := s.newClause(clause, true)
	s.enqueue(clause[0], c)
	if c != clauseNone {
		s.learnts = append(s.learnts, c)
	}
}

// Propagate runs two-watched-literal unit propagation to a fixpoint.
// Returns clauseNone on success (queue drained); otherwise the falsified
// clause.
func (s *Solver) Propagate() ClauseRef {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()
		s.cleanWatchList(l)

		wl := &s.watchers[l]
		s.tmpWatchers = append(s.tmpWatchers[:0], wl.entries...)
		wl.entries = wl.entries[:0]

		for i, w := range s.tmpWatchers {
			if s.LitValue(w.blocker) == True {
				wl.entries = append(wl.entries, w)
				continue
			}
			if s.clausePropagate(w.clause, l) {
				continue
			}

			wl.entries = append(wl.entries, s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			s.conflict = w.clause
			return w.clause
		}
	}
	s.conflict = clauseNone
	return clauseNone
}

// Solve runs the full CDCL search to completion: restarts, ReduceDB,
// Simplify, and the external-propagator hook are all driven internally. Use
// the stepwise driver (stepwise.go) instead for externally-driven,
// step-by-step control.
func (s *Solver) Solve() LBool {
	if s.unsat {
		return False
	}

	s.maxLearnts = float64(s.NumConstraints()) * s.opts.LearntSizeFactor
	s.learntSizeAdjustConfl = float64(s.opts.LearntSizeAdjustStartConfl)
	s.learntSizeAdjustInc = s.opts.LearntSizeAdjustInc
	s.startTime = time.Now()

	status := Unknown
	for status == Unknown {
		limit := s.restart.next()
		status = s.Search(limit)
		if s.shouldStop() {
			break
		}
	}

	s.printSearchStats()
	s.cancelUntil(0)
	return status
}

// Search runs until nConflicts conflicts have been hit since entry (a
// restart boundary), a solution is found, the budget is exhausted, or the
// problem is shown UNSAT. nConflicts <= 0 means unbounded. The stepwise
// driver (stepwise.go) never calls Search; it drives propagation and
// decisions one step at a time instead.
func (s *Solver) Search(nConflicts int64) LBool {
	if s.unsat {
		return False
	}

	s.TotalRestarts++
	var conflictCount int64

	for !s.shouldStop() {
		if s.TotalIterations%10000 == 0 {
			s.printSearchStats()
		}
		s.TotalIterations++

		if confl := s.Propagate(); confl != clauseNone {
			conflictCount++
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learnt, btLevel := s.analyze(confl)
			s.cancelUntil(btLevel)

			if len(learnt) == 1 {
				s.enqueue(learnt[0], clauseNone)
			} else {
				s.record(learnt)
			}

			s.decayClaActivity()
			s.decayVarActivity()
			s.bumpLearntSizeAdjust()
			continue
		}

		// No conflict: the trail is stable under propagation.
		if s.decisionLevel() == 0 {
			if !s.Simplify() {
				return False
			}
		}

		if int64(len(s.learnts))-int64(s.NumAssigns()) >= int64(s.maxLearnts) {
			s.ReduceDB()
		}

		if verdict := s.consultPropagator(); verdict != propagatorContinue {
			if verdict == propagatorUnsat {
				return False
			}
			continue // lemma absorbed, retry propagation
		}

		if s.NumAssigns() == s.NumVariables() {
			s.saveModel()
			return True
		}

		if s.cutoff.enabled() && s.shouldCutoff() {
			s.emitCutoffBlocker()
			continue
		}

		if nConflicts > 0 && conflictCount >= nConflicts {
			s.cancelUntil(0)
			return Unknown
		}

		next := s.order.NextDecision(s)
		if next == NoneLiteral {
			s.saveModel()
			return True
		}
		s.assume(next)
	}

	return Unknown
}

// bumpLearntSizeAdjust widens the learnt-clause size budget every
// LearntSizeAdjustStartConfl-scaled number of conflicts, geometrically.
func (s *Solver) bumpLearntSizeAdjust() {
	s.learntSizeAdjustCnt--
	if s.learntSizeAdjustCnt > 0 {
		return
	}
	s.learntSizeAdjustConfl *= s.learntSizeAdjustInc
	s.learntSizeAdjustCnt = int(s.learntSizeAdjustConfl)
	s.maxLearnts *= s.opts.LearntSizeInc
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		lb := s.VarValue(i)
		if lb == Unknown {
			panic("sat: saveModel called with an incomplete assignment")
		}
		model[i] = lb == True
	}
	s.Models = append(s.Models, model)
}

func (s *Solver) printSearchStats() {
	fmt.Printf(
		"c %14.3fs %14d %14d %14d %14d\n",
		time.Since(s.startTime).Seconds(),
		s.TotalIterations,
		s.TotalConflicts,
		s.TotalRestarts,
		len(s.learnts))
}

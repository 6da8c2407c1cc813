package sat

// decisionLevel returns the current decision level, i.e. the number of
// decisions made since the root.
func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

// enqueue assigns literal l true, recording its reason clause (clauseNone
// for a decision or root unit). Returns false if l is already false under
// the current assignment (a conflicting assignment); true otherwise,
// including when l was already true.
func (s *Solver) enqueue(l Literal, from ClauseRef) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		v := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[v] = s.decisionLevel()
		s.reason[v] = from
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

// assume pushes a new decision level and enqueues l as a decision (reason
// clauseNone).
func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, clauseNone)
}

// undoOne unassigns the most recently trailed literal, reinserting its
// variable into the order heap. save controls whether the variable's phase
// is overwritten with the value it just held, per Options.PhaseSaving mode.
func (s *Solver) undoOne(save bool) {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	s.order.Reinsert(v, s.assigns[l], save)
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = clauseNone
	s.level[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

// cancel undoes every assignment made since the last decision, then pops the
// decision-level boundary.
func (s *Solver) cancel(topLevel bool) {
	save := s.phaseSaving == 2 || (s.phaseSaving == 1 && topLevel)
	lim := s.trailLim[len(s.trailLim)-1]
	for len(s.trail) > lim {
		s.undoOne(save)
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil backjumps the trail to the given decision level.
func (s *Solver) cancelUntil(level int) {
	start := s.decisionLevel()
	for s.decisionLevel() > level {
		s.cancel(s.decisionLevel() == start)
	}
	s.qheadReset()
}

// qheadReset clears any half-drained propagation queue after a backjump; the
// queue only ever holds literals above the level being cancelled to, all of
// which were just undone.
func (s *Solver) qheadReset() {
	s.propQueue.Clear()
	s.conflict = clauseNone
}

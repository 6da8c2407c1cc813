package sat

// analyze derives a 1-UIP learnt clause from a conflicting clause, generalized
// to ClauseRefs and extended with ccmin_mode=2 redundancy-based minimization.
//
// Returns the learnt clause (asserting literal at index 0) and the
// backjump level (the second-highest decision level among the clause's
// remaining literals, or 0 if the clause is unit).
func (s *Solver) analyze(confl ClauseRef) ([]Literal, int) {
	nImplicationPoints := 0

	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, NoneLiteral) // reserved for the UIP

	nextLiteral := len(s.trail) - 1
	l := NoneLiteral // conflict marker for the first explain() call
	s.seenVar.Clear()

	for {
		for _, q := range s.explain(confl, l) {
			v := q.VarID()
			if s.seenVar.Contains(v) || s.level[v] == 0 {
				continue
			}

			s.bumpVarActivity(q)
			s.seenVar.Add(v)
			if s.level[v] >= s.decisionLevel() {
				nImplicationPoints++
				continue
			}
			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
		}

		for {
			l = s.trail[nextLiteral]
			nextLiteral--
			v := l.VarID()
			confl = s.reason[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnts[0] = l.Opposite()
	s.minimize()

	backtrackLevel := 0
	if len(s.tmpLearnts) > 1 {
		maxIdx := 1
		for i := 2; i < len(s.tmpLearnts); i++ {
			if lv := s.level[s.tmpLearnts[i].VarID()]; lv > s.level[s.tmpLearnts[maxIdx].VarID()] {
				maxIdx = i
			}
		}
		s.tmpLearnts[1], s.tmpLearnts[maxIdx] = s.tmpLearnts[maxIdx], s.tmpLearnts[1]
		backtrackLevel = s.level[s.tmpLearnts[1].VarID()]
	}

	for _, v := range s.analyzeToClear {
		s.minMark[v] = minUnset
	}
	s.analyzeToClear = s.analyzeToClear[:0]

	return s.tmpLearnts, backtrackLevel
}

// Minimization marks: memoize the outcome of lit_redundant so
// the same variable's reason chain is never re-walked within one analyze
// call. minUnset is the zero value so a freshly-grown slice needs no
// initialization.
type minMark uint8

const (
	minUnset minMark = iota
	minRemovable
	minFailed
)

// minimize drops literals of s.tmpLearnts[1:] that are redundant: a literal
// ℓ is redundant iff every literal of its reason clause is either at level
// 0, already seen, or itself redundant.
func (s *Solver) minimize() {
	if s.ccminMode != 2 {
		return
	}

	out := s.tmpLearnts[:1]
	for _, l := range s.tmpLearnts[1:] {
		if s.reason[l.VarID()] == clauseNone || !s.litRedundant(l) {
			out = append(out, l)
		}
	}
	s.tmpLearnts = out
}

// litRedundant implements the recursive redundancy test with an explicit
// work stack, memoizing results in s.minMark.
func (s *Solver) litRedundant(l Literal) bool {
	v := l.VarID()
	if m := s.minMark[v]; m != minUnset {
		return m == minRemovable
	}

	s.minimizeStack = s.minimizeStack[:0]
	s.minimizeStack = append(s.minimizeStack, l)
	top := 0 // index of the literal currently being expanded

	for top < len(s.minimizeStack) {
		cur := s.minimizeStack[top]
		cv := cur.VarID()

		reason := s.reason[cv]
		if reason == clauseNone {
			s.markFailed(s.minimizeStack[:top+1])
			return false
		}

		for _, q := range s.explain(reason, PositiveLiteral(cv)) {
			qv := q.VarID()
			if qv == cv || s.seenVar.Contains(qv) || s.level[qv] == 0 {
				continue
			}
			if m := s.minMark[qv]; m == minRemovable {
				continue
			} else if m == minFailed {
				s.markFailed(s.minimizeStack[:top+1])
				return false
			}
			if s.reason[qv] == clauseNone {
				s.markFailed(s.minimizeStack[:top+1])
				return false
			}
			s.minimizeStack = append(s.minimizeStack, q)
		}
		top++
	}

	for _, q := range s.minimizeStack {
		qv := q.VarID()
		if s.minMark[qv] == minUnset {
			s.minMark[qv] = minRemovable
			s.analyzeToClear = append(s.analyzeToClear, qv)
		}
	}
	return true
}

func (s *Solver) markFailed(lits []Literal) {
	for _, q := range lits {
		qv := q.VarID()
		if s.minMark[qv] == minUnset {
			s.minMark[qv] = minFailed
			s.analyzeToClear = append(s.analyzeToClear, qv)
		}
	}
}

// bumpVarActivity increases q's variable activity.
func (s *Solver) bumpVarActivity(q Literal) {
	s.order.BumpScore(q.VarID())
}

// bumpClauseActivity increases a learnt clause's activity.
func (s *Solver) bumpClauseActivity(r ClauseRef) {
	newAct := s.arena.activity(r) + s.clauseInc
	s.arena.setActivity(r, newAct)

	if newAct > 1e100 {
		s.clauseInc *= 1e-100
		for _, c := range s.learnts {
			s.arena.setActivity(c, s.arena.activity(c)*1e-100)
		}
	}
}

func (s *Solver) decayClaActivity() { s.clauseInc *= s.clauseDecay }
func (s *Solver) decayVarActivity() { s.order.DecayScores() }

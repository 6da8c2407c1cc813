package sat

import "sort"

// IngestOutcome reports the result of AddClauseDuringSearch.
type IngestOutcome int

const (
	IngestOK IngestOutcome = iota
	IngestUnsat
)

// AddClauseDuringSearch implements add_clause_during_search:
// it attaches a clause to an already-running solver at whatever decision
// level the trail happens to be at, without requiring a restart to level 0.
//
// It is the mechanism by which both external-propagator lemmas and the
// enumeration blocking clause enter the solver mid-search.
func (s *Solver) AddClauseDuringSearch(c []Literal) IngestOutcome {
	if len(c) == 0 {
		s.unsat = true
		return IngestUnsat
	}

	tmp := append([]Literal(nil), c...)
	s.sortByUndefThenLevel(tmp)

	u := 0
	for u < len(tmp) && s.LitValue(tmp[u]) == Unknown {
		u++
	}

	h := 0
	if u < len(tmp) {
		h = s.level[tmp[u].VarID()]
	}
	m := 0
	for _, l := range tmp {
		if s.LitValue(l) != Unknown && s.level[l.VarID()] == h {
			m++
		}
	}

	switch {
	case u == len(tmp):
		// Case 4: every literal undefined, nothing to simplify against --
		// attach at the root like any other original clause. newClause is
		// safe here since cancelUntil(0) makes the root assignment (and so
		// its simplification) permanent; a unit clause is enqueued, a
		// larger one gets a normal two-watched-literal attachment.
		s.cancelUntil(0)
		ref, ok := s.newClause(tmp, false)
		if !ok {
			s.unsat = true
			return IngestUnsat
		}
		if ref != clauseNone {
			s.constraints = append(s.constraints, ref)
		}
		return IngestOK

	case u == 0 && h == 0:
		// Case 5: falsified at the root.
		s.unsat = true
		return IngestUnsat

	case u == 1:
		// Case 6: unit under the trail once backjumped to h -- asserting.
		// attachClause, not newClause: c's literals are only simplifiable
		// against a permanent (level-0) assignment, and h may be > 0 here.
		s.cancelUntil(h)
		ref, ok := s.attachClause(tmp, false)
		if !ok {
			s.unsat = true
			return IngestUnsat
		}
		if ref != clauseNone {
			s.constraints = append(s.constraints, ref)
			for _, l := range tmp {
				s.bumpVarActivity(l)
			}
			s.enqueue(tmp[0], ref)
		}
		return IngestOK

	case u == 0 && m > 1:
		// Case 7: conflicting at level h -- must go through proper conflict
		// analysis, or future search would revisit the same conflict.
		// Installed as an original clause (not learnt) since the oracle, not
		// the solver's own search, derived it; ReduceDB must never evict it.
		// attachClause keeps every literal of c intact for analyze to walk;
		// newClause's root-only simplification would drop literals false
		// only at the current (non-root) level h, corrupting the conflict.
		s.cancelUntil(h)
		ref, ok := s.attachClause(tmp, false)
		if !ok {
			s.unsat = true
			return IngestUnsat
		}
		if ref != clauseNone {
			s.constraints = append(s.constraints, ref)
		}
		if ref == clauseNone {
			return IngestOK
		}
		learnt, btLevel := s.analyze(ref)
		s.cancelUntil(btLevel)
		if len(learnt) == 1 {
			s.enqueue(learnt[0], clauseNone)
		} else {
			s.record(learnt)
		}
		return IngestOK

	case u == 0 && m == 1:
		// Case 8: already asserting after a backjump to the second-highest
		// level among c's literals. attachClause for the same reason as
		// case 6: h may be nonzero, so only the raw literals are sound.
		s.cancelUntil(s.level[tmp[1].VarID()])
		ref, ok := s.attachClause(tmp, false)
		if !ok {
			s.unsat = true
			return IngestUnsat
		}
		if ref != clauseNone {
			s.constraints = append(s.constraints, ref)
			s.enqueue(tmp[0], ref)
		}
		return IngestOK

	case u >= 2:
		// Two or more undefined literals alongside assigned ones: nothing is
		// implied yet, so the clause is attached as is, watching two of its
		// undefined literals (sorted to the front).
		ref, ok := s.attachClause(tmp, false)
		if !ok {
			s.unsat = true
			return IngestUnsat
		}
		if ref != clauseNone {
			s.constraints = append(s.constraints, ref)
		}
		return IngestOK
	}

	// Unreachable: the six cases above are exhaustive over (u, h, m).
	return IngestOK
}

// sortByUndefThenLevel orders c so that undefined literals come first,
// followed by assigned literals in descending decision level.
func (s *Solver) sortByUndefThenLevel(c []Literal) {
	sort.SliceStable(c, func(i, j int) bool {
		li, lj := c[i], c[j]
		ui := s.LitValue(li) == Unknown
		uj := s.LitValue(lj) == Unknown
		if ui != uj {
			return ui // undefined literals sort first
		}
		if ui {
			return false // both undefined, relative order doesn't matter
		}
		return s.level[li.VarID()] > s.level[lj.VarID()]
	})
}

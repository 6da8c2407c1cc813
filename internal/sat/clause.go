package sat

// newClause validates and (if non-degenerate) allocates a clause over the
// solver's arena, attaching its first two literals to the watch lists. The
// !learnt simplification below (dedup, tautology check, dropping literals
// already valued under the current assignment) is only sound when that
// assignment is permanent, i.e. the solver is at decision level 0 -- every
// caller of newClause with learnt=false must hold that invariant (AddClause
// enforces it by construction; a clause built mid-search against a
// non-root assignment must go through attachClause instead, since a
// "currently false" literal there may become unassigned again on a later
// backtrack).
//
// Returns (ref, ok). ok is false iff the clause is a root-level conflict
// (empty after simplification). ref is clauseNone when the clause was
// absorbed (always true, or reduced to a root unit that was enqueued
// directly) or when ok is false.
func (s *Solver) newClause(tmp []Literal, learnt bool) (ClauseRef, bool) {
	if !learnt {
		size := len(tmp)
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmp[i].Opposite()]; ok {
				return clauseNone, true // tautology
			}
			if _, ok := seen[tmp[i]]; ok {
				size--
				tmp[i], tmp[size] = tmp[size], tmp[i]
				continue
			}
			seen[tmp[i]] = struct{}{}

			switch s.LitValue(tmp[i]) {
			case True:
				return clauseNone, true // already satisfied
			case False:
				size--
				tmp[i], tmp[size] = tmp[size], tmp[i]
			}
		}
		tmp = tmp[:size]
	}

	return s.attachClause(tmp, learnt)
}

// attachClause allocates tmp over the arena (if non-degenerate) and attaches
// its first two literals to the watch lists, performing no simplification of
// its own: the caller is responsible for tmp already being exactly the
// literals that belong in the clause. Used directly (bypassing newClause's
// root-only simplification) by clause ingestion mid-search, where a literal
// being false under the current assignment doesn't mean it can be dropped.
//
// Returns (ref, ok) with the same meaning as newClause.
func (s *Solver) attachClause(tmp []Literal, learnt bool) (ClauseRef, bool) {
	switch len(tmp) {
	case 0:
		return clauseNone, false
	case 1:
		return clauseNone, s.enqueue(tmp[0], clauseNone)
	default:
		if learnt {
			// Move the literal with the highest decision level (other than
			// the asserting literal at index 0) into index 1 so that the
			// watch attached there is the one that becomes unwatched on the
			// very next backjump.
			maxLevel, wl := -1, 1
			for i := 1; i < len(tmp); i++ {
				if lv := s.level[tmp[i].VarID()]; lv > maxLevel {
					maxLevel, wl = lv, i
				}
			}
			tmp[1], tmp[wl] = tmp[wl], tmp[1]
		}

		ref := s.arena.alloc(tmp, learnt)
		if learnt {
			s.arena.setActivity(ref, 0)
		} else {
			s.arena.setAbstraction(ref, clauseAbstraction(tmp))
		}

		s.watch(ref, s.arena.lit(ref, 0).Opposite(), s.arena.lit(ref, 1))
		s.watch(ref, s.arena.lit(ref, 1).Opposite(), s.arena.lit(ref, 0))

		return ref, true
	}
}

// clauseAbstraction computes the var-mod-32 bitmask subsumption hint: a
// 32-bit mask with bit (v mod 32) set for every variable v in the clause.
func clauseAbstraction(lits []Literal) uint32 {
	var mask uint32
	for _, l := range lits {
		mask |= 1 << uint(l.VarID()%32)
	}
	return mask
}

// clauseRemoved reports whether r has been marked removed (and so should be
// skipped by a lazily-cleaned watch list).
func (s *Solver) clauseRemoved(r ClauseRef) bool {
	return s.arena.isRemoved(r)
}

// clauseLocked reports whether c is currently "locked": it equals the reason
// of its first literal's variable and that literal is currently assigned
// true. Locked clauses are never evicted by ReduceDB even if they would
// otherwise qualify; Simplify removes a satisfied clause whether or not it
// is locked.
func (s *Solver) clauseLocked(r ClauseRef) bool {
	first := s.arena.lit(r, 0)
	return s.LitValue(first) == True && s.reason[first.VarID()] == r
}

// removeClause detaches a clause from both its watch lists and marks it
// removed in the arena so lazy watch-list cleaning can drop stale entries.
func (s *Solver) removeClause(r ClauseRef) {
	s.smudge(s.arena.lit(r, 0).Opposite())
	s.smudge(s.arena.lit(r, 1).Opposite())
	s.arena.markRemoved(r)
	s.arena.free(r)
}

// clauseSimplify strips literals already false at level 0 and reports
// whether the clause is now satisfied (and can be dropped entirely).
func (s *Solver) clauseSimplify(r ClauseRef) bool {
	size := s.arena.clauseSize(r)
	extra := s.arena.data[s.arena.extraIdx(r)]
	k := 0
	for i := 0; i < size; i++ {
		l := s.arena.lit(r, i)
		switch s.LitValue(l) {
		case True:
			return true
		case False:
			// discard
		default:
			s.arena.setLit(r, k, l)
			k++
		}
	}
	// Shrink the header's size field in place, move the extra word to its
	// new position right after the literals, and count the now-unused tail
	// words as waste for the next GC.
	h := s.arena.header(r)
	learntBit := h & hdrLearntBit
	s.arena.setHeader(r, uint32(k)<<hdrSizeShift|hdrHasExtra|learntBit)
	s.arena.data[s.arena.extraIdx(r)] = extra
	s.arena.wasted += size - k
	return false
}

// clausePropagate is invoked when literal l (the negation of one of the
// clause's two watched literals) has just been assigned true. It implements
// the two-watched-literal walk for a single clause: ensure the triggering
// literal sits at index 1, look for a replacement watch among literals[2:],
// and otherwise enqueue (or conflict on) literals[0].
//
// Returns false only on conflict (literals[0] is already false); true when
// the clause is satisfied, a replacement watch was installed, or
// literals[0] was enqueued as a unit -- true meaning "keep going", false
// meaning "this was the last watcher examined".
func (s *Solver) clausePropagate(r ClauseRef, l Literal) bool {
	opp := l.Opposite()
	if s.arena.lit(r, 0) == opp {
		s.arena.setLit(r, 0, s.arena.lit(r, 1))
		s.arena.setLit(r, 1, opp)
	}

	first := s.arena.lit(r, 0)
	if s.LitValue(first) == True {
		s.watch(r, l, first)
		return true
	}

	size := s.arena.clauseSize(r)
	for i := 2; i < size; i++ {
		lit := s.arena.lit(r, i)
		if s.LitValue(lit) != False {
			s.arena.setLit(r, 1, lit)
			s.arena.setLit(r, i, opp)
			s.watch(r, lit.Opposite(), first)
			return true
		}
	}

	s.watch(r, l, first)
	return s.enqueue(first, r)
}

// explainConflict returns the negation of every literal in a falsified
// clause, i.e. the reason for the conflict.
func (s *Solver) explainConflict(r ClauseRef, out []Literal) []Literal {
	out = out[:0]
	size := s.arena.clauseSize(r)
	for i := 0; i < size; i++ {
		out = append(out, s.arena.lit(r, i).Opposite())
	}
	if s.arena.isLearnt(r) {
		s.bumpClauseActivity(r)
	}
	return out
}

// explainAssign returns the negation of every literal but the first, i.e.
// the reason literals[0] was forced true by this clause.
func (s *Solver) explainAssign(r ClauseRef, out []Literal) []Literal {
	out = out[:0]
	size := s.arena.clauseSize(r)
	for i := 1; i < size; i++ {
		out = append(out, s.arena.lit(r, i).Opposite())
	}
	if s.arena.isLearnt(r) {
		s.bumpClauseActivity(r)
	}
	return out
}

// explain dispatches to explainConflict or explainAssign depending on
// whether l is the NoneLiteral conflict marker.
func (s *Solver) explain(c ClauseRef, l Literal) []Literal {
	if l == NoneLiteral {
		return s.explainConflict(c, s.tmpReason)
	}
	return s.explainAssign(c, s.tmpReason)
}

// clauseLits returns a copy of a clause's current literals, used by
// higher-level code (ingestion, stepwise driver, DIMACS writer) that needs
// to inspect a clause outside the hot propagation path.
func (s *Solver) clauseLits(r ClauseRef) []Literal {
	return s.arena.lits(r)
}

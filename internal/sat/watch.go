package sat

// watcher is one entry of a literal's watch list: the clause that must be
// re-examined when the literal becomes true, plus a cached "blocker" literal
// that was observed true in the past. If the blocker is still true, the
// watcher can be skipped without even loading the clause from the arena.
type watcher struct {
	clause  ClauseRef
	blocker Literal
}

// watchList holds the watchers for a single literal plus a smudge flag.
// Detach is lazy: removing a clause from a watch list only marks the list
// dirty; a subsequent walk compacts out the clauses whose arena header
// carries the removed flag (hdrRemoved). This avoids an O(n) linear scan through every other
// watch list the removed clause touches.
type watchList struct {
	entries []watcher
	dirty   bool
}

func (s *Solver) watchersOf(l Literal) *watchList {
	return &s.watchers[l]
}

// watch registers clause c to be woken up when literal watch becomes true.
func (s *Solver) watch(c ClauseRef, watch Literal, blocker Literal) {
	wl := s.watchersOf(watch)
	wl.entries = append(wl.entries, watcher{clause: c, blocker: blocker})
}

// smudge marks the watch list of watch as needing a cleaning pass the next
// time it is walked, without touching it now. Used by clause removal so that
// ReduceDB/Simplify sweeps don't have to search every watch list for the
// clause being removed.
func (s *Solver) smudge(watch Literal) {
	s.watchersOf(watch).dirty = true
}

// cleanWatchList drops every watcher whose clause has been marked removed,
// compacting the slice in place. It is run lazily, right before a watch list
// is walked by Propagate.
func (s *Solver) cleanWatchList(watch Literal) {
	wl := s.watchersOf(watch)
	if !wl.dirty {
		return
	}
	j := 0
	for i := range wl.entries {
		if s.clauseRemoved(wl.entries[i].clause) {
			continue
		}
		wl.entries[j] = wl.entries[i]
		j++
	}
	wl.entries = wl.entries[:j]
	wl.dirty = false
}

// unwatchExact removes a single occurrence of clause c from the watch list
// of watch eagerly. Nothing in the package calls it: Propagate moves a watch
// by rebuilding the walked list without the old entry, and clause removal
// goes through smudge.
func (s *Solver) unwatchExact(c ClauseRef, watch Literal) {
	wl := s.watchersOf(watch)
	for i := range wl.entries {
		if wl.entries[i].clause == c {
			wl.entries[i] = wl.entries[len(wl.entries)-1]
			wl.entries = wl.entries[:len(wl.entries)-1]
			return
		}
	}
}

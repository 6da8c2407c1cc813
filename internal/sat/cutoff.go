package sat

import (
	"fmt"
	"os"
	"time"
)

// cutoffState implements an assumption-cutoff "cube blocker": an optional
// subsystem that short-circuits deep branches once enough edge variables are
// assigned and a time prerun threshold has passed, by emitting the current
// partial assignment as a DIMACS-shaped trace line and blocking it with a
// clause, using the same ingestion path as a dynamically added clause.
type cutoffState struct {
	threshold int // Options.AssignmentCutoff; 0 disables the subsystem
	prerun    time.Duration
}

func newCutoffState(threshold int) cutoffState {
	return cutoffState{threshold: threshold, prerun: 30 * time.Second}
}

func (c *cutoffState) enabled() bool { return c.threshold > 0 }

func (c *cutoffState) expand() {}

// shouldCutoff reports whether the current search state meets the cube
// blocker's trigger condition: a time prerun threshold has passed and at
// least threshold edge variables are currently assigned.
func (s *Solver) shouldCutoff() bool {
	if time.Since(s.startTime) < s.cutoff.prerun {
		return false
	}
	n := s.edgeVarN()
	assigned := 0
	for v := 0; v < n; v++ {
		if s.VarValue(v) != Unknown {
			assigned++
		}
	}
	return assigned >= s.cutoff.threshold
}

// emitCutoffBlocker traces the current edge-variable assignment as a
// DIMACS-shaped "a <lits> 0" line, then adds the clause that blocks exactly
// that cube (the negated conjunction) so search moves past it.
func (s *Solver) emitCutoffBlocker() {
	n := s.edgeVarN()
	cube := make([]Literal, 0, n)
	blocker := make([]Literal, 0, n)
	for v := 0; v < n; v++ {
		switch s.VarValue(v) {
		case True:
			cube = append(cube, PositiveLiteral(v))
			blocker = append(blocker, NegativeLiteral(v))
		case False:
			cube = append(cube, NegativeLiteral(v))
			blocker = append(blocker, PositiveLiteral(v))
		}
	}

	fmt.Fprint(os.Stderr, "a")
	for _, l := range cube {
		fmt.Fprintf(os.Stderr, " %d", l.DimacsInt())
	}
	fmt.Fprintln(os.Stderr, " 0")

	s.AddClauseDuringSearch(blocker)
}

package sat

import "github.com/adrianmoors/smsolve/internal/graph"

// CheckResult is the verdict an ExternalPropagator returns from Check.
type CheckResult struct {
	// Kind discriminates the three possible verdicts.
	Kind CheckKind

	// Lemma holds the clause for Kind == ResultLemma, expressed as raw
	// solver literals (already translated from edge/coloring references by
	// the propagator implementation).
	Lemma []Literal

	// Lemmas holds one clause per entry for Kind == ResultLemmas; applied
	// one at a time by consultPropagator, stopping at the first one that
	// is absorbed or proves UNSAT.
	Lemmas [][]Literal
}

type CheckKind uint8

const (
	ResultOK CheckKind = iota
	ResultLemma
	ResultLemmas
)

// ExternalPropagator is the "theory" oracle consulted at every propagation
// fixpoint. It must be pure with respect to the snapshot it
// is handed and must not retain references to solver internals across
// calls.
type ExternalPropagator interface {
	Check(snap *graph.Snapshot, isFullAssignment bool) CheckResult
}

// propagatorVerdict is consultPropagator's internal return code, a ternary
// continue/absorbed/unsat outcome kept separate from CheckResult's own Kind
// (that one describes the oracle's verdict; this one describes what the
// solver did in response).
type propagatorVerdict uint8

const (
	propagatorContinue propagatorVerdict = iota // no lemma, or oracle disabled: proceed to branching
	propagatorAbsorbed                          // lemma(s) ingested: retry propagation
	propagatorUnsat                             // lemma empty or falsified at level 0
)

// consultPropagator builds the edge-variable snapshot, invokes the
// installed propagator (if any), and routes its verdict through dynamic
// clause ingestion. Only called once propagation has reached a fixpoint
// with no pending internal conflict.
func (s *Solver) consultPropagator() propagatorVerdict {
	if s.propagator == nil {
		return propagatorContinue
	}

	full := s.isFullEdgeAssignment()
	snap := s.edgeSnapshot()
	result := s.propagator.Check(snap, full)

	switch result.Kind {
	case ResultOK:
		return propagatorContinue

	case ResultLemma:
		return s.absorbLemma(result.Lemma)

	case ResultLemmas:
		for _, lemma := range result.Lemmas {
			verdict := s.absorbLemma(lemma)
			if verdict != propagatorContinue {
				return verdict
			}
		}
		// absorbLemma never reports propagatorContinue, so this is reached
		// only when Lemmas is empty (a CheckResult{Kind: ResultLemmas} with
		// no lemmas at all): treat as OK.
		return propagatorContinue

	default:
		return propagatorContinue
	}
}

func (s *Solver) absorbLemma(lemma []Literal) propagatorVerdict {
	switch s.AddClauseDuringSearch(lemma) {
	case IngestUnsat:
		return propagatorUnsat
	default:
		return propagatorAbsorbed
	}
}

// isFullEdgeAssignment reports whether every edge variable currently has a
// value.
func (s *Solver) isFullEdgeAssignment() bool {
	n := s.edgeVarN()
	for v := 0; v < n; v++ {
		if s.VarValue(v) == Unknown {
			return false
		}
	}
	return true
}

// edgeSnapshot builds the n*n symmetric {true,false,unknown} matrix handed
// to the oracle. Requires SetGraphVertexCount to have been
// called; panics otherwise since the propagator contract is meaningless
// without a vertex count.
func (s *Solver) edgeSnapshot() *graph.Snapshot {
	if s.graphN == 0 {
		panic("sat: external propagator installed without SetGraphVertexCount")
	}
	snap := graph.NewSnapshot(s.graphN)
	for i := 0; i < s.graphN; i++ {
		for j := i + 1; j < s.graphN; j++ {
			v := graph.EdgeVar(i, j, s.graphN)
			var c graph.Cell
			switch s.VarValue(v) {
			case True:
				c = graph.True
			case False:
				c = graph.False
			default:
				c = graph.Unknown
			}
			snap.Set(i, j, c)
		}
	}
	return snap
}

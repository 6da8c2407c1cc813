package sat

import (
	"testing"

	"github.com/adrianmoors/smsolve/internal/graph"
)

// fakePropagator is a minimal ExternalPropagator used to exercise
// consultPropagator's routing without a real symmetry oracle.
type fakePropagator struct {
	calls   int
	results []CheckResult // results[calls] is returned on each successive call, last entry repeats
}

func (p *fakePropagator) Check(snap *graph.Snapshot, full bool) CheckResult {
	i := p.calls
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	p.calls++
	return p.results[i]
}

func TestConsultPropagator_OKContinues(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	s.SetGraphVertexCount(2)
	s.SetPropagator(&fakePropagator{results: []CheckResult{{Kind: ResultOK}}})

	if got := s.consultPropagator(); got != propagatorContinue {
		t.Errorf("consultPropagator() = %v, want propagatorContinue", got)
	}
}

func TestConsultPropagator_LemmaIsIngested(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	s.SetGraphVertexCount(2)
	lemma := []Literal{PositiveLiteral(0)}
	s.SetPropagator(&fakePropagator{results: []CheckResult{{Kind: ResultLemma, Lemma: lemma}}})

	if got := s.consultPropagator(); got != propagatorAbsorbed {
		t.Fatalf("consultPropagator() = %v, want propagatorAbsorbed", got)
	}
	if s.VarValue(0) != True {
		t.Errorf("var0 = %s, want true (unit lemma ingested)", s.VarValue(0))
	}
}

func TestConsultPropagator_UnsatLemma(t *testing.T) {
	s := newTestSolver()
	addVars(s, 1)
	s.SetGraphVertexCount(1)
	s.SetPropagator(&fakePropagator{results: []CheckResult{{Kind: ResultLemma, Lemma: nil}}})

	if got := s.consultPropagator(); got != propagatorUnsat {
		t.Fatalf("consultPropagator() = %v, want propagatorUnsat", got)
	}
}

func TestConsultPropagator_NilPropagatorContinues(t *testing.T) {
	s := newTestSolver()
	addVars(s, 1)
	if got := s.consultPropagator(); got != propagatorContinue {
		t.Errorf("consultPropagator() with no propagator = %v, want propagatorContinue", got)
	}
}

func TestConsultPropagator_LemmasStopsAtFirstAbsorbed(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	s.SetGraphVertexCount(2)
	first := []Literal{PositiveLiteral(0)}
	second := []Literal{PositiveLiteral(1)}
	s.SetPropagator(&fakePropagator{results: []CheckResult{
		{Kind: ResultLemmas, Lemmas: [][]Literal{first, second}},
	}})

	if got := s.consultPropagator(); got != propagatorAbsorbed {
		t.Fatalf("consultPropagator() = %v, want propagatorAbsorbed", got)
	}
	if s.VarValue(0) != True {
		t.Errorf("var0 = %s, want true (first lemma applied)", s.VarValue(0))
	}
	if s.VarValue(1) != Unknown {
		t.Errorf("var1 = %s, want unknown (second lemma never applied, per first-absorbed-wins policy)", s.VarValue(1))
	}
}

package sat

import "testing"

func TestClausePropagate_UnitForcesLastLiteral(t *testing.T) {
	s := newTestSolver()
	addVars(s, 3)
	mustAddClause(t, s, []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})

	s.assume(NegativeLiteral(0))
	s.Propagate()
	s.assume(NegativeLiteral(1))
	if confl := s.Propagate(); confl != clauseNone {
		t.Fatalf("Propagate() = %v, want no conflict", confl)
	}
	if s.VarValue(2) != True {
		t.Errorf("var2 = %s, want true (last literal of an otherwise-false clause)", s.VarValue(2))
	}
}

func TestClausePropagate_AllFalseIsConflict(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	mustAddClause(t, s, []Literal{PositiveLiteral(0), PositiveLiteral(1)})

	s.assume(NegativeLiteral(0))
	s.Propagate()
	s.assume(NegativeLiteral(1))
	if confl := s.Propagate(); confl == clauseNone {
		t.Fatalf("Propagate() = clauseNone, want a conflicting clause")
	}
}

func TestClauseLocked_ReasonOfTrueLiteral(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	mustAddClause(t, s, []Literal{PositiveLiteral(0), PositiveLiteral(1)})

	s.assume(NegativeLiteral(0))
	s.Propagate() // forces var1 = true, reasoned by the clause above

	r := s.reason[1]
	if r == clauseNone {
		t.Fatalf("var1 has no reason, want the binary clause")
	}
	if !s.clauseLocked(r) {
		t.Errorf("clauseLocked() = false, want true")
	}
}

func TestClauseSimplify_SatisfiedClauseReportsTrue(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	mustAddClause(t, s, []Literal{PositiveLiteral(0)})
	s.Propagate() // var0 = true at level 0

	r := s.arena.alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	if !s.clauseSimplify(r) {
		t.Errorf("clauseSimplify() = false, want true (satisfied by var0)")
	}
}

func TestClauseSimplify_DropsFalseLiteralsWhenUnsatisfied(t *testing.T) {
	s := newTestSolver()
	addVars(s, 3)
	mustAddClause(t, s, []Literal{PositiveLiteral(0)})
	s.Propagate() // var0 = true at level 0

	r := s.arena.alloc([]Literal{NegativeLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false)
	if s.clauseSimplify(r) {
		t.Fatalf("clauseSimplify() = true, want false (not satisfied; var1/var2 still undefined)")
	}
	if got := s.arena.clauseSize(r); got != 2 {
		t.Errorf("clauseSize() after simplify = %d, want 2 (the false !var0 literal dropped)", got)
	}
}

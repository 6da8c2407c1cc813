package sat

import "testing"

// TestIngest_UnitAtRoot exercises case 4: every literal undefined, clause is
// a single literal, accepted as a root unit.
func TestIngest_UnitAtRoot(t *testing.T) {
	s := newTestSolver()
	addVars(s, 1)

	if outcome := s.AddClauseDuringSearch([]Literal{PositiveLiteral(0)}); outcome != IngestOK {
		t.Fatalf("AddClauseDuringSearch() = %v, want IngestOK", outcome)
	}
	if s.VarValue(0) != True {
		t.Errorf("var0 = %s, want true", s.VarValue(0))
	}
}

// TestIngest_FalsifiedAtRoot exercises case 5: every literal false at level
// 0, reports UNSAT.
func TestIngest_FalsifiedAtRoot(t *testing.T) {
	s := newTestSolver()
	addVars(s, 1)
	mustAddClause(t, s, []Literal{PositiveLiteral(0)})
	s.Propagate()

	if outcome := s.AddClauseDuringSearch([]Literal{NegativeLiteral(0)}); outcome != IngestUnsat {
		t.Fatalf("AddClauseDuringSearch() = %v, want IngestUnsat", outcome)
	}
	if !s.unsat {
		t.Errorf("s.unsat = false, want true")
	}
}

// TestIngest_AssertingAfterBackjump exercises case 6: a clause whose only
// undefined literal becomes unit once the trail backjumps to the decision
// level of its remaining (assigned) literals.
func TestIngest_AssertingAfterBackjump(t *testing.T) {
	s := newTestSolver()
	addVars(s, 3)

	// Decide var0=true (level 1), var1=true (level 2); var2 stays undefined.
	s.assume(PositiveLiteral(0))
	s.Propagate()
	s.assume(PositiveLiteral(1))
	s.Propagate()

	if s.decisionLevel() != 2 {
		t.Fatalf("decisionLevel() = %d, want 2", s.decisionLevel())
	}

	// Ingest (!var0 v !var1 v var2): both var0, var1 are true, so var2 is the
	// only undefined literal (u=1) and the clause is unit on var2 at level 2,
	// the highest level among its false literals (!var1), which is where the
	// ingestion cancels to.
	clause := []Literal{NegativeLiteral(0), NegativeLiteral(1), PositiveLiteral(2)}
	if outcome := s.AddClauseDuringSearch(clause); outcome != IngestOK {
		t.Fatalf("AddClauseDuringSearch() = %v, want IngestOK", outcome)
	}
	if s.VarValue(2) != True {
		t.Errorf("var2 = %s, want true (forced by ingested clause)", s.VarValue(2))
	}
}

// TestIngest_AlreadyAssertingAcrossLevels exercises case 8: a clause with
// exactly one literal at the falsified clause's highest level is already
// asserting once backjumped to the second-highest level.
func TestIngest_AlreadyAssertingAcrossLevels(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)

	s.assume(PositiveLiteral(0)) // level 1
	s.Propagate()
	s.assume(PositiveLiteral(1)) // level 2
	s.Propagate()

	// var0 (level 1) and var1 (level 2) are both true; (!var0 v !var1) has
	// exactly one literal (!var1) at the max level, so it is already
	// asserting once backjumped to level(var0) = 1.
	clause := []Literal{NegativeLiteral(0), NegativeLiteral(1)}
	if outcome := s.AddClauseDuringSearch(clause); outcome != IngestOK {
		t.Fatalf("AddClauseDuringSearch() = %v, want IngestOK", outcome)
	}
	if s.decisionLevel() != 1 {
		t.Errorf("decisionLevel() = %d, want 1", s.decisionLevel())
	}
	if s.VarValue(1) != False {
		t.Errorf("var1 = %s, want false (flipped by the ingested clause)", s.VarValue(1))
	}
}

// TestIngest_ConflictingRequiresAnalysis exercises case 7: a clause with two
// or more literals tied at the falsified clause's highest level must go
// through full conflict analysis, not plain attachment.
func TestIngest_ConflictingRequiresAnalysis(t *testing.T) {
	s := newTestSolver()
	addVars(s, 3)
	mustAddClause(t, s, []Literal{NegativeLiteral(1), PositiveLiteral(2)}) // !v1 v v2

	s.assume(PositiveLiteral(0)) // level 1
	s.Propagate()
	s.assume(PositiveLiteral(1)) // level 2; forces v2=true via the clause above
	s.Propagate()

	if s.VarValue(2) != True {
		t.Fatalf("var2 = %s, want true (propagated at level 2)", s.VarValue(2))
	}

	// var1 and var2 are both true at level 2; (!var1 v !var2) is falsified
	// with both of its literals tied at the max level.
	clause := []Literal{NegativeLiteral(1), NegativeLiteral(2)}
	if outcome := s.AddClauseDuringSearch(clause); outcome != IngestOK {
		t.Fatalf("AddClauseDuringSearch() = %v, want IngestOK", outcome)
	}
	if s.unsat {
		t.Fatalf("s.unsat = true, want false (conflict is not at the root)")
	}
	if s.decisionLevel() >= 2 {
		t.Errorf("decisionLevel() = %d, want < 2 after conflict analysis", s.decisionLevel())
	}
}

func TestIngest_EmptyClauseIsUnsat(t *testing.T) {
	s := newTestSolver()
	if outcome := s.AddClauseDuringSearch(nil); outcome != IngestUnsat {
		t.Fatalf("AddClauseDuringSearch(nil) = %v, want IngestUnsat", outcome)
	}
}

package sat

import "testing"

func TestEnqueue_ConflictingLiteralFails(t *testing.T) {
	s := newTestSolver()
	addVars(s, 1)
	if !s.enqueue(PositiveLiteral(0), clauseNone) {
		t.Fatalf("enqueue(var0=true) = false, want true")
	}
	if s.enqueue(NegativeLiteral(0), clauseNone) {
		t.Errorf("enqueue(var0=false) after var0=true = true, want false (conflicting)")
	}
}

func TestEnqueue_AlreadyTrueSucceedsWithoutRetrailing(t *testing.T) {
	s := newTestSolver()
	addVars(s, 1)
	s.enqueue(PositiveLiteral(0), clauseNone)
	before := len(s.trail)
	if !s.enqueue(PositiveLiteral(0), clauseNone) {
		t.Fatalf("re-enqueue of an already-true literal = false, want true")
	}
	if len(s.trail) != before {
		t.Errorf("trail length changed on redundant enqueue: %d -> %d", before, len(s.trail))
	}
}

func TestCancelUntil_RestoresUnassignedAndDecisionLevel(t *testing.T) {
	s := newTestSolver()
	addVars(s, 2)
	s.assume(PositiveLiteral(0))
	s.assume(PositiveLiteral(1))
	if s.decisionLevel() != 2 {
		t.Fatalf("decisionLevel() = %d, want 2", s.decisionLevel())
	}

	s.cancelUntil(0)
	if s.decisionLevel() != 0 {
		t.Errorf("decisionLevel() = %d, want 0", s.decisionLevel())
	}
	if s.VarValue(0) != Unknown || s.VarValue(1) != Unknown {
		t.Errorf("values after cancelUntil(0) = (%s,%s), want (unknown,unknown)", s.VarValue(0), s.VarValue(1))
	}
}

func TestPhaseSaving_Mode2SavesEveryCancelledLevel(t *testing.T) {
	s := newTestSolver()
	s.phaseSaving = 2
	addVars(s, 1)
	s.assume(NegativeLiteral(0))
	s.cancelUntil(0)

	if got := s.order.phases[0]; got != False {
		t.Errorf("saved phase = %s, want False", got)
	}
}

func TestPhaseSaving_Mode0NeverSaves(t *testing.T) {
	s := newTestSolver()
	s.phaseSaving = 0
	addVars(s, 1)
	before := s.order.phases[0]

	s.assume(NegativeLiteral(0))
	s.cancelUntil(0)

	if got := s.order.phases[0]; got != before {
		t.Errorf("saved phase = %s, want unchanged %s (phaseSaving=0)", got, before)
	}
}

func TestPhaseSaving_Mode1OnlySavesTopmostCancelledLevel(t *testing.T) {
	s := newTestSolver()
	s.phaseSaving = 1
	addVars(s, 2)
	initial := s.order.phases[0]

	s.assume(NegativeLiteral(0)) // level 1, bottom of the range being cancelled
	s.assume(NegativeLiteral(1)) // level 2, topmost level being cancelled
	s.cancelUntil(0)

	if got := s.order.phases[1]; got != False {
		t.Errorf("saved phase for var1 (topmost level) = %s, want False", got)
	}
	if got := s.order.phases[0]; got != initial {
		t.Errorf("saved phase for var0 (non-topmost level) = %s, want unchanged %s", got, initial)
	}
}

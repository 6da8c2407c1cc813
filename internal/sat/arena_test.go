package sat

import "testing"

func TestArena_AllocAndReadBack(t *testing.T) {
	a := newClauseArena()
	lits := []Literal{PositiveLiteral(0), NegativeLiteral(1), PositiveLiteral(2)}
	r := a.alloc(lits, false)

	if got := a.clauseSize(r); got != len(lits) {
		t.Fatalf("clauseSize() = %d, want %d", got, len(lits))
	}
	for i, l := range lits {
		if got := a.lit(r, i); got != l {
			t.Errorf("lit(%d) = %v, want %v", i, got, l)
		}
	}
	if a.isLearnt(r) {
		t.Errorf("isLearnt() = true, want false")
	}
	if a.isRemoved(r) {
		t.Errorf("isRemoved() = true, want false")
	}
}

func TestArena_ActivityRoundTrips(t *testing.T) {
	a := newClauseArena()
	r := a.alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, true)

	a.setActivity(r, 3.5)
	if got := a.activity(r); got != 3.5 {
		t.Errorf("activity() = %v, want 3.5", got)
	}
	if !a.isLearnt(r) {
		t.Errorf("isLearnt() = false, want true")
	}
}

func TestArena_MarkRemovedAndFree(t *testing.T) {
	a := newClauseArena()
	r := a.alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)

	a.markRemoved(r)
	a.free(r)

	if !a.isRemoved(r) {
		t.Errorf("isRemoved() = false, want true")
	}
	if got := a.wastedFraction(); got <= 0 {
		t.Errorf("wastedFraction() = %v, want > 0 after free", got)
	}
}

func TestArena_RelocateProducesForwarding(t *testing.T) {
	a := newClauseArena()
	r := a.alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false)
	a.setAbstraction(r, clauseAbstraction([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}))

	dst := newClauseArena()
	newRef := a.relocate(r, dst)

	if got := dst.clauseSize(newRef); got != 3 {
		t.Fatalf("relocated clauseSize() = %d, want 3", got)
	}
	if dst.lit(newRef, 0) != PositiveLiteral(0) || dst.lit(newRef, 1) != PositiveLiteral(1) || dst.lit(newRef, 2) != PositiveLiteral(2) {
		t.Errorf("relocated literals = (%v,%v,%v), want (0,1,2)", dst.lit(newRef, 0), dst.lit(newRef, 1), dst.lit(newRef, 2))
	}
	if dst.abstraction(newRef) == 0 {
		t.Errorf("relocated abstraction = 0, want nonzero")
	}

	fwd, ok := a.relocated(r)
	if !ok {
		t.Fatalf("relocated(r) ok = false, want true")
	}
	if fwd != newRef {
		t.Errorf("forwarding ref = %v, want %v", fwd, newRef)
	}

	// Relocating again must return the cached forwarding ref, not copy a
	// second time.
	if again := a.relocate(r, dst); again != newRef {
		t.Errorf("second relocate() = %v, want cached %v", again, newRef)
	}
}

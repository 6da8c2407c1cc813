// Command capi exposes the stepwise driver (internal/sat's Propagate/
// AssignLiteral/Backtrack/LearnClause/FastSwitchAssignment/
// RunSolverEnumerate) through a cgo C ABI: a function table over an opaque
// handle-based solver pointer, literal encoding as a nonzero signed integer
// ±(var+1), and return structs with an explicit kind discriminant rather
// than exceptions or sentinel ints.
//
// Built with `go build -buildmode=c-shared` (or c-archive) to produce a
// loadable library; the exported smsolve_* symbols are the C ABI surface,
// and the result structs they return are declared in the cgo preamble
// below.
package main

/*
typedef struct {
	int kind;        // PropagationResult: -1 CONFLICT, 0 OPEN, 1 SAT, 2 INCONSISTENT_ASSUMPTIONS
	int count;       // meaning depends on the call (see each function's doc)
} smsolve_step_result;

typedef struct {
	int kind;        // EnumerationTermination: 0 DONE, 1 TIME, 2 LIMIT
	int models_found;
} smsolve_enum_result;
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/adrianmoors/smsolve/internal/sat"
)

// handle table: cgo cannot pass a Go pointer across the C boundary and have
// it outlive the call it was passed in, so every live *sat.Solver is kept
// behind an opaque integer handle instead.
var (
	handlesMu sync.Mutex
	handles   = map[C.long]*sat.Solver{}
	nextID    C.long
)

func register(s *sat.Solver) C.long {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	nextID++
	handles[nextID] = s
	return nextID
}

func lookup(h C.long) *sat.Solver {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return handles[h]
}

func release(h C.long) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, h)
}

//export smsolve_new
func smsolve_new() C.long {
	return register(sat.NewDefaultSolver())
}

//export smsolve_free
func smsolve_free(h C.long) {
	release(h)
}

//export smsolve_add_variable
func smsolve_add_variable(h C.long) C.int {
	s := lookup(h)
	if s == nil {
		return -1
	}
	return C.int(s.AddVariable())
}

// smsolve_add_clause appends literals from lits (length n, nonzero signed
// ints ±(var+1)) as a new clause. A zero in the middle of lits is not
// expected (the terminator is implicit in n, matching a fixed-length C
// array call site); the DIMACS-style "0 terminates a clause" convention
// applies to streaming text formats, not this fixed-arity call.
//
//export smsolve_add_clause
func smsolve_add_clause(h C.long, lits *C.int, n C.int) C.int {
	s := lookup(h)
	if s == nil {
		return -1
	}
	clause := decodeLits(lits, n)
	if err := s.AddClause(clause); err != nil {
		return -1
	}
	return 0
}

//export smsolve_solve
func smsolve_solve(h C.long) C.int {
	s := lookup(h)
	if s == nil {
		return C.int(0)
	}
	return lboolToInt(s.Solve())
}

//export smsolve_propagate
func smsolve_propagate(h C.long) C.smsolve_step_result {
	s := lookup(h)
	if s == nil {
		return C.smsolve_step_result{kind: -1, count: 0}
	}
	result, n := s.StepPropagate()
	return C.smsolve_step_result{kind: C.int(result), count: C.int(n)}
}

//export smsolve_assign_literal
func smsolve_assign_literal(h C.long, lit C.int) C.smsolve_step_result {
	s := lookup(h)
	if s == nil {
		return C.smsolve_step_result{kind: -1, count: 0}
	}
	result, n := s.AssignLiteral(decodeLit(lit))
	return C.smsolve_step_result{kind: C.int(result), count: C.int(n)}
}

//export smsolve_backtrack
func smsolve_backtrack(h C.long, n C.int) C.int {
	s := lookup(h)
	if s == nil {
		return -1
	}
	if !s.Backtrack(int(n)) {
		return -1
	}
	return 0
}

//export smsolve_learn_clause
func smsolve_learn_clause(h C.long) C.smsolve_step_result {
	s := lookup(h)
	if s == nil {
		return C.smsolve_step_result{kind: -1, count: 0}
	}
	result, n, ok := s.LearnClause()
	if !ok {
		return C.smsolve_step_result{kind: -1, count: 0}
	}
	return C.smsolve_step_result{kind: C.int(result), count: C.int(n)}
}

// smsolve_fast_switch_assignment backjumps to the deepest decision prefix
// contained in the target literal set, then re-applies the remainder as
// decisions. Returns a result whose count field carries the number of
// decisions executed, not the number of literals propagated.
//
//export smsolve_fast_switch_assignment
func smsolve_fast_switch_assignment(h C.long, lits *C.int, n C.int) C.smsolve_step_result {
	s := lookup(h)
	if s == nil {
		return C.smsolve_step_result{kind: -1, count: 0}
	}
	target := decodeLits(lits, n)
	result, decisions, _ := s.FastSwitchAssignment(target)
	return C.smsolve_step_result{kind: C.int(result), count: C.int(decisions)}
}

//export smsolve_run_solver_enumerate
func smsolve_run_solver_enumerate(h C.long, timeoutSeconds C.double, max C.int) C.smsolve_enum_result {
	s := lookup(h)
	if s == nil {
		return C.smsolve_enum_result{kind: 0, models_found: 0}
	}
	term := s.RunSolverEnumerate(float64(timeoutSeconds), int(max))
	return C.smsolve_enum_result{kind: C.int(term), models_found: C.int(len(s.Models))}
}

//export smsolve_set_graph_vertex_count
func smsolve_set_graph_vertex_count(h C.long, n C.int) {
	if s := lookup(h); s != nil {
		s.SetGraphVertexCount(int(n))
	}
}

// smsolve_set_edge_variable_count is the low-level counterpart of
// smsolve_set_graph_vertex_count for callers that already computed the edge
// variable count themselves (e.g. a non-square or sparse encoding) instead
// of letting the solver derive it from a vertex count.
//
//export smsolve_set_edge_variable_count
func smsolve_set_edge_variable_count(h C.long, n C.int) {
	if s := lookup(h); s != nil {
		s.SetEdgeVariableCount(int(n))
	}
}

func decodeLit(l C.int) sat.Literal {
	n := int(l)
	if n < 0 {
		return sat.NegativeLiteral(-n - 1)
	}
	return sat.PositiveLiteral(n - 1)
}

func decodeLits(lits *C.int, n C.int) []sat.Literal {
	out := make([]sat.Literal, 0, int(n))
	if n == 0 {
		return out
	}
	slice := unsafe.Slice(lits, int(n))
	for _, l := range slice {
		out = append(out, decodeLit(l))
	}
	return out
}

func lboolToInt(l sat.LBool) C.int {
	switch l {
	case sat.True:
		return 1
	case sat.False:
		return -1
	default:
		return 0
	}
}

func main() {}

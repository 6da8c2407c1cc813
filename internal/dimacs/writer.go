package dimacs

import (
	"bufio"
	"fmt"
	"io"

	"github.com/adrianmoors/smsolve/internal/sat"
)

// cnfSource is the narrow view of a solver WriteCNF needs: enough to walk
// every live original clause without depending on solver internals that
// aren't part of the DIMACS contract.
type cnfSource interface {
	NumVariables() int
	NumConstraints() int
	ConstraintLiterals(i int) []sat.Literal
}

// WriteCNF writes w's live original clauses in DIMACS format:
// "p cnf <maxvar> <numclauses>" followed by one "<lits> 0" line per clause.
// Satisfied clauses and false literals are expected to have already been
// stripped by Simplify; WriteCNF itself performs no filtering.
func WriteCNF(w io.Writer, src cnfSource) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", src.NumVariables(), src.NumConstraints()); err != nil {
		return err
	}
	for i := 0; i < src.NumConstraints(); i++ {
		for _, l := range src.ConstraintLiterals(i) {
			if _, err := fmt.Fprintf(bw, "%d ", l.DimacsInt()); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteModels writes one model per line, each a space-separated list of
// signed variable literals (positive for true, negative for false) followed
// by a trailing 0 -- the format ParseModels reads back.
func WriteModels(w io.Writer, models [][]bool) error {
	bw := bufio.NewWriter(w)
	for _, model := range models {
		for v, val := range model {
			n := v + 1
			if !val {
				n = -n
			}
			if _, err := fmt.Fprintf(bw, "%d ", n); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

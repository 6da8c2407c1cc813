package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/adrianmoors/smsolve/internal/dimacs"
	"github.com/adrianmoors/smsolve/internal/sat"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzipped = flag.Bool(
	"gz",
	false,
	"the instance file is gzip-compressed",
)

var flagVertices = flag.Int(
	"n",
	0,
	"number of graph vertices; 0 means the instance is plain CNF with no edge-variable structure",
)

var flagEnumerate = flag.Bool(
	"enumerate",
	false,
	"enumerate every model instead of stopping at the first one, blocking the edge-variable portion of each",
)

var flagMaxModels = flag.Int(
	"max",
	0,
	"stop enumeration after this many models (0 means unbounded, only meaningful with -enumerate)",
)

var flagTimeout = flag.Float64(
	"timeout",
	-1,
	"wall-clock time budget in seconds (negative means unbounded)",
)

var flagAssignmentCutoff = flag.Int(
	"cutoff",
	0,
	"assumption-cutoff cube blocker threshold; 0 disables the subsystem",
)

var flagDumpCNF = flag.String(
	"dump-cnf",
	"",
	"write the loaded (and root-simplified) instance back out in DIMACS form to this path before solving",
)

type config struct {
	instanceFile     string
	gzipped          bool
	memProfile       bool
	cpuProfile       bool
	vertices         int
	enumerate        bool
	maxModels        int
	timeout          float64
	assignmentCutoff int
	dumpCNF          string
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile:     flag.Arg(0),
		gzipped:          *flagGzipped,
		memProfile:       *flagMemProfile,
		cpuProfile:       *flagCPUProfile,
		vertices:         *flagVertices,
		enumerate:        *flagEnumerate,
		maxModels:        *flagMaxModels,
		timeout:          *flagTimeout,
		assignmentCutoff: *flagAssignmentCutoff,
		dumpCNF:          *flagDumpCNF,
	}, nil
}

// instanceLoader adapts sat.Solver to dimacs.LoadDIMACS's dimacsWritter
// interface (AddVariable/AddClause), the narrow seam that decouples the
// DIMACS reader from the solver.
type instanceLoader struct {
	s *sat.Solver
}

func (l instanceLoader) AddVariable() int                { return l.s.AddVariable() }
func (l instanceLoader) AddClause(c []sat.Literal) error { return l.s.AddClause(c) }

func run(cfg *config) error {
	opts := sat.DefaultOptions
	opts.AssignmentCutoff = cfg.assignmentCutoff
	if cfg.timeout >= 0 {
		opts.Timeout = time.Duration(cfg.timeout * float64(time.Second))
	}

	s := sat.NewSolver(opts)

	if err := dimacs.LoadDIMACS(cfg.instanceFile, cfg.gzipped, instanceLoader{s}); err != nil {
		return fmt.Errorf("could not load instance: %w", err)
	}

	if cfg.vertices > 0 {
		s.SetGraphVertexCount(cfg.vertices)
	}

	if cfg.dumpCNF != "" {
		if err := dumpCNF(cfg.dumpCNF, s); err != nil {
			return fmt.Errorf("could not dump instance: %w", err)
		}
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumConstraints())

	t := time.Now()

	if cfg.enumerate {
		term := s.RunSolverEnumerate(cfg.timeout, cfg.maxModels)
		elapsed := time.Since(t)
		fmt.Printf("c time (sec):      %f\n", elapsed.Seconds())
		fmt.Printf("c models found:    %d\n", len(s.Models))
		fmt.Printf("c termination:     %v\n", term)
		return writeModels(s)
	}

	status := s.Solve()
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c restarts:   %d\n", s.TotalRestarts)
	fmt.Printf("c learnts:    %d\n", s.NumLearnts())
	fmt.Printf("c status:     %s\n", status.String())

	return writeModels(s)
}

func writeModels(s *sat.Solver) error {
	if len(s.Models) == 0 {
		return nil
	}
	return dimacs.WriteModels(os.Stdout, s.Models)
}

func dumpCNF(path string, s *sat.Solver) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return dimacs.WriteCNF(f, s)
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}

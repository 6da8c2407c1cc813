package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// VarOrder maintains the order in which unassigned variables are offered up
// as decisions: a max-activity binary heap over decision variables, with
// saved-phase and forced-phase bookkeeping.
type VarOrder struct {
	// Binary heap to access the next variable with the highest score. The
	// heap breaks ties using the index of its elements, which corresponds to
	// the order in which variables are declared with AddVar.
	order *yagh.IntMap[float64]

	scores     []float64 // in [0, 1e100)
	scoreInc   float64   // in (0, 1e100)
	scoreDecay float64   // in (0, 1]

	// Saved phase (sign last assigned, used for decisions) per variable.
	// Whether (and how far back) phases are actually saved on backtrack is
	// decided by the caller (Solver.cancel)'s phase_saving mode; Reinsert
	// just records whatever it's told to.
	phases []LBool

	// User-forced phase; Unknown means unset.
	userPolarity []LBool

	// Only decision variables are ever returned by NextDecision; non-decision
	// variables (released, or excluded via SetDecisionVar) stay in the heap
	// (possibly) but are skipped when popped.
	isDecisionVar []bool

	// random_var_freq: probability in [0, 1] of picking a uniformly random
	// decision variable instead of the highest-activity one.
	randomVarFreq float64
	rnd           *rand.Rand
	rndPol        bool
}

// NewVarOrder returns a new initialized VarOrder.
func NewVarOrder(decay float64, randomVarFreq float64, randomSeed int64, rndPol bool) *VarOrder {
	return &VarOrder{
		order:         yagh.New[float64](0),
		scoreInc:      1,
		scoreDecay:    decay,
		phases:        make([]LBool, 0),
		userPolarity:  make([]LBool, 0),
		isDecisionVar: make([]bool, 0),
		randomVarFreq: randomVarFreq,
		rnd:           rand.New(rand.NewSource(randomSeed)),
		rndPol:        rndPol,
	}
}

// AddVar adds a new decision variable with the given initial score and
// phase.
func (vo *VarOrder) AddVar(initScore float64, initPhase bool) {
	varID := len(vo.phases)

	vo.scores = append(vo.scores, initScore)
	vo.phases = append(vo.phases, Lift(initPhase))
	vo.userPolarity = append(vo.userPolarity, Unknown)
	vo.isDecisionVar = append(vo.isDecisionVar, true)

	vo.order.GrowBy(1)
	vo.order.Put(varID, -initScore)
}

// SetDecisionVar flips whether v may ever be returned as a decision. Vars
// excluded this way (e.g. pure auxiliary variables a caller never wants
// branched on) are simply skipped when popped from the heap.
func (vo *VarOrder) SetDecisionVar(v int, isDecision bool) {
	vo.isDecisionVar[v] = isDecision
}

// SetUserPolarity forces the phase reported for v; Unknown clears the
// override and falls back to the saved/random phase.
func (vo *VarOrder) SetUserPolarity(v int, pol LBool) {
	vo.userPolarity[v] = pol
}

// Reinsert adds variable v back to the set of candidates to be selected.
// Must be called by the solver when v is unassigned (e.g. on backtrack),
// with val the value the variable held just before being unassigned. The
// phase is only updated to val when save is true; otherwise the
// previously-saved phase is left untouched.
func (vo *VarOrder) Reinsert(v int, val LBool, save bool) {
	if save {
		vo.phases[v] = val
	}
	if !vo.order.Contains(v) {
		vo.order.Put(v, -vo.scores[v])
	}
}

// DecayScores slightly decreases the scores of the variables. This is used
// to give more importance to variables that have had their scores increased
// recently compared to variables that had their scores increased in the
// past.
func (vo *VarOrder) DecayScores() {
	vo.scoreInc /= vo.scoreDecay // decay activities by bumping increment
	if vo.scoreInc > 1e100 {
		vo.rescaleScoresAndIncrement()
	}
}

// BumpScore increases the score of the given variable. This operation might
// trigger a rescaling of all variable scores if the score of v exceeds a
// given threshold; the rescaling conserves the relative importance of each
// variable.
func (vo *VarOrder) BumpScore(v int) {
	newScore := vo.scores[v] + vo.scoreInc
	vo.scores[v] = newScore
	if vo.order.Contains(v) {
		vo.order.Put(v, -newScore)
	}
	if vo.scores[v] > 1e100 {
		vo.rescaleScoresAndIncrement()
	}
}

// NextDecision returns the next literal to branch on: with probability
// randomVarFreq, a uniformly random unassigned decision variable; otherwise
// the highest-activity one. Returns NoneLiteral if no decision variable
// remains unassigned.
func (vo *VarOrder) NextDecision(s *Solver) Literal {
	nVars := len(vo.scores)
	if nVars > 0 && vo.randomVarFreq > 0 && vo.rnd.Float64() < vo.randomVarFreq {
		v := vo.rnd.Intn(nVars)
		if s.VarValue(v) == Unknown && vo.isDecisionVar[v] {
			if vo.order.Contains(v) {
				vo.order.Remove(v)
			}
			return vo.literalWithPhase(v)
		}
	}

	for {
		next, ok := vo.order.Pop()
		if !ok {
			return NoneLiteral
		}
		v := next.Elem
		if s.VarValue(v) != Unknown || !vo.isDecisionVar[v] {
			continue // filtered out; heap may still contain assigned vars
		}
		return vo.literalWithPhase(v)
	}
}

func (vo *VarOrder) literalWithPhase(v int) Literal {
	if pol := vo.userPolarity[v]; pol != Unknown {
		return litWithSign(v, pol == True)
	}
	if vo.rndPol {
		return litWithSign(v, vo.rnd.Intn(2) == 0)
	}
	switch vo.phases[v] {
	case True:
		return PositiveLiteral(v)
	case False:
		return NegativeLiteral(v)
	default:
		return PositiveLiteral(v)
	}
}

func litWithSign(v int, positive bool) Literal {
	if positive {
		return PositiveLiteral(v)
	}
	return NegativeLiteral(v)
}

func (vo *VarOrder) rescaleScoresAndIncrement() {
	vo.scoreInc *= 1e-100 // important to keep proportions
	for v, sc := range vo.scores {
		newScore := sc * 1e-100
		vo.scores[v] = newScore
		if vo.order.Contains(v) {
			vo.order.Put(v, -newScore)
		}
	}
}

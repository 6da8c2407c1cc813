package sat

import "math"

// luby returns the k-th term (0-indexed) of the Luby sequence
// 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,... scaled by y. The solver calls
// search(limit) with limit = luby(restartInc, k) * restartFirst for
// k = 0, 1, 2, ...
func luby(y float64, k int) float64 {
	// Find the finite subsequence that contains index k.
	size, seq := 1, 0
	for size < k+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != k {
		size = (size - 1) / 2
		seq--
		k = k % size
	}
	return math.Pow(y, float64(seq))
}

// restartSchedule tracks the next conflict-count restart threshold, either
// via the Luby sequence or a plain geometric schedule.
type restartSchedule struct {
	luby      bool
	first     float64
	inc       float64
	k         int
	geometric float64 // current threshold, geometric mode only
}

func newRestartSchedule(useLuby bool, first, inc float64) *restartSchedule {
	return &restartSchedule{
		luby:      useLuby,
		first:     first,
		inc:       inc,
		geometric: first,
	}
}

// next returns the conflict budget for the upcoming restart round and
// advances the schedule.
func (r *restartSchedule) next() int64 {
	if r.luby {
		n := luby(r.inc, r.k) * r.first
		r.k++
		return int64(n)
	}
	n := r.geometric
	r.geometric *= r.inc
	return int64(n)
}

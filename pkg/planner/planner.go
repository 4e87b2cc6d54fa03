// Package planner implements the Improved Hungarian Assignment (C4): a
// weighted, min-max normalized, square-padded cost matrix combining job
// flow-time with machine workload, solved exactly via the Hungarian
// algorithm with a greedy fallback.
package planner

import (
	"github.com/flexshop/jobshop-sim/pkg/job"
	"github.com/flexshop/jobshop-sim/pkg/machine"
)

// Weights are the (flow-time, workload) blend weights. They need not sum to
// 1; Assign renormalizes them.
type Weights struct {
	FlowTime float64
	Workload float64
}

// DefaultWeights matches the reference scheduler's (0.6, 0.4) split.
func DefaultWeights() Weights {
	return Weights{FlowTime: 0.6, Workload: 0.4}
}

// PadValue fills the padded rows/columns of the square cost matrix so
// assignments to a padding slot are always dominated by a real pairing.
const PadValue = 99.0

// Pair is one resolved (job, machine) assignment.
type Pair struct {
	Job     *job.Job
	Machine *machine.Machine
}

// Assign computes the optimal job-to-machine pairing for one class of
// candidate jobs and idle machines, blending flow-time and current
// workload. Jobs or machines beyond the smaller list's length are left
// unassigned (they land on padding slots in the square matrix).
func Assign(jobs []*job.Job, machines []*machine.Machine, w Weights) []Pair {
	nJobs, nMachs := len(jobs), len(machines)
	if nJobs == 0 || nMachs == 0 {
		return nil
	}

	k := nJobs
	if nMachs > k {
		k = nMachs
	}

	l1 := squareMatrix(k, PadValue)
	l2 := squareMatrix(k, PadValue)
	for i, j := range jobs {
		for c, m := range machines {
			l1[i][c] = float64(j.RemainingTicksOnStep())
			l2[i][c] = m.Temperature + m.Vibration
		}
	}

	l1n := normalize(l1)
	l2n := normalize(l2)

	w1, w2 := w.FlowTime, w.Workload
	wsum := w1 + w2
	if wsum == 0 {
		wsum = 1.0
	}
	w1 /= wsum
	w2 /= wsum

	blended := squareMatrix(k, 0)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			blended[i][j] = w1*l1n[i][j] + w2*l2n[i][j]
		}
	}

	var rowToCol []int
	if matrixIsFinite(blended) {
		rowToCol = solveHungarian(blended)
	} else {
		rowToCol = greedyAssignment(blended)
	}

	pairs := make([]Pair, 0, nJobs)
	for r, c := range rowToCol {
		if r < nJobs && c >= 0 && c < nMachs {
			pairs = append(pairs, Pair{Job: jobs[r], Machine: machines[c]})
		}
	}
	return pairs
}

func squareMatrix(k int, fill float64) [][]float64 {
	m := make([][]float64, k)
	for i := range m {
		row := make([]float64, k)
		for j := range row {
			row[j] = fill
		}
		m[i] = row
	}
	return m
}

const normalizeEps = 1e-9

func normalize(mat [][]float64) [][]float64 {
	min, max := mat[0][0], mat[0][0]
	for _, row := range mat {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	out := squareMatrix(len(mat), 0)
	if max-min < normalizeEps {
		return out
	}
	for i, row := range mat {
		for j, v := range row {
			out[i][j] = (v - min) / (max - min)
		}
	}
	return out
}

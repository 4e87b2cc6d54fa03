// Package job implements the job model (C1): a multi-step route through
// machine classes, with per-step remaining work, power draw, and the
// cooling "reduction" factor applied when a machine takes on new work.
package job

import (
	"fmt"
	"sync/atomic"

	"github.com/flexshop/jobshop-sim/pkg/randgen"
)

// Intensity is one of the four fixed job-intensity labels.
type Intensity string

const (
	Light    Intensity = "light"
	Moderate Intensity = "moderate"
	Heavy    Intensity = "heavy"
	Stress   Intensity = "stress"
)

// IntensityProfile holds the per-intensity physics increments.
type IntensityProfile struct {
	TempInc float64
	VibInc  float64
	PowerKW float64
}

// Intensities is the fixed catalog referenced by spec.md §4.1. Values are
// bit-exact with the reference implementation so seeded runs reproduce.
var Intensities = map[Intensity]IntensityProfile{
	Light:    {TempInc: 3.0, VibInc: 0.8, PowerKW: 1.8},
	Moderate: {TempInc: 4.5, VibInc: 1.2, PowerKW: 2.6},
	Heavy:    {TempInc: 5.5, VibInc: 1.5, PowerKW: 3.5},
	Stress:   {TempInc: 6.0, VibInc: 2.0, PowerKW: 4.3},
}

var intensityNames = []string{string(Light), string(Moderate), string(Heavy), string(Stress)}

// RoutePatterns is the fixed catalog of class sequences a job may follow.
var RoutePatterns = [][]string{
	{"A", "B"},
	{"A", "B", "C"},
	{"C", "A"},
	{"B", "D"},
	{"A", "C"},
	{"B", "C"},
	{"A", "A", "B"},
}

// DurationTotalRange is the inclusive range the route's total tick budget is
// drawn from.
var DurationTotalRange = [2]int{8, 18}

// ReductionRange is the inclusive range a job's cooldown reduction factor is
// drawn from.
var ReductionRange = [2]float64{0.2, 0.6}

// MinStepTicks is the minimum number of ticks any single route step gets.
const MinStepTicks = 2

// Step is one stop on a job's route: the machine class it needs, how many
// ticks of work remain on it, and its per-step power draw.
type Step struct {
	Class          string
	RemainingTicks int
	PowerKW        float64
}

// Job is one unit of work routed through a sequence of machine classes.
type Job struct {
	ID          string
	Intensity   Intensity
	TempInc     float64
	VibInc      float64
	PowerKW     float64
	Reduction   float64
	Steps       []Step
	CurrentStep int
	EnergyUsed  float64
}

var idCounter uint64

// NextID returns the next value in the monotonic job-id counter, formatted
// the way the reference implementation names jobs ("JOB_1", "JOB_2", ...).
func NextID() string {
	return fmt.Sprintf("JOB_%d", atomic.AddUint64(&idCounter, 1))
}

// Done reports whether every route step has been completed.
func (j *Job) Done() bool {
	return j.CurrentStep >= len(j.Steps)
}

// RequiredClass is the machine class the job currently needs, or "" when done.
func (j *Job) RequiredClass() string {
	if j.Done() {
		return ""
	}
	return j.Steps[j.CurrentStep].Class
}

// RemainingTicksOnStep is the remaining work on the current step, or 0 when done.
func (j *Job) RemainingTicksOnStep() int {
	if j.Done() {
		return 0
	}
	return j.Steps[j.CurrentStep].RemainingTicks
}

// CurrentPowerKW is the current step's power draw, or 0 when done.
func (j *Job) CurrentPowerKW() float64 {
	if j.Done() {
		return 0.0
	}
	return j.Steps[j.CurrentStep].PowerKW
}

// WorkOneTick advances the current step by one tick, accumulating energy at
// powerKW * tickMinutes/60. It advances CurrentStep once the step's
// remaining ticks reach zero. A no-op once the job is done.
func (j *Job) WorkOneTick(tickMinutes float64) {
	if j.Done() {
		return
	}
	step := &j.Steps[j.CurrentStep]
	step.RemainingTicks--
	j.EnergyUsed += step.PowerKW * (tickMinutes / 60.0)
	if step.RemainingTicks <= 0 {
		j.CurrentStep++
	}
}

// MakeRandom builds a job by sampling an intensity, a route pattern, and a
// total route duration, exactly as spec.md §4.1 describes. s is the shared
// kernel RNG so the draw sequence is reproducible from a seed.
func MakeRandom(s *randgen.Sampler) *Job {
	intensity := Intensity(s.Choice(intensityNames))
	return newJob(s, intensity)
}

// Make builds a job with a fixed intensity but a randomly sampled route,
// matching the reference implementation's Job.make classmethod.
func Make(s *randgen.Sampler, intensity Intensity) *Job {
	return newJob(s, intensity)
}

func newJob(s *randgen.Sampler, intensity Intensity) *Job {
	profile := Intensities[intensity]
	pattern := RoutePatterns[s.Intn(len(RoutePatterns))]

	total := s.IntRange(DurationTotalRange[0], DurationTotalRange[1])
	durations := make([]int, len(pattern))
	for i := range durations {
		durations[i] = MinStepTicks
	}
	remaining := total - len(pattern)*MinStepTicks
	if remaining < 0 {
		remaining = 0
	}
	for i := 0; i < remaining; i++ {
		durations[s.Intn(len(durations))]++
	}

	steps := make([]Step, len(pattern))
	for i, cls := range pattern {
		steps[i] = Step{
			Class:          cls,
			RemainingTicks: durations[i],
			PowerKW:        profile.PowerKW * s.Uniform(0.8, 1.2),
		}
	}

	return &Job{
		ID:        NextID(),
		Intensity: intensity,
		TempInc:   profile.TempInc,
		VibInc:    profile.VibInc,
		PowerKW:   profile.PowerKW,
		Reduction: s.Uniform(ReductionRange[0], ReductionRange[1]),
		Steps:     steps,
	}
}

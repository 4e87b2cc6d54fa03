// Package risk implements the predictive-maintenance adapter (C5): rolling
// window statistics over a machine's temperature/vibration signal, turned
// into a feature record handed to an external risk model, and the
// near-limit preemption rule applied to its output.
package risk

import (
	"context"
	"math"

	"github.com/flexshop/jobshop-sim/pkg/machine"
)

// WindowSize is the number of trailing samples the rolling statistics are
// computed over, matching the reference feature builder's window=5.
const WindowSize = 5

// Features is the exact feature record the reference inference service and
// simulation kernel build before calling into the model. Delta/interval
// fields are only meaningful once a machine has at least two samples;
// HasPrevious reports whether they were populated.
type Features struct {
	MachineID     string
	ClassName     string
	TemperatureC  float64
	VibrationRMS  float64
	TempThreshold float64
	VibThreshold  float64

	HasPrevious bool
	DtTicks     float64
	DTemp       float64
	DVibration  float64

	PctOfTempThresh float64
	PctOfVibThresh  float64

	TempAvgWin float64
	TempStdWin float64
	VibAvgWin  float64
	VibStdWin  float64
}

// Model is the external prediction contract: given a feature record, it
// returns a failure probability in [0, 1]. Implementations may call out to
// a network service, an embedded model, or (as here) a deterministic
// stand-in; the kernel only depends on this interface.
type Model interface {
	PredictRisk(ctx context.Context, f Features) (float64, error)
}

type ring struct {
	samples []float64
	prev    float64
	hasPrev bool
}

func (r *ring) push(v float64) {
	r.samples = append(r.samples, v)
	if len(r.samples) > WindowSize {
		r.samples = r.samples[1:]
	}
}

func (r *ring) avg() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.samples {
		sum += v
	}
	return sum / float64(len(r.samples))
}

func (r *ring) std() float64 {
	n := len(r.samples)
	if n < 2 {
		return 0
	}
	mean := r.avg()
	sum := 0.0
	for _, v := range r.samples {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// Tracker holds the rolling feature state for every machine the kernel
// evaluates, plus the configured model and preemption policy.
type Tracker struct {
	model Model
	// ThresholdFloor is the minimum probability threshold ever applied,
	// matching the reference kernel's conservative bump to reduce
	// early preemptions on cold start.
	ThresholdFloor float64
	// Threshold is the configured probability cutoff before flooring.
	Threshold float64
	// NearLimitRatio is the temp/vib-to-threshold ratio a machine must
	// reach before a high-probability prediction can trigger preemption.
	NearLimitRatio float64

	temp map[string]*ring
	vib  map[string]*ring
	tick map[string]float64
}

// NewTracker constructs a Tracker with the reference defaults: threshold
// 0.5 floored at 0.32, near-limit ratio 0.80.
func NewTracker(model Model) *Tracker {
	return &Tracker{
		model:          model,
		Threshold:      0.5,
		ThresholdFloor: 0.32,
		NearLimitRatio: 0.80,
		temp:           make(map[string]*ring),
		vib:            make(map[string]*ring),
		tick:           make(map[string]float64),
	}
}

// EffectiveThreshold applies the configured floor to the configured
// threshold.
func (t *Tracker) EffectiveThreshold() float64 {
	if t.Threshold < t.ThresholdFloor {
		return t.ThresholdFloor
	}
	return t.Threshold
}

// Prediction is the outcome of evaluating one machine at one tick.
type Prediction struct {
	Features      Features
	Probability   float64
	NearLimit     bool
	ShouldPreempt bool
}

// Evaluate builds the feature record for m at the given tick, calls the
// model, and applies the near-limit preemption rule. It returns
// ok == false when the machine isn't currently running a job (there is
// nothing to evaluate or preempt).
func (t *Tracker) Evaluate(ctx context.Context, m *machine.Machine, tick int) (Prediction, bool, error) {
	if m.RepairingLeft > 0 || m.BusyWith == nil {
		return Prediction{}, false, nil
	}

	f := t.buildFeatures(m, tick)

	prob, err := t.model.PredictRisk(ctx, f)
	if err != nil {
		return Prediction{}, false, err
	}

	nearLimit := (m.TempThreshold > 0 && m.Temperature/m.TempThreshold >= t.NearLimitRatio) ||
		(m.VibThreshold > 0 && m.Vibration/m.VibThreshold >= t.NearLimitRatio)

	return Prediction{
		Features:      f,
		Probability:   prob,
		NearLimit:     nearLimit,
		ShouldPreempt: prob >= t.EffectiveThreshold() && nearLimit,
	}, true, nil
}

func (t *Tracker) buildFeatures(m *machine.Machine, tick int) Features {
	temp, ok := t.temp[m.ID]
	if !ok {
		temp = &ring{}
		t.temp[m.ID] = temp
	}
	vib, ok := t.vib[m.ID]
	if !ok {
		vib = &ring{}
		t.vib[m.ID] = vib
	}

	f := Features{
		MachineID:     m.ID,
		ClassName:     m.Class,
		TemperatureC:  m.Temperature,
		VibrationRMS:  m.Vibration,
		TempThreshold: m.TempThreshold,
		VibThreshold:  m.VibThreshold,
	}

	if prevTick, ok := t.tick[m.ID]; ok {
		f.HasPrevious = true
		f.DtTicks = float64(tick) - prevTick
		f.DTemp = m.Temperature - temp.prev
		f.DVibration = m.Vibration - vib.prev
	}
	t.tick[m.ID] = float64(tick)
	temp.prev, temp.hasPrev = m.Temperature, true
	vib.prev, vib.hasPrev = m.Vibration, true

	if m.TempThreshold != 0 {
		f.PctOfTempThresh = m.Temperature / m.TempThreshold
	}
	if m.VibThreshold != 0 {
		f.PctOfVibThresh = m.Vibration / m.VibThreshold
	}

	temp.push(m.Temperature)
	vib.push(m.Vibration)
	f.TempAvgWin, f.TempStdWin = temp.avg(), temp.std()
	f.VibAvgWin, f.VibStdWin = vib.avg(), vib.std()

	return f
}

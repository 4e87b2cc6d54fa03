// Package machine implements the machine state machine (C2): physics state,
// thresholds, and the idle -> busy -> failed -> repairing transitions.
package machine

import (
	"fmt"

	"github.com/flexshop/jobshop-sim/pkg/job"
	"github.com/flexshop/jobshop-sim/pkg/randgen"
)

// StepEvent tags what happened to a machine's job during one Step call.
type StepEvent int

const (
	// NoEvent means nothing worth publishing happened this tick.
	NoEvent StepEvent = iota
	// Failed means the machine breached a threshold; the job was detached
	// and returned, and the machine entered repair.
	Failed
	// StepDone means the job's current route step finished; the job was
	// detached and returned so the kernel can route it onward.
	StepDone
	// Completed means the job finished its entire route.
	Completed
)

func (e StepEvent) String() string {
	switch e {
	case Failed:
		return "FAILED"
	case StepDone:
		return "STEP_DONE"
	case Completed:
		return "COMPLETED"
	default:
		return "NONE"
	}
}

// Physics bundles the tunables that govern machine state transitions, so
// they can be overridden by configuration instead of hardcoded per spec.md §6.
type Physics struct {
	FailureSpikeProb float64 // probability either signal gets an independent spike this tick
	RepairIdleReset  bool    // snap to base temp/vibration when repair completes
	IdleTempDecay    float64 // per-tick temperature decay while idle
	IdleVibDecay     float64 // per-tick vibration decay while idle
}

// DefaultPhysics matches spec.md §4.2/§6 exactly.
func DefaultPhysics() Physics {
	return Physics{
		FailureSpikeProb: 0.07,
		RepairIdleReset:  true,
		IdleTempDecay:    1.2,
		IdleVibDecay:     0.25,
	}
}

// Machine is one resource in the fleet: a physics state plus identity.
type Machine struct {
	ID    string
	Class string

	TempBase      float64
	TempThreshold float64
	VibBase       float64
	VibThreshold  float64
	RepairTime    int

	Temperature    float64
	Vibration      float64
	BusyWith       *job.Job
	RepairingLeft  int
	TotalPowerKWh  float64

	physics Physics
}

// New creates a machine at its baseline physics state.
func New(class, id string, tempBase, tempThreshold, vibBase, vibThreshold float64, repairTime int, physics Physics) *Machine {
	return &Machine{
		ID:            id,
		Class:         class,
		TempBase:      tempBase,
		TempThreshold: tempThreshold,
		VibBase:       vibBase,
		VibThreshold:  vibThreshold,
		RepairTime:    repairTime,
		Temperature:   tempBase,
		Vibration:     vibBase,
		physics:       physics,
	}
}

// Idle reports whether the machine holds no job and is not repairing.
func (m *Machine) Idle() bool {
	return m.BusyWith == nil && m.RepairingLeft == 0
}

// Assign attempts to hand the machine a job. It fails if the machine is not
// idle or the job's required class doesn't match. On success it applies the
// brief cooldown described in spec.md §4.2 before attaching the job.
func (m *Machine) Assign(j *job.Job) bool {
	if !m.Idle() {
		return false
	}
	if j.RequiredClass() != m.Class {
		return false
	}

	tempDiff := m.Temperature - m.TempBase
	vibDiff := m.Vibration - m.VibBase
	m.Temperature -= j.Reduction * tempDiff
	m.Vibration -= j.Reduction * vibDiff

	m.BusyWith = j
	return true
}

// Step advances the machine by one tick and returns the event that
// occurred (if any) along with the job it pertains to.
func (m *Machine) Step(s *randgen.Sampler, tickMinutes float64) (StepEvent, *job.Job) {
	if m.RepairingLeft > 0 {
		m.RepairingLeft--
		if m.RepairingLeft == 0 && m.physics.RepairIdleReset {
			m.Temperature = m.TempBase
			m.Vibration = m.VibBase
		}
		return NoEvent, nil
	}

	if m.BusyWith != nil {
		return m.stepBusy(s, tickMinutes)
	}

	m.Temperature = max(m.TempBase, m.Temperature-m.physics.IdleTempDecay)
	m.Vibration = max(m.VibBase, m.Vibration-m.physics.IdleVibDecay)
	return NoEvent, nil
}

func (m *Machine) stepBusy(s *randgen.Sampler, tickMinutes float64) (StepEvent, *job.Job) {
	j := m.BusyWith

	m.Temperature += j.TempInc + s.Uniform(-1.0, 1.4)
	m.Vibration += j.VibInc + s.Uniform(-0.4, 0.6)
	m.TotalPowerKWh += j.CurrentPowerKW() * (tickMinutes / 60.0)

	if s.Chance(m.physics.FailureSpikeProb) {
		m.Temperature += s.Uniform(2.0, 6.0)
	}
	if s.Chance(m.physics.FailureSpikeProb) {
		m.Vibration += s.Uniform(0.8, 2.0)
	}

	if m.Temperature >= m.TempThreshold || m.Vibration >= m.VibThreshold {
		m.BusyWith = nil
		m.RepairingLeft = m.RepairTime
		return Failed, j
	}

	before := j.RemainingTicksOnStep()
	j.WorkOneTick(tickMinutes)

	if j.Done() {
		m.BusyWith = nil
		return Completed, j
	}
	if before == 1 {
		m.BusyWith = nil
		return StepDone, j
	}
	return NoEvent, nil
}

// Preempt detaches the machine's current job (if any) and sends the
// machine into repair, used by the predictive preemption hook (C5).
// It returns the detached job, or nil if the machine held none.
func (m *Machine) Preempt() *job.Job {
	j := m.BusyWith
	m.BusyWith = nil
	m.RepairingLeft = m.RepairTime
	return j
}

// Status is one of the two human-readable status strings spec.md §6 defines.
func (m *Machine) Status() string {
	if m.RepairingLeft > 0 {
		return fmt.Sprintf("Repairing (%d/%d)", m.RepairingLeft, m.RepairTime)
	}
	return "Operational"
}

// CurrentJobLabel is the status snapshot's "current_job" field.
func (m *Machine) CurrentJobLabel() string {
	switch {
	case m.RepairingLeft > 0:
		return "REPAIR"
	case m.BusyWith != nil:
		return m.BusyWith.ID
	default:
		return "IDLE"
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

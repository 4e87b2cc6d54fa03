// Package kernel implements the simulation kernel (C6): the per-tick loop
// that drives re-planning, assignment, machine advance, predictive
// preemption, and event fan-out over a fixed fleet of machines and their
// class queues.
package kernel

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flexshop/jobshop-sim/pkg/bus"
	"github.com/flexshop/jobshop-sim/pkg/config"
	"github.com/flexshop/jobshop-sim/pkg/events"
	"github.com/flexshop/jobshop-sim/pkg/job"
	"github.com/flexshop/jobshop-sim/pkg/machine"
	"github.com/flexshop/jobshop-sim/pkg/metrics"
	"github.com/flexshop/jobshop-sim/pkg/planner"
	"github.com/flexshop/jobshop-sim/pkg/queue"
	"github.com/flexshop/jobshop-sim/pkg/randgen"
	"github.com/flexshop/jobshop-sim/pkg/risk"
)

// Kernel owns the machines, queues, and rolling risk state for one
// simulation run.
type Kernel struct {
	cfg        config.SimulationConfig
	plannerCfg config.PlannerConfig

	machines []*machine.Machine
	queues   *queue.Store
	sampler  *randgen.Sampler
	risk     *risk.Tracker
	pub      bus.Publisher
	log      zerolog.Logger

	tick           int
	completed      map[string]bool
	pendingReplan  map[string]bool
	quiescentTicks int
}

// New builds a Kernel with the given fleet. If machines is nil,
// DefaultFleet is used. The risk model and publisher are required
// collaborators; callers typically pass risk.NewHeuristicModel() and a
// bus.Publisher such as logbus.New or pubsubbus.New.
func New(cfg *config.Config, machines []*machine.Machine, model risk.Model, pub bus.Publisher, log zerolog.Logger) *Kernel {
	physics := machine.Physics{
		FailureSpikeProb: cfg.Physics.FailureSpikeProb,
		RepairIdleReset:  cfg.Physics.RepairIdleReset,
		IdleTempDecay:    cfg.Physics.IdleTempDecay,
		IdleVibDecay:     cfg.Physics.IdleVibDecay,
	}
	if machines == nil {
		machines = DefaultFleet(physics)
	}

	tracker := risk.NewTracker(model)
	tracker.Threshold = cfg.Predictor.Threshold
	tracker.ThresholdFloor = cfg.Predictor.ThresholdFloor
	tracker.NearLimitRatio = cfg.Predictor.NearLimitRatio

	k := &Kernel{
		cfg:           cfg.Simulation,
		plannerCfg:    cfg.Planner,
		machines:      machines,
		queues:        queue.NewStore(),
		sampler:       randgen.New(cfg.Simulation.Seed),
		risk:          tracker,
		pub:           pub,
		log:           log.With().Str("component", "kernel").Logger(),
		completed:     make(map[string]bool),
		pendingReplan: make(map[string]bool),
	}

	for i := 0; i < cfg.Simulation.SeedJobs; i++ {
		k.EnqueueJob(job.MakeRandom(k.sampler))
	}

	return k
}

// EnqueueJob places a freshly created job into its required class's queue.
func (k *Kernel) EnqueueJob(j *job.Job) {
	k.queues.Append(j)
}

// Tick returns true once the kernel reaches quiescence and should stop.
func (k *Kernel) Tick(ctx context.Context) (bool, error) {
	k.tick++
	t := k.tick

	if k.cfg.InflowEveryTicks > 0 && t%k.cfg.InflowEveryTicks == 0 {
		k.EnqueueJob(job.MakeRandom(k.sampler))
	}

	k.runReplanPulse(ctx, t)
	k.runAssignment(ctx, t)
	k.runMachineAdvance(ctx, t)

	return k.checkQuiescence(), nil
}

func (k *Kernel) runReplanPulse(ctx context.Context, t int) {
	classes := k.pendingReplan
	k.pendingReplan = make(map[string]bool)

	if t%k.plannerCfg.IHAInterval == 1 {
		for _, cls := range k.queues.Classes() {
			classes[cls] = true
		}
	}

	for cls := range classes {
		k.replanClass(cls)
	}
}

func (k *Kernel) replanClass(class string) {
	jobs := k.queues.Snapshot(class)
	if len(jobs) == 0 {
		return
	}

	var classMachines []*machine.Machine
	for _, m := range k.machines {
		if m.Class == class {
			classMachines = append(classMachines, m)
		}
	}
	if len(classMachines) == 0 {
		return
	}

	weights := planner.Weights{FlowTime: k.plannerCfg.FlowWeight, Workload: k.plannerCfg.WorkloadWeight}
	pairs := planner.Assign(jobs, classMachines, weights)
	if len(pairs) == 0 {
		return
	}

	ordered := make([]*job.Job, 0, len(pairs))
	inOrdered := make(map[*job.Job]bool, len(pairs))
	for _, p := range pairs {
		ordered = append(ordered, p.Job)
		inOrdered[p.Job] = true
	}
	for _, j := range jobs {
		if !inOrdered[j] {
			ordered = append(ordered, j)
		}
	}

	k.queues.ReplaceWithOrderedSequence(class, ordered)
}

func (k *Kernel) runAssignment(ctx context.Context, t int) {
	assignedClassThisTick := make(map[string]bool)
	warmup := k.cfg.WarmupTicks > 0 && t <= k.cfg.WarmupTicks

	for _, m := range k.machines {
		if !m.Idle() {
			continue
		}
		if warmup && assignedClassThisTick[m.Class] {
			continue
		}

		j := k.queues.PopFront(m.Class)
		if j == nil {
			continue
		}

		if m.Assign(j) {
			assignedClassThisTick[m.Class] = true
			k.publishEvent(ctx, events.NewStarted(t, j.ID, m.ID, m.Class, j.RemainingTicksOnStep()))
		} else {
			k.queues.Prepend(j)
		}
	}
}

func (k *Kernel) runMachineAdvance(ctx context.Context, t int) {
	for _, m := range k.machines {
		k.maybePredictFailure(ctx, m, t)

		ev, j := m.Step(k.sampler, k.cfg.TickMinutes)

		k.publishStatus(ctx, m, t)
		k.publishTelemetry(ctx, m, t)

		switch ev {
		case machine.Failed:
			k.queues.Prepend(j)
			k.publishEvent(ctx, events.NewFailed(t, m.ID, m.Class, j.ID, m.Temperature, m.Vibration))
			k.pendingReplan[m.Class] = true
			metrics.IncJobFailed()

		case machine.StepDone:
			if !j.Done() {
				k.queues.Append(j)
			}
			next := j.RequiredClass()
			k.publishEvent(ctx, events.NewStepDone(t, j.ID, next))
			if next != "" {
				k.pendingReplan[next] = true
			}

		case machine.Completed:
			k.completed[j.ID] = true
			k.publishEvent(ctx, events.NewCompleted(t, j.ID, m.ID))
			metrics.IncJobCompleted()
		}
	}
}

func (k *Kernel) maybePredictFailure(ctx context.Context, m *machine.Machine, t int) {
	pred, ok, err := k.risk.Evaluate(ctx, m, t)
	if err != nil {
		k.log.Warn().Err(err).Str("machine_id", m.ID).Msg("risk model invocation failed")
		return
	}
	if !ok || !pred.ShouldPreempt {
		return
	}

	j := m.Preempt()
	if j != nil {
		k.queues.Prepend(j)
	}
	prob, threshold := pred.Probability, k.risk.EffectiveThreshold()
	k.publishEvent(ctx, events.NewPrediction(t, m.ID, jobIDOrEmpty(j), prob, threshold))
}

func jobIDOrEmpty(j *job.Job) string {
	if j == nil {
		return ""
	}
	return j.ID
}

func (k *Kernel) checkQuiescence() bool {
	for _, m := range k.machines {
		if !m.Idle() {
			k.quiescentTicks = 0
			return false
		}
	}
	for _, cls := range k.queues.Classes() {
		if k.queues.Len(cls) > 0 {
			k.quiescentTicks = 0
			return false
		}
	}

	k.quiescentTicks++
	return k.quiescentTicks >= k.cfg.QuiescenceGrace
}

func (k *Kernel) publishEvent(ctx context.Context, ev events.Event) {
	metrics.IncEvent(string(ev.Type))
	if err := k.pub.PublishEvent(ctx, ev); err != nil {
		k.log.Warn().Err(err).Str("event_type", string(ev.Type)).Msg("publish event failed")
	}
}

func (k *Kernel) publishStatus(ctx context.Context, m *machine.Machine, t int) {
	metrics.SetMachinePhysics(m.ID, m.Class, m.Temperature, m.Vibration)
	status := events.MachineStatus{
		Timestamp:     t,
		MachineID:     m.ID,
		ClassName:     m.Class,
		Temperature:   m.Temperature,
		Vibration:     m.Vibration,
		Status:        m.Status(),
		CurrentJob:    m.CurrentJobLabel(),
		TempThreshold: m.TempThreshold,
		VibThreshold:  m.VibThreshold,
		PowerKWhTotal: m.TotalPowerKWh,
	}
	if err := k.pub.PublishStatus(ctx, status); err != nil {
		k.log.Warn().Err(err).Str("machine_id", m.ID).Msg("publish status failed")
	}
}

func (k *Kernel) publishTelemetry(ctx context.Context, m *machine.Machine, t int) {
	tel := events.Telemetry{
		Timestamp:    t,
		ClassName:    m.Class,
		MachineID:    m.ID,
		TemperatureC: m.Temperature,
		VibrationRMS: m.Vibration,
		Seq:          t,
	}
	if err := k.pub.PublishTelemetry(ctx, tel); err != nil {
		k.log.Warn().Err(err).Str("machine_id", m.ID).Msg("publish telemetry failed")
	}
}

// CurrentTick returns the current tick counter.
func (k *Kernel) CurrentTick() int { return k.tick }

// Completed reports whether the given job id has reached the completed set.
func (k *Kernel) Completed(jobID string) bool { return k.completed[jobID] }

// QueueLen reports how many jobs are waiting in a class's queue.
func (k *Kernel) QueueLen(class string) int { return k.queues.Len(class) }

// Machines exposes the fleet in registry order, read-only by convention.
func (k *Kernel) Machines() []*machine.Machine { return k.machines }

// Run drives ticks until quiescence, ctx cancellation, or MaxTicks is
// reached (0 means unbounded).
func (k *Kernel) Run(ctx context.Context, driver Driver) error {
	for {
		terminated, err := k.Tick(ctx)
		if err != nil {
			return err
		}
		if terminated {
			return nil
		}
		if k.cfg.MaxTicks > 0 && k.tick >= k.cfg.MaxTicks {
			return nil
		}
		if err := driver.Wait(ctx); err != nil {
			return err
		}
	}
}

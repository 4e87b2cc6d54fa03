package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/job"
	"github.com/flexshop/jobshop-sim/pkg/machine"
	"github.com/flexshop/jobshop-sim/pkg/planner"
)

func newMachine(id string, temp, vib float64) *machine.Machine {
	m := machine.New("A", id, 20, 90, 0.5, 8, 3, machine.DefaultPhysics())
	m.Temperature, m.Vibration = temp, vib
	return m
}

func TestAssignReturnsEmptyOnEitherSideEmpty(t *testing.T) {
	assert.Nil(t, planner.Assign(nil, []*machine.Machine{newMachine("M1", 20, 0.5)}, planner.DefaultWeights()))
	assert.Nil(t, planner.Assign([]*job.Job{{Steps: []job.Step{{Class: "A", RemainingTicks: 3}}}}, nil, planner.DefaultWeights()))
}

func TestAssignIsAOneToOnePairing(t *testing.T) {
	jobs := []*job.Job{
		{ID: "J1", Steps: []job.Step{{Class: "A", RemainingTicks: 2}}},
		{ID: "J2", Steps: []job.Step{{Class: "A", RemainingTicks: 8}}},
		{ID: "J3", Steps: []job.Step{{Class: "A", RemainingTicks: 5}}},
	}
	machines := []*machine.Machine{
		newMachine("M1", 20, 0.5),
		newMachine("M2", 80, 7),
	}

	pairs := planner.Assign(jobs, machines, planner.DefaultWeights())
	require.Len(t, pairs, 2)

	seenJobs := map[string]bool{}
	seenMachs := map[string]bool{}
	for _, p := range pairs {
		assert.False(t, seenJobs[p.Job.ID], "job assigned twice")
		assert.False(t, seenMachs[p.Machine.ID], "machine assigned twice")
		seenJobs[p.Job.ID] = true
		seenMachs[p.Machine.ID] = true
	}
}

func TestAssignCoversEveryMachineWhenJobsOutnumberThem(t *testing.T) {
	jobs := []*job.Job{
		{ID: "J1", Steps: []job.Step{{Class: "A", RemainingTicks: 2}}},
		{ID: "J2", Steps: []job.Step{{Class: "A", RemainingTicks: 16}}},
		{ID: "J3", Steps: []job.Step{{Class: "A", RemainingTicks: 7}}},
	}
	cool := newMachine("COOL", 20, 0.5)
	hot := newMachine("HOT", 85, 7.5)

	pairs := planner.Assign(jobs, []*machine.Machine{cool, hot}, planner.DefaultWeights())
	require.Len(t, pairs, 2)

	seenMachs := map[string]bool{}
	for _, p := range pairs {
		seenMachs[p.Machine.ID] = true
	}
	assert.True(t, seenMachs["COOL"])
	assert.True(t, seenMachs["HOT"])
}

func TestAssignHandlesUnevenCounts(t *testing.T) {
	jobs := []*job.Job{
		{ID: "J1", Steps: []job.Step{{Class: "A", RemainingTicks: 2}}},
		{ID: "J2", Steps: []job.Step{{Class: "A", RemainingTicks: 8}}},
		{ID: "J3", Steps: []job.Step{{Class: "A", RemainingTicks: 5}}},
	}
	machines := []*machine.Machine{newMachine("M1", 20, 0.5)}

	pairs := planner.Assign(jobs, machines, planner.DefaultWeights())
	require.Len(t, pairs, 1)
	assert.Equal(t, "M1", pairs[0].Machine.ID)
}

func TestAssignIsDeterministicForSameInput(t *testing.T) {
	build := func() ([]*job.Job, []*machine.Machine) {
		return []*job.Job{
				{ID: "J1", Steps: []job.Step{{Class: "A", RemainingTicks: 3}}},
				{ID: "J2", Steps: []job.Step{{Class: "A", RemainingTicks: 11}}},
			}, []*machine.Machine{
				newMachine("M1", 22, 0.6),
				newMachine("M2", 60, 4),
			}
	}

	j1, m1 := build()
	p1 := planner.Assign(j1, m1, planner.DefaultWeights())

	j2, m2 := build()
	p2 := planner.Assign(j2, m2, planner.DefaultWeights())

	require.Len(t, p1, 2)
	require.Len(t, p2, 2)
	assert.Equal(t, p1[0].Job.ID, p2[0].Job.ID)
	assert.Equal(t, p1[0].Machine.ID, p2[0].Machine.ID)
	assert.Equal(t, p1[1].Job.ID, p2[1].Job.ID)
	assert.Equal(t, p1[1].Machine.ID, p2[1].Machine.ID)
}

func TestAssignHandlesUniformCostMatrixWithoutPanicking(t *testing.T) {
	jobs := []*job.Job{
		{ID: "J1", Steps: []job.Step{{Class: "A", RemainingTicks: 5}}},
		{ID: "J2", Steps: []job.Step{{Class: "A", RemainingTicks: 5}}},
	}
	machines := []*machine.Machine{newMachine("M1", 30, 2), newMachine("M2", 30, 2)}

	assert.NotPanics(t, func() {
		pairs := planner.Assign(jobs, machines, planner.DefaultWeights())
		assert.Len(t, pairs, 2)
	})
}

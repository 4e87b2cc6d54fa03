package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/job"
	"github.com/flexshop/jobshop-sim/pkg/randgen"
)

func TestMakeRandomProducesWellFormedRoute(t *testing.T) {
	s := randgen.New(1)
	for i := 0; i < 100; i++ {
		j := job.MakeRandom(s)
		require.NotEmpty(t, j.Steps)

		total := 0
		for _, step := range j.Steps {
			assert.GreaterOrEqual(t, step.RemainingTicks, job.MinStepTicks)
			total += step.RemainingTicks
		}
		assert.GreaterOrEqual(t, total, job.DurationTotalRange[0])
		assert.LessOrEqual(t, total, job.DurationTotalRange[1])
		assert.GreaterOrEqual(t, j.Reduction, job.ReductionRange[0])
		assert.LessOrEqual(t, j.Reduction, job.ReductionRange[1])
		assert.False(t, j.Done())
		assert.Equal(t, j.Steps[0].Class, j.RequiredClass())
	}
}

func TestWorkOneTickAdvancesStepAndAccumulatesEnergy(t *testing.T) {
	j := &job.Job{
		Steps: []job.Step{
			{Class: "A", RemainingTicks: 2, PowerKW: 60.0},
			{Class: "B", RemainingTicks: 1, PowerKW: 30.0},
		},
	}

	j.WorkOneTick(1.0) // 1 tick = 1 minute
	assert.Equal(t, 0, j.CurrentStep)
	assert.Equal(t, 1, j.RemainingTicksOnStep())
	assert.InDelta(t, 1.0, j.EnergyUsed, 1e-9) // 60kW * 1/60h

	j.WorkOneTick(1.0)
	assert.Equal(t, 1, j.CurrentStep)
	assert.Equal(t, "B", j.RequiredClass())
	assert.InDelta(t, 2.0, j.EnergyUsed, 1e-9)

	j.WorkOneTick(1.0)
	assert.True(t, j.Done())
	assert.Equal(t, "", j.RequiredClass())
	assert.Equal(t, 0, j.RemainingTicksOnStep())
	assert.Equal(t, 0.0, j.CurrentPowerKW())
}

func TestWorkOneTickIsNoOpWhenDone(t *testing.T) {
	j := &job.Job{Steps: []job.Step{{Class: "A", RemainingTicks: 1, PowerKW: 1}}, CurrentStep: 1}
	require.True(t, j.Done())
	j.WorkOneTick(1.0)
	assert.Equal(t, 0.0, j.EnergyUsed)
}

func TestNextIDIsMonotonicAndFormatted(t *testing.T) {
	a := job.NextID()
	b := job.NextID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^JOB_\d+$`, a)
	assert.Regexp(t, `^JOB_\d+$`, b)
}

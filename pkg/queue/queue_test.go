package queue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flexshop/jobshop-sim/pkg/job"
	"github.com/flexshop/jobshop-sim/pkg/queue"
)

func newJob(class string) *job.Job {
	return &job.Job{ID: job.NextID(), Steps: []job.Step{{Class: class, RemainingTicks: 3, PowerKW: 1}}}
}

func TestAppendAndPopFrontIsFIFO(t *testing.T) {
	s := queue.NewStore()
	j1, j2, j3 := newJob("A"), newJob("A"), newJob("A")
	s.Append(j1)
	s.Append(j2)
	s.Append(j3)

	assert.Same(t, j1, s.PopFront("A"))
	assert.Same(t, j2, s.PopFront("A"))
	assert.Same(t, j3, s.PopFront("A"))
	assert.Nil(t, s.PopFront("A"))
}

func TestPrependPlacesAtFront(t *testing.T) {
	s := queue.NewStore()
	j1, j2 := newJob("B"), newJob("B")
	s.Append(j1)
	s.Prepend(j2)

	assert.Same(t, j2, s.PopFront("B"))
	assert.Same(t, j1, s.PopFront("B"))
}

func TestQueuesAreIsolatedByClass(t *testing.T) {
	s := queue.NewStore()
	a, b := newJob("A"), newJob("B")
	s.Append(a)
	s.Append(b)

	assert.Equal(t, 1, s.Len("A"))
	assert.Equal(t, 1, s.Len("B"))
	assert.Same(t, a, s.PopFront("A"))
	assert.Nil(t, s.PopFront("A"))
	assert.Same(t, b, s.PopFront("B"))
}

func TestLenOnUnknownClassIsZero(t *testing.T) {
	s := queue.NewStore()
	assert.Equal(t, 0, s.Len("Z"))
}

func TestSnapshotDoesNotMutateQueue(t *testing.T) {
	s := queue.NewStore()
	j1, j2 := newJob("A"), newJob("A")
	s.Append(j1)
	s.Append(j2)

	snap := s.Snapshot("A")
	assert.Equal(t, []*job.Job{j1, j2}, snap)
	assert.Equal(t, 2, s.Len("A"))
}

func TestReplaceWithOrderedSequenceReorders(t *testing.T) {
	s := queue.NewStore()
	j1, j2, j3 := newJob("A"), newJob("A"), newJob("A")
	s.Append(j1)
	s.Append(j2)
	s.Append(j3)

	s.ReplaceWithOrderedSequence("A", []*job.Job{j3, j1, j2})

	assert.Same(t, j3, s.PopFront("A"))
	assert.Same(t, j1, s.PopFront("A"))
	assert.Same(t, j2, s.PopFront("A"))
}

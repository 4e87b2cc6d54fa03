// Package queue implements the per-class FIFO job queues (C3) that sit
// between job arrival and machine assignment.
package queue

import (
	"container/list"
	"sync"

	"github.com/flexshop/jobshop-sim/pkg/job"
)

// Store holds one FIFO queue per machine class.
type Store struct {
	mu     sync.Mutex
	queues map[string]*list.List
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{queues: make(map[string]*list.List)}
}

func (s *Store) queueFor(class string) *list.List {
	q, ok := s.queues[class]
	if !ok {
		q = list.New()
		s.queues[class] = q
	}
	return q
}

// Append places j at the back of its required class's queue.
func (s *Store) Append(j *job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueFor(j.RequiredClass()).PushBack(j)
}

// Prepend places j at the front of its required class's queue, used when a
// job is returned to the shop floor after a machine failure.
func (s *Store) Prepend(j *job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueFor(j.RequiredClass()).PushFront(j)
}

// PopFront removes and returns the job at the front of class's queue, or
// nil if the queue is empty.
func (s *Store) PopFront(class string) *job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[class]
	if !ok || q.Len() == 0 {
		return nil
	}
	front := q.Front()
	q.Remove(front)
	return front.Value.(*job.Job)
}

// Len reports how many jobs are waiting in class's queue.
func (s *Store) Len(class string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[class]
	if !ok {
		return 0
	}
	return q.Len()
}

// Classes returns the set of class names that have ever held a job,
// regardless of current depth.
func (s *Store) Classes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.queues))
	for c := range s.queues {
		out = append(out, c)
	}
	return out
}

// Snapshot returns the jobs in class's queue, front to back, without
// removing them.
func (s *Store) Snapshot(class string) []*job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[class]
	if !ok {
		return nil
	}
	out := make([]*job.Job, 0, q.Len())
	for e := q.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*job.Job))
	}
	return out
}

// ReplaceWithOrderedSequence atomically replaces class's queue contents
// with ordered. Jobs in the queue that are not in ordered are dropped, so
// the caller passes a permutation of a prior Snapshot of the same class.
func (s *Store) ReplaceWithOrderedSequence(class string, ordered []*job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queueFor(class)
	q.Init()
	for _, j := range ordered {
		q.PushBack(j)
	}
}

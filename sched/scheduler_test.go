// SPDX-License-Identifier: MIT
package sched_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/sched"
	"github.com/katalvlaran/devsim/simtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopAtomic struct{}

func (nopAtomic) TimeAdvance() simtime.Time                             { return simtime.Float64Inf }
func (nopAtomic) Output(yb *[]pin.PinValue[struct{}])                   {}
func (nopAtomic) DeltaInt()                                             {}
func (nopAtomic) DeltaExt(e simtime.Time, xb []pin.PinValue[struct{}])  {}
func (nopAtomic) DeltaConf(xb []pin.PinValue[struct{}])                 {}

// TestSchedule_InsertRemoveReprioritize exercises three
// Schedule cases against a handful of atomics.
//
// Stage 1: insert three atomics at distinct priorities.
// Stage 2: MinPriority and RemoveMinimum agree and are non-decreasing.
// Stage 3: reprioritizing an atomic to Inf removes it (no-op if already gone).
// Stage 4: Schedule(m, p) twice with the same p is equivalent to once.
func TestSchedule_InsertRemoveReprioritize(t *testing.T) {
	s := sched.New[struct{}](simtime.Float64Zero)
	a := atomic.New[struct{}](nopAtomic{}, simtime.Float64Zero)
	b := atomic.New[struct{}](nopAtomic{}, simtime.Float64Zero)
	c := atomic.New[struct{}](nopAtomic{}, simtime.Float64Zero)

	s.Schedule(a, simtime.Float64(30))
	s.Schedule(b, simtime.Float64(10))
	s.Schedule(c, simtime.Float64(20))
	require.Equal(t, 3, s.Len())

	assert.Equal(t, simtime.Float64(10), s.MinPriority(simtime.Float64Inf))
	got := s.RemoveMinimum()
	assert.Same(t, b, got)
	assert.Equal(t, 0, b.QIndex)

	assert.Equal(t, simtime.Float64(20), s.MinPriority(simtime.Float64Inf))

	// Re-prioritizing to Inf removes the entry.
	s.Schedule(a, simtime.Float64Inf)
	assert.Equal(t, 1, s.Len())

	// Idempotent re-schedule at the same priority.
	s.Schedule(c, simtime.Float64(20))
	assert.Equal(t, 1, s.Len())
}

// TestVisitImminent_CollectsTies verifies every atomic tied for the
// minimum priority is returned, and none else.
func TestVisitImminent_CollectsTies(t *testing.T) {
	s := sched.New[struct{}](simtime.Float64Zero)
	models := make([]*atomic.Model[struct{}], 5)
	priorities := []simtime.Float64{5, 5, 5, 9, 9}
	for i := range models {
		models[i] = atomic.New[struct{}](nopAtomic{}, simtime.Float64Zero)
		s.Schedule(models[i], priorities[i])
	}

	imminent := s.VisitImminent()
	assert.Len(t, imminent, 3)
	for _, m := range imminent {
		assert.Equal(t, simtime.Float64(5), s.MinPriority(simtime.Float64Inf).(simtime.Float64))
		_ = m
	}
}

// TestScheduler_RandomStress inserts 2000 atomics at random priorities
// then repeatedly removes the minimum: the
// returned priorities must be non-decreasing and the total count
// exactly 2000.
func TestScheduler_RandomStress(t *testing.T) {
	const n = 2000
	rng := rand.New(rand.NewSource(1))
	s := sched.New[struct{}](simtime.Float64Zero)

	models := make([]*atomic.Model[struct{}], n)
	for i := 0; i < n; i++ {
		models[i] = atomic.New[struct{}](nopAtomic{}, simtime.Float64Zero)
		s.Schedule(models[i], simtime.Float64(rng.Float64()*1000))
	}
	require.Equal(t, n, s.Len())

	var last simtime.Float64 = -1
	count := 0
	for s.Len() > 0 {
		p := s.MinPriority(simtime.Float64Inf).(simtime.Float64)
		assert.GreaterOrEqual(t, float64(p), float64(last))
		last = p
		s.RemoveMinimum()
		count++
	}
	assert.Equal(t, n, count)
}

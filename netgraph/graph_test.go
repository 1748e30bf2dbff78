// SPDX-License-Identifier: MIT
package netgraph_test

import (
	"testing"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/netgraph"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/simtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopAtomic struct{}

func (nopAtomic) TimeAdvance() simtime.Time                            { return simtime.Float64Inf }
func (nopAtomic) Output(yb *[]pin.PinValue[int])                       {}
func (nopAtomic) DeltaInt()                                            {}
func (nopAtomic) DeltaExt(e simtime.Time, xb []pin.PinValue[int])      {}
func (nopAtomic) DeltaConf(xb []pin.PinValue[int])                     {}

// TestRoute_TransitiveClosure verifies that routing a source pin
// through a chain of pin→pin edges reaches every atomic endpoint, and
// that a pin with no outgoing atomic endpoints silently drops its
// value.
//
// Stage 1: build p1 -> p2 -> {a, b}, with p3 dangling (no atomics).
// Stage 2: Route(p1) reaches both a and b.
// Stage 3: Route(p3) reaches nothing.
// Stage 4: routing the same source twice yields the same sequence (determinism).
func TestRoute_TransitiveClosure(t *testing.T) {
	g := netgraph.New[int]()
	p1 := g.AddPin()
	p2 := g.AddPin()
	p3 := g.AddPin()

	a := atomic.New[int](nopAtomic{}, simtime.Float64Zero)
	b := atomic.New[int](nopAtomic{}, simtime.Float64Zero)
	g.AddAtomic(a)
	g.AddAtomic(b)

	g.ConnectPins(p1, p2)
	g.ConnectAtomic(p2, a)
	g.ConnectAtomic(p2, b)

	var out []netgraph.Endpoint[int]
	g.Route(p1, &out)
	require.Len(t, out, 2)
	assert.Equal(t, a, out[0].Model)
	assert.Equal(t, b, out[1].Model)
	assert.Equal(t, p2, out[0].Pin)

	var dangling []netgraph.Endpoint[int]
	g.Route(p3, &dangling)
	assert.Empty(t, dangling)

	var again []netgraph.Endpoint[int]
	g.Route(p1, &again)
	assert.Equal(t, out, again)
}

// TestValidateCoupling_SelfCoupling verifies routing an atomic to
// itself is detected as a model-contract violation.
func TestValidateCoupling_SelfCoupling(t *testing.T) {
	g := netgraph.New[int]()
	p1 := g.AddPin()
	a := atomic.New[int](nopAtomic{}, simtime.Float64Zero)
	g.AddAtomic(a)
	g.ConnectAtomic(p1, a)

	err := g.ValidateCoupling(a, []pin.Pin{p1})
	assert.ErrorIs(t, err, netgraph.ErrSelfCoupling)
}

type mealyAtomic struct{ nopAtomic }

func (mealyAtomic) MealyOutput(xb []pin.PinValue[int], yb *[]pin.PinValue[int]) {}

// TestValidateCoupling_MealyMealy verifies two directly-coupled Mealy
// atomics are rejected.
func TestValidateCoupling_MealyMealy(t *testing.T) {
	g := netgraph.New[int]()
	p1 := g.AddPin()
	a := atomic.New[int](mealyAtomic{}, simtime.Float64Zero)
	b := atomic.New[int](mealyAtomic{}, simtime.Float64Zero)
	g.AddAtomic(a)
	g.AddAtomic(b)
	g.ConnectAtomic(p1, b)

	err := g.ValidateCoupling(a, []pin.Pin{p1})
	assert.ErrorIs(t, err, netgraph.ErrMealyMealyCoupling)
}

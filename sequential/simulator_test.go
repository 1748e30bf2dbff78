// SPDX-License-Identifier: MIT
package sequential_test

import (
	"testing"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/netgraph"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/sequential"
	"github.com/katalvlaran/devsim/simtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock() sequential.Clock {
	return sequential.Clock{Zero: simtime.Float64Zero, Inf: simtime.Float64Inf, Epsilon: simtime.Float64Epsilon}
}

// generator emits 'a' every period time units.
type generator struct {
	period simtime.Float64
	pin    pin.Pin
}

func (g *generator) TimeAdvance() simtime.Time { return g.period }
func (g *generator) Output(yb *[]pin.PinValue[string]) {
	*yb = append(*yb, pin.PinValue[string]{Pin: g.pin, Value: "a"})
}
func (g *generator) DeltaInt()                                           {}
func (g *generator) DeltaExt(e simtime.Time, xb []pin.PinValue[string])   {}
func (g *generator) DeltaConf(xb []pin.PinValue[string])                 {}

type singleModelNet[X any] struct{ g *netgraph.Graph[X] }

func (n singleModelNet[X]) Graph() *netgraph.Graph[X] { return n.g }

type recordingListener[X any] struct {
	outputs []simtime.Time
}

func (r *recordingListener[X]) OutputEvent(m *atomic.Model[X], v pin.PinValue[X], t simtime.Time) {
	r.outputs = append(r.outputs, t)
}
func (r *recordingListener[X]) InputEvent(m *atomic.Model[X], v pin.PinValue[X], t simtime.Time) {}
func (r *recordingListener[X]) StateChange(m *atomic.Model[X], t simtime.Time)                    {}

// TestPeriodicGenerator reproduces scenario 1: one atomic
// with ta()=10 emitting 'a'; after 10 ticks the listener has observed
// exactly 10 output events at t = 10, 20, ..., 100.
func TestPeriodicGenerator(t *testing.T) {
	g := netgraph.New[string]()
	p := g.AddPin()
	gen := &generator{period: 10, pin: p}
	m := atomic.New[string](gen, simtime.Float64Zero)
	g.AddAtomic(m)

	sim, err := sequential.New[string](singleModelNet[string]{g}, clock())
	require.NoError(t, err)

	listener := &recordingListener[string]{}
	sim.AddEventListener(listener)

	require.Equal(t, simtime.Float64(10), sim.NextEventTime())

	for i := 0; i < 10; i++ {
		_, err := sim.ExecNextEvent()
		require.NoError(t, err)
	}

	require.Len(t, listener.outputs, 10)
	for i, ot := range listener.outputs {
		assert.Equal(t, simtime.Float64(10*(i+1)), ot)
	}
}

// job is the payload routed through the generator -> processor ->
// transducer chain.
type job struct {
	id int
	t  simtime.Float64
}

type genr struct {
	period simtime.Float64
	pinOut pin.Pin
	n      int
}

func (g *genr) TimeAdvance() simtime.Time { return g.period }
func (g *genr) Output(yb *[]pin.PinValue[job]) {
	*yb = append(*yb, pin.PinValue[job]{Pin: g.pinOut, Value: job{id: g.n}})
}
func (g *genr) DeltaInt()                                         { g.n++ }
func (g *genr) DeltaExt(e simtime.Time, xb []pin.PinValue[job])   {}
func (g *genr) DeltaConf(xb []pin.PinValue[job])                  {}

type processor struct {
	service simtime.Float64
	busy    bool
	pinOut  pin.Pin
	current job
	left    simtime.Float64
}

func (p *processor) TimeAdvance() simtime.Time {
	if p.busy {
		return p.left
	}
	return simtime.Float64Inf
}
func (p *processor) Output(yb *[]pin.PinValue[job]) {
	*yb = append(*yb, pin.PinValue[job]{Pin: p.pinOut, Value: p.current})
}
func (p *processor) DeltaInt() { p.busy = false }
func (p *processor) DeltaExt(e simtime.Time, xb []pin.PinValue[job]) {
	if !p.busy {
		p.busy = true
		p.current = xb[0].Value
		p.left = p.service
		return
	}
	// Busy: arriving job is dropped; the job in service keeps its
	// remaining time.
	p.left -= e.(simtime.Float64)
}
func (p *processor) DeltaConf(xb []pin.PinValue[job]) {
	p.busy = false
	p.DeltaExt(simtime.Float64(0), xb)
}

type transducer struct {
	starts, finishes int
}

func (t *transducer) TimeAdvance() simtime.Time                       { return simtime.Float64Inf }
func (t *transducer) Output(yb *[]pin.PinValue[job])                  {}
func (t *transducer) DeltaInt()                                       {}
func (t *transducer) DeltaExt(e simtime.Time, xb []pin.PinValue[job]) { t.finishes += len(xb) }
func (t *transducer) DeltaConf(xb []pin.PinValue[job])                { t.finishes += len(xb) }

// TestChain_GeneratorProcessorTransducer reproduces scenario
// 3: g=1, p=2; the processor drops every other arriving job because
// its service time exceeds the generator's period. Jobs arrive at
// t=1,3,5,7,9,... are accepted and finish two time units later, so by
// t=11 exactly 5 jobs have completed (throughput ~0.5, turnaround 2.0).
func TestChain_GeneratorProcessorTransducer(t *testing.T) {
	g := netgraph.New[job]()
	genOutPin := g.AddPin()
	procOutPin := g.AddPin()

	gm := &genr{period: 1, pinOut: genOutPin}
	pm := &processor{service: 2, pinOut: procOutPin}
	tm := &transducer{}

	genModel := atomic.New[job](gm, simtime.Float64Zero)
	procModel := atomic.New[job](pm, simtime.Float64Zero)
	transModel := atomic.New[job](tm, simtime.Float64Zero)

	g.AddAtomic(genModel)
	g.AddAtomic(procModel)
	g.AddAtomic(transModel)
	g.ConnectAtomic(genOutPin, procModel)
	g.ConnectAtomic(procOutPin, transModel)

	sim, err := sequential.New[job](singleModelNet[job]{g}, clock())
	require.NoError(t, err)

	for {
		next := sim.NextEventTime()
		if next.IsInf() || simtime.Less(simtime.Float64(11), next) {
			break
		}
		_, err := sim.ExecNextEvent()
		require.NoError(t, err)
	}

	assert.Equal(t, 5, tm.finishes)
}

// intGenerator emits a fixed integer every period time units.
type intGenerator struct {
	period simtime.Float64
	pinOut pin.Pin
	value  int
}

func (g *intGenerator) TimeAdvance() simtime.Time                      { return g.period }
func (g *intGenerator) Output(yb *[]pin.PinValue[int])                { *yb = append(*yb, pin.PinValue[int]{Pin: g.pinOut, Value: g.value}) }
func (g *intGenerator) DeltaInt()                                      {}
func (g *intGenerator) DeltaExt(e simtime.Time, xb []pin.PinValue[int]) {}
func (g *intGenerator) DeltaConf(xb []pin.PinValue[int])               {}

// mealyEcho is a Mealy atomic: imminent with no input it emits idle,
// but with confluent input its output is the sum of that input,
// computed by MealyOutput rather than Output.
type mealyEcho struct {
	period simtime.Float64
	pinOut pin.Pin
	idle   int
	last   int
}

func (e *mealyEcho) TimeAdvance() simtime.Time { return e.period }
func (e *mealyEcho) Output(yb *[]pin.PinValue[int]) {
	*yb = append(*yb, pin.PinValue[int]{Pin: e.pinOut, Value: e.idle})
}
func (e *mealyEcho) MealyOutput(xb []pin.PinValue[int], yb *[]pin.PinValue[int]) {
	sum := 0
	for _, pv := range xb {
		sum += pv.Value
	}
	e.last = sum
	*yb = append(*yb, pin.PinValue[int]{Pin: e.pinOut, Value: sum})
}
func (e *mealyEcho) DeltaInt()                                      {}
func (e *mealyEcho) DeltaExt(t simtime.Time, xb []pin.PinValue[int]) {}
func (e *mealyEcho) DeltaConf(xb []pin.PinValue[int])                {}

type intCollector struct {
	received []int
}

func (c *intCollector) TimeAdvance() simtime.Time      { return simtime.Float64Inf }
func (c *intCollector) Output(yb *[]pin.PinValue[int]) {}
func (c *intCollector) DeltaInt()                      {}
func (c *intCollector) DeltaExt(e simtime.Time, xb []pin.PinValue[int]) {
	for _, pv := range xb {
		c.received = append(c.received, pv.Value)
	}
}
func (c *intCollector) DeltaConf(xb []pin.PinValue[int]) { c.DeltaExt(simtime.Float64(0), xb) }

// TestMealyAtomic_ConfluentInput_RoutesRealMealyOutput pins down the
// Phase A/Phase B interaction for a Mealy atomic that is imminent at
// the exact instant it also receives input: the value that must reach
// its downstream recipient is MealyOutput's (input-dependent) result,
// never the sentinel Output() would produce for a plain internal
// event.
func TestMealyAtomic_ConfluentInput_RoutesRealMealyOutput(t *testing.T) {
	g := netgraph.New[int]()
	genPin := g.AddPin()
	echoPin := g.AddPin()

	gen := &intGenerator{period: 5, pinOut: genPin, value: 7}
	echo := &mealyEcho{period: 5, pinOut: echoPin, idle: -1}
	col := &intCollector{}

	genModel := atomic.New[int](gen, simtime.Float64Zero)
	echoModel := atomic.New[int](echo, simtime.Float64Zero)
	colModel := atomic.New[int](col, simtime.Float64Zero)

	g.AddAtomic(genModel)
	g.AddAtomic(echoModel)
	g.AddAtomic(colModel)
	g.ConnectAtomic(genPin, echoModel)
	g.ConnectAtomic(echoPin, colModel)

	sim, err := sequential.New[int](singleModelNet[int]{g}, clock())
	require.NoError(t, err)

	require.Equal(t, simtime.Float64(5), sim.NextEventTime())
	_, err = sim.ExecNextEvent()
	require.NoError(t, err)

	require.Len(t, col.received, 1)
	assert.Equal(t, 7, col.received[0], "downstream must see MealyOutput's input-dependent value, not Output's idle sentinel")
	assert.Equal(t, 7, echo.last)
}

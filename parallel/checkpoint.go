package parallel

import (
	"github.com/google/uuid"
	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/simtime"
)

// Checkpointer is the optional capability a component's Atomic
// implementation provides so the parallel engine can run it
// speculatively. A component that does not implement Checkpointer can
// still be simulated, but any rollback the engine needs to perform on
// it instead sets its logical process's forcedBarrier flag, ending
// speculation for it; no error is returned.
type Checkpointer[X any] interface {
	atomic.Atomic[X]

	// MakeCheckpoint captures enough of the component's private state
	// to later reconstruct it via RestoreCheckpoint. The engine treats
	// the returned value as opaque and never inspects it.
	MakeCheckpoint() any

	// RestoreCheckpoint resets the component's private state to what
	// it was when blob was produced by MakeCheckpoint. Must be
	// idempotent: the engine may restore the same checkpoint more than
	// once per simulated instant.
	RestoreCheckpoint(blob any)
}

// checkpoint pairs a component's engine-owned bookkeeping (tL, tN)
// with the opaque, user-owned state blob, keyed by a UUID purely for
// observability (logs, error messages) — the engine never looks a
// checkpoint up by ID, only by recency relative to GVT.
type checkpoint struct {
	id   uuid.UUID
	tL   simtime.Time
	tN   simtime.Time
	blob any
}

func newCheckpoint(tL, tN simtime.Time, blob any) checkpoint {
	return checkpoint{id: uuid.New(), tL: tL, tN: tN, blob: blob}
}

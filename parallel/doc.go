// Package parallel implements a speculative, checkpoint-based parallel
// simulator: one LogicalProcess per atomic component, executing
// optimistically against a shared Global Virtual Time (GVT) in two
// barriered phases per round, rolling back state and cancelling
// already-shipped output when a late input invalidates work done ahead
// of GVT.
//
// There is no Time-Warp-style unbounded optimism here: a component may
// run at most one round ahead of GVT between barriers. Parallelism is
// across logical processes within each phase, using
// golang.org/x/sync/errgroup for bounded fan-out; checkpoint identity
// uses github.com/google/uuid so retained and garbage-collected
// checkpoints can be told apart in logs without comparing state blobs.
package parallel

// Package netgraph implements a bipartite routing table: pins map to
// lists of downstream pins and lists of downstream atomics. Routing a
// source pin produces the transitive closure of pin→pin edges,
// terminating in the set of reachable atomics, tagged with the last
// pin on the path so a receiver can distinguish its input channels.
//
// The closure walk is a depth-first search over an adjacency map, the
// same shape a vertex-adjacency DFS takes — here walking pin edges
// instead of vertex edges, and collecting (pin, atomic) pairs as
// terminal nodes instead of vertex IDs.
//
// Concurrency: a single sync.RWMutex guards pin adjacency and atomic
// registration. The graph is read-only during a simulation run, so
// unlike a two-lock graph (separate locks for vertices and edges, to
// reduce contention under concurrent mutation) one lock suffices here:
// routing (reads) happens constantly during a run, while
// AddPin/Connect/AddAtomic (writes) happen only during setup.
package netgraph

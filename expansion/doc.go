// Package expansion grows density-based clusters over a classified point
// set by breadth-first traversal of the implicit reachability graph.
//
// State machine (one Engine per run):
//
//	Idle ──(unvisited core left)──▶ SeedSelection ──▶ Expanding ──▶ Finalizing ──▶ Idle
//	  └──(none left)──▶ Done
//
//   - SeedSelection: pick uniformly among the currently unvisited core
//     objects, mark it visited, enqueue and mark reached every unreached
//     neighbor.
//   - Expanding: pop FIFO; a popped core object enqueues every neighbor
//     whose mark is still 0, marking it reached at push time.
//   - Finalizing: assign the next ClusterId; the members are exactly the
//     points whose mark changed during the episode; every core member is
//     marked visited.
//
// VisitedMarks hold 0 (unreached), −1 (isolated) or the point's own ID
// (reached). A point is enqueued at most once per run, so RunToCompletion terminates
// after at most N pushes.
//
// Randomness is injected via WithRand or WithSeed; without either the
// engine seeds itself from the clock. Cancellation (WithContext) is only
// consulted between episodes, never while a queue is being drained.
package expansion

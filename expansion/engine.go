package expansion

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/katalvlaran/dbscan/registry"
)

// Engine runs expansion episodes over one registry. It is single-threaded
// and not safe for concurrent use.
type Engine struct {
	reg   *registry.Registry
	opts  Options
	rng   *rand.Rand
	state State

	marks    []int // VisitedMarks, index 0 unused
	queue    workQueue
	changed  []int // IDs whose mark changed in the current episode
	seedID   int
	nextID   int
	clusters []Cluster
}

// New prepares an engine for reg. Points without any neighbor start with
// mark Isolated, all others Unreached. Returns ErrRegistryNil or
// ErrOptionViolation.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	if reg == nil {
		return nil, ErrRegistryNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	rng := o.Rand
	if rng == nil {
		rng = rngFromClock()
	}

	n := reg.Len()
	e := &Engine{
		reg:   reg,
		opts:  o,
		rng:   rng,
		state: Idle,
		marks: make([]int, n+1),
	}
	for id := 1; id <= n; id++ {
		if reg.Sets().Count(id) == 0 {
			e.marks[id] = Isolated
		}
	}
	return e, nil
}

// State returns the current phase.
func (e *Engine) State() State {
	return e.state
}

// Marks returns a copy of VisitedMarks; index i holds the mark of ID i.
func (e *Engine) Marks() []int {
	return append([]int(nil), e.marks...)
}

// Clusters returns the clusters finalized so far, in formation order.
func (e *Engine) Clusters() []Cluster {
	return append([]Cluster(nil), e.clusters...)
}

// Step runs one complete episode. It returns the new cluster and true, or
// false once no unvisited core object remains (state Done). A cancelled
// context is reported before a seed is selected, leaving marks untouched.
func (e *Engine) Step() (Cluster, bool, error) {
	if e.state == Done {
		return Cluster{}, false, nil
	}
	if e.reg.UnvisitedCount() == 0 {
		e.state = Done
		return Cluster{}, false, nil
	}
	if err := e.opts.Ctx.Err(); err != nil {
		return Cluster{}, false, err
	}

	e.state = SeedSelection
	if err := e.seed(); err != nil {
		return Cluster{}, false, err
	}

	e.state = Expanding
	if err := e.expand(); err != nil {
		return Cluster{}, false, err
	}

	e.state = Finalizing
	c, err := e.finalize()
	if err != nil {
		return Cluster{}, false, err
	}
	e.state = Idle
	return c, true, nil
}

// RunToCompletion steps until Done and returns every cluster in formation
// order. On cancellation it returns the clusters completed so far with the
// context error.
func (e *Engine) RunToCompletion() ([]Cluster, error) {
	for {
		_, ok, err := e.Step()
		if err != nil {
			return e.Clusters(), err
		}
		if !ok {
			return e.Clusters(), nil
		}
	}
}

// seed picks a uniformly random unvisited core object and enqueues its
// unreached neighbors.
func (e *Engine) seed() error {
	e.queue.reset()
	e.changed = e.changed[:0]

	unvisited := e.reg.Unvisited()
	s := unvisited[e.rng.Intn(len(unvisited))]
	if err := e.reg.MarkVisited(s); err != nil {
		return fmt.Errorf("expansion: seed %d: %w", s, err)
	}
	e.seedID = s
	e.opts.OnSeed(s)
	e.reach(s)

	return e.enqueueUnreached(s)
}

// expand drains the queue, growing the cluster through core objects.
func (e *Engine) expand() error {
	for e.queue.len() > 0 {
		p := e.queue.pop()
		if !e.reg.IsCore(p) {
			continue
		}
		if err := e.enqueueUnreached(p); err != nil {
			return err
		}
	}
	return nil
}

// enqueueUnreached pushes every neighbor of p whose mark is Unreached.
func (e *Engine) enqueueUnreached(p int) error {
	nbrs, err := e.reg.Reachable(p)
	if err != nil {
		return fmt.Errorf("expansion: neighbors of %d: %w", p, err)
	}
	for _, q := range nbrs {
		if e.marks[q] != Unreached {
			continue
		}
		e.reach(q)
		e.queue.push(q)
		e.opts.OnEnqueue(q, p)
	}
	return nil
}

// reach sets the reached sentinel of id and records the change.
func (e *Engine) reach(id int) {
	if e.marks[id] == id {
		return
	}
	e.marks[id] = id
	e.changed = append(e.changed, id)
}

// finalize turns the recorded mark changes into the next cluster and
// retires every core member.
func (e *Engine) finalize() (Cluster, error) {
	e.nextID++
	members := slices.Clone(e.changed)
	slices.Sort(members)

	for _, id := range members {
		if !e.reg.IsCore(id) {
			continue
		}
		if err := e.reg.MarkVisited(id); err != nil {
			return Cluster{}, fmt.Errorf("expansion: finalize %d: %w", id, err)
		}
	}

	c := Cluster{ID: e.nextID, Seed: e.seedID, Members: members}
	e.clusters = append(e.clusters, c)
	e.opts.OnCluster(c)
	return c, nil
}

package registry

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/dbscan/neighborhood"
)

// Sentinel errors for the core object registry.
var (
	// ErrInvalidParameter is returned for nil input or MinPts < 1.
	ErrInvalidParameter = errors.New("registry: invalid parameter")

	// ErrEmptyInput is returned when there is nothing to classify.
	ErrEmptyInput = errors.New("registry: empty input")

	// ErrOutOfRange is returned when a point ID lies outside [1, N].
	ErrOutOfRange = errors.New("registry: id out of range")

	// ErrInvalidOperation is returned when visited state is read or
	// written for an ID that is not a core object.
	ErrInvalidOperation = errors.New("registry: invalid operation")
)

// noSlot marks a point that is not a core object.
const noSlot = -1

// CoreObject is the per-core record owned by the registry.
type CoreObject struct {
	ID      int
	Visited bool
}

// Registry holds the neighbor lists, the core set and the visited flags
// of one clustering run. It is not safe for concurrent mutation.
type Registry struct {
	sets      *neighborhood.Sets
	minPts    int
	objects   []CoreObject // ascending by ID
	slot      []int        // point ID -> index into objects, or noSlot
	unvisited int
}

// Classify marks every point with at least minPts−1 neighbors as a core
// object. Classification is a pure function of sets and minPts: calling it
// twice yields identical core sets.
//
// Complexity: O(N) time and memory.
func Classify(sets *neighborhood.Sets, minPts int) (*Registry, error) {
	if sets == nil {
		return nil, fmt.Errorf("%w: neighbor sets are nil", ErrInvalidParameter)
	}
	if minPts < 1 {
		return nil, fmt.Errorf("%w: %w: min_pts must be >= 1, got %d", ErrInvalidParameter, ErrEmptyInput, minPts)
	}
	n := sets.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: zero points", ErrEmptyInput)
	}

	r := &Registry{
		sets:   sets,
		minPts: minPts,
		slot:   make([]int, n+1),
	}
	r.slot[0] = noSlot
	for id := 1; id <= n; id++ {
		if sets.Count(id) >= minPts-1 {
			r.slot[id] = len(r.objects)
			r.objects = append(r.objects, CoreObject{ID: id})
		} else {
			r.slot[id] = noSlot
		}
	}
	r.unvisited = len(r.objects)

	return r, nil
}

// Len returns the number of points N.
func (r *Registry) Len() int {
	return len(r.slot) - 1
}

// MinPts returns the density threshold used for classification.
func (r *Registry) MinPts() int {
	return r.minPts
}

// Sets returns the neighbor lists the registry was built from.
func (r *Registry) Sets() *neighborhood.Sets {
	return r.sets
}

// CoreIDs returns the core object IDs in ascending order.
func (r *Registry) CoreIDs() []int {
	ids := make([]int, len(r.objects))
	for i, o := range r.objects {
		ids[i] = o.ID
	}
	return ids
}

// CoreCount returns the number of core objects.
func (r *Registry) CoreCount() int {
	return len(r.objects)
}

// IsCore reports whether id is a core object. Invalid IDs are not core.
func (r *Registry) IsCore(id int) bool {
	return id >= 1 && id < len(r.slot) && r.slot[id] != noSlot
}

// Reachable returns the directly-density-reachable list of any point.
// The slice is shared and must not be modified.
func (r *Registry) Reachable(id int) ([]int, error) {
	if id < 1 || id >= len(r.slot) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, id, r.Len())
	}
	list, err := r.sets.Of(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return list, nil
}

// object returns the record of a core ID.
func (r *Registry) object(id int) (*CoreObject, error) {
	if id < 1 || id >= len(r.slot) {
		return nil, fmt.Errorf("%w: %w: %d not in [1, %d]", ErrInvalidOperation, ErrOutOfRange, id, r.Len())
	}
	if r.slot[id] == noSlot {
		return nil, fmt.Errorf("%w: point %d is not a core object", ErrInvalidOperation, id)
	}
	return &r.objects[r.slot[id]], nil
}

// MarkVisited sets the visited flag of a core object. Marking an already
// visited object is a no-op.
func (r *Registry) MarkVisited(id int) error {
	o, err := r.object(id)
	if err != nil {
		return err
	}
	if !o.Visited {
		o.Visited = true
		r.unvisited--
	}
	return nil
}

// IsVisited reports the visited flag of a core object.
func (r *Registry) IsVisited(id int) (bool, error) {
	o, err := r.object(id)
	if err != nil {
		return false, err
	}
	return o.Visited, nil
}

// UnvisitedCount returns how many core objects are still unvisited.
func (r *Registry) UnvisitedCount() int {
	return r.unvisited
}

// Unvisited returns the currently unvisited core IDs in ascending order.
// The slice is rebuilt on every call.
func (r *Registry) Unvisited() []int {
	ids := make([]int, 0, r.unvisited)
	for _, o := range r.objects {
		if !o.Visited {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

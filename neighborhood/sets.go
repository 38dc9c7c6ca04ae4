package neighborhood

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sets holds one neighbor list per point ID. Index 0 is unused.
// A Sets value is immutable once returned by Build.
type Sets struct {
	lists   [][]int
	eps     float64
	entries int
}

// Len returns the number of points N.
func (s *Sets) Len() int {
	return len(s.lists) - 1
}

// Eps returns the radius the lists were built with.
func (s *Sets) Eps() float64 {
	return s.eps
}

// Entries returns the total number of neighbor entries over all lists.
func (s *Sets) Entries() int {
	return s.entries
}

// Of returns the neighbor list of id in ascending order. The slice is
// shared and must not be modified.
func (s *Sets) Of(id int) ([]int, error) {
	if id < 1 || id >= len(s.lists) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, id, s.Len())
	}
	return s.lists[id], nil
}

// Count returns |NeighborSet[id]|, or 0 for an invalid id.
func (s *Sets) Count(id int) int {
	if id < 1 || id >= len(s.lists) {
		return 0
	}
	return len(s.lists[id])
}

// Isolated returns the IDs that have no neighbor at all, ascending.
func (s *Sets) Isolated() []int {
	var out []int
	for id := 1; id < len(s.lists); id++ {
		if len(s.lists[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Format writes one line per point: "id<TAB>count<TAB>n1 n2 ...".
func (s *Sets) Format(w io.Writer) error {
	var sb strings.Builder
	for id := 1; id < len(s.lists); id++ {
		sb.Reset()
		sb.WriteString(strconv.Itoa(id))
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(len(s.lists[id])))
		sb.WriteByte('\t')
		for i, q := range s.lists[id] {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(q))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

package points

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AnyCount passed as the declared count to Parse or ReadFile accepts
// however many records the input holds.
const AnyCount = -1

// Store owns the coordinates of one run. Index i of the backing slice
// holds the point with ID i+1.
type Store struct {
	pts []Point
}

// Load copies pts into a new Store. declared must equal len(pts) and
// every coordinate must be finite, otherwise ErrLoad is returned.
func Load(pts []Point, declared int) (*Store, error) {
	if declared < 0 {
		return nil, fmt.Errorf("%w: declared count %d is negative", ErrLoad, declared)
	}
	if len(pts) != declared {
		return nil, fmt.Errorf("%w: got %d records, declared %d", ErrLoad, len(pts), declared)
	}
	for i, p := range pts {
		if !p.valid() {
			return nil, fmt.Errorf("%w: record %d has non-finite coordinate (%v, %v)", ErrLoad, i+1, p.X, p.Y)
		}
	}

	return &Store{pts: append([]Point(nil), pts...)}, nil
}

// Parse reads "x y" records from r, one per line. Fields may be separated
// by any run of spaces or tabs. Blank lines and lines starting with '#'
// are skipped. With declared == AnyCount the record count is not checked.
func Parse(r io.Reader, declared int) (*Store, error) {
	var pts []Point
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := parseRecord(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrLoad, line, err)
		}
		if declared >= 0 && len(pts) == declared {
			return nil, fmt.Errorf("%w: more than %d records (line %d)", ErrLoad, declared, line)
		}
		pts = append(pts, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrLoad, err)
	}
	if declared == AnyCount {
		declared = len(pts)
	}

	return Load(pts, declared)
}

// ReadFile opens path and parses it with Parse.
func ReadFile(path string, declared int) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	return Parse(f, declared)
}

func parseRecord(text string) (Point, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Point{}, fmt.Errorf("want 2 fields, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("x: %v", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("y: %v", err)
	}

	return Point{X: x, Y: y}, nil
}

// Len returns the number of points N.
func (s *Store) Len() int {
	return len(s.pts)
}

// Get returns the point with the given ID.
func (s *Store) Get(id int) (Point, error) {
	if id < 1 || id > len(s.pts) {
		return Point{}, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfRange, id, len(s.pts))
	}

	return s.pts[id-1], nil
}

// At returns the point with the given ID without bounds reporting.
// Callers must guarantee 1 <= id <= Len().
func (s *Store) At(id int) Point {
	return s.pts[id-1]
}

// Distance returns the Euclidean distance between the points a and b.
func (s *Store) Distance(a, b int) (float64, error) {
	pa, err := s.Get(a)
	if err != nil {
		return 0, err
	}
	pb, err := s.Get(b)
	if err != nil {
		return 0, err
	}

	return pa.DistanceTo(pb), nil
}

// All returns a copy of every point; index i holds ID i+1.
func (s *Store) All() []Point {
	return append([]Point(nil), s.pts...)
}

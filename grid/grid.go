// Package grid models what the shooter knows about the opponent's board:
// per-cell status, ship placements and the placement rules that constrain them.
package grid

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrOutOfBounds is returned when writing a coordinate outside the grid.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Grid is a width x height store of cell status. All cells start Hidden.
type Grid struct {
	w, h  int
	cells []CellStatus
}

// New returns an all-Hidden grid. It panics on non-positive dimensions;
// callers validate sizes coming from the wire.
func New(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("grid: invalid size %dx%d", w, h))
	}
	return &Grid{w: w, h: h, cells: make([]CellStatus, w*h)}
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// InBounds reports whether c lies within [0,w)x[0,h).
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.w && c.Y >= 0 && c.Y < g.h
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.w + c.X
}

// Get returns the status at c. Anything off the grid reads as Missed so that
// neighborhood scans and ship walks stop at the edges.
func (g *Grid) Get(c Coord) CellStatus {
	if !g.InBounds(c) {
		return Missed
	}
	return g.cells[g.index(c)]
}

// Set overwrites the status at c. Callers are responsible for only moving a
// cell forward.
func (g *Grid) Set(c Coord, s CellStatus) error {
	if !g.InBounds(c) {
		return fmt.Errorf("set %v on %dx%d grid: %w", c, g.w, g.h, ErrOutOfBounds)
	}
	g.cells[g.index(c)] = s
	return nil
}

// CellsWhere yields, row by row, every cell for which pred holds.
func (g *Grid) CellsWhere(pred func(Coord, CellStatus) bool) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				c := Coord{X: x, Y: y}
				if pred(c, g.cells[g.index(c)]) && !yield(c) {
					return
				}
			}
		}
	}
}

// Count returns how many cells have status s.
func (g *Grid) Count(s CellStatus) int {
	n := 0
	for _, cs := range g.cells {
		if cs == s {
			n++
		}
	}
	return n
}

// Neighbors8 yields the in-bounds cells of the 3x3 block around c, c excluded.
func (g *Grid) Neighbors8(c Coord) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := c.Add(Coord{X: dx, Y: dy})
				if g.InBounds(n) && !yield(n) {
					return
				}
			}
		}
	}
}

// DiagonalNeighbors yields the in-bounds diagonal neighbors of c.
func (g *Grid) DiagonalNeighbors(c Coord) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for _, d := range diagonals {
			n := c.Add(d)
			if g.InBounds(n) && !yield(n) {
				return
			}
		}
	}
}

// Ring returns the in-bounds cells touching any of cells, including
// diagonally, that are not themselves in cells. Each cell appears once.
func (g *Grid) Ring(cells []Coord) []Coord {
	member := make(map[Coord]bool, len(cells))
	for _, c := range cells {
		member[c] = true
	}
	seen := make(map[Coord]bool)
	var ring []Coord
	for _, c := range cells {
		for n := range g.Neighbors8(c) {
			if member[n] || seen[n] {
				continue
			}
			seen[n] = true
			ring = append(ring, n)
		}
	}
	return ring
}

// String renders the grid one row per line: '.' hidden, 'w' wounded,
// 'k' killed, 'o' missed.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			sb.WriteByte(g.cells[g.index(Coord{X: x, Y: y})].glyph())
		}
		if y < g.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Parse is the inverse of String. Rows are separated by newlines and
// surrounding whitespace on each row is ignored.
func Parse(s string) (*Grid, error) {
	rows := strings.Split(strings.TrimSpace(s), "\n")
	for i := range rows {
		rows[i] = strings.TrimSpace(rows[i])
	}
	h, w := len(rows), len(rows[0])
	if w == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	g := New(w, h)
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), w)
		}
		for x := 0; x < w; x++ {
			var st CellStatus
			switch row[x] {
			case '.':
				st = Hidden
			case 'w':
				st = Wounded
			case 'k':
				st = Killed
			case 'o':
				st = Missed
			default:
				return nil, fmt.Errorf("unknown cell %q at (%d,%d)", row[x], x, y)
			}
			g.cells[g.index(Coord{X: x, Y: y})] = st
		}
	}
	return g, nil
}

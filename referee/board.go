// Package referee holds the defending side of a match: the hidden fleet,
// shot resolution, and a loop that plays a Player against a Board.
package referee

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cmars/broadside/grid"
)

var ErrInvalidPlacement = errors.New("invalid placement")

type ship struct {
	placement grid.Placement
	intact    map[grid.Coord]bool
}

// Board is a fleet hidden on a width x height sea.
type Board struct {
	w, h  int
	owner []int // 1-based index into ships, 0 for water
	ships []*ship
}

func NewBoard(w, h int) *Board {
	return &Board{w: w, h: h, owner: make([]int, w*h)}
}

func (b *Board) Width() int  { return b.w }
func (b *Board) Height() int { return b.h }

func (b *Board) inBounds(c grid.Coord) bool {
	return c.X >= 0 && c.X < b.w && c.Y >= 0 && c.Y < b.h
}

func (b *Board) shipAt(c grid.Coord) *ship {
	if !b.inBounds(c) {
		return nil
	}
	if i := b.owner[c.Y*b.w+c.X]; i > 0 {
		return b.ships[i-1]
	}
	return nil
}

// Place adds a ship. Ships must lie on the board and may not overlap or
// touch another ship, diagonals included.
func (b *Board) Place(p grid.Placement) error {
	if p.Length < 1 {
		return fmt.Errorf("ship of length %d: %w", p.Length, ErrInvalidPlacement)
	}
	cells := p.Cells()
	for _, c := range cells {
		if !b.inBounds(c) {
			return fmt.Errorf("%v off the board at %v: %w", p, c, ErrInvalidPlacement)
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if b.shipAt(c.Add(grid.Coord{X: dx, Y: dy})) != nil {
					return fmt.Errorf("%v touches another ship at %v: %w", p, c, ErrInvalidPlacement)
				}
			}
		}
	}
	s := &ship{placement: p, intact: make(map[grid.Coord]bool, len(cells))}
	b.ships = append(b.ships, s)
	for _, c := range cells {
		s.intact[c] = true
		b.owner[c.Y*b.w+c.X] = len(b.ships)
	}
	return nil
}

// Shoot resolves a shot. Hitting water, or a ship cell already hit, is a
// miss.
func (b *Board) Shoot(c grid.Coord) (grid.Outcome, error) {
	if !b.inBounds(c) {
		return grid.Miss, fmt.Errorf("shot at %v on %dx%d board: %w", c, b.w, b.h, grid.ErrOutOfBounds)
	}
	s := b.shipAt(c)
	if s == nil || !s.intact[c] {
		return grid.Miss, nil
	}
	delete(s.intact, c)
	if len(s.intact) == 0 {
		return grid.Kill, nil
	}
	return grid.Wound, nil
}

func (b *Board) HasAliveShips() bool {
	for _, s := range b.ships {
		if len(s.intact) > 0 {
			return true
		}
	}
	return false
}

// Ships returns the placements in the order they were added.
func (b *Board) Ships() []grid.Placement {
	ps := make([]grid.Placement, len(b.ships))
	for i, s := range b.ships {
		ps[i] = s.placement
	}
	return ps
}

// Lengths returns the ship lengths in placement order.
func (b *Board) Lengths() []int {
	ls := make([]int, len(b.ships))
	for i, s := range b.ships {
		ls[i] = s.placement.Length
	}
	return ls
}

// String draws the fleet: '#' intact, 'x' hit, '.' water.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			c := grid.Coord{X: x, Y: y}
			switch s := b.shipAt(c); {
			case s == nil:
				sb.WriteByte('.')
			case s.intact[c]:
				sb.WriteByte('#')
			default:
				sb.WriteByte('x')
			}
		}
		if y < b.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

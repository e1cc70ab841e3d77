package grid

import "fmt"

// Orientation is the axis a ship lies along.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Orientations lists both orientations in enumeration order.
var Orientations = [2]Orientation{Horizontal, Vertical}

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Step is the unit vector from one ship cell to the next.
func (o Orientation) Step() Coord {
	if o == Vertical {
		return Coord{X: 0, Y: 1}
	}
	return Coord{X: 1, Y: 0}
}

// Placement is a hypothetical ship: Length cells starting at Origin.
type Placement struct {
	Origin      Coord
	Length      int
	Orientation Orientation
}

func (p Placement) String() string {
	return fmt.Sprintf("%s length %d at %v", p.Orientation, p.Length, p.Origin)
}

// Cells returns the occupied cells in order, starting at the origin. No
// bounds checking is done.
func (p Placement) Cells() []Coord {
	step := p.Orientation.Step()
	cells := make([]Coord, p.Length)
	for i := range cells {
		cells[i] = p.Origin.Add(step.Mul(i))
	}
	return cells
}

// CanPlace reports whether a ship could still be at p given what is known:
// every cell on the grid and not Missed, and nothing Wounded or Killed
// touching it from outside, since ships never touch.
func (g *Grid) CanPlace(p Placement) bool {
	if p.Length < 1 {
		return false
	}
	cells := p.Cells()
	for _, c := range cells {
		if !g.InBounds(c) || g.Get(c) == Missed {
			return false
		}
	}
	for _, n := range g.Ring(cells) {
		if s := g.Get(n); s != Hidden && s != Missed {
			return false
		}
	}
	return true
}

package referee

import (
	"math/rand/v2"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/cmars/broadside/grid"
)

func horizontal(x, y, l int) grid.Placement {
	return grid.Placement{Origin: grid.Coord{X: x, Y: y}, Length: l, Orientation: grid.Horizontal}
}

func vertical(x, y, l int) grid.Placement {
	return grid.Placement{Origin: grid.Coord{X: x, Y: y}, Length: l, Orientation: grid.Vertical}
}

func TestPlaceInsideBounds(t *testing.T) {
	c := qt.New(t)
	b := NewBoard(100, 10)
	c.Assert(b.Place(horizontal(0, 0, 5)), qt.IsNil)
	c.Assert(b.Place(horizontal(95, 9, 5)), qt.IsNil)
	c.Assert(b.Lengths(), qt.DeepEquals, []int{5, 5})
}

func TestPlaceOutsideBounds(t *testing.T) {
	c := qt.New(t)
	b := NewBoard(100, 10)
	c.Assert(b.Place(horizontal(99, 9, 2)), qt.ErrorIs, ErrInvalidPlacement)
	c.Assert(b.Place(vertical(99, 9, 2)), qt.ErrorIs, ErrInvalidPlacement)
	c.Assert(b.Place(horizontal(0, 0, 0)), qt.ErrorIs, ErrInvalidPlacement)
	c.Assert(b.Ships(), qt.HasLen, 0)
}

func TestPlaceTouching(t *testing.T) {
	c := qt.New(t)
	b := NewBoard(10, 10)
	c.Assert(b.Place(horizontal(2, 2, 3)), qt.IsNil)
	c.Assert(b.Place(horizontal(2, 2, 1)), qt.ErrorIs, ErrInvalidPlacement)
	c.Assert(b.Place(vertical(5, 3, 2)), qt.ErrorIs, ErrInvalidPlacement)
	c.Assert(b.Place(vertical(2, 3, 2)), qt.ErrorIs, ErrInvalidPlacement)
	c.Assert(b.Place(vertical(6, 2, 2)), qt.IsNil)
	c.Assert(b.Place(horizontal(2, 4, 2)), qt.IsNil)
	c.Assert(b.String(), qt.Equals, `..........
..........
..###.#...
......#...
..##......
..........
..........
..........
..........
..........`)
}

func TestShootKill(t *testing.T) {
	c := qt.New(t)
	b := NewBoard(100, 10)
	c.Assert(b.Place(horizontal(0, 0, 1)), qt.IsNil)
	o, err := b.Shoot(grid.Coord{X: 0, Y: 0})
	c.Assert(err, qt.IsNil)
	c.Assert(o, qt.Equals, grid.Kill)
	c.Assert(b.HasAliveShips(), qt.IsFalse)
}

func TestShootWound(t *testing.T) {
	c := qt.New(t)
	b := NewBoard(3, 1)
	c.Assert(b.Place(horizontal(0, 0, 2)), qt.IsNil)
	o, err := b.Shoot(grid.Coord{X: 0, Y: 0})
	c.Assert(err, qt.IsNil)
	c.Assert(o, qt.Equals, grid.Wound)
	c.Assert(b.String(), qt.Equals, "x#.")

	// A second shot at a hit cell is a miss.
	o, err = b.Shoot(grid.Coord{X: 0, Y: 0})
	c.Assert(err, qt.IsNil)
	c.Assert(o, qt.Equals, grid.Miss)

	o, err = b.Shoot(grid.Coord{X: 2, Y: 0})
	c.Assert(err, qt.IsNil)
	c.Assert(o, qt.Equals, grid.Miss)
	c.Assert(b.HasAliveShips(), qt.IsTrue)

	o, err = b.Shoot(grid.Coord{X: 1, Y: 0})
	c.Assert(err, qt.IsNil)
	c.Assert(o, qt.Equals, grid.Kill)
	c.Assert(b.HasAliveShips(), qt.IsFalse)

	_, err = b.Shoot(grid.Coord{X: 3, Y: 0})
	c.Assert(err, qt.ErrorIs, grid.ErrOutOfBounds)
}

func TestRandomFleet(t *testing.T) {
	c := qt.New(t)
	lengths := []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}
	for seed := uint64(0); seed < 50; seed++ {
		b, err := RandomFleet(rand.New(rand.NewPCG(seed, 1)), 10, 10, lengths)
		c.Assert(err, qt.IsNil)
		c.Assert(b.Lengths(), qt.DeepEquals, []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1})

		// Replaying the placements on an empty board checks bounds and
		// spacing.
		replay := NewBoard(10, 10)
		for _, p := range b.Ships() {
			c.Assert(replay.Place(p), qt.IsNil)
		}
	}
}

func TestRandomFleetImpossible(t *testing.T) {
	c := qt.New(t)
	_, err := RandomFleet(rand.New(rand.NewPCG(1, 1)), 3, 3, []int{2, 2, 2})
	c.Assert(err, qt.ErrorIs, ErrInvalidPlacement)
}

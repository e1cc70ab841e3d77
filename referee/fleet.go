package referee

import (
	"fmt"
	"slices"

	"github.com/cmars/broadside/grid"
)

// Rand is satisfied by *math/rand/v2.Rand.
type Rand interface {
	IntN(n int) int
}

const (
	fleetAttempts = 100
	shipAttempts  = 1000
)

// RandomFleet places ships of the given lengths at random, longest first.
func RandomFleet(rng Rand, w, h int, lengths []int) (*Board, error) {
	sorted := slices.Clone(lengths)
	slices.Sort(sorted)
	slices.Reverse(sorted)

	for attempt := 0; attempt < fleetAttempts; attempt++ {
		b := NewBoard(w, h)
		if placeAll(rng, b, sorted) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("cannot fit ships %v on a %dx%d board: %w", lengths, w, h, ErrInvalidPlacement)
}

func placeAll(rng Rand, b *Board, lengths []int) bool {
	for _, l := range lengths {
		placed := false
		for try := 0; try < shipAttempts && !placed; try++ {
			p := grid.Placement{
				Origin:      grid.Coord{X: rng.IntN(b.w), Y: rng.IntN(b.h)},
				Length:      l,
				Orientation: grid.Orientations[rng.IntN(len(grid.Orientations))],
			}
			placed = b.Place(p) == nil
		}
		if !placed {
			return false
		}
	}
	return true
}

// Package random is a baseline engine: it shoots at a uniformly random
// hidden cell and draws no conclusions from hits.
package random

import (
	"fmt"
	"math/rand/v2"

	"github.com/cmars/broadside/api"
	"github.com/cmars/broadside/grid"
)

func New(seed uint64) api.Engine {
	return &engine{rng: rand.New(rand.NewPCG(seed, seed))}
}

type engine struct {
	rng  *rand.Rand
	grid *grid.Grid
	left int
}

func (e *engine) Init(width, height int, shipLengths []int) error {
	if e.grid != nil && e.left > 0 {
		return api.ErrInProgress
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	left := 0
	for _, l := range shipLengths {
		if l < 1 {
			return fmt.Errorf("invalid ship length %d", l)
		}
		left += l
	}
	e.grid = grid.New(width, height)
	e.left = left
	return nil
}

func (e *engine) RecordOutcome(target grid.Coord, outcome grid.Outcome) error {
	if e.grid == nil {
		return api.ErrNotStarted
	}
	if e.left == 0 {
		return api.ErrMatchOver
	}
	if !e.grid.InBounds(target) {
		return fmt.Errorf("%s at %v: %w", outcome, target, grid.ErrOutOfBounds)
	}
	s := e.grid.Get(target)
	switch {
	case s == grid.Hidden:
	case outcome == grid.Miss && s == grid.Missed:
		return nil
	case outcome == grid.Kill && s == grid.Wounded:
		// Counted off when it was wounded.
		return e.grid.Set(target, grid.Killed)
	default:
		return fmt.Errorf("%s at %s cell %v: %w", outcome, s, target, api.ErrInvalidTransition)
	}
	switch outcome {
	case grid.Miss:
		return e.grid.Set(target, grid.Missed)
	case grid.Wound:
		e.left--
		return e.grid.Set(target, grid.Wounded)
	default:
		e.left--
		return e.grid.Set(target, grid.Killed)
	}
}

func (e *engine) NextTarget() (grid.Coord, error) {
	if e.grid == nil {
		return grid.Coord{}, api.ErrNotStarted
	}
	if e.left == 0 {
		return grid.Coord{}, api.ErrMatchOver
	}
	var hidden []grid.Coord
	for c := range e.grid.CellsWhere(func(_ grid.Coord, s grid.CellStatus) bool { return s == grid.Hidden }) {
		hidden = append(hidden, c)
	}
	if len(hidden) == 0 {
		return grid.Coord{}, api.ErrNoValidTarget
	}
	return hidden[e.rng.IntN(len(hidden))], nil
}

func (e *engine) IsOver() bool {
	return e.grid != nil && e.left == 0
}

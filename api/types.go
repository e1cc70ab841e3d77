package api

import (
	"errors"

	"github.com/cmars/broadside/grid"
)

// Engine defines the interactions of a targeting engine with a referee.
type Engine interface {
	// Init starts a match on a width x height grid against ships of the
	// given lengths.
	Init(width, height int, shipLengths []int) error
	// RecordOutcome applies the referee's answer to a shot at target.
	RecordOutcome(target grid.Coord, outcome grid.Outcome) error
	// NextTarget chooses the next shot.
	NextTarget() (grid.Coord, error)
	// IsOver reports whether every ship has been sunk.
	IsOver() bool
}

var (
	ErrNotStarted = errors.New("match not started")
	ErrMatchOver  = errors.New("match is over")
	ErrInProgress = errors.New("cannot start a match in progress")

	// ErrInvalidTransition is returned when an outcome contradicts what is
	// already known about the cell.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNoValidTarget means no Hidden cell is left while ships remain.
	ErrNoValidTarget = errors.New("no valid target")
)

// Everything else in this file is the JSON wire format of the HTTP host.

type InfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author,omitempty"`
	Engine     string `json:"engine,omitempty"`
	Version    string `json:"version,omitempty"`
}

type StartRequest struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Ships  []int `json:"ships"`
}

type StartResponse struct {
	ID     string `json:"id"`
	Target *Point `json:"target,omitempty"`
	Over   bool   `json:"over"`
}

type ShotRequest struct {
	Target Point  `json:"target"`
	Result string `json:"result"`
}

type ShotResponse struct {
	Target *Point `json:"target,omitempty"`
	Over   bool   `json:"over"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Coord() grid.Coord {
	return grid.Coord{X: p.X, Y: p.Y}
}

func pointOf(c grid.Coord) *Point {
	return &Point{X: c.X, Y: c.Y}
}

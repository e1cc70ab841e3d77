// Package protocol speaks the referee's line protocol. The referee sends
//
//	Init <width> <height> <length>...
//	<Miss|Wound|Kill> <x> <y>
//
// and the engine answers every Init and every shot result with "<x> <y>".
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmars/broadside/grid"
)

var (
	ErrMalformed       = errors.New("malformed message")
	ErrUnexpectedEvent = errors.New("unexpected event")
)

// Event is an InitEvent or a ShotEvent.
type Event interface {
	isEvent()
}

type InitEvent struct {
	Width, Height int
	Ships         []int
}

type ShotEvent struct {
	Target  grid.Coord
	Outcome grid.Outcome
}

func (InitEvent) isEvent() {}
func (ShotEvent) isEvent() {}

func (e InitEvent) String() string {
	fields := []string{"Init", strconv.Itoa(e.Width), strconv.Itoa(e.Height)}
	for _, s := range e.Ships {
		fields = append(fields, strconv.Itoa(s))
	}
	return strings.Join(fields, " ")
}

func (e ShotEvent) String() string {
	return fmt.Sprintf("%s %d %d", e.Outcome, e.Target.X, e.Target.Y)
}

// ParseEvent reads one referee line.
func ParseEvent(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty line: %w", ErrMalformed)
	}
	if fields[0] == "Init" {
		return parseInit(fields)
	}
	return parseShot(fields)
}

func parseInit(fields []string) (Event, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("init needs width and height, got %q: %w", strings.Join(fields, " "), ErrMalformed)
	}
	nums, err := atois(fields[1:])
	if err != nil {
		return nil, err
	}
	if nums[0] <= 0 || nums[1] <= 0 {
		return nil, fmt.Errorf("grid size %dx%d: %w", nums[0], nums[1], ErrMalformed)
	}
	for _, s := range nums[2:] {
		if s < 1 {
			return nil, fmt.Errorf("ship length %d: %w", s, ErrMalformed)
		}
	}
	return InitEvent{Width: nums[0], Height: nums[1], Ships: nums[2:]}, nil
}

func parseShot(fields []string) (Event, error) {
	if len(fields) != 3 {
		return nil, fmt.Errorf("shot result needs 3 fields, got %q: %w", strings.Join(fields, " "), ErrMalformed)
	}
	outcome, err := grid.ParseOutcome(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformed)
	}
	xy, err := atois(fields[1:])
	if err != nil {
		return nil, err
	}
	return ShotEvent{Target: grid.Coord{X: xy[0], Y: xy[1]}, Outcome: outcome}, nil
}

func atois(fields []string) ([]int, error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", f, ErrMalformed)
		}
		nums[i] = n
	}
	return nums, nil
}

// FormatTarget is the engine's answer line.
func FormatTarget(c grid.Coord) string {
	return fmt.Sprintf("%d %d", c.X, c.Y)
}

// ParseTarget reads the engine's answer line.
func ParseTarget(line string) (grid.Coord, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return grid.Coord{}, fmt.Errorf("target needs 2 fields, got %q: %w", line, ErrMalformed)
	}
	xy, err := atois(fields)
	if err != nil {
		return grid.Coord{}, err
	}
	return grid.Coord{X: xy[0], Y: xy[1]}, nil
}

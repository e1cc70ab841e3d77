package grid

import (
	"fmt"
	"strings"
)

// CellStatus is what is known about a cell of the opponent's grid.
//
// A cell only moves forward: Hidden to Wounded to Killed, or Hidden to Missed.
type CellStatus uint8

const (
	Hidden CellStatus = iota
	Wounded
	Killed
	Missed
)

func (s CellStatus) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Wounded:
		return "wounded"
	case Killed:
		return "killed"
	case Missed:
		return "missed"
	default:
		return fmt.Sprintf("CellStatus(%d)", uint8(s))
	}
}

// glyph is the single character used by Grid.String.
func (s CellStatus) glyph() byte {
	switch s {
	case Wounded:
		return 'w'
	case Killed:
		return 'k'
	case Missed:
		return 'o'
	default:
		return '.'
	}
}

// Outcome is the referee's answer to a shot.
type Outcome uint8

const (
	Miss Outcome = iota
	Wound
	Kill
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "Miss"
	case Wound:
		return "Wound"
	case Kill:
		return "Kill"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// ParseOutcome reads the protocol word for an outcome, ignoring case.
func ParseOutcome(s string) (Outcome, error) {
	switch {
	case strings.EqualFold(s, "miss"):
		return Miss, nil
	case strings.EqualFold(s, "wound"):
		return Wound, nil
	case strings.EqualFold(s, "kill"):
		return Kill, nil
	}
	return 0, fmt.Errorf("invalid shot outcome %q", s)
}

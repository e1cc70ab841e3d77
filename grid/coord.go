package grid

import "fmt"

// Coord is a cell position. X grows to the right, Y grows downward.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add translates c by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Mul scales c by k. Walking along a direction is origin.Add(dir.Mul(i)).
func (c Coord) Mul(k int) Coord {
	return Coord{X: c.X * k, Y: c.Y * k}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

var (
	axes      = [4]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonals = [4]Coord{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Axes returns the four unit steps along the grid axes.
func Axes() [4]Coord {
	return axes
}

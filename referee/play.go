package referee

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmars/broadside/grid"
)

var ErrTooManyShots = errors.New("too many shots")

// Result summarizes one match from the shooter's side.
type Result struct {
	Shots int
	Hits  int
	Sunk  int
}

// Play runs one match of p against b until every ship is sunk. maxShots
// bounds the match when positive.
func Play(ctx context.Context, p Player, b *Board, maxShots int) (Result, error) {
	var res Result
	target, err := p.Init(b.Width(), b.Height(), b.Lengths())
	if err != nil {
		return res, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		outcome, err := b.Shoot(target)
		if err != nil {
			return res, err
		}
		res.Shots++
		if outcome != grid.Miss {
			res.Hits++
		}
		if outcome == grid.Kill {
			res.Sunk++
		}
		if !b.HasAliveShips() {
			return res, p.End(target, outcome)
		}
		if maxShots > 0 && res.Shots >= maxShots {
			return res, fmt.Errorf("%d shots: %w", res.Shots, ErrTooManyShots)
		}
		target, err = p.Next(target, outcome)
		if err != nil {
			return res, err
		}
	}
}

package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cmars/broadside/api"
	"github.com/cmars/broadside/grid"
)

// Serve plays matches on port until the referee goes away. Every Init
// starts a fresh engine from newEngine.
//
// The referee may skip the result of the shot that sinks the last ship and
// send the next Init, or hang up, instead. Either is recorded as a Kill.
func Serve(ctx context.Context, port Port, newEngine func() api.Engine, logger *log.Logger) error {
	ev, err := port.ReceiveEvent()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	for ev != nil {
		init, ok := ev.(InitEvent)
		if !ok {
			return fmt.Errorf("%v before Init: %w", ev, ErrUnexpectedEvent)
		}
		ev, err = playMatch(ctx, port, newEngine(), init, logger)
		if err != nil {
			return err
		}
	}
	return nil
}

// playMatch runs one match and returns the event that followed it, nil at
// the end of the stream.
func playMatch(ctx context.Context, port Port, eng api.Engine, init InitEvent, logger *log.Logger) (Event, error) {
	err := eng.Init(init.Width, init.Height, init.Ships)
	if err != nil {
		return nil, err
	}
	logger.Info("match started", "width", init.Width, "height", init.Height, "ships", init.Ships)

	shots := 0
	for !eng.IsOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target, err := eng.NextTarget()
		if err != nil {
			return nil, err
		}
		if err := port.SendTarget(target); err != nil {
			return nil, err
		}
		shots++

		ev, err := port.ReceiveEvent()
		if errors.Is(err, io.EOF) {
			recordFinalKill(eng, target, logger)
			logger.Info("match over", "shots", shots)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		switch ev := ev.(type) {
		case InitEvent:
			recordFinalKill(eng, target, logger)
			logger.Info("match over", "shots", shots)
			return ev, nil
		case ShotEvent:
			if ev.Target != target {
				logger.Warn("result for a different cell", "sent", target, "got", ev.Target)
			}
			if err := eng.RecordOutcome(ev.Target, ev.Outcome); err != nil {
				return nil, err
			}
		}
	}
	logger.Info("match over", "shots", shots)

	ev, err := port.ReceiveEvent()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return ev, err
}

func recordFinalKill(eng api.Engine, target grid.Coord, logger *log.Logger) {
	if err := eng.RecordOutcome(target, grid.Kill); err != nil {
		logger.Warn("implicit kill rejected", "target", target, "err", err)
	}
}

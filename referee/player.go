package referee

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cmars/broadside/api"
	"github.com/cmars/broadside/grid"
	"github.com/cmars/broadside/protocol"
)

// Player is the shooting side as seen by the referee.
type Player interface {
	// Init starts a match and returns the first shot.
	Init(width, height int, ships []int) (grid.Coord, error)
	// Next reports the result of the last shot and returns the next one.
	Next(last grid.Coord, outcome grid.Outcome) (grid.Coord, error)
	// End reports the shot that sank the last ship.
	End(last grid.Coord, outcome grid.Outcome) error
	Close() error
}

// EnginePlayer plays an in-process engine.
type EnginePlayer struct {
	Engine api.Engine
}

func (p EnginePlayer) Init(width, height int, ships []int) (grid.Coord, error) {
	if err := p.Engine.Init(width, height, ships); err != nil {
		return grid.Coord{}, err
	}
	return p.Engine.NextTarget()
}

func (p EnginePlayer) Next(last grid.Coord, outcome grid.Outcome) (grid.Coord, error) {
	if err := p.Engine.RecordOutcome(last, outcome); err != nil {
		return grid.Coord{}, err
	}
	return p.Engine.NextTarget()
}

func (p EnginePlayer) End(last grid.Coord, outcome grid.Outcome) error {
	return p.Engine.RecordOutcome(last, outcome)
}

func (p EnginePlayer) Close() error { return nil }

// closeTimeout is how long an AI process gets to exit after its input is
// closed before it is killed.
const closeTimeout = 500 * time.Millisecond

// ProcessPlayer runs an AI executable and speaks the line protocol over its
// stdin and stdout. The process is started on the first Init and reused for
// later matches while it keeps running.
type ProcessPlayer struct {
	path   string
	logger *log.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	stderr bytes.Buffer
	done   bool
}

func NewProcessPlayer(path string, logger *log.Logger) *ProcessPlayer {
	return &ProcessPlayer{path: path, logger: logger.With("ai", name(path))}
}

func name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *ProcessPlayer) running() bool {
	return p.cmd != nil && !p.done
}

func (p *ProcessPlayer) start() error {
	cmd := exec.Command(p.path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	p.stderr.Reset()
	cmd.Stderr = &p.stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.path, err)
	}
	p.cmd, p.stdin, p.stdout, p.done = cmd, stdin, bufio.NewScanner(stdout), false
	return nil
}

// wait reaps the process. It must only run once stdout has been drained.
func (p *ProcessPlayer) wait() {
	if !p.done {
		_ = p.cmd.Wait()
		p.done = true
	}
}

func (p *ProcessPlayer) send(line string) error {
	p.logger.Debug("send", "line", line)
	_, err := fmt.Fprintln(p.stdin, line)
	return err
}

func (p *ProcessPlayer) receive() (grid.Coord, error) {
	if !p.stdout.Scan() {
		p.wait()
		return grid.Coord{}, fmt.Errorf("no ai output, stderr: %s", strings.TrimSpace(p.stderr.String()))
	}
	line := p.stdout.Text()
	p.logger.Debug("receive", "line", line)
	target, err := protocol.ParseTarget(line)
	if err != nil {
		return grid.Coord{}, fmt.Errorf("wrong ai output %q: %w", line, err)
	}
	return target, nil
}

func (p *ProcessPlayer) Init(width, height int, ships []int) (grid.Coord, error) {
	if !p.running() {
		if err := p.start(); err != nil {
			return grid.Coord{}, err
		}
	}
	if err := p.send(protocol.InitEvent{Width: width, Height: height, Ships: ships}.String()); err != nil {
		return grid.Coord{}, err
	}
	return p.receive()
}

func (p *ProcessPlayer) Next(last grid.Coord, outcome grid.Outcome) (grid.Coord, error) {
	if err := p.send(protocol.ShotEvent{Target: last, Outcome: outcome}.String()); err != nil {
		return grid.Coord{}, err
	}
	return p.receive()
}

// End sends nothing: the next Init, or closing stdin, tells the AI its last
// shot was a kill.
func (p *ProcessPlayer) End(grid.Coord, grid.Outcome) error { return nil }

func (p *ProcessPlayer) Close() error {
	if !p.running() {
		return nil
	}
	p.logger.Debug("close")
	_ = p.stdin.Close()
	waited := make(chan struct{})
	go func() {
		p.wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(closeTimeout):
		p.logger.Info("not terminated, killing")
		_ = p.cmd.Process.Kill()
		<-waited
	}
	return nil
}

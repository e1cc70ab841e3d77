package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cmars/broadside/grid"
)

// Port carries the protocol between an engine and its referee.
type Port interface {
	// ReceiveEvent blocks for the next referee event and returns io.EOF
	// when the referee is gone.
	ReceiveEvent() (Event, error)
	SendTarget(grid.Coord) error
}

// LinePort is a Port over a pair of streams, typically stdin and stdout.
type LinePort struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewLinePort(r io.Reader, w io.Writer) *LinePort {
	return &LinePort{in: bufio.NewScanner(r), out: w}
}

func (p *LinePort) ReceiveEvent() (Event, error) {
	for p.in.Scan() {
		line := strings.TrimSpace(p.in.Text())
		if line == "" {
			continue
		}
		return ParseEvent(line)
	}
	if err := p.in.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (p *LinePort) SendTarget(c grid.Coord) error {
	_, err := fmt.Fprintln(p.out, FormatTarget(c))
	return err
}

package protocol_test

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	qt "github.com/frankban/quicktest"
	"github.com/gorilla/websocket"

	"github.com/cmars/broadside/api"
	"github.com/cmars/broadside/grid"
	"github.com/cmars/broadside/protocol"
	"github.com/cmars/broadside/target"
)

var quiet = log.New(io.Discard)

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func newEngine() api.Engine {
	return target.New(target.WithRand(zeroRand{}), target.WithLogger(quiet))
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		line    string
		want    protocol.Event
		wantErr string
	}{{
		line: "Init 10 10 4 3 3 2",
		want: protocol.InitEvent{Width: 10, Height: 10, Ships: []int{4, 3, 3, 2}},
	}, {
		line: "  Init 1 1 1 ",
		want: protocol.InitEvent{Width: 1, Height: 1, Ships: []int{1}},
	}, {
		line: "Wound 3 7",
		want: protocol.ShotEvent{Target: grid.Coord{X: 3, Y: 7}, Outcome: grid.Wound},
	}, {
		line: "kill 0 0",
		want: protocol.ShotEvent{Target: grid.Coord{X: 0, Y: 0}, Outcome: grid.Kill},
	}, {
		line:    "Init 10",
		wantErr: `init needs width and height, got "Init 10": malformed message`,
	}, {
		line:    "Init 0 10 1",
		wantErr: `grid size 0x10: malformed message`,
	}, {
		line:    "Init 5 5 2 0",
		wantErr: `ship length 0: malformed message`,
	}, {
		line:    "Hit 1 2",
		wantErr: `.*: malformed message`,
	}, {
		line:    "Miss 1",
		wantErr: `shot result needs 3 fields, got "Miss 1": malformed message`,
	}, {
		line:    "Miss a 1",
		wantErr: `"a" is not a number: malformed message`,
	}}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			c := qt.New(t)
			ev, err := protocol.ParseEvent(test.line)
			if test.wantErr != "" {
				c.Assert(err, qt.ErrorMatches, test.wantErr)
				c.Assert(err, qt.ErrorIs, protocol.ErrMalformed)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(ev, qt.DeepEquals, test.want)
		})
	}
}

func TestEventStrings(t *testing.T) {
	c := qt.New(t)
	c.Assert(protocol.InitEvent{Width: 10, Height: 5, Ships: []int{2, 1}}.String(), qt.Equals, "Init 10 5 2 1")
	c.Assert(protocol.ShotEvent{Target: grid.Coord{X: 4, Y: 2}, Outcome: grid.Miss}.String(), qt.Equals, "Miss 4 2")
	c.Assert(protocol.FormatTarget(grid.Coord{X: 3, Y: 9}), qt.Equals, "3 9")

	p, err := protocol.ParseTarget(" 3 9 ")
	c.Assert(err, qt.IsNil)
	c.Assert(p, qt.Equals, grid.Coord{X: 3, Y: 9})
	_, err = protocol.ParseTarget("3")
	c.Assert(err, qt.ErrorIs, protocol.ErrMalformed)
}

func serve(input string) (string, error) {
	var out bytes.Buffer
	err := protocol.Serve(context.Background(), protocol.NewLinePort(strings.NewReader(input), &out), newEngine, quiet)
	return out.String(), err
}

func TestServe(t *testing.T) {
	tests := []struct {
		about   string
		input   string
		want    string
		wantErr error
	}{{
		about: "no input",
		input: "",
		want:  "",
	}, {
		about: "last kill implied by end of input",
		input: "Init 1 1 1\n",
		want:  "0 0\n",
	}, {
		about: "last kill implied by the next match",
		input: "Init 1 1 1\nInit 2 1 1\nMiss 0 0\n",
		want:  "0 0\n0 0\n1 0\n",
	}, {
		about: "explicit last kill",
		input: "Init 1 1 1\nKill 0 0\n\nInit 1 1 1\nKill 0 0\n",
		want:  "0 0\n0 0\n",
	}, {
		about: "search aims at the middle",
		input: "Init 3 1 2\nWound 1 0\n",
		want:  "1 0\n0 0\n",
	}, {
		about:   "result before init",
		input:   "Miss 0 0\n",
		wantErr: protocol.ErrUnexpectedEvent,
	}, {
		about:   "result after the match is over",
		input:   "Init 1 1 1\nKill 0 0\nMiss 0 0\n",
		want:    "0 0\n",
		wantErr: protocol.ErrUnexpectedEvent,
	}, {
		about:   "malformed line",
		input:   "Init 1 1 1\nSplash 0 0\n",
		want:    "0 0\n",
		wantErr: protocol.ErrMalformed,
	}, {
		about:   "inconsistent kill",
		input:   "Init 3 1 2\nKill 1 0\n",
		want:    "1 0\n",
		wantErr: api.ErrInvalidTransition,
	}, {
		about:   "result outside the grid",
		input:   "Init 3 1 2\nMiss 5 0\n",
		want:    "1 0\n",
		wantErr: grid.ErrOutOfBounds,
	}}
	for _, test := range tests {
		t.Run(test.about, func(t *testing.T) {
			c := qt.New(t)
			out, err := serve(test.input)
			if test.wantErr != nil {
				c.Assert(err, qt.ErrorIs, test.wantErr)
			} else {
				c.Assert(err, qt.IsNil)
			}
			c.Assert(out, qt.Equals, test.want)
		})
	}
}

func TestServeCancelled(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := protocol.Serve(ctx, protocol.NewLinePort(strings.NewReader("Init 2 2 1\n"), &out), newEngine, quiet)
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(out.String(), qt.Equals, "")
}

func dial(c *qt.C) *websocket.Conn {
	srv := httptest.NewServer(protocol.WebSocketHandler(newEngine, quiet))
	c.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(c *qt.C, conn *websocket.Conn, line string) string {
	c.Assert(conn.WriteMessage(websocket.TextMessage, []byte(line)), qt.IsNil)
	_, payload, err := conn.ReadMessage()
	c.Assert(err, qt.IsNil)
	return string(payload)
}

func TestWebSocket(t *testing.T) {
	c := qt.New(t)
	conn := dial(c)
	c.Assert(exchange(c, conn, "Init 2 1 1"), qt.Equals, "0 0")
	c.Assert(exchange(c, conn, "Miss 0 0"), qt.Equals, "1 0")
	c.Assert(exchange(c, conn, "Init 1 1 1"), qt.Equals, "0 0")

	err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.Assert(err, qt.IsNil)
	_, _, err = conn.ReadMessage()
	c.Assert(websocket.IsCloseError(err, websocket.CloseNormalClosure), qt.IsTrue, qt.Commentf("%v", err))
}

func TestWebSocketProtocolError(t *testing.T) {
	c := qt.New(t)
	conn := dial(c)
	c.Assert(conn.WriteMessage(websocket.TextMessage, []byte("Miss 0 0")), qt.IsNil)
	_, _, err := conn.ReadMessage()
	c.Assert(websocket.IsCloseError(err, websocket.CloseProtocolError), qt.IsTrue, qt.Commentf("%v", err))
}

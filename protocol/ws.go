package protocol

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cmars/broadside/api"
	"github.com/cmars/broadside/grid"
)

// maxCloseReason is the payload limit of a close frame minus the status code.
const maxCloseReason = 123

var upgrader = websocket.Upgrader{
	HandshakeTimeout: time.Second * 5,
	ReadBufferSize:   2048,
	WriteBufferSize:  2048,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

// wsPort carries one protocol line per text frame.
type wsPort struct {
	conn *websocket.Conn
}

func (p wsPort) ReceiveEvent() (Event, error) {
	for {
		_, payload, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		line := strings.TrimSpace(string(payload))
		if line == "" {
			continue
		}
		return ParseEvent(line)
	}
}

func (p wsPort) SendTarget(c grid.Coord) error {
	return p.conn.WriteMessage(websocket.TextMessage, []byte(FormatTarget(c)))
}

// WebSocketHandler serves the line protocol over a websocket, one session
// of consecutive matches per connection.
func WebSocketHandler(newEngine func() api.Engine, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("could not open websocket connection", "err", err)
			return
		}
		defer conn.Close()

		logger := logger.With("remote", conn.RemoteAddr().String())
		logger.Info("connection established")

		code, reason := websocket.CloseNormalClosure, ""
		err = Serve(r.Context(), wsPort{conn: conn}, newEngine, logger)
		if err != nil {
			logger.Warn("session failed", "err", err)
			code, reason = websocket.CloseProtocolError, err.Error()
			if len(reason) > maxCloseReason {
				reason = reason[:maxCloseReason]
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
		logger.Info("connection closed")
	}
}

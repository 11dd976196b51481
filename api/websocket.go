package api

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seenimoa/sentitrack/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS origins are enforced by the router
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// WSMessage is one frame of the comparison stream.
type WSMessage struct {
	Type  string      `json:"type"` // "progress", "result" or "error"
	Line  string      `json:"line,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// handleCompareWS runs a comparison and streams its progress lines over a
// WebSocket, followed by a single result or error frame. Closing the
// connection cancels the run.
func (s *Server) handleCompareWS(w http.ResponseWriter, r *http.Request) {
	target, err := s.targetFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go wsReadPump(conn, cancel)

	out := &wsLineWriter{conn: conn}
	runner, err := s.newRunner(out)
	if err == nil {
		var res *pipeline.Result
		res, err = runner.Run(ctx, target)
		out.flush()
		if err == nil {
			_ = wsSend(conn, WSMessage{Type: "result", Data: res})
		}
	}
	if err != nil {
		_ = wsSend(conn, WSMessage{Type: "error", Error: err.Error()})
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// wsReadPump drains client frames and cancels the run when the peer goes away.
func wsReadPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func wsSend(conn *websocket.Conn, msg WSMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// wsLineWriter turns pipeline output into one progress frame per line.
// It is only written to from the handler goroutine.
type wsLineWriter struct {
	conn *websocket.Conn
	buf  bytes.Buffer
}

func (w *wsLineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line; keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		if err := wsSend(w.conn, WSMessage{Type: "progress", Line: line[:len(line)-1]}); err != nil {
			return 0, err
		}
	}
}

func (w *wsLineWriter) flush() {
	if w.buf.Len() > 0 {
		_ = wsSend(w.conn, WSMessage{Type: "progress", Line: w.buf.String()})
		w.buf.Reset()
	}
}

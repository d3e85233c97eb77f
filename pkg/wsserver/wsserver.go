// Package wsserver implements the WebSocket analysis protocol: a client
// sends {method, moves, limit} and receives {method, best_move, score}.
// Ports original_source/src/server/socket.rs's tungstenite + serde_json
// handler to gorilla/websocket + encoding/json, with logw logging and a
// switch on the request's method string.
package wsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
	"github.com/troppydash/xiangqi-go/pkg/engine"
)

// DefaultAddr is the listen address used when none is supplied, mirroring
// the original's default port 3030.
const DefaultAddr = ":3030"

// defaultNodeLimit is used when a request's limit is zero or negative.
const defaultNodeLimit = 200000

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// instruct is the client request: "analyze" is the sole supported method.
type instruct struct {
	Method string   `json:"method"`
	Moves  []string `json:"moves"`
	Limit  int      `json:"limit"`
}

// response is the server reply to an "analyze" request.
type response struct {
	Method   string `json:"method"`
	BestMove string `json:"best_move"`
	Score    int    `json:"score"`
}

// Server accepts WebSocket connections and serves the analyze protocol.
// Each connection is handled on its own goroutine, and each analyze request
// builds its own Engine, so concurrent connections never share mutable
// search state.
type Server struct {
	Addr string
}

// New returns a Server listening on addr, or DefaultAddr if addr is empty.
func New(addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{Addr: addr}
}

// Handler returns the HTTP handler that upgrades and serves connections,
// separated from ListenAndServe's binding so tests can drive it through
// httptest.NewServer.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.handleConnection(ctx, w, r)
	})
	return mux
}

// ListenAndServe blocks, serving connections until ctx is done or the
// listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.Addr, Handler: s.Handler(ctx)}

	logw.Infof(ctx, "websocket server listening on %v", s.Addr)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return httpServer.Close()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(ctx, "upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Connection closed.
			return
		}

		var in instruct
		if err := json.Unmarshal(data, &in); err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte("cannot parse json"))
			continue
		}

		switch in.Method {
		case "analyze":
			s.analyze(ctx, conn, in)
		default:
			// Unknown method: ignored, matching the original protocol's no-op.
		}
	}
}

func (s *Server) analyze(ctx context.Context, conn *websocket.Conn, in instruct) {
	e := engine.New()

	if err := e.ApplyMoves(in.Moves); err != nil {
		logw.Warningf(ctx, "analyze: %v", err)
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to execute move list"))
		return
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultNodeLimit
	}

	result, err := e.Analyze(ctx, uint64(limit))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("analysis failed: %v", err)))
		return
	}

	out := response{
		Method:   "analyze",
		BestMove: result.Best.String(),
		Score:    int(result.Score),
	}
	data, err := json.Marshal(out)
	if err != nil {
		logw.Errorf(ctx, "marshal response: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logw.Errorf(ctx, "write response: %v", err)
	}
}

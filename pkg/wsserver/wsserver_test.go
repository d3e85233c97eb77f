package wsserver_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troppydash/xiangqi-go/pkg/wsserver"
)

type instruct struct {
	Method string   `json:"method"`
	Moves  []string `json:"moves"`
	Limit  int      `json:"limit"`
}

type response struct {
	Method   string `json:"method"`
	BestMove string `json:"best_move"`
	Score    int    `json:"score"`
}

func dial(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()
	s := wsserver.New("")
	httpSrv := httptest.NewServer(s.Handler(context.Background()))

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		httpSrv.Close()
	}
}

func TestAnalyzeFromOpeningReturnsLegalMove(t *testing.T) {
	conn, cleanup := dial(t)
	defer cleanup()

	req := instruct{Method: "analyze", Moves: nil, Limit: 50000}
	require.NoError(t, conn.WriteJSON(req))

	var resp response
	require.NoError(t, conn.ReadJSON(&resp))

	assert.Equal(t, "analyze", resp.Method)
	assert.NotEmpty(t, resp.BestMove)
}

func TestAnalyzeWithMovesAppliesThemFirst(t *testing.T) {
	conn, cleanup := dial(t)
	defer cleanup()

	req := instruct{Method: "analyze", Moves: []string{"H3H5"}, Limit: 50000}
	require.NoError(t, conn.WriteJSON(req))

	var resp response
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "analyze", resp.Method)
	assert.NotEmpty(t, resp.BestMove)
}

func TestAnalyzeRejectsIllegalMoveList(t *testing.T) {
	conn, cleanup := dial(t)
	defer cleanup()

	req := instruct{Method: "analyze", Moves: []string{"ZZZZ"}, Limit: 50000}
	require.NoError(t, conn.WriteJSON(req))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "failed to execute move list")
}

func TestUnknownMethodIsIgnored(t *testing.T) {
	conn, cleanup := dial(t)
	defer cleanup()

	require.NoError(t, conn.WriteJSON(instruct{Method: "ping"}))
	require.NoError(t, conn.WriteJSON(instruct{Method: "analyze", Limit: 50000}))

	var resp response
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "analyze", resp.Method)
}

func TestMalformedJSONGetsErrorString(t *testing.T) {
	conn, cleanup := dial(t)
	defer cleanup()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "cannot parse json")
}

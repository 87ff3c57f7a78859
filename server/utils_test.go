package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vsiao/oenology-sub000/engine"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/store"
)

const serverTestTimeout = 2 * time.Second

func NewBasicStore() *store.InMemoryGameStore {
	return store.NewInMemoryGameStore()
}

func mustMakeJson(t *testing.T, input interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(input)
	utils.AssertNoError(t, err)

	return data
}

func newCreateGameRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(data))
	return request
}

func newGetGameRequest(path string) *http.Request {
	request, _ := http.NewRequest(http.MethodGet, "/game/"+path, nil)
	return request
}

func newJoinGameRequest(data []byte) *http.Request {
	if data == nil {
		data = []byte{}
	}
	request, _ := http.NewRequest(http.MethodPost, "/join", bytes.NewBuffer(data))
	return request
}

func newTestGame(t *testing.T, opts engine.GameEngineOpts) engine.GameEngine {
	t.Helper()

	game, err := engine.NewGameEngine(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(game.Stop)
	return game
}

// newServerWithInactiveGame returns a GameServer with an inactive game
// and some hard-coded values
func newServerWithInactiveGame(t *testing.T, ps engine.Players) (*GameServer, string) {
	t.Helper()
	gameID := "some-pending-id"
	game := newTestGame(t, engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: "hersha-1",
		Players:   ps,
	})

	str := NewBasicStore()
	utils.AssertNoError(t, str.AddInactiveGame(game))
	utils.AssertNoError(t, str.AddPendingPlayer(gameID, "hersha-1", "Hersha"))
	utils.AssertNoError(t, str.AddPendingPlayer(gameID, "pending-player-id", "Penelope"))

	return NewServer(str, nil, nil, Options{}), gameID
}

// newServerWithActiveGame returns a GameServer with a recorded two player
// game between p1 and p2, and the players' connections
func newServerWithActiveGame(t *testing.T) (*GameServer, *store.MemoryLog, *engine.TestPlayer) {
	t.Helper()
	log := store.NewMemoryLog()
	p1, p2 := engine.APlayer("p1", "Ada"), engine.APlayer("p2", "Bo")
	game := newTestGame(t, engine.GameEngineOpts{
		GameID:    "active-id",
		CreatorID: "p1",
		Players:   engine.NewPlayers(p1, p2),
		Log:       log,
		Seed:      7,
	})
	utils.AssertNoError(t, game.Start())

	str := NewBasicStore()
	utils.AssertNoError(t, str.AddGame(game))

	return NewServer(str, log, nil, Options{}), log, p1
}

// newTestServer starts and returns a new server.
// The caller must call close to shut it down.
func newTestServer(str store.GameStore) *httptest.Server {
	return httptest.NewServer(NewServer(str, nil, nil, Options{}))
}

// ASSERTIONS

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

func assertPendingGameResponse(t *testing.T, body *bytes.Buffer, want string) PendingGameRes {
	t.Helper()
	bodyBytes, err := io.ReadAll(body)
	utils.AssertNoError(t, err)

	var got PendingGameRes
	err = json.Unmarshal(bodyBytes, &got)
	if err != nil {
		t.Fatalf("could not unmarshal json: %s", err.Error())
	}
	if got.Name != want {
		t.Errorf("got %s, want %s", got.Name, want)
	}
	if len(got.GameID) == 0 {
		t.Error("expected a game id")
	}
	if len(got.PlayerID) == 0 {
		t.Error("expected a player id")
	}
	return got
}

func decodeBody(t *testing.T, body *bytes.Buffer, into interface{}) {
	t.Helper()
	err := json.NewDecoder(body).Decode(into)
	utils.AssertNoError(t, err)
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)

	if err != nil {
		if resp == nil {
			t.Fatalf("could not open a ws connection on %s: %v", url, err)
		}
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("could not open a ws connection on %s, code %d: %s, %v", url, resp.StatusCode, body, err)
	}
	if ws == nil {
		t.Fatal("unexpected nil websocket conn")
	}
	t.Cleanup(func() { ws.Close() })

	return ws
}

// readCmd reads messages from ws until one has the command cmd
func readCmd(t *testing.T, ws *websocket.Conn, cmd protocol.Cmd) protocol.OutboundMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(serverTestTimeout))
	for {
		var msg protocol.OutboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", cmd, err)
		}
		if msg.Command == cmd {
			return msg
		}
	}
}

func makeWSUrl(serverURL, gameID, playerID string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") +
		"/ws?game_id=" + gameID + "&player_id=" + playerID
}

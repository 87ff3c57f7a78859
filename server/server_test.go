package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/engine"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
)

func TestServerPing(t *testing.T) {
	response := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/", nil)

	server := NewServer(NewBasicStore(), nil, nil, Options{})
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusOK)
	utils.AssertStringEquality(t, response.Body.String(), "ok")

	response = httptest.NewRecorder()
	request, _ = http.NewRequest(http.MethodGet, "/nowhere", nil)
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusNotFound)
}

func TestServerCORS(t *testing.T) {
	server := NewServer(NewBasicStore(), nil, nil, Options{AllowedOrigins: []string{"https://vineyard.example"}})

	response := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodOptions, "/new", nil)
	request.Header.Set("Origin", "https://vineyard.example")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	server.ServeHTTP(response, request)

	assertStatus(t, response.Code, http.StatusOK)
	utils.AssertEqual(t, response.Header().Get("Access-Control-Allow-Origin"), "https://vineyard.example")
}

func TestServerPOSTNewGame(t *testing.T) {
	t.Run("succeeds and returns expected data", func(t *testing.T) {
		data := mustMakeJson(t, NewGameReq{Name: "Elton"})

		response := httptest.NewRecorder()
		request := newCreateGameRequest(data)

		str := NewBasicStore()
		server := NewServer(str, nil, nil, Options{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusCreated)
		got := assertPendingGameResponse(t, response.Body, "Elton")
		utils.AssertTrue(t, got.Admin)

		t.Log("And the creator is expected in a waiting game")
		ge := str.FindInactiveGame(got.GameID)
		require.NotNil(t, ge)
		t.Cleanup(ge.Stop)
		utils.AssertEqual(t, ge.CreatorID(), got.PlayerID)
		utils.AssertNotNil(t, str.FindPendingPlayer(got.GameID, got.PlayerID))
	})

	t.Run("returns 400 if the body is missing", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newCreateGameRequest([]byte{})

		server := NewServer(NewBasicStore(), nil, nil, Options{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
		utils.AssertStringEquality(t, response.Body.String(), "Missing body")
	})

	t.Run("returns 400 if the player's name is missing", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newCreateGameRequest(mustMakeJson(t, NewGameReq{}))

		server := NewServer(NewBasicStore(), nil, nil, Options{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("returns 400 for an unknown board", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newCreateGameRequest(mustMakeJson(t, NewGameReq{Name: "Elton", Variant: "lunar"}))

		server := NewServer(NewBasicStore(), nil, nil, Options{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("Does not match on GET /new", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/new", nil)

		server := NewServer(nil, nil, nil, Options{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestJoinGame(t *testing.T) {
	t.Run("POST /join returns 200 for existing game", func(t *testing.T) {
		server, pendingID := newServerWithInactiveGame(t, engine.SomePlayers())

		joiningPlayerName := "Heloise"
		data := mustMakeJson(t, JoinGameReq{pendingID, joiningPlayerName})

		response := httptest.NewRecorder()
		request := newJoinGameRequest(data)

		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		got := assertPendingGameResponse(t, response.Body, joiningPlayerName)
		utils.AssertTrue(t, !got.Admin)
		utils.AssertDeepEqual(t, got.Players, []string{"Hersha", "Penelope", "Heloise"})
	})

	t.Run("POST /join returns 400 if request data missing", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newJoinGameRequest(nil)

		server, _ := newServerWithInactiveGame(t, engine.SomePlayers())
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("POST /join returns 400 if the name is missing", func(t *testing.T) {
		server, pendingID := newServerWithInactiveGame(t, nil)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{GameID: pendingID})))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("POST /join returns 400 for an unknown game id", func(t *testing.T) {
		server, _ := newServerWithInactiveGame(t, engine.SomePlayers())

		data := mustMakeJson(t, JoinGameReq{"some-game-id", "Heloise"})

		response := httptest.NewRecorder()
		request := newJoinGameRequest(data)

		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("POST /join returns 409 once the table is full", func(t *testing.T) {
		server, pendingID := newServerWithInactiveGame(t, nil)

		for _, name := range []string{"Cid", "Dot", "Eve", "Fay"} {
			response := httptest.NewRecorder()
			server.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{pendingID, name})))
			assertStatus(t, response.Code, http.StatusOK)
		}

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{pendingID, "Gil"})))

		assertStatus(t, response.Code, http.StatusConflict)
	})

	t.Run("POST /join refuses a game in progress", func(t *testing.T) {
		server, _, _ := newServerWithActiveGame(t)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{"active-id", "Gil"})))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})
}

func TestServerGETGame(t *testing.T) {
	t.Run("returns an existing pending game", func(t *testing.T) {
		server, pendingID := newServerWithInactiveGame(t, engine.NewPlayers(engine.APlayer("hersha-1", "Hersha")))

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest(pendingID))

		assertStatus(t, response.Code, http.StatusOK)
		var got GetGameRes
		decodeBody(t, response.Body, &got)
		assert.Equal(t, GetGameRes{
			GameID:  pendingID,
			Status:  engine.Idle.String(),
			Players: []protocol.Player{{PlayerID: "hersha-1", Name: "Hersha"}},
		}, got)
	})

	t.Run("returns the state of a game in progress", func(t *testing.T) {
		server, _, _ := newServerWithActiveGame(t)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("active-id?player_id=p2"))

		assertStatus(t, response.Code, http.StatusOK)
		var got GetGameRes
		decodeBody(t, response.Body, &got)
		utils.AssertEqual(t, got.Status, engine.InProgress.String())
		utils.AssertEqual(t, got.Seq, uint64(0))
		utils.AssertEqual(t, len(got.Players), 2)
		utils.AssertEqual(t, got.Players[0].Color, "blue")

		var state struct {
			PlayerID    string                     `json:"playerId"`
			Players     map[string]json.RawMessage `json:"players"`
			CurrentTurn struct {
				Type string `json:"type"`
			} `json:"currentTurn"`
		}
		require.NoError(t, json.Unmarshal(got.State, &state))
		utils.AssertEqual(t, state.PlayerID, "p2")
		utils.AssertEqual(t, len(state.Players), 2)
		utils.AssertNotEmptyString(t, state.CurrentTurn.Type)
	})

	t.Run("returns 400 for a stranger's view", func(t *testing.T) {
		server, _, _ := newServerWithActiveGame(t)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("active-id?player_id=nobody"))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("returns a 404 if game doesn't exist", func(t *testing.T) {
		server, _ := newServerWithInactiveGame(t, nil)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("bad-game-id"))

		utils.AssertEqual(t, response.Code, http.StatusNotFound)
	})
}

func TestServerGETActionLog(t *testing.T) {
	t.Run("pages through the recorded actions", func(t *testing.T) {
		t.Log("Given a game where one action has been taken")
		server, log, p1 := newServerWithActiveGame(t)
		ge := server.store.FindGame("active-id")
		a := protocol.Action{Type: protocol.ChooseAction, Choice: "coins"}
		ge.Receive(protocol.InboundMessage{PlayerID: "p1", Command: protocol.Act, Action: &a})
		utils.Within(t, serverTestTimeout, func() {
			for p1.Next(protocol.StateUpdate).Seq != 1 {
			}
		})

		t.Log("When the log is requested")
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("active-id/log"))

		t.Log("Then it holds the action")
		assertStatus(t, response.Code, http.StatusOK)
		var got ActionLogRes
		decodeBody(t, response.Body, &got)
		utils.AssertEqual(t, got.GameID, "active-id")
		require.Len(t, got.Actions, 1)
		utils.AssertEqual(t, got.Actions[0].Choice, "coins")
		utils.AssertEqual(t, got.Actions[0].Seq, uint64(1))

		logged, err := log.ListActions(context.Background(), "active-id", 0, 0)
		require.NoError(t, err)
		require.Len(t, logged, 1)
		assert.Equal(t, logged[0].SequenceKey, got.Actions[0].SequenceKey)

		t.Log("And nothing follows it")
		response = httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("active-id/log?after=1"))
		got = ActionLogRes{}
		decodeBody(t, response.Body, &got)
		utils.AssertEqual(t, len(got.Actions), 0)
	})

	t.Run("rejects a bad page", func(t *testing.T) {
		server, _, _ := newServerWithActiveGame(t)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("active-id/log?limit=lots"))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("returns 404 for an unrecorded game", func(t *testing.T) {
		server, _, _ := newServerWithActiveGame(t)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("other-id/log"))

		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("returns 404 when nothing is recorded", func(t *testing.T) {
		server, pendingID := newServerWithInactiveGame(t, nil)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest(pendingID+"/log"))

		assertStatus(t, response.Code, http.StatusNotFound)
	})
}

func TestWS(t *testing.T) {
	t.Run("Handles missing game details", func(t *testing.T) {
		server := newTestServer(NewBasicStore())
		defer server.Close()

		_, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
		utils.AssertErrored(t, err)
	})

	t.Run("Rejects if pending game doesn't exist", func(t *testing.T) {
		server := newTestServer(NewBasicStore())
		defer server.Close()

		_, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, "unknowngamelol", "unknownhooman"), nil)

		utils.AssertErrored(t, err)
		utils.AssertEqual(t, resp.StatusCode, http.StatusBadRequest)
		body, _ := io.ReadAll(resp.Body)
		utils.AssertStringEquality(t, string(body), unknownGameIDMsg("unknowngamelol"))
	})

	t.Run("Rejects a player nobody expects", func(t *testing.T) {
		gameID := "this-is-a-game-id"
		str := NewBasicStore()
		utils.AssertNoError(t, str.AddInactiveGame(newTestGame(t, engine.GameEngineOpts{GameID: gameID})))

		server := newTestServer(str)
		defer server.Close()

		_, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, gameID, "stranger"), nil)

		utils.AssertErrored(t, err)
		utils.AssertEqual(t, resp.StatusCode, http.StatusBadRequest)
	})

	t.Run("Successfully connects", func(t *testing.T) {
		gameID := "this-is-a-game-id"
		name, playerID := "Delilah", "delilah1"

		str := NewBasicStore()
		utils.AssertNoError(t, str.AddInactiveGame(newTestGame(t, engine.GameEngineOpts{GameID: gameID, CreatorID: playerID})))
		utils.AssertNoError(t, str.AddPendingPlayer(gameID, playerID, name))

		server := newTestServer(str)
		defer server.Close()

		ws := mustDialWS(t, makeWSUrl(server.URL, gameID, playerID))

		msg := readCmd(t, ws, protocol.NewJoiner)
		utils.AssertEqual(t, msg.Joiner.PlayerID, playerID)
		utils.AssertEqual(t, msg.Joiner.Name, name)
	})

	t.Run("Only upgrades allowed origins", func(t *testing.T) {
		gameID := "this-is-a-game-id"
		playerID := "delilah1"

		str := NewBasicStore()
		utils.AssertNoError(t, str.AddInactiveGame(newTestGame(t, engine.GameEngineOpts{GameID: gameID, CreatorID: playerID})))
		utils.AssertNoError(t, str.AddPendingPlayer(gameID, playerID, "Delilah"))

		server := httptest.NewServer(NewServer(str, nil, nil, Options{AllowedOrigins: []string{"https://vineyard.example"}}))
		defer server.Close()

		t.Log("A page from elsewhere is refused")
		_, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, gameID, playerID),
			http.Header{"Origin": []string{"https://elsewhere.example"}})
		utils.AssertErrored(t, err)
		require.NotNil(t, resp)
		utils.AssertEqual(t, resp.StatusCode, http.StatusForbidden)

		t.Log("The configured origin gets through")
		ws, _, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, gameID, playerID),
			http.Header{"Origin": []string{"https://vineyard.example"}})
		require.NoError(t, err)
		t.Cleanup(func() { ws.Close() })

		msg := readCmd(t, ws, protocol.NewJoiner)
		utils.AssertEqual(t, msg.Joiner.PlayerID, playerID)
	})

	t.Run("Plays a game over the socket", func(t *testing.T) {
		t.Log("Given two connected players")
		gameID := "socket-game"
		str := NewBasicStore()
		utils.AssertNoError(t, str.AddInactiveGame(newTestGame(t, engine.GameEngineOpts{
			GameID:    gameID,
			CreatorID: "ada",
			Seed:      5,
			Variant:   board.Extended,
		})))
		utils.AssertNoError(t, str.AddPendingPlayer(gameID, "ada", "Ada"))
		utils.AssertNoError(t, str.AddPendingPlayer(gameID, "bo", "Bo"))

		server := newTestServer(str)
		defer server.Close()

		ada := mustDialWS(t, makeWSUrl(server.URL, gameID, "ada"))
		readCmd(t, ada, protocol.NewJoiner)
		bo := mustDialWS(t, makeWSUrl(server.URL, gameID, "bo"))
		readCmd(t, bo, protocol.NewJoiner)

		t.Log("When the creator starts the game")
		require.NoError(t, ada.WriteJSON(protocol.InboundMessage{Command: protocol.Start}))

		t.Log("Then the creator is asked for their inheritance")
		readCmd(t, ada, protocol.HasStarted)
		update := readCmd(t, ada, protocol.StateUpdate)
		require.Len(t, update.Prompts, 1)
		utils.AssertEqual(t, update.Prompts[0].PlayerID, "ada")

		t.Log("And their answer reaches the other player")
		require.NoError(t, ada.WriteJSON(protocol.InboundMessage{
			Command: protocol.Act,
			Action:  &protocol.Action{Type: protocol.ChooseAction, Choice: "coins"},
		}))
		update = readCmd(t, bo, protocol.StateUpdate)
		for update.Seq != 1 {
			update = readCmd(t, bo, protocol.StateUpdate)
		}
		require.Len(t, update.Prompts, 1)
		utils.AssertEqual(t, update.Prompts[0].PlayerID, "bo")

		t.Log("And a strayed player can reconnect")
		ada.Close()
		again := mustDialWS(t, makeWSUrl(server.URL, gameID, "ada"))
		update = readCmd(t, again, protocol.StateUpdate)
		utils.AssertEqual(t, update.Seq, uint64(1))
	})
}

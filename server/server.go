package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/engine"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/store"
)

const defaultLogPage = 100

type NewGameReq struct {
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
}

type PendingGameRes struct {
	GameID   string   `json:"game_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
}

type JoinGameReq struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

type GetGameRes struct {
	GameID  string            `json:"game_id"`
	Status  string            `json:"status"`
	Players []protocol.Player `json:"players"`
	Seq     uint64            `json:"seq"`
	State   json.RawMessage   `json:"state,omitempty"`
}

type ActionLogRes struct {
	GameID  string            `json:"game_id"`
	Actions []protocol.Action `json:"actions"`
}

// Options tune a GameServer
type Options struct {
	AllowedOrigins []string
	Variant        board.Variant
}

// GameServer is a game server
type GameServer struct {
	store    store.GameStore
	log      store.ActionLog
	logger   *zap.Logger
	opts     Options
	upgrader websocket.Upgrader
	http.Server
}

func NewID() string {
	return engine.NewID()
}

// NewGameID returns a short code that is easy to read out to friends
func NewGameID() string {
	letters := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	code := make([]byte, 6)
	for i := range code {
		code[i] = letters[rand.Intn(len(letters))]
	}
	return string(code)
}

func unknownGameIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown game ID '%s'", unknownID)
}

// NewServer creates a new GameServer. A nil log keeps games in memory only.
func NewServer(gs store.GameStore, log store.ActionLog, logger *zap.Logger, opts Options) *GameServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &GameServer{
		store:  gs,
		log:    log,
		logger: logger,
		opts:   opts,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	router := http.NewServeMux()
	router.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}))
	router.Handle("/new", http.HandlerFunc(s.HandleNewGame))
	router.Handle("/game/", http.HandlerFunc(s.HandleFindGame))
	router.Handle("/join", http.HandlerFunc(s.HandleJoinGame))
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))

	cors := handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	s.Handler = handlers.CustomLoggingHandler(io.Discard, cors(router), s.logRequest)

	return s
}

// checkOrigin applies AllowedOrigins to websocket upgrades. Requests without
// an Origin header do not come from a browser and are let through.
func (g *GameServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range g.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	g.logger.Warn("websocket origin refused", zap.String("origin", origin))
	return false
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

func (g *GameServer) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	g.logger.Info("request",
		zap.String("method", params.Request.Method),
		zap.String("path", params.URL.Path),
		zap.Int("status", params.StatusCode),
		zap.Int("size", params.Size),
		zap.Duration("elapsed", time.Since(params.TimeStamp)),
	)
}

// HandleNewGame handles a request to create a new game
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	variant := g.opts.Variant
	if data.Variant != "" {
		if err := variant.Set(data.Variant); err != nil {
			writeText(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	gameID := NewGameID()
	playerID := NewID()
	opts := engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: playerID,
		Variant:   variant,
		Log:       g.log,
		Logger:    g.logger,
	}
	game, err := engine.NewGameEngine(opts)
	if err != nil {
		g.internalError(w, "could not create game", err)
		return
	}

	if err = g.store.AddInactiveGame(game); err != nil {
		game.Stop()
		g.internalError(w, "could not store game", err)
		return
	}

	if err = g.store.AddPendingPlayer(gameID, playerID, data.Name); err != nil {
		g.internalError(w, "could not add creator", err)
		return
	}

	g.logger.Info("game created", zap.String("game_id", gameID), zap.Stringer("variant", variant))
	writeJSON(w, http.StatusCreated, PendingGameRes{
		GameID:   gameID,
		PlayerID: playerID,
		Name:     data.Name,
		Admin:    true,
		Players:  []string{data.Name},
	})
}

// HandleFindGame serves /game/{id} and /game/{id}/log
func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/game/"), "/")
	gameID, rest, _ := strings.Cut(path, "/")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	switch rest {
	case "":
		g.getGame(w, r, gameID)
	case "log":
		g.getActionLog(w, r, gameID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (g *GameServer) getGame(w http.ResponseWriter, r *http.Request, gameID string) {
	game := g.store.FindGame(gameID)
	if game == nil {
		writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
		return
	}

	res := GetGameRes{
		GameID:  gameID,
		Status:  game.PlayState().String(),
		Players: game.Seats(),
	}
	if game.PlayState() != engine.Idle {
		state, seq, err := game.View(r.URL.Query().Get("player_id"))
		if errors.Is(err, engine.ErrUnknownPlayerID) {
			writeText(w, http.StatusBadRequest, "unknown player ID")
			return
		}
		if err != nil {
			g.internalError(w, "could not view game", err)
			return
		}
		if res.State, err = json.Marshal(state); err != nil {
			g.internalError(w, "could not encode game", err)
			return
		}
		res.Seq = seq
	}

	writeJSON(w, http.StatusOK, res)
}

func (g *GameServer) getActionLog(w http.ResponseWriter, r *http.Request, gameID string) {
	if g.log == nil {
		writeText(w, http.StatusNotFound, "games are not being recorded")
		return
	}

	query := r.URL.Query()
	after, err := parseUint(query.Get("after"), 0)
	if err != nil {
		writeText(w, http.StatusBadRequest, "bad after: "+err.Error())
		return
	}
	limit, err := parseUint(query.Get("limit"), defaultLogPage)
	if err != nil {
		writeText(w, http.StatusBadRequest, "bad limit: "+err.Error())
		return
	}

	if _, err := g.log.GetGame(r.Context(), gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
			return
		}
		g.internalError(w, "could not read game", err)
		return
	}
	actions, err := g.log.ListActions(r.Context(), gameID, after, int(limit))
	if err != nil {
		g.internalError(w, "could not read actions", err)
		return
	}
	if actions == nil {
		actions = []protocol.Action{}
	}

	writeJSON(w, http.StatusOK, ActionLogRes{GameID: gameID, Actions: actions})
}

func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data JoinGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}

	if data.GameID == "" {
		writeText(w, http.StatusBadRequest, "Missing game ID")
		return
	}

	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	game := g.store.FindInactiveGame(data.GameID)
	if game == nil {
		writeText(w, http.StatusBadRequest, unknownGameIDMsg(data.GameID))
		return
	}

	playerID := NewID()
	err = g.store.AddPendingPlayer(data.GameID, playerID, data.Name)
	if errors.Is(err, store.ErrGameFull) || errors.Is(err, store.ErrGameAlreadyStarted) {
		writeText(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		g.internalError(w, "could not add player", err)
		return
	}

	playerNames := []string{}
	for _, p := range g.store.PendingPlayers(data.GameID) {
		playerNames = append(playerNames, p.Name)
	}

	writeJSON(w, http.StatusOK, PendingGameRes{
		PlayerID: playerID,
		GameID:   data.GameID,
		Name:     data.Name,
		Players:  playerNames,
	})
}

// HandleWS connects an expected player to their game. Players of a game in
// progress may reconnect here too.
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID := query.Get("game_id")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	playerID := query.Get("player_id")
	if playerID == "" {
		writeText(w, http.StatusBadRequest, "missing player ID")
		return
	}

	game := g.store.FindGame(gameID)
	if game == nil {
		writeText(w, http.StatusBadRequest, unknownGameIDMsg(gameID))
		return
	}

	pendingPlayer := g.store.FindPendingPlayer(gameID, playerID)
	if pendingPlayer == nil {
		writeText(w, http.StatusBadRequest, "unknown player ID")
		return
	}

	rawConn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		g.logger.Warn("could not upgrade to websocket", zap.String("game_id", gameID), zap.Error(err))
		return
	}

	player := engine.NewWSPlayer(playerID, pendingPlayer.Name, rawConn, make(chan []byte), game)
	if err = g.store.AddPlayerToGame(gameID, player); err != nil {
		g.logger.Warn("could not add player to game",
			zap.String("game_id", gameID),
			zap.String("player_id", playerID),
			zap.Error(err),
		)
		rawConn.Close()
	}
}

func (g *GameServer) writeParseError(err error, w http.ResponseWriter) {
	if err == io.EOF {
		writeText(w, http.StatusBadRequest, "Missing body")
		return
	}
	g.logger.Debug("could not parse request", zap.Error(err))
	writeText(w, http.StatusBadRequest, "Malformed body")
}

func (g *GameServer) internalError(w http.ResponseWriter, msg string, err error) {
	g.logger.Error(msg, zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func parseUint(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

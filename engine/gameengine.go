package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/game"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/replay"
)

// PlayState represents the state of the current game
// Idle -> waiting for players
// InProgress -> game in progress
// Finished -> game over, actions are no longer accepted
type PlayState int

const (
	Idle PlayState = iota
	InProgress
	Finished
)

func (ps PlayState) String() string {
	switch ps {
	case Idle:
		return "idle"
	case InProgress:
		return "inProgress"
	case Finished:
		return "finished"
	}
	return ""
}

var (
	ErrNotCreator      = errors.New("only the creator can start the game")
	ErrNotInProgress   = errors.New("game is not in progress")
	ErrMissingAction   = errors.New("message has no action")
	ErrGameInProgress  = errors.New("game has already started")
	ErrUnknownPlayerID = errors.New("unknown player ID")
)

var seatColors = []string{"blue", "green", "orange", "purple", "red", "yellow"}

// ActionLog is where the engine records games and their actions
type ActionLog interface {
	CreateGame(ctx context.Context, rec protocol.GameRecord) error
	AppendAction(ctx context.Context, gameID string, a protocol.Action) error
}

// GameEngine represents the engine of the game
type GameEngine interface {
	ID() string
	CreatorID() string
	Players() Players
	Seats() []protocol.Player
	PlayState() PlayState
	AddPlayer(Player) error
	RemovePlayer(Player)
	Receive(protocol.InboundMessage)
	Start() error
	View(playerID string) (*game.GameState, uint64, error)
	Stop()
}

type GameEngineOpts struct {
	GameID       string
	CreatorID    string
	Players      Players
	Variant      board.Variant
	Seed         int64
	Log          ActionLog
	Logger       *zap.Logger
	RegisterCh   chan Player
	UnregisterCh chan Player
	InboundCh    chan protocol.InboundMessage
	PlayState    PlayState
}

type gameEngine struct {
	id           string
	creatorID    string
	variant      board.Variant
	seed         int64
	playState    PlayState
	players      Players
	seats        []protocol.Player
	registerCh   chan Player
	unregisterCh chan Player
	inboundCh    chan protocol.InboundMessage
	done         chan struct{}
	stopOnce     sync.Once
	log          ActionLog
	logger       *zap.Logger

	// state is the canonical game; views hold one copy per seat so that each
	// player only ever sees their own prompts
	state *game.GameState
	views map[string]*game.GameState
	seq   uint64

	mu sync.RWMutex
}

// NewGameEngine constructs a new GameEngine and starts its hub
func NewGameEngine(opts GameEngineOpts) (*gameEngine, error) {
	if opts.RegisterCh == nil {
		opts.RegisterCh = make(chan Player)
	}
	if opts.UnregisterCh == nil {
		opts.UnregisterCh = make(chan Player)
	}
	if opts.InboundCh == nil {
		opts.InboundCh = make(chan protocol.InboundMessage)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Players == nil {
		opts.Players = NewPlayers()
	}

	engine := &gameEngine{
		id:           opts.GameID,
		creatorID:    opts.CreatorID,
		variant:      opts.Variant,
		seed:         opts.Seed,
		playState:    opts.PlayState,
		players:      opts.Players,
		registerCh:   opts.RegisterCh,
		unregisterCh: opts.UnregisterCh,
		inboundCh:    opts.InboundCh,
		done:         make(chan struct{}),
		log:          opts.Log,
		logger:       opts.Logger.With(zap.String("game_id", opts.GameID)),
		views:        map[string]*game.GameState{},
	}

	go engine.Listen()

	return engine, nil
}

// RestoreGameEngine rebuilds an in-progress game from its action log
func RestoreGameEngine(ctx context.Context, src replay.Source, gameID string, opts GameEngineOpts) (*gameEngine, error) {
	canonical, err := replay.Replay(ctx, src, gameID, replay.Options{})
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}
	rec, err := src.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	views := map[string]*game.GameState{}
	for _, seat := range rec.Players {
		view, err := replay.Replay(ctx, src, gameID, replay.Options{Viewer: seat.PlayerID, UntilSeq: canonical.LastSeq})
		if err != nil {
			return nil, fmt.Errorf("restore view of %s: %w", seat.PlayerID, err)
		}
		views[seat.PlayerID] = view.State
	}

	opts.GameID = rec.GameID
	opts.CreatorID = rec.CreatorID
	opts.Variant = rec.Variant
	opts.Seed = rec.Seed
	opts.PlayState = InProgress
	if canonical.State.IsGameOver() {
		opts.PlayState = Finished
	}

	ge, err := NewGameEngine(opts)
	if err != nil {
		return nil, err
	}

	ge.mu.Lock()
	defer ge.mu.Unlock()
	ge.seats = rec.Players
	ge.state = canonical.State
	ge.views = views
	ge.seq = canonical.LastSeq
	ge.logger.Info("restored game",
		zap.Uint64("seq", ge.seq),
		zap.Int("ignored", canonical.Ignored),
	)
	return ge, nil
}

func (ge *gameEngine) ID() string {
	return ge.id
}

func (ge *gameEngine) CreatorID() string {
	return ge.creatorID
}

func (ge *gameEngine) Players() Players {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return append(Players{}, ge.players...)
}

// Seats lists the players of a started game in table order. Before the
// game starts it lists whoever has joined so far.
func (ge *gameEngine) Seats() []protocol.Player {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	if ge.playState == Idle {
		return ge.players.Info()
	}
	return append([]protocol.Player{}, ge.seats...)
}

func (ge *gameEngine) PlayState() PlayState {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.playState
}

// AddPlayer adds a player to a game, or reconnects a seated one
func (ge *gameEngine) AddPlayer(p Player) error {
	select {
	case <-ge.done:
		return ErrNotInProgress
	default:
	}
	select {
	case ge.registerCh <- p:
		return nil
	case <-ge.done:
		return ErrNotInProgress
	}
}

// RemovePlayer disconnects a player. A started game keeps their seat.
func (ge *gameEngine) RemovePlayer(p Player) {
	select {
	case ge.unregisterCh <- p:
	case <-ge.done:
	}
}

// Receive forwards InboundMessages from Players to the hub
func (ge *gameEngine) Receive(msg protocol.InboundMessage) {
	select {
	case ge.inboundCh <- msg:
	case <-ge.done:
	}
}

// Stop shuts down the hub
func (ge *gameEngine) Stop() {
	ge.stopOnce.Do(func() { close(ge.done) })
}

// View returns the game as seen by playerID, along with the sequence number
// of the last applied action. An empty playerID sees the canonical game.
func (ge *gameEngine) View(playerID string) (*game.GameState, uint64, error) {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	if ge.state == nil {
		return nil, 0, ErrNotInProgress
	}
	if playerID == "" {
		return ge.state, ge.seq, nil
	}
	view, ok := ge.views[playerID]
	if !ok {
		return nil, 0, ErrUnknownPlayerID
	}
	return view, ge.seq, nil
}

// Start starts a game
func (ge *gameEngine) Start() error {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	if ge.playState != Idle {
		return nil
	}

	seats := ge.players.Info()
	for i := range seats {
		if seats[i].Color == "" {
			seats[i].Color = seatColors[i%len(seatColors)]
		}
	}
	seed := ge.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rec := protocol.GameRecord{
		GameID:    ge.id,
		CreatorID: ge.creatorID,
		Players:   seats,
		Variant:   ge.variant,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}

	state, err := replay.NewGame(rec, "")
	if err != nil {
		return err
	}
	views := map[string]*game.GameState{}
	for _, seat := range seats {
		if views[seat.PlayerID], err = replay.NewGame(rec, seat.PlayerID); err != nil {
			return err
		}
	}

	if ge.log != nil {
		if err := ge.log.CreateGame(context.Background(), rec); err != nil {
			return fmt.Errorf("record game %s: %w", ge.id, err)
		}
	}

	ge.seed = seed
	ge.seats = seats
	ge.state = state
	ge.views = views
	ge.playState = InProgress
	ge.logger.Info("game started",
		zap.Int("players", len(seats)),
		zap.Stringer("variant", ge.variant),
		zap.Int64("seed", seed),
	)

	for _, p := range ge.players {
		ge.send(p, protocol.OutboundMessage{PlayerID: p.ID(), Command: protocol.HasStarted})
		ge.sendState(p)
	}
	return nil
}

// Listen serialises everything that happens to a game
func (ge *gameEngine) Listen() {
	for {
		select {
		case <-ge.done:
			return

		case joiner := <-ge.registerCh:
			ge.register(joiner)

		case leaver := <-ge.unregisterCh:
			ge.unregister(leaver)

		case msg := <-ge.inboundCh:
			switch msg.Command {
			case protocol.Start:
				if msg.PlayerID != ge.creatorID {
					ge.reply(msg.PlayerID, ErrNotCreator)
					continue
				}
				if err := ge.Start(); err != nil {
					ge.logger.Warn("could not start game", zap.Error(err))
					ge.reply(msg.PlayerID, err)
				}

			case protocol.Act:
				ge.act(msg)

			default:
				ge.logger.Debug("ignoring message",
					zap.String("player_id", msg.PlayerID),
					zap.Stringer("command", msg.Command),
				)
			}
		}
	}
}

func (ge *gameEngine) register(joiner Player) {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	if ge.playState != Idle {
		if !ge.seated(joiner.ID()) {
			ge.send(joiner, protocol.OutboundMessage{
				PlayerID: joiner.ID(),
				Command:  protocol.Error,
				Error:    ErrGameInProgress.Error(),
			})
			return
		}
		ge.players = ReplacePlayer(ge.players, joiner)
		ge.logger.Info("player reconnected", zap.String("player_id", joiner.ID()))
		ge.sendState(joiner)
		return
	}

	if len(ge.players) >= 6 {
		if _, ok := ge.players.Find(joiner.ID()); !ok {
			ge.send(joiner, protocol.OutboundMessage{
				PlayerID: joiner.ID(),
				Command:  protocol.Error,
				Error:    game.ErrTooManyPlayers.Error(),
			})
			return
		}
	}

	ge.players = ReplacePlayer(ge.players, joiner)
	ge.logger.Info("player joined",
		zap.String("player_id", joiner.ID()),
		zap.String("name", joiner.Name()),
	)
	for _, p := range ge.players {
		ge.send(p, protocol.OutboundMessage{
			PlayerID: p.ID(),
			Command:  protocol.NewJoiner,
			Joiner:   joiner.Info(),
		})
	}
}

func (ge *gameEngine) unregister(leaver Player) {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	current, ok := ge.players.Find(leaver.ID())
	if !ok || current != leaver {
		// an old connection of someone who has already reconnected
		return
	}
	ge.players = RemovePlayer(ge.players, leaver.ID())
	ge.logger.Info("player left", zap.String("player_id", leaver.ID()))
}

func (ge *gameEngine) seated(playerID string) bool {
	for _, seat := range ge.seats {
		if seat.PlayerID == playerID {
			return true
		}
	}
	return false
}

// act applies one player's action. It is recorded only once the canonical
// game accepts it, so the log never holds an action that was illegal when
// it was taken.
func (ge *gameEngine) act(msg protocol.InboundMessage) {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	if ge.playState != InProgress {
		ge.reply(msg.PlayerID, ErrNotInProgress)
		return
	}
	if msg.Action == nil {
		ge.reply(msg.PlayerID, ErrMissingAction)
		return
	}

	a := *msg.Action
	a.PlayerID = msg.PlayerID
	a.Seq = ge.seq + 1
	a.SequenceKey = uuid.NewV4().String()
	a.Timestamp = time.Now().UnixMilli()

	next, err := game.Apply(ge.state, a)
	if err != nil {
		if errors.Is(err, game.ErrIllegalAction) {
			ge.logger.Debug("illegal action",
				zap.String("player_id", a.PlayerID),
				zap.Stringer("action", a.Type),
				zap.Error(err),
			)
		} else {
			ge.logger.Error("action failed",
				zap.String("player_id", a.PlayerID),
				zap.Stringer("action", a.Type),
				zap.Error(err),
			)
		}
		ge.reply(msg.PlayerID, err)
		return
	}

	if ge.log != nil {
		if err := ge.log.AppendAction(context.Background(), ge.id, a); err != nil {
			ge.logger.Error("could not record action", zap.Uint64("seq", a.Seq), zap.Error(err))
			ge.reply(msg.PlayerID, err)
			return
		}
	}

	ge.state = next
	ge.seq = a.Seq
	for id, view := range ge.views {
		nextView, err := game.Reduce(view, a)
		if err != nil {
			ge.logger.Error("view diverged",
				zap.String("viewer", id),
				zap.Uint64("seq", a.Seq),
				zap.Error(err),
			)
			continue
		}
		ge.views[id] = nextView
	}

	for _, p := range ge.players {
		ge.sendState(p)
	}

	if ge.state.IsGameOver() {
		ge.playState = Finished
		ge.logger.Info("game over", zap.Uint64("seq", ge.seq))
		for _, p := range ge.players {
			ge.send(p, protocol.OutboundMessage{PlayerID: p.ID(), Command: protocol.GameOver, Seq: ge.seq})
		}
	}
}

// sendState sends p their view of the game. Callers hold the lock.
func (ge *gameEngine) sendState(p Player) {
	view, ok := ge.views[p.ID()]
	if !ok {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		ge.logger.Error("could not encode state", zap.String("player_id", p.ID()), zap.Error(err))
		return
	}
	ge.send(p, protocol.OutboundMessage{
		PlayerID: p.ID(),
		Command:  protocol.StateUpdate,
		State:    raw,
		Prompts:  view.ActionPrompts,
		Seq:      ge.seq,
	})
}

// reply sends an error to a connected player
func (ge *gameEngine) reply(playerID string, err error) {
	p, ok := ge.players.Find(playerID)
	if !ok {
		return
	}
	ge.send(p, protocol.OutboundMessage{PlayerID: playerID, Command: protocol.Error, Error: err.Error()})
}

func (ge *gameEngine) send(p Player, msg protocol.OutboundMessage) {
	if err := p.Send(msg); err != nil {
		ge.logger.Warn("could not send message",
			zap.String("player_id", p.ID()),
			zap.Stringer("command", msg.Command),
			zap.Error(err),
		)
	}
}

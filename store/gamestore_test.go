package store

import (
	"context"
	"testing"
	"time"

	"github.com/vsiao/oenology-sub000/engine"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
)

func TestInMemoryGameStore(t *testing.T) {
	t.Run("Constructor prevents nil struct members", func(t *testing.T) {
		str := NewInMemoryGameStore()
		if str.Games == nil {
			t.Error("Games was nil")
		}
		if str.pendingPlayers == nil {
			t.Error("Pending players was nil")
		}
	})

	t.Run("prevents duplicate game IDs", func(t *testing.T) {
		str := NewInMemoryGameStore()
		gameID := "thisISAnID"
		ge := newGame(t, gameID, "", nil)

		err := str.AddInactiveGame(ge)
		utils.AssertNoError(t, err)

		err = str.AddInactiveGame(ge)
		utils.AssertErrored(t, err)
	})

	t.Run("Can add pending players", func(t *testing.T) {
		gameID := "some-game-id"
		playerID, playerName := "player-1", "Hermione"
		ge := newGame(t, gameID, playerID, nil)

		str := NewTestGameStore(map[string]engine.GameEngine{gameID: ge}, nil)

		err := str.AddPendingPlayer(gameID, playerID, playerName)
		utils.AssertNoError(t, err)

		pendingInfo := str.FindPendingPlayer(gameID, playerID)
		utils.AssertNotNil(t, pendingInfo)
		utils.AssertEqual(t, pendingInfo.Name, playerName)
	})

	t.Run("A game has room for six", func(t *testing.T) {
		gameID := "some-game-id"
		str := NewTestGameStore(map[string]engine.GameEngine{gameID: newGame(t, gameID, "", nil)}, nil)

		for i := 0; i < 6; i++ {
			utils.AssertNoError(t, str.AddPendingPlayer(gameID, engine.NewID(), "Player"))
		}
		utils.AssertErrorIs(t, str.AddPendingPlayer(gameID, engine.NewID(), "Player"), ErrGameFull)
	})

	t.Run("Handles a non-existent game", func(t *testing.T) {
		str := NewInMemoryGameStore()
		game := str.FindGame("fake-id")

		utils.AssertEqual(t, game, nil)
		utils.AssertErrorIs(t, str.AddPendingPlayer("fake-id", "p1", "Ada"), ErrUnknownGameID)
	})

	t.Run("Can add an expected player to an inactive game", func(t *testing.T) {
		pendingID := "a-pending-game"
		str := NewTestGameStore(
			map[string]engine.GameEngine{pendingID: newGame(t, pendingID, "creator-id", engine.SomePlayers())},
			nil,
		)

		playerID, playerName := "horatio-1", "Horatio"
		utils.AssertNoError(t, str.AddPendingPlayer(pendingID, playerID, playerName))
		playerToAdd := engine.APlayer(playerID, playerName)

		err := str.AddPlayerToGame(pendingID, playerToAdd)
		utils.AssertNoError(t, err)

		utils.Within(t, time.Second, func() {
			msg := playerToAdd.Next(protocol.NewJoiner)
			utils.AssertEqual(t, msg.Joiner.PlayerID, playerID)
		})

		game := str.FindInactiveGame(pendingID)
		utils.AssertNotNil(t, game)
		p, ok := game.Players().Find(playerID)
		utils.AssertTrue(t, ok)
		utils.AssertEqual(t, p, engine.Player(playerToAdd))
	})

	t.Run("Refuses a player nobody expects", func(t *testing.T) {
		pendingID := "a-pending-game"
		str := NewTestGameStore(map[string]engine.GameEngine{pendingID: newGame(t, pendingID, "", nil)}, nil)

		err := str.AddPlayerToGame(pendingID, engine.APlayer("gatecrasher", "Gus"))
		utils.AssertErrorIs(t, err, ErrUnknownPlayerID)
	})

	t.Run("Disallows adding a player to an active game", func(t *testing.T) {
		gameID := "test-game-id"
		str := NewTestGameStore(newActiveGame(t, gameID), nil)

		err := str.AddPendingPlayer(gameID, "player-1", "Neville")

		utils.AssertErrorIs(t, err, ErrGameAlreadyStarted)
		utils.AssertErrorIs(t, str.AddInactiveGame(str.Games[gameID]), ErrGameAlreadyStarted)
	})

	t.Run("Can retrieve existing active game", func(t *testing.T) {
		gameID := "test-game-id"
		str := NewTestGameStore(newActiveGame(t, gameID), nil)

		utils.AssertNotNil(t, str.FindActiveGame(gameID))
		utils.AssertEqual(t, str.FindInactiveGame(gameID), nil)
	})

	t.Run("Handles a non-existent active game", func(t *testing.T) {
		str := NewInMemoryGameStore()
		game := str.FindActiveGame("fake-id")

		utils.AssertEqual(t, game, nil)
	})

	t.Run("Can retrieve existing pending game", func(t *testing.T) {
		pendingID := "a-pending-game"
		str := NewTestGameStore(map[string]engine.GameEngine{pendingID: newGame(t, pendingID, "creator-id", nil)}, nil)

		utils.AssertNotNil(t, str.FindInactiveGame(pendingID))
		utils.AssertEqual(t, str.FindActiveGame(pendingID), nil)
	})

	t.Run("A started game added back expects its seated players", func(t *testing.T) {
		str := NewInMemoryGameStore()
		games := newActiveGame(t, "restored")

		utils.AssertNoError(t, str.AddGame(games["restored"]))

		seats := games["restored"].Seats()
		utils.AssertEqual(t, len(seats), 2)
		utils.AssertDeepEqual(t, str.PendingPlayers("restored"), seats)
		utils.AssertNotNil(t, str.FindPendingPlayer("restored", "p2"))
	})

	t.Run("Removing a game stops it", func(t *testing.T) {
		gameID := "doomed"
		ge := newGame(t, gameID, "", nil)
		str := NewTestGameStore(map[string]engine.GameEngine{gameID: ge}, nil)

		str.RemoveGame(gameID)

		utils.AssertEqual(t, str.FindGame(gameID), nil)
		utils.AssertErrored(t, ge.AddPlayer(engine.APlayer("late", "Late")))
	})
}

func newGame(t *testing.T, gameID, creatorID string, ps engine.Players) engine.GameEngine {
	t.Helper()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: creatorID,
		Players:   ps,
	})
	utils.AssertNoError(t, err)
	t.Cleanup(ge.Stop)
	return ge
}

func newActiveGame(t *testing.T, gameID string) map[string]engine.GameEngine {
	t.Helper()
	log := NewMemoryLog()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: "p1",
		Players:   engine.NewPlayers(engine.APlayer("p1", "Ada"), engine.APlayer("p2", "Bo")),
		Log:       log,
		Seed:      1,
	})
	utils.AssertNoError(t, err)
	t.Cleanup(ge.Stop)
	utils.AssertNoError(t, ge.Start())

	_, err = log.GetGame(context.Background(), gameID)
	utils.AssertNoError(t, err)
	return map[string]engine.GameEngine{gameID: ge}
}

// NewTestGameStore is a convenience function for creating InMemoryGameStore in tests
func NewTestGameStore(
	games map[string]engine.GameEngine,
	pendingPlayers map[string][]protocol.Player,
) *InMemoryGameStore {
	if games == nil {
		games = map[string]engine.GameEngine{}
	}

	if pendingPlayers == nil {
		pendingPlayers = map[string][]protocol.Player{}
	}

	return &InMemoryGameStore{
		Games:          games,
		pendingPlayers: pendingPlayers,
	}
}

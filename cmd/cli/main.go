package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/engine"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/replay"
	"github.com/vsiao/oenology-sub000/store"
	"github.com/vsiao/oenology-sub000/store/bolt"
	"github.com/vsiao/oenology-sub000/store/sqlite"
)

func main() {
	var (
		variant  board.Variant
		names    = flag.String("players", "Harry,Sally", "comma separated names of the players sharing this terminal")
		seed     = flag.Int64("seed", 0, "seed for the draw piles; 0 picks one")
		replayID = flag.String("replay", "", "replay a recorded game instead of playing one")
		upTo     = flag.Uint64("until", 0, "stop the replay after this action")
		sqliteDB = flag.String("sqlite", "", "sqlite file to record to or replay from")
		boltDB   = flag.String("bolt", "", "bolt file to record to or replay from")
		debug    = flag.Bool("debug", false, "log engine events to stderr")
	)
	flag.Var(&variant, "variant", "board to play on: base or extended")
	flag.Parse()

	logger := zap.NewNop()
	if *debug {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatal(err.Error())
		}
	}
	defer logger.Sync()

	actionLog, err := openLog(*sqliteDB, *boltDB)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer actionLog.Close()

	if *replayID != "" {
		if err := replayGame(actionLog, *replayID, *upTo); err != nil {
			log.Fatal(err.Error())
		}
		return
	}

	if err := playGame(actionLog, logger, strings.Split(*names, ","), variant, *seed); err != nil {
		log.Fatal(err.Error())
	}
}

func openLog(sqlitePath, boltPath string) (store.ActionLog, error) {
	switch {
	case sqlitePath != "" && boltPath != "":
		return nil, fmt.Errorf("choose one of -sqlite and -bolt")
	case sqlitePath != "":
		s, err := sqlite.Open(sqlitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case boltPath != "":
		s, err := bolt.Open(boltPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return store.NewMemoryLog(), nil
}

// replayGame prints a recorded game's narration and standings
func replayGame(src store.ActionLog, gameID string, until uint64) error {
	res, err := replay.Replay(context.Background(), src, gameID, replay.Options{UntilSeq: until})
	if err != nil {
		return err
	}

	engine.SendText(os.Stdout, engine.LogText(res.State))
	engine.SendText(os.Stdout, "\nafter %d actions (%d ignored), year %d\n", res.LastSeq, res.Ignored, res.State.Year)
	engine.SendText(os.Stdout, engine.StandingsText(res.State))
	return nil
}

// playGame runs a hot-seat game at this terminal until it is over or the
// input runs out
func playGame(actionLog store.ActionLog, logger *zap.Logger, names []string, variant board.Variant, seed int64) error {
	gameID := engine.NewID()
	ps := []protocol.Player{}
	for i, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			ps = append(ps, protocol.Player{PlayerID: fmt.Sprintf("p%d", i+1), Name: name})
		}
	}
	if len(ps) == 0 {
		return fmt.Errorf("no players")
	}

	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: ps[0].PlayerID,
		Variant:   variant,
		Seed:      seed,
		Log:       actionLog,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer ge.Stop()

	term := engine.NewTerminal(os.Stdin, os.Stdout)
	players := []*engine.CLIPlayer{}
	for _, p := range ps {
		player := engine.NewCLIPlayer(p.PlayerID, p.Name, term, ge)
		if err := ge.AddPlayer(player); err != nil {
			return err
		}
		players = append(players, player)
	}

	engine.SendText(os.Stdout, "game %s\n", gameID)
	ge.Receive(protocol.InboundMessage{PlayerID: ps[0].PlayerID, Command: protocol.Start})

	// whoever runs out of input first ends the session
	done := make(chan struct{}, len(players))
	for _, p := range players {
		go func(p *engine.CLIPlayer) {
			<-p.Done()
			done <- struct{}{}
		}(p)
	}
	<-done
	return nil
}

package game

import (
	"fmt"
)

// LogKind classifies an activity log entry
type LogKind string

const (
	LogMamaPapa    LogKind = "mamaPapa"
	LogWakeUp      LogKind = "wakeUp"
	LogPlaceWorker LogKind = "placeWorker"
	LogPass        LogKind = "pass"
	LogVisitor     LogKind = "visitor"
	LogChoice      LogKind = "choice"
	LogDraw        LogKind = "draw"
	LogDiscard     LogKind = "discard"
	LogBuild       LogKind = "build"
	LogPlant       LogKind = "plant"
	LogUproot      LogKind = "uproot"
	LogHarvest     LogKind = "harvest"
	LogMakeWine    LogKind = "makeWine"
	LogFillOrder   LogKind = "fillOrder"
	LogSell        LogKind = "sell"
	LogTrade       LogKind = "trade"
	LogInfluence   LogKind = "influence"
	LogTrainWorker LogKind = "trainWorker"
	LogGain        LogKind = "gain"
	LogSeason      LogKind = "season"
	LogEndOfYear   LogKind = "endOfYear"
	LogGameOver    LogKind = "gameOver"
)

// LogEvent is a line of game narration. It is never read back by the rules.
type LogEvent struct {
	Kind     LogKind `json:"kind"`
	PlayerID string  `json:"playerId,omitempty"`
	Year     int     `json:"year"`
	Text     string  `json:"text"`
}

func (s *GameState) log(kind LogKind, playerID, format string, args ...interface{}) {
	s.ActivityLog = append(s.ActivityLog, LogEvent{
		Kind:     kind,
		PlayerID: playerID,
		Year:     s.Year,
		Text:     fmt.Sprintf(format, args...),
	})
}

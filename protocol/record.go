package protocol

import (
	"time"

	"github.com/vsiao/oenology-sub000/board"
)

// GameRecord is everything needed, besides the action log, to rebuild a
// game: the seats in table order, the board and the seed of the draw piles
type GameRecord struct {
	GameID    string        `json:"gameId"`
	CreatorID string        `json:"creatorId"`
	Players   []Player      `json:"players"`
	Variant   board.Variant `json:"variant"`
	Seed      int64         `json:"seed"`
	CreatedAt time.Time     `json:"createdAt"`
}

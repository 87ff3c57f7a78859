package protocol

import (
	"encoding/json"
)

// Cmd identifies a transport message
type Cmd int

const (
	Null Cmd = iota
	NewJoiner
	Start
	HasStarted
	Act
	StateUpdate
	Error
	GameOver
)

var CmdNames = map[Cmd]string{
	Null:        "Null",
	NewJoiner:   "NewJoiner",
	Start:       "Start",
	HasStarted:  "HasStarted",
	Act:         "Act",
	StateUpdate: "StateUpdate",
	Error:       "Error",
	GameOver:    "GameOver",
}

var NameToCmd = map[string]Cmd{
	"Null":        Null,
	"NewJoiner":   NewJoiner,
	"Start":       Start,
	"HasStarted":  HasStarted,
	"Act":         Act,
	"StateUpdate": StateUpdate,
	"Error":       Error,
	"GameOver":    GameOver,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// InboundMessage is a message from Player to GameEngine
type InboundMessage struct {
	PlayerID string  `json:"playerId"`
	Command  Cmd     `json:"command"`
	Action   *Action `json:"action,omitempty"`
}

// OutboundMessage is a message from GameEngine to Player
type OutboundMessage struct {
	PlayerID string          `json:"playerId"`
	Command  Cmd             `json:"command"`
	Joiner   Player          `json:"joiner,omitempty"`
	State    json.RawMessage `json:"state,omitempty"`
	Prompts  []Prompt        `json:"prompts,omitempty"`
	Seq      uint64          `json:"seq,omitempty"`
	Error    string          `json:"error,omitempty"`
}

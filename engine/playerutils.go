package engine

import (
	"bytes"
	"sync"

	"github.com/vsiao/oenology-sub000/protocol"
)

// TestPlayer is a Player that keeps what it is sent. Messages are also put
// on Outbox, when it is not full, so tests can wait for them.
type TestPlayer struct {
	id     string
	name   string
	Outbox chan protocol.OutboundMessage

	mu       sync.Mutex
	sent     []protocol.OutboundMessage
	received [][]byte
}

func NewTestPlayer(id, name string) *TestPlayer {
	return &TestPlayer{
		id:     id,
		name:   name,
		Outbox: make(chan protocol.OutboundMessage, 64),
	}
}

func (tp *TestPlayer) Info() protocol.Player {
	return protocol.Player{
		PlayerID: tp.id,
		Name:     tp.name,
	}
}

func (tp *TestPlayer) ID() string {
	return tp.id
}

func (tp *TestPlayer) Name() string {
	return tp.name
}

func (tp *TestPlayer) Send(msg protocol.OutboundMessage) error {
	tp.mu.Lock()
	tp.sent = append(tp.sent, msg)
	tp.mu.Unlock()

	select {
	case tp.Outbox <- msg:
	default:
	}
	return nil
}

func (tp *TestPlayer) Receive(data []byte) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.received = append(tp.received, data)
}

// Sent returns everything the player has been sent so far
func (tp *TestPlayer) Sent() []protocol.OutboundMessage {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return append([]protocol.OutboundMessage{}, tp.sent...)
}

// Next waits for the next message with one of the given commands, skipping
// any others
func (tp *TestPlayer) Next(cmds ...protocol.Cmd) protocol.OutboundMessage {
	for msg := range tp.Outbox {
		if len(cmds) == 0 {
			return msg
		}
		for _, cmd := range cmds {
			if msg.Command == cmd {
				return msg
			}
		}
	}
	return protocol.OutboundMessage{}
}

func APlayer(id, name string) *TestPlayer {
	return NewTestPlayer(id, name)
}

func SomePlayers() Players {
	player1 := NewTestPlayer(NewID(), "Harry")
	player2 := NewTestPlayer(NewID(), "Sally")
	return NewPlayers(player1, player2)
}

// TestBuffer is used in tests for io
type TestBuffer struct {
	buf bytes.Buffer
	m   sync.Mutex
}

func NewTestBuffer() *TestBuffer {
	return &TestBuffer{}
}

func (tb *TestBuffer) Read(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Read(p)
}

func (tb *TestBuffer) Write(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Write(p)
}

func (tb *TestBuffer) String() string {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.String()
}

package engine

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"

	"github.com/vsiao/oenology-sub000/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var ErrDisconnected = errors.New("player is disconnected")

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// Player represents a player in the game
type Player interface {
	ID() string
	Name() string
	Info() protocol.Player
	Send(msg protocol.OutboundMessage) error
	Receive(data []byte)
}

type WSPlayer struct {
	id     string
	name   string
	conn   *websocket.Conn
	sendCh chan []byte
	ge     GameEngine

	done     chan struct{}
	doneOnce sync.Once
}

// NewWSPlayer constructs a new player connected over a websocket and starts
// its pumps
func NewWSPlayer(id, name string, ws *websocket.Conn, sendCh chan []byte, ge GameEngine) *WSPlayer {
	if sendCh == nil {
		sendCh = make(chan []byte, 16)
	}
	player := &WSPlayer{
		id:     id,
		name:   name,
		conn:   ws,
		sendCh: sendCh,
		ge:     ge,
		done:   make(chan struct{}),
	}
	go player.writePump()
	go player.readPump()
	return player
}

func (p *WSPlayer) ID() string {
	return p.id
}

func (p *WSPlayer) Name() string {
	return p.name
}

func (p *WSPlayer) Info() protocol.Player {
	return protocol.Player{PlayerID: p.id, Name: p.name}
}

func (p *WSPlayer) Send(msg protocol.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case p.sendCh <- data:
		return nil
	case <-p.done:
		return ErrDisconnected
	}
}

// Receive decodes a message from the connection and forwards it to the game.
// The sender is always the connection's player.
func (p *WSPlayer) Receive(data []byte) {
	var msg protocol.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		_ = p.Send(protocol.OutboundMessage{
			PlayerID: p.id,
			Command:  protocol.Error,
			Error:    "could not read message: " + err.Error(),
		})
		return
	}
	msg.PlayerID = p.id
	p.ge.Receive(msg)
}

func (p *WSPlayer) disconnect() {
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *WSPlayer) readPump() {
	defer func() {
		p.disconnect()
		if p.ge != nil {
			p.ge.RemovePlayer(p)
		}
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		p.Receive(data)
	}
}

func (p *WSPlayer) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case <-p.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-p.sendCh:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := p.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Players represents all players in the game
type Players []Player

// NewPlayers returns a set of Players
func NewPlayers(p ...Player) Players {
	return Players(p)
}

// ReplacePlayer swaps in p for the player with the same id, keeping their
// position, or adds p at the end
func ReplacePlayer(ps Players, p Player) Players {
	for i, existing := range ps {
		if existing.ID() == p.ID() {
			replaced := append(Players{}, ps...)
			replaced[i] = p
			return replaced
		}
	}
	return append(ps, p)
}

// RemovePlayer removes the player with id
func RemovePlayer(ps Players, id string) Players {
	kept := Players{}
	for _, p := range ps {
		if p.ID() != id {
			kept = append(kept, p)
		}
	}
	return kept
}

// Find finds a player by id
func (ps Players) Find(id string) (Player, bool) {
	for _, p := range ps {
		if got := p.ID(); got == id {
			return p, true
		}
	}
	return nil, false
}

// Info lists the players' seat information in order
func (ps Players) Info() []protocol.Player {
	info := make([]protocol.Player, 0, len(ps))
	for _, p := range ps {
		info = append(info, p.Info())
	}
	return info
}

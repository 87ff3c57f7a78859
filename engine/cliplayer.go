package engine

import (
	"bufio"
	"io"
	"sync"

	"github.com/vsiao/oenology-sub000/protocol"
)

const retries = 3

// Terminal is a console shared by the players sitting at it. One player
// uses it at a time.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// CLIPlayer is a player answering prompts at a terminal
type CLIPlayer struct {
	id    string
	name  string
	term  *Terminal
	ge    GameEngine
	inbox chan protocol.OutboundMessage

	done     chan struct{}
	doneOnce sync.Once
}

// NewCLIPlayer constructs a terminal player for ge and starts answering
// the prompts it is sent
func NewCLIPlayer(id, name string, term *Terminal, ge GameEngine) *CLIPlayer {
	p := &CLIPlayer{
		id:    id,
		name:  name,
		term:  term,
		ge:    ge,
		inbox: make(chan protocol.OutboundMessage, 64),
		done:  make(chan struct{}),
	}
	go p.play()
	return p
}

func (p *CLIPlayer) ID() string {
	return p.id
}

func (p *CLIPlayer) Name() string {
	return p.name
}

func (p *CLIPlayer) Info() protocol.Player {
	return protocol.Player{PlayerID: p.id, Name: p.name}
}

// Done is closed once the game is over or the terminal has no more input
func (p *CLIPlayer) Done() <-chan struct{} {
	return p.done
}

func (p *CLIPlayer) Send(msg protocol.OutboundMessage) error {
	select {
	case p.inbox <- msg:
		return nil
	case <-p.done:
		return ErrDisconnected
	}
}

// Receive answers the player's current prompt with a typed line
func (p *CLIPlayer) Receive(data []byte) {
	view, _, err := p.ge.View(p.id)
	if err != nil || len(view.ActionPrompts) == 0 {
		return
	}
	if err := p.answer(view.ActionPrompts[0], string(data)); err != nil {
		p.term.mu.Lock()
		SendText(p.term.out, retryText, err.Error())
		p.term.mu.Unlock()
	}
}

func (p *CLIPlayer) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *CLIPlayer) play() {
	for {
		select {
		case <-p.done:
			return
		case msg := <-p.inbox:
			switch msg.Command {
			case protocol.StateUpdate:
				if !p.handleUpdate(msg) {
					p.finish()
					return
				}
			case protocol.Error:
				p.term.mu.Lock()
				SendText(p.term.out, "%s: %s\n", p.name, msg.Error)
				p.term.mu.Unlock()
				// the answer was refused, so ask again
				if view, seq, err := p.ge.View(p.id); err == nil {
					retry := protocol.OutboundMessage{Prompts: view.ActionPrompts, Seq: seq}
					if !p.handleUpdate(retry) {
						p.finish()
						return
					}
				}
			case protocol.GameOver:
				p.handleGameOver()
				p.finish()
				return
			}
		}
	}
}

// handleUpdate answers the head prompt of an update, if it is still
// current. It returns false when the terminal has run out of input.
func (p *CLIPlayer) handleUpdate(msg protocol.OutboundMessage) bool {
	if len(msg.Prompts) == 0 || msg.Prompts[0].Type == protocol.GameOverPrompt {
		return true
	}
	view, seq, err := p.ge.View(p.id)
	if err != nil || seq != msg.Seq {
		// a newer update is on its way
		return true
	}
	prompt := msg.Prompts[0]

	p.term.mu.Lock()
	defer p.term.mu.Unlock()

	SendText(p.term.out, "\n%s", buildPlayerText(view.Players[p.id]))
	SendText(p.term.out, buildPromptText(p.name, prompt))

	for attempt := 0; ; attempt++ {
		if prompt.Optional && attempt >= retries {
			SendText(p.term.out, tooManyTriesText)
			p.ge.Receive(protocol.InboundMessage{
				PlayerID: p.id,
				Command:  protocol.Act,
				Action:   &protocol.Action{Type: protocol.Pass},
			})
			return true
		}
		SendText(p.term.out, answerText)
		if !p.term.in.Scan() {
			return false
		}
		if err := p.answer(prompt, p.term.in.Text()); err != nil {
			SendText(p.term.out, retryText, err.Error())
			continue
		}
		return true
	}
}

func (p *CLIPlayer) answer(prompt protocol.Prompt, line string) error {
	action, err := ParseAnswer(prompt, line)
	if err != nil {
		return err
	}
	p.ge.Receive(protocol.InboundMessage{PlayerID: p.id, Command: protocol.Act, Action: &action})
	return nil
}

func (p *CLIPlayer) handleGameOver() {
	view, _, err := p.ge.View(p.id)
	if err != nil {
		return
	}
	p.term.mu.Lock()
	defer p.term.mu.Unlock()
	SendText(p.term.out, gameOverText)
	SendText(p.term.out, buildStandingsText(view))
}

package game

import (
	"fmt"

	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

// PlayVisitorPending plays up to Remaining visitors of one season from hand
type PlayVisitorPending struct {
	HasBonus  bool        `json:"hasBonus,omitempty"`
	Season    deck.Season `json:"season"`
	Remaining int         `json:"remaining"`
	Played    int         `json:"played,omitempty"`
}

func (PlayVisitorPending) Type() string { return "playVisitor" }

func (v PlayVisitorPending) responders(s *GameState) []string { return ownerOnly(s) }

func (v PlayVisitorPending) promptFor(p *PlayerState) protocol.Prompt {
	return chooseCards(p.ID, "Play a "+v.Season.String()+" visitor", 1, 1, v.Played > 0,
		cardChoices(p.cardsOfType(v.Season.VisitorType()), nil))
}

func (v PlayVisitorPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if v.Remaining <= 0 || len(p.cardsOfType(v.Season.VisitorType())) == 0 {
		return s.endPending()
	}
	s.enqueue(v.promptFor(p))
	return nil
}

func (v PlayVisitorPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	ids, err := checkCards(v.promptFor(p), a)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return s.endPending()
	}
	visitor, err := deck.LookupVisitor(ids[0])
	if err != nil {
		return err
	}
	if err := s.discardFromHand(p, ids); err != nil {
		return err
	}
	s.log(LogVisitor, p.ID, "%s plays %s", p.Name, visitor.ID)

	v.Played++
	v.Remaining--
	if err := s.replacePending(v); err != nil {
		return err
	}
	return s.pushPending(VisitorPending{VisitorID: visitor.ID})
}

type visitorStep int

const (
	visitorStart visitorStep = iota
	visitorChoose
	visitorReact
	visitorDone
)

// VisitorPending runs one visitor's procedure: an immediate effect, then
// choices among options, then reactions from other players, then a closing
// effect. Any phase may push sub-actions, which run before the next phase.
type VisitorPending struct {
	VisitorID   string      `json:"visitorId"`
	Step        visitorStep `json:"step"`
	UsedChoices []string    `json:"usedChoices,omitempty"`
	// MainActions are the players still owed a reaction
	MainActions []string `json:"mainActions,omitempty"`
	// Count tallies reactions for the closing effect
	Count int `json:"count,omitempty"`
}

func (VisitorPending) Type() string { return "visitor" }

// effect is a state change that may hand off to further actions
type effect func(s *GameState, p *PlayerState) ([]PendingAction, error)

type visitorOption struct {
	key      string
	label    string
	disabled func(s *GameState, p *PlayerState) string
	apply    effect
}

// reaction asks other players to respond to a visitor. Answers are resolved
// one at a time as they arrive, in any order.
type reaction struct {
	// responders defaults to every opponent in table order
	responders func(s *GameState, owner *PlayerState) []string
	prompt     func(s *GameState, owner, responder *PlayerState) (protocol.Prompt, bool)
	// resolve applies an answer and returns what it adds to Count
	resolve func(s *GameState, owner, responder *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error)
	finish  func(s *GameState, owner *PlayerState, count int) ([]PendingAction, error)
}

type visitorProc struct {
	effect  effect
	options []visitorOption
	// picks is how many distinct options are taken; zero means one
	picks int
	react *reaction
}

func (proc visitorProc) numPicks() int {
	if proc.picks == 0 {
		return 1
	}
	return proc.picks
}

func (proc visitorProc) option(key string) (visitorOption, bool) {
	for _, o := range proc.options {
		if o.key == key {
			return o, true
		}
	}
	return visitorOption{}, false
}

var visitorProcs = map[string]visitorProc{}

func registerVisitors(procs map[string]visitorProc) {
	for id, proc := range procs {
		if _, ok := visitorProcs[id]; ok {
			panic(fmt.Sprintf("visitor %q registered twice", id))
		}
		visitorProcs[id] = proc
	}
}

func init() {
	registerVisitors(summerVisitors())
	registerVisitors(winterVisitors())
	if missing := missingVisitors(); len(missing) > 0 {
		panic(fmt.Sprintf("visitors without a procedure: %v", missing))
	}
}

func missingVisitors() []string {
	missing := []string{}
	for _, v := range deck.Visitors() {
		if _, ok := visitorProcs[v.ID]; !ok {
			missing = append(missing, v.ID)
		}
	}
	return missing
}

func (v VisitorPending) responders(s *GameState) []string {
	if v.Step == visitorReact && len(v.MainActions) > 0 {
		return v.MainActions
	}
	return ownerOnly(s)
}

func (v VisitorPending) load(s *GameState) (visitorProc, *PlayerState, error) {
	proc, ok := visitorProcs[v.VisitorID]
	if !ok {
		return visitorProc{}, nil, fmt.Errorf("%w: visitor %q", deck.ErrUnknownCard, v.VisitorID)
	}
	p, err := s.turnPlayer()
	if err != nil {
		return visitorProc{}, nil, err
	}
	return proc, p, nil
}

func (v VisitorPending) optionsPrompt(s *GameState, p *PlayerState, proc visitorProc) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, o := range proc.options {
		reason := ""
		switch {
		case contains(v.UsedChoices, o.key):
			reason = "Already chosen"
		case o.disabled != nil:
			reason = o.disabled(s, p)
		}
		choices = append(choices, choice(o.key, o.label, reason))
	}
	return chooseAction(p.ID, v.VisitorID, false, choices...)
}

// continueWith stores v and runs actions before v resumes. With no actions v
// resumes at once.
func (v VisitorPending) continueWith(s *GameState, actions []PendingAction) error {
	if err := s.replacePending(v); err != nil {
		return err
	}
	if len(actions) > 0 {
		return s.pushPending(actions...)
	}
	return v.prompt(s)
}

func (v VisitorPending) prompt(s *GameState) error {
	proc, p, err := v.load(s)
	if err != nil {
		return err
	}
	for {
		switch v.Step {
		case visitorStart:
			v.Step = visitorChoose
			if proc.effect == nil {
				continue
			}
			actions, err := proc.effect(s, p)
			if err != nil {
				return err
			}
			if len(actions) > 0 {
				return v.continueWith(s, actions)
			}

		case visitorChoose:
			if len(proc.options) > 0 && len(v.UsedChoices) < proc.numPicks() {
				pr := v.optionsPrompt(s, p, proc)
				if anyEnabled(pr.Choices) {
					if err := s.replacePending(v); err != nil {
						return err
					}
					s.enqueue(pr)
					return nil
				}
			}
			v.Step = visitorReact
			if proc.react != nil {
				v.MainActions = v.eligibleResponders(s, p, proc.react)
			}

		case visitorReact:
			if len(v.MainActions) > 0 {
				if err := s.replacePending(v); err != nil {
					return err
				}
				for _, id := range v.MainActions {
					pr, _ := proc.react.prompt(s, p, s.Players[id])
					s.enqueue(pr)
				}
				return nil
			}
			v.Step = visitorDone
			if proc.react == nil || proc.react.finish == nil {
				continue
			}
			actions, err := proc.react.finish(s, p, v.Count)
			if err != nil {
				return err
			}
			if len(actions) > 0 {
				return v.continueWith(s, actions)
			}

		default:
			return s.endPending()
		}
	}
}

func (v VisitorPending) eligibleResponders(s *GameState, owner *PlayerState, r *reaction) []string {
	ids := opponents(s, owner.ID)
	if r.responders != nil {
		ids = r.responders(s, owner)
	}
	eligible := []string{}
	for _, id := range ids {
		if _, ok := r.prompt(s, owner, s.Players[id]); ok {
			eligible = append(eligible, id)
		}
	}
	return eligible
}

func (v VisitorPending) resolve(s *GameState, a protocol.Action) error {
	proc, p, err := v.load(s)
	if err != nil {
		return err
	}

	switch v.Step {
	case visitorChoose:
		key, err := checkChoice(v.optionsPrompt(s, p, proc), a)
		if err != nil {
			return err
		}
		o, ok := proc.option(key)
		if !ok {
			return illegal("unknown choice %q", key)
		}
		v.UsedChoices = with(v.UsedChoices, key)
		s.log(LogChoice, p.ID, "%s chooses %q for %s", p.Name, o.label, v.VisitorID)
		actions, err := o.apply(s, p)
		if err != nil {
			return err
		}
		return v.continueWith(s, actions)

	case visitorReact:
		if !contains(v.MainActions, a.PlayerID) {
			return illegal("%s owes no reaction to %s", a.PlayerID, v.VisitorID)
		}
		responder, err := s.player(a.PlayerID)
		if err != nil {
			return err
		}
		pr, _ := proc.react.prompt(s, p, responder)
		n, err := proc.react.resolve(s, p, responder, pr, a)
		if err != nil {
			return err
		}
		v.Count += n
		v.MainActions = without(v.MainActions, a.PlayerID)
		if len(v.MainActions) > 0 {
			return s.replacePending(v)
		}
		return v.continueWith(s, nil)
	}
	return invariant("%s is not waiting on an answer", v.VisitorID)
}

// opponents lists everyone but playerID, in table order starting after them
func opponents(s *GameState, playerID string) []string {
	ids := []string{}
	seat := s.seat(playerID)
	for i := 1; i < s.numPlayers(); i++ {
		ids = append(ids, s.TableOrder[(seat+i)%s.numPlayers()])
	}
	return ids
}

// option helpers

func opt(key, label string, disabled func(*GameState, *PlayerState) string, apply effect) visitorOption {
	return visitorOption{key: key, label: label, disabled: disabled, apply: apply}
}

func then(actions ...PendingAction) effect {
	return func(*GameState, *PlayerState) ([]PendingAction, error) {
		return actions, nil
	}
}

func gainEffect(coins, vp int) effect {
	return func(s *GameState, p *PlayerState) ([]PendingAction, error) {
		p.gain(coins, vp)
		return nil, nil
	}
}

func drawEffect(types ...deck.CardType) effect {
	return func(s *GameState, p *PlayerState) ([]PendingAction, error) {
		for _, t := range types {
			s.draw(p, t, 1)
		}
		return nil, nil
	}
}

// seq runs effects in order, concatenating the actions they hand off
func seq(effects ...effect) effect {
	return func(s *GameState, p *PlayerState) ([]PendingAction, error) {
		all := []PendingAction{}
		for _, e := range effects {
			actions, err := e(s, p)
			if err != nil {
				return nil, err
			}
			all = append(all, actions...)
		}
		return all, nil
	}
}

func needsCoins(n int) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		if p.Coins < n {
			return "Needs " + plural(n, "coin")
		}
		return ""
	}
}

func needsBuildable(b BuildStructurePending) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		if !anyEnabled(b.promptFor(p).Choices) {
			return "Nothing to build"
		}
		return ""
	}
}

func needsPlantable(_ *GameState, p *PlayerState) string {
	if !anyEnabled(PlantVinePending{Remaining: 1}.promptFor(p).Choices) {
		return "No vine can be planted"
	}
	return ""
}

func needsHarvestable(_ *GameState, p *PlayerState) string {
	if !p.harvestableFields() {
		return "No field to harvest"
	}
	return ""
}

func needsWine(_ *GameState, p *PlayerState) string {
	if !canMakeWine(p) {
		return "No wine can be made"
	}
	return ""
}

func needsFillable(f FillOrderPending) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		if !anyEnabled(f.promptFor(p).Choices) {
			return "No order can be filled"
		}
		return ""
	}
}

func needsCards(n int, types ...deck.CardType) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		if len(cardsOfTypes(p, types)) < n {
			return "Needs " + plural(n, "card")
		}
		return ""
	}
}

func cardsOfTypes(p *PlayerState, types []deck.CardType) []deck.Card {
	if len(types) == 0 {
		return p.CardsInHand
	}
	cards := []deck.Card{}
	for _, t := range types {
		cards = append(cards, p.cardsOfType(t)...)
	}
	return cards
}

// yesNo is a single optional reaction
func yesNo(playerID, title, key, label, disabledReason string) protocol.Prompt {
	return chooseAction(playerID, title, true, choice(key, label, disabledReason))
}

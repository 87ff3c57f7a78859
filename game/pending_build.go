package game

import (
	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

// BuildStructurePending builds one structure
type BuildStructurePending struct {
	HasBonus bool     `json:"hasBonus,omitempty"`
	Discount int      `json:"discount,omitempty"`
	Free     bool     `json:"free,omitempty"`
	MaxCost  int      `json:"maxCost,omitempty"`
	Only     []string `json:"only,omitempty"`
	Optional bool     `json:"optional,omitempty"`
	// VPIfCostAtLeast awards 1 VP for a structure whose printed cost is at least this
	VPIfCostAtLeast int `json:"vpIfCostAtLeast,omitempty"`
}

func (BuildStructurePending) Type() string { return "buildStructure" }

func (b BuildStructurePending) responders(s *GameState) []string { return ownerOnly(s) }

func (b BuildStructurePending) cost(st deck.Structure) int {
	if b.Free {
		return 0
	}
	if c := st.Cost - b.Discount; c > 0 {
		return c
	}
	return 0
}

func (b BuildStructurePending) disabledReason(p *PlayerState, st deck.Structure) string {
	switch {
	case p.hasBuilt(st.ID):
		return "Already built"
	case st.Requires != "" && !p.hasBuilt(st.Requires):
		return "Requires " + st.Requires
	case len(b.Only) > 0 && !contains(b.Only, st.ID):
		return "Not allowed"
	case b.MaxCost > 0 && st.Cost > b.MaxCost:
		return "Costs more than " + itoa(b.MaxCost)
	case p.Coins < b.cost(st):
		return "Needs " + plural(b.cost(st), "coin")
	}
	return ""
}

func (b BuildStructurePending) promptFor(p *PlayerState) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, id := range deck.StructureIDs() {
		st, _ := deck.LookupStructure(id)
		choices = append(choices, choice(id, id+" ("+plural(b.cost(st), "coin")+")", b.disabledReason(p, st)))
	}
	return protocol.Prompt{
		Type:     protocol.BuildStructurePrompt,
		PlayerID: p.ID,
		Title:    "Build a structure",
		Choices:  choices,
		Optional: b.Optional,
	}
}

func (b BuildStructurePending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := b.promptFor(p)
	if !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (b BuildStructurePending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if _, err := s.buildFromAction(p, b, a); err != nil {
		return err
	}
	return s.endPending()
}

// buildFromAction validates a BuildStructure answer from p against b and
// builds. It reports false for an allowed pass.
func (s *GameState) buildFromAction(p *PlayerState, b BuildStructurePending, a protocol.Action) (bool, error) {
	if a.Type == protocol.Pass && b.Optional {
		return false, nil
	}
	if a.Type != protocol.BuildStructure {
		return false, illegal("expected %s, got %s", protocol.BuildStructure, a.Type)
	}
	c, ok := b.promptFor(p).Choice(a.StructureID)
	if !ok || !c.Enabled() {
		return false, illegal("cannot build %q", a.StructureID)
	}
	st, err := deck.LookupStructure(a.StructureID)
	if err != nil {
		return false, err
	}
	s.build(p, st, b.cost(st))
	if b.VPIfCostAtLeast > 0 && st.Cost >= b.VPIfCostAtLeast {
		p.gain(0, 1)
	}
	return true, nil
}

func (s *GameState) build(p *PlayerState, st deck.Structure, cost int) {
	p.Coins -= cost
	p.Structures[st.ID] = Built
	s.log(LogBuild, p.ID, "%s builds a %s for %s", p.Name, st.ID, plural(cost, "coin"))
}

// TrainWorkerPending trains a worker. A mandatory one resolves without asking.
type TrainWorkerPending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
	Cost     int  `json:"cost"`
	Optional bool `json:"optional,omitempty"`
}

func (TrainWorkerPending) Type() string { return "trainWorker" }

func (t TrainWorkerPending) responders(s *GameState) []string { return ownerOnly(s) }

func trainDisabledReason(p *PlayerState, cost int) string {
	if p.permanentWorkers() >= board.MaxWorkers {
		return "You have the most workers allowed"
	}
	if p.Coins < cost {
		return "Needs " + plural(cost, "coin")
	}
	return ""
}

func (t TrainWorkerPending) promptFor(p *PlayerState) protocol.Prompt {
	return chooseAction(p.ID, "Train a worker", true,
		choice("train", "Pay "+plural(t.Cost, "coin")+" to train a worker", trainDisabledReason(p, t.Cost)))
}

func (t TrainWorkerPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if trainDisabledReason(p, t.Cost) != "" {
		return s.endPending()
	}
	if !t.Optional {
		s.trainWorker(p, t.Cost)
		return s.endPending()
	}
	s.enqueue(t.promptFor(p))
	return nil
}

func (t TrainWorkerPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	key, err := checkChoice(t.promptFor(p), a)
	if err != nil {
		return err
	}
	if key == "train" {
		s.trainWorker(p, t.Cost)
	}
	return s.endPending()
}

// InfluencePending places a star on the influence map
type InfluencePending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
}

func (InfluencePending) Type() string { return "influence" }

func (i InfluencePending) responders(s *GameState) []string { return ownerOnly(s) }

func (i InfluencePending) promptFor(p *PlayerState) protocol.Prompt {
	reason := ""
	if p.starsInSupply() == 0 {
		reason = "No stars left"
	}
	choices := []protocol.Choice{}
	for _, r := range board.Regions() {
		choices = append(choices, choice(r.ID, r.ID, reason))
	}
	return chooseAction(p.ID, "Place a star", false, choices...)
}

func (i InfluencePending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if p.starsInSupply() == 0 {
		return s.endPending()
	}
	s.enqueue(i.promptFor(p))
	return nil
}

func (i InfluencePending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	key, err := checkChoice(i.promptFor(p), a)
	if err != nil {
		return err
	}
	region, ok := board.LookupRegion(key)
	if !ok {
		return illegal("unknown region %q", key)
	}
	for idx := range p.Influence {
		if p.Influence[idx].Region == "" {
			p.Influence[idx].Region = region.ID
			break
		}
	}
	p.gain(region.Coins, region.VictoryPoints)
	for _, t := range region.Draw {
		s.draw(p, t, 1)
	}
	s.log(LogInfluence, p.ID, "%s places a star in %s", p.Name, region.ID)
	return s.endPending()
}

const (
	tradeCoins   = "coins"
	tradeVP      = "victoryPoint"
	tradeGrape   = "grape"
	tradeRed     = "redGrape"
	tradeWhite   = "whiteGrape"
	tradeCoinAmt = 2
)

// TradePending trades 2 coins, 1 VP or a grape for one of the others
type TradePending struct {
	HasBonus bool   `json:"hasBonus,omitempty"`
	Give     string `json:"give,omitempty"`
	Gave     bool   `json:"gave,omitempty"`
}

func (TradePending) Type() string { return "trade" }

func (t TradePending) responders(s *GameState) []string { return ownerOnly(s) }

func (t TradePending) givePrompt(p *PlayerState) protocol.Prompt {
	coins, vp, grape := "", "", ""
	if p.Coins < tradeCoinAmt {
		coins = "Needs 2 coins"
	}
	if p.VictoryPoints < 1 {
		vp = "Needs 1 VP"
	}
	if p.CrushPad.Count() == 0 {
		grape = "No grapes"
	}
	return chooseAction(p.ID, "Choose what to give", false,
		choice(tradeCoins, "Give 2 coins", coins),
		choice(tradeVP, "Give 1 VP", vp),
		choice(tradeGrape, "Give 1 grape", grape),
	)
}

func (t TradePending) grapePrompt(p *PlayerState) protocol.Prompt {
	return protocol.Prompt{
		Type:     protocol.ChooseGrapePrompt,
		PlayerID: p.ID,
		Title:    "Choose a grape to give",
		Grapes:   p.CrushPad.Grapes(),
		Min:      1,
		Max:      1,
	}
}

func (t TradePending) receivePrompt(p *PlayerState) protocol.Prompt {
	reason := func(kinds ...string) string {
		if contains(kinds, t.Give) {
			return "Already given"
		}
		return ""
	}
	return chooseAction(p.ID, "Choose what to receive", false,
		choice(tradeCoins, "Gain 2 coins", reason(tradeCoins)),
		choice(tradeVP, "Gain 1 VP", reason(tradeVP)),
		choice(tradeRed, "Gain a red grape worth 1", reason(tradeGrape)),
		choice(tradeWhite, "Gain a white grape worth 1", reason(tradeGrape)),
	)
}

func (t TradePending) promptFor(p *PlayerState) protocol.Prompt {
	switch {
	case t.Give == "":
		return t.givePrompt(p)
	case !t.Gave:
		return t.grapePrompt(p)
	default:
		return t.receivePrompt(p)
	}
}

func (t TradePending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := t.promptFor(p)
	if t.Give == "" && !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (t TradePending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}

	if t.Give == "" {
		key, err := checkChoice(t.givePrompt(p), a)
		if err != nil {
			return err
		}
		t.Give = key
		switch key {
		case tradeCoins:
			p.Coins -= tradeCoinAmt
			t.Gave = true
		case tradeVP:
			p.VictoryPoints--
			t.Gave = true
		}
		if err := s.replacePending(t); err != nil {
			return err
		}
		return t.prompt(s)
	}

	if !t.Gave {
		grapes, err := checkGrapes(t.grapePrompt(p), p, a)
		if err != nil {
			return err
		}
		p.CrushPad, _ = p.CrushPad.Remove(grapes[0])
		t.Gave = true
		if err := s.replacePending(t); err != nil {
			return err
		}
		return t.prompt(s)
	}

	key, err := checkChoice(t.receivePrompt(p), a)
	if err != nil {
		return err
	}
	switch key {
	case tradeCoins:
		p.gain(tradeCoinAmt, 0)
	case tradeVP:
		p.gain(0, 1)
	case tradeRed:
		p.CrushPad = p.CrushPad.Place(tokens.Grape{Color: tokens.Red, Value: 1})
	case tradeWhite:
		p.CrushPad = p.CrushPad.Place(tokens.Grape{Color: tokens.White, Value: 1})
	}
	s.log(LogTrade, p.ID, "%s trades %s for %s", p.Name, t.Give, key)
	return s.endPending()
}

// checkGrapes validates a ChooseGrape answer: distinct grapes p holds, within
// the prompt's bounds
func checkGrapes(pr protocol.Prompt, p *PlayerState, a protocol.Action) ([]tokens.Grape, error) {
	if a.Type != protocol.ChooseGrape {
		return nil, illegal("expected %s, got %s", protocol.ChooseGrape, a.Type)
	}
	if len(a.Grapes) < pr.Min || len(a.Grapes) > pr.Max {
		return nil, illegal("choose between %d and %d grapes", pr.Min, pr.Max)
	}
	pad := p.CrushPad
	for _, g := range a.Grapes {
		var ok bool
		pad, ok = pad.Remove(g)
		if !ok {
			return nil, illegal("%s has no %s grape worth %d", p.ID, g.Color, g.Value)
		}
	}
	return a.Grapes, nil
}

package game

import (
	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

// enqueue queues a prompt for the local viewer. Prompts for anyone else are
// dropped: every view derives its own queue from the same log.
func (s *GameState) enqueue(p protocol.Prompt) {
	if p.PlayerID != s.PlayerID {
		return
	}
	s.ActionPrompts = append(s.ActionPrompts, p)
}

// dequeue pops the head prompt when the viewer answers it
func (s *GameState) dequeue(a protocol.Action) {
	if !a.Type.AnswersPrompt() || a.PlayerID != s.PlayerID || len(s.ActionPrompts) == 0 {
		return
	}
	s.ActionPrompts = append([]protocol.Prompt{}, s.ActionPrompts[1:]...)
}

// chooseAction builds a ChooseAction prompt
func chooseAction(playerID, title string, optional bool, choices ...protocol.Choice) protocol.Prompt {
	return protocol.Prompt{
		Type:     protocol.ChooseActionPrompt,
		PlayerID: playerID,
		Title:    title,
		Choices:  choices,
		Optional: optional,
	}
}

func choice(key, label, disabledReason string) protocol.Choice {
	return protocol.Choice{Key: key, Label: label, DisabledReason: disabledReason}
}

func anyEnabled(choices []protocol.Choice) bool {
	for _, c := range choices {
		if c.Enabled() {
			return true
		}
	}
	return false
}

// checkAnswer reports whether a passes on p, and refuses answers of the
// wrong kind or passes on a prompt that must be answered
func checkAnswer(p protocol.Prompt, a protocol.Action) (bool, error) {
	if !a.Type.Answers(p.Type) {
		return false, illegal("%s does not answer %s", a.Type, p.Type)
	}
	if a.Type == protocol.Pass {
		if !p.Optional {
			return false, illegal("%s may not pass", a.PlayerID)
		}
		return true, nil
	}
	return false, nil
}

// checkChoice validates a ChooseAction answer against the prompt that asked it
func checkChoice(p protocol.Prompt, a protocol.Action) (string, error) {
	if passed, err := checkAnswer(p, a); passed || err != nil {
		return "", err
	}
	c, ok := p.Choice(a.Choice)
	if !ok {
		return "", illegal("unknown choice %q", a.Choice)
	}
	if !c.Enabled() {
		return "", illegal("choice %q is disabled: %s", a.Choice, c.DisabledReason)
	}
	return c.Key, nil
}

// checkCards validates a ChooseCard answer against the prompt that asked it
func checkCards(p protocol.Prompt, a protocol.Action) ([]string, error) {
	if passed, err := checkAnswer(p, a); passed || err != nil {
		return nil, err
	}
	if len(a.Cards) < p.Min || len(a.Cards) > p.Max {
		return nil, illegal("choose between %d and %d cards", p.Min, p.Max)
	}
	seen := map[string]bool{}
	for _, id := range a.Cards {
		c, ok := p.Choice(id)
		if !ok || !c.Enabled() || seen[id] {
			return nil, illegal("card %q cannot be chosen", id)
		}
		seen[id] = true
	}
	return a.Cards, nil
}

// checkField validates a ChooseField answer against the prompt that asked it
func checkField(p protocol.Prompt, a protocol.Action) (string, error) {
	if passed, err := checkAnswer(p, a); passed || err != nil {
		return "", err
	}
	c, ok := p.Choice(a.FieldID)
	if !ok || !c.Enabled() {
		return "", illegal("field %q cannot be chosen", a.FieldID)
	}
	return a.FieldID, nil
}

func cardChoices(cards []deck.Card, disabled func(deck.Card) string) []protocol.Choice {
	choices := []protocol.Choice{}
	for _, c := range cards {
		reason := ""
		if disabled != nil {
			reason = disabled(c)
		}
		choices = append(choices, choice(c.ID, c.ID, reason))
	}
	return choices
}

func chooseCards(playerID, title string, min, max int, optional bool, choices []protocol.Choice) protocol.Prompt {
	return protocol.Prompt{
		Type:     protocol.ChooseCardPrompt,
		PlayerID: playerID,
		Title:    title,
		Choices:  choices,
		Min:      min,
		Max:      max,
		Optional: optional,
	}
}

func chooseField(playerID, title string, optional bool, choices []protocol.Choice) protocol.Prompt {
	return protocol.Prompt{
		Type:     protocol.ChooseFieldPrompt,
		PlayerID: playerID,
		Title:    title,
		Choices:  choices,
		Optional: optional,
	}
}

var mamaPapaChoices = []protocol.Choice{
	choice("coins", "Gain 4 coins", ""),
	choice("vines", "Draw 2 vines", ""),
	choice("visitors", "Draw a summer and a winter visitor", ""),
	choice("trellis", "Start with a trellis", ""),
	choice("worker", "Start with an extra worker", ""),
}

func mamaPapaPrompt(playerID string) protocol.Prompt {
	return chooseAction(playerID, "Choose your inheritance", false, mamaPapaChoices...)
}

func (s *GameState) promptMamaPapa(playerID string) {
	s.enqueue(mamaPapaPrompt(playerID))
}

func (s *GameState) wakeUpPrompt(playerID string) protocol.Prompt {
	choices := []protocol.Choice{}
	for i, pos := range s.WakeUpOrder {
		reason := ""
		if pos.PlayerID != "" {
			reason = "Taken by " + s.Players[pos.PlayerID].Name
		}
		choices = append(choices, choice(itoa(i), board.WakeUpBonusAt(i).String(), reason))
	}
	return chooseAction(playerID, "Choose a wake-up position", false, choices...)
}

func (s *GameState) placeWorkerPrompt(playerID string, season deck.Season) protocol.Prompt {
	choices := []protocol.Choice{}
	spots := board.Spots(s.Variant, season)
	if yoke, ok := board.LookupSpot(board.Yoke); ok && s.Players[playerID].hasBuilt(deck.Yoke) {
		spots = append(spots, yoke)
	}
	for _, spot := range spots {
		choices = append(choices, choice(string(spot.ID), string(spot.ID), SpotDisabledReason(s, playerID, spot.ID)))
	}
	return protocol.Prompt{
		Type:     protocol.PlaceWorkerPrompt,
		PlayerID: playerID,
		Title:    "Place a worker",
		Choices:  choices,
		Optional: true,
	}
}

func (s *GameState) fallVisitorPrompt(playerID string, remaining int) protocol.Prompt {
	reason := func(t deck.CardType) string {
		if !s.canDraw(t) {
			return "No cards left"
		}
		return ""
	}
	return chooseAction(playerID, "Draw "+plural(remaining, "visitor"), false,
		choice(deck.SummerVisitor.String(), "Draw a summer visitor", reason(deck.SummerVisitor)),
		choice(deck.WinterVisitor.String(), "Draw a winter visitor", reason(deck.WinterVisitor)),
	)
}

func (s *GameState) discardPrompt(playerID string) protocol.Prompt {
	p := s.Players[playerID]
	excess := len(p.CardsInHand) - board.HandLimit
	return chooseCards(playerID, "Discard down to "+itoa(board.HandLimit)+" cards", excess, excess, false,
		cardChoices(p.CardsInHand, nil))
}

func gameOverPrompt(playerID string) protocol.Prompt {
	return protocol.Prompt{Type: protocol.GameOverPrompt, PlayerID: playerID, Title: "Game over"}
}

package board

// WakeUpBonus is the one-time bonus for claiming a wake-up slot
type WakeUpBonus int

const (
	NoBonus WakeUpBonus = iota
	DrawVineBonus
	DrawOrderBonus
	CoinBonus
	DrawSummerVisitorBonus
	VictoryPointBonus
	TempWorkerBonus
)

// NumWakeUpSlots is the length of the wake-up chart
const NumWakeUpSlots = 7

var wakeUpBonuses = [NumWakeUpSlots]WakeUpBonus{
	NoBonus,
	DrawVineBonus,
	DrawOrderBonus,
	CoinBonus,
	DrawSummerVisitorBonus,
	VictoryPointBonus,
	TempWorkerBonus,
}

var wakeUpLabels = []string{
	"No bonus",
	"Draw a vine",
	"Draw an order",
	"Gain 1 coin",
	"Draw a summer visitor",
	"Gain 1 VP",
	"Gain a temporary worker",
}

// WakeUpBonusAt returns the bonus for a wake-up slot
func WakeUpBonusAt(slot int) WakeUpBonus {
	if slot < 0 || slot >= NumWakeUpSlots {
		return NoBonus
	}
	return wakeUpBonuses[slot]
}

func (b WakeUpBonus) String() string {
	if b < 0 || int(b) >= len(wakeUpLabels) {
		return ""
	}
	return wakeUpLabels[b]
}

package game

// Action represents a player input action.
type Action int

const (
	ActionNone Action = iota
	ActionBattle
	ActionAttack
	ActionCapture
	ActionHeal
	ActionSleep
	ActionFlee
	ActionDismiss
	ActionChooseStarter
	ActionSetActive
	ActionBuy
	ActionSell
	ActionVisitStop
	ActionSetSound
	ActionSetVolume
	ActionSetRandomBattles
	ActionReset
	ActionRefresh
)

var actionNames = map[string]Action{
	"battle":         ActionBattle,
	"attack":         ActionAttack,
	"capture":        ActionCapture,
	"heal":           ActionHeal,
	"sleep":          ActionSleep,
	"flee":           ActionFlee,
	"dismiss":        ActionDismiss,
	"starter":        ActionChooseStarter,
	"set_active":     ActionSetActive,
	"buy":            ActionBuy,
	"sell":           ActionSell,
	"stop":           ActionVisitStop,
	"sound":          ActionSetSound,
	"volume":         ActionSetVolume,
	"random_battles": ActionSetRandomBattles,
	"reset":          ActionReset,
	"refresh":        ActionRefresh,
}

// ParseAction maps a wire action name onto an Action.
func ParseAction(s string) (Action, bool) {
	a, ok := actionNames[s]
	return a, ok
}

// Intent returns the battle intent an action stands for.
func (a Action) Intent(device Device) (Intent, bool) {
	switch a {
	case ActionAttack:
		return Intent{Kind: IntentAttack}, true
	case ActionCapture:
		return Intent{Kind: IntentCapture, Device: device}, true
	case ActionHeal:
		return Intent{Kind: IntentHeal}, true
	case ActionSleep:
		return Intent{Kind: IntentSleep}, true
	case ActionFlee:
		return Intent{Kind: IntentFlee}, true
	default:
		return Intent{}, false
	}
}

// InputEvent carries a player action into the game loop. The argument
// fields are read according to Action.
type InputEvent struct {
	SessionID string
	Action    Action
	Device    Device   // capture
	Resource  Resource // buy
	Identity  string   // starter, set_active, sell
	Flag      bool     // sound, random_battles
	Value     float64  // volume
}

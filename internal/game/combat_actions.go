package game

import (
	"fmt"
	"math"
	"strings"
)

// IntentKind is the action a player picks on their turn.
type IntentKind int

const (
	IntentAttack IntentKind = iota
	IntentCapture
	IntentHeal
	IntentSleep
	IntentFlee
)

func (k IntentKind) String() string {
	switch k {
	case IntentAttack:
		return "attack"
	case IntentCapture:
		return "capture"
	case IntentHeal:
		return "heal"
	case IntentSleep:
		return "sleep"
	case IntentFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Intent is one player action. Device only matters for captures.
type Intent struct {
	Kind   IntentKind
	Device Device
}

// ParseIntent maps surface action names onto an intent.
func ParseIntent(action, device string) (Intent, error) {
	var in Intent
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "attack":
		in.Kind = IntentAttack
	case "capture", "ball", "throw":
		in.Kind = IntentCapture
		d, ok := ParseDevice(device)
		if !ok {
			return Intent{}, fmt.Errorf("%w: device %q", ErrUnknownItem, device)
		}
		in.Device = d
	case "heal", "potion":
		in.Kind = IntentHeal
	case "sleep":
		in.Kind = IntentSleep
	case "flee", "run":
		in.Kind = IntentFlee
	default:
		return Intent{}, fmt.Errorf("unknown action %q", action)
	}
	return in, nil
}

// Inventory is the stock a turn may consume from.
type Inventory interface {
	Count(r Resource) int
	Adjust(r Resource, delta int) error
}

// TurnResult describes what one resolved intent did.
type TurnResult struct {
	Intent      Intent
	Damage      int     // dealt by the companion
	Healed      int     // HP restored to the companion
	CatchChance float64 // chance used for the capture roll
	Caught      bool
	WildActed   bool // the wild creature took its turn
	WildSlept   bool // the wild creature's turn was skipped
	WildDamage  int
	Phase       CombatPhase
}

// Catch chance bounds.
const (
	MinCatchChance = 0.10
	MaxCatchChance = 0.95
	asleepBonus    = 0.2
	levelBonus     = 0.01
)

// CatchChance is the clamped probability that a device catches the wild creature.
// Wild HP above its max yields a negative damaged fraction; only the final
// value is clamped.
func CatchChance(wildMax, wildHP int, tier Tier, companionLevel int, device Device, asleep bool) float64 {
	var damaged float64
	if wildMax > 0 {
		damaged = float64(wildMax-wildHP) / float64(wildMax)
	}
	c := damaged/tier.CatchPenalty() + float64(companionLevel)*levelBonus + device.Bonus()
	if asleep {
		c += asleepBonus
	}
	return math.Min(MaxCatchChance, math.Max(MinCatchChance, c))
}

// Resolve applies one intent to the battle. Captures and heals draw from inv;
// when the stock is empty the error is returned and nothing changes.
func (b *Battle) Resolve(in Intent, inv Inventory, rng Rand) (TurnResult, error) {
	if !b.Ongoing() {
		return TurnResult{}, ErrInvalidState
	}

	res := TurnResult{Intent: in}
	retaliate := false
	switch in.Kind {
	case IntentAttack:
		retaliate = b.resolveAttack(&res, rng)
	case IntentCapture:
		ok, err := b.resolveCapture(&res, inv, rng)
		if err != nil {
			return TurnResult{}, err
		}
		retaliate = ok
	case IntentHeal:
		if err := b.resolveHeal(&res, inv); err != nil {
			return TurnResult{}, err
		}
		retaliate = true
	case IntentSleep:
		b.resolveSleep()
	case IntentFlee:
		b.resolveFlee()
	default:
		return TurnResult{}, fmt.Errorf("unknown intent %d", in.Kind)
	}

	if retaliate && b.Ongoing() {
		b.wildTurn(&res, rng)
	}
	b.Turn++
	res.Phase = b.Phase
	return res, nil
}

// resolveAttack reports whether the wild creature gets to answer.
func (b *Battle) resolveAttack(res *TurnResult, rng Rand) bool {
	w := b.Wild
	dmg := int(math.Floor(float64(b.Stats.Attack) * uniform(rng, 0.8, 1.2)))
	w.HP = max(0, w.HP-dmg)
	res.Damage = dmg

	msg := fmt.Sprintf("%s hits %s for %d damage!", b.CompanionName(), w.DisplayName, dmg)
	if !w.Alive() {
		msg += fmt.Sprintf(" %s fainted!", w.DisplayName)
		b.Phase = PhaseVictory
	}
	b.AddLog(msg)
	return b.Ongoing()
}

func (b *Battle) resolveCapture(res *TurnResult, inv Inventory, rng Rand) (bool, error) {
	w := b.Wild
	device := res.Intent.Device
	if err := inv.Adjust(device.Resource(), -1); err != nil {
		return false, err
	}

	res.CatchChance = CatchChance(w.MaxHP, w.HP, w.Tier, b.Stats.Level, device, w.Asleep())
	if device.Guaranteed() {
		res.CatchChance = 1
		res.Caught = true
	} else {
		res.Caught = chance(rng, res.CatchChance)
	}

	if res.Caught {
		b.Phase = PhaseCaptured
		b.AddLog(fmt.Sprintf("Caught %s!", w.DisplayName))
		return false, nil
	}
	b.AddLog(fmt.Sprintf("%s broke free from the %s ball!", w.DisplayName, device))
	return true, nil
}

func (b *Battle) resolveHeal(res *TurnResult, inv Inventory) error {
	if err := inv.Adjust(Potions, -1); err != nil {
		return err
	}
	before := b.HP
	b.HP = min(b.Stats.HitPoints, b.HP+PotionHeal)
	res.Healed = b.HP - before
	b.AddLog(fmt.Sprintf("%s used a Potion and recovered %d HP.", b.CompanionName(), res.Healed))
	return nil
}

func (b *Battle) resolveSleep() {
	b.Wild.AsleepTurns = 1
	b.AddLog(fmt.Sprintf("%s fell asleep!", b.Wild.DisplayName))
}

func (b *Battle) resolveFlee() {
	b.Phase = PhaseFled
	b.AddLog("You ran away!")
}

// wildTurn lets the wild creature answer, unless it is asleep.
func (b *Battle) wildTurn(res *TurnResult, rng Rand) {
	w := b.Wild
	if w.AsleepTurns > 0 {
		w.AsleepTurns--
		res.WildSlept = true
		b.AddLog(fmt.Sprintf("%s is asleep and didn't attack!", w.DisplayName))
		return
	}

	dmg := int(math.Floor(float64(w.Attack) * uniform(rng, 0.8, 1.2)))
	b.HP = max(0, b.HP-dmg)
	res.WildActed = true
	res.WildDamage = dmg

	msg := fmt.Sprintf("%s hits %s for %d damage!", w.DisplayName, b.CompanionName(), dmg)
	if b.HP <= 0 {
		msg += fmt.Sprintf(" %s was knocked out...", b.CompanionName())
		b.Phase = PhaseDefeat
	}
	b.AddLog(msg)
}

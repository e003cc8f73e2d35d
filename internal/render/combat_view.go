package render

import (
	"fmt"

	"wild-companion/internal/game"
)

// Battle phase names as carried by game.BattleSnapshot.
const (
	phaseVictory  = "victory"
	phaseDefeat   = "defeat"
	phaseCaptured = "captured"
	phaseFled     = "fled"
)

// BattleHints lists the battle keys.
const BattleHints = "[a]ttack  [c]apture  [d]evice  [h]eal  [z] sleep  [f]lee"

// drawBattle renders the battle panel and returns the key hints.
func (e *Engine) drawBattle(v View, top, bottom int) string {
	b := v.Snapshot.Battle
	if b == nil {
		msg := "No battle. Press b to look for one."
		if v.Snapshot.Spawning {
			msg = "Something is rustling in the grass..."
		}
		e.drawCenteredText((top+bottom)/2, msg, ColorDim, ColorBackground, false)
		return "[b] battle  [esc] back"
	}

	row := top
	name := fmt.Sprintf("%s  [%s]", b.Wild, b.WildTier)
	col := e.writeText(row, 2, e.width-1, name, TierColor(b.WildTier), ColorBackground, true)
	if b.WildAsleep {
		e.writeText(row, col+1, e.width-1, "zZ", RGB{140, 160, 255}, ColorBackground, true)
	}
	row++
	e.drawHPBar(row, 2, 20, b.WildHP, b.WildMaxHP, RGB{200, 50, 50}, b.WildHP > 0)
	row += 2

	e.drawBoxDivider(row, fmt.Sprintf(" BATTLE  Turn %d ", b.Turn+1), ColorBorder, RGB{200, 180, 80}, ColorBackground)
	row++

	e.writeText(row, 2, e.width-1, fmt.Sprintf("%s  Lv %d", b.Companion, b.CompanionLvl), ColorText, ColorBackground, true)
	row++
	e.drawHPBar(row, 2, 20, b.CompanionHP, b.CompanionMax, RGB{50, 200, 50}, b.CompanionHP > 0)
	row++

	inv := v.Snapshot.Inventory
	catch := fmt.Sprintf("%s ball x%d  catch %d%%   potions x%d",
		v.Device, inv[v.Device.Resource()], int(b.CatchChances[v.Device.String()]*100), inv[game.Potions])
	e.writeText(row, 2, e.width-1, catch, ColorDim, ColorBackground, false)
	row++

	e.drawBoxDivider(row, "", ColorBorder, ColorAccent, ColorBackground)
	row++

	// Battle log, newest at the bottom
	logStart := max(bottom-len(b.Log), row)
	for i, msg := range b.Log {
		r := logStart + i
		if r >= bottom {
			break
		}
		fg := RGB{160, 160, 170}
		if i == len(b.Log)-1 {
			fg = RGB{220, 220, 230}
		}
		e.writeText(r, 2, e.width-1, msg, fg, ColorBackground, false)
	}

	if b.Ongoing {
		return BattleHints
	}
	cy := top + 2
	switch b.Phase {
	case phaseVictory:
		e.drawCenteredText(cy, "★ VICTORY ★", RGB{255, 220, 50}, ColorBackground, true)
	case phaseDefeat:
		e.drawCenteredText(cy, "✖ DEFEAT ✖", RGB{255, 50, 50}, ColorBackground, true)
	case phaseCaptured:
		e.drawCenteredText(cy, "● CAUGHT ●", RGB{120, 220, 255}, ColorBackground, true)
	case phaseFled:
		e.drawCenteredText(cy, "GOT AWAY SAFELY", ColorDim, ColorBackground, true)
	}
	return "[enter] continue"
}

// drawHPBar draws "HP cur/max" followed by a colored bar.
func (e *Engine) drawHPBar(row, col, width, hp, maxHP int, label RGB, alive bool) {
	if !alive {
		label = RGB{80, 80, 90}
	}
	fill := hpBarColor(hp, maxHP)
	e.drawStatBar(row, col, "HP", hp, maxHP, width, label, fill, ColorBackground)
}

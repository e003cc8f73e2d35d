package render

import (
	"fmt"
	"slices"
	"time"

	"wild-companion/internal/game"
)

// Settings rows in display order.
const (
	SettingSound = iota
	SettingVolume
	SettingRandomBattles
	SettingReset
	SettingsRows
)

// SortedParty returns the bag rows in the order the bag screen lists them.
func SortedParty(s *game.Snapshot, order game.PartyOrder) []game.PartyEntry {
	if s == nil {
		return nil
	}
	party := slices.Clone(s.Party)
	game.SortParty(party, order)
	return party
}

func (e *Engine) drawHome(v View, top, bottom int) string {
	s := v.Snapshot
	row := top
	if s.Companion == "" {
		e.drawCenteredText((top+bottom)/2-1, "Every trainer needs a partner.", ColorText, ColorBackground, true)
		e.drawCenteredText((top+bottom)/2, "Press n to choose your starter.", ColorDim, ColorBackground, false)
		return "[n] starter  [o] settings  [q] quit"
	}

	e.drawStatBar(row, 2, "HP ", s.Stats.HitPoints, s.Stats.HitPoints, 20, RGB{255, 80, 80}, hpBarColor(1, 1), ColorBackground)
	row++
	e.drawStatBar(row, 2, "XP ", s.Stats.Experience, s.NextLevelXP, 20, RGB{100, 140, 255}, RGB{90, 110, 240}, ColorBackground)
	row++
	e.writeText(row, 2, e.width-1, fmt.Sprintf("ATK %d", s.Stats.Attack), RGB{240, 190, 60}, ColorBackground, true)
	row += 2

	for _, r := range game.Resources {
		if r == game.Coins || row >= bottom {
			continue
		}
		e.writeText(row, 2, e.width-1, fmt.Sprintf("%-13s %d", r.Label(), s.Inventory[r]), ColorText, ColorBackground, false)
		row++
	}
	row++

	stop := "Supply stop: ready"
	if s.StopReadyIn > 0 {
		stop = "Supply stop: " + (time.Duration(s.StopReadyIn) * time.Second).String()
	}
	if row < bottom {
		e.writeText(row, 2, e.width-1, stop, ColorText, ColorBackground, false)
		row++
	}
	next := "Random battles: off"
	if s.NextBattleIn >= 0 {
		next = "Next battle in " + (time.Duration(s.NextBattleIn) * time.Second).String()
	} else if s.RandomBattles {
		next = "Random battles: on"
	}
	if row < bottom {
		e.writeText(row, 2, e.width-1, next, ColorDim, ColorBackground, false)
	}
	if s.Battle != nil || s.Spawning {
		e.drawCenteredText(bottom-1, "A battle is waiting! Press b.", ColorAccent, ColorBackground, true)
	}
	return "[b]attle  [i] bag  [s]hop  [p] stop  [n] starter  [o] settings  [q]uit"
}

func (e *Engine) drawBag(v View, top, bottom int) string {
	party := SortedParty(v.Snapshot, v.Order)
	if len(party) == 0 {
		e.drawCenteredText((top+bottom)/2, "Your bag is empty. Catch something!", ColorDim, ColorBackground, false)
		return "[esc] back"
	}
	rows := make([]string, len(party))
	colors := make([]RGB, len(party))
	for i, p := range party {
		rows[i] = fmt.Sprintf("%-24s x%-3d Lv %-3d %-9s %d coins", p.Name, p.Count, p.Level, p.Tier, p.SellValue)
		colors[i] = TierColor(p.Tier)
	}
	e.drawList(top, bottom, v.Cursor, rows, colors)
	return "[↑↓] move  [enter] set active  [x] sell  [r] sort  [esc] back"
}

func (e *Engine) drawShop(v View, top, bottom int) string {
	inv := v.Snapshot.Inventory
	rows := make([]string, len(game.ShopItems))
	for i, item := range game.ShopItems {
		rows[i] = fmt.Sprintf("%-12s %4d coins   owned %d", item.Name, item.Price, inv[item.Resource])
	}
	e.drawList(top, bottom, v.Cursor, rows, nil)
	return "[↑↓] move  [enter] buy  [esc] back"
}

func (e *Engine) drawStarter(v View, top, bottom int) string {
	e.writeText(top, 2, e.width-1, "Search: "+v.Query+"_", ColorAccent, ColorBackground, true)
	if len(v.Results) == 0 {
		e.writeText(top+2, 4, e.width-1, "No matches.", ColorDim, ColorBackground, false)
	} else {
		rows := make([]string, len(v.Results))
		for i, name := range v.Results {
			rows[i] = game.ParseIdentity(name).DisplayName()
		}
		e.drawList(top+2, bottom, v.Cursor, rows, nil)
	}
	return "type to search  [↑↓] move  [enter] choose  [esc] back"
}

func (e *Engine) drawSettings(v View, top, bottom int) string {
	s := v.Snapshot
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	rows := make([]string, SettingsRows)
	rows[SettingSound] = "Sound            " + onOff(s.SoundOn)
	rows[SettingVolume] = fmt.Sprintf("Volume           %d%%", int(s.Volume*100+0.5))
	rows[SettingRandomBattles] = "Random battles   " + onOff(s.RandomBattles)
	rows[SettingReset] = "Reset progress"
	colors := []RGB{ColorText, ColorText, ColorText, ColorError}
	e.drawList(top, bottom, v.Cursor, rows, colors)
	return "[↑↓] move  [enter] toggle  [←→] volume  [esc] back"
}

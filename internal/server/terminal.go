package server

import (
	"context"
	"unicode"

	"wild-companion/internal/game"
	"wild-companion/internal/render"
	"wild-companion/internal/species"
)

const volumeStep = 0.1

// terminal is the UI state of one SSH session: which panel is open and
// where its cursor sits. Game state itself only arrives through frames.
type terminal struct {
	player    string
	sessionID string
	provider  game.SpeciesProvider

	screen       render.Screen
	cursor       int
	query        string
	names        []string
	results      []string
	device       game.Device
	order        game.PartyOrder
	confirmReset bool

	snap   *game.Snapshot
	notice string
	errMsg string
}

func newTerminal(player, sessionID string, provider game.SpeciesProvider) *terminal {
	return &terminal{player: player, sessionID: sessionID, provider: provider}
}

// apply folds a frame into the session state.
func (t *terminal) apply(f game.Frame) {
	prev := t.snap
	t.snap = f.Snapshot
	if f.Notice != "" || f.Error != "" {
		t.notice, t.errMsg = f.Notice, f.Error
	}
	if t.snap == nil {
		return
	}
	// Pop the battle panel open when a battle appears, close it when it is dismissed.
	hadBattle := prev != nil && prev.Battle != nil
	switch {
	case t.snap.Battle != nil && !hadBattle && t.screen != render.ScreenStarter:
		t.open(render.ScreenBattle)
	case t.snap.Battle == nil && hadBattle && t.screen == render.ScreenBattle:
		t.open(render.ScreenHome)
	}
}

func (t *terminal) view() render.View {
	return render.View{
		Screen:   t.screen,
		Player:   t.player,
		Snapshot: t.snap,
		Notice:   t.notice,
		Error:    t.errMsg,
		Cursor:   t.cursor,
		Query:    t.query,
		Results:  t.results,
		Device:   t.device,
		Order:    t.order,
	}
}

func (t *terminal) open(s render.Screen) {
	t.screen = s
	t.cursor = 0
	t.confirmReset = false
}

func (t *terminal) event(a game.Action) game.InputEvent {
	return game.InputEvent{SessionID: t.sessionID, Action: a}
}

// handleKey applies one key press. It returns the event to send to the loop,
// if any, and whether the session should end.
func (t *terminal) handleKey(ctx context.Context, k Key) (ev game.InputEvent, send, quit bool) {
	if k.Code == KeyCtrlC {
		return ev, false, true
	}
	t.errMsg = ""
	switch t.screen {
	case render.ScreenBattle:
		ev, send = t.battleKey(k)
	case render.ScreenBag:
		ev, send = t.bagKey(k)
	case render.ScreenShop:
		ev, send = t.shopKey(k)
	case render.ScreenStarter:
		ev, send = t.starterKey(ctx, k)
	case render.ScreenSettings:
		ev, send = t.settingsKey(k)
	default:
		return t.homeKey(ctx, k)
	}
	return ev, send, false
}

func (t *terminal) homeKey(ctx context.Context, k Key) (game.InputEvent, bool, bool) {
	if k.Code != KeyRune {
		return game.InputEvent{}, false, false
	}
	switch unicode.ToLower(k.Rune) {
	case 'q':
		return game.InputEvent{}, false, true
	case 'b':
		t.open(render.ScreenBattle)
		if t.snap == nil || (t.snap.Battle == nil && !t.snap.Spawning) {
			return t.event(game.ActionBattle), true, false
		}
	case 'i':
		t.open(render.ScreenBag)
	case 's':
		t.open(render.ScreenShop)
	case 'p':
		return t.event(game.ActionVisitStop), true, false
	case 'n':
		t.open(render.ScreenStarter)
		t.query = ""
		t.loadNames(ctx)
		t.search()
	case 'o':
		t.open(render.ScreenSettings)
	}
	return game.InputEvent{}, false, false
}

func (t *terminal) battleKey(k Key) (game.InputEvent, bool) {
	switch k.Code {
	case KeyEsc:
		t.open(render.ScreenHome)
		return game.InputEvent{}, false
	case KeyEnter:
		if t.snap != nil && t.snap.Battle != nil && !t.snap.Battle.Ongoing {
			t.open(render.ScreenHome)
			return t.event(game.ActionDismiss), true
		}
		return game.InputEvent{}, false
	case KeyTab:
		t.cycleDevice()
		return game.InputEvent{}, false
	case KeyRune:
	default:
		return game.InputEvent{}, false
	}

	switch unicode.ToLower(k.Rune) {
	case 'a':
		return t.event(game.ActionAttack), true
	case 'c':
		ev := t.event(game.ActionCapture)
		ev.Device = t.device
		return ev, true
	case 'd':
		t.cycleDevice()
	case 'h':
		return t.event(game.ActionHeal), true
	case 'z':
		return t.event(game.ActionSleep), true
	case 'f':
		return t.event(game.ActionFlee), true
	case 'b':
		if t.snap == nil || (t.snap.Battle == nil && !t.snap.Spawning) {
			return t.event(game.ActionBattle), true
		}
	}
	return game.InputEvent{}, false
}

func (t *terminal) cycleDevice() {
	t.device = game.Devices[(int(t.device)+1)%len(game.Devices)]
}

func (t *terminal) moveCursor(k Key, n int) bool {
	switch k.Code {
	case KeyUp:
		if t.cursor > 0 {
			t.cursor--
		}
	case KeyDown:
		if t.cursor < n-1 {
			t.cursor++
		}
	default:
		return false
	}
	return true
}

func (t *terminal) bagKey(k Key) (game.InputEvent, bool) {
	party := render.SortedParty(t.snap, t.order)
	if t.moveCursor(k, len(party)) {
		return game.InputEvent{}, false
	}
	if k.Code == KeyEsc {
		t.open(render.ScreenHome)
		return game.InputEvent{}, false
	}
	if t.cursor >= len(party) {
		t.cursor = max(0, len(party)-1)
	}

	switch {
	case k.Code == KeyEnter && len(party) > 0:
		ev := t.event(game.ActionSetActive)
		ev.Identity = party[t.cursor].Identity
		return ev, true
	case k.Code == KeyRune && unicode.ToLower(k.Rune) == 'x' && len(party) > 0:
		ev := t.event(game.ActionSell)
		ev.Identity = party[t.cursor].Identity
		return ev, true
	case k.Code == KeyRune && unicode.ToLower(k.Rune) == 'r':
		t.order = (t.order + 1) % 3
		t.cursor = 0
	}
	return game.InputEvent{}, false
}

func (t *terminal) shopKey(k Key) (game.InputEvent, bool) {
	if t.moveCursor(k, len(game.ShopItems)) {
		return game.InputEvent{}, false
	}
	switch k.Code {
	case KeyEsc:
		t.open(render.ScreenHome)
	case KeyEnter:
		ev := t.event(game.ActionBuy)
		ev.Resource = game.ShopItems[t.cursor].Resource
		return ev, true
	}
	return game.InputEvent{}, false
}

func (t *terminal) starterKey(ctx context.Context, k Key) (game.InputEvent, bool) {
	if t.moveCursor(k, len(t.results)) {
		return game.InputEvent{}, false
	}
	switch k.Code {
	case KeyEsc:
		t.open(render.ScreenHome)
	case KeyBackspace:
		if r := []rune(t.query); len(r) > 0 {
			t.query = string(r[:len(r)-1])
			t.search()
		}
	case KeyRune:
		t.query += string(k.Rune)
		if t.names == nil {
			t.loadNames(ctx)
		}
		t.search()
	case KeyEnter:
		if len(t.results) == 0 {
			return game.InputEvent{}, false
		}
		ev := t.event(game.ActionChooseStarter)
		ev.Identity = t.results[t.cursor]
		t.open(render.ScreenHome)
		return ev, true
	}
	return game.InputEvent{}, false
}

func (t *terminal) loadNames(ctx context.Context) {
	if t.provider == nil {
		return
	}
	names, err := t.provider.SpeciesList(ctx)
	if err != nil {
		t.errMsg = game.Describe(err)
		return
	}
	t.names = names
}

func (t *terminal) search() {
	t.results = species.Search(t.names, t.query, species.DefaultSearchLimit)
	t.cursor = 0
}

func (t *terminal) settingsKey(k Key) (game.InputEvent, bool) {
	if t.moveCursor(k, render.SettingsRows) {
		t.confirmReset = false
		return game.InputEvent{}, false
	}
	if t.snap == nil {
		return game.InputEvent{}, false
	}
	switch k.Code {
	case KeyEsc:
		t.open(render.ScreenHome)
	case KeyLeft, KeyRight:
		if t.cursor != render.SettingVolume {
			break
		}
		step := volumeStep
		if k.Code == KeyLeft {
			step = -step
		}
		ev := t.event(game.ActionSetVolume)
		ev.Value = t.snap.Volume + step
		return ev, true
	case KeyEnter:
		switch t.cursor {
		case render.SettingSound:
			ev := t.event(game.ActionSetSound)
			ev.Flag = !t.snap.SoundOn
			return ev, true
		case render.SettingRandomBattles:
			ev := t.event(game.ActionSetRandomBattles)
			ev.Flag = !t.snap.RandomBattles
			return ev, true
		case render.SettingReset:
			if !t.confirmReset {
				t.confirmReset = true
				t.notice = "Press enter again to erase all progress."
				return game.InputEvent{}, false
			}
			t.confirmReset = false
			return t.event(game.ActionReset), true
		}
	}
	return game.InputEvent{}, false
}

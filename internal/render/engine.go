package render

import (
	"fmt"
	"strings"

	"wild-companion/internal/game"
)

// HeaderRows and FooterRows frame every screen.
const (
	HeaderRows = 3
	FooterRows = 3
)

// Cell is one terminal cell.
type Cell struct {
	Ch     rune
	Fg, Bg RGB
	Bold   bool
}

// sentinel never matches a drawn cell, forcing a full repaint.
var sentinel = Cell{Ch: '\x00', Fg: RGB{R: 255}, Bg: RGB{B: 255}, Bold: true}

func cell(ch rune, fg, bg RGB, bold bool) Cell {
	return Cell{Ch: ch, Fg: fg, Bg: bg, Bold: bold}
}

// Screen selects which panel is shown.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenBattle
	ScreenBag
	ScreenShop
	ScreenStarter
	ScreenSettings
)

// View is everything one session needs to draw a frame.
type View struct {
	Screen   Screen
	Player   string
	Snapshot *game.Snapshot
	Notice   string
	Error    string
	Cursor   int
	Query    string      // starter search input
	Results  []string    // starter search results
	Device   game.Device // capture device selected in battle
	Order    game.PartyOrder
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
	lastScreen    Screen
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		firstFrame: true,
	}
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI output that turns the previous frame into v.
func (e *Engine) Render(v View, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}
	if e.width < 20 || e.height < HeaderRows+FooterRows+2 {
		return ""
	}
	if v.Screen != e.lastScreen {
		e.firstFrame = true
		e.lastScreen = v.Screen
	}

	e.clear(ColorBackground)
	e.drawFrame()
	e.drawHeader(v)

	top, bottom := HeaderRows, e.height-FooterRows
	var hints string
	if v.Snapshot == nil {
		e.drawCenteredText((top+bottom)/2, "Loading...", ColorDim, ColorBackground, false)
	} else {
		switch v.Screen {
		case ScreenBattle:
			hints = e.drawBattle(v, top, bottom)
		case ScreenBag:
			hints = e.drawBag(v, top, bottom)
		case ScreenShop:
			hints = e.drawShop(v, top, bottom)
		case ScreenStarter:
			hints = e.drawStarter(v, top, bottom)
		case ScreenSettings:
			hints = e.drawSettings(v, top, bottom)
		default:
			hints = e.drawHome(v, top, bottom)
		}
	}
	e.drawFooter(v, hints)

	return e.emitDiff()
}

func (e *Engine) clear(bg RGB) {
	blank := cell(' ', ColorText, bg, false)
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = blank
		}
	}
}

// drawFrame draws the outer box with header and footer dividers.
func (e *Engine) drawFrame() {
	e.drawBoxRow(0, '┌', '─', '┐', ColorBorder, ColorBackground)
	for y := 1; y < e.height-1; y++ {
		e.next[y][0] = cell('│', ColorBorder, ColorBackground, false)
		e.next[y][e.width-1] = cell('│', ColorBorder, ColorBackground, false)
	}
	e.drawBoxRow(e.height-1, '└', '─', '┘', ColorBorder, ColorBackground)
	e.drawBoxDivider(HeaderRows-1, "", ColorBorder, ColorAccent, ColorBackground)
	e.drawBoxDivider(e.height-FooterRows, "", ColorBorder, ColorAccent, ColorBackground)
}

func (e *Engine) drawHeader(v View) {
	title := " Wild Companion "
	if v.Player != "" {
		title = fmt.Sprintf(" Wild Companion · %s ", v.Player)
	}
	e.drawCenteredText(0, title, ColorAccent, ColorBackground, true)

	s := v.Snapshot
	if s == nil {
		return
	}
	row := 1
	if s.Companion == "" {
		e.writeText(row, 2, e.width-1, "No companion yet", ColorDim, ColorBackground, false)
	} else {
		line := fmt.Sprintf("%s  Lv %d  XP %d/%d", s.CompanionName, s.Stats.Level, s.Stats.Experience, s.NextLevelXP)
		e.writeText(row, 2, e.width-1, line, ColorText, ColorBackground, true)
	}
	coins := fmt.Sprintf("%d coins", s.Inventory[game.Coins])
	e.writeText(row, e.width-2-len(coins), e.width-1, coins, ColorAccent, ColorBackground, true)
}

func (e *Engine) drawFooter(v View, hints string) {
	row := e.height - FooterRows + 1
	switch {
	case v.Error != "":
		e.writeText(row, 2, e.width-1, v.Error, ColorError, ColorBackground, true)
	case v.Notice != "":
		e.writeText(row, 2, e.width-1, v.Notice, ColorNotice, ColorBackground, false)
	}
	e.writeText(row+1, 2, e.width-1, hints, ColorDim, ColorBackground, false)
}

// hpBarColor returns the fill color for an HP bar based on current/max ratio.
func hpBarColor(current, maxHP int) RGB {
	if maxHP <= 0 {
		return RGB{80, 80, 90}
	}
	ratio := float64(current) / float64(maxHP)
	if ratio > 0.5 {
		return RGB{70, 210, 70}
	} else if ratio > 0.25 {
		return RGB{220, 200, 40}
	}
	return RGB{220, 60, 40}
}

// drawStatBar draws a labeled stat bar with fill. Returns columns consumed.
func (e *Engine) drawStatBar(row, col int, label string, current, maximum, barWidth int, labelFg, fill, bg RGB) int {
	startCol := col
	col = e.writeText(row, col, e.width-1, label, labelFg, bg, true)
	col++

	filled := 0
	if maximum > 0 {
		filled = barWidth * current / maximum
	}
	filled = min(max(filled, 0), barWidth)
	for i := 0; i < barWidth; i++ {
		x := col + i
		if x >= e.width-1 || row < 0 || row >= e.height {
			break
		}
		if i < filled {
			e.next[row][x] = cell('█', fill, bg, false)
		} else {
			e.next[row][x] = cell('░', RGB{45, 45, 55}, bg, false)
		}
	}
	col += barWidth + 1

	col = e.writeText(row, col, e.width-1, fmt.Sprintf("%d/%d", current, maximum), RGB{180, 180, 195}, bg, false)
	return col - startCol
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fg, bg RGB, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		if row >= 0 && row < e.height && col >= 0 {
			e.next[row][col] = cell(r, fg, bg, bold)
		}
		col++
	}
	return col
}

// drawBoxRow draws a full horizontal box line: left + fill + right.
func (e *Engine) drawBoxRow(row int, left, fill, right rune, fg, bg RGB) {
	if row < 0 || row >= e.height {
		return
	}
	e.next[row][0] = cell(left, fg, bg, false)
	for x := 1; x < e.width-1; x++ {
		e.next[row][x] = cell(fill, fg, bg, false)
	}
	if e.width > 1 {
		e.next[row][e.width-1] = cell(right, fg, bg, false)
	}
}

// drawBoxDivider draws ├─ text ─┤ with optional centered text.
func (e *Engine) drawBoxDivider(row int, text string, fg, textFg, bg RGB) {
	e.drawBoxRow(row, '├', '─', '┤', fg, bg)
	if text == "" {
		return
	}
	runes := []rune(text)
	cx := (e.width - len(runes)) / 2
	for i, r := range runes {
		x := cx + i
		if x > 0 && x < e.width-1 && row >= 0 && row < e.height {
			e.next[row][x] = cell(r, textFg, bg, true)
		}
	}
}

// drawCenteredText draws text centered on the given row.
func (e *Engine) drawCenteredText(row int, text string, fg, bg RGB, bold bool) {
	if row < 0 || row >= e.height {
		return
	}
	runes := []rune(text)
	cx := (e.width - len(runes)) / 2
	for i, r := range runes {
		x := cx + i
		if x >= 0 && x < e.width {
			e.next[row][x] = cell(r, fg, bg, bold)
		}
	}
}

// drawList draws rows with a cursor marker, scrolling to keep the cursor
// visible. Returns the first row below the list.
func (e *Engine) drawList(top, bottom, cursor int, rows []string, colors []RGB) int {
	height := bottom - top
	if height <= 0 {
		return top
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	row := top
	for i := start; i < len(rows) && row < bottom; i++ {
		fg := ColorText
		if i < len(colors) {
			fg = colors[i]
		}
		if i == cursor {
			e.writeText(row, 2, 4, "▶ ", ColorAccent, ColorBackground, true)
		}
		e.writeText(row, 4, e.width-1, rows[i], fg, ColorBackground, i == cursor)
		row++
	}
	return row
}

// emitDiff performs the buffer diff and produces ANSI output.
func (e *Engine) emitDiff() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Escape sequence prefixes.
const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// Terminal mode switches.
func ClearScreen() string { return CSI + "2J" }
func HideCursor() string { return CSI + "?25l" }
func ShowCursor() string { return CSI + "?25h" }
func EnableAltScreen() string { return CSI + "?1049h" }
func DisableAltScreen() string { return CSI + "?1049l" }

// RGB is a 24-bit terminal color.
type RGB struct{ R, G, B uint8 }

// Panel palette.
var (
	ColorBackground = RGB{12, 12, 18}
	ColorBorder     = RGB{100, 70, 55}
	ColorText       = RGB{200, 200, 210}
	ColorDim        = RGB{110, 110, 125}
	ColorAccent     = RGB{255, 220, 80}
	ColorError      = RGB{255, 90, 80}
	ColorNotice     = RGB{120, 220, 140}
)

// TierColors tint creature names by rarity tier, common first.
var TierColors = []RGB{
	{190, 190, 200}, // common
	{90, 200, 120},  // uncommon
	{90, 150, 255},  // rare
	{240, 180, 40},  // legendary
}

// TierColor returns the tint for a tier name.
func TierColor(tier string) RGB {
	switch tier {
	case "uncommon":
		return TierColors[1]
	case "rare":
		return TierColors[2]
	case "legendary":
		return TierColors[3]
	default:
		return TierColors[0]
	}
}

// WriteCellSGR writes a cell as one combined SGR sequence followed by its
// rune, resetting attributes first so nothing leaks between cells.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	sb.WriteString(CSI + "0")
	if c.Bold {
		sb.WriteString(";1")
	}
	writeColor(sb, ";38;2;", c.Fg)
	writeColor(sb, ";48;2;", c.Bg)
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}

func writeColor(sb *strings.Builder, prefix string, c RGB) {
	sb.WriteString(prefix)
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.B)))
}

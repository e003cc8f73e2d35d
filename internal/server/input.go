package server

import "unicode/utf8"

// KeyCode identifies a terminal key press.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
	KeyEsc
	KeyTab
	KeyCtrlC
)

// Key is one decoded key press. Rune is set for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// parseInput converts raw bytes into key presses.
// Handles arrow key escape sequences, Enter, Backspace, Tab, Esc and Ctrl-C.
func parseInput(data []byte) []Key {
	var keys []Key
	i := 0
	for i < len(data) {
		if data[i] == 0x1b {
			// Arrow keys arrive as ESC [ X; anything else is a bare Esc.
			if i+2 < len(data) && data[i+1] == '[' {
				switch data[i+2] {
				case 'A':
					keys = append(keys, Key{Code: KeyUp})
				case 'B':
					keys = append(keys, Key{Code: KeyDown})
				case 'C':
					keys = append(keys, Key{Code: KeyRight})
				case 'D':
					keys = append(keys, Key{Code: KeyLeft})
				}
				i += 3
				continue
			}
			keys = append(keys, Key{Code: KeyEsc})
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case '\r', '\n':
			keys = append(keys, Key{Code: KeyEnter})
		case 0x7f, 0x08:
			keys = append(keys, Key{Code: KeyBackspace})
		case '\t':
			keys = append(keys, Key{Code: KeyTab})
		case 3: // Ctrl-C
			keys = append(keys, Key{Code: KeyCtrlC})
		default:
			if r >= 0x20 && r != utf8.RuneError {
				keys = append(keys, Key{Code: KeyRune, Rune: r})
			}
		}
		i += size
	}
	return keys
}

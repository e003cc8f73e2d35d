package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wild-companion/internal/game"
)

// Storage keys. Resource counts are stored under their resource name.
const (
	keyParty         = "party"
	keyStats         = "stats"
	keyActive        = "starter"
	keySoundOn       = "sound_on"
	keyVolume        = "volume"
	keyRandomBattles = "random_battles"
	keyStopCooldown  = "stop_cooldown"
)

// field binds one storage key to its slot in the save. decode reports
// whether the stored shape was migrated and needs rewriting.
type field struct {
	key    string
	encode func(s *game.Save) any
	decode func(raw []byte, s *game.Save) (migrated bool, err error)
}

func fields() []field {
	fs := make([]field, 0, len(game.Resources)+7)
	for _, r := range game.Resources {
		fs = append(fs, field{
			key:    string(r),
			encode: func(s *game.Save) any { return s.Inventory[r] },
			decode: func(raw []byte, s *game.Save) (bool, error) {
				var n int
				if err := json.Unmarshal(raw, &n); err != nil {
					return false, err
				}
				if n < 0 {
					return false, fmt.Errorf("negative count %d", n)
				}
				s.Inventory[r] = n
				return false, nil
			},
		})
	}
	return append(fs,
		field{
			key:    keyParty,
			encode: func(s *game.Save) any { return s.Party },
			decode: decodeParty,
		},
		field{
			key:    keyStats,
			encode: func(s *game.Save) any { return s.Stats },
			decode: func(raw []byte, s *game.Save) (bool, error) {
				stats := map[string]game.CreatureStats{}
				if err := json.Unmarshal(raw, &stats); err != nil {
					return false, err
				}
				for k, v := range stats {
					s.SetStats(k, v)
				}
				return false, nil
			},
		},
		field{
			key:    keyActive,
			encode: func(s *game.Save) any { return s.Active },
			decode: func(raw []byte, s *game.Save) (bool, error) {
				return false, json.Unmarshal(raw, &s.Active)
			},
		},
		field{
			key:    keySoundOn,
			encode: func(s *game.Save) any { return s.SoundOn },
			decode: func(raw []byte, s *game.Save) (bool, error) {
				return false, json.Unmarshal(raw, &s.SoundOn)
			},
		},
		field{
			key:    keyVolume,
			encode: func(s *game.Save) any { return s.Volume },
			decode: func(raw []byte, s *game.Save) (bool, error) {
				return false, json.Unmarshal(raw, &s.Volume)
			},
		},
		field{
			key:    keyRandomBattles,
			encode: func(s *game.Save) any { return s.RandomBattles },
			decode: func(raw []byte, s *game.Save) (bool, error) {
				return false, json.Unmarshal(raw, &s.RandomBattles)
			},
		},
		field{
			key: keyStopCooldown,
			encode: func(s *game.Save) any {
				if s.StopReadyAt.IsZero() {
					return int64(0)
				}
				return s.StopReadyAt.UnixMilli()
			},
			decode: func(raw []byte, s *game.Save) (bool, error) {
				var ms int64
				if err := json.Unmarshal(raw, &ms); err != nil {
					return false, err
				}
				if ms > 0 {
					s.StopReadyAt = time.UnixMilli(ms)
				}
				return false, nil
			},
		},
	)
}

// decodeParty accepts the identity->count mapping and the legacy list of
// names, which is converted into counts.
func decodeParty(raw []byte, s *game.Save) (bool, error) {
	party := map[string]int{}
	if err := json.Unmarshal(raw, &party); err == nil {
		for k, n := range party {
			if n > 0 {
				s.Party[game.NormalizeKey(k)] += n
			}
		}
		return false, nil
	}

	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return false, fmt.Errorf("party is neither a mapping nor a list: %w", err)
	}
	for _, name := range legacy {
		if strings.TrimSpace(name) == "" {
			continue
		}
		s.AddToParty(name)
	}
	return true, nil
}

func keys() []string {
	fs := fields()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.key
	}
	return out
}

func encodeSave(s *game.Save) (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, f := range fields() {
		b, err := json.Marshal(f.encode(s))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		out[f.key] = b
	}
	return out, nil
}

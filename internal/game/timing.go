package game

import "time"

// Timing defaults. The loop takes its effective values from LoopConfig.
const (
	RefreshInterval = time.Second      // snapshot broadcast cadence
	MinBattleDelay  = time.Minute      // earliest scheduled battle
	MaxBattleDelay  = 10 * time.Minute // latest scheduled battle
	ResultLinger    = 1500 * time.Millisecond
	InputChanSize   = 64
)

// randomDelay picks a delay uniformly in [lo, hi].
func randomDelay(rng Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Float64()*float64(hi-lo))
}

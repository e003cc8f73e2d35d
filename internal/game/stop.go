package game

import (
	"context"
	"time"
)

// Supply stop payout ranges.
const (
	stopMinDevices     = 1
	stopMaxDevices     = 5
	stopMinCoins       = 10
	stopMaxCoins       = 100
	stopMasterChance   = 0.025
	stopMinCooldownMin = 1
	stopMaxCooldownMin = 5
)

var stopDevices = []Device{DeviceBasic, DeviceGreat, DeviceUltra}

// StopReward is one supply stop payout.
type StopReward struct {
	Coins    int
	Device   Device
	Devices  int
	Master   bool
	Cooldown time.Duration
}

// RollStopReward draws a supply stop payout.
func RollStopReward(rng Rand) StopReward {
	return StopReward{
		Device:   stopDevices[rng.IntN(len(stopDevices))],
		Devices:  stopMinDevices + rng.IntN(stopMaxDevices-stopMinDevices+1),
		Coins:    stopMinCoins + rng.IntN(stopMaxCoins-stopMinCoins+1),
		Master:   chance(rng, stopMasterChance),
		Cooldown: time.Duration(stopMinCooldownMin+rng.IntN(stopMaxCooldownMin-stopMinCooldownMin+1)) * time.Minute,
	}
}

// VisitStop collects the supply stop payout when its cooldown has expired.
func (e *Engine) VisitStop(ctx context.Context) (StopReward, error) {
	now := e.now()
	var reward StopReward
	err := e.store.Update(ctx, func(s *Save) error {
		if now.Before(s.StopReadyAt) {
			return &CooldownError{Remaining: s.StopReadyAt.Sub(now)}
		}
		reward = RollStopReward(e.rng)
		if err := s.Adjust(reward.Device.Resource(), reward.Devices); err != nil {
			return err
		}
		if err := s.Adjust(Coins, reward.Coins); err != nil {
			return err
		}
		if reward.Master {
			if err := s.Adjust(MasterBalls, 1); err != nil {
				return err
			}
		}
		s.StopReadyAt = now.Add(reward.Cooldown)
		return nil
	})
	if err != nil {
		return StopReward{}, err
	}
	return reward, nil
}

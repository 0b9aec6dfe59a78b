package game

import "math"

type ClickerUpgradeInfo struct {
	Level    int     `json:"level"`
	Cost     float64 `json:"cost"`
	Increase float64 `json:"increase"`
}

// NextClickerUpgrade prices the upgrade from level to level+1. Every fifth
// level pays a larger bonus and every 25th a much larger one; cost jumps
// tenfold every ten levels.
func NextClickerUpgrade(level int) ClickerUpgradeInfo {
	next := level + 1
	var increase float64
	switch {
	case next%25 == 0:
		increase = float64(level * 10)
	case next%5 == 0:
		increase = math.Floor(float64(level) * 1.5)
	default:
		increase = math.Floor(1 + float64(level)/2)
	}
	tier := (level - 1) / 10
	cost := math.Floor(10 * math.Pow(1.2, float64(level)) * math.Pow(10, float64(tier)))
	return ClickerUpgradeInfo{Level: next, Cost: cost, Increase: increase}
}

func click(s *GameState) {
	s.Balance += s.ClickValue
}

func buyClickerUpgrade(s *GameState) error {
	info := NextClickerUpgrade(s.ClickerLevel)
	if err := charge(s, info.Cost); err != nil {
		return err
	}
	s.ClickValue += info.Increase
	s.ClickerLevel = info.Level
	return nil
}

package game

import "math"

// CostMultiplier is the factor applied to every listed price before the
// affordability check. The result lies in [MinCostMultiplier, 1].
func CostMultiplier(s *GameState) float64 {
	boosts := 1.0
	for _, b := range s.ActiveBoosts {
		if b.Kind == BoostCostReduction {
			boosts *= b.Multiplier
		}
	}

	securitySum := 0.0
	for _, p := range s.Security {
		if p.Effect.Kind == PersonnelGlobalCostReduction {
			securitySum += p.Effect.Value * float64(p.Owned)
		}
	}

	upgradeSum := 0.0
	for _, u := range s.Upgrades {
		if u.Effect.Kind == GlobalCostReduction {
			upgradeSum += u.Effect.Value * float64(u.Active())
		}
	}

	items := 1.0
	for _, it := range s.Items {
		if it.Owned > 0 && it.Effect.Kind == ItemGlobalCostReduction {
			items *= 1 - it.Effect.Value*float64(it.Owned)
		}
	}

	return clampCost(boosts * (1 - securitySum) * (1 - upgradeSum) * items)
}

func clampCost(m float64) float64 {
	if math.IsNaN(m) || m < MinCostMultiplier {
		return MinCostMultiplier
	}
	if m > 1 {
		return 1
	}
	return m
}

// businessCostGrowth is the per-unit price growth for b after finished
// BUSINESS_COST_MULTIPLIER upgrades. It never drops below 1 so prices only rise.
func businessCostGrowth(s *GameState, b *Business) float64 {
	growth := b.CostMultiplier
	for _, u := range s.Upgrades {
		if n := u.Active(); n > 0 && u.Effect.Kind == BusinessCostMultiplier && u.Effect.TargetID == b.ID {
			growth = 1 + (growth-1)*math.Pow(u.Effect.Value, float64(n))
		}
	}
	return math.Max(1, growth)
}

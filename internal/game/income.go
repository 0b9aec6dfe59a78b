package game

import "math"

// IncomePerSecond composes every income source in s. It does not mutate s.
func IncomePerSecond(s *GameState) float64 {
	perBusiness := businessMultipliers(s)

	businessIncome := 0.0
	for _, b := range s.Businesses {
		if b.Owned <= 0 {
			continue
		}
		base := b.BaseIncome
		mult := b.IncomeMultiplier
		for _, u := range b.Upgrades {
			if u.Status != UpgradeOwned {
				continue
			}
			switch u.Effect.Kind {
			case BaseIncomeMultiplier:
				base *= u.Effect.Value
			case IncomeMultiplierAdd:
				mult += u.Effect.Value
			}
		}
		m, ok := perBusiness[b.ID]
		if !ok {
			m = 1
		}
		businessIncome += float64(b.Owned) * base * mult * m
	}

	propertyIncome := 0.0
	for _, p := range s.FlippableProperties {
		if p.Owned && p.IsRented {
			propertyIncome += p.BaseIncome
		}
	}

	return (businessIncome + propertyIncome) * GlobalIncomeMultiplier(s) * PrestigeMultiplier(s.PrestigePoints)
}

// GlobalIncomeMultiplier is the additive global bonus times every active
// income boost.
func GlobalIncomeMultiplier(s *GameState) float64 {
	global := 1.0
	for _, u := range s.Upgrades {
		switch u.Effect.Kind {
		case GlobalIPSMultiplier:
			global += u.Effect.Value * float64(u.Active())
		case ClickValueAdd, ClickValueMultiplier, BusinessIPSMultiplier, BusinessCostMultiplier,
			UnlockFeature, GlobalCostReduction, IncreaseContrabandLimit:
		}
	}
	for _, it := range s.Items {
		if it.Owned > 0 && it.Effect.Kind == ItemGlobalIPSMultiplier {
			global += it.Effect.Value * float64(it.Owned)
		}
	}
	for _, p := range s.Staff {
		if p.Effect.Kind == PersonnelGlobalIPS {
			global += p.Effect.Value * float64(p.Owned)
		}
	}
	global += assignedCarBoost(s)

	for _, b := range s.ActiveBoosts {
		if b.Kind == BoostIncome {
			global *= b.Multiplier
		}
	}
	return global
}

// businessMultipliers maps business id to the product of item and upgrade
// multipliers that target it.
func businessMultipliers(s *GameState) map[string]float64 {
	out := map[string]float64{}
	mul := func(id string, v float64, n int) {
		m, ok := out[id]
		if !ok {
			m = 1
		}
		out[id] = m * math.Pow(v, float64(n))
	}
	for _, it := range s.Items {
		if it.Owned > 0 && it.Effect.Kind == ItemBusinessIPSMultiplier {
			mul(it.Effect.TargetID, it.Effect.Value, it.Owned)
		}
	}
	for _, u := range s.Upgrades {
		if n := u.Active(); n > 0 && u.Effect.Kind == BusinessIPSMultiplier {
			mul(u.Effect.TargetID, u.Effect.Value, n)
		}
	}
	return out
}

func assignedCarBoost(s *GameState) float64 {
	if s.AssignedCarID == "" {
		return 0
	}
	car := s.item(s.AssignedCarID)
	if car == nil || car.Owned <= 0 || car.Effect.Kind != ItemCompanyCarIPSBoost {
		return 0
	}
	return car.Effect.Value
}

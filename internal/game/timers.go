package game

type seconds interface {
	~int | ~float64
}

// countdown advances a remaining-seconds field by one tick and reports
// whether it ran out. An expired counter is left at zero.
func countdown[T seconds](left *T) bool {
	*left--
	if *left <= 0 {
		*left = 0
		return true
	}
	return false
}

// tickConstruction advances every build in progress and returns the ids that
// finished this tick.
func tickConstruction(s *GameState) []string {
	var done []string
	for bi := range s.Businesses {
		ups := s.Businesses[bi].Upgrades
		for i := range ups {
			if ups[i].Status != UpgradeConstructing {
				continue
			}
			if countdown(&ups[i].ConstructionTimeLeft) {
				ups[i].Status = UpgradeOwned
				done = append(done, ups[i].ID)
			}
		}
	}
	for i := range s.Upgrades {
		u := &s.Upgrades[i]
		if !u.IsConstructing {
			continue
		}
		if countdown(&u.ConstructionTimeLeft) {
			finishUpgrade(s, u)
			done = append(done, u.ID)
		}
	}
	return done
}

// finishUpgrade ends construction of one level and applies effects that
// change stored state rather than derived values.
func finishUpgrade(s *GameState, u *Upgrade) {
	u.IsConstructing = false
	u.ConstructionTimeLeft = 0
	switch u.Effect.Kind {
	case ClickValueAdd:
		s.ClickValue += u.Effect.Value
	case ClickValueMultiplier:
		s.ClickValue *= u.Effect.Value
	case IncreaseContrabandLimit:
		s.ContrabandLimit += int(u.Effect.Value)
	case UnlockFeature:
		if u.Effect.Feature == FeatureAutoTrader {
			s.AutoTraderUnlocked = true
		}
	case BusinessIPSMultiplier, GlobalIPSMultiplier, BusinessCostMultiplier, GlobalCostReduction:
		// derived on demand from Active()
	}
}

package game

// charge deducts listed*CostMultiplier(s) if affordable.
func charge(s *GameState, listed float64) error {
	final := listed * CostMultiplier(s)
	if s.Balance < final {
		return ErrInsufficientFunds
	}
	s.Balance -= final
	return nil
}

func buyBusiness(s *GameState, id string) error {
	b := s.business(id)
	if b == nil {
		return ErrNotFound
	}
	if !b.Unlocked {
		return ErrLocked
	}
	growth := businessCostGrowth(s, b)
	if err := charge(s, b.Cost); err != nil {
		return err
	}
	b.Owned++
	b.Cost *= growth
	return nil
}

func buyBusinessUpgrade(s *GameState, businessID, upgradeID string) error {
	b := s.business(businessID)
	if b == nil {
		return ErrNotFound
	}
	if !b.Unlocked {
		return ErrLocked
	}
	var u *BusinessUpgrade
	for i := range b.Upgrades {
		if b.Upgrades[i].ID == upgradeID {
			u = &b.Upgrades[i]
		}
	}
	if u == nil {
		return ErrNotFound
	}
	if u.Status != UpgradeAvailable {
		return ErrInvalidTransition
	}
	if u.RequiredUpgradeID != "" {
		owned := false
		for _, other := range b.Upgrades {
			if other.ID == u.RequiredUpgradeID && other.Status == UpgradeOwned {
				owned = true
			}
		}
		if !owned {
			return ErrRequirementsUnmet
		}
	}
	if err := charge(s, u.Cost); err != nil {
		return err
	}
	if u.ConstructionTime <= 0 {
		u.Status = UpgradeOwned
		return nil
	}
	u.Status = UpgradeConstructing
	u.ConstructionTimeLeft = u.ConstructionTime
	return nil
}

func buyUpgrade(s *GameState, id string) error {
	u := s.upgrade(id)
	if u == nil {
		return ErrNotFound
	}
	if u.IsLocked || excluded(s, u) || (u.Hidden && !projectCompleted(s, CorpHQProject)) {
		return ErrLocked
	}
	if u.IsConstructing {
		return ErrInvalidTransition
	}
	if u.MaxOwned > 0 && u.Owned >= u.MaxOwned {
		return ErrLimitReached
	}
	if err := charge(s, UpgradeCost(*u)); err != nil {
		return err
	}

	build := u.ConstructionTime
	if u.BaseConstructionTime > 0 {
		build = u.BaseConstructionTime * (u.Owned + 1)
	}
	u.Owned++
	if u.MutuallyExclusiveWith != "" {
		if partner := s.upgrade(u.MutuallyExclusiveWith); partner != nil {
			partner.IsLocked = true
		}
	}
	if build <= 0 {
		finishUpgrade(s, u)
		return nil
	}
	u.IsConstructing = true
	u.ConstructionTimeLeft = build
	return nil
}

// excluded reports whether an owned upgrade rules u out, whichever side of
// the pair names the other.
func excluded(s *GameState, u *Upgrade) bool {
	for i := range s.Upgrades {
		o := &s.Upgrades[i]
		if o.ID == u.ID || o.Owned == 0 {
			continue
		}
		if o.MutuallyExclusiveWith == u.ID || u.MutuallyExclusiveWith == o.ID {
			return true
		}
	}
	return false
}

func projectCompleted(s *GameState, id string) bool {
	p := s.project(id)
	return p != nil && p.Status == ProjectCompleted
}

func startProject(s *GameState, id string) error {
	p := s.project(id)
	if p == nil {
		return ErrNotFound
	}
	if p.Status != ProjectLocked {
		return ErrInvalidTransition
	}
	if err := charge(s, p.Cost); err != nil {
		return err
	}
	p.Status = ProjectCompleted
	return nil
}

// tradeStock buys (qty > 0) or sells (qty < 0) at the current market price.
func tradeStock(s *GameState, id string, qty int) error {
	if qty == 0 {
		return ErrInvalidQuantity
	}
	st := s.stock(id)
	if st == nil {
		return ErrNotFound
	}
	total := st.Price * float64(qty)
	if qty > 0 && s.Balance < total {
		return ErrInsufficientFunds
	}
	if qty < 0 && qty < -st.Owned {
		return ErrInsufficientUnits
	}
	s.Balance -= total
	st.Owned += qty
	st.TradingVolume += absInt(qty)
	return nil
}

// tradeItem buys at the reduced price and sells at list price.
func tradeItem(s *GameState, c *Catalog, id string, qty int) error {
	if qty == 0 {
		return ErrInvalidQuantity
	}
	it := s.item(id)
	if it == nil {
		return ErrNotFound
	}
	if it.Hidden {
		return ErrLocked
	}

	if qty < 0 {
		if it.Effect.Kind == ItemUnlockMissions {
			return ErrInvalidTransition
		}
		if qty < -it.Owned {
			return ErrInsufficientUnits
		}
		s.Balance += it.Price * float64(-qty)
		it.Owned += qty
		if it.Owned == 0 && s.AssignedCarID == it.ID {
			s.AssignedCarID = ""
		}
		return nil
	}

	if it.Effect.Kind == ItemUnlockMissions && qty > 1-it.Owned {
		return ErrLimitReached
	}
	if it.Type == ItemContraband && qty > s.ContrabandLimit-it.Owned {
		return ErrLimitReached
	}
	if err := charge(s, it.Price*float64(qty)); err != nil {
		return err
	}
	it.Owned += qty
	if it.Effect.Kind == ItemUnlockMissions {
		unlockMissions(s, c)
	}
	return nil
}

func unlockMissions(s *GameState, c *Catalog) {
	have := map[string]bool{}
	for _, id := range s.UnlockedMissions {
		have[id] = true
	}
	for _, id := range c.LockedMissionIDs() {
		if !have[id] {
			s.UnlockedMissions = append(s.UnlockedMissions, id)
		}
	}
}

func hire(s *GameState, id string) error {
	p := s.personnel(id)
	if p == nil {
		return ErrNotFound
	}
	if err := charge(s, PersonnelCost(*p)); err != nil {
		return err
	}
	p.Owned++
	return nil
}

// assignCar makes id the company car. Assigning the current car, or an
// empty id, clears the slot.
func assignCar(s *GameState, id string) error {
	if id == "" || id == s.AssignedCarID {
		s.AssignedCarID = ""
		return nil
	}
	it := s.item(id)
	if it == nil {
		return ErrNotFound
	}
	if it.Effect.Kind != ItemCompanyCarIPSBoost {
		return ErrInvalidTransition
	}
	if it.Owned <= 0 {
		return ErrInsufficientUnits
	}
	s.AssignedCarID = id
	return nil
}

// executeMerger rejects a completed merger without touching state.
func executeMerger(s *GameState, id string) error {
	m := s.merger(id)
	if m == nil {
		return ErrNotFound
	}
	if m.Status == MergerCompleted {
		return ErrInvalidTransition
	}
	if !Satisfies(m.Requirements, s) {
		return ErrRequirementsUnmet
	}
	if b := s.business(m.ResultBusinessID); b != nil {
		b.Unlocked = true
		b.Hidden = false
	}
	m.Status = MergerCompleted
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

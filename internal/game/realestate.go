package game

func buyProperty(s *GameState, id string) error {
	p := s.property(id)
	if p == nil {
		return ErrNotFound
	}
	if p.Owned {
		return ErrInvalidTransition
	}
	if !p.ForSale {
		return ErrLocked
	}
	if err := charge(s, p.AuctionPrice); err != nil {
		return err
	}
	p.Owned = true
	p.ForSale = false
	return nil
}

func improveProperty(s *GameState, id string, track ImprovementType) error {
	p := s.property(id)
	if p == nil {
		return ErrNotFound
	}
	if !p.Owned {
		return ErrInvalidTransition
	}
	imp, ok := p.Improvements[track]
	if !ok {
		return ErrNotFound
	}
	if imp.Level >= imp.MaxLevel {
		return ErrLimitReached
	}
	if err := charge(s, ImprovementCost(imp)); err != nil {
		return err
	}
	imp.Level++
	p.Improvements[track] = imp
	p.Condition = ConditionFor(*p)
	return nil
}

// sellProperty flips an owned property back to auction. Improvements are
// cashed out in the sale price and reset.
func sellProperty(s *GameState, id string) error {
	p := s.property(id)
	if p == nil {
		return ErrNotFound
	}
	if !p.Owned {
		return ErrInvalidTransition
	}
	s.Balance += PropertySaleValue(*p)
	for track, imp := range p.Improvements {
		imp.Level = 0
		p.Improvements[track] = imp
	}
	p.Owned = false
	p.IsRented = false
	p.ForSale = true
	return nil
}

func toggleRent(s *GameState, id string) error {
	p := s.property(id)
	if p == nil {
		return ErrNotFound
	}
	if !p.Owned {
		return ErrInvalidTransition
	}
	p.IsRented = !p.IsRented
	return nil
}

// openAuctions lists unowned properties whose auction requirements now hold.
func openAuctions(s *GameState) []string {
	var opened []string
	for i := range s.FlippableProperties {
		p := &s.FlippableProperties[i]
		if p.Owned || p.ForSale || len(p.AuctionRequirements) == 0 {
			continue
		}
		if Satisfies(p.AuctionRequirements, s) {
			p.ForSale = true
			opened = append(opened, p.ID)
		}
	}
	return opened
}

package game

func cloneBusiness(b Business) Business {
	b.UnlockRequirements = append([]Requirement(nil), b.UnlockRequirements...)
	b.Upgrades = append([]BusinessUpgrade(nil), b.Upgrades...)
	return b
}

func cloneProperty(p FlippableProperty) FlippableProperty {
	imps := make(map[ImprovementType]Improvement, len(p.Improvements))
	for k, v := range p.Improvements {
		imps[k] = v
	}
	p.Improvements = imps
	p.AuctionRequirements = append([]Requirement(nil), p.AuctionRequirements...)
	return p
}

func cloneStock(st Stock) Stock {
	st.PriceHistory = append([]float64(nil), st.PriceHistory...)
	st.VolumeHistory = append([]int(nil), st.VolumeHistory...)
	if st.AutoTrader.BuyPrice != nil {
		v := *st.AutoTrader.BuyPrice
		st.AutoTrader.BuyPrice = &v
	}
	if st.AutoTrader.SellPriceHigh != nil {
		v := *st.AutoTrader.SellPriceHigh
		st.AutoTrader.SellPriceHigh = &v
	}
	if st.AutoTrader.SellPriceLow != nil {
		v := *st.AutoTrader.SellPriceLow
		st.AutoTrader.SellPriceLow = &v
	}
	return st
}

// Clone returns a deep copy that shares no memory with s.
func (s GameState) Clone() GameState {
	out := s

	out.Businesses = make([]Business, len(s.Businesses))
	for i, b := range s.Businesses {
		out.Businesses[i] = cloneBusiness(b)
	}
	out.Upgrades = append([]Upgrade(nil), s.Upgrades...)
	out.Projects = append([]Project(nil), s.Projects...)

	out.Stocks = make([]Stock, len(s.Stocks))
	for i, st := range s.Stocks {
		out.Stocks[i] = cloneStock(st)
	}

	out.Items = append([]Item(nil), s.Items...)

	out.FlippableProperties = make([]FlippableProperty, len(s.FlippableProperties))
	for i, p := range s.FlippableProperties {
		out.FlippableProperties[i] = cloneProperty(p)
	}

	out.ActiveBoosts = append([]Boost{}, s.ActiveBoosts...)
	out.Missions = append([]Mission{}, s.Missions...)
	out.UnlockedMissions = append([]string(nil), s.UnlockedMissions...)
	out.ActiveNews = append([]NewsEvent{}, s.ActiveNews...)
	out.Staff = append([]Personnel(nil), s.Staff...)
	out.Security = append([]Personnel(nil), s.Security...)

	out.Mergers = make([]Merger, len(s.Mergers))
	for i, m := range s.Mergers {
		m.Requirements = append([]Requirement(nil), m.Requirements...)
		out.Mergers[i] = m
	}
	return out
}

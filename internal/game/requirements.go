package game

// Satisfies reports whether every requirement holds against s. An empty list
// is satisfied; unknown kinds and ids are not.
func Satisfies(reqs []Requirement, s *GameState) bool {
	for _, r := range reqs {
		if !satisfied(r, s) {
			return false
		}
	}
	return true
}

func satisfied(r Requirement, s *GameState) bool {
	switch r.Kind {
	case RequireBalance:
		return s.Balance >= r.Quantity
	case RequireBusiness:
		owned := 0
		if b := s.business(r.ID); b != nil {
			owned = b.Owned
		}
		return float64(owned) >= r.Quantity
	case RequireItem:
		owned := 0
		if it := s.item(r.ID); it != nil {
			owned = it.Owned
		}
		return float64(owned) >= r.Quantity
	case RequireProject:
		p := s.project(r.ID)
		return p != nil && p.Status == ProjectCompleted
	case RequireProperty:
		owned := 0.0
		if p := s.property(r.ID); p != nil && p.Owned {
			owned = 1
		}
		return owned >= r.Quantity
	default:
		return false
	}
}

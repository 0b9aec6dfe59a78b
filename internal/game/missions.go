package game

import (
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/google/uuid"
)

type missionEvents struct {
	generated []Mission
	expired   []string
	completed []Mission
}

// tickMissions runs generation and every mission countdown. Nothing happens
// until the gating project is complete.
func tickMissions(s *GameState, c *Catalog, rng *mathrand.Rand, now time.Time) missionEvents {
	var ev missionEvents
	if gate := s.project(CorpHQProject); gate == nil || gate.Status != ProjectCompleted {
		return ev
	}

	if now.Sub(s.LastMissionCheck) > MissionGenerationInterval {
		s.LastMissionCheck = now
		if countMissions(s, MissionAvailable) < MaxMissions {
			if m, ok := generateMission(s, c, rng); ok {
				s.Missions = append(s.Missions, m)
				ev.generated = append(ev.generated, m)
			}
		}
	}

	kept := s.Missions[:0]
	for _, m := range s.Missions {
		switch m.Status {
		case MissionAvailable:
			if countdown(&m.ExpiresIn) {
				ev.expired = append(ev.expired, m.ID)
				continue
			}
		case MissionInProgress:
			if countdown(&m.TimeLeft) {
				m.Status = MissionCompleted
				addBoost(s, missionBoost(m, now))
				ev.completed = append(ev.completed, m)
			}
		case MissionCompleted:
		}
		kept = append(kept, m)
	}
	s.Missions = kept
	return ev
}

func countMissions(s *GameState, status MissionStatus) int {
	n := 0
	for _, m := range s.Missions {
		if m.Status == status {
			n++
		}
	}
	return n
}

// generateMission draws rarity by weight, then a reward of that rarity and an
// unlocked template uniformly.
func generateMission(s *GameState, c *Catalog, rng *mathrand.Rand) (Mission, bool) {
	var templates []MissionTemplate
	for _, id := range s.UnlockedMissions {
		if t, ok := c.missionTemplate(id); ok {
			templates = append(templates, t)
		}
	}
	if len(templates) == 0 || len(c.Rarities) == 0 {
		return Mission{}, false
	}

	rarity := pickRarity(c.Rarities, rng)
	template := templates[rng.Intn(len(templates))]
	reward := rarity.Rewards[rng.Intn(len(rarity.Rewards))]

	modifier := 1.0
	for _, it := range s.Items {
		if it.Owned > 0 && it.Effect.Kind == ItemMissionDurationModifier {
			modifier *= it.Effect.Value
		}
	}

	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return Mission{}, false
	}
	return Mission{
		ID:          "mission-" + id.String(),
		TemplateID:  template.ID,
		Title:       template.Title,
		Description: template.Description,
		Boss:        template.Boss,
		Status:      MissionAvailable,
		Reward:      reward,
		Duration:    (10 + rng.Float64()*50) * modifier,
		ExpiresIn:   MissionExpiration,
		Rarity:      rarity.Name,
	}, true
}

func pickRarity(rarities []Rarity, rng *mathrand.Rand) Rarity {
	total := 0.0
	for _, r := range rarities {
		total += r.Weight
	}
	roll := rng.Float64() * total
	for _, r := range rarities {
		if roll < r.Weight {
			return r
		}
		roll -= r.Weight
	}
	return rarities[0]
}

func missionBoost(m Mission, now time.Time) Boost {
	b := Boost{
		ID:         "boost-" + m.ID,
		Multiplier: m.Reward.Multiplier,
		ExpiresAt:  now.Add(time.Duration(m.Reward.Duration) * time.Second),
	}
	switch m.Reward.Kind {
	case RewardIncomeBoost:
		b.Kind = BoostIncome
		b.Description = fmt.Sprintf("+%.0f%% Income from %s", (m.Reward.Multiplier-1)*100, m.Boss)
	case RewardCostReduction:
		b.Kind = BoostCostReduction
		b.Description = fmt.Sprintf("%.0f%% Cost Reduction from %s", (1-m.Reward.Multiplier)*100, m.Boss)
	}
	return b
}

// addBoost appends b unless a boost with the same id is already active.
func addBoost(s *GameState, b Boost) bool {
	for _, existing := range s.ActiveBoosts {
		if existing.ID == b.ID {
			return false
		}
	}
	s.ActiveBoosts = append(s.ActiveBoosts, b)
	return true
}

// pruneBoosts drops expired boosts and the completed missions that granted them.
func pruneBoosts(s *GameState, now time.Time) {
	live := map[string]bool{}
	kept := s.ActiveBoosts[:0]
	for _, b := range s.ActiveBoosts {
		if b.ExpiresAt.After(now) {
			kept = append(kept, b)
			live[b.ID] = true
		}
	}
	s.ActiveBoosts = kept

	missions := s.Missions[:0]
	for _, m := range s.Missions {
		if m.Status == MissionCompleted && !live["boost-"+m.ID] {
			continue
		}
		missions = append(missions, m)
	}
	s.Missions = missions
}

func acceptMission(s *GameState, id string) error {
	m := s.mission(id)
	if m == nil {
		return ErrNotFound
	}
	if m.Status != MissionAvailable {
		return ErrInvalidTransition
	}
	m.Status = MissionInProgress
	m.TimeLeft = m.Duration
	return nil
}

package game

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	StartingBalance         = 20.0
	StartingClickValue      = 1.0
	StartingContrabandLimit = 5

	PrestigeRequirement = 1_000_000_000_000.0
	PrestigeBonusPerPt  = 0.10

	StockHistoryLength = 1000

	MissionGenerationInterval = 60 * time.Second
	MaxMissions               = 4
	MissionExpiration         = 5 * 60 // seconds on the board before it disappears
	CorpHQProject             = "proj2" // gates missions and hidden upgrades

	MarketEventChance = 0.01
	NewsEventChance   = 0.02
	MaxActiveNews     = 3

	// MinCostMultiplier floors the composite cost reduction so purchases are never free.
	MinCostMultiplier = 0.01

	MinStockPrice = 0.01

	defaultBaseVolume = 10000
)

var (
	ErrNotFound          = errors.New("entity not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientUnits = errors.New("insufficient units owned")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrLocked            = errors.New("entity is locked")
	ErrLimitReached      = errors.New("limit reached")
	ErrRequirementsUnmet = errors.New("requirements not met")
	ErrInvalidQuantity   = errors.New("quantity must be non-zero")
	ErrFeatureLocked     = errors.New("feature not unlocked")
	ErrCorruptSave       = errors.New("corrupt save data")
	ErrInvalidTicker     = errors.New("ticker must be 3 to 5 uppercase letters")
)

var tickerRE = regexp.MustCompile(`^[A-Z]{3,5}$`)

func ValidateTicker(ticker string) error {
	if !tickerRE.MatchString(strings.TrimSpace(ticker)) {
		return ErrInvalidTicker
	}
	return nil
}

// PrestigeMultiplier is the permanent income bonus from accumulated prestige points.
func PrestigeMultiplier(points int) float64 {
	return 1 + float64(points)*PrestigeBonusPerPt
}

// PersonnelCost is the price of the next hire given how many are already owned.
func PersonnelCost(p Personnel) float64 {
	return p.Cost * math.Pow(p.CostMultiplier, float64(p.Owned))
}

// UpgradeCost is the listed price of the next level of a global upgrade.
func UpgradeCost(u Upgrade) float64 {
	if u.CostMultiplier <= 0 {
		return u.Cost
	}
	return u.Cost * math.Pow(u.CostMultiplier, float64(u.Owned))
}

// ImprovementCost is the price of raising an improvement track by one level.
func ImprovementCost(imp Improvement) float64 {
	return imp.BaseCost * math.Pow(1.5, float64(imp.Level))
}

// PropertyInvestment sums everything spent on a property's improvement tracks.
func PropertyInvestment(p FlippableProperty) float64 {
	total := 0.0
	for _, track := range ImprovementTracks {
		imp := p.Improvements[track]
		for lvl := 0; lvl < imp.Level; lvl++ {
			total += imp.BaseCost * math.Pow(1.5, float64(lvl))
		}
	}
	return total
}

// PropertySaleValue is what flipping the property pays out.
func PropertySaleValue(p FlippableProperty) float64 {
	return (p.AuctionPrice + PropertyInvestment(p)) * 1.5
}

// ConditionFor maps the average improvement level onto a condition grade.
func ConditionFor(p FlippableProperty) PropertyCondition {
	sum, maxSum := 0, 0
	for _, track := range ImprovementTracks {
		imp := p.Improvements[track]
		sum += imp.Level
		maxSum += imp.MaxLevel
	}
	if maxSum == 0 {
		return p.Condition
	}
	ratio := float64(sum) / float64(maxSum)
	idx := int(math.Floor(ratio * float64(len(conditionLadder)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(conditionLadder) {
		idx = len(conditionLadder) - 1
	}
	if conditionRank(p.Condition) > idx {
		return p.Condition
	}
	return conditionLadder[idx]
}

func conditionRank(c PropertyCondition) int {
	for i, v := range conditionLadder {
		if v == c {
			return i
		}
	}
	return 0
}

func (s *GameState) business(id string) *Business {
	for i := range s.Businesses {
		if s.Businesses[i].ID == id {
			return &s.Businesses[i]
		}
	}
	return nil
}

func (s *GameState) upgrade(id string) *Upgrade {
	for i := range s.Upgrades {
		if s.Upgrades[i].ID == id {
			return &s.Upgrades[i]
		}
	}
	return nil
}

func (s *GameState) project(id string) *Project {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}

func (s *GameState) stock(id string) *Stock {
	for i := range s.Stocks {
		if s.Stocks[i].ID == id {
			return &s.Stocks[i]
		}
	}
	return nil
}

func (s *GameState) item(id string) *Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

func (s *GameState) property(id string) *FlippableProperty {
	for i := range s.FlippableProperties {
		if s.FlippableProperties[i].ID == id {
			return &s.FlippableProperties[i]
		}
	}
	return nil
}

func (s *GameState) merger(id string) *Merger {
	for i := range s.Mergers {
		if s.Mergers[i].ID == id {
			return &s.Mergers[i]
		}
	}
	return nil
}

func (s *GameState) mission(id string) *Mission {
	for i := range s.Missions {
		if s.Missions[i].ID == id {
			return &s.Missions[i]
		}
	}
	return nil
}

// personnel finds a hire across staff and security.
func (s *GameState) personnel(id string) *Personnel {
	for i := range s.Staff {
		if s.Staff[i].ID == id {
			return &s.Staff[i]
		}
	}
	for i := range s.Security {
		if s.Security[i].ID == id {
			return &s.Security[i]
		}
	}
	return nil
}

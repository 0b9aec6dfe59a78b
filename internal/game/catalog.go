package game

import (
	_ "embed"
	"fmt"
	"math"
	mathrand "math/rand"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type MissionTemplate struct {
	ID          string `yaml:"id"`
	Boss        string `yaml:"boss"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Locked      bool   `yaml:"locked"`
}

type Rarity struct {
	Name    MissionRarity   `yaml:"name"`
	Weight  float64         `yaml:"weight"`
	Rewards []MissionReward `yaml:"rewards"`
}

type Planet struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Catalog holds the immutable templates a game is created from.
type Catalog struct {
	Businesses       []Business          `yaml:"businesses"`
	Upgrades         []Upgrade           `yaml:"upgrades"`
	Projects         []Project           `yaml:"projects"`
	Stocks           []Stock             `yaml:"stocks"`
	Items            []Item              `yaml:"items"`
	Properties       []FlippableProperty `yaml:"properties"`
	Staff            []Personnel         `yaml:"staff"`
	Security         []Personnel         `yaml:"security"`
	Mergers          []Merger            `yaml:"mergers"`
	MissionTemplates []MissionTemplate   `yaml:"mission_templates"`
	Rarities         []Rarity            `yaml:"rarities"`
	MarketEvents     []MarketEvent       `yaml:"market_events"`
	NewsEvents       []NewsEvent         `yaml:"news_events"`
	Planets          []Planet            `yaml:"planets"`
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
	defaultCatalogErr  error
)

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(defaultCatalogYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog reads a catalog override from disk.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	seen := map[string]string{}
	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("catalog: %s with empty id", kind)
		}
		if prev, ok := seen[kind+"/"+id]; ok {
			return fmt.Errorf("catalog: duplicate %s id %q (also %s)", kind, id, prev)
		}
		seen[kind+"/"+id] = kind
		return nil
	}
	for _, b := range c.Businesses {
		if err := claim("business", b.ID); err != nil {
			return err
		}
		if b.CostMultiplier < 1 {
			return fmt.Errorf("catalog: business %s cost_multiplier must be >= 1", b.ID)
		}
		for _, u := range b.Upgrades {
			if err := claim("business_upgrade", u.ID); err != nil {
				return err
			}
		}
	}
	for _, u := range c.Upgrades {
		if err := claim("upgrade", u.ID); err != nil {
			return err
		}
	}
	for _, u := range c.Upgrades {
		if u.MutuallyExclusiveWith == "" {
			continue
		}
		if _, ok := seen["upgrade/"+u.MutuallyExclusiveWith]; !ok {
			return fmt.Errorf("catalog: upgrade %s excludes unknown upgrade %s", u.ID, u.MutuallyExclusiveWith)
		}
		for _, p := range c.Upgrades {
			if p.ID == u.MutuallyExclusiveWith && p.MutuallyExclusiveWith != u.ID {
				return fmt.Errorf("catalog: upgrade %s excludes %s but not the reverse", u.ID, p.ID)
			}
		}
	}
	for _, s := range c.Stocks {
		if err := claim("stock", s.ID); err != nil {
			return err
		}
		if err := ValidateTicker(s.Ticker); err != nil {
			return fmt.Errorf("catalog: stock %s: %w", s.ID, err)
		}
		if s.BasePrice <= 0 {
			return fmt.Errorf("catalog: stock %s base_price must be positive", s.ID)
		}
	}
	for _, p := range c.Projects {
		if err := claim("project", p.ID); err != nil {
			return err
		}
	}
	for _, it := range c.Items {
		if err := claim("item", it.ID); err != nil {
			return err
		}
	}
	for _, p := range c.Properties {
		if err := claim("property", p.ID); err != nil {
			return err
		}
	}
	for _, m := range c.Mergers {
		if err := claim("merger", m.ID); err != nil {
			return err
		}
		if _, ok := seen["business/"+m.ResultBusinessID]; !ok {
			return fmt.Errorf("catalog: merger %s unlocks unknown business %s", m.ID, m.ResultBusinessID)
		}
	}
	total := 0.0
	for _, r := range c.Rarities {
		if r.Weight < 0 || len(r.Rewards) == 0 {
			return fmt.Errorf("catalog: rarity %s needs a non-negative weight and at least one reward", r.Name)
		}
		total += r.Weight
	}
	if len(c.Rarities) > 0 && total <= 0 {
		return fmt.Errorf("catalog: rarity weights sum to zero")
	}
	for _, e := range c.MarketEvents {
		if e.Kind != MarketBoom && e.Kind != MarketCrash {
			return fmt.Errorf("catalog: market event %q has type %s", e.Name, e.Kind)
		}
	}
	return nil
}

func (c *Catalog) missionTemplate(id string) (MissionTemplate, bool) {
	for _, t := range c.MissionTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return MissionTemplate{}, false
}

// LockedMissionIDs lists the templates that need the UNLOCK_MISSIONS item.
func (c *Catalog) LockedMissionIDs() []string {
	var out []string
	for _, t := range c.MissionTemplates {
		if t.Locked {
			out = append(out, t.ID)
		}
	}
	return out
}

// NewGameState builds a fresh game from the catalog. Nothing in the result
// aliases catalog memory.
func NewGameState(c *Catalog, rng *mathrand.Rand, now time.Time) GameState {
	s := GameState{
		Balance:          StartingBalance,
		ClickValue:       StartingClickValue,
		ClickerLevel:     1,
		LastMissionCheck: now,
		MarketStatus:     NormalMarket(),
		ContrabandLimit:  StartingContrabandLimit,
		ActiveBoosts:     []Boost{},
		Missions:         []Mission{},
		ActiveNews:       []NewsEvent{},
	}

	s.Businesses = make([]Business, len(c.Businesses))
	for i, b := range c.Businesses {
		b = cloneBusiness(b)
		for j := range b.Upgrades {
			b.Upgrades[j].Status = UpgradeAvailable
		}
		s.Businesses[i] = b
	}

	s.Upgrades = append([]Upgrade(nil), c.Upgrades...)

	s.Projects = make([]Project, len(c.Projects))
	for i, p := range c.Projects {
		p.Status = ProjectLocked
		s.Projects[i] = p
	}

	s.Stocks = make([]Stock, len(c.Stocks))
	for i, st := range c.Stocks {
		s.Stocks[i] = seedStock(st, rng)
	}

	s.Items = append([]Item(nil), c.Items...)

	s.FlippableProperties = make([]FlippableProperty, len(c.Properties))
	for i, p := range c.Properties {
		s.FlippableProperties[i] = cloneProperty(p)
	}

	s.Staff = append([]Personnel(nil), c.Staff...)
	s.Security = append([]Personnel(nil), c.Security...)

	s.Mergers = make([]Merger, len(c.Mergers))
	for i, m := range c.Mergers {
		m.Requirements = append([]Requirement(nil), m.Requirements...)
		m.Status = MergerAvailable
		s.Mergers[i] = m
	}

	for _, t := range c.MissionTemplates {
		if !t.Locked {
			s.UnlockedMissions = append(s.UnlockedMissions, t.ID)
		}
	}
	return s
}

// seedStock fills a full history window from the macro sine wave so the
// market has a past from the first tick.
func seedStock(st Stock, rng *mathrand.Rand) Stock {
	st.Price = st.BasePrice
	st.SimulationCycle = StockHistoryLength
	st.AutoTrader = AutoTraderSettings{BuyQuantity: 10, SellQuantity: 10}
	if st.BaseVolume <= 0 {
		st.BaseVolume = defaultBaseVolume
	}

	st.PriceHistory = make([]float64, StockHistoryLength)
	st.VolumeHistory = make([]int, StockHistoryLength)
	for i := 0; i < StockHistoryLength; i++ {
		price := st.BasePrice + math.Sin(float64(i)*st.SimulationFrequency)*st.SimulationAmplitude +
			(rng.Float64()-0.5)*st.Volatility*st.BasePrice
		st.PriceHistory[i] = math.Max(MinStockPrice, price)

		volume := math.Floor(float64(st.BaseVolume) * (1 + (rng.Float64()-0.5)*2*st.Volatility*5))
		st.VolumeHistory[i] = int(math.Max(0, volume))
	}
	return st
}

// Planet is where a player with the given number of prestige resets operates.
func (c *Catalog) Planet(visited int) Planet {
	if len(c.Planets) == 0 {
		return Planet{}
	}
	i := visited % len(c.Planets)
	if i < 0 {
		i += len(c.Planets)
	}
	return c.Planets[i]
}

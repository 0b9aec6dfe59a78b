package game

import (
	"math"
	"time"
)

type GameState struct {
	Balance      float64 `json:"balance"`
	ClickValue   float64 `json:"click_value"`
	ClickerLevel int     `json:"clicker_level"`

	Businesses          []Business          `json:"businesses"`
	Upgrades            []Upgrade           `json:"upgrades"`
	Projects            []Project           `json:"projects"`
	Stocks              []Stock             `json:"stocks"`
	Items               []Item              `json:"items"`
	FlippableProperties []FlippableProperty `json:"flippable_properties"`

	AutoTraderUnlocked bool        `json:"auto_trader_unlocked"`
	ActiveBoosts       []Boost     `json:"active_boosts"`
	Missions           []Mission   `json:"missions"`
	LastMissionCheck   time.Time   `json:"last_mission_check"`
	UnlockedMissions   []string    `json:"unlocked_missions"`
	MarketStatus       MarketEvent `json:"market_status"`
	ActiveNews         []NewsEvent `json:"active_news"`

	Staff    []Personnel `json:"staff"`
	Security []Personnel `json:"security"`
	Mergers  []Merger    `json:"mergers"`

	AssignedCarID string `json:"assigned_car_id,omitempty"`

	PrestigePoints  int `json:"prestige_points"`
	PlanetsVisited  int `json:"planets_visited"`
	ContrabandLimit int `json:"contraband_limit"`
}

type BusinessUpgradeEffectKind string

const (
	BaseIncomeMultiplier BusinessUpgradeEffectKind = "BASE_INCOME_MULTIPLIER"
	IncomeMultiplierAdd  BusinessUpgradeEffectKind = "INCOME_MULTIPLIER_ADD"
)

type BusinessUpgradeEffect struct {
	Kind  BusinessUpgradeEffectKind `json:"type" yaml:"type"`
	Value float64                   `json:"value" yaml:"value"`
}

type UpgradeStatus string

const (
	UpgradeAvailable    UpgradeStatus = "AVAILABLE"
	UpgradeConstructing UpgradeStatus = "CONSTRUCTING"
	UpgradeOwned        UpgradeStatus = "OWNED"
)

type BusinessUpgrade struct {
	ID                   string                `json:"id" yaml:"id"`
	Name                 string                `json:"name" yaml:"name"`
	Description          string                `json:"description" yaml:"description"`
	Cost                 float64               `json:"cost" yaml:"cost"`
	Status               UpgradeStatus         `json:"status" yaml:"-"`
	ConstructionTime     int                   `json:"construction_time" yaml:"construction_time"`
	ConstructionTimeLeft int                   `json:"construction_time_left" yaml:"-"`
	Tier                 int                   `json:"tier" yaml:"tier"`
	RequiredUpgradeID    string                `json:"required_upgrade_id,omitempty" yaml:"requires"`
	Effect               BusinessUpgradeEffect `json:"effect" yaml:"effect"`
}

type Business struct {
	ID                 string            `json:"id" yaml:"id"`
	Name               string            `json:"name" yaml:"name"`
	Description        string            `json:"description" yaml:"description"`
	Cost               float64           `json:"cost" yaml:"cost"`
	BaseIncome         float64           `json:"base_income" yaml:"base_income"`
	CostMultiplier     float64           `json:"cost_multiplier" yaml:"cost_multiplier"`
	Owned              int               `json:"owned" yaml:"-"`
	IncomeMultiplier   float64           `json:"income_multiplier" yaml:"income_multiplier"`
	Unlocked           bool              `json:"unlocked" yaml:"unlocked"`
	Hidden             bool              `json:"hidden,omitempty" yaml:"hidden"`
	UnlockRequirements []Requirement     `json:"unlock_requirements,omitempty" yaml:"unlock_requirements"`
	UnlockDescription  string            `json:"unlock_description,omitempty" yaml:"unlock_description"`
	Upgrades           []BusinessUpgrade `json:"upgrades" yaml:"upgrades"`
}

type UpgradeEffectKind string

const (
	ClickValueAdd           UpgradeEffectKind = "CLICK_VALUE_ADD"
	ClickValueMultiplier    UpgradeEffectKind = "CLICK_VALUE_MULTIPLIER"
	BusinessIPSMultiplier   UpgradeEffectKind = "BUSINESS_IPS_MULTIPLIER"
	GlobalIPSMultiplier     UpgradeEffectKind = "GLOBAL_IPS_MULTIPLIER"
	BusinessCostMultiplier  UpgradeEffectKind = "BUSINESS_COST_MULTIPLIER"
	UnlockFeature           UpgradeEffectKind = "UNLOCK_FEATURE"
	GlobalCostReduction     UpgradeEffectKind = "GLOBAL_COST_REDUCTION"
	IncreaseContrabandLimit UpgradeEffectKind = "INCREASE_CONTRABAND_LIMIT"
)

const FeatureAutoTrader = "AUTO_TRADER"

type UpgradeEffect struct {
	Kind     UpgradeEffectKind `json:"type" yaml:"type"`
	Value    float64           `json:"value,omitempty" yaml:"value"`
	TargetID string            `json:"target_id,omitempty" yaml:"target"`
	Feature  string            `json:"feature,omitempty" yaml:"feature"`
}

type Upgrade struct {
	ID                    string        `json:"id" yaml:"id"`
	Name                  string        `json:"name" yaml:"name"`
	Description           string        `json:"description" yaml:"description"`
	Cost                  float64       `json:"cost" yaml:"cost"`
	Owned                 int           `json:"owned" yaml:"-"`
	CostMultiplier        float64       `json:"cost_multiplier,omitempty" yaml:"cost_multiplier"`
	MaxOwned              int           `json:"max_owned,omitempty" yaml:"max_owned"`
	BaseConstructionTime  int           `json:"base_construction_time,omitempty" yaml:"base_construction_time"`
	ConstructionTime      int           `json:"construction_time,omitempty" yaml:"construction_time"`
	IsConstructing        bool          `json:"is_constructing" yaml:"-"`
	ConstructionTimeLeft  int           `json:"construction_time_left" yaml:"-"`
	Effect                UpgradeEffect `json:"effect" yaml:"effect"`
	Category              string        `json:"category" yaml:"category"`
	Hidden                bool          `json:"hidden,omitempty" yaml:"hidden"`
	UnlockDescription     string        `json:"unlock_description,omitempty" yaml:"unlock_description"`
	MutuallyExclusiveWith string        `json:"mutually_exclusive_with,omitempty" yaml:"exclusive_with"`
	IsLocked              bool          `json:"is_locked" yaml:"-"`
}

// Active reports how many purchased levels have finished construction.
func (u Upgrade) Active() int {
	if u.IsConstructing && u.Owned > 0 {
		return u.Owned - 1
	}
	return u.Owned
}

type ProjectStatus string

const (
	ProjectLocked    ProjectStatus = "LOCKED"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Cost        float64       `json:"cost" yaml:"cost"`
	Status      ProjectStatus `json:"status" yaml:"-"`
}

type StockCategory string

const (
	BlueChip    StockCategory = "Blue Chip"
	GrowthStock StockCategory = "Growth Stock"
	Speculative StockCategory = "Speculative"
	Crypto      StockCategory = "Crypto"
)

type AutoTraderSettings struct {
	Enabled       bool     `json:"enabled"`
	BuyPrice      *float64 `json:"buy_price,omitempty"`
	BuyQuantity   int      `json:"buy_quantity"`
	SellPriceHigh *float64 `json:"sell_price_high,omitempty"`
	SellPriceLow  *float64 `json:"sell_price_low,omitempty"`
	SellQuantity  int      `json:"sell_quantity"`
}

type Stock struct {
	ID            string             `json:"id" yaml:"id"`
	Name          string             `json:"name" yaml:"name"`
	Ticker        string             `json:"ticker" yaml:"ticker"`
	Price         float64            `json:"price" yaml:"-"`
	Owned         int                `json:"owned" yaml:"-"`
	Volatility    float64            `json:"volatility" yaml:"volatility"`
	Category      StockCategory      `json:"category" yaml:"category"`
	Kind          string             `json:"type" yaml:"type"`
	TradingVolume int                `json:"trading_volume" yaml:"-"`
	PriceHistory  []float64          `json:"price_history" yaml:"-"`
	VolumeHistory []int              `json:"volume_history" yaml:"-"`
	AutoTrader    AutoTraderSettings `json:"auto_trader" yaml:"-"`

	BasePrice           float64 `json:"base_price" yaml:"base_price"`
	BaseVolume          int     `json:"base_volume" yaml:"base_volume"`
	SimulationCycle     int     `json:"simulation_cycle" yaml:"-"`
	SimulationFrequency float64 `json:"simulation_frequency" yaml:"frequency"`
	SimulationAmplitude float64 `json:"simulation_amplitude" yaml:"amplitude"`
}

type ItemEffectKind string

const (
	ItemGlobalIPSMultiplier     ItemEffectKind = "GLOBAL_IPS_MULTIPLIER"
	ItemBusinessIPSMultiplier   ItemEffectKind = "BUSINESS_IPS_MULTIPLIER"
	ItemCompanyCarIPSBoost      ItemEffectKind = "COMPANY_CAR_IPS_BOOST"
	ItemGlobalCostReduction     ItemEffectKind = "GLOBAL_COST_REDUCTION"
	ItemMissionDurationModifier ItemEffectKind = "MISSION_DURATION_MODIFIER"
	ItemUnlockMissions          ItemEffectKind = "UNLOCK_MISSIONS"
)

type ItemEffect struct {
	Kind     ItemEffectKind `json:"type" yaml:"type"`
	Value    float64        `json:"value,omitempty" yaml:"value"`
	TargetID string         `json:"target_id,omitempty" yaml:"target"`
}

type ItemType string

const (
	ItemContraband ItemType = "contraband"
	ItemCar        ItemType = "car"
	ItemYacht      ItemType = "yacht"
	ItemPlane      ItemType = "plane"
	ItemResidence  ItemType = "residence"
)

type Item struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Description   string     `json:"description" yaml:"description"`
	Price         float64    `json:"price" yaml:"price"`
	Owned         int        `json:"owned" yaml:"-"`
	Type          ItemType   `json:"type" yaml:"type"`
	Effect        ItemEffect `json:"effect" yaml:"effect"`
	Hidden        bool       `json:"hidden,omitempty" yaml:"hidden"`
	UnlockBalance float64    `json:"unlock_balance,omitempty" yaml:"unlock_balance"`
}

type PropertyCondition string

const (
	Derelict  PropertyCondition = "Derelict"
	Rundown   PropertyCondition = "Rundown"
	Fair      PropertyCondition = "Fair"
	Good      PropertyCondition = "Good"
	Excellent PropertyCondition = "Excellent"
	Pristine  PropertyCondition = "Pristine"
)

var conditionLadder = []PropertyCondition{Derelict, Rundown, Fair, Good, Excellent, Pristine}

type ImprovementType string

const (
	Plumbing   ImprovementType = "Plumbing"
	Electrical ImprovementType = "Electrical"
	Structural ImprovementType = "Structural"
	Cosmetics  ImprovementType = "Cosmetics"
	Security   ImprovementType = "Security"
	Tech       ImprovementType = "Tech"
)

// ImprovementTracks lists every track in display order.
var ImprovementTracks = []ImprovementType{Plumbing, Electrical, Structural, Cosmetics, Security, Tech}

type Improvement struct {
	Level    int     `json:"level" yaml:"level"`
	MaxLevel int     `json:"max_level" yaml:"max_level"`
	BaseCost float64 `json:"base_cost" yaml:"base_cost"`
}

type FlippableProperty struct {
	ID           string                          `json:"id" yaml:"id"`
	Name         string                          `json:"name" yaml:"name"`
	Description  string                          `json:"description" yaml:"description"`
	Owned        bool                            `json:"owned" yaml:"owned"`
	ForSale      bool                            `json:"for_sale" yaml:"for_sale"`
	AuctionPrice float64                         `json:"auction_price" yaml:"auction_price"`
	BaseValue    float64                         `json:"base_value" yaml:"base_value"`
	Condition    PropertyCondition               `json:"condition" yaml:"condition"`
	Improvements map[ImprovementType]Improvement `json:"improvements" yaml:"improvements"`
	IsRented     bool                            `json:"is_rented" yaml:"rented"`
	BaseIncome   float64                         `json:"base_income" yaml:"base_income"`

	// AuctionRequirements gate when a property that is not for sale reaches auction.
	AuctionRequirements []Requirement `json:"auction_requirements,omitempty" yaml:"auction_requirements"`
}

type BoostKind string

const (
	BoostIncome        BoostKind = "INCOME"
	BoostCostReduction BoostKind = "COST_REDUCTION"
)

type Boost struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Kind        BoostKind `json:"type"`
	Multiplier  float64   `json:"multiplier"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type MissionRarity string

const (
	Common   MissionRarity = "Common"
	Uncommon MissionRarity = "Uncommon"
	Rare     MissionRarity = "Rare"
)

type RewardKind string

const (
	RewardIncomeBoost   RewardKind = "INCOME_BOOST"
	RewardCostReduction RewardKind = "COST_REDUCTION"
)

type MissionReward struct {
	Kind       RewardKind `json:"type" yaml:"type"`
	Multiplier float64    `json:"multiplier" yaml:"multiplier"`
	Duration   int        `json:"duration" yaml:"duration"` // seconds
}

type MissionStatus string

const (
	MissionAvailable  MissionStatus = "AVAILABLE"
	MissionInProgress MissionStatus = "IN_PROGRESS"
	MissionCompleted  MissionStatus = "COMPLETED"
)

type Mission struct {
	ID          string        `json:"id"`
	TemplateID  string        `json:"template_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Boss        string        `json:"boss"`
	Status      MissionStatus `json:"status"`
	Reward      MissionReward `json:"reward"`
	Duration    float64       `json:"duration"`
	TimeLeft    float64       `json:"time_left"`
	ExpiresIn   int           `json:"expires_in"`
	Rarity      MissionRarity `json:"rarity"`
}

type PersonnelEffectKind string

const (
	PersonnelGlobalIPS           PersonnelEffectKind = "GLOBAL_IPS_MULTIPLIER"
	PersonnelGlobalCostReduction PersonnelEffectKind = "GLOBAL_COST_REDUCTION"
)

type PersonnelEffect struct {
	Kind  PersonnelEffectKind `json:"type" yaml:"type"`
	Value float64             `json:"value" yaml:"value"`
}

type Personnel struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Description    string          `json:"description" yaml:"description"`
	Cost           float64         `json:"cost" yaml:"cost"`
	CostMultiplier float64         `json:"cost_multiplier" yaml:"cost_multiplier"`
	Owned          int             `json:"owned" yaml:"-"`
	Effect         PersonnelEffect `json:"effect" yaml:"effect"`
}

type RequirementKind string

const (
	RequireBalance  RequirementKind = "balance"
	RequireBusiness RequirementKind = "business"
	RequireItem     RequirementKind = "item"
	RequireProject  RequirementKind = "project"
	RequireProperty RequirementKind = "property"
)

type Requirement struct {
	Kind     RequirementKind `json:"type" yaml:"type"`
	ID       string          `json:"id,omitempty" yaml:"id"`
	Quantity float64         `json:"quantity,omitempty" yaml:"quantity"`
}

type MergerStatus string

const (
	MergerAvailable MergerStatus = "AVAILABLE"
	MergerCompleted MergerStatus = "COMPLETED"
)

type Merger struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	Description      string        `json:"description" yaml:"description"`
	Requirements     []Requirement `json:"requirements" yaml:"requirements"`
	ResultBusinessID string        `json:"result_business_id" yaml:"unlocks_business"`
	Status           MergerStatus  `json:"status" yaml:"-"`
}

type MarketEventKind string

const (
	MarketNormal MarketEventKind = "NORMAL"
	MarketBoom   MarketEventKind = "BOOM"
	MarketCrash  MarketEventKind = "CRASH"
)

// MarketEvent is the market-wide state. Duration and TimeLeft are seconds and
// are ignored while the market is NORMAL, which never expires.
type MarketEvent struct {
	Kind        MarketEventKind `json:"type" yaml:"type"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Multiplier  float64         `json:"multiplier" yaml:"multiplier"`
	Duration    int             `json:"duration" yaml:"-"`
	TimeLeft    int             `json:"time_left" yaml:"-"`
}

// Remaining is the seconds left on the event; +Inf while NORMAL.
func (m MarketEvent) Remaining() float64 {
	if m.Kind == MarketNormal {
		return math.Inf(1)
	}
	return float64(m.TimeLeft)
}

type NewsEvent struct {
	ID          string        `json:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Category    StockCategory `json:"category" yaml:"category"`
	Multiplier  float64       `json:"multiplier" yaml:"multiplier"`
	Duration    int           `json:"duration" yaml:"-"`
	TimeLeft    int           `json:"time_left" yaml:"-"`
}

// NormalMarket is the resting market state.
func NormalMarket() MarketEvent {
	return MarketEvent{
		Kind:        MarketNormal,
		Name:        "Stable Market",
		Description: "The market is stable. Prices are moving predictably.",
		Multiplier:  1,
	}
}

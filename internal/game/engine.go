package game

import (
	"context"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"
)

type Options struct {
	Catalog *Catalog
	// Seed drives every random draw; zero seeds from the wall clock.
	Seed   int64
	Clock  func() time.Time
	Logger *slog.Logger
	// OnTick, when set, receives the report of every tick driven by Run.
	OnTick func(TickReport)
}

// TickReport summarises what one tick changed.
type TickReport struct {
	Tick              uint64
	At                time.Time
	Income            float64
	Balance           float64
	Market            MarketEventKind
	ActiveNews        int
	MissionsGenerated int
	MissionsCompleted int
	MissionsExpired   int
	Constructed       []string
	Unlocked          []string
	AutoTrades        int
	Duration          time.Duration
}

// Engine owns one GameState. Ticks and intents are serialised on mu so
// each runs to completion before the next starts.
type Engine struct {
	mu      sync.Mutex
	log     *slog.Logger
	rand    *mathrand.Rand
	now     func() time.Time
	onTick  func(TickReport)
	catalog *Catalog
	state   GameState
	ticks   uint64
}

func NewEngine(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cat := opts.Catalog
	if cat == nil {
		var err error
		cat, err = DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := mathrand.New(mathrand.NewSource(seed))
	return &Engine{
		log:     logger,
		rand:    rng,
		now:     clock,
		onTick:  opts.OnTick,
		catalog: cat,
		state:   NewGameState(cat, rng, clock()),
	}, nil
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Balance
}

func (e *Engine) IncomePerSecond() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return IncomePerSecond(&e.state)
}

func (e *Engine) CostMultiplier() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CostMultiplier(&e.state)
}

// Tick advances the simulation by one second.
func (e *Engine) Tick() TickReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	now := e.now()
	s := &e.state
	e.ticks++
	rep := TickReport{Tick: e.ticks, At: now}

	rep.Income = IncomePerSecond(s)
	s.Balance += rep.Income

	mev := tickMissions(s, e.catalog, e.rand, now)
	rep.MissionsGenerated = len(mev.generated)
	rep.MissionsExpired = len(mev.expired)
	rep.MissionsCompleted = len(mev.completed)
	for _, m := range mev.completed {
		e.log.Info("mission completed", "mission_id", m.ID, "rarity", m.Rarity, "reward", m.Reward.Kind)
	}

	kev := tickMarketEvents(s, e.catalog, e.rand)
	if kev.marketEnded != nil {
		e.log.Info("market event ended", "name", kev.marketEnded.Name)
	}
	if kev.marketStarted != nil {
		e.log.Info("market event started", "type", kev.marketStarted.Kind, "name", kev.marketStarted.Name, "duration", kev.marketStarted.Duration)
	}
	for _, n := range kev.newsStarted {
		e.log.Info("news event started", "category", n.Category, "name", n.Name, "duration", n.Duration)
	}

	tickStocks(s, e.rand)
	rep.AutoTrades = len(runAutoTrader(s))

	rep.Constructed = tickConstruction(s)
	rep.Unlocked = unlockContent(s)
	for _, id := range rep.Unlocked {
		e.log.Info("content unlocked", "id", id)
	}

	pruneBoosts(s, now)

	rep.Balance = s.Balance
	rep.Market = s.MarketStatus.Kind
	rep.ActiveNews = len(s.ActiveNews)
	rep.Duration = time.Since(start)
	return rep
}

// unlockContent reveals businesses, items and auctions whose conditions now
// hold, returning their ids.
func unlockContent(s *GameState) []string {
	var ids []string
	for i := range s.Businesses {
		b := &s.Businesses[i]
		if b.Unlocked || len(b.UnlockRequirements) == 0 {
			continue
		}
		if Satisfies(b.UnlockRequirements, s) {
			b.Unlocked = true
			b.Hidden = false
			ids = append(ids, b.ID)
		}
	}
	for i := range s.Items {
		it := &s.Items[i]
		if it.Hidden && s.Balance >= it.UnlockBalance {
			it.Hidden = false
			ids = append(ids, it.ID)
		}
	}
	return append(ids, openAuctions(s)...)
}

// Run ticks every interval until ctx ends. Missed ticks are dropped, not replayed.
func (e *Engine) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", every)
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	e.log.Info("engine started", "tick_every", every.String())
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped", "ticks", e.tickCount())
			return nil
		case <-ticker.C:
			rep := e.Tick()
			if e.onTick != nil {
				e.onTick(rep)
			}
		}
	}
}

func (e *Engine) tickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// Export encodes the current state as an opaque save blob.
func (e *Engine) Export() (string, error) {
	snap := e.Snapshot()
	return EncodeSave(snap, e.now())
}

// Import replaces the state with a decoded blob. On failure the current
// state is left untouched.
func (e *Engine) Import(blob string) error {
	next, err := DecodeSave(blob)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = next
	e.log.Info("save imported", "balance", next.Balance, "prestige_points", next.PrestigePoints)
	return nil
}

// Reset discards the current game and starts a new one from the catalog.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = NewGameState(e.catalog, e.rand, e.now())
	e.log.Info("game reset")
}

func (e *Engine) apply(op string, fn func(s *GameState) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(&e.state); err != nil {
		e.log.Debug("intent rejected", "op", op, "err", err)
		return err
	}
	return nil
}

func (e *Engine) Click() {
	e.mu.Lock()
	defer e.mu.Unlock()
	click(&e.state)
}

func (e *Engine) BuyClickerUpgrade() error {
	return e.apply("buy_clicker_upgrade", buyClickerUpgrade)
}

func (e *Engine) BuyBusiness(id string) error {
	return e.apply("buy_business", func(s *GameState) error { return buyBusiness(s, id) })
}

func (e *Engine) BuyBusinessUpgrade(businessID, upgradeID string) error {
	return e.apply("buy_business_upgrade", func(s *GameState) error {
		return buyBusinessUpgrade(s, businessID, upgradeID)
	})
}

func (e *Engine) BuyUpgrade(id string) error {
	return e.apply("buy_upgrade", func(s *GameState) error { return buyUpgrade(s, id) })
}

func (e *Engine) StartProject(id string) error {
	return e.apply("start_project", func(s *GameState) error { return startProject(s, id) })
}

func (e *Engine) TradeStock(id string, qty int) error {
	return e.apply("trade_stock", func(s *GameState) error { return tradeStock(s, id, qty) })
}

func (e *Engine) TradeItem(id string, qty int) error {
	return e.apply("trade_item", func(s *GameState) error { return tradeItem(s, e.catalog, id, qty) })
}

func (e *Engine) Hire(id string) error {
	return e.apply("hire", func(s *GameState) error { return hire(s, id) })
}

func (e *Engine) AssignCar(id string) error {
	return e.apply("assign_car", func(s *GameState) error { return assignCar(s, id) })
}

func (e *Engine) ExecuteMerger(id string) error {
	err := e.apply("execute_merger", func(s *GameState) error { return executeMerger(s, id) })
	if err == nil {
		e.log.Info("merger executed", "merger_id", id)
	}
	return err
}

func (e *Engine) AcceptMission(id string) error {
	return e.apply("accept_mission", func(s *GameState) error { return acceptMission(s, id) })
}

func (e *Engine) BuyProperty(id string) error {
	return e.apply("buy_property", func(s *GameState) error { return buyProperty(s, id) })
}

func (e *Engine) ImproveProperty(id string, track ImprovementType) error {
	return e.apply("improve_property", func(s *GameState) error { return improveProperty(s, id, track) })
}

func (e *Engine) SellProperty(id string) error {
	return e.apply("sell_property", func(s *GameState) error { return sellProperty(s, id) })
}

func (e *Engine) ToggleRent(id string) error {
	return e.apply("toggle_rent", func(s *GameState) error { return toggleRent(s, id) })
}

func (e *Engine) UpdateAutoTrader(stockID string, settings AutoTraderSettings) error {
	return e.apply("update_auto_trader", func(s *GameState) error {
		return updateAutoTrader(s, stockID, settings)
	})
}

// TriggerMarketEvent forces ev onto the market for duration seconds,
// replacing whatever is active.
func (e *Engine) TriggerMarketEvent(ev MarketEvent, duration int) error {
	return e.apply("trigger_market_event", func(s *GameState) error {
		if ev.Kind != MarketBoom && ev.Kind != MarketCrash {
			return ErrInvalidTransition
		}
		if duration <= 0 {
			return ErrInvalidQuantity
		}
		startMarketEvent(s, ev, duration)
		return nil
	})
}

// Prestige restarts the game from the catalog, keeping only the permanent
// counters, each incremented by one.
func (e *Engine) Prestige() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Balance < PrestigeRequirement {
		e.log.Debug("intent rejected", "op", "prestige", "err", ErrRequirementsUnmet)
		return ErrRequirementsUnmet
	}
	next := NewGameState(e.catalog, e.rand, e.now())
	next.PrestigePoints = e.state.PrestigePoints + 1
	next.PlanetsVisited = e.state.PlanetsVisited + 1
	e.state = next
	e.log.Info("prestige", "points", next.PrestigePoints, "planets_visited", next.PlanetsVisited)
	return nil
}

package sim

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"idlecorp/internal/game"
)

// maxBuysPerTick keeps one tick of scripted buying from draining the
// whole budget into the cheapest business.
const maxBuysPerTick = 10

type Config struct {
	Ticks int
	Seed  int64
	// Catalog defaults to the embedded one.
	Catalog *game.Catalog
	// Reinvest is the share of the balance the scripted buyer may spend each
	// tick. Zero leaves the game idle.
	Reinvest float64
	Start    time.Time
	Logger   *slog.Logger
	OnTick   func(game.TickReport)
}

type Summary struct {
	Ticks             int       `json:"ticks"`
	SimulatedUntil    time.Time `json:"simulated_until"`
	Balance           float64   `json:"balance"`
	IncomePerSecond   float64   `json:"income_per_second"`
	BusinessesOwned   int       `json:"businesses_owned"`
	Purchases         int       `json:"purchases"`
	ProjectsCompleted int       `json:"projects_completed"`
	MissionsCompleted int       `json:"missions_completed"`
	MarketEvents      int       `json:"market_events"`
}

// Run plays cfg.Ticks seconds of game time as fast as possible on a
// simulated clock and returns the engine for export.
func Run(ctx context.Context, cfg Config) (*game.Engine, Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Start
	if now.IsZero() {
		now = time.Date(2077, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	engine, err := game.NewEngine(game.Options{
		Catalog: cfg.Catalog,
		Seed:    cfg.Seed,
		Clock:   func() time.Time { return now },
		Logger:  logger,
	})
	if err != nil {
		return nil, Summary{}, err
	}

	var sum Summary
	lastMarket := game.MarketNormal
	for i := 0; i < cfg.Ticks; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return engine, sum, err
			}
		}
		now = now.Add(time.Second)
		rep := engine.Tick()
		sum.Ticks++
		sum.MissionsCompleted += rep.MissionsCompleted
		if rep.Market != game.MarketNormal && lastMarket == game.MarketNormal {
			sum.MarketEvents++
		}
		lastMarket = rep.Market
		if cfg.OnTick != nil {
			cfg.OnTick(rep)
		}
		if cfg.Reinvest > 0 {
			sum.Purchases += reinvest(engine, cfg.Reinvest)
		}
	}

	snap := engine.Snapshot()
	sum.SimulatedUntil = now
	sum.Balance = snap.Balance
	sum.IncomePerSecond = game.IncomePerSecond(&snap)
	for _, b := range snap.Businesses {
		sum.BusinessesOwned += b.Owned
	}
	for _, p := range snap.Projects {
		if p.Status == game.ProjectCompleted {
			sum.ProjectsCompleted++
		}
	}
	return engine, sum, nil
}

// reinvest spends up to share of the balance: projects first, then the
// cheapest unlocked businesses, then any mission on offer.
func reinvest(e *game.Engine, share float64) int {
	snap := e.Snapshot()
	budget := snap.Balance * share
	mult := game.CostMultiplier(&snap)
	bought := 0

	for _, p := range snap.Projects {
		if p.Status == game.ProjectLocked && p.Cost*mult <= budget {
			if e.StartProject(p.ID) == nil {
				budget -= p.Cost * mult
				bought++
			}
		}
	}

	businesses := make([]game.Business, 0, len(snap.Businesses))
	for _, b := range snap.Businesses {
		if b.Unlocked {
			businesses = append(businesses, b)
		}
	}
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].Cost < businesses[j].Cost })
	for _, b := range businesses {
		price := b.Cost * mult
		for bought < maxBuysPerTick && price <= budget {
			before := e.Balance()
			if e.BuyBusiness(b.ID) != nil {
				break
			}
			spent := before - e.Balance()
			budget -= spent
			bought++
			price = spent * b.CostMultiplier
		}
	}

	for _, m := range snap.Missions {
		if m.Status == game.MissionAvailable {
			_ = e.AcceptMission(m.ID)
		}
	}
	return bought
}

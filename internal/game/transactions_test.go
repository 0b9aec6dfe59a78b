package game

import (
	"errors"
	"math"
	mathrand "math/rand"
	"reflect"
	"testing"
)

func TestClickAccumulates(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	for i := 0; i < 50; i++ {
		e.Click()
	}
	s := e.Snapshot()
	if s.Balance != 70 {
		t.Fatalf("balance got %f want 70", s.Balance)
	}
	for _, b := range s.Businesses {
		if b.Owned != 0 {
			t.Fatalf("business %s owned %d after clicking", b.ID, b.Owned)
		}
	}
}

func TestBuyBusinessEscalatesCost(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if err := e.BuyBusiness("biz1"); err != nil {
		t.Fatalf("buy biz1: %v", err)
	}
	s := e.Snapshot()
	b := s.business("biz1")
	if !approx(s.Balance, 10) || b.Owned != 1 || !approx(b.Cost, 11) {
		t.Fatalf("got balance=%f owned=%d cost=%f", s.Balance, b.Owned, b.Cost)
	}

	// 10 left, next costs 11
	if err := e.BuyBusiness("biz1"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if err := e.BuyBusiness("biz4"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected locked business, got %v", err)
	}
	if err := e.BuyBusiness("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMutuallyExclusiveUpgrades(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Balance = 200_000

	if err := e.BuyUpgrade("upg_choice_1a"); err != nil {
		t.Fatalf("buy first choice: %v", err)
	}
	s := e.Snapshot()
	if a := s.upgrade("upg_choice_1a"); a.Owned != 1 {
		t.Fatalf("first choice owned %d want 1", a.Owned)
	}
	if b := s.upgrade("upg_choice_1b"); !b.IsLocked {
		t.Fatalf("partner upgrade not locked")
	}

	before := e.Snapshot()
	if err := e.BuyUpgrade("upg_choice_1b"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected locked partner, got %v", err)
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected purchase changed state")
	}
}

func TestExclusionHoldsForOneWayLinks(t *testing.T) {
	for _, tc := range []struct{ unlink, first, second string }{
		{unlink: "upg_choice_1b", first: "upg_choice_1b", second: "upg_choice_1a"},
		{unlink: "upg_choice_1a", first: "upg_choice_1a", second: "upg_choice_1b"},
	} {
		e, _ := newTestEngine(t, nil)
		e.state.Balance = 200_000
		e.state.upgrade(tc.unlink).MutuallyExclusiveWith = ""

		if err := e.BuyUpgrade(tc.first); err != nil {
			t.Fatalf("buy %s: %v", tc.first, err)
		}
		if err := e.BuyUpgrade(tc.second); !errors.Is(err, ErrLocked) {
			t.Fatalf("buy %s after %s: expected locked, got %v", tc.second, tc.first, err)
		}
		s := e.Snapshot()
		if u := s.upgrade(tc.second); u.Owned != 0 {
			t.Fatalf("%s owned %d alongside %s", tc.second, u.Owned, tc.first)
		}
	}
}

func TestUpgradeEffectAppliesOnCompletion(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Balance = 100_000

	if err := e.BuyUpgrade("upg_choice_1a"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	for i := 0; i < 24; i++ {
		clock.step(e)
	}
	if s := e.Snapshot(); s.ClickValue != 1 || !s.upgrade("upg_choice_1a").IsConstructing {
		t.Fatalf("effect applied before construction finished: click=%f", s.ClickValue)
	}
	rep := clock.step(e)
	s := e.Snapshot()
	if !approx(s.ClickValue, 1.25) {
		t.Fatalf("click value got %f want 1.25", s.ClickValue)
	}
	if u := s.upgrade("upg_choice_1a"); u.IsConstructing || u.ConstructionTimeLeft != 0 {
		t.Fatalf("upgrade still constructing after completion")
	}
	if len(rep.Constructed) != 1 || rep.Constructed[0] != "upg_choice_1a" {
		t.Fatalf("tick report constructed %v", rep.Constructed)
	}
}

func TestRepeatableUpgradeScaling(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Balance = 1_000_000

	if err := e.BuyUpgrade("upg3"); err != nil {
		t.Fatalf("first level: %v", err)
	}
	snap := e.Snapshot()
	if u := snap.upgrade("upg3"); u.ConstructionTimeLeft != 20 {
		t.Fatalf("first build time got %d want 20", u.ConstructionTimeLeft)
	}
	if err := e.BuyUpgrade("upg3"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected rejection while constructing, got %v", err)
	}
	for i := 0; i < 20; i++ {
		clock.step(e)
	}

	before := e.Snapshot().Balance
	if err := e.BuyUpgrade("upg3"); err != nil {
		t.Fatalf("second level: %v", err)
	}
	s := e.Snapshot()
	if u := s.upgrade("upg3"); u.Owned != 2 || u.ConstructionTimeLeft != 40 {
		t.Fatalf("second level owned=%d build=%d", u.Owned, u.ConstructionTimeLeft)
	}
	if paid := before - s.Balance; !approx(paid, 30_000) {
		t.Fatalf("second level cost %f want 30000", paid)
	}
}

func TestLimitedUpgradeMaxOwned(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Balance = 1_000

	if err := e.BuyUpgrade("upg2"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	for i := 0; i < 10; i++ {
		clock.step(e)
	}
	if err := e.BuyUpgrade("upg2"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected limit reached, got %v", err)
	}
	if err := e.BuyUpgrade("upg_hidden"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected hidden upgrade locked, got %v", err)
	}
}

func TestBusinessUpgradeChain(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Balance = 10_000

	if err := e.BuyBusinessUpgrade("biz1", "biz1_upg2"); !errors.Is(err, ErrRequirementsUnmet) {
		t.Fatalf("expected prerequisite rejection, got %v", err)
	}
	if err := e.BuyBusinessUpgrade("biz1", "biz1_upg1"); err != nil {
		t.Fatalf("buy tier 1: %v", err)
	}
	if err := e.BuyBusinessUpgrade("biz1", "biz1_upg1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected rebuy rejection, got %v", err)
	}
	for i := 0; i < 5; i++ {
		clock.step(e)
	}
	s := e.Snapshot()
	if u := s.business("biz1").Upgrades[0]; u.Status != UpgradeOwned {
		t.Fatalf("tier 1 status %s want OWNED", u.Status)
	}
	if err := e.BuyBusinessUpgrade("biz1", "biz1_upg2"); err != nil {
		t.Fatalf("buy tier 2: %v", err)
	}
}

func TestStockRoundTrip(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Balance = 1000
	e.state.stock("stock_omni").Price = 100

	if err := e.TradeStock("stock_omni", 5); err != nil {
		t.Fatalf("buy: %v", err)
	}
	s := e.Snapshot()
	st := s.stock("stock_omni")
	if !approx(s.Balance, 500) || st.Owned != 5 || st.TradingVolume != 5 {
		t.Fatalf("after buy balance=%f owned=%d volume=%d", s.Balance, st.Owned, st.TradingVolume)
	}

	clock.step(e)
	s = e.Snapshot()
	price := s.stock("stock_omni").Price
	before := s.Balance

	if err := e.TradeStock("stock_omni", -5); err != nil {
		t.Fatalf("sell: %v", err)
	}
	s = e.Snapshot()
	if !approx(s.Balance, before+5*price) || s.stock("stock_omni").Owned != 0 {
		t.Fatalf("after sell balance=%f want %f", s.Balance, before+5*price)
	}
	if err := e.TradeStock("stock_omni", -1); !errors.Is(err, ErrInsufficientUnits) {
		t.Fatalf("expected insufficient units, got %v", err)
	}
	if err := e.TradeStock("stock_omni", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestItemTrading(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Balance = 10_000_000

	if err := e.TradeItem("item1", 5); err != nil {
		t.Fatalf("buy contraband: %v", err)
	}
	if err := e.TradeItem("item1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected contraband limit, got %v", err)
	}
	if err := e.TradeItem("item7", 1); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected hidden item locked, got %v", err)
	}

	if err := e.TradeItem("item_intel1", 1); err != nil {
		t.Fatalf("buy intel: %v", err)
	}
	if err := e.TradeItem("item_intel1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected one-time item rejection, got %v", err)
	}
	s := e.Snapshot()
	found := false
	for _, id := range s.UnlockedMissions {
		if id == "m_assassin" {
			found = true
		}
	}
	if !found {
		t.Fatalf("locked missions not unlocked: %v", s.UnlockedMissions)
	}
}

func TestTradeRejectsExtremeQuantities(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Balance = 1_000_000
	if err := e.TradeStock("stock_omni", 2); err != nil {
		t.Fatalf("buy stock: %v", err)
	}
	if err := e.TradeItem("item1", 2); err != nil {
		t.Fatalf("buy contraband: %v", err)
	}
	before := e.Snapshot()

	cases := []struct {
		name  string
		trade func() error
		want  error
	}{
		{"sell min stock", func() error { return e.TradeStock("stock_omni", math.MinInt) }, ErrInsufficientUnits},
		{"sell min item", func() error { return e.TradeItem("item1", math.MinInt) }, ErrInsufficientUnits},
		{"buy max stock", func() error { return e.TradeStock("stock_omni", math.MaxInt) }, ErrInsufficientFunds},
		{"buy max contraband", func() error { return e.TradeItem("item1", math.MaxInt) }, ErrLimitReached},
		{"buy max intel", func() error { return e.TradeItem("item_intel1", math.MaxInt) }, ErrLimitReached},
	}
	for _, tc := range cases {
		if err := tc.trade(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected trades changed state: balance %f -> %f", before.Balance, after.Balance)
	}
}

func TestCompanyCarAssignment(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Balance = 1_000_000

	if err := e.AssignCar("item3"); !errors.Is(err, ErrInsufficientUnits) {
		t.Fatalf("expected unowned car rejection, got %v", err)
	}
	if err := e.TradeItem("item3", 1); err != nil {
		t.Fatalf("buy car: %v", err)
	}
	if err := e.AssignCar("item1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected non-car rejection, got %v", err)
	}
	if err := e.AssignCar("item3"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if s := e.Snapshot(); s.AssignedCarID != "item3" {
		t.Fatalf("assigned car %q", s.AssignedCarID)
	}
	if err := e.TradeItem("item3", -1); err != nil {
		t.Fatalf("sell car: %v", err)
	}
	if s := e.Snapshot(); s.AssignedCarID != "" {
		t.Fatalf("sold car still assigned")
	}
}

func TestProjectsAndHiring(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	if err := e.StartProject("proj1"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	e.state.Balance = 200_000
	if err := e.StartProject("proj1"); err != nil {
		t.Fatalf("start project: %v", err)
	}
	if err := e.StartProject("proj1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected completed project rejection, got %v", err)
	}

	if err := e.Hire("sec1"); err != nil {
		t.Fatalf("hire: %v", err)
	}
	s := e.Snapshot()
	if !approx(s.Balance, 200_000-15_000-100_000) {
		t.Fatalf("balance after hire %f", s.Balance)
	}
	if got := CostMultiplier(&s); !approx(got, 1-0.0005) {
		t.Fatalf("cost multiplier after hire %f", got)
	}
}

func TestMergerIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if err := e.ExecuteMerger("merger1"); !errors.Is(err, ErrRequirementsUnmet) {
		t.Fatalf("expected requirements rejection, got %v", err)
	}

	e.state.Balance = 2_000_000_000
	e.state.project("proj2").Status = ProjectCompleted
	e.state.business("biz4").Owned = 50
	e.state.business("biz6").Owned = 25
	e.state.item("item7").Owned = 1

	if err := e.ExecuteMerger("merger1"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	s := e.Snapshot()
	if b := s.business("biz7"); !b.Unlocked || b.Hidden {
		t.Fatalf("merger result not unlocked")
	}

	before := e.Snapshot()
	if err := e.ExecuteMerger("merger1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected completed merger rejection, got %v", err)
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("re-executing merger changed state")
	}
}

func TestPrestigeResetsProgress(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if err := e.Prestige(); !errors.Is(err, ErrRequirementsUnmet) {
		t.Fatalf("expected prestige rejection, got %v", err)
	}

	e.state.Balance = PrestigeRequirement
	e.state.business("biz1").Owned = 100
	if err := e.Prestige(); err != nil {
		t.Fatalf("prestige: %v", err)
	}
	s := e.Snapshot()
	if s.PrestigePoints != 1 || s.PlanetsVisited != 1 {
		t.Fatalf("counters points=%d planets=%d", s.PrestigePoints, s.PlanetsVisited)
	}
	if s.Balance != StartingBalance || s.business("biz1").Owned != 0 {
		t.Fatalf("progress not reset: balance=%f", s.Balance)
	}
	if got := PrestigeMultiplier(s.PrestigePoints); !approx(got, 1.1) {
		t.Fatalf("prestige multiplier %f", got)
	}
}

func TestPropertyFlip(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Balance = 30_000

	if err := e.BuyProperty("prop3"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected property not at auction, got %v", err)
	}
	if err := e.ToggleRent("prop4"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected rent toggle rejection, got %v", err)
	}
	if err := e.BuyProperty("prop4"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := e.ImproveProperty("prop4", Plumbing); err != nil {
		t.Fatalf("improve: %v", err)
	}
	if err := e.ImproveProperty("prop4", "Pool"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown track rejection, got %v", err)
	}
	before := e.Snapshot().Balance
	if err := e.SellProperty("prop4"); err != nil {
		t.Fatalf("sell: %v", err)
	}
	s := e.Snapshot()
	if got := s.Balance - before; !approx(got, 39_000) {
		t.Fatalf("sale paid %f want 39000", got)
	}
	p := s.property("prop4")
	if p.Owned || !p.ForSale || p.Improvements[Plumbing].Level != 0 {
		t.Fatalf("property not returned to auction: %+v", p)
	}
}

func TestAutoTraderNeedsUnlock(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if err := e.UpdateAutoTrader("stock_omni", AutoTraderSettings{Enabled: true}); !errors.Is(err, ErrFeatureLocked) {
		t.Fatalf("expected feature locked, got %v", err)
	}
}

func TestAutoTraderExecutes(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.AutoTraderUnlocked = true
	e.state.Balance = 1_000_000
	buyBelow := 1e9
	if err := e.UpdateAutoTrader("stock_omni", AutoTraderSettings{Enabled: true, BuyPrice: &buyBelow, BuyQuantity: 3}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rep := clock.step(e)
	if rep.AutoTrades != 1 {
		t.Fatalf("auto trades %d want 1", rep.AutoTrades)
	}
	snap := e.Snapshot()
	if st := snap.stock("stock_omni"); st.Owned != 3 {
		t.Fatalf("auto trader owned %d want 3", st.Owned)
	}

	sellAbove := 0.0
	if err := e.UpdateAutoTrader("stock_omni", AutoTraderSettings{Enabled: true, SellPriceHigh: &sellAbove, SellQuantity: 10}); err != nil {
		t.Fatalf("update: %v", err)
	}
	clock.step(e)
	snap = e.Snapshot()
	if st := snap.stock("stock_omni"); st.Owned != 0 {
		t.Fatalf("auto trader left %d shares", st.Owned)
	}
}

// Random intents interleaved with ticks never push the balance below zero
// and never shrink a business.
func TestRandomIntentsKeepInvariants(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	rng := mathrand.New(mathrand.NewSource(7))

	snap := e.Snapshot()
	var businesses, upgrades, stocks, items []string
	for _, b := range snap.Businesses {
		businesses = append(businesses, b.ID)
	}
	for _, u := range snap.Upgrades {
		upgrades = append(upgrades, u.ID)
	}
	for _, s := range snap.Stocks {
		stocks = append(stocks, s.ID)
	}
	for _, it := range snap.Items {
		items = append(items, it.ID)
	}
	pick := func(ids []string) string { return ids[rng.Intn(len(ids))] }

	prevOwned := map[string]int{}
	prevCost := map[string]float64{}
	for step := 0; step < 3000; step++ {
		switch rng.Intn(9) {
		case 0:
			e.Click()
		case 1:
			_ = e.BuyBusiness(pick(businesses))
		case 2:
			_ = e.BuyUpgrade(pick(upgrades))
		case 3:
			_ = e.TradeStock(pick(stocks), rng.Intn(21)-10)
		case 4:
			_ = e.TradeItem(pick(items), rng.Intn(5)-2)
		case 5:
			_ = e.BuyClickerUpgrade()
		case 6:
			_ = e.StartProject("proj1")
		case 7:
			_ = e.BuyBusinessUpgrade("biz1", "biz1_upg1")
		default:
			clock.step(e)
		}

		s := e.Snapshot()
		if s.Balance < 0 {
			t.Fatalf("step %d: balance %f went negative", step, s.Balance)
		}
		for _, b := range s.Businesses {
			if b.Owned < prevOwned[b.ID] || b.Cost < prevCost[b.ID] {
				t.Fatalf("step %d: business %s shrank", step, b.ID)
			}
			prevOwned[b.ID] = b.Owned
			prevCost[b.ID] = b.Cost
		}
		a, b := s.upgrade("upg_choice_1a"), s.upgrade("upg_choice_1b")
		if a.Owned > 0 && b.Owned > 0 {
			t.Fatalf("step %d: both exclusive upgrades owned", step)
		}
	}
}

package game

import (
	"math"
	mathrand "math/rand"

	"github.com/google/uuid"
)

type marketEvents struct {
	marketEnded   *MarketEvent
	marketStarted *MarketEvent
	newsEnded     []NewsEvent
	newsStarted   []NewsEvent
}

// tickMarketEvents advances the market-wide event and the news pool, then
// rolls for new ones.
func tickMarketEvents(s *GameState, c *Catalog, rng *mathrand.Rand) marketEvents {
	var ev marketEvents

	if s.MarketStatus.Kind != MarketNormal && countdown(&s.MarketStatus.TimeLeft) {
		ended := s.MarketStatus
		ev.marketEnded = &ended
		s.MarketStatus = NormalMarket()
	}

	news := s.ActiveNews[:0]
	for _, n := range s.ActiveNews {
		if countdown(&n.TimeLeft) {
			ev.newsEnded = append(ev.newsEnded, n)
			continue
		}
		news = append(news, n)
	}
	s.ActiveNews = news

	if s.MarketStatus.Kind == MarketNormal && len(c.MarketEvents) > 0 && rng.Float64() < MarketEventChance {
		tpl := c.MarketEvents[rng.Intn(len(c.MarketEvents))]
		startMarketEvent(s, tpl, 60+rng.Intn(240))
		started := s.MarketStatus
		ev.marketStarted = &started
	}

	if len(s.ActiveNews) < MaxActiveNews && rng.Float64() < NewsEventChance {
		if n, ok := drawNews(s, c, rng); ok {
			s.ActiveNews = append(s.ActiveNews, n)
			ev.newsStarted = append(ev.newsStarted, n)
		}
	}
	return ev
}

func startMarketEvent(s *GameState, tpl MarketEvent, duration int) {
	tpl.Duration = duration
	tpl.TimeLeft = duration
	s.MarketStatus = tpl
}

// drawNews picks a template from a category that has no active news.
func drawNews(s *GameState, c *Catalog, rng *mathrand.Rand) (NewsEvent, bool) {
	active := map[StockCategory]bool{}
	for _, n := range s.ActiveNews {
		active[n.Category] = true
	}
	var candidates []NewsEvent
	for _, t := range c.NewsEvents {
		if !active[t.Category] {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return NewsEvent{}, false
	}
	n := candidates[rng.Intn(len(candidates))]
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return NewsEvent{}, false
	}
	n.ID = "news-" + id.String()
	n.Duration = 120 + rng.Intn(480)
	n.TimeLeft = n.Duration
	return n, true
}

func newsMultiplier(s *GameState, cat StockCategory) float64 {
	for _, n := range s.ActiveNews {
		if n.Category == cat {
			return n.Multiplier
		}
	}
	return 1
}

func eventVolumeFactor(kind MarketEventKind) float64 {
	switch kind {
	case MarketCrash:
		return 1.5
	case MarketBoom:
		return 1.2
	default:
		return 1
	}
}

// tickStocks moves every stock one simulation cycle forward.
func tickStocks(s *GameState, rng *mathrand.Rand) {
	for i := range s.Stocks {
		st := &s.Stocks[i]
		st.SimulationCycle++
		cycle := float64(st.SimulationCycle)

		macro := math.Sin(cycle*st.SimulationFrequency) * st.SimulationAmplitude
		micro := math.Sin(cycle*st.SimulationFrequency*5.5) * st.SimulationAmplitude * 0.25
		noiseScale := (math.Sin(cycle*st.SimulationFrequency/10) + 1.5) / 2.5
		noise := (rng.Float64() - 0.5) * st.Volatility * noiseScale * st.BasePrice

		raw := st.BasePrice + macro + micro + noise
		st.Price = math.Max(MinStockPrice, raw*s.MarketStatus.Multiplier*newsMultiplier(s, st.Category))
		st.PriceHistory = pushBounded(st.PriceHistory, st.Price)

		base := st.BaseVolume
		if base <= 0 {
			base = defaultBaseVolume
		}
		volume := float64(base) * (1 + (rng.Float64()-0.5)*st.Volatility*10) * eventVolumeFactor(s.MarketStatus.Kind)
		st.VolumeHistory = pushBounded(st.VolumeHistory, int(math.Max(0, volume)))
	}
}

// pushBounded appends v and drops the oldest entries beyond StockHistoryLength.
func pushBounded[T any](history []T, v T) []T {
	history = append(history, v)
	if over := len(history) - StockHistoryLength; over > 0 {
		history = append(history[:0:0], history[over:]...)
	}
	return history
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"idlecorp/internal/game"
)

const namespace = "idlecorp"

// Collector turns tick reports and intent outcomes into Prometheus series.
type Collector struct {
	balance       prometheus.Gauge
	incomePerSec  prometheus.Gauge
	activeNews    prometheus.Gauge
	marketStatus  *prometheus.GaugeVec
	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	missionsTotal *prometheus.CounterVec
	unlocksTotal  prometheus.Counter
	autoTrades    prometheus.Counter
	intentsTotal  *prometheus.CounterVec
	savesTotal    *prometheus.CounterVec
}

func NewCollector() *Collector {
	return &Collector{
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance_credits",
			Help:      "Current balance after the latest tick",
		}),
		incomePerSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "income_per_second",
			Help:      "Income credited by the latest tick",
		}),
		activeNews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_news",
			Help:      "Number of active sector news events",
		}),
		marketStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "market_status",
			Help:      "1 for the market-wide event currently in effect",
		}, []string{"type"}),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks executed",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent inside one tick",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
		missionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_total",
			Help:      "Mission lifecycle transitions",
		}, []string{"event"}),
		unlocksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlocks_total",
			Help:      "Content unlocked by tick conditions",
		}),
		autoTrades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_trades_total",
			Help:      "Orders placed by the auto-trader",
		}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Player intents by operation and outcome",
		}, []string{"op", "result"}),
		savesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save and load attempts by kind and outcome",
		}, []string{"kind", "result"}),
	}
}

func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.balance, c.incomePerSec, c.activeNews, c.marketStatus, c.ticksTotal,
		c.tickDuration, c.missionsTotal, c.unlocksTotal, c.autoTrades,
		c.intentsTotal, c.savesTotal,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) ObserveTick(rep game.TickReport) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(rep.Duration.Seconds())
	c.balance.Set(rep.Balance)
	c.incomePerSec.Set(rep.Income)
	c.activeNews.Set(float64(rep.ActiveNews))
	for _, kind := range []game.MarketEventKind{game.MarketNormal, game.MarketBoom, game.MarketCrash} {
		v := 0.0
		if kind == rep.Market {
			v = 1
		}
		c.marketStatus.WithLabelValues(string(kind)).Set(v)
	}
	c.missionsTotal.WithLabelValues("generated").Add(float64(rep.MissionsGenerated))
	c.missionsTotal.WithLabelValues("completed").Add(float64(rep.MissionsCompleted))
	c.missionsTotal.WithLabelValues("expired").Add(float64(rep.MissionsExpired))
	c.unlocksTotal.Add(float64(len(rep.Unlocked)))
	c.autoTrades.Add(float64(rep.AutoTrades))
}

func (c *Collector) ObserveIntent(op string, err error) {
	c.intentsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func (c *Collector) ObserveSave(kind string, err error) {
	c.savesTotal.WithLabelValues(kind, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}

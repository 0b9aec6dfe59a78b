package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"idlecorp/internal/game"
)

func TestObserveTick(t *testing.T) {
	c := NewCollector()
	require.NoError(t, c.Register(prometheus.NewRegistry()))

	c.ObserveTick(game.TickReport{
		Income:            12.5,
		Balance:           1000,
		Market:            game.MarketBoom,
		ActiveNews:        2,
		MissionsGenerated: 1,
		Unlocked:          []string{"biz4", "prop3"},
		AutoTrades:        3,
		Duration:          200 * time.Microsecond,
	})
	c.ObserveTick(game.TickReport{Balance: 1012.5, Market: game.MarketNormal})

	require.InDelta(t, 1012.5, testutil.ToFloat64(c.balance), 1e-9)
	require.InDelta(t, 2, testutil.ToFloat64(c.ticksTotal), 1e-9)
	require.InDelta(t, 1, testutil.ToFloat64(c.marketStatus.WithLabelValues("NORMAL")), 1e-9)
	require.InDelta(t, 0, testutil.ToFloat64(c.marketStatus.WithLabelValues("BOOM")), 1e-9)
	require.InDelta(t, 1, testutil.ToFloat64(c.missionsTotal.WithLabelValues("generated")), 1e-9)
	require.InDelta(t, 2, testutil.ToFloat64(c.unlocksTotal), 1e-9)
	require.InDelta(t, 3, testutil.ToFloat64(c.autoTrades), 1e-9)
}

func TestObserveIntentOutcomes(t *testing.T) {
	c := NewCollector()
	c.ObserveIntent("buy_business", nil)
	c.ObserveIntent("buy_business", errors.New("insufficient funds"))
	c.ObserveIntent("buy_business", game.ErrLocked)

	require.InDelta(t, 1, testutil.ToFloat64(c.intentsTotal.WithLabelValues("buy_business", "ok")), 1e-9)
	require.InDelta(t, 2, testutil.ToFloat64(c.intentsTotal.WithLabelValues("buy_business", "rejected")), 1e-9)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewCollector().Register(reg))
	require.Error(t, NewCollector().Register(reg))
}

package sim

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"idlecorp/internal/game"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := Config{Ticks: 900, Seed: 5, Reinvest: 0.5, Logger: quiet()}
	_, a, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	_, b, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRunReinvests(t *testing.T) {
	var ticks int
	engine, sum, err := Run(context.Background(), Config{
		Ticks:    600,
		Seed:     9,
		Reinvest: 0.8,
		Logger:   quiet(),
		OnTick:   func(game.TickReport) { ticks++ },
	})
	require.NoError(t, err)
	require.Equal(t, 600, ticks)
	require.Equal(t, 600, sum.Ticks)
	require.Greater(t, sum.Purchases, 0)
	require.Greater(t, sum.BusinessesOwned, 0)
	require.GreaterOrEqual(t, sum.Balance, 0.0)

	blob, err := engine.Export()
	require.NoError(t, err)
	restored, err := game.DecodeSave(blob)
	require.NoError(t, err)
	require.InDelta(t, sum.Balance, restored.Balance, 1e-6)
}

func TestRunIdleOnlyEarns(t *testing.T) {
	_, sum, err := Run(context.Background(), Config{Ticks: 60, Seed: 2, Logger: quiet()})
	require.NoError(t, err)
	require.Zero(t, sum.Purchases)
	require.Zero(t, sum.BusinessesOwned)
	require.Greater(t, sum.Balance, float64(game.StartingBalance))
}

func TestRunHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, sum, err := Run(ctx, Config{Ticks: 10, Seed: 1, Logger: quiet()})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sum.Ticks)
}

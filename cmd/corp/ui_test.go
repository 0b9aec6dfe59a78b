package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"idlecorp/internal/game"
)

func TestFormatCredits(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.345, "12.35"},
		{999.999, "1,000.00"},
		{1234567 / 10.0, "123,456.70"},
		{-2500, "-2,500.00"},
		{1.5e6, "1.500M"},
		{2e9, "2.000B"},
		{7.25e15, "7.250Qa"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, formatCredits(tc.in), "input %v", tc.in)
	}
}

func TestComma(t *testing.T) {
	require.Equal(t, "7", comma(7))
	require.Equal(t, "100", comma(100))
	require.Equal(t, "1,000", comma(1000))
	require.Equal(t, "12,345,678", comma(12345678))
}

func TestParseTrack(t *testing.T) {
	track, err := parseTrack(" plumbing ")
	require.NoError(t, err)
	require.Equal(t, game.Plumbing, track)

	_, err = parseTrack("moat")
	require.ErrorContains(t, err, "unknown track")
}

func TestLastMove(t *testing.T) {
	require.Zero(t, lastMove(nil))
	require.Zero(t, lastMove([]float64{10}))
	require.InDelta(t, 10.0, lastMove([]float64{5, 10, 11}), 1e-9)
}

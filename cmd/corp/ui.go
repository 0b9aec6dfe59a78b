package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"idlecorp/internal/api"
	"idlecorp/internal/game"
	"idlecorp/internal/saves"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
	dim     = color.New(color.FgHiBlack)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderState(v api.StateView) {
	s := v.State
	title := v.Planet.Name
	if title == "" {
		title = "idlecorp"
	}
	accent.Printf("\n== %s ==\n", strings.ToUpper(title))
	fmt.Printf("Balance:          %s cr\n", formatCredits(s.Balance))
	fmt.Printf("Income:           %s cr/s\n", formatCredits(v.IncomePerSecond))
	fmt.Printf("Click value:      %s cr (level %d, next %s cr)\n", formatCredits(s.ClickValue), s.ClickerLevel, formatCredits(v.NextClicker.Cost))
	fmt.Printf("Cost multiplier:  %s\n", colorizeCost(v.CostMultiplier))
	fmt.Printf("Market:           %s\n", renderMarket(s.MarketStatus))
	if s.PrestigePoints > 0 {
		fmt.Printf("Prestige:         %d pts (+%.0f%% income)\n", s.PrestigePoints, (game.PrestigeMultiplier(s.PrestigePoints)-1)*100)
	}
	if s.AssignedCarID != "" {
		fmt.Printf("Company car:      %s\n", s.AssignedCarID)
	}

	fmt.Println()
	accent.Println("Businesses")
	fmt.Printf("%-10s %-28s %7s %14s %12s\n", "ID", "NAME", "OWNED", "NEXT COST", "BASE/S")
	for _, b := range s.Businesses {
		if b.Hidden && !b.Unlocked {
			continue
		}
		line := fmt.Sprintf("%-10s %-28s %7d %14s %12s",
			b.ID, truncate(b.Name, 28), b.Owned, formatCredits(b.Cost*v.CostMultiplier), formatCredits(b.BaseIncome))
		if !b.Unlocked {
			dim.Println(line + "  (locked)")
			continue
		}
		fmt.Println(line)
	}

	if building := constructing(s); len(building) > 0 {
		fmt.Println()
		accent.Println("Under construction")
		for _, line := range building {
			fmt.Println(line)
		}
	}

	fmt.Println()
	accent.Println("Stocks")
	fmt.Printf("%-6s %-26s %12s %8s %8s\n", "TICKER", "NAME", "PRICE", "MOVE", "OWNED")
	for _, st := range s.Stocks {
		fmt.Printf("%-6s %-26s %12s %8s %8d\n",
			st.Ticker, truncate(st.Name, 26), formatCredits(st.Price), colorizePercent(lastMove(st.PriceHistory)), st.Owned)
	}
	if len(s.ActiveNews) > 0 {
		fmt.Println()
		accent.Println("News")
		for _, n := range s.ActiveNews {
			fmt.Printf("[%s] %s (%ds left)\n", n.Category, n.Name, n.TimeLeft)
		}
	}
	fmt.Println()
}

func constructing(s game.GameState) []string {
	var out []string
	for _, b := range s.Businesses {
		for _, u := range b.Upgrades {
			if u.Status == game.UpgradeConstructing {
				out = append(out, fmt.Sprintf("%-16s %-28s %5ds", u.ID, truncate(u.Name, 28), u.ConstructionTimeLeft))
			}
		}
	}
	for _, u := range s.Upgrades {
		if u.IsConstructing {
			out = append(out, fmt.Sprintf("%-16s %-28s %5ds", u.ID, truncate(u.Name, 28), u.ConstructionTimeLeft))
		}
	}
	return out
}

func renderMarket(m game.MarketEvent) string {
	switch m.Kind {
	case game.MarketBoom:
		return success.Sprintf("%s x%.2f (%ds left)", m.Name, m.Multiplier, m.TimeLeft)
	case game.MarketCrash:
		return danger.Sprintf("%s x%.2f (%ds left)", m.Name, m.Multiplier, m.TimeLeft)
	default:
		return neutral.Sprint(m.Name)
	}
}

func renderMissions(missions []game.Mission, boosts []game.Boost) {
	accent.Println("\n== CORP HQ ==")
	if len(missions) == 0 {
		printInfo("No missions on offer.")
	} else {
		fmt.Printf("%-44s %-22s %-9s %-12s %s\n", "ID", "TITLE", "RARITY", "STATUS", "TIME")
		for _, m := range missions {
			timing := fmt.Sprintf("expires in %ds", m.ExpiresIn)
			switch m.Status {
			case game.MissionInProgress:
				timing = fmt.Sprintf("%.0fs left", m.TimeLeft)
			case game.MissionCompleted:
				timing = "done"
			}
			fmt.Printf("%-44s %-22s %-9s %-12s %s\n", m.ID, truncate(m.Title, 22), m.Rarity, m.Status, timing)
		}
	}
	if len(boosts) > 0 {
		fmt.Println()
		accent.Println("Active boosts")
		for _, b := range boosts {
			fmt.Printf("%-48s until %s\n", b.Description, b.ExpiresAt.Local().Format(time.Kitchen))
		}
	}
	fmt.Println()
}

func renderSaves(slots []saves.Slot) {
	accent.Println("\n== SAVES ==")
	if len(slots) == 0 {
		printInfo("No saves yet.")
		return
	}
	fmt.Printf("%-32s %-20s %10s\n", "SLOT", "SAVED", "BYTES")
	for _, s := range slots {
		fmt.Printf("%-32s %-20s %10s\n", s.Name, s.SavedAt.Local().Format("2006-01-02 15:04:05"), comma(int64(s.Size)))
	}
	fmt.Println()
}

func lastMove(history []float64) float64 {
	if len(history) < 2 || history[len(history)-2] == 0 {
		return 0
	}
	prev, cur := history[len(history)-2], history[len(history)-1]
	return (cur - prev) / prev * 100
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizeCost(mult float64) string {
	text := fmt.Sprintf("x%.4f", mult)
	if mult < 1 {
		return success.Sprint(text)
	}
	return neutral.Sprint(text)
}

var siSuffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// formatCredits prints small amounts with separators and large ones with a
// short-scale suffix.
func formatCredits(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v < 1e6 {
		whole := int64(v)
		cents := int64(math.Round((v - float64(whole)) * 100))
		if cents == 100 {
			whole++
			cents = 0
		}
		return fmt.Sprintf("%s%s.%02d", sign, comma(whole), cents)
	}
	exp := int(math.Floor(math.Log10(v) / 3))
	if exp >= len(siSuffixes) {
		return sign + strconv.FormatFloat(v, 'e', 3, 64)
	}
	return fmt.Sprintf("%s%.3f%s", sign, v/math.Pow(1000, float64(exp)), siSuffixes[exp])
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"idlecorp/internal/api"
	cl "idlecorp/internal/cli"
	"idlecorp/internal/config"
	"idlecorp/internal/game"

	"github.com/spf13/cobra"
)

const requestTimeout = 30 * time.Second

func main() {
	apiBase := resolveAPIBase()

	root := &cobra.Command{
		Use:          "corp",
		Short:        "Idle corporation client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "game server base URL")

	root.AddCommand(
		newStateCmd(&apiBase),
		newClickCmd(&apiBase),
		newClickerCmd(&apiBase),
		newBuyCmd(&apiBase),
		newUpgradeCmd(&apiBase),
		newProjectCmd(&apiBase),
		newStocksCmd(&apiBase),
		newItemsCmd(&apiBase),
		newAutoTraderCmd(&apiBase),
		newHireCmd(&apiBase),
		newCarCmd(&apiBase),
		newMergeCmd(&apiBase),
		newMissionsCmd(&apiBase),
		newPropertyCmd(&apiBase),
		newPrestigeCmd(&apiBase),
		newSavesCmd(&apiBase),
		newSaveCmd(&apiBase),
		newLoadCmd(&apiBase),
		newExportCmd(&apiBase),
		newImportCmd(&apiBase),
		newUseCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// resolveAPIBase prefers the environment, then the stored profile.
func resolveAPIBase() string {
	cfg := config.LoadCLIFromEnv()
	if strings.TrimSpace(os.Getenv("CORP_API_BASE_URL")) != "" {
		return cfg.APIBaseURL
	}
	if p, err := cl.LoadProfile(); err == nil && p.APIBaseURL != "" {
		return p.APIBaseURL
	}
	return cfg.APIBaseURL
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

// runIntent sends one intent and prints the resulting state.
func runIntent(cmd *cobra.Command, apiBase *string, done string, fn func(context.Context, *cl.Client) (api.StateView, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	view, err := fn(ctx, newClient(apiBase))
	if err != nil {
		return err
	}
	printSuccess(done)
	renderState(view)
	return nil
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:     "state",
		Short:   "Show the company dashboard",
		Aliases: []string{"dash"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			view, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderState(view)
			return nil
		},
	}
}

func newClickCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "click [times]",
		Short: "Work the clicker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			times := 1
			if len(args) > 0 {
				n, err := positiveInt(args[0], "times")
				if err != nil {
					return err
				}
				times = n
			}
			return runIntent(cmd, apiBase, fmt.Sprintf("Clicked %d time(s).", times), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.Click(ctx, times)
			})
		},
	}
}

func newClickerCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clicker",
		Short: "Buy the next clicker level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd, apiBase, "Clicker upgraded.", func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.BuyClickerUpgrade(ctx)
			})
		},
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <business>",
		Short: "Buy one unit of a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("Bought %s.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.BuyBusiness(ctx, id)
			})
		},
	}
}

func newUpgradeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <upgrade> | upgrade <business> <upgrade>",
		Short: "Build a global upgrade or a business upgrade",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				biz, upg := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
				return runIntent(cmd, apiBase, fmt.Sprintf("Construction of %s started at %s.", upg, biz), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
					return c.BuyBusinessUpgrade(ctx, biz, upg)
				})
			}
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("Construction of %s started.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.BuyUpgrade(ctx, id)
			})
		},
	}
}

func newProjectCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "project <id>",
		Short: "Fund a research project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("Project %s funded.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.StartProject(ctx, id)
			})
		},
	}
}

func newStocksCmd(apiBase *string) *cobra.Command {
	stocks := &cobra.Command{
		Use:     "stocks",
		Short:   "Stock market commands",
		Aliases: []string{"stock"},
	}
	stocks.AddCommand(
		newTradeCmd(apiBase, "buy", "Buy shares", 1, (*cl.Client).TradeStock),
		newTradeCmd(apiBase, "sell", "Sell shares", -1, (*cl.Client).TradeStock),
	)
	return stocks
}

func newItemsCmd(apiBase *string) *cobra.Command {
	items := &cobra.Command{
		Use:     "items",
		Short:   "Black market commands",
		Aliases: []string{"item"},
	}
	items.AddCommand(
		newTradeCmd(apiBase, "buy", "Buy items", 1, (*cl.Client).TradeItem),
		newTradeCmd(apiBase, "sell", "Sell items", -1, (*cl.Client).TradeItem),
	)
	return items
}

type tradeFunc func(*cl.Client, context.Context, string, int) (api.StateView, error)

func newTradeCmd(apiBase *string, side, short string, sign int, trade tradeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   side + " <id> [quantity]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			qty := 1
			if len(args) > 1 {
				n, err := positiveInt(args[1], "quantity")
				if err != nil {
					return err
				}
				qty = n
			}
			verb := "Bought"
			if sign < 0 {
				verb = "Sold"
			}
			return runIntent(cmd, apiBase, fmt.Sprintf("%s %d x %s.", verb, qty, id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return trade(c, ctx, id, sign*qty)
			})
		},
	}
}

func newAutoTraderCmd(apiBase *string) *cobra.Command {
	var (
		disable  bool
		buyPrice float64
		buyQty   int
		sellHigh float64
		sellLow  float64
		sellQty  int
	)
	cmd := &cobra.Command{
		Use:   "autotrader <stock>",
		Short: "Configure the auto-trader for one stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := game.AutoTraderSettings{
				Enabled:      !disable,
				BuyQuantity:  buyQty,
				SellQuantity: sellQty,
			}
			flags := cmd.Flags()
			if flags.Changed("buy-price") {
				settings.BuyPrice = &buyPrice
			}
			if flags.Changed("sell-high") {
				settings.SellPriceHigh = &sellHigh
			}
			if flags.Changed("sell-low") {
				settings.SellPriceLow = &sellLow
			}
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("Auto-trader for %s updated.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.UpdateAutoTrader(ctx, id, settings)
			})
		},
	}
	cmd.Flags().BoolVar(&disable, "off", false, "disable the auto-trader")
	cmd.Flags().Float64Var(&buyPrice, "buy-price", 0, "buy when the price drops to this value")
	cmd.Flags().IntVar(&buyQty, "buy-qty", 0, "shares bought per trigger")
	cmd.Flags().Float64Var(&sellHigh, "sell-high", 0, "take profit at this price")
	cmd.Flags().Float64Var(&sellLow, "sell-low", 0, "stop loss at this price")
	cmd.Flags().IntVar(&sellQty, "sell-qty", 0, "shares sold per trigger")
	return cmd
}

func newHireCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hire <id>",
		Short: "Hire a specialist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("Hired %s.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.Hire(ctx, id)
			})
		},
	}
}

func newCarCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "car <item>",
		Short: "Assign an owned car as the company car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("%s is now the company car.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.AssignCar(ctx, id)
			})
		},
	}
}

func newMergeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <id>",
		Short: "Execute a merger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runIntent(cmd, apiBase, fmt.Sprintf("Merger %s executed.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.ExecuteMerger(ctx, id)
			})
		},
	}
}

func newMissionsCmd(apiBase *string) *cobra.Command {
	missions := &cobra.Command{
		Use:     "missions",
		Short:   "List HQ missions and active boosts",
		Aliases: []string{"hq"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			list, boosts, err := newClient(apiBase).Missions(ctx)
			if err != nil {
				return err
			}
			renderMissions(list, boosts)
			return nil
		},
	}
	missions.AddCommand(&cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			client := newClient(apiBase)
			if _, err := client.AcceptMission(ctx, strings.TrimSpace(args[0])); err != nil {
				return err
			}
			list, boosts, err := client.Missions(ctx)
			if err != nil {
				return err
			}
			printSuccess("Mission accepted.")
			renderMissions(list, boosts)
			return nil
		},
	})
	return missions
}

func newPropertyCmd(apiBase *string) *cobra.Command {
	property := &cobra.Command{
		Use:     "property",
		Short:   "Property flipping commands",
		Aliases: []string{"prop"},
	}
	property.AddCommand(
		&cobra.Command{
			Use:   "buy <id>",
			Short: "Buy a property on the market",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := strings.TrimSpace(args[0])
				return runIntent(cmd, apiBase, fmt.Sprintf("Bought %s.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
					return c.BuyProperty(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "improve <id> <track>",
			Short: "Raise one improvement track by a level",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := strings.TrimSpace(args[0])
				track, err := parseTrack(args[1])
				if err != nil {
					return err
				}
				return runIntent(cmd, apiBase, fmt.Sprintf("%s improved on %s.", track, id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
					return c.ImproveProperty(ctx, id, track)
				})
			},
		},
		&cobra.Command{
			Use:   "sell <id>",
			Short: "Sell an owned property",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := strings.TrimSpace(args[0])
				return runIntent(cmd, apiBase, fmt.Sprintf("Sold %s.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
					return c.SellProperty(ctx, id)
				})
			},
		},
		&cobra.Command{
			Use:   "rent <id>",
			Short: "Toggle renting out an owned property",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := strings.TrimSpace(args[0])
				return runIntent(cmd, apiBase, fmt.Sprintf("Rent toggled on %s.", id), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
					return c.ToggleRent(ctx, id)
				})
			},
		},
	)
	return property
}

func newPrestigeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prestige",
		Short: "Cash out progress for prestige points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd, apiBase, "Prestiged.", func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.Prestige(ctx)
			})
		},
	}
}

func newSavesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List save slots on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			slots, err := newClient(apiBase).ListSaves(ctx)
			if err != nil {
				return err
			}
			renderSaves(slots)
			return nil
		},
	}
}

func newSaveCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "save [slot]",
		Short: "Write the running game to a save slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := slotFromArgs(args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			if err := newClient(apiBase).SaveSlot(ctx, slot); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Saved to %s.", slot))
			return nil
		},
	}
}

func newLoadCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load [slot]",
		Short: "Replace the running game with a save slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := slotFromArgs(args)
			if err != nil {
				return err
			}
			return runIntent(cmd, apiBase, fmt.Sprintf("Loaded %s.", slot), func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.LoadSlot(ctx, slot)
			})
		},
	}
}

func newExportCmd(apiBase *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the save blob of the running game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			blob, err := newClient(apiBase).Export(ctx)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(blob)
				return nil
			}
			if err := os.WriteFile(out, []byte(blob+"\n"), 0o600); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Save written to %s.", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the blob to this file")
	return cmd
}

func newImportCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the running game with a save blob from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			blob := strings.TrimSpace(string(body))
			if blob == "" {
				return errors.New("save file is empty")
			}
			return runIntent(cmd, apiBase, "Save imported.", func(ctx context.Context, c *cl.Client) (api.StateView, error) {
				return c.Import(ctx, blob)
			})
		},
	}
}

func newUseCmd() *cobra.Command {
	var slot string
	cmd := &cobra.Command{
		Use:   "use <api-url>",
		Short: "Remember a server and default save slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cl.LoadProfile()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				p.APIBaseURL = args[0]
			}
			if cmd.Flags().Changed("slot") {
				p.Slot = slot
			}
			if p.APIBaseURL == "" && p.Slot == "" {
				if err := cl.ClearProfile(); err != nil {
					return err
				}
				printWarn("Profile cleared.")
				return nil
			}
			if err := cl.SaveProfile(p); err != nil {
				return err
			}
			printInfo(fmt.Sprintf("Server %s, slot %s.", orDefault(p.APIBaseURL, "(env)"), orDefault(p.Slot, "default")))
			return nil
		},
	}
	cmd.Flags().StringVar(&slot, "slot", "", "default save slot for save and load")
	return cmd
}

func slotFromArgs(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	p, err := cl.LoadProfile()
	if err != nil {
		return "", err
	}
	return orDefault(p.Slot, "default"), nil
}

func parseTrack(raw string) (game.ImprovementType, error) {
	raw = strings.TrimSpace(raw)
	for _, t := range game.ImprovementTracks {
		if strings.EqualFold(string(t), raw) {
			return t, nil
		}
	}
	names := make([]string, 0, len(game.ImprovementTracks))
	for _, t := range game.ImprovementTracks {
		names = append(names, strings.ToLower(string(t)))
	}
	return "", fmt.Errorf("unknown track %q (want one of %s)", raw, strings.Join(names, ", "))
}

func positiveInt(raw, label string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", label)
	}
	return v, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

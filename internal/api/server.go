package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"idlecorp/internal/game"
	"idlecorp/internal/metrics"
	"idlecorp/internal/saves"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxClicksPerRequest bounds the batch a single click request may apply.
const maxClicksPerRequest = 1000

// maxBodyBytes bounds every /v1 request body, import blobs included.
const maxBodyBytes = 8 << 20

type Server struct {
	log      *slog.Logger
	engine   *game.Engine
	store    saves.Store
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
	mux      *chi.Mux
}

// New wires the HTTP surface around engine. store, collector and gatherer
// may be nil; the matching routes are then left out.
func New(logger *slog.Logger, engine *game.Engine, store saves.Store, collector *metrics.Collector, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:      logger,
		engine:   engine,
		store:    store,
		metrics:  collector,
		gatherer: gatherer,
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody(maxBodyBytes))
		r.Get("/state", s.handleState)
		r.Get("/missions", s.handleMissions)

		r.Post("/click", s.handleClick)
		r.Post("/clicker/upgrade", s.handleClickerUpgrade)
		r.Post("/businesses/{id}/buy", s.handleBuyBusiness)
		r.Post("/businesses/{id}/upgrades/{upgrade_id}/buy", s.handleBuyBusinessUpgrade)
		r.Post("/upgrades/{id}/buy", s.handleBuyUpgrade)
		r.Post("/projects/{id}/start", s.handleStartProject)
		r.Post("/stocks/{id}/trade", s.handleTradeStock)
		r.Put("/stocks/{id}/auto-trader", s.handleAutoTrader)
		r.Post("/items/{id}/trade", s.handleTradeItem)
		r.Post("/personnel/{id}/hire", s.handleHire)
		r.Post("/car", s.handleAssignCar)
		r.Post("/mergers/{id}/execute", s.handleMerger)
		r.Post("/missions/{id}/accept", s.handleAcceptMission)
		r.Post("/properties/{id}/buy", s.handleBuyProperty)
		r.Post("/properties/{id}/improve", s.handleImproveProperty)
		r.Post("/properties/{id}/sell", s.handleSellProperty)
		r.Post("/properties/{id}/rent", s.handleToggleRent)
		r.Post("/market/events", s.handleMarketEvent)
		r.Post("/prestige", s.handlePrestige)
		r.Post("/reset", s.handleReset)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		if s.store != nil {
			r.Get("/saves", s.handleListSaves)
			r.Post("/saves/{slot}", s.handleSaveSlot)
			r.Post("/saves/{slot}/load", s.handleLoadSlot)
		}
	})
}

// StateView is the read model returned by /v1/state and every accepted intent.
type StateView struct {
	State           game.GameState          `json:"state"`
	IncomePerSecond float64                 `json:"income_per_second"`
	CostMultiplier  float64                 `json:"cost_multiplier"`
	NextClicker     game.ClickerUpgradeInfo `json:"next_clicker"`
	Planet          game.Planet             `json:"planet"`
}

func (s *Server) view() StateView {
	snap := s.engine.Snapshot()
	return StateView{
		State:           snap,
		IncomePerSecond: game.IncomePerSecond(&snap),
		CostMultiplier:  game.CostMultiplier(&snap),
		NextClicker:     game.NextClickerUpgrade(snap.ClickerLevel),
		Planet:          s.engine.Catalog().Planet(snap.PlanetsVisited),
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleMissions(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"missions":      snap.Missions,
		"active_boosts": snap.ActiveBoosts,
	})
}

// intent runs one engine operation and answers with the fresh state view.
func (s *Server) intent(w http.ResponseWriter, op string, fn func() error) {
	err := fn()
	if s.metrics != nil {
		s.metrics.ObserveIntent(op, err)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxClicksPerRequest {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("n must be between 1 and %d", maxClicksPerRequest))
			return
		}
		n = v
	}
	s.intent(w, "click", func() error {
		for i := 0; i < n; i++ {
			s.engine.Click()
		}
		return nil
	})
}

func (s *Server) handleClickerUpgrade(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, "buy_clicker_upgrade", s.engine.BuyClickerUpgrade)
}

func (s *Server) handleBuyBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "buy_business", func() error { return s.engine.BuyBusiness(id) })
}

func (s *Server) handleBuyBusinessUpgrade(w http.ResponseWriter, r *http.Request) {
	id, upgradeID := chi.URLParam(r, "id"), chi.URLParam(r, "upgrade_id")
	s.intent(w, "buy_business_upgrade", func() error { return s.engine.BuyBusinessUpgrade(id, upgradeID) })
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "buy_upgrade", func() error { return s.engine.BuyUpgrade(id) })
}

func (s *Server) handleStartProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "start_project", func() error { return s.engine.StartProject(id) })
}

type tradeRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleTradeStock(w http.ResponseWriter, r *http.Request) {
	var in tradeRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	s.intent(w, "trade_stock", func() error { return s.engine.TradeStock(id, in.Quantity) })
}

func (s *Server) handleAutoTrader(w http.ResponseWriter, r *http.Request) {
	var in game.AutoTraderSettings
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	s.intent(w, "update_auto_trader", func() error { return s.engine.UpdateAutoTrader(id, in) })
}

func (s *Server) handleTradeItem(w http.ResponseWriter, r *http.Request) {
	var in tradeRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	s.intent(w, "trade_item", func() error { return s.engine.TradeItem(id, in.Quantity) })
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "hire", func() error { return s.engine.Hire(id) })
}

func (s *Server) handleAssignCar(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemID string `json:"item_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.intent(w, "assign_car", func() error { return s.engine.AssignCar(strings.TrimSpace(in.ItemID)) })
}

func (s *Server) handleMerger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "execute_merger", func() error { return s.engine.ExecuteMerger(id) })
}

func (s *Server) handleAcceptMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "accept_mission", func() error { return s.engine.AcceptMission(id) })
}

func (s *Server) handleBuyProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "buy_property", func() error { return s.engine.BuyProperty(id) })
}

func (s *Server) handleImproveProperty(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Track game.ImprovementType `json:"track"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	s.intent(w, "improve_property", func() error { return s.engine.ImproveProperty(id, in.Track) })
}

func (s *Server) handleSellProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "sell_property", func() error { return s.engine.SellProperty(id) })
}

func (s *Server) handleToggleRent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.intent(w, "toggle_rent", func() error { return s.engine.ToggleRent(id) })
}

func (s *Server) handleMarketEvent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Type       game.MarketEventKind `json:"type"`
		Name       string               `json:"name"`
		Multiplier float64              `json:"multiplier"`
		Duration   int                  `json:"duration"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Multiplier <= 0 {
		writeError(w, http.StatusBadRequest, "multiplier must be positive")
		return
	}
	ev := game.MarketEvent{Kind: in.Type, Name: strings.TrimSpace(in.Name), Multiplier: in.Multiplier}
	s.intent(w, "trigger_market_event", func() error { return s.engine.TriggerMarketEvent(ev, in.Duration) })
}

func (s *Server) handlePrestige(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, "prestige", s.engine.Prestige)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.intent(w, "reset", func() error {
		s.engine.Reset()
		return nil
	})
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	blob, err := s.engine.Export()
	if s.metrics != nil {
		s.metrics.ObserveSave("export", err)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blob": blob})
}

type importRequest struct {
	Blob string `json:"blob"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var in importRequest
	if err := decodeJSON(r, &in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "save blob too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := s.engine.Import(in.Blob)
	if s.metrics != nil {
		s.metrics.ObserveSave("import", err)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	slots, err := s.store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saves": slots})
}

func (s *Server) handleSaveSlot(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	blob, err := s.engine.Export()
	if err == nil {
		err = s.store.Save(r.Context(), slot, blob)
	}
	if s.metrics != nil {
		s.metrics.ObserveSave("slot_save", err)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Info("game saved", "slot", slot, "bytes", len(blob))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "slot": slot})
}

func (s *Server) handleLoadSlot(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	blob, err := s.store.Load(r.Context(), slot)
	if err == nil {
		err = s.engine.Import(blob)
	}
	if s.metrics != nil {
		s.metrics.ObserveSave("slot_load", err)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound), errors.Is(err, saves.ErrNoSave):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrInsufficientUnits),
		errors.Is(err, game.ErrInvalidQuantity), errors.Is(err, game.ErrInvalidTicker):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrCorruptSave), errors.Is(err, saves.ErrInvalidSlot):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrLocked), errors.Is(err, game.ErrFeatureLocked), errors.Is(err, game.ErrRequirementsUnmet):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrInvalidTransition), errors.Is(err, game.ErrLimitReached):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

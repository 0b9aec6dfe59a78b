package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"idlecorp/internal/api"
	"idlecorp/internal/game"
	"idlecorp/internal/saves"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) State(ctx context.Context) (api.StateView, error) {
	var out api.StateView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/state", nil, &out)
	return out, err
}

func (c *Client) Missions(ctx context.Context) ([]game.Mission, []game.Boost, error) {
	var out struct {
		Missions     []game.Mission `json:"missions"`
		ActiveBoosts []game.Boost   `json:"active_boosts"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/missions", nil, &out)
	return out.Missions, out.ActiveBoosts, err
}

func (c *Client) Click(ctx context.Context, times int) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/click?n="+strconv.Itoa(times), nil)
}

func (c *Client) BuyClickerUpgrade(ctx context.Context) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/clicker/upgrade", nil)
}

func (c *Client) BuyBusiness(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/businesses/"+url.PathEscape(id)+"/buy", nil)
}

func (c *Client) BuyBusinessUpgrade(ctx context.Context, businessID, upgradeID string) (api.StateView, error) {
	path := fmt.Sprintf("/v1/businesses/%s/upgrades/%s/buy", url.PathEscape(businessID), url.PathEscape(upgradeID))
	return c.intent(ctx, http.MethodPost, path, nil)
}

func (c *Client) BuyUpgrade(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/upgrades/"+url.PathEscape(id)+"/buy", nil)
}

func (c *Client) StartProject(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(id)+"/start", nil)
}

func (c *Client) TradeStock(ctx context.Context, id string, qty int) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/stocks/"+url.PathEscape(id)+"/trade", map[string]any{"quantity": qty})
}

func (c *Client) UpdateAutoTrader(ctx context.Context, id string, settings game.AutoTraderSettings) (api.StateView, error) {
	return c.intent(ctx, http.MethodPut, "/v1/stocks/"+url.PathEscape(id)+"/auto-trader", settings)
}

func (c *Client) TradeItem(ctx context.Context, id string, qty int) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/items/"+url.PathEscape(id)+"/trade", map[string]any{"quantity": qty})
}

func (c *Client) Hire(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/personnel/"+url.PathEscape(id)+"/hire", nil)
}

func (c *Client) AssignCar(ctx context.Context, itemID string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/car", map[string]any{"item_id": itemID})
}

func (c *Client) ExecuteMerger(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/mergers/"+url.PathEscape(id)+"/execute", nil)
}

func (c *Client) AcceptMission(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/missions/"+url.PathEscape(id)+"/accept", nil)
}

func (c *Client) BuyProperty(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/properties/"+url.PathEscape(id)+"/buy", nil)
}

func (c *Client) ImproveProperty(ctx context.Context, id string, track game.ImprovementType) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/properties/"+url.PathEscape(id)+"/improve", map[string]any{"track": track})
}

func (c *Client) SellProperty(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/properties/"+url.PathEscape(id)+"/sell", nil)
}

func (c *Client) ToggleRent(ctx context.Context, id string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/properties/"+url.PathEscape(id)+"/rent", nil)
}

func (c *Client) Prestige(ctx context.Context) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/prestige", nil)
}

func (c *Client) Export(ctx context.Context) (string, error) {
	var out struct {
		Blob string `json:"blob"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/export", nil, &out)
	return out.Blob, err
}

func (c *Client) Import(ctx context.Context, blob string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/import", map[string]any{"blob": strings.TrimSpace(blob)})
}

func (c *Client) ListSaves(ctx context.Context) ([]saves.Slot, error) {
	var out struct {
		Saves []saves.Slot `json:"saves"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/saves", nil, &out)
	return out.Saves, err
}

func (c *Client) SaveSlot(ctx context.Context, slot string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/saves/"+url.PathEscape(slot), nil, nil)
}

func (c *Client) LoadSlot(ctx context.Context, slot string) (api.StateView, error) {
	return c.intent(ctx, http.MethodPost, "/v1/saves/"+url.PathEscape(slot)+"/load", nil)
}

func (c *Client) intent(ctx context.Context, method, path string, in any) (api.StateView, error) {
	var out api.StateView
	err := c.jsonRequest(ctx, method, path, in, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipehub/pkg/models"
)

const (
	MealDBBase  = "https://www.themealdb.com/api/json/v1/1"
	DrinkDBBase = "https://www.thecocktaildb.com/api/json/v1/1"
)

// ErrNotFound is returned by Lookup when the upstream has no item for the id.
var ErrNotFound = errors.New("upstream: not found")

// Client talks to one MealDB-compatible catalog. MealDB and CocktailDB share
// the same endpoints and differ only in the envelope key and field prefix,
// which Kind selects.
type Client struct {
	BaseURL string
	Kind    models.Kind
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewMealDB creates a client for a MealDB-compatible base URL.
func NewMealDB(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return newClient(baseURL, models.KindMeal, timeout, logger)
}

// NewCocktailDB creates a client for a CocktailDB-compatible base URL.
func NewCocktailDB(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return newClient(baseURL, models.KindDrink, timeout, logger)
}

func newClient(baseURL string, kind models.Kind, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Kind:    kind,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger.Named("upstream").With(zap.String("source", sourceName(kind))),
	}
}

func (c *Client) Name() string { return sourceName(c.Kind) }

func sourceName(kind models.Kind) string {
	if kind == models.KindDrink {
		return "cocktaildb"
	}
	return "mealdb"
}

// entry covers both catalogs' field names; only one set is populated.
type entry struct {
	IDMeal        string `json:"idMeal"`
	StrMeal       string `json:"strMeal"`
	StrMealThumb  string `json:"strMealThumb"`
	IDDrink       string `json:"idDrink"`
	StrDrink      string `json:"strDrink"`
	StrDrinkThumb string `json:"strDrinkThumb"`
	StrCategory   string `json:"strCategory"`
}

func (e entry) toRaw(kind models.Kind) models.RawItem {
	if kind == models.KindDrink {
		return models.RawItem{ID: e.IDDrink, Name: e.StrDrink, Thumbnail: e.StrDrinkThumb, Category: e.StrCategory}
	}
	return models.RawItem{ID: e.IDMeal, Name: e.StrMeal, Thumbnail: e.StrMealThumb, Category: e.StrCategory}
}

func (c *Client) envelopeKey() string {
	if c.Kind == models.KindDrink {
		return "drinks"
	}
	return "meals"
}

// FilterByCategory lists every item the upstream files under category.
// The returned items carry category even though the listing omits it.
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]models.RawItem, error) {
	body, err := c.get(ctx, "/filter.php", url.Values{"c": {category}})
	if err != nil {
		return nil, err
	}

	var entries []entry
	if _, err := c.decodeEnvelope(body, &entries); err != nil {
		return nil, err
	}

	out := make([]models.RawItem, 0, len(entries))
	for _, e := range entries {
		item := e.toRaw(c.Kind)
		if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Name) == "" {
			continue
		}
		item.Category = category
		out = append(out, item)
	}

	c.Logger.Debug("category listed", zap.String("category", category), zap.Int("items", len(out)))
	return out, nil
}

// Lookup returns the full upstream record for id as decoded JSON.
func (c *Client) Lookup(ctx context.Context, id string) (map[string]any, error) {
	body, err := c.get(ctx, "/lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	return c.firstRecord(body)
}

// Random returns one random full record, as random.php picks it.
func (c *Client) Random(ctx context.Context) (map[string]any, error) {
	body, err := c.get(ctx, "/random.php", nil)
	if err != nil {
		return nil, err
	}
	return c.firstRecord(body)
}

func (c *Client) firstRecord(body []byte) (map[string]any, error) {
	var items []map[string]any
	ok, err := c.decodeEnvelope(body, &items)
	if err != nil {
		return nil, err
	}
	if !ok || len(items) == 0 || items[0] == nil {
		return nil, ErrNotFound
	}
	return items[0], nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", c.Name(), err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.Name(), err)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		upstreamRequests.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%s: request: %w", c.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamRequests.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%s: read body: %w", c.Name(), err)
	}
	upstreamLatency.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		upstreamRequests.WithLabelValues(c.Name(), "status").Inc()
		return nil, fmt.Errorf("%s: status %d: %s", c.Name(), resp.StatusCode, truncate(string(body), 200))
	}
	upstreamRequests.WithLabelValues(c.Name(), "ok").Inc()
	return body, nil
}

// decodeEnvelope unpacks {"meals": [...]} or {"drinks": [...]} into dst.
// The upstream answers null or a bare string ("no data found") when it has
// nothing; both report ok=false rather than an error.
func (c *Client) decodeEnvelope(body []byte, dst any) (bool, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return false, fmt.Errorf("%s: decode: %w", c.Name(), err)
	}

	raw, ok := env[c.envelopeKey()]
	if !ok {
		return false, nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed[0] != '[' {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%s: decode %s: %w", c.Name(), c.envelopeKey(), err)
	}
	return true, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

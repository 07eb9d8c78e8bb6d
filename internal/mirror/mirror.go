package mirror

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	MealPrefix  = "/mealdb/api/json/v1/1"
	DrinkPrefix = "/cocktaildb/api/json/v1/1"
)

// Dataset is the on-disk mirror format: full upstream items, exactly as
// lookup.php would return them.
type Dataset struct {
	Meals  []map[string]any `json:"meals"`
	Drinks []map[string]any `json:"drinks"`
}

// Load reads and validates a dataset file so a bad file fails at startup
// instead of on the first request.
func Load(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mirror data: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("mirror data invalid JSON: %w", err)
	}
	return &ds, nil
}

type catalog struct {
	envelope string // "meals" or "drinks"
	prefix   string // "Meal" or "Drink"
	items    []map[string]any
}

// Handler serves a Dataset through MealDB- and CocktailDB-compatible routes.
type Handler struct {
	meals  catalog
	drinks catalog
}

func NewHandler(ds *Dataset) *Handler {
	return &Handler{
		meals:  catalog{envelope: "meals", prefix: "Meal", items: ds.Meals},
		drinks: catalog{envelope: "drinks", prefix: "Drink", items: ds.Drinks},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	meals := r.Group(MealPrefix)
	meals.GET("/filter.php", h.filter(&h.meals))
	meals.GET("/lookup.php", h.lookup(&h.meals))
	meals.GET("/random.php", h.random(&h.meals))

	drinks := r.Group(DrinkPrefix)
	drinks.GET("/filter.php", h.filter(&h.drinks))
	drinks.GET("/lookup.php", h.lookup(&h.drinks))
	drinks.GET("/random.php", h.random(&h.drinks))
}

// filter mimics filter.php?c=: matching items reduced to id, name and thumb,
// and null (not an empty array) when nothing matches.
func (h *Handler) filter(cat *catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := strings.TrimSpace(c.Query("c"))
		idKey, nameKey, thumbKey := "id"+cat.prefix, "str"+cat.prefix, "str"+cat.prefix+"Thumb"

		var out []map[string]any
		for _, item := range cat.items {
			if !strings.EqualFold(stringField(item, "strCategory"), category) {
				continue
			}
			out = append(out, map[string]any{
				idKey:    item[idKey],
				nameKey:  item[nameKey],
				thumbKey: item[thumbKey],
			})
		}
		c.JSON(http.StatusOK, gin.H{cat.envelope: out})
	}
}

func (h *Handler) lookup(cat *catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Query("i"))
		idKey := "id" + cat.prefix
		for _, item := range cat.items {
			if stringField(item, idKey) == id {
				c.JSON(http.StatusOK, gin.H{cat.envelope: []map[string]any{item}})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{cat.envelope: nil})
	}
}

// random answers with one item picked uniformly, or null for an empty
// dataset.
func (h *Handler) random(cat *catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(cat.items) == 0 {
			c.JSON(http.StatusOK, gin.H{cat.envelope: nil})
			return
		}
		item := cat.items[rand.IntN(len(cat.items))]
		c.JSON(http.StatusOK, gin.H{cat.envelope: []map[string]any{item}})
	}
}

func stringField(item map[string]any, key string) string {
	s, _ := item[key].(string)
	return s
}

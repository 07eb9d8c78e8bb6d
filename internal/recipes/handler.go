package recipes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipehub/internal/catalog"
	"recipehub/internal/upstream"
	"recipehub/pkg/models"
)

type Handler struct {
	Service *Service
	Logger  *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Logger: logger.Named("recipes")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)                // GET /recipes/search?q=
	rg.GET("/browse", h.browse)                // GET /recipes/browse?type=&diet=&...
	rg.GET("/suggested", h.suggested)          // GET /recipes/suggested?excludeId=&limit=
	rg.GET("/curated", h.curatedMeals)         // GET /recipes/curated
	rg.GET("/drinks/curated", h.curatedDrinks) // GET /recipes/drinks/curated
	rg.GET("/drinks/random", h.randomDrink)    // GET /recipes/drinks/random
	rg.GET("/:id/details", h.details)          // GET /recipes/:id/details?type=
	rg.GET("/:id/nutrition", h.nutrition)      // GET /recipes/:id/nutrition
}

func (h *Handler) search(c *gin.Context) {
	kind, _ := models.ParseKind(c.Query("type"))

	results, err := h.Service.Search(c.Request.Context(), c.Query("q"), kind)
	if err != nil {
		h.catalogError(c, "search", err)
		return
	}

	if kind == models.KindDrink {
		drinks := make([]models.DrinkSummary, 0, len(results))
		for _, r := range results {
			drinks = append(drinks, models.DrinkSummary{IDDrink: r.ID, StrDrink: r.Name, StrDrinkThumb: r.Thumbnail})
		}
		c.JSON(http.StatusOK, gin.H{"drinks": drinks})
		return
	}

	meals := make([]models.MealSummary, 0, len(results))
	for _, r := range results {
		meals = append(meals, models.MealSummary{IDMeal: r.ID, StrMeal: r.Name, StrMealThumb: r.Thumbnail})
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *Handler) browse(c *gin.Context) {
	q := BrowseQuery{
		Q:           c.Query("q"),
		MinCalories: parseOptionalInt(c.Query("minCalories")),
		MaxCalories: parseOptionalInt(c.Query("maxCalories")),
		Sort:        ParseSort(c.Query("sort")),
		Page:        parseInt(c.Query("page"), 1),
		PageSize:    parseInt(firstNonEmpty(c.Query("limit"), c.Query("pageSize")), DefaultPageSize),
	}
	// "all", empty and unknown values all mean both collections.
	q.Kind, _ = models.ParseKind(c.Query("type"))
	q.Diet, _ = models.ParseDiet(c.Query("diet"))

	page, err := h.Service.Browse(c.Request.Context(), q)
	if err != nil {
		h.catalogError(c, "browse", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) suggested(c *gin.Context) {
	kind, _ := models.ParseKind(c.Query("type"))
	limit := parseInt(c.Query("limit"), DefaultSuggestLimit)

	results, err := h.Service.Suggested(c.Request.Context(), c.Query("excludeId"), limit, kind)
	if err != nil {
		h.catalogError(c, "suggested", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) details(c *gin.Context) {
	kind, ok := models.ParseKind(c.Query("type"))
	if !ok {
		kind = models.KindMeal
	}

	recipe, err := h.Service.Details(c.Request.Context(), c.Param("id"), kind)
	if errors.Is(err, upstream.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if err != nil {
		h.Logger.Warn("details lookup failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *Handler) curatedMeals(c *gin.Context) {
	h.curated(c, models.KindMeal, "meals")
}

func (h *Handler) curatedDrinks(c *gin.Context) {
	h.curated(c, models.KindDrink, "drinks")
}

func (h *Handler) curated(c *gin.Context, kind models.Kind, envelope string) {
	items, err := h.Service.Curated(c.Request.Context(), kind)
	if err != nil {
		h.Logger.Warn("curated lookup failed", zap.String("kind", string(kind)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "curated lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{envelope: items})
}

func (h *Handler) randomDrink(c *gin.Context) {
	rec, err := h.Service.RandomDrink(c.Request.Context())
	if errors.Is(err, upstream.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no drink available"})
		return
	}
	if err != nil {
		h.Logger.Warn("random drink failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "random drink failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drinks": []map[string]any{rec}})
}

func (h *Handler) nutrition(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"nutrition": h.Service.Nutrition(c.Param("id"))})
}

// catalogError maps warm-up failures to 503 so clients can retry; the cache
// retries the fetch on the next request.
func (h *Handler) catalogError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrUpstreamUnavailable), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe catalog unavailable"})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		h.Logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
	}
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// parseOptionalInt returns nil for empty or malformed input; bad numeric
// filters are ignored rather than rejected.
func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

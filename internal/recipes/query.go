package recipes

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"recipehub/internal/catalog"
	"recipehub/pkg/models"
)

const (
	MaxSearchResults    = 20
	DefaultPageSize     = 12
	MaxPageSize         = 100
	DefaultSuggestLimit = 6
	MaxSuggestLimit     = 50
)

type SortKey string

const (
	SortLatest       SortKey = "latest"
	SortCaloriesAsc  SortKey = "calories_asc"
	SortCaloriesDesc SortKey = "calories_desc"
	SortPopularity   SortKey = "popularity"
)

// ParseSort falls back to SortLatest for anything it does not recognise.
func ParseSort(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortCaloriesAsc:
		return SortCaloriesAsc
	case SortCaloriesDesc:
		return SortCaloriesDesc
	case SortPopularity:
		return SortPopularity
	default:
		return SortLatest
	}
}

// BrowseQuery selects, filters, orders and pages catalog records.
// Zero values mean "no constraint" (Kind, Diet, Q, nil bounds).
type BrowseQuery struct {
	Kind        models.Kind
	Diet        models.DietClass // meals only; drinks always pass
	Q           string           // case-insensitive name substring
	MinCalories *int             // inclusive
	MaxCalories *int             // inclusive
	Sort        SortKey
	Page        int
	PageSize    int
}

func (q BrowseQuery) normalized() BrowseQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Sort == "" {
		q.Sort = SortLatest
	}
	q.Q = strings.ToLower(strings.TrimSpace(q.Q))
	return q
}

func (q BrowseQuery) matches(r models.Recipe) bool {
	if q.Q != "" && !strings.Contains(strings.ToLower(r.Name), q.Q) {
		return false
	}
	if q.Diet != "" && r.Kind == models.KindMeal && r.Diet != q.Diet {
		return false
	}
	if q.MinCalories != nil && r.Calories < *q.MinCalories {
		return false
	}
	if q.MaxCalories != nil && r.Calories > *q.MaxCalories {
		return false
	}
	return true
}

// SearchRecords returns up to MaxSearchResults records whose name contains
// query, in collection order. A blank query matches nothing.
func SearchRecords(records []models.Recipe, query string) []models.Recipe {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []models.Recipe{}
	if query == "" {
		return out
	}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), query) {
			out = append(out, r)
			if len(out) == MaxSearchResults {
				break
			}
		}
	}
	return out
}

// BrowseSnapshot applies q to snap. Equal sort keys are ordered by kind then
// id, so identical queries always return identical pages.
func BrowseSnapshot(snap *catalog.Snapshot, q BrowseQuery) models.BrowsePage {
	q = q.normalized()

	var matched []models.Recipe
	for _, r := range snap.Collection(q.Kind) {
		if q.matches(r) {
			matched = append(matched, r)
		}
	}

	slices.SortFunc(matched, comparator(q.Sort))

	total := len(matched)
	page := models.BrowsePage{
		Results:    []models.Recipe{},
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
	}

	// compare pages, not offsets: (Page-1)*PageSize overflows for huge pages
	if q.Page > page.TotalPages {
		return page
	}
	offset := (q.Page - 1) * q.PageSize
	end := min(offset+q.PageSize, total)
	page.Results = append(page.Results, matched[offset:end]...)
	return page
}

func comparator(key SortKey) func(a, b models.Recipe) int {
	var primary func(a, b models.Recipe) int
	switch key {
	case SortCaloriesAsc:
		primary = func(a, b models.Recipe) int { return cmp.Compare(a.Calories, b.Calories) }
	case SortCaloriesDesc:
		primary = func(a, b models.Recipe) int { return cmp.Compare(b.Calories, a.Calories) }
	case SortPopularity:
		primary = func(a, b models.Recipe) int { return cmp.Compare(b.Popularity, a.Popularity) }
	default:
		primary = func(a, b models.Recipe) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) }
	}
	return func(a, b models.Recipe) int {
		return cmp.Or(
			primary(a, b),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.ID, b.ID),
		)
	}
}

// SuggestRecords draws up to limit records at random, skipping excludeID.
func SuggestRecords(records []models.Recipe, excludeID string, limit int) []models.Recipe {
	pool := make([]models.Recipe, 0, len(records))
	for _, r := range records {
		if r.ID != excludeID {
			pool = append(pool, r)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if limit < len(pool) {
		pool = pool[:limit]
	}
	return pool
}

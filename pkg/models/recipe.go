package models

import "strings"

// Kind tells which upstream catalog a record came from.
type Kind string

const (
	KindMeal  Kind = "meal"
	KindDrink Kind = "drink"
)

// ParseKind accepts "meal"/"meals" and "drink"/"drinks" in any case.
// Anything else returns "" and false.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meal", "meals":
		return KindMeal, true
	case "drink", "drinks":
		return KindDrink, true
	default:
		return "", false
	}
}

// DietClass is the synthetic diet label derived from category and name text.
type DietClass string

const (
	DietVegetarian    DietClass = "vegetarian"
	DietKeto          DietClass = "keto"
	DietNonVegetarian DietClass = "non-vegetarian"
	DietDrink         DietClass = "drink" // fixed for every drink record
)

// ParseDiet maps user input to a DietClass. Unknown values return false.
func ParseDiet(s string) (DietClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vegetarian", "veg", "vegan":
		return DietVegetarian, true
	case "keto", "keto-like", "keto_like", "ketolike":
		return DietKeto, true
	case "non-vegetarian", "non_vegetarian", "nonvegetarian", "non-veg", "nonveg":
		return DietNonVegetarian, true
	case "drink":
		return DietDrink, true
	default:
		return "", false
	}
}

// RawItem is one entry of an upstream category listing, before enrichment.
type RawItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	Category  string `json:"category,omitempty"` // the category it was listed under
}

// Recipe is the enriched record held in the in-memory catalog.
//
// Calories, Diet, CreatedAt and Popularity are synthetic: they are derived
// from ID (and category/name for Diet) and carry no real-world meaning.
// CreatedAt in particular is an ordering key, not a timestamp.
type Recipe struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"type"`
	Name       string    `json:"name"`
	Thumbnail  string    `json:"thumbnail"`
	Category   string    `json:"category,omitempty"`
	Calories   int       `json:"calories"`
	Diet       DietClass `json:"diet"`
	CreatedAt  int64     `json:"createdAt"`
	Popularity int       `json:"popularity"`
}

// Nutrition is a macro split of the synthetic calorie estimate.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// MealSummary and DrinkSummary keep the upstream field names so search
// results can be rendered by clients written against MealDB/CocktailDB.
type MealSummary struct {
	IDMeal       string `json:"idMeal"`
	StrMeal      string `json:"strMeal"`
	StrMealThumb string `json:"strMealThumb"`
}

type DrinkSummary struct {
	IDDrink       string `json:"idDrink"`
	StrDrink      string `json:"strDrink"`
	StrDrinkThumb string `json:"strDrinkThumb"`
}

// CuratedItem is the short form of a hand-picked recipe.
type CuratedItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

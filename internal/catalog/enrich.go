package catalog

import (
	"math"
	"strings"
	"unicode/utf16"

	"recipehub/pkg/models"
)

// createdAtEpoch offsets the synthetic creation key. It only has to sort
// consistently; nothing should read it as a date.
const createdAtEpoch int64 = 1_700_000_000_000

var (
	vegetarianMarkers = []string{"vegetarian", "vegan"}
	ketoMarkers       = []string{"chicken", "beef", "lamb", "pork", "seafood"}
)

// EstimateCalories maps an id to a stable value in [300, 800).
//
// The hash is the classic `hash = c + ((hash << 5) - hash)` over UTF-16 code
// units, evaluated with JavaScript number semantics: the shift sees the
// 32-bit wrapped hash while the subtraction uses the unwrapped value. Records
// and nutrition summaries produced elsewhere with that formula must agree
// with ours, so it is kept bit for bit.
func EstimateCalories(id string) int {
	var hash int64
	for _, unit := range utf16.Encode([]rune(id)) {
		shifted := int64(int32(hash) << 5)
		hash = int64(unit) + (shifted - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return int(hash%500) + 300
}

// ClassifyDiet derives the diet label of a meal from its category and name.
func ClassifyDiet(category, name string) models.DietClass {
	category = strings.ToLower(category)
	name = strings.ToLower(name)

	for _, m := range vegetarianMarkers {
		if strings.Contains(category, m) || strings.Contains(name, m) {
			return models.DietVegetarian
		}
	}
	if strings.Contains(name, "veg") {
		return models.DietVegetarian
	}
	for _, m := range ketoMarkers {
		if strings.Contains(category, m) || strings.Contains(name, m) {
			return models.DietKeto
		}
	}
	return models.DietNonVegetarian
}

// Enrich turns a raw listing item into a catalog record.
func Enrich(item models.RawItem, kind models.Kind) models.Recipe {
	calories := EstimateCalories(item.ID)

	diet := models.DietDrink
	if kind == models.KindMeal {
		diet = ClassifyDiet(item.Category, item.Name)
	}

	return models.Recipe{
		ID:         item.ID,
		Kind:       kind,
		Name:       item.Name,
		Thumbnail:  item.Thumbnail,
		Category:   item.Category,
		Calories:   calories,
		Diet:       diet,
		CreatedAt:  createdAtEpoch + int64(calories),
		Popularity: calories % 1000,
	}
}

// NutritionFor splits the calorie estimate for id into macros: 25% protein
// and 45% carbs at 4 kcal/g, 30% fat at 9 kcal/g.
func NutritionFor(id string) models.Nutrition {
	calories := EstimateCalories(id)
	kcal := float64(calories)
	return models.Nutrition{
		Calories: calories,
		Protein:  int(math.Round(kcal * 0.25 / 4)),
		Carbs:    int(math.Round(kcal * 0.45 / 4)),
		Fat:      int(math.Round(kcal * 0.30 / 9)),
	}
}

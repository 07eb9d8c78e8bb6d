package mirror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds := &Dataset{
		Meals: []map[string]any{
			{"idMeal": "52771", "strMeal": "Spicy Arrabiata Penne", "strCategory": "Vegetarian", "strMealThumb": "penne.jpg", "strArea": "Italian"},
			{"idMeal": "52807", "strMeal": "Baingan Bharta", "strCategory": "Vegetarian", "strMealThumb": "bharta.jpg"},
			{"idMeal": "52959", "strMeal": "Baked salmon", "strCategory": "Seafood", "strMealThumb": "salmon.jpg"},
		},
		Drinks: []map[string]any{
			{"idDrink": "11000", "strDrink": "Mojito", "strCategory": "Cocktail", "strDrinkThumb": "mojito.jpg"},
		},
	}
	r := gin.New()
	NewHandler(ds).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, path string) map[string]json.RawMessage {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, w.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
	return body
}

func TestFilterByCategory(t *testing.T) {
	r := testRouter(t)

	body := get(t, r, MealPrefix+"/filter.php?c=vegetarian")
	var meals []map[string]any
	if err := json.Unmarshal(body["meals"], &meals); err != nil {
		t.Fatalf("decode meals: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("expected 2 vegetarian meals, got %d", len(meals))
	}
	if meals[0]["idMeal"] != "52771" || meals[0]["strMealThumb"] != "penne.jpg" {
		t.Fatalf("unexpected summary: %v", meals[0])
	}
	if _, ok := meals[0]["strArea"]; ok {
		t.Fatal("filter results should only carry id, name and thumbnail")
	}
}

func TestFilterNoMatchReturnsNull(t *testing.T) {
	r := testRouter(t)
	body := get(t, r, MealPrefix+"/filter.php?c=Goat")
	if string(body["meals"]) != "null" {
		t.Fatalf("expected null, got %s", body["meals"])
	}
}

func TestLookup(t *testing.T) {
	r := testRouter(t)

	body := get(t, r, DrinkPrefix+"/lookup.php?i=11000")
	var drinks []map[string]any
	if err := json.Unmarshal(body["drinks"], &drinks); err != nil {
		t.Fatalf("decode drinks: %v", err)
	}
	if len(drinks) != 1 || drinks[0]["strCategory"] != "Cocktail" {
		t.Fatalf("unexpected lookup result: %v", drinks)
	}

	body = get(t, r, DrinkPrefix+"/lookup.php?i=52771")
	if string(body["drinks"]) != "null" {
		t.Fatalf("meal id must not resolve as a drink, got %s", body["drinks"])
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.json")
	if err := os.WriteFile(path, []byte(`{"meals":[{"idMeal":"1","strMeal":"Pie"}],"drinks":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Meals) != 1 || len(ds.Drinks) != 0 {
		t.Fatalf("unexpected dataset: %+v", ds)
	}

	if err := os.WriteFile(path, []byte(`{"meals":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestBundledDataset(t *testing.T) {
	ds, err := Load(filepath.Join("..", "..", "data", "mirror.json"))
	if err != nil {
		t.Fatalf("Load bundled dataset: %v", err)
	}
	if len(ds.Meals) == 0 || len(ds.Drinks) == 0 {
		t.Fatalf("bundled dataset is empty: meals=%d drinks=%d", len(ds.Meals), len(ds.Drinks))
	}
}

func TestRandom(t *testing.T) {
	r := testRouter(t)

	seen := map[any]bool{}
	for i := 0; i < 50; i++ {
		body := get(t, r, MealPrefix+"/random.php")
		var meals []map[string]any
		if err := json.Unmarshal(body["meals"], &meals); err != nil {
			t.Fatalf("decode meals: %v", err)
		}
		if len(meals) != 1 {
			t.Fatalf("expected exactly one meal, got %d", len(meals))
		}
		seen[meals[0]["idMeal"]] = true
	}
	if len(seen) < 2 {
		t.Fatalf("50 picks from 3 meals returned only %v", seen)
	}

	body := get(t, r, DrinkPrefix+"/random.php")
	if !strings.Contains(string(body["drinks"]), `"strDrink":"Mojito"`) {
		t.Fatalf("unexpected drinks payload: %s", body["drinks"])
	}
}

func TestRandomEmptyReturnsNull(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(&Dataset{}).RegisterRoutes(r)

	body := get(t, r, DrinkPrefix+"/random.php")
	if string(body["drinks"]) != "null" {
		t.Fatalf("expected null, got %s", body["drinks"])
	}
}

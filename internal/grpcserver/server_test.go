package grpcserver

import (
	"context"
	"fmt"
	"math"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"recipehub/internal/catalog"
	"recipehub/internal/recipes"
	"recipehub/internal/upstream"
	"recipehub/pkg/models"
)

type staticLoader struct {
	snap *catalog.Snapshot
	err  error
}

func (l staticLoader) Load(context.Context) (*catalog.Snapshot, error) {
	return l.snap, l.err
}

type mapLookuper map[string]map[string]any

func (m mapLookuper) Lookup(_ context.Context, id string) (map[string]any, error) {
	rec, ok := m[id]
	if !ok {
		return nil, upstream.ErrNotFound
	}
	return rec, nil
}

func testSnapshot() *catalog.Snapshot {
	snap := &catalog.Snapshot{LoadedAt: time.Now()}
	for i := 0; i < 30; i++ {
		cat := []string{"Vegetarian", "Beef", "Dessert"}[i%3]
		item := models.RawItem{ID: fmt.Sprintf("%d", 52760+i), Name: fmt.Sprintf("%s Plate %d", cat, i), Category: cat}
		snap.Meals = append(snap.Meals, catalog.Enrich(item, models.KindMeal))
	}
	for i := 0; i < 5; i++ {
		item := models.RawItem{ID: fmt.Sprintf("%d", 11000+i), Name: fmt.Sprintf("Sour %d", i), Category: "Cocktail"}
		snap.Drinks = append(snap.Drinks, catalog.Enrich(item, models.KindDrink))
	}
	return snap
}

func dial(t *testing.T, loader catalog.Loader) *Client {
	t.Helper()

	svc := recipes.NewService(
		catalog.NewCache(loader),
		mapLookuper{"52771": {"idMeal": "52771", "strMeal": "Spicy Arrabiata Penne"}},
		mapLookuper{"11000": {"idDrink": "11000", "strDrink": "Mojito"}},
	)
	return dialServer(t, NewServer(svc), zap.NewNop())
}

func dialServer(t *testing.T, impl CatalogServer, logger *zap.Logger) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(ServerOptions(logger)...)
	RegisterCatalogServer(srv, impl)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestSearch(t *testing.T) {
	c := dial(t, staticLoader{snap: testSnapshot()})
	ctx := context.Background()

	resp, err := c.Search(ctx, &SearchRequest{Query: "vegetarian"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(resp.Results))
	}

	resp, err = c.Search(ctx, &SearchRequest{Query: "sour", Type: "drink"})
	if err != nil {
		t.Fatalf("Search drinks: %v", err)
	}
	if len(resp.Results) != 5 || resp.Results[0].Kind != models.KindDrink {
		t.Fatalf("unexpected drink results: %+v", resp.Results)
	}
}

func TestBrowse(t *testing.T) {
	c := dial(t, staticLoader{snap: testSnapshot()})

	min, max := 400, 600
	page, err := c.Browse(context.Background(), &BrowseRequest{
		Type:        "meal",
		MinCalories: &min,
		MaxCalories: &max,
		Sort:        "calories_asc",
		PageSize:    100,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	for i, r := range page.Results {
		if r.Calories < min || r.Calories > max || r.Kind != models.KindMeal {
			t.Fatalf("record outside filter: %+v", r)
		}
		if i > 0 && page.Results[i-1].Calories > r.Calories {
			t.Fatal("results not sorted by calories")
		}
	}

	if _, err := c.Browse(context.Background(), &BrowseRequest{Page: -1}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSuggested(t *testing.T) {
	c := dial(t, staticLoader{snap: testSnapshot()})

	resp, err := c.Suggested(context.Background(), &SuggestedRequest{ExcludeID: "52760", Limit: 8})
	if err != nil {
		t.Fatalf("Suggested: %v", err)
	}
	if len(resp.Results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.ID == "52760" {
			t.Fatal("excluded id returned")
		}
	}
}

func TestDetails(t *testing.T) {
	c := dial(t, staticLoader{snap: testSnapshot()})
	ctx := context.Background()

	resp, err := c.Details(ctx, &DetailsRequest{ID: "11000", Type: "drink"})
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if resp.Recipe["strDrink"] != "Mojito" {
		t.Fatalf("unexpected recipe: %v", resp.Recipe)
	}

	if _, err := c.Details(ctx, &DetailsRequest{ID: "404"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := c.Details(ctx, &DetailsRequest{}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestNutrition(t *testing.T) {
	c := dial(t, staticLoader{snap: testSnapshot()})

	resp, err := c.Nutrition(context.Background(), &NutritionRequest{ID: "52771"})
	if err != nil {
		t.Fatalf("Nutrition: %v", err)
	}
	want := models.Nutrition{Calories: 572, Protein: 36, Carbs: 64, Fat: 19}
	if resp.Nutrition != want {
		t.Fatalf("nutrition = %+v, want %+v", resp.Nutrition, want)
	}
}

func TestWarmupFailureIsUnavailable(t *testing.T) {
	c := dial(t, staticLoader{err: catalog.ErrUpstreamUnavailable})

	_, err := c.Search(context.Background(), &SearchRequest{Query: "beef"})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
}

func TestBrowseHugePageIsEmpty(t *testing.T) {
	c := dial(t, staticLoader{snap: testSnapshot()})

	page, err := c.Browse(context.Background(), &BrowseRequest{Page: math.MaxInt, PageSize: 12})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(page.Results) != 0 || page.Total != 35 {
		t.Fatalf("expected empty page with total 35, got %d results, total %d", len(page.Results), page.Total)
	}
}

type panickingServer struct {
	*Server
}

func (panickingServer) Nutrition(context.Context, *NutritionRequest) (*NutritionResponse, error) {
	panic("nutrition table corrupted")
}

func TestPanicBecomesInternal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := recipes.NewService(catalog.NewCache(staticLoader{snap: testSnapshot()}), mapLookuper{}, mapLookuper{})
	c := dialServer(t, panickingServer{NewServer(svc)}, zap.New(core))
	ctx := context.Background()

	if _, err := c.Nutrition(ctx, &NutritionRequest{ID: "52771"}); status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
	if n := logs.FilterMessage("panic recovered").Len(); n != 1 {
		t.Fatalf("expected one panic log, got %d", n)
	}

	// the server is still serving
	if _, err := c.Search(ctx, &SearchRequest{Query: "plate"}); err != nil {
		t.Fatalf("Search after panic: %v", err)
	}
	calls := logs.FilterMessage("call").All()
	if len(calls) != 2 || calls[0].ContextMap()["code"] != codes.Internal.String() {
		t.Fatalf("unexpected call logs: %+v", calls)
	}
}

func TestCurated(t *testing.T) {
	c := dial(t, staticLoader{err: catalog.ErrUpstreamUnavailable})
	ctx := context.Background()

	// only ids the upstream knows survive; the catalog is never consulted
	resp, err := c.Curated(ctx, &CuratedRequest{})
	if err != nil {
		t.Fatalf("Curated: %v", err)
	}
	want := models.CuratedItem{ID: "52771", Name: "Spicy Arrabiata Penne"}
	if len(resp.Results) != 1 || resp.Results[0] != want {
		t.Fatalf("unexpected curated meals: %+v", resp.Results)
	}

	resp, err = c.Curated(ctx, &CuratedRequest{Type: "drinks"})
	if err != nil {
		t.Fatalf("Curated drinks: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "Mojito" {
		t.Fatalf("unexpected curated drinks: %+v", resp.Results)
	}
}

type oneDrink map[string]any

func (d oneDrink) Random(context.Context) (map[string]any, error) {
	if d == nil {
		return nil, upstream.ErrNotFound
	}
	return d, nil
}

func TestRandomDrink(t *testing.T) {
	svc := recipes.NewService(catalog.NewCache(staticLoader{}), mapLookuper{}, mapLookuper{})
	c := dialServer(t, NewServer(svc), zap.NewNop())
	ctx := context.Background()

	_, err := c.RandomDrink(ctx, &RandomDrinkRequest{})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound without a source, got %v", err)
	}

	svc.RandomDrinks = oneDrink{"idDrink": "12770", "strDrink": "Iced Coffee"}
	resp, err := c.RandomDrink(ctx, &RandomDrinkRequest{})
	if err != nil {
		t.Fatalf("RandomDrink: %v", err)
	}
	if resp.Recipe["strDrink"] != "Iced Coffee" {
		t.Fatalf("unexpected drink: %v", resp.Recipe)
	}
}

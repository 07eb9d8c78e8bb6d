package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"recipehub/internal/grpcserver"
)

const defaultBaseURL = "http://localhost:8080"

// catalogAPI is what the recipes subcommands need; httpAPI and grpcAPI both
// provide it.
type catalogAPI interface {
	Search(ctx context.Context, q, kind string) (any, error)
	Browse(ctx context.Context, req grpcserver.BrowseRequest) (any, error)
	Suggested(ctx context.Context, excludeID string, limit int, kind string) (any, error)
	Details(ctx context.Context, id, kind string) (any, error)
	Nutrition(ctx context.Context, id string) (any, error)
	Curated(ctx context.Context, kind string) (any, error)
	RandomDrink(ctx context.Context) (any, error)
}

func main() {
	global := flag.NewFlagSet("recipehub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	grpcAddr := global.String("grpc", "", "use the gRPC API at this address instead of HTTP")
	timeout := global.Duration("timeout", 60*time.Second, "request timeout (the first call may wait for warm-up)")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}
	rest := []string{}
	if len(args) > 2 {
		rest = args[2:]
	}

	switch cmd {
	case "recipes":
		var api catalogAPI = &httpAPI{client: &http.Client{Timeout: *timeout}, baseURL: *baseURL}
		if *grpcAddr != "" {
			conn, err := grpc.NewClient(*grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				log.Fatalf("grpc dial: %v", err)
			}
			defer conn.Close()
			api = &grpcAPI{client: grpcserver.NewClient(conn)}
		}
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		handleRecipes(ctx, api, sub, rest)
	case "events":
		handleEvents(*baseURL, sub, rest)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleRecipes(ctx context.Context, api catalogAPI, sub string, args []string) {
	var (
		resp any
		err  error
	)
	switch sub {
	case "search":
		fs := flag.NewFlagSet("recipes search", flag.ExitOnError)
		query := fs.String("q", "", "name query")
		kind := fs.String("type", "meal", "meal or drink")
		_ = fs.Parse(args)
		resp, err = api.Search(ctx, *query, *kind)

	case "browse":
		fs := flag.NewFlagSet("recipes browse", flag.ExitOnError)
		kind := fs.String("type", "", "meal, drink or empty for both")
		diet := fs.String("diet", "", "vegetarian, keto or non-vegetarian")
		query := fs.String("q", "", "name query")
		minCal := fs.Int("min-calories", -1, "minimum calories (inclusive)")
		maxCal := fs.Int("max-calories", -1, "maximum calories (inclusive)")
		sort := fs.String("sort", "latest", "latest, calories_asc, calories_desc or popularity")
		page := fs.Int("page", 1, "page number")
		pageSize := fs.Int("page-size", 12, "results per page")
		_ = fs.Parse(args)

		req := grpcserver.BrowseRequest{Type: *kind, Diet: *diet, Q: *query, Sort: *sort, Page: *page, PageSize: *pageSize}
		if *minCal >= 0 {
			req.MinCalories = minCal
		}
		if *maxCal >= 0 {
			req.MaxCalories = maxCal
		}
		resp, err = api.Browse(ctx, req)

	case "suggest":
		fs := flag.NewFlagSet("recipes suggest", flag.ExitOnError)
		exclude := fs.String("exclude", "", "id to leave out")
		limit := fs.Int("limit", 6, "number of suggestions")
		kind := fs.String("type", "", "meal, drink or empty for both")
		_ = fs.Parse(args)
		resp, err = api.Suggested(ctx, *exclude, *limit, *kind)

	case "details":
		fs := flag.NewFlagSet("recipes details", flag.ExitOnError)
		id := fs.String("id", "", "recipe id")
		kind := fs.String("type", "meal", "meal or drink")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		resp, err = api.Details(ctx, *id, *kind)

	case "nutrition":
		fs := flag.NewFlagSet("recipes nutrition", flag.ExitOnError)
		id := fs.String("id", "", "recipe id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("id is required")
		}
		resp, err = api.Nutrition(ctx, *id)

	case "curated":
		fs := flag.NewFlagSet("recipes curated", flag.ExitOnError)
		kind := fs.String("type", "meal", "meal or drink")
		_ = fs.Parse(args)
		resp, err = api.Curated(ctx, *kind)

	case "random-drink":
		resp, err = api.RandomDrink(ctx)

	default:
		log.Fatal("usage: recipehub recipes <search|browse|suggest|details|nutrition|curated|random-drink>")
	}

	if err != nil {
		log.Fatalf("%s failed: %v", sub, err)
	}
	printJSON(resp)
}

func handleEvents(baseURL, sub string, args []string) {
	switch sub {
	case "watch":
		fs := flag.NewFlagSet("events watch", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	default:
		log.Fatal("usage: recipehub events watch")
	}
}

type httpAPI struct {
	client  *http.Client
	baseURL string
}

func (a *httpAPI) Search(ctx context.Context, q, kind string) (any, error) {
	var out map[string]any
	err := a.get(ctx, "/recipes/search", url.Values{"q": {q}, "type": {kind}}, &out)
	return out, err
}

func (a *httpAPI) Browse(ctx context.Context, req grpcserver.BrowseRequest) (any, error) {
	qv := url.Values{}
	setIfNotEmpty(qv, "type", req.Type)
	setIfNotEmpty(qv, "diet", req.Diet)
	setIfNotEmpty(qv, "q", req.Q)
	setIfNotEmpty(qv, "sort", req.Sort)
	if req.MinCalories != nil {
		qv.Set("minCalories", strconv.Itoa(*req.MinCalories))
	}
	if req.MaxCalories != nil {
		qv.Set("maxCalories", strconv.Itoa(*req.MaxCalories))
	}
	qv.Set("page", strconv.Itoa(req.Page))
	qv.Set("pageSize", strconv.Itoa(req.PageSize))

	var out map[string]any
	err := a.get(ctx, "/recipes/browse", qv, &out)
	return out, err
}

func (a *httpAPI) Suggested(ctx context.Context, excludeID string, limit int, kind string) (any, error) {
	qv := url.Values{"limit": {strconv.Itoa(limit)}}
	setIfNotEmpty(qv, "excludeId", excludeID)
	setIfNotEmpty(qv, "type", kind)

	var out map[string]any
	err := a.get(ctx, "/recipes/suggested", qv, &out)
	return out, err
}

func (a *httpAPI) Details(ctx context.Context, id, kind string) (any, error) {
	var out map[string]any
	err := a.get(ctx, "/recipes/"+url.PathEscape(id)+"/details", url.Values{"type": {kind}}, &out)
	return out, err
}

func (a *httpAPI) Nutrition(ctx context.Context, id string) (any, error) {
	var out map[string]any
	err := a.get(ctx, "/recipes/"+url.PathEscape(id)+"/nutrition", nil, &out)
	return out, err
}

func (a *httpAPI) Curated(ctx context.Context, kind string) (any, error) {
	path := "/recipes/curated"
	if k := strings.ToLower(strings.TrimSpace(kind)); k == "drink" || k == "drinks" {
		path = "/recipes/drinks/curated"
	}
	var out map[string]any
	err := a.get(ctx, path, nil, &out)
	return out, err
}

func (a *httpAPI) RandomDrink(ctx context.Context) (any, error) {
	var out map[string]any
	err := a.get(ctx, "/recipes/drinks/random", nil, &out)
	return out, err
}

func (a *httpAPI) get(ctx context.Context, path string, qv url.Values, out any) error {
	u, err := url.Parse(a.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	u.RawQuery = qv.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s failed (%d): %s", u.String(), resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, out)
}

type grpcAPI struct {
	client *grpcserver.Client
}

func (a *grpcAPI) Search(ctx context.Context, q, kind string) (any, error) {
	return a.client.Search(ctx, &grpcserver.SearchRequest{Query: q, Type: kind})
}

func (a *grpcAPI) Browse(ctx context.Context, req grpcserver.BrowseRequest) (any, error) {
	return a.client.Browse(ctx, &req)
}

func (a *grpcAPI) Suggested(ctx context.Context, excludeID string, limit int, kind string) (any, error) {
	return a.client.Suggested(ctx, &grpcserver.SuggestedRequest{ExcludeID: excludeID, Limit: limit, Type: kind})
}

func (a *grpcAPI) Details(ctx context.Context, id, kind string) (any, error) {
	return a.client.Details(ctx, &grpcserver.DetailsRequest{ID: id, Type: kind})
}

func (a *grpcAPI) Nutrition(ctx context.Context, id string) (any, error) {
	return a.client.Nutrition(ctx, &grpcserver.NutritionRequest{ID: id})
}

func (a *grpcAPI) Curated(ctx context.Context, kind string) (any, error) {
	return a.client.Curated(ctx, &grpcserver.CuratedRequest{Type: kind})
}

func (a *grpcAPI) RandomDrink(ctx context.Context) (any, error) {
	return a.client.RandomDrink(ctx, &grpcserver.RandomDrinkRequest{})
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("[events] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func setIfNotEmpty(qv url.Values, key, val string) {
	if strings.TrimSpace(val) != "" {
		qv.Set(key, val)
	}
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("recipehub [-api URL | -grpc ADDR] <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  recipes search|browse|suggest|details|nutrition|curated|random-drink")
	fmt.Println("  events watch")
}

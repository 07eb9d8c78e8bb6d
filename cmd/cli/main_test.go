package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"recipehub/internal/grpcserver"
)

func TestWebsocketURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8080":      "ws://localhost:8080/ws",
		"https://recipes.example.io": "wss://recipes.example.io/ws",
	}
	for in, want := range cases {
		got, err := websocketURL(in, "/ws")
		if err != nil {
			t.Fatalf("websocketURL(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("websocketURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTTPBrowseQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipes/browse" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"results":[],"total":0,"page":1,"pageSize":9,"totalPages":0}`))
	}))
	defer srv.Close()

	api := &httpAPI{client: srv.Client(), baseURL: srv.URL}
	min := 400
	if _, err := api.Browse(context.Background(), grpcserver.BrowseRequest{Type: "meal", MinCalories: &min, Page: 1, PageSize: 9}); err != nil {
		t.Fatalf("Browse: %v", err)
	}
	want := "minCalories=400&page=1&pageSize=9&type=meal"
	if gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"recipe catalog unavailable"}`))
	}))
	defer srv.Close()

	api := &httpAPI{client: srv.Client(), baseURL: srv.URL}
	if _, err := api.Search(context.Background(), "beef", "meal"); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestHTTPCuratedPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	api := &httpAPI{client: srv.Client(), baseURL: srv.URL}
	ctx := context.Background()
	for _, kind := range []string{"meal", "Drinks"} {
		if _, err := api.Curated(ctx, kind); err != nil {
			t.Fatalf("Curated(%q): %v", kind, err)
		}
	}
	if _, err := api.RandomDrink(ctx); err != nil {
		t.Fatalf("RandomDrink: %v", err)
	}

	want := []string{"/recipes/curated", "/recipes/drinks/curated", "/recipes/drinks/random"}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

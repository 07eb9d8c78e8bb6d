package mirror

import (
	"context"
	"errors"
	"testing"

	"recipehub/pkg/models"
)

type fakeSource struct {
	listings map[string][]models.RawItem
	missing  map[string]bool
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FilterByCategory(_ context.Context, category string) ([]models.RawItem, error) {
	return f.listings[category], nil
}

func (f *fakeSource) Lookup(_ context.Context, id string) (map[string]any, error) {
	if f.missing[id] {
		return nil, errors.New("not found")
	}
	return map[string]any{"idMeal": id, "strInstructions": "cook " + id}, nil
}

func TestCaptureDedupsAndKeepsOrder(t *testing.T) {
	src := &fakeSource{listings: map[string][]models.RawItem{
		"Beef":  {{ID: "1"}, {ID: "2"}, {ID: "3"}},
		"Pasta": {{ID: "2"}, {ID: "4"}},
	}}

	recs, err := Capture(context.Background(), src, []string{"Beef", "Pasta"}, CaptureOptions{PerCategory: 2})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	want := []string{"1", "2", "4"}
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(recs))
	}
	for i, id := range want {
		if recs[i]["idMeal"] != id {
			t.Fatalf("record %d = %v, want id %s", i, recs[i]["idMeal"], id)
		}
	}
}

func TestCaptureFailsOnLookupError(t *testing.T) {
	src := &fakeSource{
		listings: map[string][]models.RawItem{"Beef": {{ID: "1"}, {ID: "2"}}},
		missing:  map[string]bool{"2": true},
	}
	if _, err := Capture(context.Background(), src, []string{"Beef"}, CaptureOptions{Concurrency: 1}); err == nil {
		t.Fatal("expected error")
	}
}

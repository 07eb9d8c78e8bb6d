package catalog

import (
	"time"

	"recipehub/pkg/models"
)

// Snapshot is a fully built catalog. It is never mutated after the cache
// publishes it, so any number of readers may share it without locking.
// Readers that need to reorder must copy first.
type Snapshot struct {
	Meals    []models.Recipe
	Drinks   []models.Recipe
	LoadedAt time.Time
}

// Collection returns the records for one kind, or both (meals first) when
// kind is empty.
func (s *Snapshot) Collection(kind models.Kind) []models.Recipe {
	switch kind {
	case models.KindMeal:
		return s.Meals
	case models.KindDrink:
		return s.Drinks
	}
	all := make([]models.Recipe, 0, len(s.Meals)+len(s.Drinks))
	all = append(all, s.Meals...)
	return append(all, s.Drinks...)
}

// Len is the total number of records across both collections.
func (s *Snapshot) Len() int {
	return len(s.Meals) + len(s.Drinks)
}

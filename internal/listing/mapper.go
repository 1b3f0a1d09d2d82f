package listing

import (
	"pokedex-list-backend/internal/model"
	"pokedex-list-backend/internal/parse"
	"pokedex-list-backend/internal/pokeapi"
)

// MapRecords converts raw records into entities. IDs are assigned 1..N in
// response order.
func MapRecords(records []pokeapi.RawRecord) []model.Pokemon {
	entities := make([]model.Pokemon, 0, len(records))
	for i, r := range records {
		entities = append(entities, model.Pokemon{ID: i + 1, Name: r.Name})
	}
	return entities
}

// CountDrift returns how many records carry an upstream id that differs from
// their positional id. Records whose URL has no numeric id are skipped.
func CountDrift(records []pokeapi.RawRecord) int {
	drift := 0
	for i, r := range records {
		res, err := parse.ParseResourceURL(r.URL)
		if err != nil {
			continue
		}
		if res.ID != i+1 {
			drift++
		}
	}
	return drift
}

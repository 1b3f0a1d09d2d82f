package pokeapi

// RawRecord is one entry of the upstream list response.
type RawRecord struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage models the top-level structure of the upstream list response.
type ListPage struct {
	Results []RawRecord
}

// listEnvelope distinguishes a missing "results" key from an empty one.
type listEnvelope struct {
	Results *[]RawRecord `json:"results"`
}

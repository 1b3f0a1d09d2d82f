package model

// Pokemon is the display entity built from one upstream list record. ID is the
// record's 1-based position in the fetched page, not an upstream identifier.
type Pokemon struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Package present maps list entities to what the render layer shows.
package present

import (
	"strconv"

	"pokedex-list-backend/internal/model"
)

// Row is one rendered list row. ID is the row's reconciliation key.
type Row struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Presenter derives presentation data from entities.
type Presenter struct {
	imageBase string
}

// NewPresenter creates a Presenter whose image URLs start with imageBase.
func NewPresenter(imageBase string) *Presenter {
	return &Presenter{imageBase: imageBase}
}

// ImageURL returns imageBase + id + ".png". It does no I/O and does not
// check that the image exists.
func (p *Presenter) ImageURL(id int) string {
	return p.imageBase + strconv.Itoa(id) + ".png"
}

// Rows builds one row per entity, in order.
func (p *Presenter) Rows(entities []model.Pokemon) []Row {
	rows := make([]Row, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, Row{ID: e.ID, Name: e.Name, ImageURL: p.ImageURL(e.ID)})
	}
	return rows
}

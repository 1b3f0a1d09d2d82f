package api

import (
	"pokedex-list-backend/internal/pokeapi"
	"pokedex-list-backend/internal/present"
	"pokedex-list-backend/internal/viewmodel"
)

type errorResponse struct {
	Kind    pokeapi.ErrorKind `json:"kind"`
	Status  int               `json:"status,omitempty"`
	Message string            `json:"message"`
}

// stateResponse is the JSON form of a view state.
type stateResponse struct {
	ID      string          `json:"id"`
	Phase   viewmodel.Phase `json:"phase"`
	Version uint64          `json:"version"`
	Rows    []present.Row   `json:"rows"`
	Error   *errorResponse  `json:"error,omitempty"`
}

func (h *Handler) stateResponse(id string, s viewmodel.State) stateResponse {
	resp := stateResponse{
		ID:      id,
		Phase:   s.Phase,
		Version: s.Version,
		Rows:    h.presenter.Rows(s.Entities),
	}
	if s.Err != nil {
		kind, status := pokeapi.KindOf(s.Err)
		resp.Error = &errorResponse{Kind: kind, Status: status, Message: s.Err.Error()}
	}
	return resp
}

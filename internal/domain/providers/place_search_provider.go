package providers

import (
	"context"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
)

// Place is one hit from the keyword place-search provider.
type Place struct {
	Name              string
	CategoryGroupCode string
	Address           string
	RoadAddress       string
	Location          entities.Coordinates
}

// GeocodeResult is the outcome of resolving a facility name to
// coordinates. It is used once to patch a candidate and never persisted.
type GeocodeResult struct {
	Location        entities.Coordinates
	ResolvedAddress string
}

// PlaceSearchProvider runs a keyword search against the external place
// catalogue. An empty slice means no hits; only transport or upstream
// faults are errors.
type PlaceSearchProvider interface {
	SearchKeyword(ctx context.Context, query string, size int) ([]Place, error)
}

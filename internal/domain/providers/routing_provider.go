package providers

import (
	"context"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
)

// RoutePriority selects the routing provider's optimization target.
type RoutePriority string

const (
	RoutePriorityRecommend RoutePriority = "RECOMMEND"
	RoutePriorityTime      RoutePriority = "TIME"
	RoutePriorityDistance  RoutePriority = "DISTANCE"
)

// RouteSummary is the computed route between an origin and a facility.
type RouteSummary struct {
	DistanceMeters  int
	DurationSeconds int
	TaxiFare        int
	TollFare        int
}

// RoutingProvider computes a driving route. A nil summary with a nil
// error means the provider found no route; that is a result, not a fault.
type RoutingProvider interface {
	GetRoute(ctx context.Context, origin, destination entities.Coordinates, priority RoutePriority) (*RouteSummary, error)
}

package entities

import (
	"time"
)

// AvailabilityStatus is derived from the current bed counts on every read.
// It is never stored.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityLimited   AvailabilityStatus = "LIMITED"
	AvailabilityFull      AvailabilityStatus = "FULL"
	AvailabilityUnknown   AvailabilityStatus = "UNKNOWN"
)

// Occupancy at or above this ratio counts as limited even when beds remain.
const limitedOccupancyRatio = 0.8

// limitedBedFloor is the absolute bed count at or below which a facility
// counts as limited regardless of occupancy.
const limitedBedFloor = 4

// Candidate represents one emergency facility under evaluation for a
// search. It is mutable while moving through the pipeline but only via
// whole-object replacement (WithRoute, WithLocation), so every
// intermediate list stays independently inspectable.
type Candidate struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Location       Coordinates `json:"location"`
	Address        string      `json:"address"`
	PhoneNumber    string      `json:"phone_number"`
	EmergencyPhone string      `json:"emergency_phone"`
	AvailableBeds  int         `json:"available_beds"`
	TotalBeds      int         `json:"total_beds"`
	// BedsEstimated marks AvailableBeds as the 30%-of-total placeholder
	// used when the feed omits a live count. Data-fidelity gap, surfaced
	// so boundaries can label it.
	BedsEstimated bool      `json:"beds_estimated,omitempty"`
	HasCT         bool      `json:"has_ct"`
	HasMRI        bool      `json:"has_mri"`
	HasSurgery    bool      `json:"has_surgery"`
	TraumaLevel   *int      `json:"trauma_level,omitempty"`
	IsOperating   bool      `json:"is_operating"`
	LastUpdated   time.Time `json:"last_updated"`
	// RouteDuration (seconds) and RouteDistance (meters) are set by route
	// enrichment; nil when no route was computed.
	RouteDuration *int `json:"route_duration,omitempty"`
	RouteDistance *int `json:"route_distance,omitempty"`
}

// Availability derives the availability status from the current counts.
func (c *Candidate) Availability() AvailabilityStatus {
	if !c.IsOperating || c.TotalBeds == 0 {
		return AvailabilityUnknown
	}
	if c.AvailableBeds == 0 {
		return AvailabilityFull
	}
	occupancy := 1 - float64(c.AvailableBeds)/float64(c.TotalBeds)
	if occupancy >= limitedOccupancyRatio || c.AvailableBeds <= limitedBedFloor {
		return AvailabilityLimited
	}
	return AvailabilityAvailable
}

// NeedsGeocoding reports whether the candidate's coordinates are missing,
// zero, or out of range and must go through the coordinate resolver.
func (c *Candidate) NeedsGeocoding() bool {
	return c.Location.IsZero() || !c.Location.Valid()
}

// WithRoute returns a copy of the candidate with route data attached.
func (c *Candidate) WithRoute(durationSeconds, distanceMeters int) *Candidate {
	clone := *c
	clone.RouteDuration = &durationSeconds
	clone.RouteDistance = &distanceMeters
	return &clone
}

// WithLocation returns a copy of the candidate with resolved coordinates
// and, when non-empty, a resolved address.
func (c *Candidate) WithLocation(location Coordinates, address string) *Candidate {
	clone := *c
	clone.Location = location
	if address != "" {
		clone.Address = address
	}
	return &clone
}

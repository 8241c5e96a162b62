package providers

import (
	"context"
	"time"

	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
)

// BedRecord is one normalized row of the upstream bed-availability feed.
// The adapter is responsible for wire-format parsing (Y/N flags, numeric
// strings, compact timestamps); consumers see typed fields only.
type BedRecord struct {
	ID             string
	Name           string
	Address        string
	PhoneNumber    string
	EmergencyPhone string
	// AvailableBeds is nil when the feed omits a live count.
	AvailableBeds *int
	TotalBeds     int
	HasCT         bool
	HasMRI        bool
	HasSurgery    bool
	TraumaLevel   *int
	IsOperating   bool
	Location      entities.Coordinates
	UpdatedAt     time.Time
}

// BedFeedProvider fetches the raw bed-availability feed for a region.
type BedFeedProvider interface {
	FetchBeds(ctx context.Context, regionHint string) ([]BedRecord, error)
}

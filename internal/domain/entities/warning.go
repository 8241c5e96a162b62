package entities

// Warning is the single advisory attached to a discovery result. At most
// one applies; precedence is NO_FACILITIES_FOUND, then DATA_STALE.
type Warning string

const (
	WarningNone              Warning = ""
	WarningNoFacilitiesFound Warning = "NO_FACILITIES_FOUND"
	WarningDataStale         Warning = "DATA_STALE"
)

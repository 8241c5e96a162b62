package entities

import "time"

// Snapshot is the last-known-good result set, persisted after every
// successful fetch and read back only when a fetch attempt fails.
type Snapshot struct {
	Candidates []*Candidate `json:"candidates"`
	Origin     Coordinates  `json:"origin"`
	CapturedAt time.Time    `json:"captured_at"`
	Region     string       `json:"region"`
}

// AgeMinutes returns the snapshot age in whole minutes at the given time.
func (s *Snapshot) AgeMinutes(now time.Time) int {
	return int(now.Sub(s.CapturedAt).Minutes())
}

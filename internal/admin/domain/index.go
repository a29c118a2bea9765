package domain

import "time"

// IndexStatus reports how many concerts carry precomputed performance timestamps.
type IndexStatus struct {
	Total   int `json:"total"`
	Indexed int `json:"indexed"`
	Missing int `json:"missing"`
}

// IndexUpdate is the derived timestamp set for one concert.
type IndexUpdate struct {
	ConcertID string
	Times     []time.Time
}

// RebuildResult summarises one rebuild run.
type RebuildResult struct {
	Scanned     int `json:"scanned"`
	Updated     int `json:"updated"`
	Unparseable int `json:"unparseable"`
}

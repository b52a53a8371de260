package models

import "time"

// MapBounds is the rectangular region a cached tile bundle covers.
type MapBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// MapCacheEntry is a region-bounded vector tile bundle with expiry.
// An expired entry is logically absent; expiry is enforced on read.
type MapCacheEntry struct {
	Bounds      MapBounds         `json:"bounds"`
	Zoom        int               `json:"zoom"`
	Layers      []string          `json:"layers,omitempty"`
	VectorTiles map[string][]byte `json:"vectorTiles,omitempty"`
	LastUpdated time.Time         `json:"lastUpdated"`
	ExpiresAt   time.Time         `json:"expiresAt"`
}

// Expired reports whether the entry's expiry has passed at the given time.
func (e *MapCacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

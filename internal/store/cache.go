// Package store provides a bounded in-memory cache of resolved tracks.
package store

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"songseek/internal/core"
)

const defaultCapacity = 1024

// TrackCache is a thread-safe LRU cache keyed by catalog track ID. Resolving
// the same URL twice within a run hits the cache instead of the network,
// which also keeps repeated resolutions field-for-field identical.
type TrackCache struct {
	cache *lru.Cache[string, core.Track]
}

func NewTrackCache(capacity int) *TrackCache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	// lru.New only fails on a non-positive size, which is guarded above.
	cache, _ := lru.New[string, core.Track](capacity)

	return &TrackCache{cache: cache}
}

// Get returns the cached track for the given ID, if present.
func (tc *TrackCache) Get(trackID string) (core.Track, bool) {
	return tc.cache.Get(trackID)
}

// Add stores a track under its catalog ID. Tracks without an ID are ignored.
func (tc *TrackCache) Add(track core.Track) {
	if track.SongID == "" {
		return
	}
	tc.cache.Add(track.SongID, track)
}

// Len returns the number of cached tracks.
func (tc *TrackCache) Len() int {
	return tc.cache.Len()
}

package matcher

import (
	"context"
	"strings"

	"songseek/internal/core"
)

// AlbumSearchMatcher claims "album:" prefixed free text.
type AlbumSearchMatcher struct {
	streaming core.StreamingCatalog
}

func (m *AlbumSearchMatcher) Match(request string) bool {
	return strings.Contains(request, "album:")
}

func (m *AlbumSearchMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	term := stripPrefix(request, "album:")
	list, err := m.streaming.AlbumFromSearch(ctx, term, false)
	return nil, list, err
}

// PlaylistSearchMatcher claims "playlist:" prefixed free text.
type PlaylistSearchMatcher struct {
	streaming core.StreamingCatalog
}

func (m *PlaylistSearchMatcher) Match(request string) bool {
	return strings.Contains(request, "playlist:")
}

func (m *PlaylistSearchMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	term := stripPrefix(request, "playlist:")
	list, err := m.streaming.PlaylistFromSearch(ctx, term, false)
	return nil, list, err
}

// ArtistSearchMatcher claims "artist:" prefixed free text.
type ArtistSearchMatcher struct {
	streaming core.StreamingCatalog
}

func (m *ArtistSearchMatcher) Match(request string) bool {
	return strings.Contains(request, "artist:")
}

func (m *ArtistSearchMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	term := stripPrefix(request, "artist:")
	list, err := m.streaming.ArtistFromSearch(ctx, term, false)
	return nil, list, err
}

// DefaultMatcher is the catch-all free-text track search. It claims every
// request, so it must stay last in the registry.
type DefaultMatcher struct {
	streaming core.StreamingCatalog
}

func (m *DefaultMatcher) Match(string) bool { return true }

func (m *DefaultMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	track, err := m.streaming.TrackFromSearch(ctx, request)
	return track, nil, err
}

// stripPrefix drops everything up to and including the first occurrence of
// prefix, then trims spaces, so "album:Thriller" searches for "Thriller".
func stripPrefix(request, prefix string) string {
	if i := strings.Index(request, prefix); i >= 0 {
		return strings.TrimSpace(request[i+len(prefix):])
	}
	return strings.TrimSpace(request)
}

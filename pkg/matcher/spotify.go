package matcher

import (
	"context"
	"fmt"
	"strings"

	"songseek/internal/core"
)

// ShortLinkPrefix is the redirect-only shortener domain for the streaming
// catalog.
const ShortLinkPrefix = "https://spotify.link/"

// maxShortLinkHops bounds recursive short-link resolution; a resolved URL
// may itself be another short link.
const maxShortLinkHops = 3

type hopKey struct{}

// TrackURLMatcher claims bare streaming-catalog track URLs.
type TrackURLMatcher struct {
	streaming core.StreamingCatalog
}

func (m *TrackURLMatcher) Match(request string) bool {
	return strings.Contains(request, "open.spotify.com") && strings.Contains(request, "track")
}

func (m *TrackURLMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	track, err := m.streaming.TrackFromURL(ctx, request)
	return track, nil, err
}

// ShortLinkMatcher resolves shortener URLs and re-runs the whole registry on
// the canonical URL.
type ShortLinkMatcher struct {
	streaming core.StreamingCatalog
	registry  *Registry
}

func (m *ShortLinkMatcher) Match(request string) bool {
	return strings.Contains(request, ShortLinkPrefix)
}

func (m *ShortLinkMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	hops, _ := ctx.Value(hopKey{}).(int)
	if hops >= maxShortLinkHops {
		return nil, nil, fmt.Errorf("%w: short link chain exceeds %d hops", core.ErrNetwork, maxShortLinkHops)
	}

	resolved, err := m.streaming.ResolveShortLink(ctx, request)
	if err != nil {
		return nil, nil, err
	}

	return m.registry.Parse(context.WithValue(ctx, hopKey{}, hops+1), resolved)
}

// PlaylistURLMatcher claims streaming-catalog playlist URLs.
type PlaylistURLMatcher struct {
	streaming core.StreamingCatalog
}

func (m *PlaylistURLMatcher) Match(request string) bool {
	return strings.Contains(request, "open.spotify.com") && strings.Contains(request, "playlist")
}

func (m *PlaylistURLMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	list, err := m.streaming.PlaylistFromURL(ctx, request, false)
	return nil, list, err
}

// AlbumURLMatcher claims streaming-catalog album URLs.
type AlbumURLMatcher struct {
	streaming core.StreamingCatalog
}

func (m *AlbumURLMatcher) Match(request string) bool {
	return strings.Contains(request, "open.spotify.com") && strings.Contains(request, "album")
}

func (m *AlbumURLMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	list, err := m.streaming.AlbumFromURL(ctx, request, false)
	return nil, list, err
}

// ArtistURLMatcher claims streaming-catalog artist URLs and yields the
// artist's discography.
type ArtistURLMatcher struct {
	streaming core.StreamingCatalog
}

func (m *ArtistURLMatcher) Match(request string) bool {
	return strings.Contains(request, "open.spotify.com") && strings.Contains(request, "artist")
}

func (m *ArtistURLMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	list, err := m.streaming.ArtistFromURL(ctx, request, false)
	return nil, list, err
}

// UserURLMatcher claims user-profile URLs and yields the user's first
// public playlist, if any.
type UserURLMatcher struct {
	streaming core.StreamingCatalog
}

func (m *UserURLMatcher) Match(request string) bool {
	return strings.Contains(request, "open.spotify.com") && strings.Contains(request, "user")
}

func (m *UserURLMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	lists, err := m.streaming.AllUserPlaylists(ctx, request)
	if err != nil {
		return nil, nil, err
	}
	if len(lists) == 0 {
		return nil, nil, nil
	}

	list, err := m.streaming.PlaylistFromURL(ctx, lists[0].URL, false)
	return nil, list, err
}

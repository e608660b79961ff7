package matcher

import (
	"context"

	"songseek/internal/core"
)

// Keyword inputs resolve against the authenticated user's library. The
// catalog adapter reports ErrAuthRequired when there is no user session.

// SavedMatcher claims the "saved" keyword and yields the user's liked songs.
type SavedMatcher struct {
	streaming core.StreamingCatalog
}

func (m *SavedMatcher) Match(request string) bool { return request == "saved" }

func (m *SavedMatcher) Parse(ctx context.Context, _ string) (*core.Track, *core.TrackList, error) {
	list, err := m.streaming.SavedTracks(ctx)
	return nil, list, err
}

// AllUserPlaylistsMatcher claims the "all-user-playlists" keyword.
type AllUserPlaylistsMatcher struct {
	streaming core.StreamingCatalog
}

func (m *AllUserPlaylistsMatcher) Match(request string) bool {
	return request == "all-user-playlists"
}

func (m *AllUserPlaylistsMatcher) Parse(ctx context.Context, _ string) (*core.Track, *core.TrackList, error) {
	lists, err := m.streaming.AllUserPlaylists(ctx, "")
	return firstListExpanded(ctx, m.streaming.PlaylistFromURL, lists, err)
}

// AllUserFollowedArtistsMatcher claims the "all-user-followed-artists" keyword.
type AllUserFollowedArtistsMatcher struct {
	streaming core.StreamingCatalog
}

func (m *AllUserFollowedArtistsMatcher) Match(request string) bool {
	return request == "all-user-followed-artists"
}

func (m *AllUserFollowedArtistsMatcher) Parse(ctx context.Context, _ string) (*core.Track, *core.TrackList, error) {
	lists, err := m.streaming.UserFollowedArtists(ctx)
	return firstListExpanded(ctx, m.streaming.ArtistFromURL, lists, err)
}

// AllUserSavedAlbumsMatcher claims the "all-user-saved-albums" keyword.
type AllUserSavedAlbumsMatcher struct {
	streaming core.StreamingCatalog
}

func (m *AllUserSavedAlbumsMatcher) Match(request string) bool {
	return request == "all-user-saved-albums"
}

func (m *AllUserSavedAlbumsMatcher) Parse(ctx context.Context, _ string) (*core.Track, *core.TrackList, error) {
	lists, err := m.streaming.UserSavedAlbums(ctx)
	return firstListExpanded(ctx, m.streaming.AlbumFromURL, lists, err)
}

// AllSavedPlaylistsMatcher claims the "all-saved-playlists" keyword: playlists
// the user follows but does not own.
type AllSavedPlaylistsMatcher struct {
	streaming core.StreamingCatalog
}

func (m *AllSavedPlaylistsMatcher) Match(request string) bool {
	return request == "all-saved-playlists"
}

func (m *AllSavedPlaylistsMatcher) Parse(ctx context.Context, _ string) (*core.Track, *core.TrackList, error) {
	lists, err := m.streaming.AllSavedPlaylists(ctx)
	return firstListExpanded(ctx, m.streaming.PlaylistFromURL, lists, err)
}

// firstListExpanded re-fetches the first listing summary with its members.
func firstListExpanded(
	ctx context.Context,
	fetch func(context.Context, string, bool) (*core.TrackList, error),
	lists []core.TrackList,
	err error,
) (*core.Track, *core.TrackList, error) {
	if err != nil {
		return nil, nil, err
	}
	if len(lists) == 0 {
		return nil, nil, nil
	}

	list, err := fetch(ctx, lists[0].URL, false)
	return nil, list, err
}

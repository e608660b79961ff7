// Package core holds the domain types shared by the catalog adapters,
// the matcher registry and the resolution pipeline.
package core

import (
	"context"
	"fmt"
)

// AlbumType classifies the album a track belongs to.
type AlbumType string

const (
	AlbumTypeAlbum       AlbumType = "album"
	AlbumTypeSingle      AlbumType = "single"
	AlbumTypeCompilation AlbumType = "compilation"
)

// ListKind identifies the flavor of a TrackList.
type ListKind string

const (
	ListKindAlbum    ListKind = "album"
	ListKindPlaylist ListKind = "playlist"
	ListKindArtist   ListKind = "artist"
	ListKindSaved    ListKind = "saved"
)

// Track is a single resolvable song-level record. A track is "complete" when
// it carries its identity URL (fetched from the streaming catalog) and
// "partial" otherwise; partial tracks are filled in later by re-resolution.
// The JSON keys are a stable contract shared with the save-file format.
type Track struct {
	Name        string    `json:"name"`
	Artists     []string  `json:"artists"`
	Artist      string    `json:"artist"`
	AlbumName   string    `json:"album_name"`
	AlbumArtist string    `json:"album_artist"`
	AlbumType   AlbumType `json:"album_type"`
	DiscNumber  int       `json:"disc_number"`
	DiscCount   int       `json:"disc_count"`
	Duration    int       `json:"duration"`
	Year        int       `json:"year"`
	TrackNumber int       `json:"track_number"`
	TracksCount int       `json:"tracks_count"`
	SongID      string    `json:"song_id"`
	Explicit    *bool     `json:"explicit"`
	URL         string    `json:"url"`
	DownloadURL string    `json:"download_url,omitempty"`
	CoverURL    string    `json:"cover_url"`

	ListName     string `json:"list_name,omitempty"`
	ListURL      string `json:"list_url,omitempty"`
	ListPosition int    `json:"list_position,omitempty"`
	ListLength   int    `json:"list_length,omitempty"`
}

// DisplayName returns the human-readable "Artist - Name" form used in logs.
func (t Track) DisplayName() string {
	if t.Artist == "" {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.Artist, t.Name)
}

// HasResolveKey reports whether the track carries at least one of the keys
// re-resolution can fetch by: identity URL, catalog ID, or name+artist.
func (t Track) HasResolveKey() bool {
	return t.URL != "" || t.SongID != "" || (t.Name != "" && t.Artist != "")
}

// TrackList is an ordered collection of tracks with shared list-level
// metadata. Members are stamped with a 1-based ListPosition at construction.
type TrackList struct {
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	AuthorName  string   `json:"author_name,omitempty"`
	AuthorURL   string   `json:"author_url,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Kind        ListKind `json:"kind"`
	Tracks      []Track  `json:"tracks"`
	URLs        []string `json:"urls"`
}

// Length is the number of members actually retained at construction time.
func (l TrackList) Length() int {
	return len(l.Tracks)
}

// VideoInfo is the minimal per-video metadata the video catalog exposes.
type VideoInfo struct {
	Title    string
	Author   string
	Duration int
}

// Options control a single resolution run.
type Options struct {
	// Threads bounds the parallel re-resolution fan-out.
	Threads int
	// PreferVideoData keeps the video catalog's richer per-track metadata
	// when a dual-reference input cross-links two lists.
	PreferVideoData bool
	// PlaylistNumbering injects sequential playlist positions as track numbers.
	PlaylistNumbering bool
	// RetainTrackCover is PlaylistNumbering but keeping each track's own cover.
	RetainTrackCover bool
	// AlbumType keeps only tracks whose album type matches, when set.
	AlbumType AlbumType
	// IgnoreAlbums drops tracks whose album name contains any of these
	// keywords, case-insensitively.
	IgnoreAlbums []string
}

// StreamingCatalog is the streaming-service adapter consumed by the matcher
// registry and the pipeline. Implementations are constructed by the caller
// and injected; there is no process-wide client.
type StreamingCatalog interface {
	UserAuthenticated() bool

	TrackFromURL(ctx context.Context, rawURL string) (*Track, error)
	TrackFromSearch(ctx context.Context, term string) (*Track, error)
	SearchTracks(ctx context.Context, term string) ([]Track, error)

	PlaylistFromURL(ctx context.Context, rawURL string, fetchTracks bool) (*TrackList, error)
	AlbumFromURL(ctx context.Context, rawURL string, fetchTracks bool) (*TrackList, error)
	ArtistFromURL(ctx context.Context, rawURL string, fetchTracks bool) (*TrackList, error)
	PlaylistFromSearch(ctx context.Context, term string, fetchTracks bool) (*TrackList, error)
	AlbumFromSearch(ctx context.Context, term string, fetchTracks bool) (*TrackList, error)
	ArtistFromSearch(ctx context.Context, term string, fetchTracks bool) (*TrackList, error)

	SavedTracks(ctx context.Context) (*TrackList, error)
	AllUserPlaylists(ctx context.Context, userURL string) ([]TrackList, error)
	AllSavedPlaylists(ctx context.Context) ([]TrackList, error)
	UserSavedAlbums(ctx context.Context) ([]TrackList, error)
	UserFollowedArtists(ctx context.Context) ([]TrackList, error)

	ResolveShortLink(ctx context.Context, shortURL string) (string, error)
}

// VideoCatalog is the secondary video-service adapter.
type VideoCatalog interface {
	Video(ctx context.Context, watchURL string) (*VideoInfo, error)
	Playlist(ctx context.Context, rawURL string) (*TrackList, error)
	Album(ctx context.Context, rawURL string) (*TrackList, error)
}

package matcher

import (
	"context"
	"fmt"
	"strings"

	"songseek/internal/core"
)

// videoHostMarkers identify the video side of a dual-reference input.
var videoHostMarkers = []string{"watch?v=", "youtu.be/", "soundcloud.com/", "bandcamp.com/"}

// listIDMarkers identify video-catalog playlist and album URLs.
var listIDMarkers = []string{"?list=PL", "?list=OLAK5uy_", "browse/VLPL"}

func hasVideoMarker(s string) bool {
	for _, marker := range videoHostMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func hasListMarker(s string) bool {
	for _, marker := range listIDMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// DualTrackMatcher claims "VideoURL|SpotifyTrackURL" inputs, which pin a
// specific video as the download source for a streaming track.
type DualTrackMatcher struct{}

func (m *DualTrackMatcher) Match(request string) bool {
	return hasVideoMarker(request) &&
		strings.Contains(request, "open.spotify.com") &&
		strings.Contains(request, "track") &&
		strings.Contains(request, "|")
}

func (m *DualTrackMatcher) Parse(_ context.Context, request string) (*core.Track, *core.TrackList, error) {
	parts := strings.SplitN(request, "|", 2)
	if len(parts) != 2 || !hasVideoMarker(parts[0]) || !strings.Contains(parts[1], "spotify") {
		return nil, nil, fmt.Errorf(`%w: expected "VideoURL|SpotifyURL", got %q`, core.ErrBadFormat, request)
	}

	// Partial track: the identity URL is filled in by re-resolution.
	return &core.Track{URL: parts[1], DownloadURL: parts[0]}, nil, nil
}

// VideoTrackMatcher claims bare video-catalog watch URLs and maps them to
// a streaming track via search.
type VideoTrackMatcher struct {
	streaming       core.StreamingCatalog
	video           core.VideoCatalog
	preferVideoData bool
}

func (m *VideoTrackMatcher) Match(request string) bool {
	return strings.Contains(request, "music.youtube.com/watch?v")
}

func (m *VideoTrackMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	info, err := m.video.Video(ctx, request)
	if err != nil {
		return nil, nil, err
	}

	track, err := m.streaming.TrackFromSearch(ctx, info.Author+" - "+info.Title)
	if err != nil {
		return nil, nil, err
	}

	result := *track
	if m.preferVideoData {
		result.Name = info.Title
		result.Artist = info.Author
		result.Artists = []string{info.Author}
		if info.Duration > 0 {
			result.Duration = info.Duration
		}
	}
	result.DownloadURL = request

	return &result, nil, nil
}

// VideoPlaylistMatcher claims video-catalog playlist and album URLs, either
// bare or dual-referenced with a streaming playlist/album URL.
type VideoPlaylistMatcher struct {
	streaming       core.StreamingCatalog
	video           core.VideoCatalog
	preferVideoData bool
}

func (m *VideoPlaylistMatcher) Match(request string) bool {
	return strings.Contains(request, "youtube.com/playlist?list=") ||
		strings.Contains(request, "youtube.com/browse/VLPL")
}

func (m *VideoPlaylistMatcher) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	// The browse endpoint lives on the music domain.
	request = strings.ReplaceAll(request, "https://www.youtube.com/", "https://music.youtube.com/")
	request = strings.ReplaceAll(request, "https://youtube.com/", "https://music.youtube.com/")

	parts := strings.SplitN(request, "|", 2)
	if len(parts) == 1 {
		switch {
		case strings.Contains(request, "?list=OLAK5uy_"):
			list, err := m.video.Album(ctx, request)
			return nil, list, err
		case strings.Contains(request, "?list=PL"), strings.Contains(request, "browse/VLPL"):
			list, err := m.video.Playlist(ctx, request)
			return nil, list, err
		default:
			return nil, nil, nil
		}
	}

	if !strings.Contains(parts[1], "spotify") || !hasListMarker(parts[0]) {
		return nil, nil, fmt.Errorf(
			`%w: expected "VideoListURL|SpotifyURL" with a playlist or album on the video side, got %q`,
			core.ErrBadFormat, request)
	}

	var (
		videoList, streamingList *core.TrackList
		err                      error
	)

	videoIsAlbum := strings.Contains(parts[0], "?list=OLAK5uy_")
	switch {
	case videoIsAlbum && strings.Contains(parts[1], "album"):
		if videoList, err = m.video.Album(ctx, parts[0]); err != nil {
			return nil, nil, err
		}
		if streamingList, err = m.streaming.AlbumFromURL(ctx, parts[1], false); err != nil {
			return nil, nil, err
		}
	case !videoIsAlbum && strings.Contains(parts[1], "playlist"):
		if videoList, err = m.video.Playlist(ctx, parts[0]); err != nil {
			return nil, nil, err
		}
		if streamingList, err = m.streaming.PlaylistFromURL(ctx, parts[1], false); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s is not the same list type as %s",
			core.ErrTypeMismatch, parts[0], parts[1])
	}

	if videoList.Length() != streamingList.Length() {
		return nil, nil, fmt.Errorf("%w: video list has %d tracks, streaming list has %d",
			core.ErrLengthMismatch, videoList.Length(), streamingList.Length())
	}

	// Cross-populate per index: either identity URLs flow onto the video
	// list, or download URLs flow onto the streaming list.
	if m.preferVideoData {
		for i := range videoList.Tracks {
			videoList.Tracks[i].URL = streamingList.Tracks[i].URL
			videoList.URLs[i] = streamingList.Tracks[i].URL
		}
		return nil, videoList, nil
	}

	for i := range streamingList.Tracks {
		streamingList.Tracks[i].DownloadURL = videoList.Tracks[i].DownloadURL
	}
	return nil, streamingList, nil
}

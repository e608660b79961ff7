package matcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"songseek/internal/core"
)

// fakeStreaming records calls and serves canned answers.
type fakeStreaming struct {
	calls []string

	track *core.Track
	list  *core.TrackList
	lists []core.TrackList
	err   error

	shortLinkTarget string
}

func (f *fakeStreaming) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeStreaming) UserAuthenticated() bool { return false }

func (f *fakeStreaming) TrackFromURL(_ context.Context, rawURL string) (*core.Track, error) {
	f.record("TrackFromURL(%s)", rawURL)
	return f.track, f.err
}

func (f *fakeStreaming) TrackFromSearch(_ context.Context, term string) (*core.Track, error) {
	f.record("TrackFromSearch(%s)", term)
	return f.track, f.err
}

func (f *fakeStreaming) SearchTracks(_ context.Context, term string) ([]core.Track, error) {
	f.record("SearchTracks(%s)", term)
	if f.track == nil {
		return nil, f.err
	}
	return []core.Track{*f.track}, f.err
}

func (f *fakeStreaming) PlaylistFromURL(_ context.Context, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	f.record("PlaylistFromURL(%s,%t)", rawURL, fetchTracks)
	return f.list, f.err
}

func (f *fakeStreaming) AlbumFromURL(_ context.Context, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	f.record("AlbumFromURL(%s,%t)", rawURL, fetchTracks)
	return f.list, f.err
}

func (f *fakeStreaming) ArtistFromURL(_ context.Context, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	f.record("ArtistFromURL(%s,%t)", rawURL, fetchTracks)
	return f.list, f.err
}

func (f *fakeStreaming) PlaylistFromSearch(_ context.Context, term string, fetchTracks bool) (*core.TrackList, error) {
	f.record("PlaylistFromSearch(%s,%t)", term, fetchTracks)
	return f.list, f.err
}

func (f *fakeStreaming) AlbumFromSearch(_ context.Context, term string, fetchTracks bool) (*core.TrackList, error) {
	f.record("AlbumFromSearch(%s,%t)", term, fetchTracks)
	return f.list, f.err
}

func (f *fakeStreaming) ArtistFromSearch(_ context.Context, term string, fetchTracks bool) (*core.TrackList, error) {
	f.record("ArtistFromSearch(%s,%t)", term, fetchTracks)
	return f.list, f.err
}

func (f *fakeStreaming) SavedTracks(_ context.Context) (*core.TrackList, error) {
	f.record("SavedTracks()")
	return f.list, f.err
}

func (f *fakeStreaming) AllUserPlaylists(_ context.Context, userURL string) ([]core.TrackList, error) {
	f.record("AllUserPlaylists(%s)", userURL)
	return f.lists, f.err
}

func (f *fakeStreaming) AllSavedPlaylists(_ context.Context) ([]core.TrackList, error) {
	f.record("AllSavedPlaylists()")
	return f.lists, f.err
}

func (f *fakeStreaming) UserSavedAlbums(_ context.Context) ([]core.TrackList, error) {
	f.record("UserSavedAlbums()")
	return f.lists, f.err
}

func (f *fakeStreaming) UserFollowedArtists(_ context.Context) ([]core.TrackList, error) {
	f.record("UserFollowedArtists()")
	return f.lists, f.err
}

func (f *fakeStreaming) ResolveShortLink(_ context.Context, shortURL string) (string, error) {
	f.record("ResolveShortLink(%s)", shortURL)
	if f.shortLinkTarget == "" {
		return "", f.err
	}
	return f.shortLinkTarget, nil
}

type fakeVideo struct {
	info     *core.VideoInfo
	playlist *core.TrackList
	album    *core.TrackList
	err      error
}

func (f *fakeVideo) Video(_ context.Context, _ string) (*core.VideoInfo, error) {
	return f.info, f.err
}

func (f *fakeVideo) Playlist(_ context.Context, _ string) (*core.TrackList, error) {
	return f.playlist, f.err
}

func (f *fakeVideo) Album(_ context.Context, _ string) (*core.TrackList, error) {
	return f.album, f.err
}

func newTestRegistry(s *fakeStreaming, v *fakeVideo, cfg Config) *Registry {
	return NewRegistry(s, v, cfg, zap.NewNop())
}

func listOf(kind core.ListKind, url string, names ...string) *core.TrackList {
	l := &core.TrackList{URL: url, Name: "List", Kind: kind}
	for i, name := range names {
		l.Tracks = append(l.Tracks, core.Track{
			Name:         name,
			URL:          url + "/" + name,
			DownloadURL:  "https://music.youtube.com/watch?v=" + name,
			ListPosition: i + 1,
		})
		l.URLs = append(l.URLs, url+"/"+name)
	}
	return l
}

func TestRegistryClaimOrder(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		wantCall string
	}{
		{
			name:     "track URL",
			request:  "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			wantCall: "TrackFromURL(https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC)",
		},
		{
			name:     "playlist URL",
			request:  "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd",
			wantCall: "PlaylistFromURL(https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd,false)",
		},
		{
			name:     "album URL",
			request:  "https://open.spotify.com/album/2noRn2Aes5aoNVsU6iWThc",
			wantCall: "AlbumFromURL(https://open.spotify.com/album/2noRn2Aes5aoNVsU6iWThc,false)",
		},
		{
			name:     "artist URL",
			request:  "https://open.spotify.com/artist/0LcJLqbBmaGUft1e9Mm8HV",
			wantCall: "ArtistFromURL(https://open.spotify.com/artist/0LcJLqbBmaGUft1e9Mm8HV,false)",
		},
		{
			name:     "album search term strips prefix",
			request:  "album:Thriller",
			wantCall: "AlbumFromSearch(Thriller,false)",
		},
		{
			name:     "playlist search term strips prefix",
			request:  "playlist:workout mix",
			wantCall: "PlaylistFromSearch(workout mix,false)",
		},
		{
			name:     "artist search term strips prefix",
			request:  "artist:ABBA",
			wantCall: "ArtistFromSearch(ABBA,false)",
		},
		{
			name:     "free text falls through to track search",
			request:  "never gonna give you up",
			wantCall: "TrackFromSearch(never gonna give you up)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeStreaming{
				track: &core.Track{Name: "x", URL: "u"},
				list:  listOf(core.ListKindPlaylist, "https://open.spotify.com/playlist/p", "a"),
			}
			r := newTestRegistry(s, &fakeVideo{}, Config{})

			_, _, err := r.Parse(context.Background(), tt.request)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(s.calls) != 1 || s.calls[0] != tt.wantCall {
				t.Errorf("calls = %v, want [%s]", s.calls, tt.wantCall)
			}
		})
	}
}

func TestRegistryLogsClaims(t *testing.T) {
	zapCore, logs := observer.New(zap.DebugLevel)
	s := &fakeStreaming{track: &core.Track{Name: "x", URL: "u"}}
	r := NewRegistry(s, &fakeVideo{}, Config{}, zap.New(zapCore))

	_, _, err := r.Parse(context.Background(), "free text query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("Matcher claimed request").All()
	if len(entries) != 1 {
		t.Fatalf("claim logs = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["matcher"]; got != "*matcher.DefaultMatcher" {
		t.Errorf("matcher = %v", got)
	}
}

func TestDualTrack(t *testing.T) {
	r := newTestRegistry(&fakeStreaming{}, &fakeVideo{}, Config{})

	track, list, err := r.Parse(context.Background(),
		"https://music.youtube.com/watch?v=abc|https://open.spotify.com/track/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list != nil {
		t.Fatal("expected no list")
	}
	if track.URL != "https://open.spotify.com/track/xyz" {
		t.Errorf("URL = %q", track.URL)
	}
	if track.DownloadURL != "https://music.youtube.com/watch?v=abc" {
		t.Errorf("DownloadURL = %q", track.DownloadURL)
	}
}

func TestDualTrackSwappedSides(t *testing.T) {
	r := newTestRegistry(&fakeStreaming{}, &fakeVideo{}, Config{})

	_, _, err := r.Parse(context.Background(),
		"https://open.spotify.com/track/xyz|https://music.youtube.com/watch?v=abc")
	if !errors.Is(err, core.ErrBadFormat) {
		t.Errorf("error = %v, want ErrBadFormat", err)
	}
}

func TestVideoTrack(t *testing.T) {
	s := &fakeStreaming{track: &core.Track{
		Name: "Billie Jean", Artist: "Michael Jackson",
		Artists: []string{"Michael Jackson"}, Duration: 294,
		URL: "https://open.spotify.com/track/5ChkMS8OtdzJeqyybCc9R5",
	}}
	v := &fakeVideo{info: &core.VideoInfo{Title: "Billie Jean (Live)", Author: "MJ", Duration: 300}}
	r := newTestRegistry(s, v, Config{})

	request := "https://music.youtube.com/watch?v=Zi_XLOBDo_Y"
	track, _, err := r.Parse(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.DownloadURL != request {
		t.Errorf("DownloadURL = %q, want the watch URL pinned", track.DownloadURL)
	}
	if track.Name != "Billie Jean" {
		t.Errorf("Name = %q, want streaming metadata kept", track.Name)
	}
	if s.calls[0] != "TrackFromSearch(MJ - Billie Jean (Live))" {
		t.Errorf("search call = %q", s.calls[0])
	}
}

func TestVideoTrackPreferVideoData(t *testing.T) {
	s := &fakeStreaming{track: &core.Track{
		Name: "Billie Jean", Artist: "Michael Jackson", Duration: 294,
		URL: "https://open.spotify.com/track/5ChkMS8OtdzJeqyybCc9R5",
	}}
	v := &fakeVideo{info: &core.VideoInfo{Title: "Billie Jean (Live)", Author: "MJ", Duration: 300}}
	r := newTestRegistry(s, v, Config{PreferVideoData: true})

	track, _, err := r.Parse(context.Background(), "https://music.youtube.com/watch?v=Zi_XLOBDo_Y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Name != "Billie Jean (Live)" || track.Artist != "MJ" || track.Duration != 300 {
		t.Errorf("track = %+v, want video metadata preferred", track)
	}
	if track.URL == "" {
		t.Error("identity URL must survive the override")
	}
}

func TestVideoPlaylistDualLengthMismatch(t *testing.T) {
	s := &fakeStreaming{list: listOf(core.ListKindPlaylist, "https://open.spotify.com/playlist/p", "a", "b")}
	v := &fakeVideo{playlist: listOf(core.ListKindPlaylist, "vl", "a", "b", "c")}
	r := newTestRegistry(s, v, Config{})

	_, _, err := r.Parse(context.Background(),
		"https://music.youtube.com/playlist?list=PLx|https://open.spotify.com/playlist/p")
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestVideoPlaylistDualTypeMismatch(t *testing.T) {
	s := &fakeStreaming{list: listOf(core.ListKindAlbum, "https://open.spotify.com/album/a", "a")}
	v := &fakeVideo{playlist: listOf(core.ListKindPlaylist, "vl", "a")}
	r := newTestRegistry(s, v, Config{})

	// Video side is a plain playlist, streaming side is an album.
	_, _, err := r.Parse(context.Background(),
		"https://music.youtube.com/playlist?list=PLx|https://open.spotify.com/album/a")
	if !errors.Is(err, core.ErrTypeMismatch) {
		t.Errorf("error = %v, want ErrTypeMismatch", err)
	}
}

func TestVideoPlaylistDualCrossPopulates(t *testing.T) {
	s := &fakeStreaming{list: listOf(core.ListKindPlaylist, "https://open.spotify.com/playlist/p", "a", "b")}
	v := &fakeVideo{playlist: listOf(core.ListKindPlaylist, "vl", "x", "y")}
	r := newTestRegistry(s, v, Config{})

	_, list, err := r.Parse(context.Background(),
		"https://music.youtube.com/playlist?list=PLx|https://open.spotify.com/playlist/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, track := range list.Tracks {
		if track.DownloadURL != v.playlist.Tracks[i].DownloadURL {
			t.Errorf("track %d: DownloadURL = %q, want the video side's", i, track.DownloadURL)
		}
		if track.URL == "" {
			t.Errorf("track %d: identity URL lost", i)
		}
	}
}

func TestShortLinkReentersRegistry(t *testing.T) {
	s := &fakeStreaming{
		track:           &core.Track{Name: "x", URL: "u"},
		shortLinkTarget: "https://open.spotify.com/track/xyz",
	}
	r := newTestRegistry(s, &fakeVideo{}, Config{})

	_, _, err := r.Parse(context.Background(), "https://spotify.link/abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"ResolveShortLink(https://spotify.link/abc)",
		"TrackFromURL(https://open.spotify.com/track/xyz)",
	}
	if len(s.calls) != 2 || s.calls[0] != want[0] || s.calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", s.calls, want)
	}
}

func TestShortLinkHopLimit(t *testing.T) {
	// Every resolution yields another short link.
	s := &fakeStreaming{shortLinkTarget: "https://spotify.link/next"}
	r := newTestRegistry(s, &fakeVideo{}, Config{})

	_, _, err := r.Parse(context.Background(), "https://spotify.link/abc")
	if !errors.Is(err, core.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if len(s.calls) != maxShortLinkHops {
		t.Errorf("resolved %d hops, want %d", len(s.calls), maxShortLinkHops)
	}
}

func TestAuthKeywordPropagatesError(t *testing.T) {
	s := &fakeStreaming{err: fmt.Errorf("%w: user playlists", core.ErrAuthRequired)}
	r := newTestRegistry(s, &fakeVideo{}, Config{})

	_, _, err := r.Parse(context.Background(), "all-user-playlists")
	if !errors.Is(err, core.ErrAuthRequired) {
		t.Errorf("error = %v, want ErrAuthRequired", err)
	}
	if len(s.calls) != 1 {
		t.Errorf("calls = %v, want no follow-up fetches after the auth failure", s.calls)
	}
}

func TestKeywordExpandsFirstList(t *testing.T) {
	s := &fakeStreaming{
		lists: []core.TrackList{
			{URL: "https://open.spotify.com/playlist/first", Name: "First"},
			{URL: "https://open.spotify.com/playlist/second", Name: "Second"},
		},
		list: listOf(core.ListKindPlaylist, "https://open.spotify.com/playlist/first", "a"),
	}
	r := newTestRegistry(s, &fakeVideo{}, Config{})

	_, list, err := r.Parse(context.Background(), "all-user-playlists")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || list.URL != "https://open.spotify.com/playlist/first" {
		t.Fatalf("list = %+v, want the first summary expanded", list)
	}
	if s.calls[1] != "PlaylistFromURL(https://open.spotify.com/playlist/first,false)" {
		t.Errorf("second call = %q", s.calls[1])
	}
}

func TestKeywordEmptyLibrary(t *testing.T) {
	s := &fakeStreaming{}
	r := newTestRegistry(s, &fakeVideo{}, Config{})

	track, list, err := r.Parse(context.Background(), "all-user-saved-albums")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track != nil || list != nil {
		t.Errorf("got %+v / %+v, want nothing for an empty library", track, list)
	}
}

func TestSavedKeyword(t *testing.T) {
	s := &fakeStreaming{list: listOf(core.ListKindSaved, "saved", "a", "b")}
	r := newTestRegistry(s, &fakeVideo{}, Config{})

	_, list, err := r.Parse(context.Background(), "saved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Kind != core.ListKindSaved || list.Length() != 2 {
		t.Errorf("list = %+v", list)
	}
	if s.calls[0] != "SavedTracks()" {
		t.Errorf("call = %q", s.calls[0])
	}
}

func TestSavedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mix.spotdl")
	payload := `[
	  {"name": "Song A", "artist": "Artist A", "artists": ["Artist A"], "url": "https://open.spotify.com/track/a"},
	  {"name": "Song B", "artist": "Artist B", "artists": ["Artist B"], "url": "https://open.spotify.com/track/b"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	r := newTestRegistry(&fakeStreaming{}, &fakeVideo{}, Config{})

	track, list, err := r.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list != nil {
		t.Fatal("expected no list")
	}
	if track.Name != "Song A" || track.URL != "https://open.spotify.com/track/a" {
		t.Errorf("track = %+v, want only the first record", track)
	}
}

func TestSavedFileMissing(t *testing.T) {
	r := newTestRegistry(&fakeStreaming{}, &fakeVideo{}, Config{})

	_, _, err := r.Parse(context.Background(), "/nonexistent/archive.spotdl")
	if !errors.Is(err, core.ErrBadFormat) {
		t.Errorf("error = %v, want ErrBadFormat", err)
	}
}

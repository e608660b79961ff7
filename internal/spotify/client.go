// Package spotify adapts the Spotify Web API to the catalog operations the
// resolution pipeline needs: fetch by URL, search by term, and the signed-in
// user's library collections.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"songseek/internal/core"
	"songseek/internal/store"
	"songseek/pkg/fuzzy"
)

const (
	// pageLimit is the page size used for all offset-based listings.
	pageLimit = 50
	// batchLimit is the maximum number of track IDs per GetTracks call.
	batchLimit = 50
	// MaxSearchResults bounds ranked track search results.
	MaxSearchResults = 10
	// shortLinkTimeout is the fixed timeout for short-link resolution.
	shortLinkTimeout = 10 * time.Second
	// maxRedirects bounds redirect chains during short-link resolution.
	maxRedirects = 5

	trackURLPrefix = "https://open.spotify.com/track/"
	userURLPrefix  = "https://open.spotify.com/user/"
)

type Client struct {
	config     *core.SpotifyConfig
	logger     *zap.Logger
	client     *spotify.Client
	auth       *spotifyauth.Authenticator
	cache      *store.TrackCache
	normalizer *fuzzy.Normalizer
	userAuth   bool
}

type tokenData struct {
	Token *oauth2.Token `json:"token"`
}

func NewClient(config *core.SpotifyConfig, logger *zap.Logger) *Client {
	auth := spotifyauth.New(
		spotifyauth.WithRedirectURL(config.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopeUserFollowRead,
			spotifyauth.ScopePlaylistReadPrivate,
		),
		spotifyauth.WithClientID(config.ClientID),
		spotifyauth.WithClientSecret(config.ClientSecret),
	)

	return &Client{
		config:     config,
		logger:     logger,
		auth:       auth,
		cache:      store.NewTrackCache(config.CacheSize),
		normalizer: fuzzy.NewNormalizer(),
	}
}

// Authenticate builds the underlying API client. A saved user token upgrades
// the session to user auth; otherwise the client-credentials flow is used,
// which covers every operation except the current-user collections.
func (c *Client) Authenticate(ctx context.Context) error {
	if token, err := c.loadToken(); err == nil {
		client := spotify.New(c.auth.Client(ctx, token))
		if user, err := client.CurrentUser(ctx); err == nil {
			c.client = client
			c.userAuth = true
			c.logger.Info("Authenticated with user session", zap.String("user", user.DisplayName))
			return nil
		}
		c.logger.Warn("Saved token invalid, falling back to client credentials")
	}

	creds := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: client credentials auth: %v", core.ErrNetwork, err)
	}

	c.client = spotify.New(spotifyauth.New().Client(ctx, token))
	c.userAuth = false
	return nil
}

// UserAuthenticated reports whether a signed-in user session is available.
func (c *Client) UserAuthenticated() bool {
	return c.userAuth
}

func (c *Client) TrackFromURL(ctx context.Context, rawURL string) (*core.Track, error) {
	id, err := extractID(rawURL, "track")
	if err != nil {
		return nil, err
	}

	if cached, ok := c.cache.Get(string(id)); ok {
		return &cached, nil
	}

	ft, err := c.client.GetTrack(ctx, id)
	if err != nil {
		return nil, mapAPIError(err)
	}

	track := c.convertFullTrack(ft)
	c.cache.Add(track)
	return &track, nil
}

func (c *Client) SearchTracks(ctx context.Context, term string) ([]core.Track, error) {
	results, err := c.client.Search(ctx, term, spotify.SearchTypeTrack, spotify.Limit(MaxSearchResults))
	if err != nil {
		return nil, mapAPIError(err)
	}

	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, nil
	}

	tracks := make([]core.Track, 0, len(results.Tracks.Tracks))
	for i := range results.Tracks.Tracks {
		tracks = append(tracks, c.convertFullTrack(&results.Tracks.Tracks[i]))
	}

	return c.rankTracks(tracks, term), nil
}

// TrackFromSearch returns the best-ranked search result for the term.
func (c *Client) TrackFromSearch(ctx context.Context, term string) (*core.Track, error) {
	tracks, err := c.SearchTracks(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", core.ErrNotFound, term)
	}

	track := tracks[0]
	c.cache.Add(track)
	return &track, nil
}

func (c *Client) PlaylistFromURL(ctx context.Context, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	id, err := extractID(rawURL, "playlist")
	if err != nil {
		return nil, err
	}

	pl, err := c.client.GetPlaylist(ctx, id)
	if err != nil {
		return nil, mapAPIError(err)
	}

	list := &core.TrackList{
		URL:         urlOrFallback(pl.ExternalURLs, rawURL),
		Name:        pl.Name,
		Description: pl.Description,
		AuthorName:  pl.Owner.DisplayName,
		AuthorURL:   pl.Owner.ExternalURLs["spotify"],
		CoverURL:    firstImage(pl.Images),
		Kind:        core.ListKindPlaylist,
	}

	offset := 0
	for {
		items, err := c.client.GetPlaylistItems(ctx, id, spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, mapAPIError(err)
		}

		for i := range items.Items {
			ft := items.Items[i].Track.Track
			// Episodes and regionally unavailable entries are skipped; the
			// list length reflects only retained members.
			if ft == nil || ft.ID == "" {
				continue
			}

			var track core.Track
			if fetchTracks {
				track = c.convertFullTrack(ft)
			} else {
				track = partialFromFull(ft)
			}
			track.ListPosition = len(list.Tracks) + 1
			list.Tracks = append(list.Tracks, track)
			list.URLs = append(list.URLs, track.URL)
		}

		if len(items.Items) < pageLimit {
			break
		}
		offset += pageLimit
	}

	c.logger.Debug("Fetched playlist",
		zap.String("playlist", list.Name),
		zap.Int("tracks", list.Length()))

	return list, nil
}

func (c *Client) AlbumFromURL(ctx context.Context, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	id, err := extractID(rawURL, "album")
	if err != nil {
		return nil, err
	}
	return c.albumByID(ctx, id, rawURL, fetchTracks)
}

func (c *Client) albumByID(ctx context.Context, id spotify.ID, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	album, err := c.client.GetAlbum(ctx, id)
	if err != nil {
		return nil, mapAPIError(err)
	}

	albumArtist := ""
	if len(album.Artists) > 0 {
		albumArtist = album.Artists[0].Name
	}

	list := &core.TrackList{
		URL:        urlOrFallback(album.ExternalURLs, rawURL),
		Name:       album.Name,
		AuthorName: albumArtist,
		CoverURL:   firstImage(album.Images),
		Kind:       core.ListKindAlbum,
	}

	simple := album.Tracks.Tracks
	offset := len(simple)
	for offset < int(album.Tracks.Total) {
		page, err := c.client.GetAlbumTracks(ctx, id, spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, mapAPIError(err)
		}
		if len(page.Tracks) == 0 {
			break
		}
		simple = append(simple, page.Tracks...)
		offset += len(page.Tracks)
	}

	for i := range simple {
		track := c.trackFromAlbumEntry(&simple[i], album, len(simple))
		track.ListPosition = len(list.Tracks) + 1
		list.Tracks = append(list.Tracks, track)
		list.URLs = append(list.URLs, track.URL)
	}

	if fetchTracks {
		if err := c.refetchMembers(ctx, list); err != nil {
			return nil, err
		}
	}

	return list, nil
}

// refetchMembers replaces album members carrying only album-derived data with
// fully fetched track records, preserving list positions.
func (c *Client) refetchMembers(ctx context.Context, list *core.TrackList) error {
	ids := make([]spotify.ID, 0, len(list.Tracks))
	for i := range list.Tracks {
		ids = append(ids, spotify.ID(list.Tracks[i].SongID))
	}

	for start := 0; start < len(ids); start += batchLimit {
		end := start + batchLimit
		if end > len(ids) {
			end = len(ids)
		}

		full, err := c.client.GetTracks(ctx, ids[start:end])
		if err != nil {
			return mapAPIError(err)
		}
		for i, ft := range full {
			if ft == nil {
				continue
			}
			track := c.convertFullTrack(ft)
			track.ListPosition = list.Tracks[start+i].ListPosition
			track.TracksCount = list.Tracks[start+i].TracksCount
			list.Tracks[start+i] = track
			list.URLs[start+i] = track.URL
		}
	}

	return nil
}

func (c *Client) ArtistFromURL(ctx context.Context, rawURL string, fetchTracks bool) (*core.TrackList, error) {
	id, err := extractID(rawURL, "artist")
	if err != nil {
		return nil, err
	}

	artist, err := c.client.GetArtist(ctx, id)
	if err != nil {
		return nil, mapAPIError(err)
	}

	list := &core.TrackList{
		URL:        urlOrFallback(artist.ExternalURLs, rawURL),
		Name:       artist.Name,
		AuthorName: artist.Name,
		Kind:       core.ListKindArtist,
	}

	offset := 0
	for {
		page, err := c.client.GetArtistAlbums(ctx, id, nil, spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, mapAPIError(err)
		}

		for i := range page.Albums {
			albumURL := page.Albums[i].ExternalURLs["spotify"]
			album, err := c.albumByID(ctx, page.Albums[i].ID, albumURL, fetchTracks)
			if err != nil {
				// Some discography entries are market-restricted; skip them
				// rather than failing the whole artist.
				c.logger.Warn("Skipping artist album",
					zap.String("album", page.Albums[i].Name),
					zap.Error(err))
				continue
			}
			for _, track := range album.Tracks {
				track.ListPosition = len(list.Tracks) + 1
				list.Tracks = append(list.Tracks, track)
				list.URLs = append(list.URLs, track.URL)
			}
		}

		if len(page.Albums) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return list, nil
}

func (c *Client) PlaylistFromSearch(ctx context.Context, term string, fetchTracks bool) (*core.TrackList, error) {
	results, err := c.client.Search(ctx, term, spotify.SearchTypePlaylist, spotify.Limit(1))
	if err != nil {
		return nil, mapAPIError(err)
	}
	if results.Playlists == nil || len(results.Playlists.Playlists) == 0 {
		return nil, fmt.Errorf("%w: no playlist results for %q", core.ErrNotFound, term)
	}

	return c.PlaylistFromURL(ctx, results.Playlists.Playlists[0].ExternalURLs["spotify"], fetchTracks)
}

func (c *Client) AlbumFromSearch(ctx context.Context, term string, fetchTracks bool) (*core.TrackList, error) {
	results, err := c.client.Search(ctx, term, spotify.SearchTypeAlbum, spotify.Limit(1))
	if err != nil {
		return nil, mapAPIError(err)
	}
	if results.Albums == nil || len(results.Albums.Albums) == 0 {
		return nil, fmt.Errorf("%w: no album results for %q", core.ErrNotFound, term)
	}

	return c.AlbumFromURL(ctx, results.Albums.Albums[0].ExternalURLs["spotify"], fetchTracks)
}

func (c *Client) ArtistFromSearch(ctx context.Context, term string, fetchTracks bool) (*core.TrackList, error) {
	results, err := c.client.Search(ctx, term, spotify.SearchTypeArtist, spotify.Limit(1))
	if err != nil {
		return nil, mapAPIError(err)
	}
	if results.Artists == nil || len(results.Artists.Artists) == 0 {
		return nil, fmt.Errorf("%w: no artist results for %q", core.ErrNotFound, term)
	}

	return c.ArtistFromURL(ctx, results.Artists.Artists[0].ExternalURLs["spotify"], fetchTracks)
}

// SavedTracks returns the signed-in user's saved-tracks collection.
func (c *Client) SavedTracks(ctx context.Context) (*core.TrackList, error) {
	if !c.userAuth {
		return nil, fmt.Errorf("%w: saved tracks", core.ErrAuthRequired)
	}

	list := &core.TrackList{
		URL:  "saved",
		Name: "Saved tracks",
		Kind: core.ListKindSaved,
	}

	offset := 0
	for {
		page, err := c.client.CurrentUsersTracks(ctx, spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, mapAPIError(err)
		}

		for i := range page.Tracks {
			track := c.convertFullTrack(&page.Tracks[i].FullTrack)
			track.ListPosition = len(list.Tracks) + 1
			list.Tracks = append(list.Tracks, track)
			list.URLs = append(list.URLs, track.URL)
		}

		if len(page.Tracks) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return list, nil
}

// AllUserPlaylists lists playlists owned by the given user, or by the
// signed-in user when userURL is empty. The returned lists are summaries
// without members; callers fetch the ones they need.
func (c *Client) AllUserPlaylists(ctx context.Context, userURL string) ([]core.TrackList, error) {
	if !c.userAuth {
		return nil, fmt.Errorf("%w: user playlists", core.ErrAuthRequired)
	}

	var userID string
	if userURL != "" {
		if !strings.HasPrefix(userURL, userURLPrefix) {
			return nil, fmt.Errorf("%w: invalid user profile url: %s", core.ErrBadFormat, userURL)
		}
		userID = strings.Trim(strings.SplitN(strings.TrimPrefix(userURL, userURLPrefix), "?", 2)[0], "/")
	} else {
		user, err := c.client.CurrentUser(ctx)
		if err != nil {
			return nil, mapAPIError(err)
		}
		userID = user.ID
	}

	playlists, err := c.collectPlaylists(ctx, userURL != "", userID)
	if err != nil {
		return nil, err
	}

	var lists []core.TrackList
	for i := range playlists {
		if playlists[i].Owner.ID != userID {
			continue
		}
		lists = append(lists, playlistSummary(&playlists[i]))
	}

	return lists, nil
}

// AllSavedPlaylists lists playlists the user follows but does not own.
func (c *Client) AllSavedPlaylists(ctx context.Context) ([]core.TrackList, error) {
	if !c.userAuth {
		return nil, fmt.Errorf("%w: saved playlists", core.ErrAuthRequired)
	}

	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		return nil, mapAPIError(err)
	}

	playlists, err := c.collectPlaylists(ctx, false, "")
	if err != nil {
		return nil, err
	}

	var lists []core.TrackList
	for i := range playlists {
		if playlists[i].Owner.ID == user.ID {
			continue
		}
		lists = append(lists, playlistSummary(&playlists[i]))
	}

	return lists, nil
}

func (c *Client) collectPlaylists(ctx context.Context, forUser bool, userID string) ([]spotify.SimplePlaylist, error) {
	var all []spotify.SimplePlaylist

	offset := 0
	for {
		var (
			page *spotify.SimplePlaylistPage
			err  error
		)
		if forUser {
			page, err = c.client.GetPlaylistsForUser(ctx, userID, spotify.Limit(pageLimit), spotify.Offset(offset))
		} else {
			page, err = c.client.CurrentUsersPlaylists(ctx, spotify.Limit(pageLimit), spotify.Offset(offset))
		}
		if err != nil {
			return nil, mapAPIError(err)
		}

		all = append(all, page.Playlists...)
		if len(page.Playlists) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return all, nil
}

// UserSavedAlbums lists the user's saved albums as summaries.
func (c *Client) UserSavedAlbums(ctx context.Context) ([]core.TrackList, error) {
	if !c.userAuth {
		return nil, fmt.Errorf("%w: saved albums", core.ErrAuthRequired)
	}

	var lists []core.TrackList

	offset := 0
	for {
		page, err := c.client.CurrentUsersAlbums(ctx, spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, mapAPIError(err)
		}

		for i := range page.Albums {
			album := &page.Albums[i]
			albumArtist := ""
			if len(album.Artists) > 0 {
				albumArtist = album.Artists[0].Name
			}
			lists = append(lists, core.TrackList{
				URL:        album.ExternalURLs["spotify"],
				Name:       album.Name,
				AuthorName: albumArtist,
				CoverURL:   firstImage(album.Images),
				Kind:       core.ListKindAlbum,
			})
		}

		if len(page.Albums) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return lists, nil
}

// UserFollowedArtists lists the artists the user follows as summaries.
func (c *Client) UserFollowedArtists(ctx context.Context) ([]core.TrackList, error) {
	if !c.userAuth {
		return nil, fmt.Errorf("%w: followed artists", core.ErrAuthRequired)
	}

	var lists []core.TrackList

	after := ""
	for {
		opts := []spotify.RequestOption{spotify.Limit(pageLimit)}
		if after != "" {
			opts = append(opts, spotify.After(after))
		}
		page, err := c.client.CurrentUsersFollowedArtists(ctx, opts...)
		if err != nil {
			return nil, mapAPIError(err)
		}

		for i := range page.Artists {
			artist := &page.Artists[i]
			lists = append(lists, core.TrackList{
				URL:        artist.ExternalURLs["spotify"],
				Name:       artist.Name,
				AuthorName: artist.Name,
				Kind:       core.ListKindArtist,
			})
			after = string(artist.ID)
		}

		if len(page.Artists) < pageLimit {
			break
		}
	}

	return lists, nil
}

// ResolveShortLink follows redirects from a shortener URL to the canonical
// catalog URL with a fixed timeout.
func (c *Client) ResolveShortLink(ctx context.Context, shortURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, shortLinkTimeout)
	defer cancel()

	client := &http.Client{
		Timeout: shortLinkTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, shortURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", core.ErrNetwork, shortURL, err)
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if finalURL == shortURL {
		return "", fmt.Errorf("%w: %s did not redirect", core.ErrNetwork, shortURL)
	}

	return finalURL, nil
}

func (c *Client) convertFullTrack(ft *spotify.FullTrack) core.Track {
	artists := make([]string, 0, len(ft.Artists))
	for _, artist := range ft.Artists {
		artists = append(artists, artist.Name)
	}

	primary := ""
	if len(artists) > 0 {
		primary = artists[0]
	}
	albumArtist := ""
	if len(ft.Album.Artists) > 0 {
		albumArtist = ft.Album.Artists[0].Name
	}

	year := 0
	if len(ft.Album.ReleaseDate) >= 4 {
		year, _ = strconv.Atoi(ft.Album.ReleaseDate[:4])
	}

	explicit := ft.Explicit

	// The simple album payload carries no track total; album fetches fill
	// TracksCount via trackFromAlbumEntry instead.
	return core.Track{
		Name:        ft.Name,
		Artists:     artists,
		Artist:      primary,
		AlbumName:   ft.Album.Name,
		AlbumArtist: albumArtist,
		AlbumType:   core.AlbumType(ft.Album.AlbumType),
		DiscNumber:  int(ft.DiscNumber),
		Duration:    int(ft.Duration) / 1000,
		Year:        year,
		TrackNumber: int(ft.TrackNumber),
		SongID:      string(ft.ID),
		Explicit:    &explicit,
		URL:         ft.ExternalURLs["spotify"],
		CoverURL:    firstImage(ft.Album.Images),
	}
}

// trackFromAlbumEntry builds a partial track for an album member. Album-level
// fields are stamped from the owning album; the rest comes from the entry.
func (c *Client) trackFromAlbumEntry(st *spotify.SimpleTrack, album *spotify.FullAlbum, total int) core.Track {
	artists := make([]string, 0, len(st.Artists))
	for _, artist := range st.Artists {
		artists = append(artists, artist.Name)
	}

	primary := ""
	if len(artists) > 0 {
		primary = artists[0]
	}
	albumArtist := ""
	if len(album.Artists) > 0 {
		albumArtist = album.Artists[0].Name
	}

	year := 0
	if len(album.ReleaseDate) >= 4 {
		year, _ = strconv.Atoi(album.ReleaseDate[:4])
	}

	explicit := st.Explicit

	return core.Track{
		Name:        st.Name,
		Artists:     artists,
		Artist:      primary,
		AlbumName:   album.Name,
		AlbumArtist: albumArtist,
		AlbumType:   core.AlbumType(album.AlbumType),
		DiscNumber:  int(st.DiscNumber),
		Duration:    int(st.Duration) / 1000,
		Year:        year,
		TrackNumber: int(st.TrackNumber),
		TracksCount: total,
		SongID:      string(st.ID),
		Explicit:    &explicit,
		URL:         st.ExternalURLs["spotify"],
		CoverURL:    firstImage(album.Images),
	}
}

// rankTracks orders search results by similarity to the original term.
func (c *Client) rankTracks(tracks []core.Track, term string) []core.Track {
	query := c.normalizer.NormalizeTitle(term)

	scores := make([]float64, len(tracks))
	for i := range tracks {
		title := c.normalizer.NormalizeTitle(tracks[i].Name)
		combined := c.normalizer.NormalizeArtist(tracks[i].Artist) + " " + title
		scores[i] = 0.7*c.normalizer.Similarity(title, query) +
			0.3*c.normalizer.Similarity(combined, query)
	}

	order := make([]int, len(tracks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]core.Track, 0, len(tracks))
	for _, idx := range order {
		ranked = append(ranked, tracks[idx])
	}
	return ranked
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.config.TokenPath)
	if err != nil {
		return nil, err
	}

	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, err
	}
	if td.Token == nil {
		return nil, errors.New("token file has no token")
	}

	return td.Token, nil
}

func partialFromFull(ft *spotify.FullTrack) core.Track {
	artists := make([]string, 0, len(ft.Artists))
	for _, artist := range ft.Artists {
		artists = append(artists, artist.Name)
	}
	primary := ""
	if len(artists) > 0 {
		primary = artists[0]
	}

	return core.Track{
		Name:    ft.Name,
		Artists: artists,
		Artist:  primary,
		SongID:  string(ft.ID),
		URL:     ft.ExternalURLs["spotify"],
	}
}

func playlistSummary(pl *spotify.SimplePlaylist) core.TrackList {
	return core.TrackList{
		URL:        pl.ExternalURLs["spotify"],
		Name:       pl.Name,
		AuthorName: pl.Owner.DisplayName,
		AuthorURL:  pl.Owner.ExternalURLs["spotify"],
		CoverURL:   firstImage(pl.Images),
		Kind:       core.ListKindPlaylist,
	}
}

// extractID pulls the catalog ID for the given entity kind out of an open
// catalog URL or a "spotify:kind:id" URI.
func extractID(rawURL, kind string) (spotify.ID, error) {
	rawURL = strings.TrimSpace(rawURL)

	if strings.HasPrefix(rawURL, "spotify:") {
		parts := strings.Split(rawURL, ":")
		if len(parts) == 3 && parts[1] == kind && parts[2] != "" {
			return spotify.ID(parts[2]), nil
		}
		return "", fmt.Errorf("%w: no %s ID in %q", core.ErrBadFormat, kind, rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %v", core.ErrBadFormat, rawURL, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == kind && i+1 < len(segments) {
			return spotify.ID(segments[i+1]), nil
		}
	}

	return "", fmt.Errorf("%w: no %s ID in %q", core.ErrBadFormat, kind, rawURL)
}

func mapAPIError(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", core.ErrNotFound, apiErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", core.ErrAuthRequired, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", core.ErrNetwork, err)
}

func firstImage(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

func urlOrFallback(external map[string]string, fallback string) string {
	if u, ok := external["spotify"]; ok && u != "" {
		return u
	}
	return fallback
}

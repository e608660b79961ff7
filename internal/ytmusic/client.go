// Package ytmusic adapts the YouTube Music catalog: single-video metadata via
// the oEmbed API and playlist/album listings via the web client's JSON
// browse endpoint.
package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"songseek/internal/core"
)

const (
	defaultOEmbedURL = "https://www.youtube.com/oembed"
	defaultBrowseURL = "https://music.youtube.com/youtubei/v1/browse"
	defaultPlayerURL = "https://music.youtube.com/youtubei/v1/player"
	defaultPagesURL  = "https://music.youtube.com"

	watchURLPrefix = "https://music.youtube.com/watch?v="

	requestTimeout = 10 * time.Second
	// maxPageRead bounds how much of an HTML page is read when scraping the
	// album browse ID.
	maxPageRead = 512 * 1024

	browseClientName    = "WEB_REMIX"
	browseClientVersion = "1.20240101.01.00"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	albumBrowseIDRegex = regexp.MustCompile(`"(MPRE[\w-]+)"`)
	separatorRuns      = map[string]bool{" • ": true, ", ": true, " & ": true}
)

type Client struct {
	http   *http.Client
	logger *zap.Logger

	// Endpoint roots are fields so tests can point them at local servers.
	oembedURL string
	browseURL string
	playerURL string
	pagesURL  string
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: requestTimeout},
		logger:    logger,
		oembedURL: defaultOEmbedURL,
		browseURL: defaultBrowseURL,
		playerURL: defaultPlayerURL,
		pagesURL:  defaultPagesURL,
	}
}

// Video returns the minimal metadata for a single watch URL.
func (c *Client) Video(ctx context.Context, watchURL string) (*core.VideoInfo, error) {
	videoID, err := extractVideoID(watchURL)
	if err != nil {
		return nil, err
	}

	canonical := "https://www.youtube.com/watch?v=" + videoID
	reqURL := fmt.Sprintf("%s?url=%s&format=json", c.oembedURL, url.QueryEscape(canonical))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: video %s", core.ErrNotFound, videoID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: oEmbed returned status %d", core.ErrNetwork, resp.StatusCode)
	}

	var payload struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding oEmbed response: %v", core.ErrNetwork, err)
	}

	// Auto-generated artist channels carry a " - Topic" suffix.
	author := strings.TrimSuffix(payload.AuthorName, " - Topic")

	return &core.VideoInfo{
		Title:    payload.Title,
		Author:   author,
		Duration: c.videoDuration(ctx, videoID),
	}, nil
}

// videoDuration fetches the video length from the player endpoint. The
// duration only refines metadata, so failures degrade to unknown.
func (c *Client) videoDuration(ctx context.Context, videoID string) int {
	doc, err := c.innertube(ctx, c.playerURL, map[string]any{"videoId": videoID})
	if err != nil {
		c.logger.Debug("No video duration",
			zap.String("video", videoID), zap.Error(err))
		return 0
	}

	return int(doc.Get("videoDetails.lengthSeconds").Int())
}

// Playlist fetches a playlist URL (?list= or /browse/VLPL forms) as a track
// list. Unavailable entries are skipped, so the list length reflects only
// retained members.
func (c *Client) Playlist(ctx context.Context, rawURL string) (*core.TrackList, error) {
	listID, err := extractListID(rawURL)
	if err != nil {
		return nil, err
	}

	browseID := listID
	if !strings.HasPrefix(browseID, "VL") {
		browseID = "VL" + browseID
	}

	doc, err := c.browse(ctx, browseID)
	if err != nil {
		return nil, err
	}

	header := firstExisting(doc,
		"header.musicDetailHeaderRenderer",
		"header.musicEditablePlaylistDetailHeaderRenderer.header.musicDetailHeaderRenderer")
	if !header.Exists() {
		return nil, fmt.Errorf("%w: playlist %s", core.ErrNotFound, listID)
	}

	list := &core.TrackList{
		URL:         rawURL,
		Name:        header.Get("title.runs.0.text").String(),
		Description: header.Get("description.runs.0.text").String(),
		AuthorName:  header.Get("subtitle.runs.2.text").String(),
		CoverURL: header.Get(
			"thumbnail.croppedSquareThumbnailRenderer.thumbnail.thumbnails.0.url").String(),
		Kind: core.ListKindPlaylist,
	}

	shelf := doc.Get("contents.singleColumnBrowseResultsRenderer.tabs.0.tabRenderer." +
		"content.sectionListRenderer.contents.0.musicPlaylistShelfRenderer.contents")
	c.appendShelfTracks(list, shelf, "")

	c.logger.Debug("Fetched video playlist",
		zap.String("playlist", list.Name),
		zap.Int("tracks", list.Length()))

	return list, nil
}

// Album fetches an album URL (?list=OLAK5uy_ form) as a track list.
func (c *Client) Album(ctx context.Context, rawURL string) (*core.TrackList, error) {
	listID, err := extractListID(rawURL)
	if err != nil {
		return nil, err
	}

	browseID, err := c.albumBrowseID(ctx, listID)
	if err != nil {
		return nil, err
	}

	doc, err := c.browse(ctx, browseID)
	if err != nil {
		return nil, err
	}

	header := firstExisting(doc,
		"header.musicDetailHeaderRenderer",
		"contents.twoColumnBrowseResultsRenderer.tabs.0.tabRenderer.content."+
			"sectionListRenderer.contents.0.musicResponsiveHeaderRenderer")
	if !header.Exists() {
		return nil, fmt.Errorf("%w: album %s", core.ErrNotFound, listID)
	}

	list := &core.TrackList{
		URL:        rawURL,
		Name:       header.Get("title.runs.0.text").String(),
		AuthorName: header.Get("subtitle.runs.2.text").String(),
		CoverURL: header.Get(
			"thumbnail.croppedSquareThumbnailRenderer.thumbnail.thumbnails.0.url").String(),
		Kind: core.ListKindAlbum,
	}
	if list.AuthorName == "" {
		list.AuthorName = header.Get("straplineTextOne.runs.0.text").String()
	}

	shelf := firstExisting(doc,
		"contents.singleColumnBrowseResultsRenderer.tabs.0.tabRenderer."+
			"content.sectionListRenderer.contents.0.musicShelfRenderer.contents",
		"contents.twoColumnBrowseResultsRenderer.secondaryContents."+
			"sectionListRenderer.contents.0.musicShelfRenderer.contents")
	c.appendShelfTracks(list, shelf, list.Name)

	return list, nil
}

// appendShelfTracks converts browse shelf entries into list members. When
// albumName is non-empty the entries belong to an album and inherit its
// album-level fields.
func (c *Client) appendShelfTracks(list *core.TrackList, shelf gjson.Result, albumName string) {
	shelf.ForEach(func(_, item gjson.Result) bool {
		r := item.Get("musicResponsiveListItemRenderer")
		videoID := r.Get("playlistItemData.videoId").String()
		if videoID == "" {
			// Unavailable entry.
			return true
		}

		title := r.Get(
			"flexColumns.0.musicResponsiveListItemFlexColumnRenderer.text.runs.0.text").String()

		var artists []string
		r.Get("flexColumns.1.musicResponsiveListItemFlexColumnRenderer.text.runs").ForEach(
			func(_, run gjson.Result) bool {
				text := run.Get("text").String()
				if !separatorRuns[text] {
					artists = append(artists, text)
				}
				return true
			})

		primary := ""
		if len(artists) > 0 {
			primary = artists[0]
		}

		trackAlbum := albumName
		if trackAlbum == "" {
			trackAlbum = r.Get(
				"flexColumns.2.musicResponsiveListItemFlexColumnRenderer.text.runs.0.text").String()
		}

		duration := parseDuration(r.Get(
			"fixedColumns.0.musicResponsiveListItemFixedColumnRenderer.text.runs.0.text").String())

		track := core.Track{
			Name:        title,
			Artists:     artists,
			Artist:      primary,
			AlbumName:   trackAlbum,
			AlbumArtist: list.AuthorName,
			Duration:    duration,
			DownloadURL: watchURLPrefix + videoID,
		}
		if albumName == "" {
			// Playlist members do not inherit the playlist author as their
			// album artist.
			track.AlbumArtist = ""
		}

		track.ListPosition = len(list.Tracks) + 1
		list.Tracks = append(list.Tracks, track)
		list.URLs = append(list.URLs, track.URL)
		return true
	})
}

// albumBrowseID scrapes the album's browse ID from its playlist page.
func (c *Client) albumBrowseID(ctx context.Context, listID string) (string, error) {
	pageURL := c.pagesURL + "/playlist?list=" + url.QueryEscape(listID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: album page returned status %d", core.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageRead))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}

	matches := albumBrowseIDRegex.FindSubmatch(body)
	if matches == nil {
		return "", fmt.Errorf("%w: no album browse ID for list %s", core.ErrNotFound, listID)
	}

	return string(matches[1]), nil
}

func (c *Client) browse(ctx context.Context, browseID string) (gjson.Result, error) {
	return c.innertube(ctx, c.browseURL, map[string]any{"browseId": browseID})
}

// innertube posts a web-client request to one of the JSON API endpoints.
func (c *Client) innertube(ctx context.Context, endpoint string, fields map[string]any) (gjson.Result, error) {
	payload := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    browseClientName,
				"clientVersion": browseClientVersion,
				"hl":            "en",
			},
		},
	}
	for key, value := range fields {
		payload[key] = value
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", "https://music.youtube.com")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return gjson.Result{}, fmt.Errorf("%w: endpoint returned status 404", core.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%w: endpoint returned status %d", core.ErrNetwork, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %v", core.ErrNetwork, err)
	}

	return gjson.ParseBytes(data), nil
}

// firstExisting returns the first path that exists in the document. The
// browse payload layout differs between client versions, so several paths
// are probed in order.
func firstExisting(doc gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if r := doc.Get(path); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func extractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid watch URL %q: %v", core.ErrBadFormat, rawURL, err)
	}

	if strings.EqualFold(u.Hostname(), "youtu.be") {
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", fmt.Errorf("%w: no video ID in %q", core.ErrBadFormat, rawURL)
		}
		return id, nil
	}

	id := u.Query().Get("v")
	if id == "" {
		return "", fmt.Errorf("%w: no video ID in %q", core.ErrBadFormat, rawURL)
	}
	return id, nil
}

func extractListID(rawURL string) (string, error) {
	if idx := strings.Index(rawURL, "?list="); idx != -1 {
		id := rawURL[idx+len("?list="):]
		if amp := strings.IndexByte(id, '&'); amp != -1 {
			id = id[:amp]
		}
		if id != "" {
			return id, nil
		}
	}

	if idx := strings.Index(rawURL, "/browse/"); idx != -1 {
		id := rawURL[idx+len("/browse/"):]
		if q := strings.IndexByte(id, '?'); q != -1 {
			id = id[:q]
		}
		if id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: no list ID in %q", core.ErrBadFormat, rawURL)
}

// parseDuration converts "m:ss" or "h:mm:ss" labels into seconds.
func parseDuration(label string) int {
	if label == "" {
		return 0
	}

	total := 0
	for _, part := range strings.Split(label, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

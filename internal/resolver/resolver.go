// Package resolver turns raw query strings into fully resolved track records.
// It dispatches each query through the matcher registry, expands the returned
// lists into their members and optionally re-resolves every member against
// the streaming catalog with a bounded parallel fan-out.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"songseek/internal/core"
	"songseek/pkg/matcher"
)

const trackURLBase = "https://open.spotify.com/track/"

// Locale path segments are sometimes injected into shared links and break
// ID extraction.
var intlSegment = regexp.MustCompile(`/intl-\w+/`)

type Resolver struct {
	streaming core.StreamingCatalog
	registry  *matcher.Registry
	opts      core.Options
	logger    *zap.Logger
}

func New(streaming core.StreamingCatalog, video core.VideoCatalog, opts core.Options, logger *zap.Logger) *Resolver {
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	return &Resolver{
		streaming: streaming,
		registry:  matcher.NewRegistry(streaming, video, matcher.Config{PreferVideoData: opts.PreferVideoData}, logger),
		opts:      opts,
		logger:    logger,
	}
}

// SimpleResolve dispatches every query and expands list results, without
// re-resolving the member tracks. List members fetched without their full
// metadata stay partial.
func (r *Resolver) SimpleResolve(ctx context.Context, queries []string) ([]core.Track, error) {
	var (
		tracks []core.Track
		lists  []*core.TrackList
	)

	for _, query := range queries {
		query, err := r.normalizeQuery(ctx, query)
		if err != nil {
			return nil, err
		}

		track, list, err := r.registry.Parse(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", query, err)
		}

		if track != nil && !r.skip(*track) {
			tracks = append(tracks, *track)
		}
		if list != nil {
			lists = append(lists, list)
		}
	}

	// Lists are expanded only after every input is dispatched, so direct
	// tracks precede all list members in the output.
	for _, list := range lists {
		tracks = append(tracks, r.expandList(list)...)
	}

	return tracks, nil
}

// Resolve is SimpleResolve followed by a parallel re-resolution of every
// track. Tracks that fail to re-resolve are logged and dropped; the batch
// never aborts on a single member. Output order is unspecified.
func (r *Resolver) Resolve(ctx context.Context, queries []string) ([]core.Track, error) {
	partial, err := r.SimpleResolve(ctx, queries)
	if err != nil {
		return nil, err
	}

	sem := semaphore.NewWeighted(int64(r.opts.Threads))
	results := make(chan core.Track, len(partial))

	var wg sync.WaitGroup
	for _, track := range partial {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}

		wg.Add(1)
		go func(track core.Track) {
			defer wg.Done()
			defer sem.Release(1)

			resolved, err := r.Reinit(ctx, track)
			if err != nil {
				r.logger.Warn("dropping track",
					zap.String("track", track.DisplayName()),
					zap.Error(err))
				return
			}
			results <- *resolved
		}(track)
	}

	wg.Wait()
	close(results)

	tracks := make([]core.Track, 0, len(partial))
	for track := range results {
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// Reinit fetches a fresh copy of the track from the streaming catalog and
// merges it under the existing record: fields already present win, fresh
// data only fills absences.
func (r *Resolver) Reinit(ctx context.Context, track core.Track) (*core.Track, error) {
	var (
		fresh *core.Track
		err   error
	)

	switch {
	case track.URL != "":
		fresh, err = r.streaming.TrackFromURL(ctx, track.URL)
	case track.SongID != "":
		fresh, err = r.streaming.TrackFromURL(ctx, trackURLBase+track.SongID)
	case track.Name != "" && track.Artist != "":
		fresh, err = r.streaming.TrackFromSearch(ctx, track.Artist+" - "+track.Name)
	default:
		return nil, fmt.Errorf("%w: track has no url, id or name+artist to resolve by", core.ErrMissingData)
	}
	if err != nil {
		return nil, err
	}

	merged := mergeTracks(track, *fresh)
	return &merged, nil
}

// normalizeQuery resolves plain short links up front and strips locale path
// segments, so the URL matchers see canonical URLs.
func (r *Resolver) normalizeQuery(ctx context.Context, query string) (string, error) {
	if strings.Contains(query, matcher.ShortLinkPrefix) && !strings.Contains(query, "|") {
		resolved, err := r.streaming.ResolveShortLink(ctx, query)
		if err != nil {
			return "", fmt.Errorf("resolving short link %q: %w", query, err)
		}
		r.logger.Debug("short link resolved",
			zap.String("from", query), zap.String("to", resolved))
		query = resolved
	}

	return intlSegment.ReplaceAllString(query, "/"), nil
}

// expandList stamps list-level metadata onto every member and applies the
// numbering and filter options.
func (r *Resolver) expandList(list *core.TrackList) []core.Track {
	tracks := make([]core.Track, 0, list.Length())

	for i, track := range list.Tracks {
		track.ListName = list.Name
		track.ListURL = list.URL
		track.ListLength = list.Length()
		if track.ListPosition == 0 {
			track.ListPosition = i + 1
		}

		if r.opts.PlaylistNumbering || r.opts.RetainTrackCover {
			track.TrackNumber = track.ListPosition
			track.TracksCount = track.ListLength
			track.AlbumName = list.Name
			track.DiscNumber = 1
			track.DiscCount = 1
			// Only playlists contribute their author and cover.
			if list.Kind == core.ListKindPlaylist {
				track.AlbumArtist = list.AuthorName
				if !r.opts.RetainTrackCover {
					track.CoverURL = list.CoverURL
				}
			}
		}

		if r.skip(track) {
			continue
		}

		tracks = append(tracks, track)
	}

	return tracks
}

func (r *Resolver) skip(track core.Track) bool {
	if r.opts.AlbumType != "" && track.AlbumType != r.opts.AlbumType {
		r.logger.Debug("skipping track by album type",
			zap.String("track", track.DisplayName()),
			zap.String("album_type", string(track.AlbumType)))
		return true
	}

	album := strings.ToLower(track.AlbumName)
	for _, keyword := range r.opts.IgnoreAlbums {
		if keyword != "" && strings.Contains(album, strings.ToLower(keyword)) {
			r.logger.Debug("skipping track by album keyword",
				zap.String("track", track.DisplayName()),
				zap.String("keyword", keyword))
			return true
		}
	}

	return false
}

// Package matcher classifies raw query strings and turns each into track
// and track-list records, using an ordered registry where the first matcher
// that claims a string wins.
package matcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"songseek/internal/core"
)

// Matcher is a classifier+handler pair for one input-string shape. Match is
// a cheap substring check and never touches the network; Parse may.
type Matcher interface {
	// Match reports whether this matcher claims the request.
	Match(request string) bool

	// Parse turns a claimed request into zero-or-one track and zero-or-one
	// track list.
	Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error)
}

// Config carries per-run settings that influence parsing.
type Config struct {
	// PreferVideoData keeps the video catalog's richer per-track metadata
	// when cross-linking dual-reference lists.
	PreferVideoData bool
}

// Registry evaluates matchers in a fixed priority order. The trailing
// free-text matcher claims everything, so dispatch is total.
type Registry struct {
	matchers []Matcher
	logger   *zap.Logger
}

func NewRegistry(streaming core.StreamingCatalog, video core.VideoCatalog, cfg Config, logger *zap.Logger) *Registry {
	r := &Registry{logger: logger}
	r.matchers = []Matcher{
		&DualTrackMatcher{},
		&VideoTrackMatcher{streaming: streaming, video: video, preferVideoData: cfg.PreferVideoData},
		&VideoPlaylistMatcher{streaming: streaming, video: video, preferVideoData: cfg.PreferVideoData},
		&TrackURLMatcher{streaming: streaming},
		&ShortLinkMatcher{streaming: streaming, registry: r},
		&PlaylistURLMatcher{streaming: streaming},
		&AlbumURLMatcher{streaming: streaming},
		&ArtistURLMatcher{streaming: streaming},
		&UserURLMatcher{streaming: streaming},
		&AlbumSearchMatcher{streaming: streaming},
		&PlaylistSearchMatcher{streaming: streaming},
		&ArtistSearchMatcher{streaming: streaming},
		&SavedMatcher{streaming: streaming},
		&AllUserPlaylistsMatcher{streaming: streaming},
		&AllUserFollowedArtistsMatcher{streaming: streaming},
		&AllUserSavedAlbumsMatcher{streaming: streaming},
		&AllSavedPlaylistsMatcher{streaming: streaming},
		&SavedFileMatcher{},
		&DefaultMatcher{streaming: streaming},
	}
	return r
}

// Parse dispatches the request to the first matcher that claims it.
func (r *Registry) Parse(ctx context.Context, request string) (*core.Track, *core.TrackList, error) {
	for _, m := range r.matchers {
		if m.Match(request) {
			r.logger.Debug("Matcher claimed request",
				zap.String("matcher", fmt.Sprintf("%T", m)),
				zap.String("request", request))
			return m.Parse(ctx, request)
		}
	}

	// The default matcher claims every string.
	return nil, nil, nil
}

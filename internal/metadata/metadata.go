// Package metadata reads partial track records out of audio files on disk
// and indexes previously downloaded tracks by their identity URL.
package metadata

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"go.uber.org/zap"

	"songseek/internal/core"
)

// TrackFromFile reads the embedded tags of an audio file into a partial
// track. Files without readable tags yield nil.
func TrackFromFile(path string) *core.Track {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}

	track := &core.Track{
		Name:        m.Title(),
		Artist:      m.Artist(),
		AlbumName:   m.Album(),
		AlbumArtist: m.AlbumArtist(),
		Year:        m.Year(),
	}
	if track.Artist != "" {
		track.Artists = []string{track.Artist}
	}
	track.TrackNumber, track.TracksCount = m.Track()
	track.DiscNumber, track.DiscCount = m.Disc()

	// The identity URL is stored in the comment tag on download.
	if comment := m.Comment(); strings.Contains(comment, "open.spotify.com/track/") {
		track.URL = strings.TrimSpace(comment)
	}

	return track
}

// Gatherer indexes an output directory of already-downloaded audio files.
type Gatherer struct {
	streaming core.StreamingCatalog
	logger    *zap.Logger
}

func NewGatherer(streaming core.StreamingCatalog, logger *zap.Logger) *Gatherer {
	return &Gatherer{streaming: streaming, logger: logger}
}

// KnownTracks walks root and maps each identity URL to the file paths that
// carry it. Files whose tags lack the URL fall back to a catalog search on
// the file stem; files that resolve nowhere are skipped.
func (g *Gatherer) KnownTracks(ctx context.Context, root, ext string) (map[string][]string, error) {
	known := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}

		url := g.identityURL(ctx, path)
		if url == "" {
			g.logger.Debug("skipping unidentifiable file", zap.String("path", path))
			return nil
		}

		known[url] = append(known[url], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return known, nil
}

func (g *Gatherer) identityURL(ctx context.Context, path string) string {
	if track := TrackFromFile(path); track != nil && track.URL != "" {
		return track.URL
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	track, err := g.streaming.TrackFromSearch(ctx, stem)
	if err != nil {
		return ""
	}
	return track.URL
}

package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"songseek/internal/core"
)

type searchOnlyCatalog struct {
	core.StreamingCatalog

	byTerm map[string]string
	terms  []string
}

func (c *searchOnlyCatalog) TrackFromSearch(_ context.Context, term string) (*core.Track, error) {
	c.terms = append(c.terms, term)
	if url, ok := c.byTerm[term]; ok {
		return &core.Track{URL: url}, nil
	}
	return nil, core.ErrNotFound
}

func TestTrackFromFileUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-audio.mp3")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatal(err)
	}

	if track := TrackFromFile(path); track != nil {
		t.Errorf("track = %+v, want nil for a tagless file", track)
	}
	if track := TrackFromFile(filepath.Join(dir, "missing.mp3")); track != nil {
		t.Errorf("track = %+v, want nil for a missing file", track)
	}
}

func TestKnownTracksSearchFallback(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Artist - Song One.mp3", "Artist - Song Two.mp3", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	catalog := &searchOnlyCatalog{byTerm: map[string]string{
		"Artist - Song One": "https://open.spotify.com/track/one",
		"Artist - Song Two": "https://open.spotify.com/track/two",
	}}
	g := NewGatherer(catalog, zap.NewNop())

	known, err := g.KnownTracks(context.Background(), dir, ".mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(known) != 2 {
		t.Fatalf("known = %v", known)
	}
	paths := known["https://open.spotify.com/track/one"]
	if len(paths) != 1 || filepath.Base(paths[0]) != "Artist - Song One.mp3" {
		t.Errorf("paths = %v", paths)
	}
	if len(catalog.terms) != 2 {
		t.Errorf("terms = %v, want the jpg skipped", catalog.terms)
	}
}

func TestKnownTracksSkipsUnresolvable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "unknown.mp3"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	g := NewGatherer(&searchOnlyCatalog{}, zap.NewNop())

	known, err := g.KnownTracks(context.Background(), dir, ".mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(known) != 0 {
		t.Errorf("known = %v, want empty", known)
	}
}

package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"songseek/internal/core"
)

// SavedFileExt marks inputs that are paths to previously exported track
// archives.
const SavedFileExt = ".spotdl"

// SavedFileMatcher claims archive file paths. Only the first stored record
// is consumed here; replaying the full archive is the caller's concern.
type SavedFileMatcher struct{}

func (m *SavedFileMatcher) Match(request string) bool {
	return strings.HasSuffix(request, SavedFileExt)
}

func (m *SavedFileMatcher) Parse(_ context.Context, request string) (*core.Track, *core.TrackList, error) {
	data, err := os.ReadFile(request)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %v", core.ErrBadFormat, request, err)
	}

	var tracks []core.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, nil, fmt.Errorf("%w: %s is not a track archive: %v", core.ErrBadFormat, request, err)
	}
	if len(tracks) == 0 {
		return nil, nil, nil
	}

	return &tracks[0], nil, nil
}

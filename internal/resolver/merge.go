package resolver

import "songseek/internal/core"

// mergeTracks overlays a freshly fetched record under an existing one.
// Zero values mean "absent": any field the existing record already carries
// is kept, everything else is taken from the fresh record.
func mergeTracks(existing, fresh core.Track) core.Track {
	merged := fresh

	merged.Name = pick(existing.Name, fresh.Name)
	if len(existing.Artists) > 0 {
		merged.Artists = existing.Artists
	}
	merged.Artist = pick(existing.Artist, fresh.Artist)
	merged.AlbumName = pick(existing.AlbumName, fresh.AlbumName)
	merged.AlbumArtist = pick(existing.AlbumArtist, fresh.AlbumArtist)
	if existing.AlbumType != "" {
		merged.AlbumType = existing.AlbumType
	}
	merged.DiscNumber = pickInt(existing.DiscNumber, fresh.DiscNumber)
	merged.DiscCount = pickInt(existing.DiscCount, fresh.DiscCount)
	merged.Duration = pickInt(existing.Duration, fresh.Duration)
	merged.Year = pickInt(existing.Year, fresh.Year)
	merged.TrackNumber = pickInt(existing.TrackNumber, fresh.TrackNumber)
	merged.TracksCount = pickInt(existing.TracksCount, fresh.TracksCount)
	merged.SongID = pick(existing.SongID, fresh.SongID)
	if existing.Explicit != nil {
		merged.Explicit = existing.Explicit
	}
	merged.URL = pick(existing.URL, fresh.URL)
	merged.DownloadURL = pick(existing.DownloadURL, fresh.DownloadURL)
	merged.CoverURL = pick(existing.CoverURL, fresh.CoverURL)

	merged.ListName = pick(existing.ListName, fresh.ListName)
	merged.ListURL = pick(existing.ListURL, fresh.ListURL)
	merged.ListPosition = pickInt(existing.ListPosition, fresh.ListPosition)
	merged.ListLength = pickInt(existing.ListLength, fresh.ListLength)

	return merged
}

func pick(existing, fresh string) string {
	if existing != "" {
		return existing
	}
	return fresh
}

func pickInt(existing, fresh int) int {
	if existing != 0 {
		return existing
	}
	return fresh
}

package core

import "time"

type Config struct {
	Spotify  SpotifyConfig
	Resolver ResolverConfig
	Log      LogConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenPath    string
	// CacheSize bounds the LRU cache of fetched tracks.
	CacheSize int
}

type ResolverConfig struct {
	Threads          int
	ShortLinkTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURL: "http://localhost:8080/callback",
			TokenPath:   "./spotify_token.json",
			CacheSize:   1024,
		},
		Resolver: ResolverConfig{
			Threads:          4,
			ShortLinkTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Package main provides the songseek CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"songseek/internal/core"
	"songseek/internal/resolver"
	"songseek/internal/spotify"
	"songseek/internal/ytmusic"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "songseek [query ...]",
	Short: "Resolve music queries into normalized track records",
	Long: `songseek resolves URLs, search phrases, library keywords and saved
files into normalized track records backed by the Spotify and YouTube Music
catalogs, and prints them as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSongseek,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("spotify-token-path", "", "path to a user OAuth token file")
	rootCmd.PersistentFlags().Int("threads", 4, "parallel re-resolution fan-out")
	rootCmd.PersistentFlags().Bool("simple", false, "skip the per-track re-resolution pass")
	rootCmd.PersistentFlags().Bool("video-data", false, "prefer video-catalog metadata for dual-reference inputs")
	rootCmd.PersistentFlags().Bool("playlist-numbering", false, "number playlist members as album tracks")
	rootCmd.PersistentFlags().Bool("retain-track-cover", false, "playlist numbering, keeping each track's own cover")
	rootCmd.PersistentFlags().String("album-type", "", "keep only tracks of this album type (album, single, compilation)")
	rootCmd.PersistentFlags().StringSlice("ignore-albums", nil, "drop tracks whose album name contains any of these keywords")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("SONGSEEK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	if path := viper.GetString("spotify-token-path"); path != "" {
		cfg.Spotify.TokenPath = path
	}

	if threads := viper.GetInt("threads"); threads > 0 {
		cfg.Resolver.Threads = threads
	}

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runSongseek(_ *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	spotifyClient := spotify.NewClient(&config.Spotify, logger.Named("spotify"))
	if err := spotifyClient.Authenticate(ctx); err != nil {
		return fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	ytmusicClient := ytmusic.NewClient(logger.Named("ytmusic"))

	opts := core.Options{
		Threads:           config.Resolver.Threads,
		PreferVideoData:   viper.GetBool("video-data"),
		PlaylistNumbering: viper.GetBool("playlist-numbering"),
		RetainTrackCover:  viper.GetBool("retain-track-cover"),
		AlbumType:         core.AlbumType(viper.GetString("album-type")),
		IgnoreAlbums:      viper.GetStringSlice("ignore-albums"),
	}

	r := resolver.New(spotifyClient, ytmusicClient, opts, logger.Named("resolver"))

	var (
		tracks []core.Track
		err    error
	)
	if viper.GetBool("simple") {
		tracks, err = r.SimpleResolve(ctx, args)
	} else {
		tracks, err = r.Resolve(ctx, args)
	}
	if err != nil {
		return err
	}

	logger.Info("resolved", zap.Int("tracks", len(tracks)), zap.Int("queries", len(args)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tracks)
}

func validateConfig() error {
	if config.Spotify.ClientID == "" {
		return fmt.Errorf("spotify client ID is required")
	}

	if config.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify client secret is required")
	}

	switch core.AlbumType(viper.GetString("album-type")) {
	case "", core.AlbumTypeAlbum, core.AlbumTypeSingle, core.AlbumTypeCompilation:
	default:
		return fmt.Errorf("unknown album type %q", viper.GetString("album-type"))
	}

	return nil
}

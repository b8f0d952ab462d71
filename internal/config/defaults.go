package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Matching modes accepted by matching.mode.
const (
	MatchingModeSearchLink = "searchlink"
	MatchingModeCatalog    = "catalog"
)

const (
	defaultTargetSize         = 50
	defaultTracksPerAlbumMin  = 3
	defaultTracksPerAlbumMax  = 5
	defaultRetentionDays      = 14
	defaultLockTimeoutSeconds = 10
	defaultFetchTimeout       = 20
	defaultUserAgent          = "rotation/0.1"
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultSourceType         = "album"
)

// defaultIncludeGenres admits the profile this playlist curates for: punk,
// r&b, pop, rock, non-prog metal, and underground electronic.
var defaultIncludeGenres = []string{
	"punk", "hardcore", "post-punk", "post punk", "emo", "ska punk",
	"r&b", "rnb", "soul", "neo-soul", "neo soul",
	"pop", "indie pop", "synth pop", "synthpop", "art pop", "dream pop",
	"rock", "indie rock", "alternative", "garage rock", "psych rock",
	"psychedelic", "shoegaze", "noise rock", "grunge",
	"metal", "death metal", "black metal", "doom metal", "thrash",
	"sludge", "stoner metal", "heavy metal",
	"electronic", "uk garage", "drum and bass", "dnb", "d&b",
	"jungle", "footwork", "juke", "house", "techno", "ambient",
	"experimental electronic", "idm", "breakbeat", "grime",
	"dubstep",
}

var defaultExcludeGenres = []string{
	"prog metal", "progressive metal", "prog rock", "progressive rock",
	"edm", "big room", "festival", "brostep", "mainstream edm",
	"future bass",
}

func defaultStateFile() string {
	return filepath.Join(xdg.DataHome, "rotation", "state.json")
}

func defaultCatalogPath() string {
	return filepath.Join(xdg.DataHome, "rotation", "catalog.db")
}

func defaultOutputDir() string {
	return "~/playlists"
}

func defaultLogDir() string {
	return filepath.Join(xdg.DataHome, "rotation", "logs")
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateFile:   defaultStateFile(),
			CatalogPath: defaultCatalogPath(),
			OutputDir:   defaultOutputDir(),
			LogDir:      defaultLogDir(),
		},
		Playlist: Playlist{
			TargetSize:        defaultTargetSize,
			TracksPerAlbumMin: defaultTracksPerAlbumMin,
			TracksPerAlbumMax: defaultTracksPerAlbumMax,
		},
		Retention: Retention{
			Days:               defaultRetentionDays,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Genres: Genres{
			Include: append([]string(nil), defaultIncludeGenres...),
			Exclude: append([]string(nil), defaultExcludeGenres...),
		},
		Fetch: Fetch{
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultFetchTimeout,
		},
		Matching: Matching{
			Mode: MatchingModeSearchLink,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlaylist(); err != nil {
		return err
	}
	if err := c.validateRetention(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlaylist() error {
	if c.Playlist.TargetSize <= 0 {
		return errors.New("playlist.target_size must be positive")
	}
	if c.Playlist.TracksPerAlbumMin < 1 {
		return errors.New("playlist.tracks_per_album_min must be >= 1")
	}
	if c.Playlist.TracksPerAlbumMin > c.Playlist.TracksPerAlbumMax {
		return errors.New("playlist.tracks_per_album_min must not exceed playlist.tracks_per_album_max")
	}
	return nil
}

func (c *Config) validateRetention() error {
	return ensurePositiveMap(map[string]int{
		"retention.days":                 c.Retention.Days,
		"retention.lock_timeout_seconds": c.Retention.LockTimeoutSeconds,
	})
}

func (c *Config) validateFetch() error {
	return ensurePositiveMap(map[string]int{
		"fetch.timeout_seconds": c.Fetch.TimeoutSeconds,
	})
}

func (c *Config) validateSources() error {
	seen := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		label := fmt.Sprintf("sources[%d]", i)
		if src.Name == "" {
			return fmt.Errorf("%s.name must be set", label)
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("%s.name %q is declared more than once", label, src.Name)
		}
		seen[src.Name] = struct{}{}

		if src.Type != "album" && src.Type != "track" {
			return fmt.Errorf("%s.type must be \"album\" or \"track\"", label)
		}

		switch src.Kind {
		case "feed":
			if src.URL == "" {
				return fmt.Errorf("%s.url must be set for feed sources", label)
			}
		case "page":
			if src.URL == "" {
				return fmt.Errorf("%s.url must be set for page sources", label)
			}
			for field, value := range map[string]string{
				"item_selector":   src.ItemSelector,
				"artist_selector": src.ArtistSelector,
				"title_selector":  src.TitleSelector,
			} {
				if strings.TrimSpace(value) == "" {
					return fmt.Errorf("%s.%s must be set for page sources", label, field)
				}
			}
		case "file":
			if src.Path == "" {
				return fmt.Errorf("%s.path must be set for file sources", label)
			}
		default:
			return fmt.Errorf("%s.kind must be one of feed, page, file", label)
		}
	}
	return nil
}

func (c *Config) validateMatching() error {
	switch c.Matching.Mode {
	case MatchingModeSearchLink, MatchingModeCatalog:
		return nil
	default:
		return fmt.Errorf("matching.mode must be %q or %q", MatchingModeSearchLink, MatchingModeCatalog)
	}
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

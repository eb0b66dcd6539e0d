// Package config loads and validates the exporter's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Reddit   RedditConfig   `yaml:"reddit"`
	Export   ExportConfig   `yaml:"export"`
	Database DatabaseConfig `yaml:"database"`
	RunMode  RunModeConfig  `yaml:"run_mode"`
}

// RedditConfig contains Reddit API credentials. Any field left empty is
// filled from the environment (REDDIT_USERNAME etc.), so secrets can live
// in a .env file instead of the config file.
type RedditConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	UserAgent    string `yaml:"user_agent"`
}

// ExportConfig contains document and media output settings.
type ExportConfig struct {
	VaultDirectory            string   `yaml:"vault_directory"`             // Where documents are written
	MediaFolder               string   `yaml:"media_folder"`                // Where downloaded media is written
	DownloadImages            bool     `yaml:"download_images"`             // Download classified images
	DownloadGifs              bool     `yaml:"download_gifs"`               // Download classified gifs
	DownloadVideos            bool     `yaml:"download_videos"`             // Download classified videos
	PreserveCrosspostMetadata bool     `yaml:"preserve_crosspost_metadata"` // Emit crosspost frontmatter keys
	ImportCrosspostOriginal   bool     `yaml:"import_crosspost_original"`   // Substitute crosspost origin content
	Origins                   []string `yaml:"origins"`                     // saved, upvoted, submitted, commented
	MaxItemsPerRun            int      `yaml:"max_items_per_run"`
	OverwriteExisting         bool     `yaml:"overwrite_existing"` // Re-export items already in the ledger
}

// DatabaseConfig contains SQLite export-ledger settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RunModeConfig contains run mode settings.
type RunModeConfig struct {
	Mode     string        `yaml:"mode"`     // "once" or "continuous"
	Interval time.Duration `yaml:"interval"` // Interval for continuous mode
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// applyEnv fills empty credential fields from the environment.
func (c *Config) applyEnv() {
	env := func(field *string, key string) {
		if *field == "" {
			*field = os.Getenv(key)
		}
	}
	env(&c.Reddit.Username, "REDDIT_USERNAME")
	env(&c.Reddit.Password, "REDDIT_PASSWORD")
	env(&c.Reddit.ClientID, "REDDIT_CLIENT_ID")
	env(&c.Reddit.ClientSecret, "REDDIT_CLIENT_SECRET")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Reddit.Username == "" {
		return fmt.Errorf("reddit.username is required")
	}
	if c.Reddit.Password == "" {
		return fmt.Errorf("reddit.password is required")
	}
	if c.Reddit.ClientID == "" {
		return fmt.Errorf("reddit.client_id is required")
	}
	if c.Reddit.ClientSecret == "" {
		return fmt.Errorf("reddit.client_secret is required")
	}
	if c.Export.VaultDirectory == "" {
		return fmt.Errorf("export.vault_directory is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	for _, origin := range c.Export.Origins {
		if !models.ContentOrigin(origin).Valid() {
			return fmt.Errorf("export.origins contains unknown origin %q", origin)
		}
	}
	if c.RunMode.Mode != "" && c.RunMode.Mode != "once" && c.RunMode.Mode != "continuous" {
		return fmt.Errorf("run_mode.mode must be 'once' or 'continuous'")
	}
	if c.RunMode.Mode == "continuous" && c.RunMode.Interval == 0 {
		return fmt.Errorf("run_mode.interval is required for continuous mode")
	}
	return nil
}

// SetDefaults sets default values for optional configuration fields
func (c *Config) SetDefaults() {
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = fmt.Sprintf("saved-reddit-exporter/1.0 (by /u/%s)", c.Reddit.Username)
	}
	if c.Export.MediaFolder == "" {
		c.Export.MediaFolder = "media"
	}
	if len(c.Export.Origins) == 0 {
		c.Export.Origins = []string{string(models.OriginSaved)}
	}
	if c.Export.MaxItemsPerRun == 0 {
		c.Export.MaxItemsPerRun = 100
	}
	if c.RunMode.Mode == "" {
		c.RunMode.Mode = "once"
	}
}

// ContentOrigins returns the configured origins as typed values.
func (c *Config) ContentOrigins() []models.ContentOrigin {
	origins := make([]models.ContentOrigin, 0, len(c.Export.Origins))
	for _, o := range c.Export.Origins {
		origins = append(origins, models.ContentOrigin(o))
	}
	return origins
}

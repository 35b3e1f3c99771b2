// Package config holds the settings for one upload run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables holding the media host credentials.
const (
	EnvCloudName = "CLOUD_NAME"
	EnvAPIKey    = "CLOUD_API_KEY"
	EnvAPISecret = "CLOUD_API_SECRET"
)

// ErrMissingCredentials is returned by Validate when any credential is unset.
var ErrMissingCredentials = errors.New("missing credentials")

// Config is passed into the pipeline once at startup.
type Config struct {
	CloudName string `yaml:"-"`
	APIKey    string `yaml:"-"`
	APISecret string `yaml:"-"`

	Folder        string        `yaml:"folder"`
	PreferAltText bool          `yaml:"prefer_alt_text"`
	Throttle      time.Duration `yaml:"throttle"`
	Transform     string        `yaml:"transform"`

	SourcePath  string `yaml:"source"`
	SourceSheet string `yaml:"source_sheet"`
	DestPath    string `yaml:"dest"`
	DestSheet   string `yaml:"dest_sheet"`

	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	UploadTimeout time.Duration `yaml:"upload_timeout"`
	APIBaseURL    string        `yaml:"api_base_url"`

	Workers      int    `yaml:"workers"`
	ManifestPath string `yaml:"manifest"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Folder:        "husq_parts",
		PreferAltText: true,
		Throttle:      300 * time.Millisecond,
		Transform:     "c_pad,w_800,h_800,b_white,f_auto,q_auto,dpr_auto",
		SourcePath:    "source.xlsx",
		SourceSheet:   "Sheet1",
		DestPath:      "final_output.xlsx",
		DestSheet:     "Sheet1",
		FetchTimeout:  30 * time.Second,
		UploadTimeout: 60 * time.Second,
		APIBaseURL:    "https://api.cloudinary.com",
		Workers:       1,
	}
}

// LoadFile overlays the YAML file at path on top of c. Keys missing from the
// file keep their current value. Credentials are never read from the file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv reads credentials through getenv. Unset variables leave the field
// untouched.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvCloudName); v != "" {
		c.CloudName = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvAPISecret); v != "" {
		c.APISecret = v
	}
}

// Validate fails with ErrMissingCredentials naming every unset variable.
func (c *Config) Validate() error {
	var missing []string
	if c.CloudName == "" {
		missing = append(missing, EnvCloudName)
	}
	if c.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if c.APISecret == "" {
		missing = append(missing, EnvAPISecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s env vars", ErrMissingCredentials, strings.Join(missing, " / "))
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Throttle < 0 {
		return fmt.Errorf("throttle must not be negative, got %s", c.Throttle)
	}
	return nil
}

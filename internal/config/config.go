package owners

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	FileName             = "hunkowners.toml"
	DefaultLineThreshold = 500
	DefaultWorkers       = 4
	DefaultTimeout       = 2 * time.Minute
	DefaultMaxReviewers  = 3
)

type Config struct {
	LineThreshold int               `toml:"line_threshold"`
	Workers       int               `toml:"workers"`
	Timeout       string            `toml:"timeout"`
	Ignore        []string          `toml:"ignore"`
	MaxReviewers  int               `toml:"max_reviewers"`
	Aliases       map[string]string `toml:"aliases"`
}

// FileReader abstracts where the config file comes from (working tree or a git ref)
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	PathExists(path string) bool
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFileReader) PathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func DefaultConfig() *Config {
	return &Config{
		LineThreshold: DefaultLineThreshold,
		Workers:       DefaultWorkers,
		Timeout:       DefaultTimeout.String(),
		Ignore:        []string{},
		MaxReviewers:  DefaultMaxReviewers,
		Aliases:       map[string]string{},
	}
}

// ReadConfig reads hunkowners.toml from dir. A nil reader reads from the filesystem.
// The default config is returned alongside any error.
func ReadConfig(dir string, reader FileReader) (*Config, error) {
	if reader == nil {
		reader = osFileReader{}
	}
	defaultConfig := DefaultConfig()

	fileName := filepath.Join(dir, FileName)
	if !reader.PathExists(fileName) {
		return defaultConfig, nil
	}
	file, err := reader.ReadFile(fileName)
	if err != nil {
		return defaultConfig, err
	}
	config := DefaultConfig()
	err = toml.Unmarshal(file, config)
	if err != nil {
		return defaultConfig, err
	}
	if err := config.validate(); err != nil {
		return defaultConfig, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.LineThreshold <= 0 {
		c.LineThreshold = DefaultLineThreshold
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Ignore == nil {
		c.Ignore = []string{}
	}
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout.String()
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d < 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	return nil
}

// TimeoutDuration is the per pull request time limit; zero disables it
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

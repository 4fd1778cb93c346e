// Package config loads the CLI configuration from flags and an optional
// YAML file. File values override the defaults; any flag the user set
// explicitly overrides the file.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/s3ferry/s3ferry/errors"
	"github.com/s3ferry/s3ferry/internal/scanner"
)

// Config holds the upload settings the CLI resolves before a run.
type Config struct {
	// Bucket is the destination S3 bucket
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to every destination key
	Prefix string `yaml:"prefix"`

	// Region is the AWS region
	Region string `yaml:"region"`

	// Endpoint is a custom S3 endpoint URL for S3-compatible services
	Endpoint string `yaml:"endpoint"`

	// PathStyle switches to path-style addressing
	PathStyle bool `yaml:"path_style"`

	// AccessKey and SecretKey select static credentials; empty means the
	// default AWS credential chain
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// Concurrency is the number of upload workers
	Concurrency int `yaml:"concurrency"`

	// Include and Exclude are regular expressions filtering the tree
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// Private uploads objects with authenticated-read instead of public-read
	Private bool `yaml:"private"`

	// MetricsAddr exposes Prometheus metrics when non-empty
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the configuration an empty command line resolves to.
func Default() *Config {
	return &Config{
		Concurrency: 1,
	}
}

// BindFlags declares every upload flag on the flag set. The CLI and the
// tests share it so they always agree on names and defaults.
func BindFlags(flags *pflag.FlagSet) {
	flags.StringP("bucket", "b", "", "S3 bucket to upload to (required)")
	flags.StringP("prefix", "p", "", "prefix to prepend to destination keys")
	flags.StringP("key", "k", "", "AWS access key id")
	flags.StringP("secret", "s", "", "AWS secret access key")
	flags.IntP("concurrency", "c", 1, "number of concurrent uploads")
	flags.StringArrayP("include", "i", nil, "regex of filenames to include (repeatable)")
	flags.StringArrayP("exclude", "e", nil, "regex of filenames to exclude (repeatable)")
	flags.BoolP("private", "r", false, "upload objects as authenticated-read instead of public-read")
	flags.String("region", "", "AWS region (default taken from the environment)")
	flags.String("endpoint", "", "custom S3 endpoint URL")
	flags.Bool("path-style", false, "use path-style addressing for S3-compatible services")
	flags.String("metrics-addr", "", "expose Prometheus metrics on this address (empty disables)")
}

// Load resolves the configuration from the optional YAML file at path and
// the parsed flag set, then validates it.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load config file: %v", err))
		}
	}
	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyFlags overrides file values with every flag the user set explicitly.
func applyFlags(cfg *Config, flags *pflag.FlagSet) {
	if flags.Changed("bucket") {
		cfg.Bucket, _ = flags.GetString("bucket")
	}
	if flags.Changed("prefix") {
		cfg.Prefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("key") {
		cfg.AccessKey, _ = flags.GetString("key")
	}
	if flags.Changed("secret") {
		cfg.SecretKey, _ = flags.GetString("secret")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("include") {
		cfg.Include, _ = flags.GetStringArray("include")
	}
	if flags.Changed("exclude") {
		cfg.Exclude, _ = flags.GetStringArray("exclude")
	}
	if flags.Changed("private") {
		cfg.Private, _ = flags.GetBool("private")
	}
	if flags.Changed("region") {
		cfg.Region, _ = flags.GetString("region")
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("path-style") {
		cfg.PathStyle, _ = flags.GetBool("path-style")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
}

// Validate rejects configurations no run could start with.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.NewConfigError("bucket is required")
	}
	if c.Concurrency < 1 {
		return errors.NewConfigError("concurrency must be positive")
	}
	if _, err := scanner.NewFilterSet(c.Include, c.Exclude); err != nil {
		return err
	}
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// MARK: Load
// Loads raw configuration from a YAML file when path is non-empty; a
// path that does not exist is an error, and an empty path yields an
// empty Config. No defaults or validation are applied here: the caller
// layers CLI flags on top via Flags.Apply and then calls Finalize.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	return cfg, nil
}

// MARK: Finalize
// Applies defaults, resolves raw duration/size strings into their typed
// fields, and validates the result. Called once, after all CLI overrides
// have been layered onto the loaded config.
func (c *Config) Finalize() error {
	c.setDefaults()

	interval, err := ParseDuration(c.CheckIntervalRaw)
	if err != nil {
		return fmt.Errorf("check_interval: %w", err)
	}
	c.CheckInterval = interval

	maxBody, err := ParseSize(c.MaxBodyRaw)
	if err != nil {
		return fmt.Errorf("max_body: %w", err)
	}
	c.MaxBodyBytes = maxBody

	return c.validate()
}

// MARK: validate
// Validates the fully-resolved configuration record.
func (c *Config) validate() error {
	if c.PrimaryURL == "" {
		return fmt.Errorf("primary URL is required")
	}
	if c.BackupURL == "" {
		return fmt.Errorf("backup URL is required")
	}
	if err := c.validateAbsoluteURL("primary", c.PrimaryURL); err != nil {
		return err
	}
	if err := c.validateAbsoluteURL("backup", c.BackupURL); err != nil {
		return err
	}

	if c.FailThreshold < 1 {
		return fmt.Errorf("fail_threshold must be >= 1, got %d", c.FailThreshold)
	}
	if c.RecoverThreshold < 1 {
		return fmt.Errorf("recover_threshold must be >= 1, got %d", c.RecoverThreshold)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body must be positive")
	}

	if c.WebhookURL != "" {
		switch c.WebhookFormat {
		case WebhookFormatSlack, WebhookFormatDiscord:
		default:
			return fmt.Errorf("webhook_format must be slack or discord, got %q", c.WebhookFormat)
		}
		if _, err := url.ParseRequestURI(c.WebhookURL); err != nil {
			return fmt.Errorf("webhook_url is not a valid URL: %w", err)
		}
	}

	return nil
}

// MARK: validateAbsoluteURL
func (c *Config) validateAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s URL %q: %w", field, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s URL %q must be absolute (scheme + host)", field, raw)
	}
	return nil
}

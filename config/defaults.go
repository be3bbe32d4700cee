package config

const (
	DefaultListenAddr       = "0.0.0.0:8080"
	DefaultManagementAddr   = "0.0.0.0:9090"
	DefaultCheckInterval    = "2s"
	DefaultFailThreshold    = 3
	DefaultRecoverThreshold = 2
	DefaultMaxBody          = "10MB"
	DefaultWebhookFormat    = WebhookFormatSlack
)

// MARK: setDefaults
// Applies default values to any field left unset by the config file or
// CLI flags.
func (c *Config) setDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.ManagementAddr == "" {
		c.ManagementAddr = DefaultManagementAddr
	}
	if c.CheckIntervalRaw == "" {
		c.CheckIntervalRaw = DefaultCheckInterval
	}
	if c.FailThreshold == 0 {
		c.FailThreshold = DefaultFailThreshold
	}
	if c.RecoverThreshold == 0 {
		c.RecoverThreshold = DefaultRecoverThreshold
	}
	if c.MaxBodyRaw == "" {
		c.MaxBodyRaw = DefaultMaxBody
	}
	if c.WebhookFormat == "" {
		c.WebhookFormat = DefaultWebhookFormat
	}
}

package config

import "time"

// MARK: Config

// Config is the validated configuration record consumed by every
// subsystem after startup. Fields mirror the CLI flags and the keys
// accepted in the YAML config file. A SIGHUP reload rewrites only the
// webhook and threshold fields; all other fields stay fixed for the
// life of the process.
type Config struct {
	ListenAddr       string        `yaml:"listen"`
	ManagementAddr   string        `yaml:"management_addr"`
	PrimaryURL       string        `yaml:"primary"`
	BackupURL        string        `yaml:"backup"`
	CheckInterval    time.Duration `yaml:"-"`
	CheckIntervalRaw string        `yaml:"check_interval"`
	FailThreshold    int           `yaml:"fail_threshold"`
	RecoverThreshold int           `yaml:"recover_threshold"`
	MaxBodyBytes     int64         `yaml:"-"`
	MaxBodyRaw       string        `yaml:"max_body"`
	WebhookURL       string        `yaml:"webhook_url"`
	WebhookFormat    WebhookFormat `yaml:"webhook_format"`
	JSONLogs         bool          `yaml:"json_logs"`
}

// MARK: WebhookFormat

// WebhookFormat selects the JSON payload shape posted to webhook_url.
type WebhookFormat string

const (
	WebhookFormatSlack   WebhookFormat = "slack"
	WebhookFormatDiscord WebhookFormat = "discord"
)

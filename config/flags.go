package config

import "flag"

// MARK: Flags
// Flags holds the raw CLI flag values before they are layered onto a
// Config loaded from file. Only flags explicitly set on the command line
// override the file; flag.Visit is used to tell "set" from "default".
type Flags struct {
	fs *flag.FlagSet

	listen           string
	managementAddr   string
	primary          string
	backup           string
	checkInterval    string
	failThreshold    int
	recoverThreshold int
	maxBody          string
	configPath       string
	jsonLogs         bool
	webhookURL       string
	webhookFormat    string
}

// MARK: RegisterFlags
// Registers the CLI flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.listen, "listen", "", "host:port to bind (default 0.0.0.0:8080)")
	fs.StringVar(&f.managementAddr, "management-addr", "", "host:port for /healthz and /readyz (default 0.0.0.0:9090)")
	fs.StringVar(&f.primary, "primary", "", "primary upstream base URL")
	fs.StringVar(&f.backup, "backup", "", "backup upstream base URL")
	fs.StringVar(&f.checkInterval, "check-interval", "", "duration between health probes, e.g. 2s")
	fs.IntVar(&f.failThreshold, "fail-threshold", 0, "consecutive failures before failover")
	fs.IntVar(&f.recoverThreshold, "recover-threshold", 0, "consecutive successes before recovery")
	fs.StringVar(&f.maxBody, "max-body", "", "max request body size, e.g. 10MB")
	fs.StringVar(&f.configPath, "config", "", "path to YAML config file")
	fs.BoolVar(&f.jsonLogs, "json-logs", false, "emit structured JSON logs")
	fs.StringVar(&f.webhookURL, "webhook-url", "", "webhook URL for incident notifications")
	fs.StringVar(&f.webhookFormat, "webhook-format", "", "webhook payload format: slack or discord")
	return f
}

// MARK: ConfigPath
func (f *Flags) ConfigPath() string {
	return f.configPath
}

// MARK: Apply
// Overrides cfg's fields with any flag explicitly set on the command
// line. Flags win over the config file.
func (f *Flags) Apply(cfg *Config) {
	set := map[string]bool{}
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["listen"] {
		cfg.ListenAddr = f.listen
	}
	if set["management-addr"] {
		cfg.ManagementAddr = f.managementAddr
	}
	if set["primary"] {
		cfg.PrimaryURL = f.primary
	}
	if set["backup"] {
		cfg.BackupURL = f.backup
	}
	if set["check-interval"] {
		cfg.CheckIntervalRaw = f.checkInterval
	}
	if set["fail-threshold"] {
		cfg.FailThreshold = f.failThreshold
	}
	if set["recover-threshold"] {
		cfg.RecoverThreshold = f.recoverThreshold
	}
	if set["max-body"] {
		cfg.MaxBodyRaw = f.maxBody
	}
	if set["json-logs"] {
		cfg.JSONLogs = f.jsonLogs
	}
	if set["webhook-url"] {
		cfg.WebhookURL = f.webhookURL
	}
	if set["webhook-format"] {
		cfg.WebhookFormat = WebhookFormat(f.webhookFormat)
	}
}

package config

import (
	"os"
	"time"
)

// Config carries everything supplied from the environment. Provider
// credentials are intentionally optional here; clients fail at call time
// when a key is missing so the chart API still works without them.
type Config struct {
	Port        string
	Environment string

	DatasetPath string

	RetellBaseURL string
	RetellAPIKey  string
	RetellAgentID string
	FromNumber    string

	CompletionBaseURL string
	CompletionAPIKey  string
	CompletionModel   string

	PollInterval time.Duration
	PollCeiling  time.Duration
}

func Load() *Config {
	return &Config{
		Port:        envOr("PORT", "8080"),
		Environment: envOr("ENVIRONMENT", "local"),

		DatasetPath: envOr("DATASET_PATH", "synthetic_calls_scenarios.csv"),

		RetellBaseURL: envOr("RETELL_BASE_URL", "https://api.retellai.com/v2"),
		RetellAPIKey:  os.Getenv("RETELL_API_KEY"),
		RetellAgentID: envOr("RETELL_AGENT_ID", "agent_7a7a2fff71b3119b46a4afa692"),
		FromNumber:    envOr("FROM_NUMBER", "+16509999723"),

		CompletionBaseURL: envOr("COMPLETION_BASE_URL", "https://openrouter.ai/api/v1"),
		CompletionAPIKey:  os.Getenv("COMPLETION_API_KEY"),
		CompletionModel:   envOr("COMPLETION_MODEL", "gpt-4o-mini"),

		PollInterval: durationOr("POLL_INTERVAL", 5*time.Second),
		PollCeiling:  durationOr("POLL_CEILING", 30*time.Minute),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationOr(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

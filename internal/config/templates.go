package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# tradecoach Configuration

[import]
# Accept legacy datasets that lack entry_price/exit_price/account_balance.
# Extended bias signals are skipped for the missing field groups.
allow_legacy = true
# Directory where exported sample datasets are written
data_dir = ""

[coach]
# Enable the LLM coaching enrichment. When disabled or unavailable the
# deterministic template coach is used instead.
enabled = true
# OpenAI model for coaching output
model = "gpt-4o-mini"
# Request timeout in seconds
timeout_seconds = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"

# Per-brokerage fee overrides for the comparison table, e.g.
# [brokerages."Brokerage B (Discount)"]
# per_trade = 5.95
`

const credentialsTemplate = `# tradecoach Credentials
# The OPENAI_API_KEY environment variable overrides this file.

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials are user-private
	return os.WriteFile(path, []byte(credentialsTemplate), 0600)
}

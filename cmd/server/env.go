package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/trustedlogin/go-vendor/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Prints the effective server configuration",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.DefaultServiceConfigFromEnv()

		// secrets stay out of the dump
		cfg.TrustedLogin.APIKey = redact(cfg.TrustedLogin.APIKey)
		cfg.Database.Password = redact(cfg.Database.Password)
		cfg.Helpdesk.HelpScoutSecret = redact(cfg.Helpdesk.HelpScoutSecret)
		cfg.Helpdesk.IntercomSecret = redact(cfg.Helpdesk.IntercomSecret)
		cfg.Auth.AgentTokens = nil

		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to marshal config")
		}

		fmt.Println(string(out))
	},
}

func redact(s string) string {
	if s == "" {
		return ""
	}

	return "[redacted]"
}

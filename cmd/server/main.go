package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-vendor",
	Short: "TrustedLogin vendor-side credential exchange service",
}

func main() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(envCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "code-explainer",
	Short: "Explain code for multiple audience levels, with narrated slideshow videos",
	Long: "code-explainer turns a markdown document, a GitHub repository or a local project\n" +
		"into audience-tiered explanations: a text report, reference links and a narrated\n" +
		"slideshow video per level.",
}

func main() {
	// A missing .env file is not an error, the environment may be set
	// directly.
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd, explainCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

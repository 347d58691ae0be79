package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "saiv",
	Short: "AI-powered learning assistant backend",
	Long: `SaiV turns PDFs and YouTube videos into study material: it indexes
content into a vector store and serves chat, flashcard and quiz generation
grounded on the indexed documents.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional; env vars override)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func initLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

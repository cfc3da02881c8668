package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "0.1.0"

var (
	configPath string
	logLevel   string
	outline    bool
)

var rootCmd = &cobra.Command{
	Use:   "docxtiptap",
	Short: "Convert DOCX documents to TipTap JSON and back",
	Long: `docxtiptap converts Word documents into TipTap/ProseMirror JSON for
editing and converts edited JSON back into DOCX, keeping table formatting
the editor cannot represent.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = Version

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(roundtripCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error|off)")
	rootCmd.PersistentFlags().BoolVar(&outline, "outline", false, "group content under headings as nested sections")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newEngine builds an engine from the config file, environment and flags,
// in increasing order of precedence.
func newEngine(cmd *cobra.Command) (*docxtiptap.Engine, error) {
	config := docxtiptap.ConfigFromEnvironment()
	if configPath != "" {
		loaded, err := docxtiptap.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if cmd.Flags().Changed("log-level") {
		config.LogLevel = logLevel
	}
	if cmd.Flags().Changed("outline") {
		config.OutlineSections = outline
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	docxtiptap.SetGlobalConfig(config)
	return docxtiptap.NewWithConfig(config), nil
}

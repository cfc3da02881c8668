package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionFormat string

type versionPayload struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Go      string `json:"go"`
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := versionPayload{Tool: "docxtiptap", Version: Version, Go: runtime.Version()}
		switch versionFormat {
		case "json":
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		case "pretty":
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", payload.Tool, payload.Version, payload.Go)
		default:
			return fmt.Errorf("unknown format %q", versionFormat)
		}
		return nil
	},
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap"
)

var roundtripOutput string

func init() {
	roundtripCmd.Flags().StringVarP(&roundtripOutput, "output", "o", "", "output DOCX file")
	_ = roundtripCmd.MarkFlagRequired("output")
}

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <file.docx>",
	Short: "Import a DOCX and export it again through JSON",
	Long: `roundtrip imports a DOCX file, serializes the editor document to JSON and
back, then exports it using the source file as the template. The output shows
what an unedited pass through the editor preserves.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		result, err := engine.ImportFile(args[0])
		if err != nil {
			return err
		}

		// go through JSON so the pass matches what an editor would send back
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		reloaded, err := docxtiptap.ParseDocument(data)
		if err != nil {
			return err
		}

		if err := engine.ExportFile(reloaded.Doc, roundtripOutput, args[0], reloaded.Comments); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", roundtripOutput)
		return nil
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap"
)

var (
	exportOutput   string
	exportTemplate string
	exportComments string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output DOCX file (default: input name with .docx)")
	exportCmd.Flags().StringVar(&exportTemplate, "template", "", "DOCX whose styles, page setup and parts are inherited")
	exportCmd.Flags().StringVar(&exportComments, "comments", "", "JSON file with a comment list to write as the comments part")
}

var exportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Convert TipTap JSON to a DOCX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		parsed, err := docxtiptap.ParseDocument(data)
		if err != nil {
			return err
		}

		comments := parsed.Comments
		if exportComments != "" {
			comments, err = readComments(exportComments)
			if err != nil {
				return err
			}
		}

		output := exportOutput
		if output == "" {
			output = strings.TrimSuffix(args[0], ".json") + ".docx"
		}
		if err := engine.ExportFile(parsed.Doc, output, exportTemplate, comments); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
		return nil
	},
}

func readComments(path string) ([]docxtiptap.Comment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read comments %s: %w", path, err)
	}
	var comments []docxtiptap.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("failed to parse comments %s: %w", path, err)
	}
	return comments, nil
}

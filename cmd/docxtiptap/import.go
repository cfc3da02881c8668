package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap"
)

var (
	importOutput string
	importGlob   string
	importIndent bool
)

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "output JSON file (default stdout; with --glob, an output directory)")
	importCmd.Flags().StringVar(&importGlob, "glob", "", "convert every file matching a ** pattern")
	importCmd.Flags().BoolVar(&importIndent, "indent", true, "indent JSON output")
}

var importCmd = &cobra.Command{
	Use:   "import [file.docx]",
	Short: "Convert a DOCX file to TipTap JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		if importGlob != "" {
			return importBatch(cmd.Context(), engine, importGlob, importOutput)
		}
		if len(args) != 1 {
			return fmt.Errorf("import needs a file or --glob")
		}

		result, err := engine.ImportFile(args[0])
		if err != nil {
			return err
		}
		data, err := encodeResult(result)
		if err != nil {
			return err
		}
		if importOutput == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(importOutput, data, 0644)
	},
}

func encodeResult(result *docxtiptap.ImportResult) ([]byte, error) {
	if importIndent {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

// importBatch converts every match of pattern in parallel. Each file is
// written next to its source, or into outDir when given, keeping its path
// relative to the static base of the pattern. Failures are collected so one
// bad file does not stop the batch.
func importBatch(ctx context.Context, engine *docxtiptap.Engine, pattern, outDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)

	errs := make([]error, len(matches))
	outputs := make([]string, len(matches))
	claimed := make(map[string]string, len(matches))
	for i, path := range matches {
		out := batchOutputPath(path, base, outDir)
		if first, ok := claimed[out]; ok {
			errs[i] = fmt.Errorf("%s: output %s would overwrite the result of %s", path, out, first)
			continue
		}
		claimed[out] = path
		outputs[i] = out
	}

	workers := engine.Config().Workers
	if workers > len(matches) {
		workers = len(matches)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range matches {
		if outputs[i] == "" {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			result, err := engine.ImportFile(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			data, err := encodeResult(result)
			if err != nil {
				errs[i] = docxtiptap.WithContext(err, "encode", map[string]interface{}{"path": path})
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(outputs[i]), 0755); err != nil {
				errs[i] = err
				return nil
			}
			if err := os.WriteFile(outputs[i], data, 0644); err != nil {
				errs[i] = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	multi := docxtiptap.NewMultiError()
	for _, err := range errs {
		multi.Add(err)
	}
	docxtiptap.GetLogger().WithFields(docxtiptap.Fields{
		"files":  len(matches),
		"failed": multi.Len(),
	}).Info("batch import finished")
	return multi.Err()
}

// batchOutputPath maps an input to its JSON file. Under outDir the input's
// directories below base are kept so equal file names do not collide.
func batchOutputPath(path, base, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	rel, err := filepath.Rel(base, filepath.Dir(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = "."
	}
	return filepath.Join(outDir, rel, name)
}

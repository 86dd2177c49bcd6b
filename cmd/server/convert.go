package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/richtext-api/internal/batch"
	"github.com/phrazzld/richtext-api/internal/config"
	"github.com/phrazzld/richtext-api/internal/platform/logger"
	"github.com/phrazzld/richtext-api/internal/richtext"
)

var convertFlagKeys = map[string]string{
	"extensions": "converter.extensions",
	"log-level":  "server.log_level",
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert Markdown files to rich text JSON",
		Long: `Convert reads Markdown and writes rich text documents as indented JSON.

With no file, or "-", it reads stdin and writes stdout. A single file is also
written to stdout unless --out-dir is set. Several files are converted
concurrently and each document is written next to its source (or into
--out-dir) with a .json extension. It uses the same converter configuration as
the server but needs no API key.`,
		RunE: runConvert,
	}

	cmd.Flags().StringSlice("extensions", config.DefaultExtensions,
		"goldmark extensions to enable: "+strings.Join(richtext.Extensions(), ", "))
	cmd.Flags().String("log-level", config.DefaultLogLevel, "log level for diagnostics on stderr")
	cmd.Flags().String("out-dir", "", "directory for converted files")
	cmd.Flags().Int("workers", batch.DefaultPoolConfig().WorkerCount, "files converted at once")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd, convertFlagKeys)
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithoutAuth(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	converter, err := newConverter(cfg.Converter)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		markdown, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return convertToWriter(cmd, converter, string(markdown))
	}

	if len(args) == 1 && outDir == "" {
		markdown, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return convertToWriter(cmd, converter, string(markdown))
	}

	targets, conflicts := planOutputs(args, outDir)

	jobs := make([]batch.Job, 0, len(args))
	jobSource := make([]int, 0, len(args))
	for i, path := range args {
		if conflicts[i] != nil {
			continue
		}
		markdown, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		jobs = append(jobs, batch.Job{Name: path, Markdown: string(markdown)})
		jobSource = append(jobSource, i)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	workers, _ := cmd.Flags().GetInt("workers")
	pool := batch.NewPool(converter, batch.PoolConfig{WorkerCount: workers}, l)

	results := make([]batch.Result, len(args))
	for i, err := range conflicts {
		if err != nil {
			results[i] = batch.Result{Name: args[i], Err: err}
		}
	}
	for j, result := range pool.Run(cmd.Context(), jobs) {
		results[jobSource[j]] = result
	}

	for i, result := range results {
		if result.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", result.Err)
			continue
		}

		if err := writeDocument(targets[i], result.Document); err != nil {
			results[i].Err = err
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", targets[i])
	}

	if failed := batch.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", failed, len(results))
	}
	return nil
}

func convertToWriter(cmd *cobra.Command, converter richtext.Converter, markdown string) error {
	doc, err := converter.Convert(cmd.Context(), markdown)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// outputPath swaps the source extension for .json, placing the file in outDir
// when one is given.
func outputPath(source, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".json"
	if outDir == "" {
		return filepath.Join(filepath.Dir(source), base)
	}
	return filepath.Join(outDir, base)
}

// errOutputCollision marks a source whose output would overwrite a source
// file or another source's output.
var errOutputCollision = errors.New("output path collision")

// planOutputs picks the output path for every source. The first source to
// claim a path keeps it; a later claimant, or a source whose output would
// replace any input file, gets a collision error instead.
func planOutputs(sources []string, outDir string) ([]string, []error) {
	targets := make([]string, len(sources))
	conflicts := make([]error, len(sources))

	inputs := make(map[string]string, len(sources))
	for _, source := range sources {
		inputs[pathKey(source)] = source
	}

	claimed := make(map[string]string, len(sources))
	for i, source := range sources {
		target := outputPath(source, outDir)
		targets[i] = target
		key := pathKey(target)

		if input, ok := inputs[key]; ok {
			conflicts[i] = fmt.Errorf("%s: %w: %s would overwrite input %s", source, errOutputCollision, target, input)
			continue
		}
		if owner, ok := claimed[key]; ok {
			conflicts[i] = fmt.Errorf("%s: %w: %s is already written for %s", source, errOutputCollision, target, owner)
			continue
		}
		claimed[key] = source
	}

	return targets, conflicts
}

// pathKey normalizes path for collision checks.
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func writeDocument(path string, doc *richtext.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func encodeDocument(doc *richtext.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

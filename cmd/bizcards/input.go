package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizcards/internal/config"
	"github.com/JonMunkholm/bizcards/internal/core"
)

// parserFlags override the CSV_* settings for one command.
type parserFlags struct {
	delimiter    string
	relaxed      bool
	ignoreLength bool
	noTypes      bool
}

func (f *parserFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", "", "Field delimiter (default from CSV_DELIMITER)")
	cmd.Flags().BoolVar(&f.relaxed, "relaxed", false, "Tolerate stray quotes and blank lines")
	cmd.Flags().BoolVar(&f.ignoreLength, "ignore-length", false, "Allow records with differing field counts")
	cmd.Flags().BoolVar(&f.noTypes, "no-types", false, "Keep numbers, booleans and nulls as text")
}

// apply writes the flags that were set into cfg and revalidates it.
func (f *parserFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Parser.Delimiter = f.delimiter
	}
	if flags.Changed("relaxed") {
		cfg.Parser.Relaxed = f.relaxed
	}
	if flags.Changed("ignore-length") {
		cfg.Parser.IgnoreRecordLength = f.ignoreLength
	}
	if flags.Changed("no-types") {
		cfg.Parser.DetectTypes = !f.noTypes
	}
	return cfg.Validate()
}

// convertFile runs the pipeline on path, or on stdin when path is "-".
func convertFile(ctx context.Context, svc *core.Service, path string, stdin io.Reader) (*core.Result, error) {
	if path == "-" {
		return svc.ConvertReader(ctx, "stdin", stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return svc.ConvertReader(ctx, filepath.Base(path), f)
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizcards/internal/core"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		pf      parserFlags
		outDir  string
		layout  string
		zipPath string
		slugged bool
	)

	cmd := &cobra.Command{
		Use:   "generate <contacts.csv|contacts.xlsx|->",
		Short: "Render one PDF card per contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pf.apply(cmd, a.cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("slug") {
				a.cfg.Render.SlugFileNames = slugged
			}
			if outDir == "" {
				outDir = a.cfg.Render.OutputDir
			}

			ctx := cmd.Context()
			svc, deps, err := a.newService(ctx, true)
			if err != nil {
				return err
			}
			defer deps.Close()

			res, err := convertFile(ctx, svc, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s at char %d: %q\n", w.Kind, w.Offset, w.Context)
			}

			if zipPath != "" {
				return writeZipFile(cmd, svc, res, zipPath, layout)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			paths, err := svc.WriteCards(ctx, outDir, res.Contacts, layout)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			slog.Info("cards written", "dir", outDir, "cards", len(paths))
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from RENDER_OUTPUT_DIR)")
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "Card layout key (default from RENDER_LAYOUT)")
	cmd.Flags().StringVar(&zipPath, "zip", "", "Write all cards into this zip file instead of a directory")
	cmd.Flags().BoolVar(&slugged, "slug", false, "Use transliterated ASCII file names")

	return cmd
}

// writeZipFile renders res into a zip at path. The archive is removed again
// if rendering fails.
func writeZipFile(cmd *cobra.Command, svc *core.Service, res *core.Result, path, layout string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := svc.ZipCards(cmd.Context(), f, res.Contacts, layout); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	slog.Info("cards written", "zip", path, "cards", len(res.Contacts))
	return nil
}

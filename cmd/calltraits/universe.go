package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"calltraits/internal/diagfmt"
	"calltraits/internal/driver"
)

func addDeclFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("decl", nil, "declaration file to load (repeatable, - for stdin)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// loadDecls builds the universe for inspect and transform. Declarations
// come from --decl, or from the manifest's [check].files when no --decl is
// given. Declaration errors are printed to stderr and fail the command.
func loadDecls(cmd *cobra.Command, manifest *projectManifest, useColor bool) (*driver.Universe, error) {
	decls, err := cmd.Flags().GetStringArray("decl")
	if err != nil {
		return nil, fmt.Errorf("failed to get decl flag: %w", err)
	}
	if !cmd.Flags().Changed("decl") {
		decls = manifest.checkFiles()
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Wrappers:       manifest.wrappers(),
	}
	u := driver.NewUniverse(opts)
	for _, path := range decls {
		if path == "-" {
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			u.AddSource(cmd.Context(), "<stdin>", content)
			continue
		}
		id, err := u.Files.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		u.ParseDecls(cmd.Context(), u.Files.Get(id))
	}
	if u.Bag.HasErrors() {
		reportUniverse(u, useColor)
		cmd.SilenceErrors = true
		return nil, errSilent
	}
	return u, nil
}

// reportUniverse prints the universe diagnostics to stderr.
func reportUniverse(u *driver.Universe, useColor bool) {
	u.Bag.Sort()
	diagfmt.Pretty(os.Stderr, u.Bag, u.Files, diagfmt.PrettyOpts{
		Color:     useColor && isTerminal(os.Stderr),
		Context:   1,
		ShowNotes: true,
	})
}

func outputFormat(cmd *cobra.Command, allowed ...string) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format: %s", format)
}

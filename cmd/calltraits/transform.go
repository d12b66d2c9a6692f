package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"calltraits/internal/driver"
	"calltraits/internal/sig"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] <type> <op>...",
	Short: "Apply qualifier transformations to a function type",
	Long: `Apply qualifier transformations left to right, e.g.

  calltraits transform 'int(char) const &' remove_const add_noexcept

Operations: ` + strings.Join(sig.OpNames(), ", "),
	Args: cobra.MinimumNArgs(2),
	RunE: runTransform,
}

func init() {
	addDeclFlags(transformCmd)
}

type transformOutput struct {
	Steps []driver.Step `json:"steps"`
	Error string        `json:"error,omitempty"`
}

func runTransform(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, "pretty", "json")
	if err != nil {
		return err
	}
	manifest, err := currentManifest()
	if err != nil {
		return err
	}
	useColor, err := resolveColor(cmd, manifest)
	if err != nil {
		return err
	}
	u, err := loadDecls(cmd, manifest, useColor)
	if err != nil {
		return err
	}

	steps, err := driver.Transform(cmd.Context(), u, args[0], args[1:])
	if errors.Is(err, driver.ErrInvalidExpr) {
		reportUniverse(u, useColor)
		cmd.SilenceErrors = true
		return errSilent
	}
	// unknown op names fail before any step runs
	if err != nil && steps == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		payload := transformOutput{Steps: steps}
		if err != nil {
			payload.Error = err.Error()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(payload); encErr != nil {
			return encErr
		}
		if err != nil {
			cmd.SilenceErrors = true
			return errSilent
		}
		return nil
	}
	renderTransformPretty(out, newStyles(useColor), steps)
	return err
}

func renderTransformPretty(out io.Writer, s styles, steps []driver.Step) {
	width := 0
	for _, st := range steps {
		width = max(width, runewidth.StringWidth(st.Op))
	}
	for _, st := range steps {
		fmt.Fprintf(out, "  %s  %s\n", s.op.Sprint(runewidth.FillRight(st.Op, width)), st.Type)
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"calltraits/internal/driver"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <type>",
	Short: "Classify a type and show its signature properties",
	Long: `Classify a type expression against the loaded declarations, e.g.

  calltraits inspect --decl widgets.ct '(int(int) const) Widget::*'`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addDeclFlags(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
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

	res, err := driver.Inspect(cmd.Context(), u, args[0])
	if errors.Is(err, driver.ErrInvalidExpr) {
		reportUniverse(u, useColor)
		cmd.SilenceErrors = true
		return errSilent
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	renderInspectPretty(out, newStyles(useColor), res)
	return nil
}

func renderInspectPretty(out io.Writer, s styles, res driver.AliasResult) {
	fmt.Fprintln(out, s.heading(res.Type))
	fields := []field{{"invocable", s.flag(res.Invocable)}}
	if !res.Invocable {
		fields = append(fields, field{"reason", res.Error})
		writeFields(out, s, "  ", fields)
		return
	}
	fields = append(fields, field{"path", res.Path}, field{"signature", res.Signature})
	if res.Class != "" {
		fields = append(fields, field{"class", res.Class})
	}
	params := "(none)"
	if len(res.Params) > 0 {
		params = strings.Join(res.Params, ", ")
	}
	qualifiers := res.Qualifiers
	if qualifiers == "" {
		qualifiers = s.dim.Sprint("(none)")
	}
	fields = append(fields,
		field{"result", res.Result},
		field{"params", params},
		field{"arity", strconv.Itoa(res.Arity)},
		field{"qualifiers", qualifiers},
		field{"const", s.flag(res.Const)},
		field{"volatile", s.flag(res.Volatile)},
		field{"reference", res.Ref},
		field{"variadic", s.flag(res.Variadic)},
		field{"noexcept", s.flag(res.NoThrow)},
	)
	writeFields(out, s, "  ", fields)
}

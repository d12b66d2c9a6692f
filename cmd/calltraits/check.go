package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"calltraits/internal/diag"
	"calltraits/internal/diagfmt"
	"calltraits/internal/driver"
)

var checkFormats = []string{"pretty", "json", "short"}

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.ct|directory]...",
	Short: "Classify every alias declared in declaration files",
	Long: `Parse declaration files and classify each using-alias they declare.
Without arguments the files listed under [check] in calltraits.toml are used.
The command fails when any file has errors.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	checkCmd.Flags().Bool("drop-cache", false, "clear the result cache before checking")
	checkCmd.Flags().Bool("aliases", false, "list every alias with its classification")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().String("path-mode", "auto", "file path display (auto|absolute|relative|basename)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Uint("max-errors", 0, "stop parsing a file after this many errors (0=unlimited)")
}

type checkFlags struct {
	format    string
	jobs      int
	noCache   bool
	dropCache bool
	aliases   bool
	withNotes bool
	pathMode  diagfmt.PathMode
	ui        bool // show the progress view
	maxErrors uint
}

func readCheckFlags(cmd *cobra.Command, manifest *projectManifest) (checkFlags, error) {
	var (
		cf  checkFlags
		err error
	)
	flags := cmd.Flags()
	if cf.format, err = flags.GetString("format"); err != nil {
		return cf, fmt.Errorf("failed to get format flag: %w", err)
	}
	if !flags.Changed("format") && manifest != nil && manifest.Config.Output.Format != "" {
		cf.format = manifest.Config.Output.Format
	}
	if !slices.Contains(checkFormats, cf.format) {
		return cf, fmt.Errorf("unknown format: %s", cf.format)
	}
	if cf.jobs, err = flags.GetInt("jobs"); err != nil {
		return cf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !flags.Changed("jobs") && manifest != nil {
		cf.jobs = manifest.Config.Check.Jobs
	}
	if cf.noCache, err = flags.GetBool("no-cache"); err != nil {
		return cf, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !flags.Changed("no-cache") && manifest != nil && !manifest.Config.Check.Cache {
		cf.noCache = true
	}
	if cf.dropCache, err = flags.GetBool("drop-cache"); err != nil {
		return cf, fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	if cf.aliases, err = flags.GetBool("aliases"); err != nil {
		return cf, fmt.Errorf("failed to get aliases flag: %w", err)
	}
	if cf.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return cf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathModeStr, err := flags.GetString("path-mode")
	if err != nil {
		return cf, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if cf.pathMode, ok = diagfmt.ParsePathMode(pathModeStr); !ok {
		return cf, fmt.Errorf("invalid --path-mode value %q", pathModeStr)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return cf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cf.ui, err = progressViewWanted(uiStr, cf.format, isTerminal(os.Stdout)); err != nil {
		return cf, err
	}
	if cf.maxErrors, err = flags.GetUint("max-errors"); err != nil {
		return cf, fmt.Errorf("failed to get max-errors flag: %w", err)
	}
	return cf, nil
}

// progressViewWanted resolves --ui. The view draws on stdout, so it is only
// shown with pretty output; auto also requires stdout to be a terminal.
func progressViewWanted(value, format string, tty bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return tty && format == "pretty", nil
	case "on":
		if format != "pretty" {
			return false, fmt.Errorf("--ui=on needs --format=pretty, got %s", format)
		}
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	manifest, err := currentManifest()
	if err != nil {
		return err
	}
	cf, err := readCheckFlags(cmd, manifest)
	if err != nil {
		return err
	}
	useColor, err := resolveColor(cmd, manifest)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	heartbeat, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = manifest.checkFiles()
	}
	if len(paths) == 0 {
		return fmt.Errorf("no declaration files given and no %s with [check].files found", manifestName)
	}

	opts := driver.Options{
		Jobs:           cf.jobs,
		MaxDiagnostics: maxDiagnostics,
		MaxErrors:      cf.maxErrors,
		Wrappers:       manifest.wrappers(),
		Timer:          timer,
		Heartbeat:      heartbeat,
	}
	if !cf.noCache {
		cache, err := driver.OpenDiskCache("calltraits")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: result cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}
	if cf.dropCache && opts.Cache != nil {
		if err := opts.Cache.DropAll(); err != nil {
			return fmt.Errorf("failed to drop cache: %w", err)
		}
	}

	var result *driver.CheckResult
	if cf.ui {
		files, err := driver.CollectFiles(paths)
		if err != nil {
			return err
		}
		result, err = runCheckWithUI(cmd.Context(), "calltraits check", files, opts)
		if err != nil {
			return err
		}
	} else {
		result, err = driver.Check(cmd.Context(), paths, opts)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	baseDir := ""
	if manifest != nil {
		baseDir = manifest.Root
	}
	switch cf.format {
	case "pretty":
		bag := result.Bag()
		diagfmt.Pretty(out, bag, result.Files, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   1,
			PathMode:  cf.pathMode,
			BaseDir:   baseDir,
			ShowNotes: cf.withNotes,
		})
		s := newStyles(useColor)
		if cf.aliases {
			renderAliases(out, s, result)
		}
		renderCheckSummary(out, s, result, bag)
	case "short":
		if err := diagfmt.Short(out, result.Bag(), result.Files, cf.withNotes); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "json":
		payload := buildCheckJSON(result, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         cf.pathMode,
			BaseDir:          baseDir,
			IncludeNotes:     cf.withNotes,
		})
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("failed to encode check output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", cf.format)
	}

	printTimings(os.Stderr, timer)
	if result.HasErrors() {
		cmd.SilenceErrors = true
		return errSilent
	}
	return nil
}

type checkFileJSON struct {
	Path        string                    `json:"path"`
	Cached      bool                      `json:"cached"`
	Aliases     []driver.AliasResult      `json:"aliases"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type checkJSON struct {
	Files []checkFileJSON `json:"files"`
	OK    bool            `json:"ok"`
}

func buildCheckJSON(result *driver.CheckResult, opts diagfmt.JSONOpts) checkJSON {
	payload := checkJSON{
		Files: make([]checkFileJSON, 0, len(result.Results)),
		OK:    !result.HasErrors(),
	}
	for i := range result.Results {
		r := &result.Results[i]
		aliases := r.Aliases
		if aliases == nil {
			aliases = []driver.AliasResult{}
		}
		payload.Files = append(payload.Files, checkFileJSON{
			Path:        r.Path,
			Cached:      r.Cached,
			Aliases:     aliases,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, result.Files, opts),
		})
	}
	return payload
}

// renderAliases lists each file's aliases as "name  path  signature".
func renderAliases(out io.Writer, s styles, result *driver.CheckResult) {
	for i := range result.Results {
		r := &result.Results[i]
		if len(r.Aliases) == 0 {
			continue
		}
		header := r.Path
		if r.Cached {
			header += " " + s.dim.Sprint("(cached)")
		}
		fmt.Fprintln(out, s.heading(header))
		nameWidth, pathWidth := 0, 0
		for _, a := range r.Aliases {
			nameWidth = max(nameWidth, runewidth.StringWidth(a.Name))
			pathWidth = max(pathWidth, runewidth.StringWidth(a.Path))
		}
		for _, a := range r.Aliases {
			name := runewidth.FillRight(a.Name, nameWidth)
			if !a.Invocable {
				fmt.Fprintf(out, "  %s  %s  %s\n", name, s.no.Sprint(runewidth.FillRight("-", pathWidth)), a.Type)
				continue
			}
			fmt.Fprintf(out, "  %s  %s  %s\n", name, s.op.Sprint(runewidth.FillRight(a.Path, pathWidth)), a.Signature)
		}
	}
}

func renderCheckSummary(out io.Writer, s styles, result *driver.CheckResult, bag *diag.Bag) {
	var aliases, invocable, cached int
	for i := range result.Results {
		r := &result.Results[i]
		if r.Cached {
			cached++
		}
		for _, a := range r.Aliases {
			aliases++
			if a.Invocable {
				invocable++
			}
		}
	}
	var errs, warnings int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warnings++
		}
	}
	status := s.yes.Sprint("ok")
	if errs > 0 {
		status = s.no.Sprint("failed")
	}
	fmt.Fprintf(out, "%s: %d %s, %d aliases (%d invocable), %d errors, %d warnings",
		status, len(result.Results), plural(len(result.Results), "file", "files"), aliases, invocable, errs, warnings)
	if cached > 0 {
		fmt.Fprintf(out, ", %d cached", cached)
	}
	fmt.Fprintln(out)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"calltraits/internal/sig"
	"calltraits/internal/testkit"
	"calltraits/internal/types"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the qualifier table that maps signatures to function types",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().Bool("verify", false, "check the table and the round-trip laws over it")
}

func runTable(cmd *cobra.Command, args []string) error {
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return fmt.Errorf("failed to get verify flag: %w", err)
	}
	manifest, err := currentManifest()
	if err != nil {
		return err
	}
	useColor, err := resolveColor(cmd, manifest)
	if err != nil {
		return err
	}
	s := newStyles(useColor)
	out := cmd.OutOrStdout()
	renderTable(out, s, sig.Table())
	if !verify {
		return nil
	}
	if err := verifyTable(); err != nil {
		fmt.Fprintf(out, "\nverify: %s\n", s.no.Sprint("FAILED"))
		return err
	}
	fmt.Fprintf(out, "\nverify: %s\n", s.yes.Sprint("ok"))
	return nil
}

var tableHeader = []string{"#", "const", "volatile", "ref", "variadic", "noexcept", "spelling"}

func renderTable(out io.Writer, s styles, rows []sig.Row) {
	fmt.Fprintln(out, s.heading(fmt.Sprintf("signature table (%d rows)", len(rows))))
	cells := make([][]string, 0, len(rows))
	for i, row := range rows {
		spelling := "R(Args...)"
		if row.Variadic {
			spelling = "R(Args..., ...)"
		}
		if tail := row.Qual.String(); tail != "" {
			spelling += " " + tail
		}
		cells = append(cells, []string{
			strconv.Itoa(i),
			mark(row.Const),
			mark(row.Volatile),
			row.Ref.String(),
			mark(row.Variadic),
			mark(row.NoThrow),
			spelling,
		})
	}
	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, line := range cells {
		for i, c := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	writeRow(out, widths, tableHeader, s.label.Sprint)
	for _, line := range cells {
		writeRow(out, widths, line, fmt.Sprint)
	}
}

func writeRow(out io.Writer, widths []int, cells []string, paint func(...any) string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(out, "  ")
		}
		// the last column is not padded
		if i == len(cells)-1 {
			fmt.Fprint(out, paint(c))
			continue
		}
		fmt.Fprint(out, paint(runewidth.FillRight(c, widths[i])))
	}
	fmt.Fprintln(out)
}

func mark(v bool) string {
	if v {
		return "x"
	}
	return "-"
}

// verifyTable runs the table invariants: exhaustiveness, round trip at
// arities 0 to 3, and the transformation laws on every row.
func verifyTable() error {
	if err := testkit.CheckTable(); err != nil {
		return err
	}
	in := types.NewInterner()
	b := in.Builtins()
	paramSets := [][]types.TypeID{
		nil,
		{b.Char},
		{b.Int, b.Double},
		{b.Long, b.Float, b.Bool},
	}
	if err := testkit.CheckRoundTrip(in, b.Int, paramSets); err != nil {
		return err
	}
	for i, row := range sig.Table() {
		fn := sig.Make(in, row.Qualifiers(), b.Void, b.Int)
		if err := testkit.CheckTransformLaws(in, fn); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

package testkit

import (
	"fmt"
	"slices"

	"calltraits/internal/sig"
	"calltraits/internal/types"
)

// CheckTable verifies the signature table:
// 1) it has exactly sig.TableSize rows, each with a spellable tail
// 2) every row's tail agrees with its axes, and tails never repeat
// 3) both lookups (by tail and by axes) return the row itself
func CheckTable() error {
	rows := sig.Table()
	if len(rows) != sig.TableSize {
		return fmt.Errorf("table has %d rows, want %d", len(rows), sig.TableSize)
	}
	seen := make(map[types.FnQual]int, len(rows))
	for i, row := range rows {
		q := row.Qual
		if !q.Valid() {
			return fmt.Errorf("row %d: tail %#x is not spellable", i, uint8(q))
		}
		if prev, dup := seen[q]; dup {
			return fmt.Errorf("row %d repeats tail %q of row %d", i, q, prev)
		}
		seen[q] = i

		if q.Has(types.FnConst) != row.Const ||
			q.Has(types.FnVolatile) != row.Volatile ||
			q.Has(types.FnVariadic) != row.Variadic ||
			q.Has(types.FnNoexcept) != row.NoThrow {
			return fmt.Errorf("row %d: tail %q disagrees with axes %s", i, q, row.Qualifiers())
		}
		var ref sig.RefMode
		switch {
		case q.Has(types.FnLRef):
			ref = sig.RefPersistent
		case q.Has(types.FnRRef):
			ref = sig.RefTransient
		}
		if ref != row.Ref {
			return fmt.Errorf("row %d: reference mode %s, tail says %s", i, row.Ref, ref)
		}

		if got, ok := sig.LookupQual(q); !ok || got != row {
			return fmt.Errorf("row %d: lookup by tail %q returned %+v", i, q, got)
		}
		if got, ok := sig.LookupQualifiers(row.Qualifiers()); !ok || got != row {
			return fmt.Errorf("row %d: lookup by axes returned %+v", i, got)
		}
	}
	return nil
}

// CheckRoundTrip synthesises every row of the table with result and each of
// paramSets, decomposes the synthesised type and compares:
// 1) the descriptor survives unchanged
// 2) synthesising it again yields the same TypeID
// 3) distinct rows never collapse onto one TypeID
func CheckRoundTrip(in *types.Interner, result types.TypeID, paramSets [][]types.TypeID) error {
	if in == nil {
		return fmt.Errorf("nil interner")
	}
	for _, params := range paramSets {
		ids := make(map[types.TypeID]int, sig.TableSize)
		for i, row := range sig.Table() {
			q := row.Qualifiers()
			want := sig.Descriptor{
				Const: q.Const, Volatile: q.Volatile, Ref: q.Ref,
				Variadic: q.Variadic, NoThrow: q.NoThrow,
				Result: result, Params: slices.Clone(params),
			}
			fn := sig.Synthesize(in, want)
			got, err := sig.Decompose(in, fn)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			if !got.Equal(want) {
				return fmt.Errorf("row %d: %s decomposed to %+v", i, types.Label(in, fn), got)
			}
			if again := sig.Synthesize(in, got); again != fn {
				return fmt.Errorf("row %d: %s re-synthesised as %s", i, types.Label(in, fn), types.Label(in, again))
			}
			if prev, dup := ids[fn]; dup {
				return fmt.Errorf("rows %d and %d both synthesise %s", prev, i, types.Label(in, fn))
			}
			ids[fn] = i
		}
	}
	return nil
}

var lawAxes = []sig.Axis{
	sig.AxisConst, sig.AxisVolatile, sig.AxisVariadic,
	sig.AxisNoThrow, sig.AxisPersistent, sig.AxisTransient,
}

// CheckTransformLaws checks, for every axis, that add and remove are
// idempotent on fn and that they leave the result and parameters alone.
func CheckTransformLaws(in *types.Interner, fn types.TypeID) error {
	before, err := sig.Decompose(in, fn)
	if err != nil {
		return err
	}
	for _, axis := range lawAxes {
		for _, step := range []struct {
			name string
			op   func(*types.Interner, types.TypeID, sig.Axis) (types.TypeID, error)
		}{{"add", sig.Add}, {"remove", sig.Remove}} {
			once, err := step.op(in, fn, axis)
			if err != nil {
				return err
			}
			twice, err := step.op(in, once, axis)
			if err != nil {
				return err
			}
			if once != twice {
				return fmt.Errorf("%s_%s is not idempotent on %s", step.name, axis, types.Label(in, fn))
			}
			after, err := sig.Decompose(in, once)
			if err != nil {
				return err
			}
			if after.Result != before.Result || !slices.Equal(after.Params, before.Params) {
				return fmt.Errorf("%s_%s changed the shape of %s", step.name, axis, types.Label(in, fn))
			}
		}
	}
	return nil
}

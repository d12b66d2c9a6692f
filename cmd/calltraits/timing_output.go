package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"calltraits/internal/observ"
)

// newTimer returns a Timer when --timings is set, nil otherwise. A nil
// Timer records nothing.
func newTimer(cmd *cobra.Command) (*observ.Timer, error) {
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !showTimings {
		return nil, nil
	}
	return observ.NewTimer(), nil
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}

package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"authcheck-cli/testreport"
)

// Coordinator runs the cases and gives access to the stored report
type Coordinator interface {
	Trigger(ctx context.Context) (*testreport.Report, error)
	Latest() (*testreport.Report, error)
}

// RunCmd handles the `run` command
type RunCmd struct {
	Coord   Coordinator
	Out     io.Writer
	Details bool
}

// Execute runs every case once and prints the summary. Only a failed save is returned.
func (c *RunCmd) Execute(ctx context.Context) error {
	report, err := c.Coord.Trigger(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "=== Test results ===")
	fmt.Fprintln(c.Out, report.Summary())
	fmt.Fprintf(c.Out, "Total time: %.3f s\n", report.Stats.Duration)

	if c.Details {
		fmt.Fprintln(c.Out)
		return renderGroups(c.Out, report.Stats.PerGroup)
	}
	return nil
}

func renderGroups(w io.Writer, stats testreport.GroupStats) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Passed", "Failed", "Errors", "Skipped")
	for _, name := range stats.Names() {
		counts, _ := stats.Get(name)
		if err := table.Append([]string{
			name,
			strconv.Itoa(counts.Passed),
			strconv.Itoa(counts.Failed),
			strconv.Itoa(counts.Errors),
			strconv.Itoa(counts.Skipped),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

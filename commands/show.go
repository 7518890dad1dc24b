package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"authcheck-cli/testreport"
)

const timeLayout = "02.01.2006 15:04:05"

// ShowCmd handles the `show` command
type ShowCmd struct {
	Coord Coordinator
	Out   io.Writer
}

// Execute prints the latest report, or a notice when nothing was saved yet
func (c *ShowCmd) Execute(ctx context.Context) error {
	report, err := c.Coord.Latest()
	if errors.Is(err, testreport.ErrNoReport) {
		fmt.Fprintln(c.Out, "No report yet.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "Started:  %s\n", report.Started().Format(timeLayout))
	fmt.Fprintf(c.Out, "Finished: %s\n", report.Finished().Format(timeLayout))
	fmt.Fprintln(c.Out, report.Summary())
	fmt.Fprintf(c.Out, "Total time: %.3f s\n\n", report.Stats.Duration)

	if err := renderGroups(c.Out, report.Stats.PerGroup); err != nil {
		return err
	}
	fmt.Fprintln(c.Out)

	table := tablewriter.NewWriter(c.Out)
	table.Header("Case", "Group", "Status", "Time, s", "Message")
	for _, res := range report.Results {
		if err := table.Append([]string{
			res.Name,
			res.Group,
			string(res.Status),
			fmt.Sprintf("%.3f", res.Duration),
			res.Message,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

package commands

import (
	"context"

	"authcheck-cli/tui"
)

// TUICmd handles the `tui` command
type TUICmd struct {
	Coord Coordinator
}

// Execute opens the viewer on the latest report
func (c *TUICmd) Execute(ctx context.Context) error {
	return tui.Run(ctx, c.Coord)
}

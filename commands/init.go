package commands

import (
	"context"
	"fmt"
	"io"

	"authcheck-cli/config"
)

// InitCmd handles the `init` command
type InitCmd struct {
	Manager *config.ConfigManager
	Out     io.Writer
}

// Execute writes the default configuration unless the file already exists
func (c *InitCmd) Execute(ctx context.Context) error {
	written, err := c.Manager.WriteDefaults()
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintf(c.Out, "Configuration already exists at %s\n", c.Manager.Path())
		return nil
	}
	fmt.Fprintf(c.Out, "Configuration written to %s\n", c.Manager.Path())
	return nil
}

package commands

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"authcheck-cli/config"
)

var (
	ConfigFlag = &cli.StringFlag{
		Name:  "config",
		Value: config.DefaultFile,
		Usage: "Path to the YAML configuration file",
	}
	ReportFlag = &cli.StringFlag{
		Name:  "report",
		Usage: "Path of the report file, overrides report_path",
	}
	SuiteFlag = &cli.StringFlag{
		Name:  "suite",
		Usage: "YAML command suite to run instead of the built-in scenarios",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn or error",
	}
	ListenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "Address of the web interface, overrides listen",
	}
	DetailsFlag = &cli.BoolFlag{
		Name:  "details",
		Usage: "Print a per-group table after the summary",
	}
	RunOnStartFlag = &cli.BoolFlag{
		Name:  "run-on-start",
		Usage: "Trigger one run as soon as the server starts",
	}
)

// Flags are accepted by every command
var Flags = []cli.Flag{
	ConfigFlag,
	ReportFlag,
	SuiteFlag,
	LogLevelFlag,
	ListenFlag,
}

// NewApp builds the command line application. Results go to stdout, logs to stderr.
func NewApp(version string, stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "authcheck"
	app.Usage = "Run the authentication form checks and keep the latest report"
	app.Version = version
	app.Flags = Flags
	app.Writer = stdout
	app.ErrWriter = stderr

	runAction := func(c *cli.Context) error {
		rt, err := setup(c, version, stderr)
		if err != nil {
			return err
		}
		defer rt.Close()
		cmd := &RunCmd{Coord: rt.Coordinator, Out: stdout, Details: c.Bool(DetailsFlag.Name)}
		return cmd.Execute(c.Context)
	}

	app.Action = runAction
	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "Run all cases, save the report and print a summary",
			Flags:  []cli.Flag{DetailsFlag},
			Action: runAction,
		},
		{
			Name:  "show",
			Usage: "Print the latest stored report without running anything",
			Action: func(c *cli.Context) error {
				rt, err := setup(c, version, stderr)
				if err != nil {
					return err
				}
				defer rt.Close()
				return (&ShowCmd{Coord: rt.Coordinator, Out: stdout}).Execute(c.Context)
			},
		},
		{
			Name:  "serve",
			Usage: "Serve the web interface until interrupted",
			Flags: []cli.Flag{RunOnStartFlag},
			Action: func(c *cli.Context) error {
				rt, err := setup(c, version, stderr)
				if err != nil {
					return err
				}
				defer rt.Close()
				cmd := &ServeCmd{
					Coord:      rt.Coordinator,
					Gatherer:   rt.Gatherer,
					Addr:       rt.Config.Listen,
					RunOnStart: c.Bool(RunOnStartFlag.Name),
					Log:        rt.Log,
				}
				return cmd.Execute(c.Context)
			},
		},
		{
			Name:  "tui",
			Usage: "Browse the latest report in the terminal",
			Action: func(c *cli.Context) error {
				// the viewer owns the terminal, so logs are dropped
				rt, err := setup(c, version, io.Discard)
				if err != nil {
					return err
				}
				defer rt.Close()
				return (&TUICmd{Coord: rt.Coordinator}).Execute(c.Context)
			},
		},
		{
			Name:  "init",
			Usage: "Write a configuration file with the default settings",
			Action: func(c *cli.Context) error {
				cmd := &InitCmd{Manager: config.NewConfigManager(c.String(ConfigFlag.Name)), Out: stdout}
				return cmd.Execute(c.Context)
			},
		},
	}
	return app
}

// Main runs the application with the process arguments
func Main(version string) int {
	app := NewApp(version, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		_, _ = io.WriteString(os.Stderr, "authcheck: "+err.Error()+"\n")
		return 1
	}
	return 0
}

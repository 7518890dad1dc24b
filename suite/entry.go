package suite

import (
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	"authcheck-cli/testrunner"
)

func (e Entry) unit(filter *OutputFilter) testrunner.Unit {
	return func() error {
		if e.Skip != "" {
			if e.Skip == skipWithoutReason {
				return testrunner.Skip("")
			}
			return testrunner.Skip(e.Skip)
		}
		stdout, stderr, err := e.run()
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return err
			}
			if !e.IgnoreExitCode {
				msg := filter.Summarize(stderr)
				if msg == "" {
					return testrunner.Failf("exit code %d", exitErr.ExitCode())
				}
				return testrunner.Failf("exit code %d: %s", exitErr.ExitCode(), msg)
			}
		}
		return e.check(stdout, stderr)
	}
}

func (e Entry) run() (string, string, error) {
	args, err := shellwords.Parse(e.Command)
	if err != nil {
		return "", "", errors.Wrapf(err, "cannot parse command of %q", e.Name)
	}
	if len(args) == 0 {
		return "", "", errors.Errorf("entry %q is missing the command field", e.Name)
	}

	ctx := context.Background()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if e.WorkDir != "" {
		cmd.Dir = e.WorkDir
	}
	if e.Stdin != "" {
		cmd.Stdin = strings.NewReader(e.Stdin)
	}
	cmd.Env = append(os.Environ(), e.EnvVars...)

	stdout, stderr := new(strings.Builder), new(strings.Builder)
	cmd.Stdout, cmd.Stderr = stdout, stderr

	err = cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return stdout.String(), stderr.String(), errors.Errorf("command killed after %s", e.Timeout)
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return stdout.String(), stderr.String(), errors.Wrap(err, "cannot start command")
	}
	return stdout.String(), stderr.String(), err
}

func (e Entry) check(stdout, stderr string) error {
	for _, expect := range e.StdoutHas {
		found, err := e.matches(expect, stdout)
		if err != nil {
			return err
		}
		if !found {
			return testrunner.Failf("stdout does not contain %q", expect)
		}
	}
	for _, reject := range e.StdoutNotHas {
		found, err := e.matches(reject, stdout)
		if err != nil {
			return err
		}
		if found {
			return testrunner.Failf("stdout unexpectedly contains %q", reject)
		}
	}
	for _, expect := range e.StderrHas {
		found, err := e.matches(expect, stderr)
		if err != nil {
			return err
		}
		if !found {
			return testrunner.Failf("stderr does not contain %q", expect)
		}
	}
	return nil
}

func (e Entry) matches(pattern, output string) (bool, error) {
	if e.NoRegex {
		return strings.Contains(output, pattern), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, errors.Wrapf(err, "invalid expectation %q", pattern)
	}
	return re.MatchString(output), nil
}

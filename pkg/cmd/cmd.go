// cmd is a package for running external processes behind an interface so
// that callers can substitute a fake runner in tests
package cmd

import (
	"fmt"
	"os/exec"
)

type Runner interface {
	Run(name string, args ...string) error
}

type UnixCmdRunner struct{}

// Run: runs the command synchronously, blocking until it exits. A
// non-zero exit status is returned as an error carrying the combined
// output of the process.
func (l *UnixCmdRunner) Run(name string, args ...string) error {
	c := exec.Command(name, args...)

	output, err := c.CombinedOutput()

	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, string(output))
	}

	return nil
}

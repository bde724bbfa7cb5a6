// Package agents keeps robot invocations free of terminal control sequences.
package agents

import (
	"os"
	"strings"
)

// init runs before Bubble Tea and lipgloss touch the terminal.
//
// Background-color detection writes OSC/DSR queries to stdout, which ends up
// inside the JSON of robot and export runs. Setting CI=1 makes termenv skip
// the query.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args, os.Getenv("SOROBAN_ROBOT") == "1", os.Getenv("SOROBAN_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envRobot, envTest bool) bool {
	if envRobot || envTest {
		return true
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--robot-") || strings.HasPrefix(arg, "--export") {
			return true
		}
		switch arg {
		case "--version", "--help", "-h":
			return true
		}
	}
	return false
}

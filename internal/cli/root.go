package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	settingsPath string
	logFlagPath  string
)

// ExitError carries the process exit code the host contract requires.
// Commands return it instead of calling os.Exit so the binary's main is the
// only place the process terminates.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

var rootCmd = &cobra.Command{
	Use:   "hookguard",
	Short: "hookguard - action guard for autonomous coding agents",
	Long: `hookguard intercepts actions requested by an autonomous coding agent,
evaluates them against a set of named guards, and blocks unsafe actions via
the host's hook exit-code contract (0 allowed, 2 blocked, 1 error).

Blocked actions can be bypassed with a time-based one-time code authorized
by a human operator; every block and every override attempt is written to an
append-only audit log.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to settings YAML file (default: ~/.hookguard/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFlagPath, "log", "", "Path to audit log file (default: ~/.hookguard/audit.jsonl)")
}

func Execute() error {
	return rootCmd.Execute()
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hookguard/hookguard/internal/config"
	"github.com/hookguard/hookguard/internal/override"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Print the current override code",
	Long: `Computes the current time-based override code from the shared secret in
` + config.EnvOverrideSecret + `. When the variable is unset and the session is
interactive, the secret is prompted for with hidden input.

The code is valid for its 30-second step plus the following step's validation
window (~60 seconds total) and is NOT consumed on use.`,
	RunE: codeCommand,
}

func init() {
	rootCmd.AddCommand(codeCmd)
}

func codeCommand(cmd *cobra.Command, args []string) error {
	secret := os.Getenv(config.EnvOverrideSecret)
	if secret == "" {
		var err error
		secret, err = promptSecret()
		if err != nil {
			return err
		}
	}

	now := time.Now()
	code, err := override.GenerateCode(secret, now)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	remaining := override.Step - time.Duration(now.Unix()%int64(override.Step.Seconds()))*time.Second
	fmt.Println(code)
	fmt.Fprintf(os.Stderr, "valid for %ds (plus one prior-step grace at the validator)\n", int(remaining.Seconds()))
	return nil
}

func promptSecret() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("%s is not set and stdin is not a terminal", config.EnvOverrideSecret)
	}
	fmt.Fprint(os.Stderr, "Override secret (base32, input hidden): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		return "", fmt.Errorf("empty secret")
	}
	return secret, nil
}

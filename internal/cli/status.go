package cli

import (
	"fmt"
	"os"

	"github.com/hookguard/hookguard/internal/config"
	"github.com/hookguard/hookguard/internal/event"
	"github.com/hookguard/hookguard/internal/guard"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, guard inventory, and audit log state",
	RunE:  statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settingsPath, logFlagPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}

	fmt.Printf("hookguard %s\n", Version)
	fmt.Printf("  Binary:   %s\n", binPath)
	fmt.Printf("  Config:   %s\n", cfg.ConfigDir)
	fmt.Printf("  Settings: %s%s\n", cfg.SettingsPath, existsNote(cfg.SettingsPath))
	fmt.Println()

	fmt.Println("Override:")
	if os.Getenv(config.EnvOverrideSecret) != "" {
		fmt.Printf("  Secret configured via %s (codes from `hookguard code`)\n", config.EnvOverrideSecret)
	} else {
		fmt.Printf("  No secret in %s — override validation fails closed\n", config.EnvOverrideSecret)
	}
	fmt.Println()

	registry := guard.DefaultRegistry(guard.Options{
		Disabled:       cfg.Settings.DisabledGuards,
		ProtectedPaths: cfg.Settings.ProtectedPaths,
		ConfigDir:      cfg.ConfigDir,
	})

	fmt.Println("Guards:")
	for _, kind := range []event.ActionKind{event.ActionShell, event.ActionFileEdit, event.ActionFileWrite} {
		fmt.Printf("  %s:\n", kind)
		for _, g := range registry.Guards(kind) {
			fmt.Printf("    %-24s %s\n", g.Name(), g.Severity())
		}
	}
	if len(cfg.Settings.DisabledGuards) > 0 {
		fmt.Printf("  Disabled: %v\n", cfg.Settings.DisabledGuards)
	}
	fmt.Println()

	fmt.Println("Audit log:")
	info, err := os.Stat(cfg.LogPath)
	if err != nil {
		fmt.Printf("  %s (not yet created — starts on first event)\n", cfg.LogPath)
	} else {
		fmt.Printf("  %s (%d bytes)\n", cfg.LogPath, info.Size())
	}

	return nil
}

func existsNote(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (absent, using defaults)"
	}
	return ""
}

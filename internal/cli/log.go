package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hookguard/hookguard/internal/audit"
	"github.com/hookguard/hookguard/internal/config"
	"github.com/spf13/cobra"
)

var (
	logFilterType  string
	logFilterGuard string
	logLast        int
	logSummary     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the hookguard audit log with filtering and summary options.

Examples:
  hookguard log                                # all records
  hookguard log --last 20                      # last 20 records
  hookguard log --type protection_triggered    # blocks only
  hookguard log --guard git-no-verify          # one guard's history
  hookguard log --summary                      # aggregate statistics`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterType, "type", "", "Filter by event type (protection_triggered, override_accepted, override_rejected, bypass_used)")
	logCmd.Flags().StringVar(&logFilterGuard, "guard", "", "Filter by guard name")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N records")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settingsPath, logFlagPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	records, err := audit.ReadAll(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No audit records found.")
		return nil
	}

	filtered := filterRecords(records)
	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printLogSummary(cmd.OutOrStdout(), records)
		return nil
	}

	printRecords(filtered)
	return nil
}

func filterRecords(records []audit.Record) []audit.Record {
	if logFilterType == "" && logFilterGuard == "" {
		return records
	}
	var filtered []audit.Record
	for _, rec := range records {
		if logFilterType != "" && !strings.EqualFold(string(rec.EventType), logFilterType) {
			continue
		}
		if logFilterGuard != "" && !recordNamesGuard(rec, logFilterGuard) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// recordNamesGuard matches against the record's comma-joined guard list.
func recordNamesGuard(rec audit.Record, name string) bool {
	for _, g := range strings.Split(rec.Guard, ",") {
		if strings.EqualFold(strings.TrimSpace(g), name) {
			return true
		}
	}
	return false
}

func printRecords(records []audit.Record) {
	for _, rec := range records {
		fmt.Printf("%s %-21s %s\n", formatTimestamp(rec.Timestamp), rec.EventType, rec.Subject)
		if rec.Guard != "" {
			fmt.Printf("    Guard:   %s\n", rec.Guard)
		}
		fmt.Printf("    Outcome: %s\n", rec.Outcome)
		if rec.Detail != "" {
			fmt.Printf("    Detail:  %s\n", rec.Detail)
		}
		fmt.Println()
	}
}

func printLogSummary(w io.Writer, records []audit.Record) {
	counts := map[audit.EventType]int{}
	guardBlocks := map[string]int{}
	for _, rec := range records {
		counts[rec.EventType]++
		if rec.EventType == audit.ProtectionTriggered {
			for _, g := range strings.Split(rec.Guard, ",") {
				if g = strings.TrimSpace(g); g != "" {
					guardBlocks[g]++
				}
			}
		}
	}

	fmt.Fprintln(w, "hookguard audit summary")
	fmt.Fprintf(w, "  Total records:      %d\n", len(records))
	fmt.Fprintf(w, "  Blocks:             %d\n", counts[audit.ProtectionTriggered])
	fmt.Fprintf(w, "  Overrides accepted: %d\n", counts[audit.OverrideAccepted])
	fmt.Fprintf(w, "  Overrides rejected: %d\n", counts[audit.OverrideRejected])
	fmt.Fprintf(w, "  Bypass uses:        %d\n", counts[audit.BypassUsed])

	if len(records) > 0 {
		fmt.Fprintf(w, "  First record:       %s\n", formatTimestamp(records[0].Timestamp))
		fmt.Fprintf(w, "  Last record:        %s\n", formatTimestamp(records[len(records)-1].Timestamp))
	}

	if len(guardBlocks) > 0 {
		names := make([]string, 0, len(guardBlocks))
		for g := range guardBlocks {
			names = append(names, g)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "  Blocks by guard:")
		for _, g := range names {
			fmt.Fprintf(w, "    %-24s %d\n", g, guardBlocks[g])
		}
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

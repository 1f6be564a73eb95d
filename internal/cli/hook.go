package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hookguard/hookguard/internal/audit"
	"github.com/hookguard/hookguard/internal/config"
	"github.com/hookguard/hookguard/internal/decision"
	"github.com/hookguard/hookguard/internal/event"
	"github.com/hookguard/hookguard/internal/guard"
	"github.com/hookguard/hookguard/internal/override"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Evaluate one intercepted action from stdin",
	Long: `Reads a single hook payload from stdin, runs every guard registered for
the action's kind, and terminates with the decided status:

  0  allowed (possibly with advisories on stdout)
  2  blocked (the only exit status the host treats as blocking)
  1  infrastructure error (malformed input, config failure)

If the verdict is blocked and HOOKGUARD_OVERRIDE_CODE carries a valid
time-based code for the configured HOOKGUARD_OVERRIDE_SECRET, the block is
lifted. Every block and every override attempt is audited.`,
	RunE: hookCommand,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// hookEnv carries everything the pipeline reads from the process
// environment, resolved once at the entry-point boundary so the pipeline
// itself is a pure function of its inputs.
type hookEnv struct {
	Secret       string
	OverrideCode string
	Bypass       bool
	Now          func() time.Time
}

func envFromProcess() hookEnv {
	return hookEnv{
		Secret:       os.Getenv(config.EnvOverrideSecret),
		OverrideCode: os.Getenv(config.EnvOverrideCode),
		Bypass:       os.Getenv(config.EnvBypass) == "1",
		Now:          time.Now,
	}
}

func hookCommand(cmd *cobra.Command, args []string) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hookguard] read stdin: %v\n", err)
		return &ExitError{Code: decision.ExitErrored}
	}

	cfg, err := config.Load(settingsPath, logFlagPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hookguard] config: %v\n", err)
		return &ExitError{Code: decision.ExitErrored}
	}

	registry := guard.DefaultRegistry(guard.Options{
		Disabled:       cfg.Settings.DisabledGuards,
		ProtectedPaths: cfg.Settings.ProtectedPaths,
		ConfigDir:      cfg.ConfigDir,
	})

	verdict := runHook(input, registry, cfg.LogPath, envFromProcess(), os.Stdout, os.Stderr)

	if code := decision.ExitCode(verdict.Status); code != decision.ExitAllowed {
		return &ExitError{Code: code}
	}
	return nil
}

// runHook drives one invocation through the pipeline:
// Parsing -> Dispatching -> Deciding -> (Overriding) -> Logging.
// It never terminates the process; the caller maps the verdict's status
// through the exit-code table.
func runHook(input []byte, registry *guard.Registry, logPath string, env hookEnv, stdout, stderr io.Writer) decision.Verdict {
	log := openAudit(logPath, stderr)
	defer log.close()

	// Parsing. A malformed payload is an infrastructure fault, reported as
	// an error (exit 1), never as a block: the system cannot evaluate
	// policy without a context, and exit 1 is non-blocking for the host.
	ctx, err := event.Parse(input)
	if err != nil {
		if env.Bypass {
			log.append(audit.Record{EventType: audit.BypassUsed, Outcome: "allowed", Detail: "bypass with unparseable input"})
			return decision.Verdict{Status: decision.Allowed}
		}
		fmt.Fprintf(stderr, "[hookguard] %v\n", err)
		return decision.Verdict{Status: decision.Errored}
	}

	if env.Bypass {
		log.append(audit.Record{
			EventType:  audit.BypassUsed,
			ActionKind: string(ctx.ActionKind),
			Subject:    subject(ctx),
			Outcome:    "allowed",
			Detail:     "protection disabled via " + config.EnvBypass,
		})
		return decision.Verdict{Status: decision.Allowed}
	}

	// Dispatching and Deciding.
	outcomes := registry.Dispatch(ctx)
	verdict := decision.Decide(outcomes)

	for _, fault := range verdict.Faults {
		// A faulted guard provides zero protection; say so loudly.
		fmt.Fprintf(stderr, "[hookguard] %v (guard skipped, action NOT blocked by it)\n", fault.Err)
	}

	// Post-execution events can only advise; the action already ran.
	if ctx.Phase == event.PhasePost && verdict.Status == decision.Blocked {
		fmt.Fprintf(stderr, "[hookguard] post-execution event: findings are advisory only\n")
		verdict.Status = decision.Allowed
	}

	// Overriding. Validation is attempted only against an actual block, and
	// every attempt is audited before the verdict is returned.
	if verdict.Status == decision.Blocked {
		log.append(audit.Record{
			EventType:  audit.ProtectionTriggered,
			Guard:      strings.Join(verdict.BlockingGuards(), ","),
			ActionKind: string(ctx.ActionKind),
			Subject:    subject(ctx),
			Outcome:    "blocked",
		})

		if env.OverrideCode != "" {
			verdict = attemptOverride(verdict, ctx, env, log)
		}
	}

	printVerdict(verdict, env, stdout, stderr)
	return verdict
}

// attemptOverride validates the supplied code and lifts the block on
// success. A rejected code is treated exactly like no code at all: the
// original block stands.
func attemptOverride(verdict decision.Verdict, ctx *event.GuardContext, env hookEnv, log *auditSink) decision.Verdict {
	target := strings.Join(verdict.BlockingGuards(), ",")

	if override.Validate(env.OverrideCode, env.Secret, env.Now()) {
		log.append(audit.Record{
			EventType:  audit.OverrideAccepted,
			Guard:      target,
			ActionKind: string(ctx.ActionKind),
			Subject:    subject(ctx),
			Outcome:    "allowed",
		})
		return decision.Override(verdict)
	}

	log.append(audit.Record{
		EventType:  audit.OverrideRejected,
		Guard:      target,
		ActionKind: string(ctx.ActionKind),
		Subject:    subject(ctx),
		Outcome:    "blocked",
		Detail:     "invalid or expired override code",
	})
	return verdict
}

func printVerdict(verdict decision.Verdict, env hookEnv, stdout, stderr io.Writer) {
	if len(verdict.Triggered) == 0 {
		return
	}
	fmt.Fprint(stdout, decision.Explain(verdict))

	if verdict.Status == decision.Blocked && env.Secret != "" {
		fmt.Fprintf(stderr, "[hookguard] a human operator can lift this block: re-run with %s set to the current code (`hookguard code` prints it)\n", config.EnvOverrideCode)
	}
}

func subject(ctx *event.GuardContext) string {
	if ctx.Command != "" {
		return ctx.Command
	}
	return ctx.FilePath
}

// auditSink wraps the audit logger so that log failures degrade
// observability, never the verdict.
type auditSink struct {
	logger *audit.Logger
	stderr io.Writer
}

func openAudit(path string, stderr io.Writer) *auditSink {
	logger, err := audit.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "[hookguard] audit log unavailable: %v\n", err)
		logger = nil
	}
	return &auditSink{logger: logger, stderr: stderr}
}

func (s *auditSink) append(rec audit.Record) {
	if s.logger == nil {
		return
	}
	if err := s.logger.Append(rec); err != nil {
		fmt.Fprintf(s.stderr, "[hookguard] audit write failed: %v\n", err)
	}
}

func (s *auditSink) close() {
	if s.logger != nil {
		if err := s.logger.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(s.stderr, "[hookguard] audit close failed: %v\n", err)
		}
	}
}

package guard

import (
	"github.com/hookguard/hookguard/internal/event"
)

// Options configures the built-in guard set.
type Options struct {
	// Disabled lists guard names excluded from the registry.
	Disabled []string

	// ProtectedPaths are file patterns for the test-script-edit guard.
	// Empty means DefaultProtectedPaths.
	ProtectedPaths []string

	// ConfigDir is hookguard's own config directory, protected by the
	// guard-config-edit guard.
	ConfigDir string
}

// DefaultRegistry builds a registry with the built-in guard set, minus any
// disabled guards. Registration order is dispatch order.
func DefaultRegistry(opts Options) *Registry {
	protected := opts.ProtectedPaths
	if len(protected) == 0 {
		protected = DefaultProtectedPaths
	}
	disabled := make(map[string]bool, len(opts.Disabled))
	for _, name := range opts.Disabled {
		disabled[name] = true
	}

	r := NewRegistry()
	register := func(g Guard, kinds ...event.ActionKind) {
		if !disabled[g.Name()] {
			r.Register(g, kinds...)
		}
	}

	register(gitNoVerify{}, event.ActionShell)
	register(gitForcePush{}, event.ActionShell)
	register(gitForceWithLease{}, event.ActionShell)
	register(gitHardReset{}, event.ActionShell)
	register(pipeToShell{}, event.ActionShell)
	register(rmRecursiveRoot{}, event.ActionShell)
	register(dockerPrivileged{}, event.ActionShell)
	register(sudoShell{}, event.ActionShell)

	register(testScriptEdit{patterns: protected}, event.ActionFileEdit, event.ActionFileWrite)
	register(guardConfigEdit{configDir: opts.ConfigDir}, event.ActionFileEdit, event.ActionFileWrite)
	register(lintSuppressAdded{}, event.ActionFileEdit)
	register(envFileWrite{}, event.ActionFileEdit, event.ActionFileWrite)

	return r
}

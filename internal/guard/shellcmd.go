package guard

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command is the structural representation of a shell-execution action,
// shared by the command guards so each can reason about executables, flags
// and pipeline shape instead of raw text.
type Command struct {
	// Segments are the pipeline-separated commands.
	// "curl ... | bash" parses into 2 segments.
	Segments []Segment

	// Operators between segments: "|", "&&", "||", ";".
	Operators []string

	// Inner holds commands recovered from one level of indirect execution
	// ("bash -c 'rm -rf /'" yields the inner "rm -rf /").
	Inner []*Command
}

// Segment is a single command within a pipeline.
type Segment struct {
	Raw        string
	Executable string
	Subcommand string            // "commit" for "git commit", "" otherwise
	Args       []string          // positional arguments
	Flags      map[string]string // flag name -> value ("" for bare flags)
}

// HasFlag reports whether any of the given flag names is present.
func (s Segment) HasFlag(names ...string) bool {
	for _, n := range names {
		if _, ok := s.Flags[n]; ok {
			return true
		}
	}
	return false
}

// AllSegments returns the command's segments plus those of inner commands.
func (c *Command) AllSegments() []Segment {
	if c == nil {
		return nil
	}
	segs := make([]Segment, len(c.Segments))
	copy(segs, c.Segments)
	for _, inner := range c.Inner {
		segs = append(segs, inner.AllSegments()...)
	}
	return segs
}

// ParseCommand parses a raw command line into its pipeline structure.
// Commands the shell parser rejects fall back to whitespace splitting so
// guards always see at least a best-effort segmentation.
func ParseCommand(raw string) *Command {
	return parseDepth(raw, 0)
}

const maxInnerDepth = 2

func parseDepth(raw string, depth int) *Command {
	if depth >= maxInnerDepth {
		return nil
	}

	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(raw), "")
	if err != nil {
		return fallbackParse(raw)
	}

	cmd := &Command{}
	for _, stmt := range file.Stmts {
		merge(cmd, stmtCommand(stmt, depth), ";")
	}
	return cmd
}

// merge appends src's segments and operators onto dst, joining the two
// segment runs with op so Operators[i] always sits between Segments[i]
// and Segments[i+1]. Sides that parsed into no segments contribute only
// their inner commands.
func merge(dst, src *Command, op string) {
	dst.Inner = append(dst.Inner, src.Inner...)
	if len(src.Segments) == 0 {
		return
	}
	if len(dst.Segments) > 0 {
		dst.Operators = append(dst.Operators, op)
	}
	dst.Segments = append(dst.Segments, src.Segments...)
	dst.Operators = append(dst.Operators, src.Operators...)
}

func stmtCommand(stmt *syntax.Stmt, depth int) *Command {
	cmd := &Command{}
	if stmt.Cmd == nil {
		return cmd
	}

	switch node := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		seg := callToSegment(node)
		if inner := inlineCode(seg); inner != "" {
			if sub := parseDepth(inner, depth+1); sub != nil {
				cmd.Inner = append(cmd.Inner, sub)
			}
		}
		cmd.Segments = append(cmd.Segments, seg)

	case *syntax.BinaryCmd:
		merge(cmd, stmtCommand(node.X, depth), ";")
		merge(cmd, stmtCommand(node.Y, depth), binaryOp(node.Op))

	case *syntax.Subshell:
		for _, s := range node.Stmts {
			merge(cmd, stmtCommand(s, depth), ";")
		}
	}
	return cmd
}

func callToSegment(call *syntax.CallExpr) Segment {
	seg := Segment{Flags: map[string]string{}}

	words := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		words = append(words, wordText(w))
	}
	if len(words) == 0 {
		return seg
	}
	seg.Raw = strings.Join(words, " ")
	seg.Executable = words[0]
	rest := words[1:]

	// Treat sudo as transparent: skip it and its flags, the real command
	// is what sudo would run.
	if seg.Executable == "sudo" {
		for len(rest) > 0 && strings.HasPrefix(rest[0], "-") {
			rest = rest[1:]
		}
		if len(rest) > 0 {
			seg.Executable = rest[0]
			rest = rest[1:]
		}
	}

	for _, w := range rest {
		switch {
		case strings.HasPrefix(w, "--") && len(w) > 2:
			flag := w[2:]
			if i := strings.Index(flag, "="); i >= 0 {
				seg.Flags[flag[:i]] = flag[i+1:]
			} else {
				seg.Flags[flag] = ""
			}
		case strings.HasPrefix(w, "-") && len(w) > 1:
			for _, ch := range w[1:] {
				seg.Flags[string(ch)] = ""
			}
		default:
			seg.Args = append(seg.Args, w)
		}
	}

	if len(seg.Args) > 0 && subcommandTools[seg.Executable] {
		seg.Subcommand = seg.Args[0]
		seg.Args = seg.Args[1:]
	}
	return seg
}

// fallbackParse handles lines the shell parser rejects: split on pipes, then
// on whitespace.
func fallbackParse(raw string) *Command {
	cmd := &Command{}
	parts := strings.Split(raw, "|")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words := strings.Fields(part)
		seg := Segment{Raw: part, Executable: words[0], Flags: map[string]string{}}
		for _, w := range words[1:] {
			if strings.HasPrefix(w, "-") && len(w) > 1 {
				if strings.HasPrefix(w, "--") {
					flag := strings.TrimPrefix(w, "--")
					if j := strings.Index(flag, "="); j >= 0 {
						seg.Flags[flag[:j]] = flag[j+1:]
					} else {
						seg.Flags[flag] = ""
					}
				} else {
					for _, ch := range w[1:] {
						seg.Flags[string(ch)] = ""
					}
				}
			} else {
				seg.Args = append(seg.Args, w)
			}
		}
		if len(seg.Args) > 0 && subcommandTools[seg.Executable] {
			seg.Subcommand = seg.Args[0]
			seg.Args = seg.Args[1:]
		}
		cmd.Segments = append(cmd.Segments, seg)
		if i < len(parts)-1 {
			cmd.Operators = append(cmd.Operators, "|")
		}
	}
	return cmd
}

func wordText(w *syntax.Word) string {
	var sb strings.Builder
	syntax.NewPrinter().Print(&sb, w)
	return sb.String()
}

func binaryOp(op syntax.BinCmdOperator) string {
	switch op {
	case syntax.Pipe:
		return "|"
	case syntax.AndStmt:
		return "&&"
	case syntax.OrStmt:
		return "||"
	default:
		return op.String()
	}
}

// inlineCode extracts inline code from interpreters invoked with -c.
func inlineCode(seg Segment) string {
	if !shellInterpreters[seg.Executable] {
		return ""
	}
	if _, ok := seg.Flags["c"]; !ok {
		return ""
	}
	if len(seg.Args) == 0 {
		return ""
	}
	return strings.Trim(seg.Args[0], `'"`)
}

var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true,
	"ksh": true, "fish": true,
}

var codeInterpreters = map[string]bool{
	"python": true, "python3": true, "python2": true,
	"node": true, "ruby": true, "perl": true, "php": true,
}

var subcommandTools = map[string]bool{
	"git": true, "docker": true, "npm": true, "pip": true, "pip3": true,
	"yarn": true, "pnpm": true, "cargo": true, "go": true, "kubectl": true,
	"systemctl": true, "apt": true, "apt-get": true, "brew": true,
}

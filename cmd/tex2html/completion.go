package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-tex2html/internal/assets"
	"github.com/alnah/go-tex2html/internal/config"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagEnum // has predefined values
	flagFile // file with glob patterns
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long      string
	Short     string
	Type      flagType
	Desc      string
	Values    []string // for enum flags
	FileGlobs []string // for file flags, empty = any file
	Repeated  bool
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values    []string
	FileGlobs []string
	IsFile    bool
	IsDir     bool
}

// flagCompletionMeta maps flag names to their completion metadata.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"style":         {Values: assets.StyleNames()},
		"math-renderer": {Values: []string{config.RendererMathML, config.RendererMathJax}},
		"log-level":     {Values: []string{"debug", "info", "warn", "error"}},
		"log-format":    {Values: []string{"console", "json"}},

		"config":      {IsFile: true, FileGlobs: []string{"*.yaml", "*.yml"}},
		"preload":     {IsFile: true, FileGlobs: []string{"*.ltxml"}},
		"latexml-bin": {IsFile: true},

		"asset-path": {IsDir: true},
	}
}

// subcommand describes a command word accepted before the flags.
type subcommand struct {
	Name string
	Desc string
	Args []string // completions for its arguments
}

var subcommands = []subcommand{
	{Name: "doctor", Desc: "Check system dependencies", Args: []string{"--json"}},
	{Name: "completion", Desc: "Generate shell completion script", Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}},
}

// extractFlags builds flag definitions from the converter FlagSet.
func extractFlags(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			Repeated: strings.HasSuffix(f.Value.Type(), "Slice"),
		}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type = flagEnum
				fd.Values = m.Values
			case m.IsFile:
				fd.Type = flagFile
				fd.FileGlobs = m.FileGlobs
			case m.IsDir:
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})
	return flags
}

func converterFlags() []flagDef {
	return extractFlags(newFlagSet(&cliFlags{}, io.Discard))
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	flags := converterFlags()
	switch shell {
	case ShellBash:
		return writeScript(w, bashScript(flags))
	case ShellZsh:
		return writeScript(w, zshScript(flags))
	case ShellFish:
		return writeScript(w, fishScript(flags))
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func writeScript(w io.Writer, script string) error {
	if _, err := io.WriteString(w, script); err != nil {
		return fmt.Errorf("writing completion script: %w", err)
	}
	return nil
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) int {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if errors.Is(err, ErrUnsupportedShell) {
			return ExitUsage
		}
		return ExitGeneral
	}
	return ExitSuccess
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(tex2html completion bash)\"          # ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(tex2html completion zsh)\"           # ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  tex2html completion fish > ~/.config/fish/completions/tex2html.fish")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashScript(flags []flagDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for tex2html\n\n")
	b.WriteString("_tex2html_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	for _, sc := range subcommands {
		fmt.Fprintf(&b, "        %s)\n", sc.Name)
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(sc.Args, " "))
		b.WriteString("            return\n            ;;\n")
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range flags {
		if f.Type == flagBool {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", strings.Join(flagNames(f), "|"))
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(&b, "            COMPREPLY=(%s)\n", bashFiles(f.FileGlobs))
		case flagDir:
			b.WriteString("            COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
		default:
			b.WriteString("            COMPREPLY=()\n")
		}
		b.WriteString("            return\n            ;;\n")
	}
	b.WriteString("    esac\n\n")

	var words []string
	for _, f := range flags {
		words = append(words, flagNames(f)...)
	}
	b.WriteString("    if [[ \"${cur}\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(words, " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\") %s)\n", subcommandNames(), bashFiles([]string{"*.tex", "*.html"}))
	b.WriteString("        return\n    fi\n")
	fmt.Fprintf(&b, "    COMPREPLY=(%s)\n", bashFiles([]string{"*.tex", "*.html"}))
	b.WriteString("}\n\n")
	b.WriteString("complete -F _tex2html_completions tex2html\n")

	return b.String()
}

// bashFiles lists files matching globs plus directories.
func bashFiles(globs []string) string {
	if len(globs) == 0 {
		return "$(compgen -f -- \"${cur}\")"
	}
	parts := make([]string, 0, len(globs)+1)
	for _, g := range globs {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"${cur}\")", g))
	}
	parts = append(parts, "$(compgen -d -- \"${cur}\")")
	return strings.Join(parts, " ")
}

func flagNames(f flagDef) []string {
	names := []string{"--" + f.Long}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func subcommandNames() string {
	names := make([]string, len(subcommands))
	for i, sc := range subcommands {
		names[i] = sc.Name
	}
	return strings.Join(names, " ")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func zshScript(flags []flagDef) string {
	var b strings.Builder

	b.WriteString("#compdef tex2html\n\n")
	b.WriteString("_tex2html() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, sc := range subcommands {
		fmt.Fprintf(&b, "        '%s:%s'\n", sc.Name, sc.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    case ${words[2]} in\n")
	for _, sc := range subcommands {
		fmt.Fprintf(&b, "        %s)\n            _values '%s' %s\n            return\n            ;;\n", sc.Name, sc.Name, strings.Join(sc.Args, " "))
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if (( CURRENT == 2 )) && [[ ${words[CURRENT]} != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    _arguments -s \\\n")
	for _, f := range flags {
		fmt.Fprintf(&b, "        %s \\\n", zshSpec(f))
	}
	b.WriteString("        '*:input:_files -g \"*.tex *.html\"'\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _tex2html tex2html\n")

	return b.String()
}

func zshSpec(f flagDef) string {
	desc := strings.NewReplacer("[", "\\[", "]", "\\]", "'", "'\\''").Replace(f.Desc)

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":value:(%s)", strings.Join(f.Values, " "))
	case flagFile:
		if len(f.FileGlobs) > 0 {
			action = fmt.Sprintf(":file:_files -g \"%s\"", strings.Join(f.FileGlobs, " "))
		} else {
			action = ":file:_files"
		}
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value: "
	}

	repeat := ""
	if f.Repeated {
		repeat = "*"
	}
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'%s--%s[%s]%s'", repeat, f.Long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func fishScript(flags []flagDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for tex2html\n\n")
	b.WriteString("function __fish_tex2html_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_tex2html_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	for _, sc := range subcommands {
		fmt.Fprintf(&b, "complete -c tex2html -n __fish_tex2html_needs_command -a %s -d %s\n", sc.Name, fishQuote(sc.Desc))
		fmt.Fprintf(&b, "complete -c tex2html -n '__fish_tex2html_using_command %s' -f -a %s\n", sc.Name, fishQuote(strings.Join(sc.Args, " ")))
	}
	b.WriteString("\n")

	for _, f := range flags {
		line := "complete -c tex2html"
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += " -l " + f.Long
		switch f.Type {
		case flagBool:
		case flagEnum:
			line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
		case flagFile:
			line += " -r -F"
		case flagDir:
			line += " -x -a '(__fish_complete_directories)'"
		default:
			line += " -x"
		}
		b.WriteString(line + " -d " + fishQuote(f.Desc) + "\n")
	}

	return b.String()
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

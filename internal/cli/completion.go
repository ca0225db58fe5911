package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hotspotmap/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for hotspotmap.

Besides subcommands and flags, the scripts complete the inputs each command
reads: floor-plans (.flp) and layer configurations (.lcf) as arguments,
temperature files for -t, and the fixed values of --format, --mode,
--palette, --pdf-engine and --sort.

Bash:
  $ source <(hotspotmap completion bash)

Zsh:
  $ hotspotmap completion zsh > "${fpath[1]}/_hotspotmap"

Fish:
  $ hotspotmap completion fish > ~/.config/fish/completions/hotspotmap.fish

PowerShell:
  PS> hotspotmap completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards, then try:
  $ hotspotmap render ev6.<TAB> -t <TAB> -f svg,<TAB>`,
		Example: `  hotspotmap completion bash > /etc/bash_completion.d/hotspotmap`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeInputFiles completes the single positional argument with files
// of the given extensions.
func completeInputFiles(exts ...string) cobra.CompletionFunc {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeFormats completes a comma-separated format list, offering only
// formats not yet listed.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, _ := cutLast(toComplete, ",")
	listed := strings.Split(done, ",")

	var out []string
	for _, f := range sortedKeys(pipeline.ValidFormats) {
		if slices.Contains(listed, f) {
			continue
		}
		if done != "" {
			f = done + "," + f
		}
		out = append(out, f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func cutLast(s, sep string) (before, after string) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+len(sep):]
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// registerRenderCompletions wires value completion for the render flags.
func registerRenderCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeInputFiles("flp", "lcf")
	_ = cmd.RegisterFlagCompletionFunc("temperature", cobra.FixedCompletions(
		[]string{"steady"}, cobra.ShellCompDirectiveFilterFileExt))
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
		sortedKeys(pipeline.ValidModes), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("pdf-engine", cobra.FixedCompletions(
		sortedKeys(pipeline.ValidEngines), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("palette", cobra.FixedCompletions(
		[]string{"gray", "hotspot"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("config", cobra.FixedCompletions(
		[]string{"toml", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	_ = cmd.RegisterFlagCompletionFunc("output-dir", cobra.FixedCompletions(
		nil, cobra.ShellCompDirectiveFilterDirs))
}

// registerInspectCompletions wires value completion for the inspect flags.
func registerInspectCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeInputFiles("flp")
	_ = cmd.RegisterFlagCompletionFunc("temperature", cobra.FixedCompletions(
		[]string{"steady"}, cobra.ShellCompDirectiveFilterFileExt))
	_ = cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(
		sortKeys, cobra.ShellCompDirectiveNoFileComp))
}

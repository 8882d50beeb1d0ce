package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bundlescope.

To load completions:

Bash:
  $ source <(bundlescope completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ bundlescope completion bash > /etc/bash_completion.d/bundlescope
  # macOS:
  $ bundlescope completion bash > $(brew --prefix)/etc/bash_completion.d/bundlescope

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ bundlescope completion zsh > "${fpath[1]}/_bundlescope"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ bundlescope completion fish | source

  # To load completions for each session, execute once:
  $ bundlescope completion fish > ~/.config/fish/completions/bundlescope.fish

PowerShell:
  PS> bundlescope completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> bundlescope completion powershell > bundlescope.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

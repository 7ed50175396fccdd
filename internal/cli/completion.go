package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the shell completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for depskew.

To load completions:

Bash:
  $ source <(depskew completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ depskew completion bash > /etc/bash_completion.d/depskew
  # macOS:
  $ depskew completion bash > $(brew --prefix)/etc/bash_completion.d/depskew

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ depskew completion zsh > "${fpath[1]}/_depskew"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ depskew completion fish | source

  # To load completions for each session, execute once:
  $ depskew completion fish > ~/.config/fish/completions/depskew.fish

PowerShell:
  PS> depskew completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> depskew completion powershell > depskew.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Stdout)
			}
			return nil
		},
	}

	return cmd
}

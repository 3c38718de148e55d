package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HartBrook/sharpen/internal/template"
)

// NewVariablesCmd creates the variables command.
func NewVariablesCmd() *cobra.Command {
	var source promptSource

	cmd := &cobra.Command{
		Use:   "variables [prompt]",
		Short: "List the {{variables}} in a prompt",
		Example: `  sharpen variables "Translate {{text}} into {{language}}"
  sharpen variables -t "Ad Copy"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			prompt, err := source.read(cmd.InOrStdin(), args, a.library)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := template.ExtractVariables(prompt)
			if len(names) == 0 {
				fmt.Fprintln(out, dim("No variables found."))
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	source.register(cmd)
	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/template"
)

// NewTemplatesCmd creates the templates command.
func NewTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List prompt templates",
		Long: `Lists the built-in templates plus any defined under templates: in config.yaml.
User templates with the same name replace the built-in one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			listTemplates(cmd, a.library)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a template and its variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.Join(args, " ")
			t, ok := a.library.Lookup(name)
			if !ok {
				return errors.Invalid("unknown template %q", name)
			}
			showTemplate(cmd, t)
			return nil
		},
	})

	return cmd
}

func listTemplates(cmd *cobra.Command, lib *template.Library) {
	out := cmd.OutOrStdout()
	all := lib.All()

	for i, category := range lib.Categories() {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, bold(category))
		for _, t := range all {
			if t.CategoryOrDefault() != category {
				continue
			}
			vars := t.Variables()
			if len(vars) == 0 {
				fmt.Fprintf(out, "  %s\n", t.Name)
				continue
			}
			fmt.Fprintf(out, "  %s %s\n", t.Name, dim("("+strings.Join(vars, ", ")+")"))
		}
	}
}

func showTemplate(cmd *cobra.Command, t template.Template) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold(t.Name))
	printInfo(out, "Category", t.CategoryOrDefault())
	if vars := t.Variables(); len(vars) > 0 {
		printInfo(out, "Variables", strings.Join(vars, ", "))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, t.Prompt)
}

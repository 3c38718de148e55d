package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/instruction"
	"github.com/HartBrook/sharpen/internal/session"
	"github.com/HartBrook/sharpen/internal/template"
)

type promptSource struct {
	file     string
	template string
}

func (p *promptSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.file, "file", "f", "", "Read the prompt from a file (- for stdin)")
	cmd.Flags().StringVarP(&p.template, "template", "t", "", "Start from a named template")
}

// read returns the prompt from exactly one of args, --file or --template.
// No source at all yields "".
func (p *promptSource) read(stdin io.Reader, args []string, lib *template.Library) (string, error) {
	given := 0
	for _, set := range []bool{len(args) > 0, p.file != "", p.template != ""} {
		if set {
			given++
		}
	}
	if given > 1 {
		return "", errors.Invalid("give the prompt as an argument, --file or --template, not several")
	}

	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case p.file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case p.file != "":
		data, err := os.ReadFile(p.file)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return string(data), nil
	case p.template != "":
		t, ok := lib.Lookup(p.template)
		if !ok {
			return "", errors.Invalid("unknown template %q (run `sharpen templates` to list them)", p.template)
		}
		return t.Prompt, nil
	}
	return "", nil
}

// parseVars parses repeated key=value flags.
func parseVars(pairs []string) (map[string]string, []string, error) {
	values := make(map[string]string, len(pairs))
	var order []string
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, nil, errors.Invalid("invalid --var %q (use name=value)", pair)
		}
		if _, seen := values[name]; !seen {
			order = append(order, name)
		}
		values[name] = value
	}
	return values, order, nil
}

type optimizeOptions struct {
	source promptSource
	vars   []string
	target string
	output string
}

// NewOptimizeCmd creates the optimize command.
func NewOptimizeCmd() *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize [prompt]",
		Short: "Rewrite a prompt for a target model",
		Long: `Sends the prompt to the configured provider and prints the rewritten prompt.

Placeholders written as {{name}} are filled from --var flags before sending.
Placeholders without a value are replaced with an empty string. The result is saved to history.`,
		Example: `  sharpen optimize "Summarize this article"
  sharpen optimize -t "Summarize Content" --var text="$(cat notes.txt)"
  sharpen optimize -f prompt.txt --target anthropic -o better.txt
  echo "Write a haiku" | sharpen optimize -f -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd.Context(), cmd, args, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringArrayVar(&opts.vars, "var", nil, "Set a variable (name=value), repeatable")
	cmd.Flags().StringVar(&opts.target, "target", "", "Target model: gemini, anthropic, chatgpt, llama (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Also write the optimized prompt to a file")

	return cmd
}

func runOptimize(ctx context.Context, cmd *cobra.Command, args []string, opts *optimizeOptions) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	prompt, err := opts.source.read(cmd.InOrStdin(), args, a.library)
	if err != nil {
		return err
	}

	sess := a.session()
	sess.SetPrompt(prompt)

	if err := applyTarget(sess, opts.target); err != nil {
		return err
	}
	if err := applyVars(sess, opts.vars); err != nil {
		return err
	}

	return optimizeAndReport(ctx, cmd, sess, opts.output)
}

func applyTarget(sess *session.Session, name string) error {
	if name == "" {
		return nil
	}
	target, err := instruction.ParseTarget(name)
	if err != nil {
		return err
	}
	return sess.SetTarget(target)
}

func applyVars(sess *session.Session, pairs []string) error {
	values, order, err := parseVars(pairs)
	if err != nil {
		return err
	}
	for _, name := range order {
		if err := sess.SetVariable(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// optimizeAndReport runs the session and prints the result. The optimized
// text goes to stdout alone so it can be piped; status goes to stderr.
func optimizeAndReport(ctx context.Context, cmd *cobra.Command, sess *session.Session, output string) error {
	stderr := cmd.ErrOrStderr()

	ws := sess.Snapshot()
	if missing := template.Missing(ws.Variables, sess.Variables()); len(missing) > 0 {
		printWarning(stderr, "Unfilled variables sent empty: %s", strings.Join(missing, ", "))
	}

	fmt.Fprintf(stderr, "%s\n", dim(fmt.Sprintf("Optimizing for %s...", ws.Target.DisplayName())))

	res, err := sess.Optimize(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Entry.OptimizedPrompt)

	if output != "" {
		if err := os.WriteFile(output, []byte(res.Entry.OptimizedPrompt+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		printSuccess(stderr, "Wrote optimized prompt to %s", output)
	}
	printSuccess(stderr, "Saved to history (id %d)", res.Entry.ID)
	return nil
}

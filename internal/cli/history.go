package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/github"
	"github.com/HartBrook/sharpen/internal/history"
)

// gistCreator is the part of *github.Client used by publish.
type gistCreator interface {
	CreateGist(ctx context.Context, gist github.Gist) (*github.GistResult, error)
}

// Replaced in tests.
var newGistClient = func() (gistCreator, error) {
	client, err := github.NewClient()
	if err != nil {
		return nil, err
	}
	return client, nil
}

type historyFilter struct {
	favorites bool
	search    string
}

func (f *historyFilter) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.favorites, "favorites", false, "Only starred entries")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Case-insensitive text filter")
}

func (f *historyFilter) view() history.View {
	if f.favorites {
		return history.ViewFavorites
	}
	return history.ViewHistory
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var (
		filter historyFilter
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past optimizations",
		Long: `Lists past optimizations, newest first. The most recent 100 are kept.

Use the subcommands to inspect, star, reuse or publish entries.`,
		Example: `  sharpen history
  sharpen history --favorites
  sharpen history --search sql --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.history.Filter(filter.view(), filter.search)
			listHistory(cmd, entries, limit)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 = all)")

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryFavoriteCmd())
	cmd.AddCommand(newHistoryReuseCmd())
	cmd.AddCommand(newHistoryPublishCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			e, ok := a.history.Get(id)
			if !ok {
				return errors.EntryNotFound(id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", bold(e.TargetModel.DisplayName()), favoriteMark(e))
			printInfo(out, "ID", strconv.FormatInt(e.ID, 10))
			printInfo(out, "Created", e.CreatedAt().Format(time.DateTime))
			fmt.Fprintln(out)
			fmt.Fprintln(out, info("Original"))
			fmt.Fprintln(out, e.OriginalPrompt)
			fmt.Fprintln(out)
			fmt.Fprintln(out, info("Optimized"))
			fmt.Fprintln(out, e.OptimizedPrompt)
			return nil
		},
	}
}

func newHistoryFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"star"},
		Short:   "Toggle the star on an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := a.history.ToggleFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			if e.IsFavorite {
				printSuccess(cmd.OutOrStdout(), "Starred %d", e.ID)
			} else {
				printSuccess(cmd.OutOrStdout(), "Unstarred %d", e.ID)
			}
			return nil
		},
	}
}

func newHistoryReuseCmd() *cobra.Command {
	var (
		target string
		vars   []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "reuse <id>",
		Short: "Optimize an entry's result again",
		Long: `Loads the optimized prompt and target of an entry and runs it through the
optimizer again. Use --target to retarget it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.session()
			if err := sess.Reuse(id); err != nil {
				return err
			}
			if err := applyTarget(sess, target); err != nil {
				return err
			}
			if err := applyVars(sess, vars); err != nil {
				return err
			}
			return optimizeAndReport(ctx, cmd, sess, output)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Override the entry's target model")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Set a variable (name=value), repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Also write the optimized prompt to a file")

	return cmd
}

func newHistoryPublishCmd() *cobra.Command {
	var (
		filter historyFilter
		public bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish history as a GitHub gist",
		Long: `Renders the selected entries as markdown and creates a gist.
Authentication uses the gh CLI, or SHARPEN_GITHUB_TOKEN.`,
		Example: `  sharpen history publish --favorites
  sharpen history publish --search email --public`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.history.Filter(filter.view(), filter.search)
			if len(entries) == 0 {
				return errors.Invalid("no history entries match")
			}

			title := "Sharpen history"
			if filter.favorites {
				title = "Sharpen favorites"
			}

			client, err := newGistClient()
			if err != nil {
				return err
			}
			result, err := client.CreateGist(cmd.Context(), github.Gist{
				Description: fmt.Sprintf("%s (%d prompts)", title, len(entries)),
				Public:      public,
				Files: map[string]github.GistFile{
					"sharpen-history.md": {Content: history.Markdown(title, entries)},
				},
			})
			if err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "Published %d entries to %s", len(entries), result.HTMLURL)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVar(&public, "public", false, "Create a public gist (default secret)")

	return cmd
}

func listHistory(cmd *cobra.Command, entries []history.Entry, limit int) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, dim("No history entries."))
		return
	}

	shown := entries
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	for _, e := range shown {
		fmt.Fprintf(out, "%s %s %s %s\n",
			info(strconv.FormatInt(e.ID, 10)),
			favoriteMark(e),
			dim(fmt.Sprintf("[%s]", e.TargetModel)),
			preview(e.OriginalPrompt, 60),
		)
	}
	if len(shown) < len(entries) {
		fmt.Fprintln(out, dim(fmt.Sprintf("... %d more (use --limit 0 to show all)", len(entries)-len(shown))))
	}
}

func favoriteMark(e history.Entry) string {
	if e.IsFavorite {
		return success("★")
	}
	return "☆"
}

// preview collapses whitespace and truncates to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func parseEntryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Invalid("invalid history id %q", s)
	}
	return id, nil
}

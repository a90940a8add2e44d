package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain/item"
	"github.com/kailas-cloud/folio/internal/domain/search/query"
	"github.com/kailas-cloud/folio/internal/domain/search/result"
	"github.com/kailas-cloud/folio/internal/seed"
	searchuc "github.com/kailas-cloud/folio/internal/usecase/search"
)

const defaultSeedFile = "config/seed.yaml"

type searchFlags struct {
	file      string
	kind      string
	category  string
	limit     int
	noHistory bool
}

func newSearchCommand(opts *options) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search a seed file offline",
		Long: `Ranks the items of a seed file the same way the folio server does.
An empty query lists every item, optionally narrowed with --category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, f, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", defaultSeedFile, "Seed file to search")
	cmd.Flags().StringVarP(&f.kind, "kind", "k", string(item.Project), "Collection: projects or posts")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Only show items in this category")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 10, "Maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not record the query in recent searches")
	return cmd
}

func runSearch(opts *options, f *searchFlags, text string) error {
	kind, ok := item.ParseKind(f.kind)
	if !ok {
		return fmt.Errorf("unknown kind %q (want projects or posts)", f.kind)
	}
	file, err := seed.Load(f.file)
	if err != nil {
		return err
	}
	items, err := file.Items(kind)
	if err != nil {
		return err
	}

	q, err := query.New(text, f.category)
	if err != nil {
		return err
	}
	out := searchuc.NewIndex(items, 0).Search(q)
	printOutcome(opts, out, f.limit)

	if f.noHistory || strings.TrimSpace(text) == "" {
		return nil
	}
	h, err := opts.history()
	if err != nil {
		opts.logger.Warn("Recent searches unavailable", zap.Error(err))
		return nil
	}
	if _, err := h.Add(text); err != nil {
		opts.logger.Warn("Failed to record recent search", zap.Error(err))
	}
	return nil
}

func printOutcome(opts *options, out result.Outcome, limit int) {
	if len(out.Matches) == 0 {
		fmt.Fprintln(opts.out, "No results.")
		printSuggestions(opts, out.Stats.Suggestions)
		return
	}

	tw := tabwriter.NewWriter(opts.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tTITLE\tCATEGORY\tMATCHED")
	for i := range out.Matches {
		if limit > 0 && i == limit {
			break
		}
		m := &out.Matches[i]
		it := m.Item()
		fmt.Fprintf(tw, "%.0f\t%s\t%s\t%s\t%s\n", m.Score(), it.ID(), it.Title(), it.Category(), m.Matched())
	}
	_ = tw.Flush()

	fmt.Fprintf(opts.out, "\n%d result(s) in %dms\n", out.Stats.TotalResults, out.Stats.SearchTimeMillis())
	printSuggestions(opts, out.Stats.Suggestions)
}

func printSuggestions(opts *options, suggestions []string) {
	if len(suggestions) > 0 {
		fmt.Fprintf(opts.out, "Did you mean: %s\n", strings.Join(suggestions, ", "))
	}
}
